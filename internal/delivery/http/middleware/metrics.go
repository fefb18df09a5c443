package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/signal-map/internal/observability"
)

// Metrics считает запросы по шаблону маршрута, чтобы id сессий не раздували метки
func Metrics(collector *observability.Collector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		if route == "" || route == "/" {
			route = "unmatched"
		}
		collector.ObserveHTTP(c.Method(), route, c.Response().StatusCode(), time.Since(start))
		return err
	}
}
