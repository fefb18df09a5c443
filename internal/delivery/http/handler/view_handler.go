package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/signal-map/internal/domain"
	"github.com/signal-map/internal/pkg/utils"
	"github.com/signal-map/internal/pkg/validator"
	"github.com/signal-map/internal/usecase"
	"github.com/signal-map/internal/usecase/dto"
)

// ViewHandler - отправка данных на декодирование и управление слоями сессии
type ViewHandler struct {
	sessions *usecase.SessionRegistry
	logger   *zap.Logger
}

// NewViewHandler - создание нового ViewHandler
func NewViewHandler(sessions *usecase.SessionRegistry, logger *zap.Logger) *ViewHandler {
	return &ViewHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// ProcessFile godoc
// @Summary Декодировать файл
// @Description Отправляет файл в сервис декодирования (/process_file) и заменяет датасет сессии результатом
// @Tags View
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID сессии"
// @Param file formData file true "Файл с сигналами"
// @Success 200 {object} utils.SuccessResponse{data=dto.ViewSnapshot}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse "Ответ устарел: была отправлена более новая"
// @Failure 422 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/process_file [post]
func (h *ViewHandler) ProcessFile(c *fiber.Ctx) error {
	return h.submitUpload(c, func(ctx context.Context, view *usecase.ViewUseCase, name string, content []byte) (*dto.ViewSnapshot, error) {
		return view.SubmitFile(ctx, name, content)
	})
}

// ProcessData godoc
// @Summary Декодировать файл (общий эндпоинт)
// @Description Отправляет файл в общий эндпоинт сервиса декодирования (/process_data)
// @Tags View
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID сессии"
// @Param file formData file true "Файл с сигналами"
// @Success 200 {object} utils.SuccessResponse{data=dto.ViewSnapshot}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/process_data [post]
func (h *ViewHandler) ProcessData(c *fiber.Ctx) error {
	return h.submitUpload(c, func(ctx context.Context, view *usecase.ViewUseCase, name string, content []byte) (*dto.ViewSnapshot, error) {
		return view.SubmitData(ctx, name, content)
	})
}

type uploadSubmit func(ctx context.Context, view *usecase.ViewUseCase, name string, content []byte) (*dto.ViewSnapshot, error)

func (h *ViewHandler) submitUpload(c *fiber.Ctx, submit uploadSubmit) error {
	view, err := lookupSession(c, h.sessions)
	if err != nil {
		return utils.SendError(c, err)
	}

	name, content, err := readUpload(c, "file")
	if err != nil {
		return utils.SendError(c, err)
	}

	start := time.Now()
	snapshot, err := submit(c.UserContext(), view, name, content)
	if err != nil {
		return utils.SendError(c, err)
	}
	return sendSnapshot(c, snapshot, start)
}

// ProcessHex godoc
// @Summary Декодировать hex-строку
// @Description Отправляет hex-строку в сервис декодирования (/process_hex). Принимает JSON или форму с полем hex_data.
// @Tags View
// @Accept json,x-www-form-urlencoded,multipart/form-data
// @Produce json
// @Param id path string true "ID сессии"
// @Param request body dto.SubmitHexRequest true "Hex-данные"
// @Success 200 {object} utils.SuccessResponse{data=dto.ViewSnapshot}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/process_hex [post]
func (h *ViewHandler) ProcessHex(c *fiber.Ctx) error {
	view, err := lookupSession(c, h.sessions)
	if err != nil {
		return utils.SendError(c, err)
	}

	var req dto.SubmitHexRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, invalidRequest(err))
		}
	}

	start := time.Now()
	snapshot, err := view.SubmitHex(c.UserContext(), req.HexData)
	if err != nil {
		return utils.SendError(c, err)
	}
	return sendSnapshot(c, snapshot, start)
}

func sendSnapshot(c *fiber.Ctx, snapshot *dto.ViewSnapshot, start time.Time) error {
	return utils.SendSuccess(c, snapshot, &utils.Meta{
		Total:    snapshot.Status.RecordCount,
		Sequence: snapshot.Status.Sequence,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000,
	})
}

// Clear godoc
// @Summary Очистить сессию
// @Description Удаляет датасет, слои, графики и возвращает вид на весь мир. Устаревшие отправки отбрасываются.
// @Tags View
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.ViewSnapshot}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/clear [post]
func (h *ViewHandler) Clear(c *fiber.Ctx) error {
	view, err := lookupSession(c, h.sessions)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, view.Clear(c.UserContext()), nil)
}

// GetLayers godoc
// @Summary Слои карты
// @Tags View
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.LayersResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/layers [get]
func (h *ViewHandler) GetLayers(c *fiber.Ctx) error {
	view, err := lookupSession(c, h.sessions)
	if err != nil {
		return utils.SendError(c, err)
	}
	layers := view.Layers()
	return utils.SendSuccess(c, layers, &utils.Meta{Total: len(layers.Layers)})
}

// SetLayerVisibility godoc
// @Summary Показать или скрыть слой
// @Description Меняет видимость группы маркеров одного типа сигнала. Область просмотра не пересчитывается.
// @Tags View
// @Accept json
// @Produce json
// @Param id path string true "ID сессии"
// @Param type path string true "Тип сигнала"
// @Param request body dto.SetLayerVisibilityRequest true "Видимость"
// @Success 200 {object} utils.SuccessResponse{data=dto.LayersResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/layers/{type} [put]
func (h *ViewHandler) SetLayerVisibility(c *fiber.Ctx) error {
	view, err := lookupSession(c, h.sessions)
	if err != nil {
		return utils.SendError(c, err)
	}

	param := dto.LayerTypeParam{Type: c.Params("type")}
	if err := validator.Validate(&param); err != nil {
		return utils.SendError(c, invalidRequest(err))
	}

	var req dto.SetLayerVisibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, invalidRequest(err))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, invalidRequest(err))
	}

	layers, err := view.SetVisible(domain.SignalTypeID(param.Type), *req.Visible)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, layers, nil)
}

// GetAggregates godoc
// @Summary Статистика для графиков
// @Description Количество записей по типам и по широтным поясам шириной 10 градусов
// @Tags View
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.ChartsResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/aggregates [get]
func (h *ViewHandler) GetAggregates(c *fiber.Ctx) error {
	view, err := lookupSession(c, h.sessions)
	if err != nil {
		return utils.SendError(c, err)
	}
	aggregates := view.Aggregates()
	return utils.SendSuccess(c, dto.NewChartsResponse(aggregates), &utils.Meta{Total: aggregates.Total()})
}
