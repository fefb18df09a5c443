package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/signal-map/internal/pkg/errors"
	"github.com/signal-map/internal/pkg/utils"
	"github.com/signal-map/internal/usecase"
	"github.com/signal-map/internal/usecase/dto"
)

// SessionHandler - создание, чтение и закрытие сессий просмотра
type SessionHandler struct {
	sessions *usecase.SessionRegistry
	logger   *zap.Logger
}

// NewSessionHandler - создание нового SessionHandler
func NewSessionHandler(sessions *usecase.SessionRegistry, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Create godoc
// @Summary Новая сессия
// @Description Открывает сессию просмотра с пустым датасетом и видом на весь мир
// @Tags Sessions
// @Produce json
// @Success 201 {object} utils.SuccessResponse{data=dto.SessionResponse}
// @Router /api/v1/sessions [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	view := h.sessions.Create()
	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, dto.SessionResponse{
		SessionID: view.ID().String(),
		Status:    view.Status(),
	}, nil)
}

// Get godoc
// @Summary Состояние сессии
// @Description Согласованный снимок: статус, слои, область просмотра, фильтры, графики, список координат, выгрузка
// @Tags Sessions
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.ViewSnapshot}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id} [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	view, err := lookupSession(c, h.sessions)
	if err != nil {
		return utils.SendError(c, err)
	}

	snapshot := view.Snapshot()
	return utils.SendSuccess(c, snapshot, &utils.Meta{
		Total:    snapshot.Status.RecordCount,
		Sequence: snapshot.Status.Sequence,
	})
}

// Delete godoc
// @Summary Закрыть сессию
// @Tags Sessions
// @Param id path string true "ID сессии"
// @Success 204
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id} [delete]
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.SendError(c, errors.ErrSessionNotFound)
	}
	if err := h.sessions.Delete(id); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
