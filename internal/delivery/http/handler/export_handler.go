package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/signal-map/internal/domain"
	"github.com/signal-map/internal/pkg/utils"
	"github.com/signal-map/internal/pkg/validator"
	"github.com/signal-map/internal/usecase"
	"github.com/signal-map/internal/usecase/dto"
)

const (
	contentTypeCSV = "text/csv; charset=utf-8"
	contentTypeZip = "application/zip"
	archiveName    = "signal_data.zip"
)

// ExportHandler - выгрузка датасета сессии в CSV
type ExportHandler struct {
	sessions *usecase.SessionRegistry
	logger   *zap.Logger
}

// NewExportHandler - создание нового ExportHandler
func NewExportHandler(sessions *usecase.SessionRegistry, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// List godoc
// @Summary Доступные файлы выгрузки
// @Description По одному CSV на тип сигнала. Пустой датасет - NOTHING_TO_EXPORT.
// @Tags Export
// @Produce json
// @Param id path string true "ID сессии"
// @Success 200 {object} utils.SuccessResponse{data=dto.ExportListResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/export [get]
func (h *ExportHandler) List(c *fiber.Ctx) error {
	view, err := lookupSession(c, h.sessions)
	if err != nil {
		return utils.SendError(c, err)
	}

	files, err := view.Export()
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.ExportListResponse{
		Available: true,
		Files:     files,
	}, &utils.Meta{Total: len(files)})
}

// Download godoc
// @Summary Скачать CSV одного типа
// @Tags Export
// @Produce text/csv
// @Param id path string true "ID сессии"
// @Param type path string true "Тип сигнала"
// @Success 200 {file} file "signal_<type>_data.csv"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/export/{type} [get]
func (h *ExportHandler) Download(c *fiber.Ctx) error {
	view, err := lookupSession(c, h.sessions)
	if err != nil {
		return utils.SendError(c, err)
	}

	param := dto.LayerTypeParam{Type: c.Params("type")}
	if err := validator.Validate(&param); err != nil {
		return utils.SendError(c, invalidRequest(err))
	}

	file, err := view.ExportType(domain.SignalTypeID(param.Type))
	if err != nil {
		return utils.SendError(c, err)
	}

	h.logger.Debug("CSV export",
		zap.String("session_id", view.ID().String()),
		zap.String("file", file.Filename),
		zap.Int("rows", file.Rows))
	return utils.SendAttachment(c, file.Filename, contentTypeCSV, file.Content)
}

// Archive godoc
// @Summary Скачать все CSV одним архивом
// @Tags Export
// @Produce application/zip
// @Param id path string true "ID сессии"
// @Success 200 {file} file "signal_data.zip"
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/sessions/{id}/export.zip [get]
func (h *ExportHandler) Archive(c *fiber.Ctx) error {
	view, err := lookupSession(c, h.sessions)
	if err != nil {
		return utils.SendError(c, err)
	}

	archive, err := view.ExportArchive()
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendAttachment(c, archiveName, contentTypeZip, archive)
}
