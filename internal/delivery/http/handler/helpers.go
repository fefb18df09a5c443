package handler

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/signal-map/internal/pkg/errors"
	"github.com/signal-map/internal/usecase"
)

// invalidRequest оборачивает ошибку валидации в AppError
func invalidRequest(err error) error {
	return errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
		"reason": err.Error(),
	})
}

// lookupSession находит сессию по :id
func lookupSession(c *fiber.Ctx, sessions *usecase.SessionRegistry) (*usecase.ViewUseCase, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, errors.ErrSessionNotFound.WithDetails(map[string]interface{}{
			"session_id": c.Params("id"),
		})
	}
	return sessions.Get(id)
}

// readUpload читает файл из multipart-поля; отсутствие поля - пустой файл
func readUpload(c *fiber.Ctx, field string) (string, []byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil, nil
	}
	content, err := readFileHeader(fh)
	if err != nil {
		return "", nil, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	}
	return fh.Filename, content, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
