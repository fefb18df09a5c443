package decoder

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/signal-map/internal/config"
	"github.com/signal-map/internal/domain"
	"github.com/signal-map/internal/domain/repository"
	"github.com/signal-map/internal/pkg/errors"
	"github.com/signal-map/internal/pkg/validator"
	"go.uber.org/zap"
)

const (
	// maxResponseBytes - ограничение на размер ответа декодера
	maxResponseBytes = 32 << 20

	fieldFile    = "file"
	fieldHexData = "hex_data"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewDecoderClient создает клиент внешнего сервиса декодирования
func NewDecoderClient(cfg *config.DecoderConfig, logger *zap.Logger) repository.DecoderRepository {
	return &client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    time.Duration(cfg.RequestTimeout) * time.Second,
		logger:     logger,
	}
}

// errorBody - ответ декодера с ошибкой
type errorBody struct {
	Error string `json:"error"`
}

// fixBody - одиночная точка без типа, которую отдаёт /process_data
type fixBody struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Decode отправляет файл или hex-строку в декодер и разбирает ответ
func (c *client) Decode(ctx context.Context, req domain.DecodeRequest) (domain.Dataset, error) {
	body, contentType, err := buildMultipart(req)
	if err != nil {
		c.logger.Error("Failed to build decode request body", zap.Error(err))
		return domain.Dataset{}, errors.ErrTransport.WithDetails(map[string]interface{}{
			"cause": err.Error(),
		})
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, req.Endpoint)

	c.logger.Debug("Calling decoder",
		zap.String("url", url),
		zap.String("endpoint", string(req.Endpoint)),
		zap.Int("payload_bytes", body.Len()))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return domain.Dataset{}, errors.ErrTransport.WithDetails(map[string]interface{}{
			"cause": err.Error(),
		})
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Failed to execute request", zap.Error(err))
		if stderrors.Is(err, context.DeadlineExceeded) {
			return domain.Dataset{}, errors.ErrTransport.WithMessage("The decoding service did not respond in time.")
		}
		return domain.Dataset{}, errors.ErrTransport.WithDetails(map[string]interface{}{
			"cause": err.Error(),
		})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.logger.Error("Failed to read response", zap.Error(err))
		return domain.Dataset{}, errors.ErrTransport.WithDetails(map[string]interface{}{
			"cause": err.Error(),
		})
	}

	ds, err := c.parseResponse(resp.StatusCode, raw)
	if err != nil {
		return domain.Dataset{}, err
	}

	c.logger.Debug("Decoder call successful",
		zap.String("endpoint", string(req.Endpoint)),
		zap.Int("records", ds.Len()))

	return ds, nil
}

// parseResponse - массив записей, {error} или, для /process_data, одиночная точка
func (c *client) parseResponse(statusCode int, raw []byte) (domain.Dataset, error) {
	trimmed := bytes.TrimSpace(raw)

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var eb errorBody
		if err := json.Unmarshal(trimmed, &eb); err == nil && eb.Error != "" {
			c.logger.Warn("Decoder reported error",
				zap.Int("status_code", statusCode),
				zap.String("error", eb.Error))
			return domain.Dataset{}, errors.DecodeServiceError(eb.Error)
		}
	}

	if statusCode < 200 || statusCode >= 300 {
		c.logger.Error("Decoder returned error status",
			zap.Int("status_code", statusCode),
			zap.String("body", truncate(string(trimmed), 512)))
		return domain.Dataset{}, errors.ErrTransport.WithDetails(map[string]interface{}{
			"status_code": statusCode,
		})
	}

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []domain.SignalRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			c.logger.Error("Failed to decode response", zap.Error(err))
			return domain.Dataset{}, errors.ErrTransport.WithDetails(map[string]interface{}{
				"cause": err.Error(),
			})
		}
		for i := range records {
			if err := validator.Validate(&records[i]); err != nil {
				c.logger.Warn("Decoder returned invalid record", zap.Int("index", i), zap.Error(err))
				return domain.Dataset{}, errors.DecodeServiceError(
					fmt.Sprintf("Decoded record %d has an invalid type or coordinates.", i),
				)
			}
		}
		return domain.NewDataset(records), nil
	}

	var fix fixBody
	if err := json.Unmarshal(trimmed, &fix); err == nil && fix.Latitude != nil && fix.Longitude != nil {
		record := domain.SignalRecord{Type: "A", Lat: *fix.Latitude, Lng: *fix.Longitude}
		if err := validator.Validate(&record); err != nil {
			return domain.Dataset{}, errors.DecodeServiceError("Decoded position has invalid coordinates.")
		}
		return domain.NewDataset([]domain.SignalRecord{record}), nil
	}

	c.logger.Error("Decoder returned unexpected body", zap.String("body", truncate(string(trimmed), 512)))
	return domain.Dataset{}, errors.ErrTransport
}

func buildMultipart(req domain.DecodeRequest) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	if req.IsHex() {
		if err := w.WriteField(fieldHexData, req.HexData); err != nil {
			return nil, "", fmt.Errorf("write hex field: %w", err)
		}
	} else {
		filename := req.Filename
		if filename == "" {
			filename = "upload.bin"
		}
		part, err := w.CreateFormFile(fieldFile, filename)
		if err != nil {
			return nil, "", fmt.Errorf("create form file: %w", err)
		}
		if _, err := part.Write(req.Content); err != nil {
			return nil, "", fmt.Errorf("write form file: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
