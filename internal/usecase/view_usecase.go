package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/signal-map/internal/domain"
	"github.com/signal-map/internal/domain/repository"
	"github.com/signal-map/internal/pkg/errors"
	"github.com/signal-map/internal/usecase/dto"
	"go.uber.org/zap"
)

// StatusObserver - наблюдатель переходов состояния (метрики, стрим событий).
// Не влияет на датасет.
type StatusObserver interface {
	OnStatus(ctx context.Context, event domain.StatusEvent)
}

// ViewConfig - параметры представления одной сессии
type ViewConfig struct {
	Layers         LayerConfig
	MaxUploadBytes int
}

// ViewUseCase - оркестратор одной сессии: отправка -> декодирование -> замена датасета ->
// обновление слоёв, графиков и выгрузки -> статус для пользователя.
type ViewUseCase struct {
	id             uuid.UUID
	decoder        repository.DecoderRepository
	store          *DatasetStore
	layers         *LayerManager
	aggregates     *AggregationEngine
	exports        *ExportModule
	observers      []StatusObserver
	maxUploadBytes int
	logger         *zap.Logger
}

// NewViewUseCase создает оркестратор со своим хранилищем и производными компонентами
func NewViewUseCase(
	id uuid.UUID,
	decoder repository.DecoderRepository,
	cfg ViewConfig,
	logger *zap.Logger,
	observers ...StatusObserver,
) *ViewUseCase {
	logger = logger.With(zap.String("session_id", id.String()))

	layers := NewLayerManager(cfg.Layers, logger)
	aggregates := NewAggregationEngine()
	exports := NewExportModule(logger)

	return &ViewUseCase{
		id:             id,
		decoder:        decoder,
		store:          NewDatasetStore(layers, aggregates, exports, logger),
		layers:         layers,
		aggregates:     aggregates,
		exports:        exports,
		observers:      observers,
		maxUploadBytes: cfg.MaxUploadBytes,
		logger:         logger,
	}
}

// ID - идентификатор сессии
func (uc *ViewUseCase) ID() uuid.UUID {
	return uc.id
}

// SubmitFile отправляет файл в /process_file
func (uc *ViewUseCase) SubmitFile(ctx context.Context, filename string, content []byte) (*dto.ViewSnapshot, error) {
	if err := uc.checkFile(content); err != nil {
		return nil, err
	}
	return uc.submit(ctx, domain.DecodeRequest{
		Endpoint: domain.EndpointProcessFile,
		Filename: filename,
		Content:  content,
	})
}

// SubmitData отправляет файл в общий /process_data
func (uc *ViewUseCase) SubmitData(ctx context.Context, filename string, content []byte) (*dto.ViewSnapshot, error) {
	if err := uc.checkFile(content); err != nil {
		return nil, err
	}
	return uc.submit(ctx, domain.DecodeRequest{
		Endpoint: domain.EndpointProcessData,
		Filename: filename,
		Content:  content,
	})
}

// SubmitHex отправляет hex-строку в /process_hex.
// Проверяется только пустой ввод, некорректный hex отклоняет сам декодер.
func (uc *ViewUseCase) SubmitHex(ctx context.Context, hexData string) (*dto.ViewSnapshot, error) {
	hexData = strings.TrimSpace(hexData)
	if hexData == "" {
		return nil, errors.ErrNoHexData
	}
	return uc.submit(ctx, domain.DecodeRequest{
		Endpoint: domain.EndpointProcessHex,
		HexData:  hexData,
	})
}

func (uc *ViewUseCase) checkFile(content []byte) error {
	if len(content) == 0 {
		return errors.ErrNoFileSelected
	}
	if uc.maxUploadBytes > 0 && len(content) > uc.maxUploadBytes {
		return errors.ErrFileTooLarge.WithDetails(map[string]interface{}{
			"max_bytes": uc.maxUploadBytes,
		})
	}
	return nil
}

// submit - Submitting -> {Succeeded, Failed}. Ответ применяется, только если отправка осталась последней.
func (uc *ViewUseCase) submit(ctx context.Context, req domain.DecodeRequest) (*dto.ViewSnapshot, error) {
	seq := uc.store.Begin()
	uc.publish(ctx, domain.StatusEvent{
		Sequence: seq,
		Phase:    domain.PhaseSubmitting,
		Outcome:  domain.OutcomeStarted,
		Message:  domain.MessageProcessing,
		Endpoint: req.Endpoint,
	})

	uc.logger.Info("Submitting payload to decoder",
		zap.Uint64("sequence", seq),
		zap.String("endpoint", string(req.Endpoint)))

	start := time.Now()
	ds, err := uc.decoder.Decode(ctx, req)
	elapsed := time.Since(start)

	decodeErr := classifyDecodeError(err)

	state, applied := uc.store.Replace(seq, ds, decodeErr)
	if !applied {
		uc.publish(ctx, domain.StatusEvent{
			Sequence: seq,
			Phase:    domain.PhaseSubmitting,
			Outcome:  domain.OutcomeSuperseded,
			Endpoint: req.Endpoint,
			Duration: elapsed,
		})
		return nil, errors.ErrSuperseded.WithDetails(map[string]interface{}{
			"sequence": seq,
		})
	}

	status := statusOf(state)
	event := domain.StatusEvent{
		Sequence:    seq,
		Phase:       status.Phase,
		Outcome:     outcomeOf(state),
		Message:     status.Message,
		RecordCount: state.Dataset.Len(),
		Types:       state.Partition.Types(),
		ErrorCode:   status.ErrorCode,
		Endpoint:    req.Endpoint,
		Duration:    elapsed,
	}
	uc.publish(ctx, event)

	if decodeErr != nil {
		uc.logger.Warn("Decode failed",
			zap.Uint64("sequence", seq),
			zap.Duration("elapsed", elapsed),
			zap.Error(decodeErr))
		return nil, decodeErr
	}

	uc.logger.Info("Dataset replaced",
		zap.Uint64("sequence", seq),
		zap.Int("records", ds.Len()),
		zap.Duration("elapsed", elapsed))

	snapshot := uc.Snapshot()
	return &snapshot, nil
}

// classifyDecodeError - всё, что не ошибка сервиса декодирования, считается ошибкой транспорта
func classifyDecodeError(err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := errors.As(err); ok {
		if appErr.Code == errors.CodeDecodeService || appErr.Code == errors.CodeTransport {
			return appErr
		}
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.ErrTransport.WithMessage("The decoding service did not respond in time.")
	}
	return errors.ErrTransport.WithDetails(map[string]interface{}{
		"cause": err.Error(),
	})
}

// Clear сбрасывает сессию в исходное состояние
func (uc *ViewUseCase) Clear(ctx context.Context) dto.ViewSnapshot {
	uc.store.Clear()
	uc.publish(ctx, domain.StatusEvent{
		Phase:   domain.PhaseIdle,
		Outcome: domain.OutcomeCleared,
		Message: domain.MessageIdle,
	})
	return uc.Snapshot()
}

// SetVisible показывает или скрывает слой типа сигнала
func (uc *ViewUseCase) SetVisible(t domain.SignalTypeID, visible bool) (*dto.LayersResponse, error) {
	err := uc.store.Update(func(DatasetState) error {
		return uc.layers.SetVisible(t, visible)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Debug("Layer visibility changed",
		zap.String("type", string(t)),
		zap.Bool("visible", visible))

	layers := uc.Layers()
	return &layers, nil
}

// Snapshot - согласованное состояние: статус, слои, графики, выгрузка
func (uc *ViewUseCase) Snapshot() dto.ViewSnapshot {
	var snapshot dto.ViewSnapshot
	uc.store.View(func(state DatasetState) {
		snapshot = dto.ViewSnapshot{
			SessionID:      uc.id.String(),
			Status:         statusOf(state),
			Layers:         uc.layers.Groups(),
			Viewport:       uc.layers.Viewport(),
			FilterControls: uc.layers.FilterControls(),
			Charts:         dto.NewChartsResponse(uc.aggregates.Snapshot()),
			Coordinates:    coordinateLines(state.Dataset),
			Export:         uc.exportList(),
		}
	})
	return snapshot
}

// Status - строка статуса
func (uc *ViewUseCase) Status() domain.Status {
	return statusOf(uc.store.State())
}

// Layers - группы слоёв и область просмотра
func (uc *ViewUseCase) Layers() dto.LayersResponse {
	var resp dto.LayersResponse
	uc.store.View(func(DatasetState) {
		resp = dto.LayersResponse{
			Layers:         uc.layers.Groups(),
			Rendered:       len(uc.layers.Rendered()),
			Viewport:       uc.layers.Viewport(),
			FilterControls: uc.layers.FilterControls(),
		}
	})
	return resp
}

// Aggregates - снимок статистики
func (uc *ViewUseCase) Aggregates() domain.AggregateSnapshot {
	var snapshot domain.AggregateSnapshot
	uc.store.View(func(DatasetState) {
		snapshot = uc.aggregates.Snapshot()
	})
	return snapshot
}

// Charts - отсортированные ряды для графиков
func (uc *ViewUseCase) Charts() dto.ChartsResponse {
	return dto.NewChartsResponse(uc.Aggregates())
}

// Export - CSV-файлы по типам текущего датасета
func (uc *ViewUseCase) Export() ([]domain.ExportFile, error) {
	var (
		files []domain.ExportFile
		err   error
	)
	uc.store.View(func(DatasetState) {
		files, err = uc.exports.Export()
	})
	return files, err
}

// ExportType - CSV одного типа
func (uc *ViewUseCase) ExportType(t domain.SignalTypeID) (domain.ExportFile, error) {
	var (
		file domain.ExportFile
		err  error
	)
	uc.store.View(func(DatasetState) {
		file, err = uc.exports.ExportType(t)
	})
	return file, err
}

// ExportArchive - все CSV в zip
func (uc *ViewUseCase) ExportArchive() ([]byte, error) {
	var (
		archive []byte
		err     error
	)
	uc.store.View(func(DatasetState) {
		archive, err = uc.exports.ExportArchive()
	})
	return archive, err
}

// exportList вызывается под блокировкой чтения хранилища
func (uc *ViewUseCase) exportList() dto.ExportListResponse {
	files, err := uc.exports.Export()
	if err != nil {
		return dto.ExportListResponse{Available: false, Message: errors.ErrNothingToExport.Message}
	}
	return dto.ExportListResponse{Available: true, Files: files}
}

func (uc *ViewUseCase) publish(ctx context.Context, event domain.StatusEvent) {
	event.SessionID = uc.id
	event.At = time.Now().UTC()
	ctx = context.WithoutCancel(ctx)
	for _, o := range uc.observers {
		o.OnStatus(ctx, event)
	}
}

// statusOf выводит строку статуса из состояния хранилища
func statusOf(state DatasetState) domain.Status {
	status := domain.Status{
		Phase:       state.Phase,
		Sequence:    state.Sequence,
		RecordCount: state.Dataset.Len(),
	}

	switch state.Phase {
	case domain.PhaseSubmitting:
		status.Message = domain.MessageProcessing
		status.SignalTypes = domain.TypesDetecting
	case domain.PhaseFailed:
		message := "An unknown error occurred."
		if appErr, ok := errors.As(state.Err); ok {
			message = appErr.Message
			status.ErrorCode = appErr.Code
		} else if state.Err != nil {
			message = state.Err.Error()
		}
		status.Message = "Error: " + message
		status.SignalTypes = domain.TypesError
	case domain.PhaseSucceeded:
		if state.Dataset.IsEmpty() {
			status.Message = domain.MessageNoData
			status.SignalTypes = domain.TypesNone
			status.Empty = true
			break
		}
		types := domain.JoinTypes(state.Partition.Types())
		status.Message = fmt.Sprintf("Processed %d data points. Found signal types: %s", state.Dataset.Len(), types)
		status.SignalTypes = types
	default:
		return domain.IdleStatus()
	}
	return status
}

func outcomeOf(state DatasetState) domain.Outcome {
	switch state.Phase {
	case domain.PhaseFailed:
		if errors.HasCode(state.Err, errors.CodeDecodeService) {
			return domain.OutcomeDecodeError
		}
		return domain.OutcomeTransportError
	case domain.PhaseSucceeded:
		if state.Dataset.IsEmpty() {
			return domain.OutcomeEmpty
		}
		return domain.OutcomeData
	default:
		return domain.OutcomeCleared
	}
}

// coordinateLines - список точек в порядке декодера
func coordinateLines(ds domain.Dataset) []string {
	lines := make([]string, ds.Len())
	for i := range lines {
		r := ds.At(i)
		lines[i] = fmt.Sprintf("Type: %s, Lat: %.5f, Lng: %.5f", r.Type, r.Lat, r.Lng)
	}
	return lines
}
