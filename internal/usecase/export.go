package usecase

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/signal-map/internal/domain"
	"github.com/signal-map/internal/pkg/errors"
	"go.uber.org/zap"
)

var csvHeader = []string{"Latitude", "Longitude"}

// ExportCSV разбивает датасет по типу и строит по CSV на тип (в порядке идентификаторов).
// Пустой датасет - errors.ErrNothingToExport, пустые файлы не создаются.
func ExportCSV(ds domain.Dataset) ([]domain.ExportFile, error) {
	if ds.IsEmpty() {
		return nil, errors.ErrNothingToExport
	}

	partition := domain.Partition(ds)
	files := make([]domain.ExportFile, 0, partition.Len())
	for _, t := range partition.SortedTypes() {
		file, err := exportType(t, partition.Records(t))
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func exportType(t domain.SignalTypeID, records []domain.SignalRecord) (domain.ExportFile, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return domain.ExportFile{}, fmt.Errorf("csv write header: %w", err)
	}
	for _, r := range records {
		row := []string{formatCoord(r.Lat), formatCoord(r.Lng)}
		if err := w.Write(row); err != nil {
			return domain.ExportFile{}, fmt.Errorf("csv write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return domain.ExportFile{}, fmt.Errorf("csv flush: %w", err)
	}

	return domain.ExportFile{
		Type:     t,
		Filename: domain.ExportFilename(t),
		Rows:     len(records),
		Content:  buf.Bytes(),
	}, nil
}

// formatCoord - кратчайшая десятичная запись, которая читается обратно без потерь
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ExportModule хранит источник выгрузки - текущий датасет
type ExportModule struct {
	source domain.Dataset
	logger *zap.Logger
}

// NewExportModule создает модуль выгрузки
func NewExportModule(logger *zap.Logger) *ExportModule {
	return &ExportModule{logger: logger}
}

// OnDatasetChanged - наблюдатель DatasetStore
func (m *ExportModule) OnDatasetChanged(change DatasetChange) {
	m.source = change.Dataset
}

// Available - есть ли что выгружать
func (m *ExportModule) Available() bool {
	return !m.source.IsEmpty()
}

// Export - CSV по всем типам текущего датасета
func (m *ExportModule) Export() ([]domain.ExportFile, error) {
	return ExportCSV(m.source)
}

// ExportType - CSV одного типа
func (m *ExportModule) ExportType(t domain.SignalTypeID) (domain.ExportFile, error) {
	files, err := m.Export()
	if err != nil {
		return domain.ExportFile{}, err
	}
	for _, f := range files {
		if f.Type == t {
			return f, nil
		}
	}
	return domain.ExportFile{}, errors.ErrLayerNotFound.WithDetails(map[string]interface{}{
		"type": string(t),
	})
}

// ExportArchive - все CSV одним zip-архивом
func (m *ExportModule) ExportArchive() ([]byte, error) {
	files, err := m.Export()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.Filename)
		if err != nil {
			return nil, fmt.Errorf("zip create %s: %w", f.Filename, err)
		}
		if _, err := w.Write(f.Content); err != nil {
			return nil, fmt.Errorf("zip write %s: %w", f.Filename, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("zip close: %w", err)
	}

	m.logger.Debug("Export archive built", zap.Int("files", len(files)))
	return buf.Bytes(), nil
}
