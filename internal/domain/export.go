package domain

import "fmt"

// ExportFile - один CSV-файл выгрузки
type ExportFile struct {
	Type     SignalTypeID `json:"type"`
	Filename string       `json:"filename"`
	Rows     int          `json:"rows"`
	Content  []byte       `json:"-"`
}

// ExportFilename - имя файла выгрузки для типа
func ExportFilename(t SignalTypeID) string {
	return fmt.Sprintf("signal_%s_data.csv", t)
}
