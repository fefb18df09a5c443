package dto

// SubmitHexRequest - отправка hex-строки
type SubmitHexRequest struct {
	HexData string `json:"hex_data" form:"hex_data"`
}

// SetLayerVisibilityRequest - показать/скрыть слой типа сигнала
type SetLayerVisibilityRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

// LayerTypeParam - тип сигнала из пути запроса
type LayerTypeParam struct {
	Type string `validate:"required,max=32,printascii"`
}
