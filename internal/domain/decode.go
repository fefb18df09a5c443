package domain

// DecodeEndpoint - эндпоинт внешнего сервиса декодирования
type DecodeEndpoint string

const (
	EndpointProcessFile DecodeEndpoint = "process_file"
	EndpointProcessHex  DecodeEndpoint = "process_hex"
	EndpointProcessData DecodeEndpoint = "process_data"
)

// DecodeRequest - одна отправка в сервис декодирования
type DecodeRequest struct {
	Endpoint DecodeEndpoint
	Filename string
	Content  []byte
	HexData  string
}

// IsHex - отправка hex-строки
func (r DecodeRequest) IsHex() bool {
	return r.Endpoint == EndpointProcessHex
}
