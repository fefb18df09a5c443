package errors

import "net/http"

const (
	CodeUserInput       = "USER_INPUT_ERROR"
	CodeDecodeService   = "DECODE_SERVICE_ERROR"
	CodeTransport       = "TRANSPORT_ERROR"
	CodeNothingExport   = "NOTHING_TO_EXPORT"
	CodeLayerNotFound   = "LAYER_NOT_FOUND"
	CodeSessionNotFound = "SESSION_NOT_FOUND"
	CodeSuperseded      = "SUBMISSION_SUPERSEDED"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

var (
	// ErrNoFileSelected - отправка без выбранного файла
	ErrNoFileSelected = New(
		CodeUserInput,
		"Please select a file first.",
		http.StatusBadRequest,
	)

	// ErrNoHexData - отправка без hex-строки
	ErrNoHexData = New(
		CodeUserInput,
		"Please enter hex data.",
		http.StatusBadRequest,
	)

	ErrFileTooLarge = New(
		CodeUserInput,
		"File is too large.",
		http.StatusRequestEntityTooLarge,
	)

	// ErrDecodeService - сервис декодирования явно сообщил об ошибке, сообщение заменяется на его текст
	ErrDecodeService = New(
		CodeDecodeService,
		"Decoding failed",
		http.StatusUnprocessableEntity,
	)

	// ErrTransport - запрос к сервису декодирования не завершился
	ErrTransport = New(
		CodeTransport,
		"An unknown error occurred.",
		http.StatusBadGateway,
	)

	ErrNothingToExport = New(
		CodeNothingExport,
		"No data to export",
		http.StatusNotFound,
	)

	ErrLayerNotFound = New(
		CodeLayerNotFound,
		"Layer not found",
		http.StatusNotFound,
	)

	ErrSessionNotFound = New(
		CodeSessionNotFound,
		"Session not found",
		http.StatusNotFound,
	)

	// ErrSuperseded - ответ пришёл после более новой отправки и был отброшен
	ErrSuperseded = New(
		CodeSuperseded,
		"Submission was superseded by a newer one",
		http.StatusConflict,
	)

	ErrInvalidRequest = New(
		CodeInvalidRequest,
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		CodeInternal,
		"Internal server error",
		http.StatusInternalServerError,
	)
)

// DecodeServiceError - ошибка с дословным сообщением сервиса декодирования
func DecodeServiceError(message string) *AppError {
	return ErrDecodeService.WithMessage(message)
}
