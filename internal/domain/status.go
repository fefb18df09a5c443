package domain

import "strings"

// Phase - фаза обработки отправки
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// Outcome - итог шага обработки, используется наблюдателями (метрики, стрим)
type Outcome string

const (
	OutcomeStarted        Outcome = "started"
	OutcomeData           Outcome = "data"
	OutcomeEmpty          Outcome = "empty"
	OutcomeDecodeError    Outcome = "decode_error"
	OutcomeTransportError Outcome = "transport_error"
	OutcomeSuperseded     Outcome = "superseded"
	OutcomeCleared        Outcome = "cleared"
)

// Статусные строки для пользователя
const (
	MessageIdle       = "No data processed yet."
	MessageProcessing = "Processing..."
	MessageNoData     = "No valid coordinates found in the data."

	TypesIdle      = "N/A"
	TypesDetecting = "Detecting..."
	TypesNone      = "None"
	TypesError     = "Error"
)

// Status - то, что видит пользователь в строке статуса
type Status struct {
	Phase       Phase  `json:"phase"`
	Message     string `json:"message"`
	SignalTypes string `json:"signal_types"`
	RecordCount int    `json:"record_count"`
	Empty       bool   `json:"empty"`
	ErrorCode   string `json:"error_code,omitempty"`
	Sequence    uint64 `json:"sequence"`
}

// IdleStatus - исходное состояние до первой отправки
func IdleStatus() Status {
	return Status{
		Phase:       PhaseIdle,
		Message:     MessageIdle,
		SignalTypes: TypesIdle,
	}
}

// JoinTypes - список типов для строки статуса
func JoinTypes(types []SignalTypeID) string {
	if len(types) == 0 {
		return TypesNone
	}
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
