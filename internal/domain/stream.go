package domain

import (
	"time"

	"github.com/google/uuid"
)

// StreamViewStatus - стрим переходов состояния сессий
const StreamViewStatus = "stream:signal:status"

// StatusEvent - событие перехода состояния, публикуется наблюдателям
type StatusEvent struct {
	SessionID   uuid.UUID      `json:"session_id"`
	Sequence    uint64         `json:"sequence"`
	Phase       Phase          `json:"phase"`
	Outcome     Outcome        `json:"outcome"`
	Message     string         `json:"message"`
	RecordCount int            `json:"record_count"`
	Types       []SignalTypeID `json:"types,omitempty"`
	ErrorCode   string         `json:"error_code,omitempty"`
	Endpoint    DecodeEndpoint `json:"endpoint,omitempty"`
	Duration    time.Duration  `json:"duration_ns,omitempty"`
	At          time.Time      `json:"at"`
}

// IsTerminal - отправка завершилась (успехом или ошибкой)
func (e StatusEvent) IsTerminal() bool {
	return e.Phase == PhaseSucceeded || e.Phase == PhaseFailed
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
