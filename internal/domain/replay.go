package domain

import "encoding/json"

// ReplayAction - запись одной команды извне (vision-сервер или монитор)
type ReplayAction struct {
	Tick    int64           `json:"tick"`
	Action  ActionType      `json:"action"`
	Source  string          `json:"source"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ReplaySession - полная запись сессии. Сид спавнера плюс поток
// команд полностью определяют прогон: по ним движок воспроизводит
// сессию без vision-сервера.
type ReplaySession struct {
	SessionID string         `json:"sessionId"`
	Seed      int64          `json:"seed"`
	Timestamp int64          `json:"timestamp"`
	Actions   []ReplayAction `json:"actions"`
}
