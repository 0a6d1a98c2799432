package domain

import "encoding/json"

// Источники команд. Нужны для записи сессии и для логов.
const (
	SourceVision  = "vision"
	SourceMonitor = "monitor"
	SourceReplay  = "replay"
)

// InternalCommand - команда для движка.
// Использует ActionType вместо string: быстро и безопасно.
type InternalCommand struct {
	Action  ActionType      // Число, не строка
	Source  string          // vision / monitor / replay
	Payload json.RawMessage // Сырые данные (парсятся хендлером)
}
