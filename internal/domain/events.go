package domain

// Event - событие движка, уходящее в лог сессии и на монитор.
// Сейчас это триггеры анимации захвата и факты спавна/удаления кубов.
type Event struct {
	Tick    int64    `json:"tick"`
	Kind    string   `json:"kind"`              // TRIGGER, SPAWN, REMOVE
	Trigger string   `json:"trigger,omitempty"` // GripClose / GripOpen
	Entity  EntityID `json:"entity,omitempty"`
}

// Виды событий
const (
	EventTrigger = "TRIGGER"
	EventSpawn   = "SPAWN"
	EventRemove  = "REMOVE"
)
