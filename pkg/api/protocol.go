package api

import "encoding/json"

// --- СЕРВЕР -> МОНИТОР ---

// Snapshot - корневой объект, который движок рассылает наблюдателям
// после каждого тика. Это полный слепок сцены: кубы, рука, очередь
// задач и состояние канала к vision-серверу.
type Snapshot struct {
	// Type тип сообщения. На данный момент всегда "UPDATE".
	Type string `json:"type"`

	// Tick текущий тик движка.
	Tick int64 `json:"tick"`

	// Vision состояние TCP-канала к vision-серверу.
	Vision VisionStatus `json:"vision"`

	// Arm состояние руки-манипулятора.
	Arm ArmView `json:"arm"`

	// Cubes все кубы на сцене.
	Cubes []CubeView `json:"cubes"`

	// Queue ID кубов, ожидающих подбора, в порядке очереди.
	Queue []string `json:"queue,omitempty"`

	// Events события с прошлого слепка (триггеры анимации, спавны).
	Events []EventView `json:"events,omitempty"`

	// Logs новые записи журнала с прошлого слепка.
	Logs []LogEntry `json:"logs,omitempty"`
}

// VisionStatus описывает здоровье соединения с vision-сервером.
type VisionStatus struct {
	Connected   bool   `json:"connected"`
	FramesSent  uint64 `json:"framesSent"`
	Commands    uint64 `json:"commands"`
	Reconnects  uint64 `json:"reconnects"`
	LastCommand string `json:"lastCommand,omitempty"`
}

// ArmView это DTO руки-манипулятора.
type ArmView struct {
	Pos struct {
		X float32 `json:"x"`
		Y float32 `json:"y"`
		Z float32 `json:"z"`
	} `json:"pos"`

	// Phase текущая фаза контроллера (IDLE, MOVE_TO_TARGET, ...).
	Phase string `json:"phase"`

	// Holding ID куба в захвате, пустая строка если захват открыт.
	Holding string `json:"holding,omitempty"`
}

// CubeView это DTO одного куба сцены.
type CubeView struct {
	ID  string `json:"id"`
	Tag string `json:"tag"` // RedCube / Cube

	Pos struct {
		X float32 `json:"x"`
		Y float32 `json:"y"`
		Z float32 `json:"z"`
	} `json:"pos"`

	Color struct {
		R uint8 `json:"r"`
		G uint8 `json:"g"`
		B uint8 `json:"b"`
	} `json:"color"`

	Queued bool `json:"queued,omitempty"`
	Held   bool `json:"held,omitempty"`
}

// EventView это DTO события движка.
type EventView struct {
	Tick    int64  `json:"tick"`
	Kind    string `json:"kind"`
	Trigger string `json:"trigger,omitempty"`
	Entity  string `json:"entity,omitempty"`
}

// LogEntry представляет одну запись в журнале движка.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, WARN, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// --- МОНИТОР -> СЕРВЕР ---

// ClientCommand - команда от наблюдателя (отладочная поверхность).
// Идет через тот же канал команд, что и команды vision-сервера.
type ClientCommand struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SpawnPayload - параметры отладочного спавна куба.
type SpawnPayload struct {
	// Tag "RedCube" или "Cube". Пустая строка - случайный выбор спавнера.
	Tag string `json:"tag,omitempty"`
}

// EntityPayload - ссылка на объект сцены.
// Пустой TargetID означает "на усмотрение хендлера" (movered без
// payload наводится на ближайший красный куб).
type EntityPayload struct {
	TargetID string `json:"targetId,omitempty"`
}
