package domain

// Типы сущностей
const (
	EntityTypeCube = "CUBE"
	EntityTypeArm  = "ARM"
	EntityTypeBin  = "BIN"
)

// Теги сцены. Vision-сервер реагирует на красные кубы,
// поэтому тег назначается при спавне по цвету.
const (
	TagRedCube = "RedCube"
	TagCube    = "Cube"
)

// Команды vision-сервера (ASCII на проводе, без терминатора).
const (
	CommandIdle    = "idle"
	CommandMoveRed = "movered"
	CommandPickup  = "pickup"
)

// Триггеры анимации. Сама анимация - на стороне движка,
// мы только фиксируем контрактные события.
const (
	TriggerGrip    = "GripClose"
	TriggerRelease = "GripOpen"
)
