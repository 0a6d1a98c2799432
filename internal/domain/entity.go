package domain

// EntityID - строковый идентификатор объекта сцены.
// Спавнер выдает последовательные ID (cube_0001, ...), чтобы
// запись сессии воспроизводилась детерминированно.
type EntityID string

func (id EntityID) String() string { return string(id) }

// --- КОМПОНЕНТЫ ---

// RenderComponent - как объект выглядит для растеризатора и монитора
type RenderComponent struct {
	Color Color   `json:"color"`
	Size  float32 `json:"size"` // длина ребра куба в мировых единицах
}

// CubeComponent - состояние куба в конвейере pick-and-place
type CubeComponent struct {
	Tag string `json:"tag"` // RedCube / Cube

	// Held - куб зажат в захвате и следует за эффектором
	Held bool `json:"held"`

	// Queued - куб уже стоит в очереди контроллера.
	// Защита от повторной постановки: один куб - одна задача.
	Queued bool `json:"queued"`
}

// Entity - объект сцены. Компоненты-указатели: nil = компонента нет.
type Entity struct {
	ID   EntityID `json:"id"`
	Type string   `json:"type"` // CUBE, ARM, BIN
	Name string   `json:"name"`

	Pos Vector3 `json:"pos"`

	Render *RenderComponent `json:"render,omitempty"`
	Cube   *CubeComponent   `json:"cube,omitempty"`

	// Removed - объект убран со сцены (положен в корзину).
	// Реестр чистит такие сущности в конце тика.
	Removed bool `json:"-"`
}

// IsRed сообщает, реагирует ли на этот объект vision-пайплайн.
func (e *Entity) IsRed() bool {
	return e.Cube != nil && e.Cube.Tag == TagRedCube
}
