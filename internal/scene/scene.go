package scene

import (
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/domain"
)

// Границы рабочей поверхности. Кубы живут на плоскости Y=0,
// рука и камера - над ней.
const (
	SurfaceMinX = -1.5
	SurfaceMaxX = 1.5
	SurfaceMinZ = -1.0
	SurfaceMaxZ = 1.0

	CubeSize = 0.3
)

// Позиции служебных объектов сцены.
var (
	// BinPos - корзина, куда рука складывает красные кубы.
	// Стоит за пределами рабочей поверхности, чтобы спавнер
	// физически не мог поставить куб внутрь.
	BinPos = domain.Vector3{X: 2.2, Y: 0, Z: 0}

	// ArmHomePos - домашняя поза эффектора.
	ArmHomePos = domain.Vector3{X: 0, Y: 1.5, Z: 0}
)

// Scene - реестр объектов сцены. Все мутации происходят из цикла
// движка, поэтому блокировки не нужны.
type Scene struct {
	Arm *domain.Entity
	Bin *domain.Entity

	entities []*domain.Entity
	byID     map[domain.EntityID]*domain.Entity
}

// New создает сцену с рукой и корзиной, без кубов.
func New() *Scene {
	s := &Scene{
		byID: make(map[domain.EntityID]*domain.Entity),
	}

	s.Arm = &domain.Entity{
		ID:     "arm",
		Type:   domain.EntityTypeArm,
		Name:   "Mechanic Arm",
		Pos:    ArmHomePos,
		Render: &domain.RenderComponent{Color: domain.Color{R: 180, G: 180, B: 190}, Size: 0.15},
	}
	s.Bin = &domain.Entity{
		ID:     "bin",
		Type:   domain.EntityTypeBin,
		Name:   "Drop Bin",
		Pos:    BinPos,
		Render: &domain.RenderComponent{Color: domain.Color{R: 40, G: 40, B: 60}, Size: 0.5},
	}

	s.Add(s.Arm)
	s.Add(s.Bin)
	return s
}

// Add регистрирует сущность в реестре.
func (s *Scene) Add(e *domain.Entity) {
	s.entities = append(s.entities, e)
	s.byID[e.ID] = e
}

// Get возвращает сущность по ID или nil.
func (s *Scene) Get(id domain.EntityID) *domain.Entity {
	return s.byID[id]
}

// Entities возвращает все живые сущности.
func (s *Scene) Entities() []*domain.Entity {
	return s.entities
}

// Cubes возвращает все кубы, еще не убранные со сцены.
func (s *Scene) Cubes() []*domain.Entity {
	var cubes []*domain.Entity
	for _, e := range s.entities {
		if e.Cube != nil && !e.Removed {
			cubes = append(cubes, e)
		}
	}
	return cubes
}

// CubeCount возвращает число кубов на сцене (для лимита спавнера).
func (s *Scene) CubeCount() int {
	n := 0
	for _, e := range s.entities {
		if e.Cube != nil && !e.Removed {
			n++
		}
	}
	return n
}

// NearestFreeRedCube ищет ближайший к точке красный куб,
// который еще не в очереди и не в захвате.
// Возвращает nil, если таких нет.
func (s *Scene) NearestFreeRedCube(from domain.Vector3) *domain.Entity {
	var best *domain.Entity
	var bestDist float32

	for _, e := range s.entities {
		if e.Removed || !e.IsRed() {
			continue
		}
		if e.Cube.Queued || e.Cube.Held {
			continue
		}
		d := from.DistanceTo(e.Pos)
		if best == nil || d < bestDist {
			best = e
			bestDist = d
		}
	}
	return best
}

// Remove помечает сущность на удаление. Фактическая чистка - в Sweep.
func (s *Scene) Remove(id domain.EntityID) {
	if e, ok := s.byID[id]; ok {
		e.Removed = true
	}
}

// Sweep выкидывает помеченные сущности из реестра.
// Вызывается движком в конце тика, чтобы хендлеры в середине тика
// не получили сюрприз в виде сдвинувшегося слайса.
func (s *Scene) Sweep() {
	kept := s.entities[:0]
	for _, e := range s.entities {
		if e.Removed {
			delete(s.byID, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	s.entities = kept
}
