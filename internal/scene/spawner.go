package scene

import (
	"fmt"
	"math/rand"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/domain"
	"github.com/tathagata48/Robo-Mechanic-Arm/pkg/logger"
)

// Цвет красных кубов. Подобран так, чтобы детектор на той стороне
// (HSV-диапазон красного) уверенно его ловил.
var redColor = domain.Color{R: 210, G: 38, B: 34}

// Палитра нейтральных кубов. Без красных оттенков,
// иначе vision-сервер начнет таскать не те кубы.
var neutralPalette = []domain.Color{
	{R: 52, G: 120, B: 200}, // синий
	{R: 60, G: 170, B: 80},  // зеленый
	{R: 230, G: 190, B: 50}, // желтый
	{R: 140, G: 90, B: 190}, // фиолетовый
}

// Spawner периодически подбрасывает кубы на рабочую поверхность.
// Весь рандом идет через собственный rng с фиксированным сидом,
// чтобы сессия воспроизводилась при реплее.
type Spawner struct {
	rng *rand.Rand

	Interval  int64   // тиков между спавнами
	RedChance float32 // доля красных кубов
	MaxCubes  int     // лимит кубов на сцене

	seq int // счетчик для последовательных ID
}

// NewSpawner создает спавнер с заданным сидом.
func NewSpawner(seed int64, interval int64, redChance float32, maxCubes int) *Spawner {
	return &Spawner{
		rng:       rand.New(rand.NewSource(seed)),
		Interval:  interval,
		RedChance: redChance,
		MaxCubes:  maxCubes,
	}
}

// Tick спавнит куб, если пришло время и есть место.
// Возвращает новый куб или nil.
func (sp *Spawner) Tick(tick int64, s *Scene) *domain.Entity {
	if sp.Interval <= 0 || tick%sp.Interval != 0 {
		return nil
	}
	if s.CubeCount() >= sp.MaxCubes {
		return nil
	}

	tag := domain.TagCube
	if sp.rng.Float32() < sp.RedChance {
		tag = domain.TagRedCube
	}
	return sp.Spawn(s, tag)
}

// Spawn ставит куб с указанным тегом на свободное место.
// Пустой тег - случайный выбор по RedChance (отладочный спавн с монитора).
func (sp *Spawner) Spawn(s *Scene, tag string) *domain.Entity {
	if tag == "" {
		tag = domain.TagCube
		if sp.rng.Float32() < sp.RedChance {
			tag = domain.TagRedCube
		}
	}

	pos, ok := sp.findSpot(s)
	if !ok {
		logger.WithComponent("scene").Warn("No free spot for a new cube, skipping spawn")
		return nil
	}

	color := redColor
	if tag != domain.TagRedCube {
		color = neutralPalette[sp.rng.Intn(len(neutralPalette))]
	}

	sp.seq++
	cube := &domain.Entity{
		ID:     domain.EntityID(fmt.Sprintf("cube_%04d", sp.seq)),
		Type:   domain.EntityTypeCube,
		Name:   tag,
		Pos:    pos,
		Render: &domain.RenderComponent{Color: color, Size: CubeSize},
		Cube:   &domain.CubeComponent{Tag: tag},
	}
	s.Add(cube)
	return cube
}

// findSpot подбирает позицию на поверхности без пересечений
// с уже стоящими кубами. Кубы в захвате не считаются препятствием.
func (sp *Spawner) findSpot(s *Scene) (domain.Vector3, bool) {
	const attempts = 16
	minGap := float32(CubeSize * 1.5)

	for i := 0; i < attempts; i++ {
		pos := domain.Vector3{
			X: SurfaceMinX + sp.rng.Float32()*(SurfaceMaxX-SurfaceMinX),
			Y: CubeSize / 2,
			Z: SurfaceMinZ + sp.rng.Float32()*(SurfaceMaxZ-SurfaceMinZ),
		}

		blocked := false
		for _, other := range s.Cubes() {
			if other.Cube.Held {
				continue
			}
			if pos.DistanceTo(other.Pos) < minGap {
				blocked = true
				break
			}
		}
		if !blocked {
			return pos, true
		}
	}
	return domain.Vector3{}, false
}
