package render

import (
	"image"
	"image/color"
	"sort"

	"github.com/tathagata48/Robo-Mechanic-Arm/internal/domain"
	"github.com/tathagata48/Robo-Mechanic-Arm/internal/scene"
)

// Примитивный софтверный растеризатор: камера висит над столом и
// смотрит вертикально вниз, кубы проецируются в закрашенные квадраты,
// масштабируемые глубиной. Рендеринг настоящего движка сюда не
// переносится - vision-пайплайну достаточно цветовых пятен,
// а детерминированная картинка упрощает тесты.

// Camera - параметры виртуальной камеры над сценой.
type Camera struct {
	Width  int     // пиксели
	Height int     // пиксели
	Y      float32 // высота камеры над плоскостью стола
	Focal  float32 // фокусное расстояние в пикселях
}

// DefaultCamera покрывает всю рабочую поверхность с запасом
// и дает красному кубу долю кадра заметно выше порога детектора.
func DefaultCamera() Camera {
	return Camera{Width: 320, Height: 240, Y: 3.0, Focal: 230}
}

var tableColor = color.RGBA{R: 88, G: 88, B: 92, A: 255}

// Project переводит мировую точку в пиксельные координаты и
// возвращает масштаб (пикселей на мировую единицу) на этой глубине.
func (c Camera) Project(p domain.Vector3) (px, py int, scale float32) {
	depth := c.Y - p.Y
	if depth < 0.1 {
		depth = 0.1 // объект у самой линзы, не делим на ноль
	}
	scale = c.Focal / depth
	px = c.Width/2 + int(p.X*scale)
	py = c.Height/2 + int(p.Z*scale)
	return px, py, scale
}

// Frame рисует текущее состояние сцены.
func Frame(c Camera, s *scene.Scene) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))

	// Фон - стол
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = tableColor.R
		img.Pix[i+1] = tableColor.G
		img.Pix[i+2] = tableColor.B
		img.Pix[i+3] = 255
	}

	// Сортируем по высоте: что выше, то рисуется позже и перекрывает.
	// Важно для куба в захвате - он летит над остальными.
	entities := append([]*domain.Entity(nil), s.Entities()...)
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].Pos.Y < entities[j].Pos.Y
	})

	for _, e := range entities {
		if e.Render == nil || e.Removed {
			continue
		}
		px, py, scale := c.Project(e.Pos)
		half := int(e.Render.Size * scale / 2)
		if half < 1 {
			half = 1
		}
		fillSquare(img, px, py, half, e.Render.Color)
	}

	return img
}

// fillSquare закрашивает квадрат с центром (cx, cy), обрезая по кадру.
func fillSquare(img *image.RGBA, cx, cy, half int, c domain.Color) {
	bounds := img.Bounds()
	for y := cy - half; y <= cy+half; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := cx - half; x <= cx+half; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
}
