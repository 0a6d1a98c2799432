package domain

import "github.com/chewxy/math32"

// Vector3 - позиция/направление в мировых координатах сцены.
// Используем float32, как движок: точности хватает, а кадровые
// вычисления (проекция, интерполяция) становятся дешевле.
type Vector3 struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// DistanceTo возвращает евклидово расстояние до другой точки.
func (v Vector3) DistanceTo(o Vector3) float32 {
	return v.Sub(o).Length()
}

// MoveToward сдвигает точку к цели не более чем на maxDelta.
// Это пошаговый аналог Vector3.MoveTowards из движка:
// контроллер руки вызывает его каждый тик.
func (v Vector3) MoveToward(target Vector3, maxDelta float32) Vector3 {
	delta := target.Sub(v)
	dist := delta.Length()
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return v.Add(delta.Scale(maxDelta / dist))
}

// Color - RGB цвет для растеризатора и DTO монитора.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}
