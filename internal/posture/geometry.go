package posture

import (
	"fmt"
	"math"
)

// Point2D точка в координатах изображения: начало в левом верхнем углу, ось Y направлена вниз
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vector2D разность двух точек
type Vector2D struct {
	X float64
	Y float64
}

// vertical направлен вверх в координатах изображения
var vertical = Vector2D{X: 0, Y: -1}

// Sub возвращает вектор from -> to
func Sub(to, from Point2D) Vector2D {
	return Vector2D{X: to.X - from.X, Y: to.Y - from.Y}
}

// Norm длина вектора
func (v Vector2D) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dot скалярное произведение
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Midpoint вычисляет середину отрезка между двумя точками
func Midpoint(a, b Point2D) Point2D {
	// a/2 + b/2 не переполняется на больших конечных координатах
	return Point2D{
		X: a.X/2.0 + b.X/2.0,
		Y: a.Y/2.0 + b.Y/2.0,
	}
}

// UndefinedAngleError возвращается, когда угол отрезка не определен: точки совпадают
// или длина отрезка не выражается конечным числом
type UndefinedAngleError struct {
	From Point2D
	To   Point2D
}

func (e *UndefinedAngleError) Error() string {
	return fmt.Sprintf("angle is undefined for degenerate segment (%.2f, %.2f) -> (%.2f, %.2f)",
		e.From.X, e.From.Y, e.To.X, e.To.Y)
}

// AngleFromVertical вычисляет угол в градусах между отрезком from -> to и вертикалью.
// Результат лежит в диапазоне [0, 180].
func AngleFromVertical(from, to Point2D) (float64, error) {
	v := Sub(to, from)

	norm := v.Norm()
	if norm == 0 || math.IsInf(norm, 0) || math.IsNaN(norm) {
		return 0, &UndefinedAngleError{From: from, To: to}
	}

	// |vertical| = 1
	cos := v.Dot(vertical) / norm

	// Ошибки округления могут вывести косинус за пределы [-1, 1]
	cos = math.Max(-1.0, math.Min(1.0, cos))

	angle := math.Acos(cos) * 180.0 / math.Pi
	if math.IsNaN(angle) {
		return 0, &UndefinedAngleError{From: from, To: to}
	}
	return angle, nil
}
