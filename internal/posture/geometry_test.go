package posture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMidpoint(t *testing.T) {
	got := Midpoint(Point2D{X: 90, Y: 100}, Point2D{X: 110, Y: 100})
	assert.Equal(t, Point2D{X: 100, Y: 100}, got)

	got = Midpoint(Point2D{X: 0, Y: 0}, Point2D{X: 10, Y: 5})
	assert.Equal(t, Point2D{X: 5, Y: 2.5}, got)
}

func TestAngleFromVertical(t *testing.T) {
	tests := []struct {
		name string
		from Point2D
		to   Point2D
		want float64
	}{
		{name: "straight up", from: Point2D{X: 100, Y: 100}, to: Point2D{X: 100, Y: 50}, want: 0},
		{name: "straight down", from: Point2D{X: 100, Y: 100}, to: Point2D{X: 100, Y: 150}, want: 180},
		{name: "horizontal right", from: Point2D{X: 0, Y: 0}, to: Point2D{X: 10, Y: 0}, want: 90},
		{name: "horizontal left", from: Point2D{X: 0, Y: 0}, to: Point2D{X: -10, Y: 0}, want: 90},
		{name: "diagonal", from: Point2D{X: 0, Y: 0}, to: Point2D{X: 10, Y: -10}, want: 45},
		{
			name: "forward head",
			from: Point2D{X: 100, Y: 100},
			to:   Point2D{X: 130, Y: 50},
			want: math.Acos(50/math.Sqrt(30*30+50*50)) * 180 / math.Pi,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AngleFromVertical(tt.from, tt.to)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAngleFromVertical_ZeroLength(t *testing.T) {
	p := Point2D{X: 42, Y: 42}

	angle, err := AngleFromVertical(p, p)
	require.Error(t, err)

	var undefined *UndefinedAngleError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, p, undefined.From)
	assert.Equal(t, p, undefined.To)
	assert.False(t, math.IsNaN(angle))
}

func TestMidpoint_LargeCoordinates(t *testing.T) {
	got := Midpoint(Point2D{X: 1.7e308, Y: -1.7e308}, Point2D{X: 1.7e308, Y: -1.7e308})
	assert.Equal(t, Point2D{X: 1.7e308, Y: -1.7e308}, got)
}

func TestAngleFromVertical_Overflow(t *testing.T) {
	tests := []struct {
		name string
		from Point2D
		to   Point2D
	}{
		{name: "vertical overflow", from: Point2D{X: 0, Y: 1.7e308}, to: Point2D{X: 0, Y: -1.7e308}},
		{name: "horizontal overflow", from: Point2D{X: -1.7e308, Y: 0}, to: Point2D{X: 1.7e308, Y: 0}},
		{name: "both axes", from: Point2D{X: 1e308, Y: 1.7e308}, to: Point2D{X: -1.7e308, Y: -1.7e308}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			angle, err := AngleFromVertical(tt.from, tt.to)

			var undefined *UndefinedAngleError
			require.ErrorAs(t, err, &undefined)
			assert.False(t, math.IsNaN(angle))
		})
	}
}

func TestAngleFromVertical_ClampsRounding(t *testing.T) {
	// Очень длинный почти вертикальный вектор: косинус может оказаться чуть больше 1
	from := Point2D{X: 1e-12, Y: 1e15}
	to := Point2D{X: 0, Y: 0}

	got, err := AngleFromVertical(from, to)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(got))
	assert.InDelta(t, 0, got, 1e-6)
}

func TestAngleFromVertical_Range(t *testing.T) {
	for deg := 0; deg < 360; deg += 7 {
		rad := float64(deg) * math.Pi / 180
		to := Point2D{X: math.Sin(rad), Y: -math.Cos(rad)}

		got, err := AngleFromVertical(Point2D{}, to)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 180.0)
	}
}
