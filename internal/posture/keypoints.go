package posture

import (
	"errors"
	"fmt"
	"math"
)

// Role анатомическая опорная точка
type Role string

const (
	Nose          Role = "nose"
	LeftShoulder  Role = "left_shoulder"
	RightShoulder Role = "right_shoulder"
	LeftHip       Role = "left_hip"
	RightHip      Role = "right_hip"
)

var roles = [...]Role{Nose, LeftShoulder, RightShoulder, LeftHip, RightHip}

var (
	// ErrNoDetection позиция не обнаружена в кадре
	ErrNoDetection = errors.New("no usable pose detected")
	// ErrIncompleteKeypoints отсутствует одна из пяти обязательных точек
	ErrIncompleteKeypoints = errors.New("incomplete keypoint set")
	// ErrNonFiniteCoordinate координата равна NaN или бесконечности
	ErrNonFiniteCoordinate = errors.New("non-finite keypoint coordinate")
	// ErrUnknownRole имя точки не входит в фиксированный набор
	ErrUnknownRole = errors.New("unknown keypoint role")
)

// Roles возвращает все обязательные точки в фиксированном порядке
func Roles() []Role {
	out := make([]Role, len(roles))
	copy(out, roles[:])
	return out
}

// ParseRole преобразует строку в Role
func ParseRole(s string) (Role, error) {
	for _, r := range roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) index() int {
	for i, candidate := range roles {
		if candidate == r {
			return i
		}
	}
	return -1
}

// KeypointSet содержит либо все пять точек, либо помечен как отсутствующий.
// Нулевое значение - отсутствующий набор.
type KeypointSet struct {
	points  [len(roles)]Point2D
	present bool
}

// Absent возвращает отсутствующий набор точек
func Absent() KeypointSet {
	return KeypointSet{}
}

// NewKeypointSet собирает набор точек. Неполный набор или нечисловые координаты
// дают отсутствующий набор и ошибку с причиной.
func NewKeypointSet(points map[Role]Point2D) (KeypointSet, error) {
	var ks KeypointSet

	for role := range points {
		if role.index() < 0 {
			return Absent(), fmt.Errorf("%w: %q", ErrUnknownRole, string(role))
		}
	}

	for i, role := range roles {
		p, ok := points[role]
		if !ok {
			return Absent(), fmt.Errorf("%w: missing %s", ErrIncompleteKeypoints, role)
		}
		if !isFinite(p.X) || !isFinite(p.Y) {
			return Absent(), fmt.Errorf("%w: %s", ErrNonFiniteCoordinate, role)
		}
		ks.points[i] = p
	}

	ks.present = true
	return ks, nil
}

// Present сообщает, содержит ли набор все точки
func (ks KeypointSet) Present() bool {
	return ks.present
}

// Point возвращает координаты точки
func (ks KeypointSet) Point(role Role) (Point2D, bool) {
	i := role.index()
	if !ks.present || i < 0 {
		return Point2D{}, false
	}
	return ks.points[i], true
}

// Points возвращает копию точек набора, nil для отсутствующего набора
func (ks KeypointSet) Points() map[Role]Point2D {
	if !ks.present {
		return nil
	}
	out := make(map[Role]Point2D, len(roles))
	for i, role := range roles {
		out[role] = ks.points[i]
	}
	return out
}

// ShoulderMidpoint середина между плечами
func (ks KeypointSet) ShoulderMidpoint() Point2D {
	return Midpoint(ks.at(LeftShoulder), ks.at(RightShoulder))
}

// HipMidpoint середина между бедрами
func (ks KeypointSet) HipMidpoint() Point2D {
	return Midpoint(ks.at(LeftHip), ks.at(RightHip))
}

func (ks KeypointSet) at(role Role) Point2D {
	return ks.points[role.index()]
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
