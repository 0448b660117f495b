package posture

import (
	"errors"
	"fmt"
)

// Status итог классификации кадра
type Status int

const (
	// Unclassifiable нулевое значение: по кадру нельзя вынести вердикт
	Unclassifiable Status = iota
	Good
	Bad
)

func (s Status) String() string {
	switch s {
	case Good:
		return "good"
	case Bad:
		return "bad"
	default:
		return "unclassifiable"
	}
}

// Reason правило, из-за которого осанка признана плохой
type Reason string

const (
	ReasonNeck Reason = "neck"
	ReasonBack Reason = "back"
)

// Thresholds пороги углов в градусах, превышение которых означает плохую осанку
type Thresholds struct {
	NeckDegrees float64 `json:"neck_degrees" yaml:"neck_degrees"`
	BackDegrees float64 `json:"back_degrees" yaml:"back_degrees"`
}

// DefaultThresholds возвращает пороги по умолчанию: шея 20°, спина 15°
func DefaultThresholds() Thresholds {
	return Thresholds{
		NeckDegrees: 20.0,
		BackDegrees: 15.0,
	}
}

// Validate проверяет, что пороги лежат в диапазоне [0, 180]
func (t Thresholds) Validate() error {
	if !isFinite(t.NeckDegrees) || t.NeckDegrees < 0 || t.NeckDegrees > 180 {
		return fmt.Errorf("neck threshold must be within [0, 180], got %v", t.NeckDegrees)
	}
	if !isFinite(t.BackDegrees) || t.BackDegrees < 0 || t.BackDegrees > 180 {
		return fmt.Errorf("back threshold must be within [0, 180], got %v", t.BackDegrees)
	}
	return nil
}

// ErrNonFiniteAngle угол равен NaN или бесконечности
var ErrNonFiniteAngle = errors.New("non-finite posture angle")

// Metrics углы шеи и спины относительно вертикали в градусах
type Metrics struct {
	NeckAngle float64 `json:"neck_angle"`
	BackAngle float64 `json:"back_angle"`
}

// Verdict результат классификации одного кадра.
// Metrics имеют смысл только при Status != Unclassifiable, Cause - только при Unclassifiable.
type Verdict struct {
	Status  Status
	Metrics Metrics
	Reasons []Reason
	Cause   error
}

// Classified сообщает, вынесен ли вердикт GOOD или BAD
func (v Verdict) Classified() bool {
	return v.Status != Unclassifiable
}

// HasReason проверяет, сработало ли правило
func (v Verdict) HasReason(r Reason) bool {
	for _, candidate := range v.Reasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// NeckAngle угол между вектором "середина плеч -> нос" и вертикалью
func NeckAngle(ks KeypointSet) (float64, error) {
	if !ks.Present() {
		return 0, ErrNoDetection
	}
	return AngleFromVertical(ks.ShoulderMidpoint(), ks.at(Nose))
}

// BackAngle угол между вектором "середина бедер -> середина плеч" и вертикалью
func BackAngle(ks KeypointSet) (float64, error) {
	if !ks.Present() {
		return 0, ErrNoDetection
	}
	return AngleFromVertical(ks.HipMidpoint(), ks.ShoulderMidpoint())
}

// ComputeMetrics вычисляет оба угла. Если хотя бы один угол не определен,
// кадр не классифицируется целиком.
func ComputeMetrics(ks KeypointSet) (Metrics, error) {
	neck, err := NeckAngle(ks)
	if err != nil {
		return Metrics{}, err
	}

	back, err := BackAngle(ks)
	if err != nil {
		return Metrics{}, err
	}

	return Metrics{NeckAngle: neck, BackAngle: back}, nil
}

// ClassifyMetrics применяет независимые пороговые правила к готовым углам.
// Сравнение строгое: угол, равный порогу, не считается нарушением.
// Нечисловые углы дают Unclassifiable.
func ClassifyMetrics(m Metrics, th Thresholds) Verdict {
	if !isFinite(m.NeckAngle) || !isFinite(m.BackAngle) {
		return Verdict{Status: Unclassifiable, Cause: ErrNonFiniteAngle}
	}

	var reasons []Reason

	if m.NeckAngle > th.NeckDegrees {
		reasons = append(reasons, ReasonNeck)
	}
	if m.BackAngle > th.BackDegrees {
		reasons = append(reasons, ReasonBack)
	}

	status := Good
	if len(reasons) > 0 {
		status = Bad
	}

	return Verdict{
		Status:  status,
		Metrics: m,
		Reasons: reasons,
	}
}

// Classify классифицирует осанку по набору точек одного кадра
func Classify(ks KeypointSet, th Thresholds) Verdict {
	m, err := ComputeMetrics(ks)
	if err != nil {
		return Verdict{Status: Unclassifiable, Cause: err}
	}
	return ClassifyMetrics(m, th)
}
