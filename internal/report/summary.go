package report

import (
	"math"

	"posture-detector-go/internal/posture"
	"posture-detector-go/pkg/models"
)

// Calculator для агрегирования вердиктов по набору кадров.
// Вердикты отдельных кадров не изменяются.
type Calculator struct{}

// NewCalculator создает новый калькулятор
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Summarize вычисляет общую статистику по вердиктам
func (c *Calculator) Summarize(verdicts []posture.Verdict) models.SessionSummary {
	summary := models.SessionSummary{
		TotalFrames: len(verdicts),
	}

	var neckSum, backSum float64

	for _, v := range verdicts {
		switch v.Status {
		case posture.Good:
			summary.GoodFrames++
		case posture.Bad:
			summary.BadFrames++
		default:
			summary.UnclassifiableFrames++
			continue
		}

		neckSum += v.Metrics.NeckAngle
		backSum += v.Metrics.BackAngle

		if v.HasReason(posture.ReasonNeck) {
			summary.NeckViolations++
		}
		if v.HasReason(posture.ReasonBack) {
			summary.BackViolations++
		}
	}

	summary.ClassifiedFrames = summary.GoodFrames + summary.BadFrames

	if summary.ClassifiedFrames > 0 {
		n := float64(summary.ClassifiedFrames)
		summary.GoodPercentage = Round1(float64(summary.GoodFrames) / n * 100)
		summary.AverageNeckAngle = Round1(neckSum / n)
		summary.AverageBackAngle = Round1(backSum / n)
	}

	return summary
}

// Round1 округляет до 1 знака
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
