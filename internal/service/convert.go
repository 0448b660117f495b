package service

import (
	"errors"
	"strings"

	"posture-detector-go/internal/model"
	"posture-detector-go/internal/posture"
	"posture-detector-go/internal/report"
	"posture-detector-go/pkg/models"
)

// Version версия сервиса
const Version = "1.0.0"

// Сообщения для пользователя
const (
	MessageGood           = "GOOD POSTURE"
	MessageBad            = "BAD POSTURE"
	MessageNoPose         = "No pose detected - please stand in view"
	MessageUndetermined   = "Posture could not be determined"
	MessageIncompletePose = "Not all body keypoints are visible"
)

// ToResponse переводит вердикт в ответ API. Углы округляются до 0.1° только для отображения.
func ToResponse(v posture.Verdict, th posture.Thresholds) models.ClassifyResponse {
	resp := models.ClassifyResponse{
		Status:  v.Status.String(),
		Reasons: make([]string, 0, len(v.Reasons)),
		Thresholds: models.Thresholds{
			NeckDegrees: th.NeckDegrees,
			BackDegrees: th.BackDegrees,
		},
	}

	for _, r := range v.Reasons {
		resp.Reasons = append(resp.Reasons, string(r))
	}

	switch v.Status {
	case posture.Good:
		resp.Message = MessageGood
	case posture.Bad:
		resp.Message = MessageBad
	default:
		resp.Message = unclassifiableMessage(v.Cause)
	}

	if v.Classified() {
		neck := report.Round1(v.Metrics.NeckAngle)
		back := report.Round1(v.Metrics.BackAngle)
		resp.NeckAngle = &neck
		resp.BackAngle = &back
	}

	return resp
}

func unclassifiableMessage(cause error) string {
	var undefined *posture.UndefinedAngleError
	switch {
	case errors.Is(cause, posture.ErrIncompleteKeypoints):
		return MessageIncompletePose
	case errors.As(cause, &undefined),
		errors.Is(cause, posture.ErrNonFiniteCoordinate),
		errors.Is(cause, posture.ErrNonFiniteAngle):
		return MessageUndetermined
	default:
		return MessageNoPose
	}
}

// frameToRecord преобразует вердикт кадра в модель базы данных
func frameToRecord(f models.FrameVerdict) model.FrameRecord {
	return model.FrameRecord{
		FrameIndex:  f.FrameIndex,
		TimestampMs: f.TimestampMs,
		Status:      f.Status,
		NeckAngle:   f.NeckAngle,
		BackAngle:   f.BackAngle,
		Reasons:     strings.Join(f.Reasons, ","),
		Message:     f.Message,
	}
}

// recordToFrame преобразует запись кадра в ответ API
func recordToFrame(r model.FrameRecord, th models.Thresholds) models.FrameVerdict {
	reasons := []string{}
	if r.Reasons != "" {
		reasons = strings.Split(r.Reasons, ",")
	}

	return models.FrameVerdict{
		FrameIndex:  r.FrameIndex,
		TimestampMs: r.TimestampMs,
		ClassifyResponse: models.ClassifyResponse{
			Status:     r.Status,
			NeckAngle:  r.NeckAngle,
			BackAngle:  r.BackAngle,
			Reasons:    reasons,
			Message:    r.Message,
			Thresholds: th,
		},
	}
}
