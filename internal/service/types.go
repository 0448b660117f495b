package service

import (
	"time"

	"posture-detector-go/pkg/models"
)

// CreateSessionRequest запрос на пакетный анализ и сохранение записанной сессии
type CreateSessionRequest struct {
	Name        string              `json:"name" binding:"required,max=255"`
	Description string              `json:"description"`
	Frames      []models.FrameInput `json:"frames" binding:"required,min=1,max=100000"`
}

// SessionResponse ответ с информацией о сессии
type SessionResponse struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Thresholds  models.Thresholds     `json:"thresholds"`
	Summary     models.SessionSummary `json:"summary"`
	Frames      []models.FrameVerdict `json:"frames,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
}

// ListSessionsResponse ответ со списком сессий
type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Size     int               `json:"size"`
}
