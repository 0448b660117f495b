package model

import (
	"time"

	"gorm.io/gorm"
)

// Session представляет сессию анализа осанки в базе данных
type Session struct {
	ID          string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// Пороги, с которыми проводился анализ
	NeckThreshold float64 `gorm:"not null" json:"neck_threshold"`
	BackThreshold float64 `gorm:"not null" json:"back_threshold"`

	// Общая статистика
	TotalFrames          int     `gorm:"not null;default:0" json:"total_frames"`
	ClassifiedFrames     int     `gorm:"not null;default:0" json:"classified_frames"`
	GoodFrames           int     `gorm:"not null;default:0" json:"good_frames"`
	BadFrames            int     `gorm:"not null;default:0" json:"bad_frames"`
	UnclassifiableFrames int     `gorm:"not null;default:0" json:"unclassifiable_frames"`
	NeckViolations       int     `gorm:"not null;default:0" json:"neck_violations"`
	BackViolations       int     `gorm:"not null;default:0" json:"back_violations"`
	GoodPercentage       float64 `gorm:"not null;default:0" json:"good_percentage"`
	AverageNeckAngle     float64 `gorm:"not null;default:0" json:"average_neck_angle"`
	AverageBackAngle     float64 `gorm:"not null;default:0" json:"average_back_angle"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Связь с кадрами
	Frames []FrameRecord `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"frames"`
}

// FrameRecord представляет вердикт по одному кадру сессии
type FrameRecord struct {
	ID          uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID   string   `gorm:"type:varchar(36);not null;index" json:"session_id"`
	FrameIndex  int      `gorm:"not null" json:"frame_index"`
	TimestampMs int64    `gorm:"not null;default:0" json:"timestamp_ms"`
	Status      string   `gorm:"type:varchar(20);not null" json:"status"`
	NeckAngle   *float64 `json:"neck_angle"`
	BackAngle   *float64 `json:"back_angle"`
	Reasons     string   `gorm:"type:varchar(32)" json:"reasons"` // через запятую: neck,back
	Message     string   `gorm:"type:varchar(255)" json:"message"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName указывает имя таблицы для Session
func (Session) TableName() string {
	return "sessions"
}

// TableName указывает имя таблицы для FrameRecord
func (FrameRecord) TableName() string {
	return "frame_records"
}
