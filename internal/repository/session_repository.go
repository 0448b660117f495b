package repository

import (
	"errors"
	"fmt"

	"posture-detector-go/internal/model"

	"gorm.io/gorm"
)

// ErrNotFound сессия не найдена
var ErrNotFound = errors.New("session not found")

// SessionRepository интерфейс для работы с сессиями анализа
type SessionRepository interface {
	Create(session *model.Session) error
	GetByID(id string) (*model.Session, error)
	List(page, pageSize int) ([]*model.Session, int64, error)
	Delete(id string) error
}

// sessionRepository реализация SessionRepository
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository создает новый instance SessionRepository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{
		db: db,
	}
}

// Create создает новую сессию вместе с кадрами
func (r *sessionRepository) Create(session *model.Session) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	frames := session.Frames
	session.Frames = nil

	// Сначала создаем сессию
	if err := tx.Create(session).Error; err != nil {
		tx.Rollback()
		session.Frames = frames
		return fmt.Errorf("failed to create session: %w", err)
	}

	// Затем создаем кадры
	for i := range frames {
		frames[i].ID = 0 // Обнуляем ID для auto-increment
		frames[i].SessionID = session.ID
	}
	if len(frames) > 0 {
		if err := tx.CreateInBatches(frames, 500).Error; err != nil {
			tx.Rollback()
			session.Frames = frames
			return fmt.Errorf("failed to create frames: %w", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		session.Frames = frames
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	session.Frames = frames
	return nil
}

// GetByID получает сессию по ID вместе с кадрами по порядку
func (r *sessionRepository) GetByID(id string) (*model.Session, error) {
	var session model.Session
	err := r.db.Preload("Frames", func(db *gorm.DB) *gorm.DB {
		return db.Order("frame_index ASC")
	}).Where("id = ?", id).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// List получает список сессий с пагинацией, без кадров
func (r *sessionRepository) List(page, pageSize int) ([]*model.Session, int64, error) {
	var sessions []*model.Session
	var total int64

	// Подсчитываем общее количество
	if err := r.db.Model(&model.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	// Получаем сессии с пагинацией
	offset := (page - 1) * pageSize
	err := r.db.
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&sessions).Error

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, total, nil
}

// Delete удаляет сессию по ID
func (r *sessionRepository) Delete(id string) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	// Сначала удаляем кадры
	if err := tx.Where("session_id = ?", id).Delete(&model.FrameRecord{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete frames: %w", err)
	}

	// Затем удаляем сессию
	result := tx.Where("id = ?", id).Delete(&model.Session{})
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete session: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
