package service

import (
	"fmt"

	"posture-detector-go/internal/model"
	"posture-detector-go/internal/posture"
	"posture-detector-go/internal/repository"
	"posture-detector-go/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionService сервис для работы с сессиями анализа
type SessionService struct {
	sessionRepo repository.SessionRepository
	logger      *logrus.Logger
}

// NewSessionService создает новый сервис для работы с сессиями
func NewSessionService(sessionRepo repository.SessionRepository, logger *logrus.Logger) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		logger:      logger,
	}
}

// SaveSession сохраняет результаты пакетного анализа в базе данных
func (s *SessionService) SaveSession(
	name, description string,
	th posture.Thresholds,
	frames []models.FrameVerdict,
	summary models.SessionSummary,
) (*SessionResponse, error) {
	sessionID := s.GenerateSessionID()
	s.logger.Infof("Сохраняем сессию %s в базе данных", sessionID)

	session := &model.Session{
		ID:                   sessionID,
		Name:                 name,
		Description:          description,
		NeckThreshold:        th.NeckDegrees,
		BackThreshold:        th.BackDegrees,
		TotalFrames:          summary.TotalFrames,
		ClassifiedFrames:     summary.ClassifiedFrames,
		GoodFrames:           summary.GoodFrames,
		BadFrames:            summary.BadFrames,
		UnclassifiableFrames: summary.UnclassifiableFrames,
		NeckViolations:       summary.NeckViolations,
		BackViolations:       summary.BackViolations,
		GoodPercentage:       summary.GoodPercentage,
		AverageNeckAngle:     summary.AverageNeckAngle,
		AverageBackAngle:     summary.AverageBackAngle,
	}

	session.Frames = make([]model.FrameRecord, 0, len(frames))
	for _, f := range frames {
		session.Frames = append(session.Frames, frameToRecord(f))
	}

	if err := s.sessionRepo.Create(session); err != nil {
		s.logger.Errorf("Ошибка сохранения сессии в БД: %v", err)
		return nil, fmt.Errorf("failed to save session to database: %w", err)
	}

	s.logger.Infof("Сессия %s успешно сохранена в БД с %d кадрами", sessionID, len(session.Frames))
	return s.modelToResponse(session, true), nil
}

// GetSessionByID получает сессию вместе с кадрами
func (s *SessionService) GetSessionByID(sessionID string) (*SessionResponse, error) {
	s.logger.Infof("Получаем сессию %s из базы данных", sessionID)

	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		s.logger.Errorf("Ошибка получения сессии: %v", err)
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return s.modelToResponse(session, true), nil
}

// ListSessions получает список сессий с пагинацией
func (s *SessionService) ListSessions(page, pageSize int) ([]SessionResponse, int64, error) {
	s.logger.Infof("Получаем список сессий: страница %d, размер %d", page, pageSize)

	sessions, total, err := s.sessionRepo.List(page, pageSize)
	if err != nil {
		s.logger.Errorf("Ошибка получения списка сессий: %v", err)
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}

	responses := make([]SessionResponse, len(sessions))
	for i, session := range sessions {
		responses[i] = *s.modelToResponse(session, false)
	}

	s.logger.Infof("Получено %d сессий из %d общих", len(responses), total)
	return responses, total, nil
}

// DeleteSession удаляет сессию по ID
func (s *SessionService) DeleteSession(sessionID string) error {
	s.logger.Infof("Удаляем сессию %s", sessionID)

	if err := s.sessionRepo.Delete(sessionID); err != nil {
		s.logger.Errorf("Ошибка удаления сессии из БД: %v", err)
		return fmt.Errorf("failed to delete session from database: %w", err)
	}

	s.logger.Infof("Сессия %s успешно удалена", sessionID)
	return nil
}

// GenerateSessionID генерирует уникальный ID для сессии
func (s *SessionService) GenerateSessionID() string {
	return uuid.New().String()
}

// modelToResponse преобразует модель базы данных в ответ API
func (s *SessionService) modelToResponse(session *model.Session, withFrames bool) *SessionResponse {
	th := models.Thresholds{
		NeckDegrees: session.NeckThreshold,
		BackDegrees: session.BackThreshold,
	}

	response := &SessionResponse{
		ID:          session.ID,
		Name:        session.Name,
		Description: session.Description,
		Thresholds:  th,
		Summary: models.SessionSummary{
			TotalFrames:          session.TotalFrames,
			ClassifiedFrames:     session.ClassifiedFrames,
			GoodFrames:           session.GoodFrames,
			BadFrames:            session.BadFrames,
			UnclassifiableFrames: session.UnclassifiableFrames,
			NeckViolations:       session.NeckViolations,
			BackViolations:       session.BackViolations,
			GoodPercentage:       session.GoodPercentage,
			AverageNeckAngle:     session.AverageNeckAngle,
			AverageBackAngle:     session.AverageBackAngle,
		},
		CreatedAt: session.CreatedAt,
	}

	if withFrames {
		response.Frames = make([]models.FrameVerdict, 0, len(session.Frames))
		for _, f := range session.Frames {
			response.Frames = append(response.Frames, recordToFrame(f, th))
		}
	}

	return response
}
