package handler

import (
	"errors"
	"net/http"
	"strconv"

	"posture-detector-go/internal/repository"
	"posture-detector-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionHandler обрабатывает HTTP запросы для работы с сессиями анализа
type SessionHandler struct {
	analyzerService *service.AnalyzerService
	sessionService  *service.SessionService
	logger          *logrus.Logger
}

// NewSessionHandler создает новый экземпляр SessionHandler
func NewSessionHandler(analyzerService *service.AnalyzerService, sessionService *service.SessionService, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{
		analyzerService: analyzerService,
		sessionService:  sessionService,
		logger:          logger,
	}
}

// RegisterRoutes регистрирует маршруты API
func (h *SessionHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.POST("/sessions", h.CreateSession)
		api.GET("/sessions", h.ListSessions)
		api.GET("/sessions/:id", h.GetSession)
		api.DELETE("/sessions/:id", h.DeleteSession)
	}
}

// CreateSession анализирует записанные кадры и сохраняет сессию
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req service.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Ошибка разбора запроса: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат запроса: " + err.Error()})
		return
	}

	h.logger.Infof("Получен запрос на анализ сессии %q (%d кадров)", req.Name, len(req.Frames))

	frames, summary, err := h.analyzerService.AnalyzeBatch(c.Request.Context(), req.Frames)
	if err != nil {
		h.logger.Errorf("Ошибка пакетного анализа: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка анализа сессии"})
		return
	}

	session, err := h.sessionService.SaveSession(req.Name, req.Description, h.analyzerService.Thresholds(), frames, summary)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка сохранения сессии"})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListSessions возвращает список сессий с пагинацией
func (h *SessionHandler) ListSessions(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 || size > 100 {
		size = 10
	}

	sessions, total, err := h.sessionService.ListSessions(page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения списка сессий"})
		return
	}

	c.JSON(http.StatusOK, service.ListSessionsResponse{
		Sessions: sessions,
		Total:    total,
		Page:     page,
		Size:     size,
	})
}

// GetSession возвращает сессию по ID
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.sessionService.GetSessionByID(c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Ошибка получения сессии")
		return
	}

	c.JSON(http.StatusOK, session)
}

// DeleteSession удаляет сессию по ID
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.sessionService.DeleteSession(c.Param("id")); err != nil {
		h.respondError(c, err, "Ошибка удаления сессии")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Сессия успешно удалена"})
}

func (h *SessionHandler) respondError(c *gin.Context, err error, message string) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Сессия не найдена"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
