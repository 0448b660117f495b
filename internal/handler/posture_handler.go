package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"posture-detector-go/internal/service"
	"posture-detector-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	maxImageBytes   = 10 << 20
	maxStreamFrame  = 10 << 20
	streamWriteWait = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// PostureHandler обработчик для классификации осанки
type PostureHandler struct {
	analyzerService *service.AnalyzerService
	logger          *logrus.Logger
}

// NewPostureHandler создает новый обработчик
func NewPostureHandler(analyzerService *service.AnalyzerService, logger *logrus.Logger) *PostureHandler {
	return &PostureHandler{
		analyzerService: analyzerService,
		logger:          logger,
	}
}

// RegisterRoutes регистрирует маршруты API
func (h *PostureHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.POST("/classify", h.Classify)
		api.POST("/analyze", h.AnalyzeFrame)
		api.GET("/streams/:id/latest", h.LatestVerdict)
		api.GET("/stream", h.Stream)
		api.GET("/health", h.HealthCheck)
	}
}

// Classify классифицирует осанку по присланным точкам
// @Summary Классификация осанки по точкам
// @Tags posture
// @Accept json
// @Produce json
// @Param request body models.ClassifyRequest true "Опорные точки кадра"
// @Success 200 {object} models.ClassifyResponse
// @Failure 400 {object} gin.H
// @Router /classify [post]
func (h *PostureHandler) Classify(c *gin.Context) {
	var req models.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Ошибка разбора запроса: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат запроса"})
		return
	}

	c.JSON(http.StatusOK, h.analyzerService.ClassifyKeypoints(c.Request.Context(), req))
}

// AnalyzeFrame обрабатывает кадр изображения
// @Summary Анализ осанки по кадру
// @Tags posture
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Кадр (JPEG/PNG)"
// @Param stream_id formData string false "Идентификатор видеопотока"
// @Success 200 {object} models.ClassifyResponse
// @Failure 400 {object} gin.H
// @Failure 503 {object} gin.H
// @Router /analyze [post]
func (h *PostureHandler) AnalyzeFrame(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes+1<<20)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		h.logger.Errorf("Ошибка получения изображения: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Изображение обязательно"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		h.logger.Errorf("Ошибка чтения изображения: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ошибка чтения изображения"})
		return
	}
	if len(image) > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Изображение слишком большое"})
		return
	}

	resp, err := h.analyzerService.AnalyzeFrame(c.Request.Context(), image, header.Filename, c.PostForm("stream_id"))
	if err != nil {
		h.logger.Errorf("Ошибка анализа кадра: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Сервис оценки позы недоступен"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// LatestVerdict возвращает последний вердикт видеопотока
func (h *PostureHandler) LatestVerdict(c *gin.Context) {
	streamID := c.Param("id")

	resp, ok, err := h.analyzerService.LatestVerdict(c.Request.Context(), streamID)
	if err != nil {
		h.logger.Errorf("Ошибка получения вердикта: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения вердикта"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Вердикт для потока не найден"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Stream обрабатывает поток кадров по WebSocket.
// Текстовое сообщение содержит ClassifyRequest, бинарное - изображение кадра.
// На каждое сообщение отправляется ClassifyResponse или {"error": ...}.
func (h *PostureHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("Ошибка установки WebSocket соединения: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxStreamFrame)
	ctx := c.Request.Context()
	streamID := c.Query("stream_id")
	h.logger.Infof("Открыт поток %q с %s", streamID, c.ClientIP())

	for frame := 0; ; frame++ {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warnf("Поток %q закрыт с ошибкой: %v", streamID, err)
			}
			h.logger.Infof("Поток %q завершен, обработано сообщений: %d", streamID, frame)
			return
		}

		var reply interface{}
		switch msgType {
		case websocket.TextMessage:
			var req models.ClassifyRequest
			if err := json.Unmarshal(data, &req); err != nil {
				reply = gin.H{"error": "Неверный формат сообщения"}
				break
			}
			if req.StreamID == "" {
				req.StreamID = streamID
			}
			reply = h.analyzerService.ClassifyKeypoints(ctx, req)
		case websocket.BinaryMessage:
			resp, err := h.analyzerService.AnalyzeFrame(ctx, data, fmt.Sprintf("frame-%d.jpg", frame), streamID)
			if err != nil {
				h.logger.Errorf("Ошибка анализа кадра потока %q: %v", streamID, err)
				reply = gin.H{"error": "Сервис оценки позы недоступен"}
				break
			}
			reply = resp
		default:
			continue
		}

		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Warnf("Ошибка отправки ответа в поток %q: %v", streamID, err)
			return
		}
	}
}

// HealthCheck проверяет состояние сервиса
// @Summary Проверка состояния сервиса
// @Tags health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 503 {object} models.HealthResponse
// @Router /health [get]
func (h *PostureHandler) HealthCheck(c *gin.Context) {
	h.logger.Debug("Получен запрос проверки здоровья")

	health := h.analyzerService.CheckHealth(c.Request.Context())

	statusCode := http.StatusOK
	if health.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, health)
}
