package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"posture-detector-go/pkg/models"

	"github.com/sirupsen/logrus"
)

// PoseAPIClient клиент для взаимодействия с Python сервисом оценки позы (MediaPipe)
type PoseAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewPoseAPIClient создает новый клиент для Python API
func NewPoseAPIClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *PoseAPIClient {
	return &PoseAPIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// DetectPose отправляет кадр на оценку позы и возвращает точки модели
func (c *PoseAPIClient) DetectPose(ctx context.Context, image []byte, filename string) (*models.PoseAPIResponse, error) {
	c.logger.Debugf("Отправка кадра %s (%d байт) в Python API", filename, len(image))

	// Создаем multipart form-data
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	imageWriter, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания form field для изображения: %w", err)
	}

	if _, err := imageWriter.Write(image); err != nil {
		return nil, fmt.Errorf("ошибка записи изображения: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("ошибка закрытия multipart writer: %w", err)
	}

	// Создаем HTTP запрос
	url := fmt.Sprintf("%s/detect", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	var apiResponse models.PoseAPIResponse
	if err := c.do(req, &apiResponse); err != nil {
		return nil, err
	}

	if apiResponse.Status != "" && apiResponse.Status != "success" {
		return nil, fmt.Errorf("Python API вернул ошибку: %s", apiResponse.Message)
	}

	c.logger.Debugf("Получен ответ от Python API: поза найдена=%t, точек=%d",
		apiResponse.PoseDetected, len(apiResponse.Landmarks))
	return &apiResponse, nil
}

// CheckHealth проверяет состояние Python API
func (c *PoseAPIClient) CheckHealth(ctx context.Context) (*models.HealthResponse, error) {
	c.logger.Debug("Проверка здоровья Python API")

	url := fmt.Sprintf("%s/health", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}

	var healthResponse models.HealthResponse
	if err := c.do(req, &healthResponse); err != nil {
		return nil, err
	}

	return &healthResponse, nil
}

// do выполняет запрос и разбирает JSON ответ
func (c *PoseAPIClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка отправки HTTP запроса: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Python API вернул ошибку: статус %d, тело: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("ошибка парсинга JSON ответа: %w", err)
	}

	return nil
}
