//go:build ignore

package main

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

const baseURL = "http://localhost:8080/api/v1"

// Сутулая поза: голова вынесена вперед, корпус наклонен
const sampleKeypoints = `{
	"stream_id": "test-client",
	"keypoints": {
		"nose": {"x": 150, "y": 50},
		"left_shoulder": {"x": 80, "y": 100},
		"right_shoulder": {"x": 120, "y": 100},
		"left_hip": {"x": 40, "y": 200},
		"right_hip": {"x": 80, "y": 200}
	}
}`

func main() {
	client := &http.Client{Timeout: 30 * time.Second}

	// Проверяем health endpoint
	fmt.Println("Проверяем health endpoint...")
	if err := printResponse(client.Get(baseURL + "/health")); err != nil {
		fmt.Printf("Ошибка при обращении к health endpoint: %v\n", err)
	}

	// Классификация по точкам
	fmt.Println("Отправляем точки на классификацию...")
	if err := printResponse(client.Post(baseURL+"/classify", "application/json", bytes.NewBufferString(sampleKeypoints))); err != nil {
		fmt.Printf("Ошибка классификации: %v\n", err)
	}

	fmt.Println("Последний вердикт потока test-client...")
	if err := printResponse(client.Get(baseURL + "/streams/test-client/latest")); err != nil {
		fmt.Printf("Ошибка получения вердикта: %v\n", err)
	}

	// Если есть тестовое изображение, отправляем его на анализ
	if len(os.Args) > 1 {
		imagePath := os.Args[1]
		fmt.Printf("Отправляем изображение %s на анализ...\n", imagePath)
		if err := testAnalyze(client, imagePath); err != nil {
			fmt.Printf("Ошибка при тестировании анализа: %v\n", err)
		}
	} else {
		fmt.Println("Для тестирования анализа кадра запустите: go run test_client.go <путь_к_изображению>")
	}
}

func testAnalyze(client *http.Client, imagePath string) error {
	image, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("ошибка чтения изображения: %w", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	imageWriter, err := writer.CreateFormFile("image", "frame.jpg")
	if err != nil {
		return fmt.Errorf("ошибка создания form field: %w", err)
	}
	if _, err := imageWriter.Write(image); err != nil {
		return fmt.Errorf("ошибка записи изображения: %w", err)
	}
	_ = writer.WriteField("stream_id", "test-client")
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, baseURL+"/analyze", &body)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return printResponse(client.Do(req))
}

func printResponse(resp *http.Response, err error) error {
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	fmt.Printf("Ответ (статус %d):\n%s\n\n", resp.StatusCode, string(body))
	return nil
}
