package pose

import (
	"fmt"
	"math"

	"posture-detector-go/internal/posture"
	"posture-detector-go/pkg/models"
)

// Индексы точек MediaPipe Pose
const (
	LandmarkNose          = 0
	LandmarkLeftShoulder  = 11
	LandmarkRightShoulder = 12
	LandmarkLeftHip       = 23
	LandmarkRightHip      = 24

	// LandmarkCount полное количество точек модели
	LandmarkCount = 33
)

// DefaultMinVisibility порог видимости точки, ниже которого точка считается ненадежной
const DefaultMinVisibility = 0.5

var landmarkIndices = map[posture.Role]int{
	posture.Nose:          LandmarkNose,
	posture.LeftShoulder:  LandmarkLeftShoulder,
	posture.RightShoulder: LandmarkRightShoulder,
	posture.LeftHip:       LandmarkLeftHip,
	posture.RightHip:      LandmarkRightHip,
}

// Extractor выбирает пять опорных точек из ответа модели оценки позы
type Extractor struct {
	minVisibility float64
}

// NewExtractor создает экстрактор с заданным порогом видимости
func NewExtractor(minVisibility float64) *Extractor {
	return &Extractor{minVisibility: minVisibility}
}

// MinVisibility возвращает порог видимости
func (e *Extractor) MinVisibility() float64 {
	return e.minVisibility
}

// Extract переводит нормализованные точки в пиксели кадра и отбрасывает остальные.
// Если человек не найден или хотя бы одна точка ненадежна, возвращается отсутствующий набор.
func (e *Extractor) Extract(resp *models.PoseAPIResponse) (posture.KeypointSet, error) {
	if resp == nil || !resp.PoseDetected {
		return posture.Absent(), posture.ErrNoDetection
	}

	if resp.ImageWidth <= 0 || resp.ImageHeight <= 0 {
		return posture.Absent(), fmt.Errorf("%w: invalid frame size %dx%d",
			posture.ErrNoDetection, resp.ImageWidth, resp.ImageHeight)
	}

	width := float64(resp.ImageWidth)
	height := float64(resp.ImageHeight)

	points := make(map[posture.Role]posture.Point2D, len(landmarkIndices))
	for _, role := range posture.Roles() {
		idx := landmarkIndices[role]
		if idx >= len(resp.Landmarks) {
			return posture.Absent(), fmt.Errorf("%w: landmark %d (%s) missing", posture.ErrIncompleteKeypoints, idx, role)
		}

		lm := resp.Landmarks[idx]
		if math.IsNaN(lm.Visibility) || lm.Visibility < e.minVisibility {
			return posture.Absent(), fmt.Errorf("%w: %s visibility %.2f below %.2f",
				posture.ErrIncompleteKeypoints, role, lm.Visibility, e.minVisibility)
		}

		points[role] = posture.Point2D{
			X: lm.X * width,
			Y: lm.Y * height,
		}
	}

	return posture.NewKeypointSet(points)
}

// FromKeypoints собирает набор точек из запроса клиента, координаты уже в пикселях
func FromKeypoints(kp *models.Keypoints) (posture.KeypointSet, error) {
	if kp == nil {
		return posture.Absent(), posture.ErrNoDetection
	}

	points := make(map[posture.Role]posture.Point2D, 5)
	add := func(role posture.Role, p *models.Point) {
		if p != nil {
			points[role] = posture.Point2D{X: p.X, Y: p.Y}
		}
	}

	add(posture.Nose, kp.Nose)
	add(posture.LeftShoulder, kp.LeftShoulder)
	add(posture.RightShoulder, kp.RightShoulder)
	add(posture.LeftHip, kp.LeftHip)
	add(posture.RightHip, kp.RightHip)

	if len(points) == 0 {
		return posture.Absent(), posture.ErrNoDetection
	}

	return posture.NewKeypointSet(points)
}
