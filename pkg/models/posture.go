package models

// Point представляет точку в пикселях кадра
type Point struct {
	X float64 `json:"x" yaml:"x"` // Ось X направлена вправо
	Y float64 `json:"y" yaml:"y"` // Ось Y направлена вниз
}

// Keypoints представляет пять опорных точек тела; отсутствующая точка равна nil
type Keypoints struct {
	Nose          *Point `json:"nose,omitempty" yaml:"nose,omitempty"`
	LeftShoulder  *Point `json:"left_shoulder,omitempty" yaml:"left_shoulder,omitempty"`
	RightShoulder *Point `json:"right_shoulder,omitempty" yaml:"right_shoulder,omitempty"`
	LeftHip       *Point `json:"left_hip,omitempty" yaml:"left_hip,omitempty"`
	RightHip      *Point `json:"right_hip,omitempty" yaml:"right_hip,omitempty"`
}

// ClassifyRequest представляет запрос на классификацию одного кадра
type ClassifyRequest struct {
	StreamID  string     `json:"stream_id,omitempty" yaml:"stream_id,omitempty"` // Идентификатор видеопотока (опционально)
	Keypoints *Keypoints `json:"keypoints" yaml:"keypoints"`                     // nil означает, что поза не обнаружена
}

// Thresholds пороги классификации в градусах
type Thresholds struct {
	NeckDegrees float64 `json:"neck_degrees"`
	BackDegrees float64 `json:"back_degrees"`
}

// ClassifyResponse представляет вердикт по кадру для отображения
type ClassifyResponse struct {
	Status     string     `json:"status"`               // good, bad или unclassifiable
	NeckAngle  *float64   `json:"neck_angle,omitempty"` // Угол шеи, округлен до 0.1°
	BackAngle  *float64   `json:"back_angle,omitempty"` // Угол спины, округлен до 0.1°
	Reasons    []string   `json:"reasons"`              // Сработавшие правила: neck, back
	Message    string     `json:"message"`              // Текст для пользователя
	Thresholds Thresholds `json:"thresholds"`           // Пороги, с которыми вынесен вердикт
}

// Landmark представляет точку позы в нормализованных координатах [0, 1]
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// PoseAPIResponse определяет структуру ответа от Python сервиса оценки позы
type PoseAPIResponse struct {
	Status       string     `json:"status"`        // Статус выполнения
	Message      string     `json:"message"`       // Сообщение
	PoseDetected bool       `json:"pose_detected"` // Найден ли человек в кадре
	ImageWidth   int        `json:"image_width"`   // Ширина кадра в пикселях
	ImageHeight  int        `json:"image_height"`  // Высота кадра в пикселях
	Landmarks    []Landmark `json:"landmarks"`     // 33 точки MediaPipe Pose
}

// FrameInput представляет кадр записанной сессии
type FrameInput struct {
	FrameIndex  int        `json:"frame_index" yaml:"frame_index"`
	TimestampMs int64      `json:"timestamp_ms" yaml:"timestamp_ms"`
	Keypoints   *Keypoints `json:"keypoints" yaml:"keypoints"`
}

// FrameVerdict представляет вердикт по кадру записанной сессии
type FrameVerdict struct {
	FrameIndex  int   `json:"frame_index"`
	TimestampMs int64 `json:"timestamp_ms"`
	ClassifyResponse
}

// SessionSummary содержит общую статистику по сессии
type SessionSummary struct {
	TotalFrames          int     `json:"total_frames"`          // Общее количество кадров
	ClassifiedFrames     int     `json:"classified_frames"`     // Кадры с вердиктом good или bad
	GoodFrames           int     `json:"good_frames"`           // Кадры с хорошей осанкой
	BadFrames            int     `json:"bad_frames"`            // Кадры с плохой осанкой
	UnclassifiableFrames int     `json:"unclassifiable_frames"` // Кадры без вердикта
	NeckViolations       int     `json:"neck_violations"`       // Сколько раз сработало правило шеи
	BackViolations       int     `json:"back_violations"`       // Сколько раз сработало правило спины
	GoodPercentage       float64 `json:"good_percentage"`       // Доля хороших кадров среди классифицированных
	AverageNeckAngle     float64 `json:"average_neck_angle"`    // Средний угол шеи
	AverageBackAngle     float64 `json:"average_back_angle"`    // Средний угол спины
}

// HealthResponse представляет ответ проверки здоровья сервиса
type HealthResponse struct {
	Status      string `json:"status"`       // Статус сервиса (healthy/unhealthy)
	ModelLoaded bool   `json:"model_loaded"` // Загружена ли модель оценки позы
	Version     string `json:"version"`      // Версия сервиса
}
