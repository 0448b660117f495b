package service

import (
	"context"
	"fmt"
	"time"

	"posture-detector-go/internal/cache"
	"posture-detector-go/internal/pose"
	"posture-detector-go/internal/posture"
	"posture-detector-go/internal/report"
	"posture-detector-go/pkg/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// PoseDetector источник точек позы для кадра (Python сервис MediaPipe)
type PoseDetector interface {
	DetectPose(ctx context.Context, image []byte, filename string) (*models.PoseAPIResponse, error)
	CheckHealth(ctx context.Context) (*models.HealthResponse, error)
}

// AnalyzerConfig параметры анализа
type AnalyzerConfig struct {
	Thresholds posture.Thresholds
	Workers    int // Параллелизм пакетного анализа
}

// AnalyzerService сервис для классификации осанки
type AnalyzerService struct {
	detector   PoseDetector
	extractor  *pose.Extractor
	calculator *report.Calculator
	cache      cache.VerdictCache
	thresholds posture.Thresholds
	workers    int
	logger     *logrus.Logger
}

// NewAnalyzerService создает новый сервис анализатора. detector и verdictCache могут быть nil.
func NewAnalyzerService(
	detector PoseDetector,
	extractor *pose.Extractor,
	calculator *report.Calculator,
	verdictCache cache.VerdictCache,
	cfg AnalyzerConfig,
	logger *logrus.Logger,
) *AnalyzerService {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &AnalyzerService{
		detector:   detector,
		extractor:  extractor,
		calculator: calculator,
		cache:      verdictCache,
		thresholds: cfg.Thresholds,
		workers:    workers,
		logger:     logger,
	}
}

// Thresholds возвращает пороги классификации
func (s *AnalyzerService) Thresholds() posture.Thresholds {
	return s.thresholds
}

// ClassifyKeypoints классифицирует осанку по точкам, присланным клиентом
func (s *AnalyzerService) ClassifyKeypoints(ctx context.Context, req models.ClassifyRequest) models.ClassifyResponse {
	verdict := s.classify(req.Keypoints)
	resp := ToResponse(verdict, s.thresholds)

	s.logVerdict(req.StreamID, verdict)
	s.remember(ctx, req.StreamID, resp)
	return resp
}

// AnalyzeFrame отправляет кадр в Python API и классифицирует найденную позу.
// Отсутствие человека в кадре не ошибка, а вердикт unclassifiable.
func (s *AnalyzerService) AnalyzeFrame(ctx context.Context, image []byte, filename, streamID string) (models.ClassifyResponse, error) {
	if s.detector == nil {
		return models.ClassifyResponse{}, fmt.Errorf("pose detector is not configured")
	}

	startTime := time.Now()

	poseResp, err := s.detector.DetectPose(ctx, image, filename)
	if err != nil {
		s.logger.Errorf("Ошибка при обращении к Python API: %v", err)
		return models.ClassifyResponse{}, fmt.Errorf("failed to detect pose: %w", err)
	}

	var verdict posture.Verdict
	ks, err := s.extractor.Extract(poseResp)
	if err != nil {
		verdict = posture.Verdict{Status: posture.Unclassifiable, Cause: err}
	} else {
		verdict = posture.Classify(ks, s.thresholds)
	}

	resp := ToResponse(verdict, s.thresholds)
	s.logger.Debugf("Кадр %s обработан за %v", filename, time.Since(startTime))
	s.logVerdict(streamID, verdict)
	s.remember(ctx, streamID, resp)
	return resp, nil
}

// AnalyzeBatch повторно классифицирует записанные кадры и считает статистику.
// Порядок вердиктов совпадает с порядком кадров.
func (s *AnalyzerService) AnalyzeBatch(ctx context.Context, frames []models.FrameInput) ([]models.FrameVerdict, models.SessionSummary, error) {
	s.logger.Infof("Начинаем пакетный анализ %d кадров (workers=%d)", len(frames), s.workers)

	verdicts := make([]posture.Verdict, len(frames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range frames {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			verdicts[i] = s.classify(frames[i].Keypoints)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, models.SessionSummary{}, fmt.Errorf("batch analysis interrupted: %w", err)
	}

	results := make([]models.FrameVerdict, len(frames))
	for i, f := range frames {
		results[i] = models.FrameVerdict{
			FrameIndex:       f.FrameIndex,
			TimestampMs:      f.TimestampMs,
			ClassifyResponse: ToResponse(verdicts[i], s.thresholds),
		}
	}

	summary := s.calculator.Summarize(verdicts)
	s.logger.Infof("Пакетный анализ завершен: good=%d bad=%d unclassifiable=%d",
		summary.GoodFrames, summary.BadFrames, summary.UnclassifiableFrames)

	return results, summary, nil
}

// LatestVerdict возвращает последний вердикт видеопотока
func (s *AnalyzerService) LatestVerdict(ctx context.Context, streamID string) (models.ClassifyResponse, bool, error) {
	if s.cache == nil {
		return models.ClassifyResponse{}, false, nil
	}

	resp, ok, err := s.cache.Get(ctx, streamID)
	if err != nil {
		return models.ClassifyResponse{}, false, fmt.Errorf("failed to get latest verdict: %w", err)
	}
	return resp, ok, nil
}

// CheckHealth проверяет состояние сервиса и его зависимостей
func (s *AnalyzerService) CheckHealth(ctx context.Context) *models.HealthResponse {
	s.logger.Debug("Проверяем состояние сервиса анализатора")

	if s.detector == nil {
		return &models.HealthResponse{Status: "unhealthy", Version: Version}
	}

	poseHealth, err := s.detector.CheckHealth(ctx)
	if err != nil {
		s.logger.Errorf("Python API недоступен: %v", err)
		return &models.HealthResponse{
			Status:      "unhealthy",
			ModelLoaded: false,
			Version:     Version,
		}
	}

	return poseHealth
}

func (s *AnalyzerService) classify(kp *models.Keypoints) posture.Verdict {
	ks, err := pose.FromKeypoints(kp)
	if err != nil {
		return posture.Verdict{Status: posture.Unclassifiable, Cause: err}
	}
	return posture.Classify(ks, s.thresholds)
}

// remember сохраняет вердикт как последний для потока; ошибка кэша не мешает ответу
func (s *AnalyzerService) remember(ctx context.Context, streamID string, resp models.ClassifyResponse) {
	if streamID == "" || s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, streamID, resp); err != nil {
		s.logger.Warnf("Не удалось сохранить вердикт потока %s: %v", streamID, err)
	}
}

func (s *AnalyzerService) logVerdict(streamID string, v posture.Verdict) {
	entry := s.logger.WithFields(logrus.Fields{
		"stream_id": streamID,
		"status":    v.Status.String(),
	})
	if v.Classified() {
		entry.WithFields(logrus.Fields{
			"neck_angle": report.Round1(v.Metrics.NeckAngle),
			"back_angle": report.Round1(v.Metrics.BackAngle),
			"reasons":    v.Reasons,
		}).Debug("posture classified")
		return
	}
	entry.WithError(v.Cause).Debug("posture unclassifiable")
}
