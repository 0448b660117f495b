package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posture-detector-go/internal/cache"
	"posture-detector-go/internal/pose"
	"posture-detector-go/internal/posture"
	"posture-detector-go/internal/report"
	"posture-detector-go/pkg/models"
)

type fakeDetector struct {
	resp      *models.PoseAPIResponse
	err       error
	healthErr error
}

func (f *fakeDetector) DetectPose(_ context.Context, _ []byte, _ string) (*models.PoseAPIResponse, error) {
	return f.resp, f.err
}

func (f *fakeDetector) CheckHealth(_ context.Context) (*models.HealthResponse, error) {
	if f.healthErr != nil {
		return nil, f.healthErr
	}
	return &models.HealthResponse{Status: "healthy", ModelLoaded: true, Version: "0.3.0"}, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newAnalyzer(detector PoseDetector, c cache.VerdictCache) *AnalyzerService {
	return NewAnalyzerService(
		detector,
		pose.NewExtractor(pose.DefaultMinVisibility),
		report.NewCalculator(),
		c,
		AnalyzerConfig{Thresholds: posture.DefaultThresholds(), Workers: 3},
		quietLogger(),
	)
}

func pt(x, y float64) *models.Point { return &models.Point{X: x, Y: y} }

// upright человек сидит ровно: шея и спина вертикальны
func upright() *models.Keypoints {
	return &models.Keypoints{
		Nose:          pt(100, 50),
		LeftShoulder:  pt(80, 100),
		RightShoulder: pt(120, 100),
		LeftHip:       pt(80, 200),
		RightHip:      pt(120, 200),
	}
}

// forwardHead голова наклонена вперед на 45°
func forwardHead() *models.Keypoints {
	kp := upright()
	kp.Nose = pt(150, 50)
	return kp
}

func TestClassifyKeypoints(t *testing.T) {
	s := newAnalyzer(nil, nil)

	tests := []struct {
		name      string
		keypoints *models.Keypoints
		status    string
		reasons   []string
		message   string
		hasAngles bool
	}{
		{"good", upright(), "good", []string{}, MessageGood, true},
		{"bad neck", forwardHead(), "bad", []string{"neck"}, MessageBad, true},
		{"no person", nil, "unclassifiable", []string{}, MessageNoPose, false},
		{"partial", &models.Keypoints{Nose: pt(1, 1)}, "unclassifiable", []string{}, MessageIncompletePose, false},
		{"degenerate", &models.Keypoints{
			Nose:          pt(100, 100),
			LeftShoulder:  pt(80, 100),
			RightShoulder: pt(120, 100),
			LeftHip:       pt(80, 200),
			RightHip:      pt(120, 200),
		}, "unclassifiable", []string{}, MessageUndetermined, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.ClassifyKeypoints(context.Background(), models.ClassifyRequest{Keypoints: tt.keypoints})
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.reasons, resp.Reasons)
			assert.Equal(t, tt.message, resp.Message)
			assert.Equal(t, tt.hasAngles, resp.NeckAngle != nil)
			assert.Equal(t, tt.hasAngles, resp.BackAngle != nil)
			assert.Equal(t, 20.0, resp.Thresholds.NeckDegrees)
			assert.Equal(t, 15.0, resp.Thresholds.BackDegrees)
		})
	}
}

func TestClassifyKeypoints_RoundsAnglesForDisplay(t *testing.T) {
	s := newAnalyzer(nil, nil)

	resp := s.ClassifyKeypoints(context.Background(), models.ClassifyRequest{Keypoints: forwardHead()})
	require.NotNil(t, resp.NeckAngle)
	assert.Equal(t, 45.0, *resp.NeckAngle)
	assert.Equal(t, 0.0, *resp.BackAngle)
}

func TestClassifyKeypoints_StoresLatestVerdict(t *testing.T) {
	c := cache.NewMemoryVerdictCache(time.Minute)
	s := newAnalyzer(nil, c)
	ctx := context.Background()

	s.ClassifyKeypoints(ctx, models.ClassifyRequest{StreamID: "cam-1", Keypoints: upright()})
	s.ClassifyKeypoints(ctx, models.ClassifyRequest{StreamID: "cam-1", Keypoints: forwardHead()})
	s.ClassifyKeypoints(ctx, models.ClassifyRequest{Keypoints: upright()})

	latest, ok, err := s.LatestVerdict(ctx, "cam-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bad", latest.Status)

	_, ok, err = s.LatestVerdict(ctx, "cam-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLatestVerdict_NoCache(t *testing.T) {
	s := newAnalyzer(nil, nil)

	_, ok, err := s.LatestVerdict(context.Background(), "cam-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func landmarks(visibility float64) []models.Landmark {
	lms := make([]models.Landmark, pose.LandmarkCount)
	set := func(i int, x, y float64) {
		lms[i] = models.Landmark{X: x, Y: y, Visibility: visibility}
	}
	set(pose.LandmarkNose, 0.5, 0.125)
	set(pose.LandmarkLeftShoulder, 0.4, 0.25)
	set(pose.LandmarkRightShoulder, 0.6, 0.25)
	set(pose.LandmarkLeftHip, 0.4, 0.5)
	set(pose.LandmarkRightHip, 0.6, 0.5)
	return lms
}

func TestAnalyzeFrame(t *testing.T) {
	detector := &fakeDetector{resp: &models.PoseAPIResponse{
		Status:       "success",
		PoseDetected: true,
		ImageWidth:   200,
		ImageHeight:  400,
		Landmarks:    landmarks(0.9),
	}}
	c := cache.NewMemoryVerdictCache(time.Minute)
	s := newAnalyzer(detector, c)

	resp, err := s.AnalyzeFrame(context.Background(), []byte("img"), "frame.jpg", "cam-7")
	require.NoError(t, err)
	assert.Equal(t, "good", resp.Status)
	require.NotNil(t, resp.NeckAngle)
	assert.Equal(t, 0.0, *resp.NeckAngle)

	latest, ok, _ := s.LatestVerdict(context.Background(), "cam-7")
	require.True(t, ok)
	assert.Equal(t, resp, latest)
}

func TestAnalyzeFrame_LowVisibility(t *testing.T) {
	detector := &fakeDetector{resp: &models.PoseAPIResponse{
		Status:       "success",
		PoseDetected: true,
		ImageWidth:   200,
		ImageHeight:  400,
		Landmarks:    landmarks(0.3),
	}}
	s := newAnalyzer(detector, nil)

	resp, err := s.AnalyzeFrame(context.Background(), []byte("img"), "frame.jpg", "")
	require.NoError(t, err)
	assert.Equal(t, "unclassifiable", resp.Status)
	assert.Equal(t, MessageIncompletePose, resp.Message)
}

func TestAnalyzeFrame_NoPose(t *testing.T) {
	s := newAnalyzer(&fakeDetector{resp: &models.PoseAPIResponse{Status: "success"}}, nil)

	resp, err := s.AnalyzeFrame(context.Background(), []byte("img"), "frame.jpg", "")
	require.NoError(t, err)
	assert.Equal(t, "unclassifiable", resp.Status)
	assert.Equal(t, MessageNoPose, resp.Message)
}

func TestAnalyzeFrame_DetectorError(t *testing.T) {
	s := newAnalyzer(&fakeDetector{err: errors.New("connection refused")}, nil)

	_, err := s.AnalyzeFrame(context.Background(), []byte("img"), "frame.jpg", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAnalyzeFrame_NoDetector(t *testing.T) {
	s := newAnalyzer(nil, nil)

	_, err := s.AnalyzeFrame(context.Background(), []byte("img"), "frame.jpg", "")
	require.Error(t, err)
}

func TestAnalyzeBatch(t *testing.T) {
	s := newAnalyzer(nil, nil)

	var frames []models.FrameInput
	for i := 0; i < 20; i++ {
		kp := upright()
		switch i % 4 {
		case 1:
			kp = forwardHead()
		case 2:
			kp = nil
		}
		frames = append(frames, models.FrameInput{FrameIndex: i, TimestampMs: int64(i * 33), Keypoints: kp})
	}

	results, summary, err := s.AnalyzeBatch(context.Background(), frames)
	require.NoError(t, err)
	require.Len(t, results, len(frames))

	for i, r := range results {
		assert.Equal(t, i, r.FrameIndex)
		assert.Equal(t, int64(i*33), r.TimestampMs)
		switch i % 4 {
		case 1:
			assert.Equal(t, "bad", r.Status)
		case 2:
			assert.Equal(t, "unclassifiable", r.Status)
		default:
			assert.Equal(t, "good", r.Status)
		}
	}

	assert.Equal(t, 20, summary.TotalFrames)
	assert.Equal(t, 10, summary.GoodFrames)
	assert.Equal(t, 5, summary.BadFrames)
	assert.Equal(t, 5, summary.UnclassifiableFrames)
	assert.Equal(t, 5, summary.NeckViolations)
	assert.Equal(t, 0, summary.BackViolations)
	assert.Equal(t, 66.7, summary.GoodPercentage)
	assert.Equal(t, 15.0, summary.AverageNeckAngle)
}

func TestAnalyzeBatch_Canceled(t *testing.T) {
	s := newAnalyzer(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	frames := []models.FrameInput{{FrameIndex: 0, Keypoints: upright()}}
	_, _, err := s.AnalyzeBatch(ctx, frames)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeBatch_Empty(t *testing.T) {
	s := newAnalyzer(nil, nil)

	results, summary, err := s.AnalyzeBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Zero(t, summary.TotalFrames)
}

func TestCheckHealth(t *testing.T) {
	healthy := newAnalyzer(&fakeDetector{}, nil).CheckHealth(context.Background())
	assert.Equal(t, "healthy", healthy.Status)

	down := newAnalyzer(&fakeDetector{healthErr: errors.New("down")}, nil).CheckHealth(context.Background())
	assert.Equal(t, "unhealthy", down.Status)
	assert.False(t, down.ModelLoaded)
	assert.Equal(t, Version, down.Version)
}
