package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posture-detector-go/internal/database"
	"posture-detector-go/internal/posture"
	"posture-detector-go/internal/repository"
	"posture-detector-go/pkg/models"
)

func newSessionService(t *testing.T) *SessionService {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "sessions.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	return NewSessionService(repository.NewSessionRepository(db), quietLogger())
}

func TestSessionService_SaveAndGet(t *testing.T) {
	analyzer := newAnalyzer(nil, nil)
	sessions := newSessionService(t)

	frames := []models.FrameInput{
		{FrameIndex: 0, TimestampMs: 0, Keypoints: upright()},
		{FrameIndex: 1, TimestampMs: 33, Keypoints: forwardHead()},
		{FrameIndex: 2, TimestampMs: 66},
	}
	verdicts, summary, err := analyzer.AnalyzeBatch(context.Background(), frames)
	require.NoError(t, err)

	saved, err := sessions.SaveSession("Morning", "desk session", posture.DefaultThresholds(), verdicts, summary)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.Equal(t, summary, saved.Summary)

	got, err := sessions.GetSessionByID(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Morning", got.Name)
	assert.Equal(t, "desk session", got.Description)
	assert.Equal(t, models.Thresholds{NeckDegrees: 20, BackDegrees: 15}, got.Thresholds)
	assert.Equal(t, summary, got.Summary)

	require.Len(t, got.Frames, 3)
	assert.Equal(t, verdicts, got.Frames)
}

func TestSessionService_ListAndDelete(t *testing.T) {
	sessions := newSessionService(t)
	th := posture.DefaultThresholds()

	first, err := sessions.SaveSession("a", "", th, nil, models.SessionSummary{})
	require.NoError(t, err)
	_, err = sessions.SaveSession("b", "", th, nil, models.SessionSummary{})
	require.NoError(t, err)

	list, total, err := sessions.ListSessions(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, list, 2)
	for _, s := range list {
		assert.Nil(t, s.Frames)
	}

	require.NoError(t, sessions.DeleteSession(first.ID))

	_, err = sessions.GetSessionByID(first.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = sessions.DeleteSession(first.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGenerateSessionID(t *testing.T) {
	s := &SessionService{}
	a, b := s.GenerateSessionID(), s.GenerateSessionID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
