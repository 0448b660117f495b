package repository

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"posture-detector-go/internal/database"
	"posture-detector-go/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func ptr(f float64) *float64 { return &f }

func sampleSession(id string) *model.Session {
	return &model.Session{
		ID:            id,
		Name:          "Session " + id,
		NeckThreshold: 20,
		BackThreshold: 15,
		TotalFrames:   3,
		GoodFrames:    1,
		BadFrames:     1,
		Frames: []model.FrameRecord{
			{FrameIndex: 2, Status: "unclassifiable"},
			{FrameIndex: 0, Status: "good", NeckAngle: ptr(3.1), BackAngle: ptr(1.2)},
			{FrameIndex: 1, Status: "bad", NeckAngle: ptr(31), BackAngle: ptr(2), Reasons: "neck"},
		},
	}
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	session := sampleSession("s-1")
	require.NoError(t, repo.Create(session))
	require.Len(t, session.Frames, 3)
	for _, f := range session.Frames {
		assert.NotZero(t, f.ID)
		assert.Equal(t, "s-1", f.SessionID)
	}

	got, err := repo.GetByID("s-1")
	require.NoError(t, err)
	assert.Equal(t, "Session s-1", got.Name)
	require.Len(t, got.Frames, 3)

	// Кадры возвращаются по порядку
	assert.Equal(t, 0, got.Frames[0].FrameIndex)
	assert.Equal(t, 1, got.Frames[1].FrameIndex)
	assert.Equal(t, 2, got.Frames[2].FrameIndex)

	assert.Equal(t, "neck", got.Frames[1].Reasons)
	require.NotNil(t, got.Frames[1].NeckAngle)
	assert.Equal(t, 31.0, *got.Frames[1].NeckAngle)
	assert.Nil(t, got.Frames[2].NeckAngle)
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	repo := NewSessionRepository(newTestDB(t))

	_, err := repo.GetByID("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSessionRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s := sampleSession(fmt.Sprintf("s-%d", i))
		s.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(s))
	}

	sessions, total, err := repo.List(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s-4", sessions[0].ID)
	assert.Equal(t, "s-3", sessions[1].ID)

	sessions, _, err = repo.List(3, 2)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s-0", sessions[0].ID)
}

func TestSessionRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)

	require.NoError(t, repo.Create(sampleSession("s-del")))
	require.NoError(t, repo.Delete("s-del"))

	_, err := repo.GetByID("s-del")
	require.ErrorIs(t, err, ErrNotFound)

	var frames int64
	require.NoError(t, db.Model(&model.FrameRecord{}).Where("session_id = ?", "s-del").Count(&frames).Error)
	assert.Zero(t, frames)

	err = repo.Delete("s-del")
	require.ErrorIs(t, err, ErrNotFound)
}
