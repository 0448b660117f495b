package cache

import (
	"context"

	"posture-detector-go/pkg/models"
)

// VerdictCache хранит последний вердикт по каждому видеопотоку
type VerdictCache interface {
	Set(ctx context.Context, streamID string, verdict models.ClassifyResponse) error
	// Get возвращает false, если вердикта нет или он устарел
	Get(ctx context.Context, streamID string) (models.ClassifyResponse, bool, error)
	Close() error
}

const keyPrefix = "posture:latest:"

// Key возвращает ключ последнего вердикта потока
func Key(streamID string) string {
	return keyPrefix + streamID
}
