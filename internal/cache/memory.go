package cache

import (
	"context"
	"sync"
	"time"

	"posture-detector-go/pkg/models"
)

type memoryEntry struct {
	verdict   models.ClassifyResponse
	expiresAt time.Time
}

// MemoryVerdictCache хранит вердикты в памяти процесса, если Redis не настроен
type MemoryVerdictCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryVerdictCache создает кэш в памяти; ttl <= 0 отключает истечение
func NewMemoryVerdictCache(ttl time.Duration) *MemoryVerdictCache {
	return &MemoryVerdictCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Set сохраняет вердикт потока и продлевает срок его жизни
func (m *MemoryVerdictCache) Set(_ context.Context, streamID string, verdict models.ClassifyResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{verdict: verdict}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.entries[streamID] = entry
	return nil
}

// Get возвращает вердикт потока, если он еще не устарел
func (m *MemoryVerdictCache) Get(_ context.Context, streamID string) (models.ClassifyResponse, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[streamID]
	m.mu.RUnlock()

	if !ok {
		return models.ClassifyResponse{}, false, nil
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.mu.Lock()
		// запись могла быть обновлена между блокировками
		if cur, ok := m.entries[streamID]; ok && cur.expiresAt.Equal(entry.expiresAt) {
			delete(m.entries, streamID)
		}
		m.mu.Unlock()
		return models.ClassifyResponse{}, false, nil
	}
	return entry.verdict, true, nil
}

// Close ничего не освобождает, нужен для совместимости с VerdictCache
func (m *MemoryVerdictCache) Close() error {
	return nil
}
