package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"posture-detector-go/pkg/models"
)

// RedisOptions параметры подключения к Redis
type RedisOptions struct {
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

// RedisVerdictCache хранит вердикты в Redis с истечением по TTL
type RedisVerdictCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewRedisVerdictCache подключается к Redis и проверяет соединение
func NewRedisVerdictCache(ctx context.Context, opts RedisOptions, logger *logrus.Logger) (*RedisVerdictCache, error) {
	logger.Infof("Connecting to Redis at %s...", opts.Address)

	client := redis.NewClient(&redis.Options{
		Addr:        opts.Address,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return &RedisVerdictCache{client: client, ttl: opts.TTL, logger: logger}, nil
}

// Set сохраняет вердикт потока
func (r *RedisVerdictCache) Set(ctx context.Context, streamID string, verdict models.ClassifyResponse) error {
	data, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}

	if err := r.client.Set(ctx, Key(streamID), data, r.ttl).Err(); err != nil {
		r.logger.Errorf("Error setting verdict for stream %s: %v", streamID, err)
		return fmt.Errorf("failed to store verdict: %w", err)
	}
	return nil
}

// Get получает последний вердикт потока
func (r *RedisVerdictCache) Get(ctx context.Context, streamID string) (models.ClassifyResponse, bool, error) {
	var verdict models.ClassifyResponse

	data, err := r.client.Get(ctx, Key(streamID)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.logger.Debugf("Verdict not found for stream %s", streamID)
		return verdict, false, nil
	} else if err != nil {
		return verdict, false, fmt.Errorf("failed to get verdict: %w", err)
	}

	if err := json.Unmarshal(data, &verdict); err != nil {
		return verdict, false, fmt.Errorf("failed to unmarshal verdict: %w", err)
	}
	return verdict, true, nil
}

// Close закрывает соединение
func (r *RedisVerdictCache) Close() error {
	return r.client.Close()
}
