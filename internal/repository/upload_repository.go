package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"geotab-reformatter/internal/models"
)

// UploadRepository keeps the staged exceptions and trips FileInfo of each operator
// session. Records are replaced wholesale; Get never returns nil for a missing record,
// it returns the empty FileInfo for that kind.
type UploadRepository interface {
	Get(ctx context.Context, sessionID string, kind models.ReportKind) (*models.FileInfo, error)
	Save(ctx context.Context, sessionID string, info *models.FileInfo) error
	Reset(ctx context.Context, sessionID string, kind models.ReportKind) error
}

func uploadKey(sessionID string, kind models.ReportKind) string {
	return fmt.Sprintf("reformatter:upload:%s:%s", sessionID, kind)
}

type memoryEntry struct {
	info      *models.FileInfo
	expiresAt time.Time
}

func (e memoryEntry) expired(ttl time.Duration, now time.Time) bool {
	return ttl > 0 && now.After(e.expiresAt)
}

// MemoryUploadRepository is the single-process store. Expired sessions are
// dropped on read and swept from the whole map by Save at most once per TTL.
type MemoryUploadRepository struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
}

func NewMemoryUploadRepository(ttl time.Duration) *MemoryUploadRepository {
	return &MemoryUploadRepository{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *MemoryUploadRepository) Get(ctx context.Context, sessionID string, kind models.ReportKind) (*models.FileInfo, error) {
	key := uploadKey(sessionID, kind)

	r.mu.RLock()
	entry, ok := r.entries[key]
	r.mu.RUnlock()

	if !ok {
		return models.NewFileInfo(kind), nil
	}
	if entry.expired(r.ttl, r.now()) {
		r.mu.Lock()
		// a Save may have replaced it since the read lock was dropped
		if current, ok := r.entries[key]; ok && current.expired(r.ttl, r.now()) {
			delete(r.entries, key)
		}
		r.mu.Unlock()
		return models.NewFileInfo(kind), nil
	}
	return entry.info, nil
}

func (r *MemoryUploadRepository) Save(ctx context.Context, sessionID string, info *models.FileInfo) error {
	if info == nil {
		return errors.New("nil file info")
	}

	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked(now)
	r.entries[uploadKey(sessionID, info.Kind)] = memoryEntry{
		info:      info,
		expiresAt: now.Add(r.ttl),
	}
	return nil
}

func (r *MemoryUploadRepository) sweepLocked(now time.Time) {
	if r.ttl <= 0 || now.Before(r.nextSweep) {
		return
	}
	for key, entry := range r.entries {
		if entry.expired(r.ttl, now) {
			delete(r.entries, key)
		}
	}
	r.nextSweep = now.Add(r.ttl)
}

func (r *MemoryUploadRepository) Reset(ctx context.Context, sessionID string, kind models.ReportKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, uploadKey(sessionID, kind))
	return nil
}

// RedisUploadRepository stores FileInfo as JSON so several web instances can share sessions
type RedisUploadRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisUploadRepository(client *redis.Client, ttl time.Duration) *RedisUploadRepository {
	return &RedisUploadRepository{client: client, ttl: ttl}
}

func (r *RedisUploadRepository) Get(ctx context.Context, sessionID string, kind models.ReportKind) (*models.FileInfo, error) {
	data, err := r.client.Get(ctx, uploadKey(sessionID, kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewFileInfo(kind), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s upload: %w", kind, err)
	}

	var info models.FileInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to decode %s upload: %w", kind, err)
	}
	return &info, nil
}

func (r *RedisUploadRepository) Save(ctx context.Context, sessionID string, info *models.FileInfo) error {
	if info == nil {
		return errors.New("nil file info")
	}

	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode %s upload: %w", info.Kind, err)
	}
	if err := r.client.Set(ctx, uploadKey(sessionID, info.Kind), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store %s upload: %w", info.Kind, err)
	}
	return nil
}

func (r *RedisUploadRepository) Reset(ctx context.Context, sessionID string, kind models.ReportKind) error {
	if err := r.client.Del(ctx, uploadKey(sessionID, kind)).Err(); err != nil {
		return fmt.Errorf("failed to reset %s upload: %w", kind, err)
	}
	return nil
}
