package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// UploadLimiter limita la frecuencia de subidas de CV por principal.
type UploadLimiter interface {
	Allow(ctx context.Context, principalID string) bool
}

type memoryUploadLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	max       int
	hits      map[string][]time.Time
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryUploadLimiter crea un rate limiter de ventana deslizante en memoria.
func NewMemoryUploadLimiter(window time.Duration, max int) UploadLimiter {
	return newMemoryUploadLimiter(window, max)
}

func newMemoryUploadLimiter(window time.Duration, max int) *memoryUploadLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryUploadLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *memoryUploadLimiter) Allow(_ context.Context, principalID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	cutoff := now.Add(-l.window)
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}

	kept := recentUploads(l.hits[principalID], cutoff)
	if len(kept) >= l.max {
		l.hits[principalID] = kept
		return false
	}
	l.hits[principalID] = append(kept, now)
	return true
}

// sweep descarta los principales sin subidas dentro de la ventana.
func (l *memoryUploadLimiter) sweep(cutoff time.Time) {
	for id, entries := range l.hits {
		if kept := recentUploads(entries, cutoff); len(kept) == 0 {
			delete(l.hits, id)
		} else {
			l.hits[id] = kept
		}
	}
}

func recentUploads(entries []time.Time, cutoff time.Time) []time.Time {
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	return kept
}

// redisUploadQuotaScript cuenta la subida en el bucket de la ventana actual y devuelve
// la cuota restante, o -1 si el principal ya la agoto.
const redisUploadQuotaScript = `
local used = redis.call("INCR", KEYS[1])
if used == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local max = tonumber(ARGV[2])
if used > max then
  return -1
end
return max - used
`

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// redisUploadLimiter usa ventanas fijas: una clave por principal y bucket de ventana.
type redisUploadLimiter struct {
	logger *zap.Logger
	client redisEvaler
	window time.Duration
	max    int
	now    func() time.Time
}

func NewRedisUploadLimiter(logger *zap.Logger, client *redis.Client, window time.Duration, max int) UploadLimiter {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if window < time.Second {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisUploadLimiter{
		logger: logger,
		client: client,
		window: window,
		max:    max,
		now:    time.Now,
	}
}

func (l *redisUploadLimiter) bucketKey(principalID string) string {
	seconds := int64(l.window / time.Second)
	bucket := l.now().Unix() / seconds
	return "upload:quota:" + principalID + ":" + strconv.FormatInt(bucket, 10)
}

// Allow falla abierto si redis no responde: el limite protege capacidad, no identidad.
func (l *redisUploadLimiter) Allow(ctx context.Context, principalID string) bool {
	if l == nil || l.client == nil {
		return true
	}
	principalID = strings.TrimSpace(principalID)
	if principalID == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	key := l.bucketKey(principalID)
	remaining, err := l.client.Eval(ctx, redisUploadQuotaScript, []string{key}, int(l.window/time.Second), l.max).Int()
	if err != nil {
		l.logger.Warn("upload quota check failed, allowing upload",
			zap.Error(err),
			zap.String("principal_id", principalID),
		)
		return true
	}
	if remaining < 0 {
		l.logger.Info("upload quota exhausted", zap.String("principal_id", principalID))
		return false
	}
	return true
}
