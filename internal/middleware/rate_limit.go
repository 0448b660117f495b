package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// sweepInterval как часто limiterFor проверяет карту на простаивающие IP
const sweepInterval = time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	bucket    map[string]*visitor
	rate      rate.Limit
	burstSize int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
	mutex     sync.Mutex
}

// newRateLimiter хранит IP не меньше времени полного восстановления корзины,
// поэтому удаление простаивающего IP не меняет его лимит
func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	refill := time.Duration(float64(burstSize) / float64(reqRate) * float64(time.Second))
	idleTTL := sweepInterval
	if refill > idleTTL {
		idleTTL = refill
	}

	return &rateLimiter{
		bucket:    make(map[string]*visitor),
		rate:      reqRate,
		burstSize: burstSize,
		idleTTL:   idleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (r *rateLimiter) limiterFor(ip string) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= sweepInterval {
		r.sweep(now)
	}

	v, exist := r.bucket[ip]
	if !exist {
		v = &visitor{limiter: rate.NewLimiter(r.rate, r.burstSize)}
		r.bucket[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep удаляет IP, не обращавшиеся дольше idleTTL. Вызывается под mutex.
func (r *rateLimiter) sweep(now time.Time) {
	for ip, v := range r.bucket {
		if now.Sub(v.lastSeen) >= r.idleTTL {
			delete(r.bucket, ip)
		}
	}
	r.lastSweep = now
}

// RateLimit ограничивает частоту запросов с одного IP. rps <= 0 отключает ограничение.
func RateLimit(rps float64, burst int, logger *logrus.Logger) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst <= 0 {
		burst = 1
	}

	limiter := newRateLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if !limiter.limiterFor(clientIP).Allow() {
			logger.Warnf("too many requests for IP %s", clientIP)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}

		c.Next()
	}
}
