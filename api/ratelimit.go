package api

import (
	"context"
	"errors"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/fulldump/box"
	"golang.org/x/time/rate"
)

var ErrTooManyRequests = errors.New("too many requests")

const limiterIdle = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit applies a token bucket per client address. A non positive
// requestsPerSecond disables it.
func RateLimit(requestsPerSecond, burst int) box.I {

	mutex := &sync.Mutex{}
	clients := map[string]*clientLimiter{}
	lastSweep := time.Now()

	get := func(key string, now time.Time) *rate.Limiter {
		mutex.Lock()
		defer mutex.Unlock()

		if now.Sub(lastSweep) > limiterIdle {
			for k, c := range clients {
				if now.Sub(c.lastSeen) > limiterIdle {
					delete(clients, k)
				}
			}
			lastSweep = now
		}

		c, exists := clients[key]
		if !exists {
			c = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(float64(requestsPerSecond)), max(burst, 1))}
			clients[key] = c
		}
		c.lastSeen = now
		return c.limiter
	}

	return func(next box.H) box.H {
		if requestsPerSecond <= 0 {
			return next
		}
		return func(ctx context.Context) {
			now := time.Now()
			limiter := get(formatRemoteAddr(box.GetRequest(ctx)), now)

			reservation := limiter.ReserveN(now, 1)
			if !reservation.OK() || reservation.DelayFrom(now) > 0 {
				retryAfter := reservation.DelayFrom(now)
				reservation.CancelAt(now)
				seconds := int(math.Ceil(retryAfter.Seconds()))
				box.GetResponse(ctx).Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
				box.SetError(ctx, ErrTooManyRequests)
				return
			}

			next(ctx)
		}
	}
}
