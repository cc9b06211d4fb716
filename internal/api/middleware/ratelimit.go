package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
)

const msgRateLimited = "Rate limit exceeded"

// Limiter решает, пропускать ли очередной запрос клиента с ключом key
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit ограничивает частоту запросов по IP клиента
// Ошибка лимитера не блокирует запрос
func RateLimit(limiter Limiter, keys *ClientKeyResolver, log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keys.Key(r)

			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.Warn("rate limiter error for client=%s: %v", key, err)
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				log.Warn("%s %s - Rate limit exceeded: client=%s", r.Method, r.URL.Path, key)
				handlers.RespondError(w, http.StatusTooManyRequests, msgRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientKeyResolver определяет IP клиента для лимитера
// X-Forwarded-For учитывается, только если запрос пришёл от доверенного прокси
type ClientKeyResolver struct {
	trusted []*net.IPNet
}

// NewClientKeyResolver принимает CIDR или отдельные IP доверенных прокси
// Пустой список - ключом всегда служит адрес соединения
func NewClientKeyResolver(trustedProxies []string) (*ClientKeyResolver, error) {
	trusted := make([]*net.IPNet, 0, len(trustedProxies))
	for _, raw := range trustedProxies {
		ipNet, err := ParseTrustedProxy(raw)
		if err != nil {
			return nil, err
		}
		trusted = append(trusted, ipNet)
	}
	return &ClientKeyResolver{trusted: trusted}, nil
}

// ParseTrustedProxy разбирает "10.0.0.0/8" или "10.0.0.1"
func ParseTrustedProxy(raw string) (*net.IPNet, error) {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "/") {
		ip := net.ParseIP(raw)
		if ip == nil {
			return nil, fmt.Errorf("invalid trusted proxy %q", raw)
		}
		bits := 8 * net.IPv6len
		if ip.To4() != nil {
			ip = ip.To4()
			bits = 8 * net.IPv4len
		}
		return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}, nil
	}

	_, ipNet, err := net.ParseCIDR(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
	}
	return ipNet, nil
}

// Key адрес соединения, а за доверенным прокси - самый правый недоверенный адрес из X-Forwarded-For
func (k *ClientKeyResolver) Key(r *http.Request) string {
	remote := remoteHost(r)
	if k == nil || !k.isTrusted(remote) {
		return remote
	}

	forwarded := r.Header.Values("X-Forwarded-For")
	var hops []string
	for _, v := range forwarded {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				hops = append(hops, part)
			}
		}
	}

	for i := len(hops) - 1; i >= 0; i-- {
		if net.ParseIP(hops[i]) == nil {
			// Мусор в заголовке: дальше цепочке не верим
			return remote
		}
		if !k.isTrusted(hops[i]) {
			return hops[i]
		}
	}

	return remote
}

func (k *ClientKeyResolver) isTrusted(host string) bool {
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	for _, ipNet := range k.trusted {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

// RedisLimiter фиксированное окно в Redis, общее для всех инстансов сервиса
type RedisLimiter struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
	prefix string
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func NewRedisLimiter(rdb redis.Scripter, limit int, window time.Duration, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "rl"
	}
	return &RedisLimiter{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{l.prefix + ":" + key}, l.window.Milliseconds()).Result()
	if err != nil {
		return false, err
	}

	var count int64
	switch v := res.(type) {
	case int64:
		count = v
	case string:
		count, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unexpected redis script result type %T", res)
	}

	return count <= int64(l.limit), nil
}

// LocalLimiter token bucket на клиента в памяти процесса
// Используется, когда Redis не настроен
type LocalLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*localEntry
	every     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter limit запросов за window, с burst равным limit
// Клиент, молчавший дольше window, удаляется: его bucket за это время всё равно полон
func NewLocalLimiter(limit int, window time.Duration) *LocalLimiter {
	return &LocalLimiter{
		limiters: make(map[string]*localEntry),
		every:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idleTTL:  window,
		now:      time.Now,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweep(now)
	}

	entry, ok := l.limiters[key]
	if !ok {
		entry = &localEntry{limiter: rate.NewLimiter(l.every, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1), nil
}

// Len количество отслеживаемых клиентов
func (l *LocalLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *LocalLimiter) sweep(now time.Time) {
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) >= l.idleTTL {
			delete(l.limiters, key)
		}
	}
	l.lastSweep = now
}
