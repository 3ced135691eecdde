// Package ratelimit throttles guest bookings per phone number and client IP.
package ratelimit

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	window        = time.Hour
	sweepInterval = 5 * time.Minute
)

// Reasons reported in LimitResult.
const (
	ReasonCooldown    = "cooldown"
	ReasonPhoneHourly = "hourly_limit"
	ReasonIPHourly    = "ip_hourly_limit"
)

type Config struct {
	Cooldown     time.Duration // gap required between two bookings from one phone
	MaxPerHour   int           // per phone
	MaxIPPerHour int           // per client IP

	// Now overrides the clock in tests.
	Now func() time.Time
}

func DefaultConfig() *Config {
	return &Config{
		Cooldown:     time.Minute,
		MaxPerHour:   3,
		MaxIPPerHour: 10,
	}
}

// LimitResult is the outcome of CheckGuestBooking. Reason is set only when
// the booking is refused.
type LimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
	Reason     string
}

func allowed() LimitResult { return LimitResult{Allowed: true} }

func refused(reason string, retryAfter time.Duration) LimitResult {
	return LimitResult{Reason: reason, RetryAfter: retryAfter}
}

// tally counts bookings for one key inside a fixed one-hour window that opens
// with the first booking.
type tally struct {
	count    int
	openedAt time.Time
	lastAt   time.Time
}

func (t *tally) live(now time.Time) bool {
	return t != nil && now.Sub(t.openedAt) < window
}

func (t *tally) resetsIn(now time.Time) time.Duration {
	return window - now.Sub(t.openedAt)
}

type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.RWMutex
	phones  map[string]*tally
	clients map[string]*tally

	sweepOnce sync.Once
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New builds a limiter; a nil cfg means DefaultConfig.
func New(cfg *Config) *Limiter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		config:  cfg,
		now:     now,
		phones:  make(map[string]*tally),
		clients: make(map[string]*tally),
		done:    make(chan struct{}),
	}
}

// Close stops the background sweep.
func (l *Limiter) Close() {
	l.closeOnce.Do(func() { close(l.done) })
	l.wg.Wait()
}

// CheckGuestBooking reports whether a guest booking may be attempted. It
// records nothing; call RecordGuestBooking once the booking is stored so a
// rejected request does not use up the caller's allowance.
func (l *Limiter) CheckGuestBooking(phone, ip string) LimitResult {
	l.startSweep()
	now := l.now()

	l.mu.RLock()
	defer l.mu.RUnlock()

	if t := l.phones[phoneKey(phone)]; t != nil {
		if since := now.Sub(t.lastAt); since < l.config.Cooldown {
			return refused(ReasonCooldown, l.config.Cooldown-since)
		}
		if t.live(now) && t.count >= l.config.MaxPerHour {
			return refused(ReasonPhoneHourly, t.resetsIn(now))
		}
	}
	if t := l.clients[ipKey(ip)]; t.live(now) && t.count >= l.config.MaxIPPerHour {
		return refused(ReasonIPHourly, t.resetsIn(now))
	}
	return allowed()
}

// RecordGuestBooking counts a stored guest booking against phone and ip.
func (l *Limiter) RecordGuestBooking(phone, ip string) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	bump(l.phones, phoneKey(phone), now)
	bump(l.clients, ipKey(ip), now)
}

func bump(tallies map[string]*tally, key string, now time.Time) {
	t := tallies[key]
	if !t.live(now) {
		tallies[key] = &tally{count: 1, openedAt: now, lastAt: now}
		return
	}
	t.count++
	t.lastAt = now
}

func (l *Limiter) startSweep() {
	l.sweepOnce.Do(func() {
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-l.done:
					return
				case <-ticker.C:
					l.sweep()
				}
			}
		}()
	})
}

func (l *Limiter) sweep() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, tallies := range []map[string]*tally{l.phones, l.clients} {
		for key, t := range tallies {
			if now.Sub(t.lastAt) > window {
				delete(tallies, key)
			}
		}
	}
}

// Keys are hashed so the maps never hold raw phone numbers.
func hashKey(prefix, value string) string {
	sum := sha256.Sum256([]byte(value))
	return prefix + hex.EncodeToString(sum[:8])
}

func phoneKey(phone string) string { return hashKey("phone:", digitsOnly(phone)) }

func ipKey(ip string) string { return hashKey("ip:", ip) }

// digitsOnly keeps a leading plus and the digits, so "081 234 5678" and
// "081-234-5678" share a tally.
func digitsOnly(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GetClientIP returns the caller's address. Forwarding headers are honoured
// only when trustProxy is set; then the rightmost public X-Forwarded-For hop
// wins, since the proxy appends and the client controls everything left of it.
func GetClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			hops := strings.Split(xff, ",")
			for i := len(hops) - 1; i >= 0; i-- {
				if hop := strings.TrimSpace(hops[i]); hop != "" && !isPrivateIP(hop) {
					return hop
				}
			}
			return strings.TrimSpace(hops[len(hops)-1])
		}
		if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
			return realIP
		}
	}

	if addrPort, err := netip.ParseAddrPort(r.RemoteAddr); err == nil {
		return addrPort.Addr().String()
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

var privatePrefixes = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("::1/128"),
	netip.MustParsePrefix("fc00::/7"),
	netip.MustParsePrefix("fe80::/10"),
}

// isPrivateIP reports loopback, private and link-local addresses. IPv4-mapped
// IPv6 addresses are judged by their IPv4 form.
func isPrivateIP(raw string) bool {
	addr, err := netip.ParseAddr(raw)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range privatePrefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// SanitizeIdentifier masks a phone number or email for logging.
func SanitizeIdentifier(identifier string) string {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if local, domain, ok := strings.Cut(identifier, "@"); ok {
		if len(local) > 2 {
			return local[:2] + "***@" + domain
		}
		return "***@" + domain
	}
	if len(identifier) >= 4 {
		return "***" + identifier[len(identifier)-4:]
	}
	return "***"
}

func LogRateLimitExceeded(limitType, identifier, ip, reason string) {
	log.Warn().
		Str("event", "rate_limit_exceeded").
		Str("type", limitType).
		Str("identifier", SanitizeIdentifier(identifier)).
		Str("ip", ip).
		Str("reason", reason).
		Msg("Guest booking rate limit exceeded")
}
