package auth

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/folio-cms/folio/internal/config"
)

const maxTrackedClients = 10000

type failures struct {
	count       int
	first       time.Time
	lockedUntil time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Protector throttles login attempts per client ip and locks accounts
// after repeated failures. State is kept in memory of this process.
type Protector struct {
	cfg config.Protection
	now func() time.Time

	mu       sync.Mutex
	clients  map[string]*client
	accounts map[string]*failures
}

// NewProtector returns a Protector. Zero rate or attempts disable the respective check.
func NewProtector(cfg config.Protection) *Protector {
	if cfg.LockoutDuration == 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}

	if cfg.AttemptWindow == 0 {
		cfg.AttemptWindow = 15 * time.Minute
	}

	if cfg.IPBurst == 0 {
		cfg.IPBurst = 1
	}

	return &Protector{
		cfg:      cfg,
		now:      time.Now,
		clients:  make(map[string]*client),
		accounts: make(map[string]*failures),
	}
}

// Allow takes a token from the bucket of ip.
func (p *Protector) Allow(ip string) bool {
	if p.cfg.IPRateLimit <= 0 {
		return true
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()

	c, ok := p.clients[ip]
	if !ok {
		if len(p.clients) >= maxTrackedClients {
			p.pruneLocked(now)
		}

		c = &client{limiter: rate.NewLimiter(rate.Limit(p.cfg.IPRateLimit), p.cfg.IPBurst)}
		p.clients[ip] = c
	}

	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

// Locked reports whether username is locked out.
func (p *Protector) Locked(username string) bool {
	if p.cfg.MaxFailedAttempts <= 0 {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	f, ok := p.accounts[accountKey(username)]

	return ok && p.now().Before(f.lockedUntil)
}

// Fail records a failed attempt and reports whether it locked the account.
func (p *Protector) Fail(username string) bool {
	if p.cfg.MaxFailedAttempts <= 0 {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	key := accountKey(username)

	f, ok := p.accounts[key]
	if !ok || now.Sub(f.first) > p.cfg.AttemptWindow {
		f = &failures{first: now}
		p.accounts[key] = f
	}

	f.count++
	if f.count >= p.cfg.MaxFailedAttempts {
		f.lockedUntil = now.Add(p.cfg.LockoutDuration)
		f.count = 0
		f.first = now

		return true
	}

	return false
}

// Succeed clears the failures of username.
func (p *Protector) Succeed(username string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.accounts, accountKey(username))
}

// Prune forgets idle clients and expired failure records.
func (p *Protector) Prune() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.pruneLocked(p.now())
}

func (p *Protector) pruneLocked(now time.Time) {
	idle := p.cfg.AttemptWindow

	for ip, c := range p.clients {
		if now.Sub(c.lastSeen) > idle {
			delete(p.clients, ip)
		}
	}

	for k, f := range p.accounts {
		if now.After(f.lockedUntil) && now.Sub(f.first) > p.cfg.AttemptWindow {
			delete(p.accounts, k)
		}
	}
}

func accountKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
