// Package session keeps admin sessions in a key/value storage behind an opaque cookie.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"

	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/db/models"
)

const (
	statePrefix = "oidc_state:"

	// StateTTL is how long an oidc login may take between redirect and callback.
	StateTTL = 5 * time.Minute
)

var (
	// ErrNoSession is returned when the request carries no cookie or the id is unknown.
	ErrNoSession = errors.New("no session")

	// ErrInvalidSession is returned when the stored data does not hold a user.
	ErrInvalidSession = errors.New("invalid session data")

	// ErrUnknownState is returned for an oidc state that was never issued or has expired.
	ErrUnknownState = errors.New("unknown oidc state")
)

// Storage is the subset of the gofiber storage interface sessions need.
// A missing key yields nil, nil.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}

// Data represents the session data structure.
type Data struct {
	User    models.User
	IDToken string `json:",omitempty"` // oidc id token, used as logout hint
}

// Store reads and writes sessions.
type Store struct {
	storage Storage
	cfg     config.Session
	secure  bool
}

// New creates a session store. secure marks the cookie https only.
func New(storage Storage, cfg config.Session, secure bool) *Store {
	if storage == nil {
		panic("storage is nil")
	}

	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}

	if cfg.ExpiryTime == 0 {
		cfg.ExpiryTime = 24 * time.Hour
	}

	return &Store{storage: storage, cfg: cfg, secure: secure}
}

// CookieName of the session cookie.
func (s *Store) CookieName() string {
	return s.cfg.CookieName
}

// Write stores data under sessionID with the configured expiry.
func (s *Store) Write(sessionID string, data *Data) error {
	out, err := json.Marshal(data)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return s.storage.Set(sessionID, out, s.cfg.ExpiryTime)
}

// Read reads the session data for the given session ID.
func (s *Store) Read(sessionID string) (*Data, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}

	raw, err := s.storage.Get(sessionID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if len(raw) == 0 {
		return nil, ErrNoSession
	}

	data := new(Data)
	if err = json.Unmarshal(raw, data); err != nil {
		return nil, ErrInvalidSession
	}

	if data.User.ID == 0 {
		return nil, ErrInvalidSession
	}

	return data, nil
}

// Start creates a new session for data and sets the cookie.
func (s *Store) Start(c fiber.Ctx, data *Data) error {
	id, err := GenerateSessionID()
	if err != nil {
		return err
	}

	if err = s.Write(id, data); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.cfg.CookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(s.cfg.ExpiryTime),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return nil
}

// FromRequest reads the session referenced by the request cookie.
func (s *Store) FromRequest(c fiber.Ctx) (*Data, error) {
	return s.Read(c.Cookies(s.cfg.CookieName))
}

// Destroy removes the session of the request, if any, and expires the cookie.
func (s *Store) Destroy(c fiber.Ctx) error {
	var err error
	if id := c.Cookies(s.cfg.CookieName); id != "" {
		err = s.storage.Delete(id)
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return err //nolint:wrapcheck
}

// PutState remembers an oidc state token for StateTTL.
func (s *Store) PutState(state string) error {
	return s.storage.Set(statePrefix+state, []byte{1}, StateTTL)
}

// TakeState consumes an oidc state token. Each token is valid once.
func (s *Store) TakeState(state string) error {
	if state == "" {
		return ErrUnknownState
	}

	raw, err := s.storage.Get(statePrefix + state)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if len(raw) == 0 {
		return ErrUnknownState
	}

	return s.storage.Delete(statePrefix + state)
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err //nolint:wrapcheck
	}

	return hex.EncodeToString(b), nil
}
