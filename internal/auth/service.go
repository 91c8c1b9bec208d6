package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/db/models"
)

// Credentials are the fields of a password login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Code     string `json:"code"` // totp passcode
}

// Providers tells the admin ui which login options exist.
type Providers struct {
	Local bool `json:"local"`
	LDAP  bool `json:"ldap"`
	OIDC  bool `json:"oidc"`
}

// Service provides authentication against the configured providers.
type Service struct {
	local     *LocalProvider
	ldap      *LDAPProvider
	oidc      *OIDCProvider
	protector *Protector
	useLocal  bool
}

// NewService creates the auth service. An unreachable oidc issuer disables
// oidc login instead of failing, password logins keep working.
func NewService(ctx context.Context, cfg *config.Config, db *gorm.DB) (*Service, error) {
	s := &Service{
		local:     NewLocalProvider(db, cfg.Auth.LocalDB.Issuer),
		protector: NewProtector(cfg.Protection),
		useLocal:  cfg.Auth.LocalDB.Enabled,
	}

	if cfg.Auth.LDAP.Enabled {
		p, err := NewLDAPProvider(cfg.Auth.LDAP, db)
		if err != nil {
			return nil, err
		}

		s.ldap = p
	}

	if cfg.Auth.OIDC.Enabled {
		p, err := NewOIDCProvider(ctx, cfg.Auth.OIDC, db)
		if err != nil {
			log.Error().Err(err).Str("provider", cfg.Auth.OIDC.ProviderURL).Msg("oidc login disabled")
		} else {
			s.oidc = p
		}
	}

	return s, nil
}

// Local returns the local database provider.
func (s *Service) Local() *LocalProvider {
	return s.local
}

// OIDC returns the oidc provider or nil when oidc login is off.
func (s *Service) OIDC() *OIDCProvider {
	return s.oidc
}

// Protector returns the login throttle.
func (s *Service) Protector() *Protector {
	return s.protector
}

// Providers lists the enabled login options.
func (s *Service) Providers() Providers {
	return Providers{Local: s.useLocal, LDAP: s.ldap != nil, OIDC: s.oidc != nil}
}

// Login checks credentials from ip against the local database, then LDAP.
func (s *Service) Login(ip string, cred Credentials) (*models.User, error) {
	if !s.protector.Allow(ip) {
		return nil, ErrTooManyRequests
	}

	cred.Username = strings.TrimSpace(cred.Username)
	if cred.Username == "" || cred.Password == "" {
		return nil, ErrEmptyCredentials
	}

	if s.protector.Locked(cred.Username) {
		return nil, ErrLockedOut
	}

	user, err := s.authenticate(cred)
	if err != nil {
		if IsInvalidCredentials(err) && s.protector.Fail(cred.Username) {
			log.Warn().Str("username", cred.Username).Str("ip", ip).Msg("account locked after failed logins")
		}

		return nil, err
	}

	s.protector.Succeed(cred.Username)

	return user, nil
}

func (s *Service) authenticate(cred Credentials) (*models.User, error) {
	if !s.useLocal && s.ldap == nil {
		return nil, ErrNoProvider
	}

	if s.useLocal {
		user, err := s.local.Authenticate(cred.Username, cred.Password, cred.Code)
		if err == nil || !errors.Is(err, ErrUserNotFound) || s.ldap == nil {
			return user, err
		}
	}

	return s.ldap.Authenticate(cred.Username, cred.Password)
}
