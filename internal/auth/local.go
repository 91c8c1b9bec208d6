package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/folio-cms/folio/internal/config"
	"github.com/folio-cms/folio/internal/db/models"
)

// LocalProvider handles local database authentication.
type LocalProvider struct {
	db     *gorm.DB
	issuer string
}

// NewUser holds the fields of a local account to create.
type NewUser struct {
	Username string
	Password string
	Email    string
	Name     string
	// TOTP enrols a second factor. The otpauth url is returned by CreateUser.
	TOTP bool
}

// NewLocalProvider creates a new local authentication provider.
func NewLocalProvider(db *gorm.DB, issuer string) *LocalProvider {
	if issuer == "" {
		issuer = "Folio"
	}

	return &LocalProvider{db: db, issuer: issuer}
}

// Authenticate authenticates a user against the local database.
// code is the totp passcode, only checked for accounts with a second factor.
func (p *LocalProvider) Authenticate(username, password, code string) (*models.User, error) {
	var user models.User

	err := p.db.Where("username = ? AND auth_source = ?", username, models.AuthSourceLocal).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if !user.Active {
		return nil, ErrUserAccountDisabled
	}

	if !user.VerifyPassword(password) {
		return nil, ErrInvalidPassword
	}

	if user.TOTPSecret != "" {
		if code == "" {
			return nil, ErrTOTPRequired
		}

		if !totp.Validate(strings.TrimSpace(code), user.TOTPSecret) {
			return nil, ErrInvalidTOTP
		}
	}

	return &user, nil
}

// CreateUser creates a new local user. The returned url is the otpauth
// enrolment link when a second factor was requested.
func (p *LocalProvider) CreateUser(in NewUser) (*models.User, string, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return nil, "", ErrEmptyCredentials
	}

	var count int64
	if err := p.db.Model(&models.User{}).Where("username = ?", in.Username).Count(&count).Error; err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	if count > 0 {
		return nil, "", ErrUserNameExists
	}

	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Active:     true,
		Username:   in.Username,
		Email:      in.Email,
		Name:       in.Name,
		Password:   hash,
		AuthSource: models.AuthSourceLocal,
	}

	var otpURL string

	if in.TOTP {
		key, errGen := totp.Generate(totp.GenerateOpts{Issuer: p.issuer, AccountName: in.Username})
		if errGen != nil {
			return nil, "", fmt.Errorf("failed to generate totp secret: %w", errGen)
		}

		user.TOTPSecret = key.Secret()
		otpURL = key.URL()
	}

	if err = p.db.Create(&user).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	return &user, otpURL, nil
}

// EnsureAdmin creates the initial admin from cfg when the users table is empty.
// It reports whether a user was created.
func (p *LocalProvider) EnsureAdmin(cfg config.Admin) (bool, error) {
	var count int64
	if err := p.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}

	if count > 0 {
		return false, nil
	}

	if cfg.InitialUsername == "" || cfg.InitialPassword == "" {
		log.Warn().Msg("no users exist and admin.initialPassword is empty, create one with `user add`")

		return false, nil
	}

	_, _, err := p.CreateUser(NewUser{
		Username: cfg.InitialUsername,
		Password: cfg.InitialPassword,
		Email:    cfg.InitialEmail,
		Name:     "Administrator",
	})
	if err != nil {
		return false, err
	}

	log.Info().Str("username", cfg.InitialUsername).Msg("initial admin user created")

	return true, nil
}
