package config

import (
	"time"

	"github.com/folio-cms/folio/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
	CookieName string
}

// Config overall data structure.
type Config struct {
	DevMode    bool // enable dev mode for development
	DB         DB
	Log        logger.Log
	Title      string
	Webserver  Webserver
	Auth       Auth
	Admin      Admin
	Images     Images
	Jobs       Jobs
	Protection Protection
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	AdminURL       string  // where the admin ui lives, used as redirect target after oidc login
	CheckAliveURI  string  // health endpoint, not access logged when Log.DisableCheckAlive is set
	Session        Session // session settings
}

// Admin holds the account created on first start when no user exists.
type Admin struct {
	InitialUsername string
	InitialPassword string
	InitialEmail    string
}

// Images configures the disk backed image host.
type Images struct {
	Root          string // directory uploads are written to
	BaseURL       string // public url prefix the root is served under
	DefaultFolder string
	MaxWidth      int
	Quality       int
}

// Jobs holds cron specs of the maintenance jobs. An empty spec disables the job.
type Jobs struct {
	OrphanSweep string
	OrphanGrace time.Duration
	SessionGC   string
}

// Protection configures login throttling.
type Protection struct {
	IPRateLimit       float64
	IPBurst           int
	MaxFailedAttempts int
	LockoutDuration   time.Duration
	AttemptWindow     time.Duration
}

// Auth groups the credential providers.
type Auth struct {
	LocalDB LocalDBAuth
	LDAP    LDAPAuth
	OIDC    OIDCAuth
}

// LocalDBAuth configures username/password login against the users table.
type LocalDBAuth struct {
	Enabled bool
	Issuer  string // issuer shown in authenticator apps for totp enrolment
}

// LDAPAuth holds LDAP/Active Directory configuration for authentication.
type LDAPAuth struct {
	Enabled       bool
	Host          string
	Port          int
	UseSSL        bool
	UseTLS        bool
	SkipVerify    bool
	BindDN        string
	BindPassword  string
	BaseDN        string
	UserFilter    string // e.g. "(uid={username})"
	UsernameAttr  string
	EmailAttr     string
	NameAttr      string
	Timeout       int // seconds
}

// OIDCAuth holds OpenID Connect configuration for authentication.
type OIDCAuth struct {
	Enabled       bool
	ProviderURL   string
	ClientID      string
	ClientSecret  string
	RedirectURL   string
	Scopes        []string
	AllowedEmails []string // empty allows every verified account of the provider
}
