package auth

import "errors"

var (
	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain an ID token.
	// This typically indicates a misconfigured OIDC provider or an incomplete authentication flow.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrUserNameExists is returned when attempting to create a user with a username that already exists.
	ErrUserNameExists = errors.New("user with username already exists")

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when a user cannot be found in the database or directory.
	ErrUserNotFound = errors.New("user not found")

	// ErrMultipleUsersFound is returned when a query expected one user but found multiple.
	// This typically indicates a misconfigured LDAP filter or duplicate entries.
	ErrMultipleUsersFound = errors.New("multiple users found")

	// ErrTOTPRequired is returned when the account has a second factor and no code was sent.
	ErrTOTPRequired = errors.New("totp code required")

	// ErrInvalidTOTP is returned for a wrong or expired totp code.
	ErrInvalidTOTP = errors.New("invalid totp code")

	// ErrEmptyCredentials is returned when username or password is blank.
	ErrEmptyCredentials = errors.New("username and password are required")

	// ErrNoProvider is returned when neither local nor ldap login is enabled.
	ErrNoProvider = errors.New("no password login provider is enabled")

	// ErrTooManyRequests is returned when the client ip exceeded its login rate.
	ErrTooManyRequests = errors.New("too many login attempts")

	// ErrLockedOut is returned while an account is locked after repeated failures.
	ErrLockedOut = errors.New("account temporarily locked")

	// ErrEmailNotAllowed is returned when an oidc account is not on the allow list.
	ErrEmailNotAllowed = errors.New("email is not allowed to sign in")
)

// IsInvalidCredentials reports whether err means the caller sent wrong credentials.
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrInvalidPassword) ||
		errors.Is(err, ErrInvalidTOTP) ||
		errors.Is(err, ErrUserAccountDisabled) ||
		errors.Is(err, ErrEmptyCredentials)
}
