// Package login provides the password login and the session check of the admin api.
//
// This file defines the messages the login flow answers with.
package login

const (
	msgInvalidCredentials = "Invalid username or password"
	msgTOTPRequired       = "TOTP code required"
	msgTooManyRequests    = "Too many login attempts, try again later"
	msgLockedOut          = "Account temporarily locked"
	msgUnauthorized       = "Unauthorized"
)
