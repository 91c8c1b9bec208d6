// Package auth checks admin credentials.
//
// Every active user is an administrator, there are no roles. Users come from
// three sources:
//   - LocalProvider: username and Argon2id password hash in the users table,
//     with an optional TOTP second factor.
//   - LDAPProvider: search and bind against a directory. The account is
//     upserted into the users table on every successful login.
//   - OIDCProvider: authorization code flow with an external issuer,
//     optionally restricted to an allow list of verified email addresses.
//
// Service.Login tries the local database first and falls back to LDAP for
// unknown usernames. A Protector throttles attempts per client ip and locks
// an account after repeated failures.
//
// Example usage:
//
//	authService, err := auth.NewService(ctx, cfg, db)
//	user, err := authService.Login(c.IP(), auth.Credentials{Username: "admin", Password: pw})
package auth
