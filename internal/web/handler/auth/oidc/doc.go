// Package oidc provides the HTTP handlers of the OpenID Connect login.
//
// The flow:
//   - GET /api/auth/oidc/login stores a random state for five minutes in the
//     session storage and redirects to the issuer.
//   - GET /api/auth/oidc/callback consumes the state, exchanges the code,
//     verifies the id token, upserts the user and starts a session. The
//     browser is sent back to the admin ui.
//
// The routes answer 404 when oidc is not configured.
package oidc
