// Package auth provides the session gate of the admin api.
//
// RequireSession reads the session cookie, loads the session data from the
// storage and answers 401 {"success":false,"message":"Unauthorized"} when
// the cookie is missing, the session is unknown or expired, or the stored
// data holds no user. Protected handlers never run in that case.
//
// Usage:
//
//	admin := app.Group("/api/admin", auth.RequireSession(store))
package auth
