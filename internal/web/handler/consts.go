package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath prefixes every json endpoint.
	APIPath = "/api"

	// AdminPath prefixes the endpoints that require a session.
	AdminPath = APIPath + "/admin"

	// LocalUser holds the models.User of the session in fiber locals.
	LocalUser = "user"

	// LocalUsername holds the username for the access log.
	LocalUsername = "username"

	// LocalSession holds the *session.Data of the request.
	LocalSession = "session"

	// ErrNilDepsFatalLogMsg is used if routes or deps are nil.
	ErrNilDepsFatalLogMsg = "routes, deps or one of their members is nil"
)
