package routes

const (
	// Health
	Health = "/health"

	// Public auth endpoints
	AuthRegister = "/api/v1/auth/register"
	AuthLogin    = "/api/v1/auth/login"
	AuthRefresh  = "/api/v1/auth/refresh"
	AuthLogout   = "/api/v1/auth/logout"

	// Bearer-protected
	AuthMe = "/api/v1/auth/me"
)
