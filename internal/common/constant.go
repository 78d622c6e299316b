package common

// Keys under which the session is mirrored into the persistent store.
const (
	TokenStorageKey = "auth_token"
	UserStorageKey  = "current_user"
)

// AuthEndpoints lists the routes a real backend exposes for the operations
// the mock session service simulates.
var AuthEndpoints = []struct {
	Name string
	Path string
}{
	{"login", "/api/auth/login"},
	{"signup", "/api/auth/signup"},
	{"logout", "/api/auth/logout"},
	{"refresh", "/api/auth/refresh"},
	{"reset-password", "/api/auth/reset-password"},
	{"current-user", "/api/auth/me"},
}
