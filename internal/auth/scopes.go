package auth

// Known OAuth scopes used by the backend.
const (
	ScopeWrite = "life:write"
	ScopeRead  = "life:read"
)
