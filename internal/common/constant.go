package common

const (
	// AuthorizationHeaderName carries the bearer token on HTTP requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token inside the Authorization header.
	BearerPrefix = "Bearer "

	// TokenType is reported to clients next to every issued access token.
	TokenType = "bearer"

	// MinPasswordLength is the shortest accepted password, in characters.
	MinPasswordLength = 6
)
