package auth

const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
	ContextKeyRole   = "role"

	jsonKeyError = "error"

	headerAuthorization = "Authorization"

	// TokenCookieName mirrors the bearer token into a cookie so the page
	// guard can make its coarse redirect decision. The cookie is never
	// treated as proof of validity.
	TokenCookieName = "token"

	bearerScheme    = "Bearer"
	authHeaderParts = 2
)

const (
	// One message for every token failure mode. Distinguishing malformed
	// headers from bad signatures or expiry would hand an oracle to
	// attackers probing the token format.
	msgInvalidToken = "missing or invalid authorization token"

	msgForbidden            = "Forbidden"
	msgUserNotAuthenticated = "user not authenticated"
	msgInvalidIdentityCtx   = "invalid identity in context"

	msgUnexpectedSigningMethod = "unexpected signing method: %v"
	msgTokenParseFailed        = "failed to parse token: %w"
	msgInvalidTokenClaims      = "invalid token claims"
)
