package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-service/internal/rbac"
)

const testSecret = "test-signing-secret-for-unit-tests"

func testTokenService(secret string, at time.Time) *TokenService {
	svc := NewTokenService(secret, 24*time.Hour)
	svc.timeFunc = func() time.Time { return at }
	return svc
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService(testSecret, 24*time.Hour)
	userID := uuid.New()

	token, err := svc.Issue(userID, "admin@example.com", rbac.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, rbac.RoleAdmin, claims.Role)
}

func TestTokenService_ExpiryIs24Hours(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := testTokenService(testSecret, issuedAt)

	token, err := svc.Issue(uuid.New(), "u@example.com", rbac.RoleUser)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
}

func TestTokenService_ExpiredToken(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	token, err := testTokenService(testSecret, issuedAt).Issue(uuid.New(), "u@example.com", rbac.RoleUser)
	require.NoError(t, err)

	// Just inside the lifetime: still valid.
	_, err = testTokenService(testSecret, issuedAt.Add(23*time.Hour)).Verify(token)
	assert.NoError(t, err)

	// Past the 24h lifetime: invalid.
	_, err = testTokenService(testSecret, issuedAt.Add(25*time.Hour)).Verify(token)
	assert.Error(t, err)
}

func TestTokenService_WrongSecret(t *testing.T) {
	svc := NewTokenService(testSecret, 24*time.Hour)
	token, err := svc.Issue(uuid.New(), "u@example.com", rbac.RoleUser)
	require.NoError(t, err)

	other := NewTokenService("a-completely-different-secret", 24*time.Hour)
	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestTokenService_TamperedPayload(t *testing.T) {
	svc := NewTokenService(testSecret, 24*time.Hour)
	token, err := svc.Issue(uuid.New(), "user@example.com", rbac.RoleUser)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(payload, &body))
	body["role"] = string(rbac.RoleAdmin)

	forged, err := json.Marshal(body)
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	_, err = svc.Verify(strings.Join(parts, "."))
	assert.Error(t, err)
}

func TestTokenService_MalformedToken(t *testing.T) {
	svc := NewTokenService(testSecret, 24*time.Hour)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c"} {
		_, err := svc.Verify(token)
		assert.Error(t, err, "token %q must not verify", token)
	}
}

func TestTokenService_UnknownRoleRejected(t *testing.T) {
	svc := NewTokenService(testSecret, 24*time.Hour)
	token, err := svc.Issue(uuid.New(), "u@example.com", rbac.Role("SUPERVISOR"))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}
