package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestCheckLimit(t *testing.T) {
	tests := []struct {
		limit   int
		wantErr bool
	}{
		{0, true},
		{1, false},
		{20, false},
		{100, false},
		{101, true},
		{-5, true},
	}
	for _, tt := range tests {
		got, err := checkLimit(tt.limit)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrBadLimit, "limit %d", tt.limit)
		} else {
			assert.NoError(t, err)
			assert.Equal(t, tt.limit, got)
		}
	}
}

func TestPageLimit(t *testing.T) {
	c, _ := testContext("/cards")
	limit, err := pageLimit(c)
	require.NoError(t, err)
	assert.Equal(t, 20, limit, "absent limit falls back to the default")

	c, _ = testContext("/cards?limit=42")
	limit, err = pageLimit(c)
	require.NoError(t, err)
	assert.Equal(t, 42, limit)

	c, _ = testContext("/cards?limit=999")
	_, err = pageLimit(c)
	assert.ErrorIs(t, err, ErrBadLimit)

	c, _ = testContext("/cards?limit=abc")
	_, err = pageLimit(c)
	assert.ErrorIs(t, err, ErrBadLimit)
}

func TestPageOffset(t *testing.T) {
	c, _ := testContext("/cards?offset=7")
	assert.Equal(t, 7, pageOffset(c))

	c, _ = testContext("/cards?offset=-3")
	assert.Equal(t, 0, pageOffset(c), "negative offsets clamp to zero")

	c, _ = testContext("/cards")
	assert.Equal(t, 0, pageOffset(c))
}

func TestTokenRoundTrip(t *testing.T) {
	h := &Handler{JWTSecret: []byte("test-secret"), Logger: zap.NewNop()}

	token, err := h.generateToken("user-1", false)
	require.NoError(t, err)

	userID, svc, err := h.parseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.False(t, svc)

	serviceToken, err := h.generateToken("svc-caller", true)
	require.NoError(t, err)
	_, svc, err = h.parseToken(serviceToken)
	require.NoError(t, err)
	assert.True(t, svc)
}

func TestParseToken_RejectsForgedSecret(t *testing.T) {
	issuer := &Handler{JWTSecret: []byte("their-secret"), Logger: zap.NewNop()}
	verifier := &Handler{JWTSecret: []byte("our-secret"), Logger: zap.NewNop()}

	token, err := issuer.generateToken("user-1", false)
	require.NoError(t, err)

	_, _, err = verifier.parseToken(token)
	assert.Error(t, err)
}

// TestServiceTokenRequired verifies that an ordinary channel token is turned
// away from the internal surface with a 403, while a service token passes.
func TestServiceTokenRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{JWTSecret: []byte("test-secret"), Logger: zap.NewNop()}

	r := gin.New()
	r.POST("/internal/ping", h.ServiceTokenRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	do := func(token string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/internal/ping", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do("").Code)

	userToken, err := h.generateToken("user-1", false)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(userToken).Code)

	svcToken, err := h.generateToken("scheduler", true)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(svcToken).Code)
}
