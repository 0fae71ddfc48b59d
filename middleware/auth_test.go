package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedRouter(secret string) *gin.Engine {
	router := gin.New()
	router.GET("/protected", Auth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserID(c)})
	})
	return router
}

func signToken(t *testing.T, secret string, userID int64, expiresIn time.Duration) string {
	t.Helper()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func request(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func msgOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["msg"].(string)
	return msg
}

func TestAuthMissingToken(t *testing.T) {
	router := newProtectedRouter(testSecret)

	for _, header := range []string{"", "Bearer ", "Basic abc123", "token-without-scheme"} {
		w := request(router, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "No token, authorization denied", msgOf(t, w))
	}
}

func TestAuthInvalidToken(t *testing.T) {
	router := newProtectedRouter(testSecret)

	w := request(router, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token is not valid", msgOf(t, w))
}

func TestAuthWrongSecret(t *testing.T) {
	router := newProtectedRouter(testSecret)
	token := signToken(t, "other-secret", 7, time.Hour)

	w := request(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token is not valid", msgOf(t, w))
}

func TestAuthExpiredToken(t *testing.T) {
	router := newProtectedRouter(testSecret)
	token := signToken(t, testSecret, 7, -time.Hour)

	w := request(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Token is not valid", msgOf(t, w))
}

func TestAuthValidTokenAttachesUserID(t *testing.T) {
	router := newProtectedRouter(testSecret)
	token := signToken(t, testSecret, 42, time.Hour)

	w := request(router, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(42), body["userId"])
}

func TestUserIDWithoutAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, int64(0), UserID(c))
}
