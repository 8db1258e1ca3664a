package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"surplus-food-api/config"
	"surplus-food-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testIssuer() *TokenIssuer {
	return NewTokenIssuer(config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour})
}

func TestTokenRoundTrip(t *testing.T) {
	ti := testIssuer()
	rid := uint(7)
	token, err := ti.Generate(&models.User{ID: 3, Email: "a@b.c", Role: models.RoleRestaurant, RestaurantID: &rid})
	require.NoError(t, err)

	claims, err := ti.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, models.RoleRestaurant, claims.Role)
	require.NotNil(t, claims.RestaurantID)
	assert.Equal(t, uint(7), *claims.RestaurantID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseRejectsExpiredAndForeignTokens(t *testing.T) {
	ti := testIssuer()
	token, err := ti.Generate(&models.User{ID: 1, Role: models.RoleCustomer})
	require.NoError(t, err)

	ti.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = ti.Parse(token)
	assert.Error(t, err)

	other := NewTokenIssuer(config.AuthConfig{JWTSecret: "other", TokenTTL: time.Hour})
	foreign, err := other.Generate(&models.User{ID: 1, Role: models.RoleCustomer})
	require.NoError(t, err)
	_, err = testIssuer().Parse(foreign)
	assert.Error(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = testIssuer().Parse(unsigned)
	assert.Error(t, err)
}

func newAuthRouter(ti *TokenIssuer) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthRequired(ti), func(c *gin.Context) {
		rid, ok := GetRestaurantID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "role": GetRole(c), "restaurant_id": rid, "has_restaurant": ok})
	})
	r.GET("/owner", AuthRequired(ti), RoleRequired(models.RoleRestaurant), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthRequired(t *testing.T) {
	ti := testIssuer()
	r := newAuthRouter(ti)
	token, err := ti.Generate(&models.User{ID: 9, Role: models.RoleCustomer})
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestRoleRequired(t *testing.T) {
	ti := testIssuer()
	r := newAuthRouter(ti)

	customer, err := ti.Generate(&models.User{ID: 1, Role: models.RoleCustomer})
	require.NoError(t, err)
	owner, err := ti.Generate(&models.User{ID: 2, Role: models.RoleRestaurant})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/owner", nil)
	req.Header.Set("Authorization", "Bearer "+customer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "restaurant")

	req = httptest.NewRequest(http.MethodGet, "/owner", nil)
	req.Header.Set("Authorization", "Bearer "+owner)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2})
	r := gin.New()
	r.POST("/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "other clients have their own bucket")

	rl.Cleanup(0)
	assert.Empty(t, rl.limiters)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/ping", func(c *gin.Context) {
		Logger(c).Info("inside")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	id := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, id)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, id, e.Data["request_id"])
	}
	assert.Equal(t, http.StatusOK, entries[1].Data["status"])

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "given-id")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "given-id", w.Header().Get(RequestIDHeader))
}
