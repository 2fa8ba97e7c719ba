package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/javajoker/cardshop/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestI18nMiddlewarePicksSupportedLanguage(t *testing.T) {
	cases := map[string]string{
		"":                      "en",
		"es-MX,es;q=0.9":        "es",
		"es_ES":                 "es",
		"en-GB,en;q=0.8":        "en",
		"fr-FR,fr;q=0.9,es;q=1": "en",
	}

	for header, want := range cases {
		r := gin.New()
		r.Use(I18nMiddleware("en"))
		var got string
		r.GET("/", func(c *gin.Context) { got = utils.GetLangFromContext(c) })

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Accept-Language", header)
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, want, got, header)
	}
}

func TestAuthMiddleware(t *testing.T) {
	utils.SetJWTSecret("middleware-test")
	userToken, err := utils.GenerateJWT(uuid.New(), "user@example.com", "user", 1)
	require.NoError(t, err)
	adminToken, err := utils.GenerateJWT(uuid.New(), "admin@example.com", "admin", 1)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", AuthRequired(), func(c *gin.Context) {
		email, _ := c.Get("email")
		c.String(http.StatusOK, email.(string))
	})
	r.GET("/admin", AuthRequired(), AdminRequired(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/maybe", OptionalAuth(), func(c *gin.Context) {
		_, ok := utils.GetUserIDFromContext(c)
		if ok {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusAccepted)
	})

	do := func(path, auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do("/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", "Token "+userToken).Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", "Bearer garbage").Code)

	w := do("/me", "Bearer "+userToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user@example.com", w.Body.String())

	assert.Equal(t, http.StatusForbidden, do("/admin", "Bearer "+userToken).Code)
	assert.Equal(t, http.StatusNoContent, do("/admin", "Bearer "+adminToken).Code)

	assert.Equal(t, http.StatusAccepted, do("/maybe", "").Code)
	assert.Equal(t, http.StatusAccepted, do("/maybe", "Bearer garbage").Code)
	assert.Equal(t, http.StatusOK, do("/maybe", "Bearer "+userToken).Code)
}

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 2)
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2"), "limits are per client")
}

func TestRateLimiterCleanupDropsIdleVisitors(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(rate.Every(time.Second), 1)
	rl.now = func() time.Time { return now }

	rl.getVisitor("a")
	now = now.Add(2 * time.Minute)
	rl.getVisitor("b")
	now = now.Add(2 * time.Minute)
	rl.Cleanup()

	_, hasA := rl.visitors["a"]
	_, hasB := rl.visitors["b"]
	assert.False(t, hasA)
	assert.True(t, hasB)
}

func TestPerSecondZeroDisablesLimit(t *testing.T) {
	rl := PerSecond(0, 0)
	for i := 0; i < 50; i++ {
		require.True(t, rl.getVisitor("x").Allow())
	}
}

func TestExtractResource(t *testing.T) {
	id := uuid.NewString()
	assert.Equal(t, "cards", extractResourceType("/v1/admin/cards/"+id))
	assert.Equal(t, "cart", extractResourceType("/v1/cart"))
	assert.Equal(t, id, extractResourceID("/v1/admin/orders/"+id+"/status"))
	assert.Empty(t, extractResourceID("/v1/cart"))
}

func TestRateLimiterRunStops(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Second), 1)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		rl.Run(stop)
		close(done)
	}()

	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after stop was closed")
	}
}
