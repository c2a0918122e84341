package httpmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORSAnswersPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORS())
	r.POST("/v1/attendance", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/v1/attendance", nil)
	req.Header.Set("Origin", "https://form.example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://form.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRateLimiterBlocksAfterBudget(t *testing.T) {
	l := NewIPRateLimiter(60) // burst of 6

	allowed := 0
	for i := 0; i < 20; i++ {
		if l.allow("1.2.3.4") {
			allowed++
		}
	}
	assert.Equal(t, 6, allowed)

	// A different client has its own bucket.
	assert.True(t, l.allow("5.6.7.8"))
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	l := NewIPRateLimiter(60)
	l.allow("1.2.3.4")
	l.Evict(-time.Second)

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.limiters)
}

func TestRateLimiterSweepsIdleClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewIPRateLimiter(60)
	l.allow("1.2.3.4")
	l.Start(ctx, 20*time.Millisecond)

	assert.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return len(l.limiters) == 0 && len(l.lastAccess) == 0
	}, time.Second, 5*time.Millisecond)
}
