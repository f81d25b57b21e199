package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codehive/server/internal/auth"
	"github.com/codehive/server/internal/domain"
)

func probeRouter(j *auth.JWT) (*gin.Engine, *domain.Identity) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(corsMiddleware())
	r.Use(identityMiddleware(j))
	var got domain.Identity
	r.GET("/probe", func(c *gin.Context) {
		if id, ok := identityFrom(c); ok {
			got = id
		}
		c.Status(http.StatusOK)
	})
	return r, &got
}

func TestIdentityMiddlewareResolvesBearer(t *testing.T) {
	j := auth.New("s3cret")
	tok, err := j.Sign(domain.Identity{ID: "u1", DisplayName: "Alice"}, time.Minute)
	require.NoError(t, err)

	r, got := probeRouter(j)
	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, "u1", got.ID)
}

func TestIdentityMiddlewareToleratesAnonymous(t *testing.T) {
	r, got := probeRouter(auth.New("s3cret"))

	for _, header := range []string{"", "Bearer not-a-token", "Basic abc"} {
		req := httptest.NewRequest("GET", "/probe", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "anonymous callers pass through")
		assert.Empty(t, got.ID)
	}
}

func TestCorsPreflightShortCircuits(t *testing.T) {
	r, _ := probeRouter(auth.New("s3cret"))
	req := httptest.NewRequest("OPTIONS", "/probe", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRoomCodeShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 32; i++ {
		code := newRoomCode()
		require.Len(t, code, 6)
		for _, r := range code {
			if !(r >= '0' && r <= '9' || r >= 'A' && r <= 'F') {
				t.Fatalf("unexpected rune %q in code %q", r, code)
			}
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "codes should not collide constantly")
}
