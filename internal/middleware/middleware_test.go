package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/lalith-99/practicedesk/internal/intake"
	"github.com/lalith-99/practicedesk/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authFunc func(ctx context.Context, token string) (models.Principal, error)

func (f authFunc) Authenticate(ctx context.Context, token string) (models.Principal, error) {
	return f(ctx, token)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSiriToken(t *testing.T) {
	auth := authFunc(func(_ context.Context, token string) (models.Principal, error) {
		switch token {
		case "":
			return models.Principal{}, intake.ErrMissingCredential
		case "good":
			return models.Principal{UID: "user-1", FirmID: "firm-1"}, nil
		case "store-down":
			return models.Principal{}, &intake.Error{Kind: intake.KindInternal, Message: "resolve credential", Err: errors.New("dial tcp")}
		default:
			return models.Principal{}, intake.ErrInvalidCredential
		}
	})

	newRouter := func(reached *bool) *gin.Engine {
		r := gin.New()
		r.POST("/t", SiriToken(auth), func(c *gin.Context) {
			*reached = true
			p, ok := GetPrincipal(c)
			require.True(t, ok)
			c.JSON(http.StatusOK, gin.H{"uid": p.UID, "firm": p.FirmID})
		})
		return r
	}

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "Missing x-siri-token header"},
		{"unknown token", "nope", http.StatusUnauthorized, "Invalid token"},
		{"store failure", "store-down", http.StatusInternalServerError, "Internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			req := httptest.NewRequest(http.MethodPost, "/t", nil)
			if tt.header != "" {
				req.Header.Set("x-siri-token", tt.header)
			}
			rec := httptest.NewRecorder()
			newRouter(&reached).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, reached, "handler must not run")
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["error"])
		})
	}

	t.Run("valid token reaches the handler", func(t *testing.T) {
		reached := false
		req := httptest.NewRequest(http.MethodPost, "/t", nil)
		req.Header.Set(HeaderSiriToken, "good")
		rec := httptest.NewRecorder()
		newRouter(&reached).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, reached)
		assert.Equal(t, "firm-1", decode(t, rec)["firm"])
	})
}

func TestGetPrincipal_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetPrincipal(c)
	assert.False(t, ok)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.POST("/t", func(c *gin.Context) { c.Status(http.StatusCreated) })

	t.Run("preflight", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/t", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), HeaderSiriToken)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("simple request", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/t", nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRateLimit(t *testing.T) {
	hit := func(r *gin.Engine) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/t", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		r.ServeHTTP(rec, req)
		return rec
	}
	newRouter := func(t *testing.T, client *redis.Client) *gin.Engine {
		mw, err := RateLimit("2-M", client, zap.NewNop())
		require.NoError(t, err)
		r := gin.New()
		r.POST("/t", mw, func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("memory store", func(t *testing.T) {
		r := newRouter(t, nil)
		assert.Equal(t, http.StatusOK, hit(r).Code)
		assert.Equal(t, http.StatusOK, hit(r).Code)

		rec := hit(r)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "Too many requests", decode(t, rec)["error"])
	})

	t.Run("redis store", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })

		r := newRouter(t, client)
		assert.Equal(t, http.StatusOK, hit(r).Code)
		assert.Equal(t, http.StatusOK, hit(r).Code)
		assert.Equal(t, http.StatusTooManyRequests, hit(r).Code)
	})

	t.Run("bad rate", func(t *testing.T) {
		_, err := RateLimit("lots", nil, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestLogger(zap.New(core)))
	r.POST("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection refused"))
		c.Status(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodPost, "/ok", nil)
	req.Header.Set(HeaderSiriToken, "secret-token")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "request", entries[0].Message)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	for _, e := range entries {
		for _, v := range e.ContextMap() {
			assert.NotEqual(t, "secret-token", v)
		}
	}
	assert.Equal(t, "request failed", entries[1].Message)
	assert.Equal(t, "pq: connection refused", entries[1].ContextMap()["error"])
}
