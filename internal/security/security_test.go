package security

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ZanzyTHEbar/travel-type-quiz/internal/errors"
)

func TestSecurityConfig(t *testing.T) {
	config := DefaultSecurityConfig()

	assert.Equal(t, []string{"*"}, config.AllowedOrigins)
	assert.Equal(t, 30*time.Second, config.RequestTimeout)
	assert.Equal(t, int64(64<<10), config.MaxBodyBytes)
	assert.False(t, config.EnableHSTS)

	sm := NewSecurityMiddleware(SecurityConfig{})
	assert.Equal(t, config.RequestTimeout, sm.Config().RequestTimeout)
	assert.Equal(t, config.AllowedOrigins, sm.Config().AllowedOrigins)
}

func TestValidateSource(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr bool
	}{
		{"empty", "", false},
		{"simple", "facebook", false},
		{"with separators", "ig_story-2026.q1", false},
		{"leading dash", "-ads", true},
		{"space", "face book", true},
		{"markup", "<script>", true},
		{"too long", strings.Repeat("a", 65), true},
		{"invalid utf8", "\xff\xfe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSource(tt.source)
			if tt.wantErr {
				require.Error(t, err)
				appErr := apperrors.ToAppError(err)
				assert.Equal(t, apperrors.CategoryValidation, appErr.Category)
				assert.Contains(t, appErr.Fields, "source")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "hello world", SanitizeInput("  hello world \n"))
	assert.Equal(t, "abc", SanitizeInput("a\x00b\x1fc"))
	assert.Equal(t, "ünïcode", SanitizeInput("ünïcode"))
}

func TestSecurityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		hsts       bool
		path       string
		wantPolicy string
	}{
		{"api path", false, "/api/v1/questions", apiPolicy},
		{"docs path", false, "/swagger/index.html", docsPolicy},
		{"hsts enabled", true, "/api/v1/questions", apiPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewSecurityMiddleware(SecurityConfig{EnableHSTS: tt.hsts})

			r := gin.New()
			r.Use(sm.SecurityHeaders)
			r.GET("/*path", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "test"})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			r.ServeHTTP(w, req)

			headers := w.Header()
			assert.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))
			assert.Equal(t, "DENY", headers.Get("X-Frame-Options"))
			assert.Equal(t, "strict-origin-when-cross-origin", headers.Get("Referrer-Policy"))
			assert.Equal(t, tt.wantPolicy, headers.Get("Content-Security-Policy"))
			if tt.hsts {
				assert.NotEmpty(t, headers.Get("Strict-Transport-Security"))
			} else {
				assert.Empty(t, headers.Get("Strict-Transport-Security"))
			}
		})
	}
}

func TestValidateContentType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sm := NewSecurityMiddleware(DefaultSecurityConfig())

	r := gin.New()
	r.Use(sm.ValidateContentType)
	r.POST("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	tests := []struct {
		name           string
		method         string
		contentType    string
		body           string
		expectedStatus int
	}{
		{"valid JSON", http.MethodPost, "application/json", `{"a":1}`, http.StatusOK},
		{"JSON with charset", http.MethodPost, "application/json; charset=utf-8", `{"a":1}`, http.StatusOK},
		{"form data rejected", http.MethodPost, "application/x-www-form-urlencoded", "a=1", http.StatusUnsupportedMediaType},
		{"plain text rejected", http.MethodPost, "text/plain", "hi", http.StatusUnsupportedMediaType},
		{"empty body", http.MethodPost, "", "", http.StatusOK},
		{"GET ignored", http.MethodGet, "text/plain", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/test", bytes.NewBufferString(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			r.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestLimitBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sm := NewSecurityMiddleware(SecurityConfig{MaxBodyBytes: 16})

	r := gin.New()
	r.Use(sm.LimitBody)
	r.POST("/test", func(c *gin.Context) {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"a":1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"a":"`+strings.Repeat("x", 64)+`"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestCORSConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		origins        []string
		origin         string
		method         string
		expectedStatus int
		wantOrigin     string
	}{
		{"wildcard", []string{"*"}, "https://quiz.example.com", http.MethodGet, http.StatusOK, "*"},
		{"allowed origin", []string{"https://quiz.example.com"}, "https://quiz.example.com", http.MethodGet, http.StatusOK, "https://quiz.example.com"},
		{"disallowed origin", []string{"https://quiz.example.com"}, "https://evil.example.com", http.MethodGet, http.StatusForbidden, ""},
		{"preflight", []string{"https://quiz.example.com"}, "https://quiz.example.com", http.MethodOptions, http.StatusNoContent, "https://quiz.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := NewSecurityMiddleware(SecurityConfig{AllowedOrigins: tt.origins})

			r := gin.New()
			r.Use(sm.CORSConfig())
			r.GET("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"message": "test"})
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/test", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.method == http.MethodOptions {
				req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			}

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sm := NewSecurityMiddleware(SecurityConfig{RequestTimeout: 5 * time.Millisecond})

	r := gin.New()
	r.Use(sm.RequestTimeout)

	var deadlineHit bool
	r.GET("/test", func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
			deadlineHit = true
		case <-time.After(time.Second):
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	start := time.Now()
	r.ServeHTTP(w, req)

	assert.True(t, deadlineHit)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, "0", w.Header().Get("X-Timeout"))
}
