package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sahilmate/multi-agent-form-processing-system/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-secret"))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func TestRequireAuthorization(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"bearer token", "Bearer opaque-token", http.StatusOK},
		{"any scheme is relayed", "Basic dXNlcjpwYXNz", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			router := gin.New()
			router.Use(RequireAuthorization())
			router.GET("/test", func(c *gin.Context) {
				reached = true
				c.JSON(http.StatusOK, gin.H{"authorization": GetAuthorization(c)})
			})

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus == http.StatusUnauthorized {
				if reached {
					t.Error("Handler must not run without Authorization header")
				}
				if !strings.Contains(w.Body.String(), `"detail":"Authorization header missing"`) {
					t.Errorf("Unexpected body: %s", w.Body.String())
				}
			}
		})
	}
}

func TestRequireAuthorizationSetsSubject(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "clerk@dept.gov"})

	var subject any
	router := gin.New()
	router.Use(RequireAuthorization())
	router.GET("/test", func(c *gin.Context) {
		subject = c.Request.Context().Value(logger.SubjectKey)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(httptest.NewRecorder(), req)

	if subject != "clerk@dept.gov" {
		t.Errorf("Expected subject 'clerk@dept.gov', got '%v'", subject)
	}
}

func TestTokenSubject(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"sub claim", "Bearer " + signedToken(t, jwt.MapClaims{"sub": "alice"}), "alice"},
		{"username claim", "bearer " + signedToken(t, jwt.MapClaims{"username": "bob"}), "bob"},
		{"no subject", "Bearer " + signedToken(t, jwt.MapClaims{"role": "admin"}), ""},
		{"opaque token", "Bearer not-a-jwt", ""},
		{"missing scheme", signedToken(t, jwt.MapClaims{"sub": "alice"}), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TokenSubject(tt.header); got != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestScope(t *testing.T) {
	var scope any
	router := gin.New()
	router.Use(Scope("admin"))
	router.GET("/test", func(c *gin.Context) {
		scope, _ = c.Get("scope")
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", nil))

	if scope != "admin" {
		t.Errorf("Expected scope 'admin', got '%v'", scope)
	}
}
