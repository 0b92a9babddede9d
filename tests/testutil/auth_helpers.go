package testutil

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/suitsync/suitsync-api/services"
)

// TestJWTSecret is the signing secret used across integration tests
const TestJWTSecret = "integration-test-secret"

// MintToken signs a token for the given user the same way the login
// endpoint does
func MintToken(t *testing.T, userID uint, role string) string {
	t.Helper()

	token, err := services.GenerateToken(userID, role, []byte(TestJWTSecret))
	if err != nil {
		t.Fatalf("Failed to mint test token: %v", err)
	}
	return token
}

// Authorize attaches a freshly minted Bearer token for the given user
// to the request
func Authorize(t *testing.T, req *http.Request, userID uint, role string) {
	t.Helper()
	req.Header.Set("Authorization", "Bearer "+MintToken(t, userID, role))
}

// SetMockAuthContext sets up a mock authenticated context for handler tests
func SetMockAuthContext(c *gin.Context, userID uint, role string) {
	c.Set("user_id", userID)
	c.Set("role", role)
}

// CreateTestContext creates a test Gin context
func CreateTestContext() (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, engine := gin.CreateTestContext(nil)
	return c, engine
}
