package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"budgetbook/internal/middleware"
	"budgetbook/internal/services"
	"budgetbook/internal/testutil"
)

// setupAppRouter wires the real services against the test database, mirroring
// the routes in cmd/api.
func setupAppRouter(t *testing.T) (*gin.Engine, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userService := services.NewUserService(db)
	entryService := services.NewEntryService(db)

	authHandler := NewAuthHandler(userService)
	entryHandler := NewEntryHandler(entryService)

	r := gin.New()
	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := v1.Group("/", middleware.Auth(userService))
	protected.GET("/profile", authHandler.GetProfile)
	entries := protected.Group("/entries")
	entries.POST("", entryHandler.Create)
	entries.GET("", entryHandler.List)
	entries.GET("/export", entryHandler.Export)
	entries.DELETE("/:id", entryHandler.Delete)

	return r, func() { testutil.TeardownTestDB(t, db) }
}

func entryPath(id float64) string {
	return fmt.Sprintf("/api/v1/entries/%d", int(id))
}

func doAuthedRequest(r *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()

	rec := doRequest(r, "POST", "/api/v1/auth/register",
		`{"username":"`+username+`","password":"`+password+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed with %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(r, "POST", "/api/v1/auth/login",
		`{"username":"`+username+`","password":"`+password+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %s", rec.Code, rec.Body.String())
	}
	token, ok := parseJSON(t, rec)["token"].(string)
	if !ok || token == "" {
		t.Fatal("expected a token from login")
	}
	return token
}

func listEntries(t *testing.T, r *gin.Engine, token string) []interface{} {
	t.Helper()

	rec := doAuthedRequest(r, "GET", "/api/v1/entries", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list failed with %d: %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["entries"].([]interface{})
}

func TestEntryLifecycleFlow(t *testing.T) {
	r, teardown := setupAppRouter(t)
	defer teardown()

	token := registerAndLogin(t, r, "flow_alice", "pw1")

	// Duplicate registration is rejected.
	rec := doRequest(r, "POST", "/api/v1/auth/register", `{"username":"flow_alice","password":"other"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate registration, got %d", rec.Code)
	}

	// Wrong password is rejected.
	rec = doRequest(r, "POST", "/api/v1/auth/login", `{"username":"flow_alice","password":"pw2"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}

	// Create an entry.
	rec = doAuthedRequest(r, "POST", "/api/v1/entries", token,
		`{"date":"2024-01-01","type":"Expense","category":"Groceries","amount":45.50}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed with %d: %s", rec.Code, rec.Body.String())
	}
	created := parseJSON(t, rec)
	entryID := created["id"].(float64)
	if entryID == 0 {
		t.Fatal("expected an assigned entry id")
	}

	// The entry shows up in the list with the stored values.
	entries := listEntries(t, r, token)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	entry := entries[0].(map[string]interface{})
	if entry["date"] != "2024-01-01" || entry["type"] != "Expense" ||
		entry["category"] != "Groceries" || entry["amount"] != 45.50 {
		t.Errorf("unexpected entry payload: %v", entry)
	}

	// Delete it; the list is empty afterwards and a second delete 404s.
	rec = doAuthedRequest(r, "DELETE", entryPath(entryID), token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete failed with %d: %s", rec.Code, rec.Body.String())
	}
	if entries := listEntries(t, r, token); len(entries) != 0 {
		t.Fatalf("expected empty list after delete, got %d entries", len(entries))
	}
	rec = doAuthedRequest(r, "DELETE", entryPath(entryID), token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestOwnershipIsolationFlow(t *testing.T) {
	r, teardown := setupAppRouter(t)
	defer teardown()

	aliceToken := registerAndLogin(t, r, "iso_alice", "pw1")
	bobToken := registerAndLogin(t, r, "iso_bob", "pw2")

	rec := doAuthedRequest(r, "POST", "/api/v1/entries", aliceToken,
		`{"date":"2024-06-15","type":"Income","category":"Salary","amount":1000}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed with %d: %s", rec.Code, rec.Body.String())
	}
	entryID := parseJSON(t, rec)["id"].(float64)

	// Alice's entry is invisible to Bob.
	if entries := listEntries(t, r, bobToken); len(entries) != 0 {
		t.Fatalf("expected bob to see no entries, got %d", len(entries))
	}

	// Bob deleting Alice's entry looks exactly like a missing entry.
	rec = doAuthedRequest(r, "DELETE", entryPath(entryID), bobToken, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for cross-user delete, got %d", rec.Code)
	}

	// And Alice's entry is still there.
	if entries := listEntries(t, r, aliceToken); len(entries) != 1 {
		t.Fatalf("expected alice's entry to survive, got %d entries", len(entries))
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, teardown := setupAppRouter(t)
	defer teardown()

	rec := doAuthedRequest(r, "GET", "/api/v1/entries", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	rec = doAuthedRequest(r, "GET", "/api/v1/entries", "garbage", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", rec.Code)
	}
}
