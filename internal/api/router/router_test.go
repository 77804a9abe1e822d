package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskdeck/internal/api/handler"
	"taskdeck/internal/api/middleware"
	"taskdeck/internal/core/repository"
	"taskdeck/internal/core/service"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	userRepo := repository.NewInMemoryUserRepository()
	taskRepo := repository.NewInMemoryTaskRepository()

	authService := service.NewAuthService(userRepo, nil, "test-secret", time.Hour)
	taskService := service.NewTaskService(taskRepo, userRepo)
	userService := service.NewUserService(userRepo, taskRepo)

	return NewRouter(
		handler.NewAuthHandler(authService, time.Hour),
		handler.NewTaskHandler(taskService),
		handler.NewUserHandler(userService),
		middleware.NewAuthMiddleware(authService),
	)
}

func doJSON(t *testing.T, r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func loginToken(t *testing.T, r http.Handler, email, password string) string {
	t.Helper()

	rec := doJSON(t, r, http.MethodPost, "/api/auth/login", "",
		`{"email":"`+email+`","password":"`+password+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", email, rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("login response carries no token")
	}
	return resp.Token
}

func TestBootstrapFlow(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/auth/check-init", "", "")
	var check struct {
		NeedsInitialization bool `json:"needsInitialization"`
	}
	decodeBody(t, rec, &check)
	if !check.NeedsInitialization {
		t.Fatal("empty store should need initialization")
	}

	rec = doJSON(t, r, http.MethodPost, "/api/auth/init-admin", "",
		`{"name":"Root","email":"root@example.com","password":"secret"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("init-admin: status %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, r, http.MethodGet, "/api/auth/check-init", "", "")
	decodeBody(t, rec, &check)
	if check.NeedsInitialization {
		t.Fatal("initialized store should not need initialization")
	}

	rec = doJSON(t, r, http.MethodPost, "/api/auth/init-admin", "",
		`{"name":"Root2","email":"root2@example.com","password":"secret"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("second init-admin: status %d want 400", rec.Code)
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		`{"name":"Alice","email":"alice@example.com","password":"pw"}`)

	rec := doJSON(t, r, http.MethodPost, "/api/auth/login", "",
		`{"email":"alice@example.com","password":"pw"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d: %s", rec.Code, rec.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("login did not set the session cookie")
	}
	if !sessionCookie.HttpOnly {
		t.Fatal("session cookie must be httpOnly")
	}

	rec = doJSON(t, r, http.MethodPost, "/api/auth/login", "",
		`{"email":"alice@example.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: status %d want 401", rec.Code)
	}
}

func TestProtectedRoutesRequireAuthentication(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/tasks", "/api/users", "/api/users/assigned", "/api/tasks/stats"} {
		rec := doJSON(t, r, http.MethodGet, path, "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s without token: status %d want 401", path, rec.Code)
		}
	}
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		`{"name":"Alice","email":"alice@example.com","password":"pw"}`)
	token := loginToken(t, r, "alice@example.com", "pw")

	rec := doJSON(t, r, http.MethodPost, "/api/tasks", token,
		`{"title":"write report","status":"in-progress"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create task: status %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ID      string `json:"id"`
		OwnerID string `json:"ownerId"`
	}
	decodeBody(t, rec, &created)
	if created.OwnerID == "" {
		t.Fatal("created task has no owner")
	}

	rec = doJSON(t, r, http.MethodGet, "/api/tasks", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list tasks: status %d", rec.Code)
	}
	var tasks []struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &tasks)
	if len(tasks) != 1 || tasks[0].ID != created.ID {
		t.Fatalf("list: got %v want [%s]", tasks, created.ID)
	}

	rec = doJSON(t, r, http.MethodDelete, "/api/tasks/delete?id="+created.ID, token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete task: status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		`{"name":"Alice","email":"alice@example.com","password":"pw"}`)
	token := loginToken(t, r, "alice@example.com", "pw")

	rec := doJSON(t, r, http.MethodGet, "/api/users", token, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user listing users: status %d want 403", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/tasks/stats", token, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user fetching stats: status %d want 403", rec.Code)
	}
}

func TestUserSerializationExcludesPassword(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/auth/init-admin", "",
		`{"name":"Root","email":"root@example.com","password":"secret"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("init-admin: status %d", rec.Code)
	}
	token := loginToken(t, r, "root@example.com", "secret")

	rec = doJSON(t, r, http.MethodGet, "/api/users", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list users: status %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("user payload leaks credentials: %s", rec.Body.String())
	}
}

func TestVerifyEndpoint(t *testing.T) {
	r := newTestRouter(t)

	doJSON(t, r, http.MethodPost, "/api/auth/register", "",
		`{"name":"Alice","email":"alice@example.com","password":"pw"}`)
	token := loginToken(t, r, "alice@example.com", "pw")

	var resp struct {
		Valid bool `json:"valid"`
	}

	rec := doJSON(t, r, http.MethodGet, "/api/auth/verify", token, "")
	decodeBody(t, rec, &resp)
	if !resp.Valid {
		t.Fatal("fresh token should verify")
	}

	rec = doJSON(t, r, http.MethodGet, "/api/auth/verify", "garbage", "")
	decodeBody(t, rec, &resp)
	if resp.Valid {
		t.Fatal("garbage token must not verify")
	}
}
