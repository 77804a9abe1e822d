package router

import (
	"encoding/json"
	"net/http"

	"taskdeck/internal/api/handler"
	"taskdeck/internal/api/middleware"
	"taskdeck/internal/core/model"
)

func NewRouter(
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	userHandler *handler.UserHandler,
	authMiddleware *middleware.AuthMiddleware,
) http.Handler {
	mux := http.NewServeMux()

	// Middleware chains. CORS answers preflight before anything else runs.
	public := func(h http.Handler) http.Handler {
		return middleware.CORSMiddleware(middleware.LoggingMiddleware(h))
	}
	protected := func(h http.Handler) http.Handler {
		return public(authMiddleware.Authenticate(h))
	}
	adminOnly := func(h http.Handler) http.Handler {
		return public(authMiddleware.RequireRole(model.RoleAdmin)(h))
	}
	managerOrAdmin := func(h http.Handler) http.Handler {
		return public(authMiddleware.RequireRole(model.RoleAdmin, model.RoleManager)(h))
	}

	// Health check endpoint
	mux.Handle("/health", public(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status": "ok",
		})
	})))

	// Auth routes
	mux.Handle("/api/auth/login", public(post(authHandler.Login)))
	mux.Handle("/api/auth/register", public(post(authHandler.Register)))
	mux.Handle("/api/auth/logout", public(post(authHandler.Logout)))
	mux.Handle("/api/auth/verify", public(get(authHandler.Verify)))
	mux.Handle("/api/auth/init-admin", public(post(authHandler.InitAdmin)))
	mux.Handle("/api/auth/check-init", public(get(authHandler.CheckInit)))

	// Task routes
	mux.Handle("/api/tasks", protected(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			taskHandler.List(w, r)
		case http.MethodPost:
			taskHandler.Create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/tasks/get", protected(get(taskHandler.Get)))
	mux.Handle("/api/tasks/update", protected(put(taskHandler.Update)))
	mux.Handle("/api/tasks/delete", protected(del(taskHandler.Delete)))
	mux.Handle("/api/tasks/stats", managerOrAdmin(get(taskHandler.Stats)))

	// User routes
	mux.Handle("/api/users", adminOnly(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			userHandler.List(w, r)
		case http.MethodPost:
			userHandler.Create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/api/users/get", protected(get(userHandler.Get)))
	mux.Handle("/api/users/update", adminOnly(put(userHandler.Update)))
	mux.Handle("/api/users/delete", adminOnly(del(userHandler.Delete)))
	mux.Handle("/api/users/assigned", managerOrAdmin(get(userHandler.ListAssigned)))

	return mux
}

func get(h http.HandlerFunc) http.Handler  { return method(http.MethodGet, h) }
func post(h http.HandlerFunc) http.Handler { return method(http.MethodPost, h) }
func put(h http.HandlerFunc) http.Handler  { return method(http.MethodPut, h) }
func del(h http.HandlerFunc) http.Handler  { return method(http.MethodDelete, h) }

func method(verb string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != verb {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	})
}
