package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
)

func (h *WebHandler) SetupRoutes() *mux.Router {
	r := mux.NewRouter()

	// Web pages
	r.HandleFunc("/", h.Root).Methods("GET")
	r.HandleFunc("/login", h.LoginPage).Methods("GET")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/logout", h.Logout).Methods("POST")
	r.HandleFunc("/dashboard", h.requireUser("", h.Dashboard)).Methods("GET")

	// Admin panel
	r.HandleFunc("/admin", h.requireUser(models.RoleAdmin, h.Admin)).Methods("GET")
	r.HandleFunc("/admin/users", h.requireUser(models.RoleAdmin, h.CreateUser)).Methods("POST")
	r.HandleFunc("/admin/users/{id:[0-9]+}", h.requireUser(models.RoleAdmin, h.UpdateUser)).Methods("POST")
	r.HandleFunc("/admin/users/{id:[0-9]+}/delete", h.requireUser(models.RoleAdmin, h.DeleteUser)).Methods("POST")
	r.HandleFunc("/admin/refresh", h.requireUser(models.RoleAdmin, h.Refresh)).Methods("POST")

	// Operations
	r.HandleFunc("/healthz", h.Healthz).Methods("GET")
	r.Handle("/metrics", h.metrics.Handler()).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(h.NotFound)

	return r
}
