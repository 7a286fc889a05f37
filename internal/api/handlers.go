// Package api exposes the user store contract as a JSON API secured with
// bearer tokens.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/admin"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/auth"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/directory"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/logger"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/metrics"
	"github.com/Praveenjayasiri/Simple-User-Management-System/middleware"
	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
)

type Handler struct {
	store     auth.Authenticator
	directory *directory.Directory
	tokens    *auth.TokenIssuer
	mw        *middleware.Middleware
	log       *logger.Logger
	metrics   *metrics.Metrics
	validate  *validator.Validate
}

func NewHandler(
	store auth.Authenticator,
	dir *directory.Directory,
	tokens *auth.TokenIssuer,
	log *logger.Logger,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		store:     store,
		directory: dir,
		tokens:    tokens,
		mw:        middleware.NewMiddleware(tokens),
		log:       log.With("component", "api"),
		metrics:   m,
		validate:  validator.New(),
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// updateUserRequest is a partial update; omitted fields are kept, present
// fields must not be empty.
type updateUserRequest struct {
	Username *string `json:"username" validate:"omitnil,min=1"`
	Email    *string `json:"email" validate:"omitnil,min=1"`
	Role     *string `json:"role" validate:"omitnil,min=1"`
	Password *string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	session := auth.NewSession(h.store)
	if !session.Login(r.Context(), req.Username, req.Password) {
		h.metrics.ObserveLogin(false)
		respondError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	h.metrics.ObserveLogin(true)

	user := session.CurrentUser()
	token, err := h.tokens.GenerateJWT(user)
	if err != nil {
		h.log.Errorw("issue token failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	respondJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.directory.Users())
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	panel := admin.NewPanel(h.directory)
	panel.SetField("username", req.Username)
	panel.SetField("email", req.Email)
	panel.SetField("role", req.Role)
	panel.SetField("password", req.Password)

	created, err := panel.Submit(r.Context())
	if err != nil {
		h.observeMutation("create", err)
		respondErr(w, err)
		return
	}
	h.observeMutation("create", nil)
	h.log.Infow("user created", "id", created.ID, "by", middleware.UserFromContext(r.Context()).Username)
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondErr(w, admin.ErrFieldsRequired)
		return
	}

	updated, err := h.directory.UpdateUser(r.Context(), id, models.UserFields{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	h.observeMutation("update", err)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	removed, err := h.directory.DeleteUser(r.Context(), id)
	h.observeMutation("delete", err)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, removed)
}

// observeMutation counts store calls. Validation failures never reach the
// store and are not counted.
func (h *Handler) observeMutation(op string, err error) {
	if errors.Is(err, admin.ErrFieldsRequired) {
		return
	}
	h.metrics.ObserveUserMutation(op, err)
}
