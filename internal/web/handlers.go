package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"github.com/Praveenjayasiri/Simple-User-Management-System/db"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/admin"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/auth"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/config"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/directory"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/guard"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/logger"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/metrics"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/table"
	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
)

const (
	msgInvalidLogin = "Invalid username or password"
	msgUserNotFound = "User not found"
)

type WebHandler struct {
	store        auth.Authenticator
	directory    *directory.Directory
	templates    map[string]*template.Template
	sessionStore *sessions.CookieStore
	log          *logger.Logger
	metrics      *metrics.Metrics
}

type PageData struct {
	Page       string
	Path       string
	User       *models.User
	ShowNavbar bool
	Flashes    []Flash
	Error      string
	Username   string

	Table   table.Page
	Actions bool

	Form    admin.Form
	Editing *admin.Editing
}

func NewWebHandler(
	store auth.Authenticator,
	dir *directory.Directory,
	cfg *config.Config,
	log *logger.Logger,
	m *metrics.Metrics,
) (*WebHandler, error) {
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   !cfg.IsLocal(),
		SameSite: http.SameSiteLaxMode,
	}

	return &WebHandler{
		store:        store,
		directory:    dir,
		templates:    templates,
		sessionStore: sessionStore,
		log:          log.With("component", "web"),
		metrics:      m,
	}, nil
}

// guardedHandler is a page handler that runs after the route guard let the
// request through.
type guardedHandler func(w http.ResponseWriter, r *http.Request, session *sessions.Session, user *models.User)

// requireUser applies the route guard. An empty role only requires a
// logged-in user.
func (h *WebHandler) requireUser(role string, next guardedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.cookieSession(r)
		user := h.authSession(session).CurrentUser()

		switch guard.Decide(user, role) {
		case guard.RedirectLogin:
			h.redirectToLogin(w, r)
		case guard.Forbidden:
			h.log.Warnw("access denied", "user", user.Username, "role", user.Role, "path", r.URL.Path)
			h.render(w, r, session, http.StatusForbidden, "forbidden", &PageData{Page: "forbidden", User: user})
		default:
			next(w, r, session, user)
		}
	}
}

func (h *WebHandler) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", guard.LoginPath)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
}

// render executes the named page into a buffer first so a template error
// still produces a clean 500.
func (h *WebHandler) render(w http.ResponseWriter, r *http.Request, session *sessions.Session, status int, page string, data *PageData) {
	tmpl, ok := h.templates[page]
	if !ok {
		h.log.Errorw("unknown template", "page", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data.ShowNavbar = !guard.HideNavbar(r.URL.Path)
	data.Flashes = append(popFlashes(session), data.Flashes...)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		h.log.Errorw("template execution failed", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := session.Save(r, w); err != nil {
		h.log.Errorw("failed to save session", "error", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *WebHandler) redirect(w http.ResponseWriter, r *http.Request, session *sessions.Session, to string) {
	if err := session.Save(r, w); err != nil {
		h.log.Errorw("failed to save session", "error", err)
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *WebHandler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
}

func (h *WebHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	session := h.cookieSession(r)
	h.render(w, r, session, http.StatusOK, "login", &PageData{
		Page: "login",
		User: h.authSession(session).CurrentUser(),
	})
}

func (h *WebHandler) Login(w http.ResponseWriter, r *http.Request) {
	session := h.cookieSession(r)
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	s := h.authSession(session)
	if !s.Login(r.Context(), username, password) {
		h.metrics.ObserveLogin(false)
		h.log.Infow("login failed", "username", username)
		h.render(w, r, session, http.StatusOK, "login", &PageData{
			Page:     "login",
			User:     s.CurrentUser(),
			Error:    msgInvalidLogin,
			Username: username,
		})
		return
	}

	h.metrics.ObserveLogin(true)
	h.log.Infow("login succeeded", "username", username)
	storeUser(session, s.CurrentUser())
	h.redirect(w, r, session, "/dashboard")
}

func (h *WebHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := h.cookieSession(r)
	s := h.authSession(session)
	s.Logout()
	storeUser(session, s.CurrentUser())
	h.redirect(w, r, session, guard.LoginPath)
}

func (h *WebHandler) Dashboard(w http.ResponseWriter, r *http.Request, session *sessions.Session, user *models.User) {
	query, page := tableParams(r)
	tbl := table.New(h.directory.Users(), table.Options{Pad: true})
	tbl.SetGlobalFilter(query)
	tbl.GotoPage(page)

	h.render(w, r, session, http.StatusOK, "dashboard", &PageData{
		Page:  "dashboard",
		Path:  "/dashboard",
		User:  user,
		Table: tbl.Page(),
	})
}

func (h *WebHandler) Admin(w http.ResponseWriter, r *http.Request, session *sessions.Session, user *models.User) {
	panel := admin.NewPanel(h.directory)
	var flashes []Flash

	if edit := r.URL.Query().Get("edit"); edit != "" {
		id, err := strconv.ParseInt(edit, 10, 64)
		target, ok := h.directory.Find(id)
		if err != nil || !ok {
			flashes = append(flashes, Flash{Kind: FlashWarning, Message: msgUserNotFound})
		} else {
			panel.Edit(target)
		}
	}

	data := h.adminPage(r, user, panel)
	data.Flashes = flashes
	h.render(w, r, session, http.StatusOK, "admin", data)
}

func (h *WebHandler) adminPage(r *http.Request, user *models.User, panel *admin.Panel) *PageData {
	query, page := tableParams(r)
	tbl := table.New(h.directory.Users(), table.Options{})
	tbl.SetGlobalFilter(query)
	tbl.GotoPage(page)

	return &PageData{
		Page:    "admin",
		Path:    "/admin",
		User:    user,
		Table:   tbl.Page(),
		Actions: true,
		Form:    *panel.Active(),
		Editing: panel.Editing,
		Error:   panel.Error,
	}
}

func (h *WebHandler) CreateUser(w http.ResponseWriter, r *http.Request, session *sessions.Session, user *models.User) {
	panel := admin.NewPanel(h.directory)
	bindForm(panel, r)

	created, err := panel.Submit(r.Context())
	if errors.Is(err, admin.ErrFieldsRequired) {
		h.render(w, r, session, http.StatusUnprocessableEntity, "admin", h.adminPage(r, user, panel))
		return
	}
	h.metrics.ObserveUserMutation("create", err)
	if err != nil {
		h.log.Errorw("create user failed", "error", err)
		addFlash(session, FlashDanger, "Could not add user")
		h.redirect(w, r, session, "/admin")
		return
	}

	h.log.Infow("user created", "id", created.ID, "username", created.Username, "by", user.Username)
	addFlash(session, FlashSuccess, fmt.Sprintf("User %s added", created.Username))
	h.redirect(w, r, session, "/admin")
}

func (h *WebHandler) UpdateUser(w http.ResponseWriter, r *http.Request, session *sessions.Session, user *models.User) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	panel := admin.NewPanel(h.directory)
	target, ok := h.directory.Find(id)
	if !ok {
		target = &models.User{ID: id}
	}
	panel.Edit(target)

	if r.PostFormValue("action") == "cancel" {
		panel.Cancel()
		h.redirect(w, r, session, "/admin")
		return
	}

	bindForm(panel, r)
	updated, err := panel.Submit(r.Context())
	if errors.Is(err, admin.ErrFieldsRequired) {
		h.render(w, r, session, http.StatusUnprocessableEntity, "admin", h.adminPage(r, user, panel))
		return
	}
	h.metrics.ObserveUserMutation("update", err)
	switch {
	case errors.Is(err, db.ErrNotFound):
		addFlash(session, FlashWarning, msgUserNotFound)
	case err != nil:
		h.log.Errorw("update user failed", "id", id, "error", err)
		addFlash(session, FlashDanger, "Could not update user")
	default:
		h.log.Infow("user updated", "id", updated.ID, "by", user.Username)
		addFlash(session, FlashSuccess, fmt.Sprintf("User %s updated", updated.Username))
	}
	h.redirect(w, r, session, "/admin")
}

func (h *WebHandler) DeleteUser(w http.ResponseWriter, r *http.Request, session *sessions.Session, user *models.User) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	removed, err := admin.NewPanel(h.directory).Delete(r.Context(), id)
	h.metrics.ObserveUserMutation("delete", err)
	switch {
	case errors.Is(err, db.ErrNotFound):
		addFlash(session, FlashWarning, msgUserNotFound)
	case err != nil:
		h.log.Errorw("delete user failed", "id", id, "error", err)
		addFlash(session, FlashDanger, "Could not delete user")
	default:
		h.log.Infow("user deleted", "id", removed.ID, "by", user.Username)
		addFlash(session, FlashSuccess, fmt.Sprintf("User %s deleted", removed.Username))
	}
	h.redirect(w, r, session, "/admin")
}

func (h *WebHandler) Refresh(w http.ResponseWriter, r *http.Request, session *sessions.Session, user *models.User) {
	if err := h.directory.Reload(r.Context()); err != nil {
		h.log.Errorw("reload directory failed", "error", err)
		addFlash(session, FlashDanger, "Could not refresh users")
	} else {
		addFlash(session, FlashSuccess, "User list refreshed")
	}
	h.redirect(w, r, session, "/admin")
}

func (h *WebHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *WebHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	session := h.cookieSession(r)
	h.render(w, r, session, http.StatusNotFound, "not-found", &PageData{
		Page: "not-found",
		User: h.authSession(session).CurrentUser(),
	})
}

// bindForm copies the posted form fields into the panel's active form.
func bindForm(panel *admin.Panel, r *http.Request) {
	for _, field := range []string{"username", "email", "role", "password"} {
		panel.SetField(field, r.PostFormValue(field))
	}
}

// tableParams reads the search query and page index. A missing or malformed
// page is the first page; out-of-range pages are clamped by the table.
func tableParams(r *http.Request) (string, int) {
	q := r.URL.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil {
		page = 0
	}
	return q.Get("q"), page
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
