// Package web serves the server-rendered HTML pages.
package web

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mohamedamrelashry/fitness/internal/auth"
	"github.com/mohamedamrelashry/fitness/internal/domain"
	"github.com/mohamedamrelashry/fitness/internal/users"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplates = []string{
	"home",
	"login",
	"register",
	"activity_list",
	"activity_form",
	"activity_confirm_delete",
	"activity_history",
}

// Handler renders the HTML pages and processes their form submissions.
type Handler struct {
	activities *domain.Service
	accounts   *users.Service
	authCfg    auth.Config
	pages      map[string]*template.Template
}

// NewHandler builds a Handler with all page templates parsed.
func NewHandler(activities *domain.Service, accounts *users.Service, authCfg auth.Config) *Handler {
	pages := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		pages[name] = template.Must(template.ParseFS(templatesFS,
			"templates/layout.html", "templates/"+name+".html"))
	}
	return &Handler{activities: activities, accounts: accounts, authCfg: authCfg, pages: pages}
}

// RegisterRoutes wires the page endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.home)
	mux.HandleFunc("/auth/register", h.registerPage)
	mux.HandleFunc("/auth/login", h.loginPage)
	mux.HandleFunc("/auth/logout", h.logoutPage)
	mux.HandleFunc("/activities", h.listPage)
	mux.HandleFunc("/activities/create", h.createPage)
	mux.HandleFunc("/activities/history", h.historyPage)
	mux.HandleFunc("/activities/", h.activityPage)
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	claims, _ := auth.FromContext(r.Context())
	h.render(w, "home", pageData{Claims: claims})
}

func (h *Handler) registerPage(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.render(w, "register", pageData{})
	case http.MethodPost:
		h.handleRegister(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	fields := make(map[string]string)
	if username == "" {
		fields["username"] = "is required"
	}
	if len(password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	if len(fields) > 0 {
		h.render(w, "register", pageData{Errors: fields, Form: map[string]string{"username": username}})
		return
	}

	if _, err := h.accounts.Register(r.Context(), username, password); err != nil {
		if errors.Is(err, users.ErrUsernameTaken) {
			h.render(w, "register", pageData{
				Errors: map[string]string{"username": "already taken"},
				Form:   map[string]string{"username": username},
			})
			return
		}
		h.serverError(w, err)
		return
	}

	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.render(w, "login", pageData{})
	case http.MethodPost:
		h.handleLogin(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	user, err := h.accounts.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			h.render(w, "login", pageData{
				Errors: map[string]string{"login": "invalid username or password"},
				Form:   map[string]string{"username": username},
			})
			return
		}
		h.serverError(w, err)
		return
	}

	token, err := auth.NewToken(h.authCfg, user.ID, user.Username)
	if err != nil {
		h.serverError(w, err)
		return
	}

	auth.SetSessionCookie(w, token, h.authCfg.Expiry)
	http.Redirect(w, r, "/activities", http.StatusSeeOther)
}

func (h *Handler) logoutPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) listPage(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	result, err := h.activities.ListActivities(r.Context(), claims.UserID, domain.ListFilter{},
		domain.DefaultOrdering(), domain.Page{Offset: (page - 1) * domain.DefaultPageSize, Limit: domain.DefaultPageSize})
	if err != nil {
		h.serverError(w, err)
		return
	}

	data := pageData{
		Claims:     claims,
		Activities: result.Items,
		Total:      result.Total,
		Page:       page,
	}
	if result.NextOffset != nil {
		data.NextPage = page + 1
	}
	if page > 1 {
		data.PrevPage = page - 1
	}
	h.render(w, "activity_list", data)
}

func (h *Handler) createPage(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.render(w, "activity_form", pageData{Claims: claims, Types: domain.ActivityTypes(), Form: map[string]string{}})
	case http.MethodPost:
		input, form, fields := parseActivityForm(r)
		if len(fields) == 0 {
			_, err := h.activities.CreateActivity(r.Context(), claims.UserID, input)
			var verr *domain.ValidationError
			switch {
			case err == nil:
				http.Redirect(w, r, "/activities", http.StatusSeeOther)
				return
			case errors.As(err, &verr):
				fields = verr.Fields
			default:
				h.serverError(w, err)
				return
			}
		}
		h.render(w, "activity_form", pageData{Claims: claims, Types: domain.ActivityTypes(), Errors: fields, Form: form})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// activityPage dispatches /activities/{id}/edit and /activities/{id}/delete.
func (h *Handler) activityPage(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/activities/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id, action := parts[0], parts[1]

	switch action {
	case "edit":
		h.editPage(w, r, claims, id)
	case "delete":
		h.deletePage(w, r, claims, id)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) editPage(w http.ResponseWriter, r *http.Request, claims *auth.Claims, id string) {
	switch r.Method {
	case http.MethodGet:
		activity, err := h.activities.GetActivity(r.Context(), claims.UserID, id)
		if err != nil {
			h.notFoundOrError(w, err)
			return
		}
		h.render(w, "activity_form", pageData{
			Claims: claims,
			Types:  domain.ActivityTypes(),
			Form:   activityToForm(*activity),
			EditID: id,
		})
	case http.MethodPost:
		input, form, fields := parseActivityForm(r)
		if len(fields) == 0 {
			_, err := h.activities.UpdateActivity(r.Context(), claims.UserID, id, input)
			var verr *domain.ValidationError
			switch {
			case err == nil:
				http.Redirect(w, r, "/activities", http.StatusSeeOther)
				return
			case errors.As(err, &verr):
				fields = verr.Fields
			case errors.Is(err, domain.ErrActivityNotFound):
				http.NotFound(w, r)
				return
			default:
				h.serverError(w, err)
				return
			}
		}
		h.render(w, "activity_form", pageData{Claims: claims, Types: domain.ActivityTypes(), Errors: fields, Form: form, EditID: id})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) deletePage(w http.ResponseWriter, r *http.Request, claims *auth.Claims, id string) {
	switch r.Method {
	case http.MethodGet:
		activity, err := h.activities.GetActivity(r.Context(), claims.UserID, id)
		if err != nil {
			h.notFoundOrError(w, err)
			return
		}
		h.render(w, "activity_confirm_delete", pageData{Claims: claims, Activities: []domain.Activity{*activity}, EditID: id})
	case http.MethodPost:
		if err := h.activities.DeleteActivity(r.Context(), claims.UserID, id); err != nil {
			h.notFoundOrError(w, err)
			return
		}
		http.Redirect(w, r, "/activities", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) historyPage(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter, fields := parseHistoryFilter(r)

	var activities []domain.Activity
	var totals domain.MetricsResult
	if len(fields) == 0 {
		var err error
		activities, err = h.activities.ListAllActivities(r.Context(), claims.UserID, filter)
		if err != nil {
			h.serverError(w, err)
			return
		}
		totals = domain.Reduce(activities, domain.PeriodAll)
	}

	h.render(w, "activity_history", pageData{
		Claims:     claims,
		Types:      domain.ActivityTypes(),
		Activities: activities,
		Totals:     totals,
		Errors:     fields,
		Form: map[string]string{
			"activity_type": r.URL.Query().Get("activity_type"),
			"start_date":    r.URL.Query().Get("start_date"),
			"end_date":      r.URL.Query().Get("end_date"),
		},
	})
}

func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return nil, false
	}
	return claims, true
}

func (h *Handler) notFoundOrError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrActivityNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	h.serverError(w, err)
}

func (h *Handler) serverError(w http.ResponseWriter, err error) {
	slog.Error("page request failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// pageData is the context passed to every page template.
type pageData struct {
	Claims     *auth.Claims
	Activities []domain.Activity
	Types      []domain.ActivityType
	Totals     domain.MetricsResult
	Errors     map[string]string
	Form       map[string]string
	EditID     string
	Total      int
	Page       int
	NextPage   int
	PrevPage   int
}

func (h *Handler) render(w http.ResponseWriter, name string, data pageData) {
	tmpl, ok := h.pages[name]
	if !ok {
		h.serverError(w, errors.New("unknown template "+name))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
	}
}
