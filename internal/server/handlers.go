package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/spotctl/internal/auth"
	"github.com/desertthunder/spotctl/internal/credentials"
	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/player"
	"github.com/desertthunder/spotctl/internal/services"
	"github.com/desertthunder/spotctl/internal/shared"
)

//go:embed ui.html
var uiPage []byte

// stateCookie carries the OAuth state between "/" and "/callback".
const stateCookie = "spotctl_oauth_state"

const maxVoiceBody = 4 << 10

// Authorizer runs the authorization flow.
type Authorizer interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (credentials.TokenRecord, error)
	Status(ctx context.Context) (auth.Status, error)
}

// Controller runs playback commands.
type Controller interface {
	Control(ctx context.Context, cmd player.Command, source models.Source) (player.Ack, error)
	Voice(ctx context.Context, text string) (player.Ack, error)
}

// Handlers serves the web front end.
type Handlers struct {
	auth     Authorizer
	playback Controller
	logger   *log.Logger
}

// NewHandlers creates the route handlers.
func NewHandlers(authorizer Authorizer, playback Controller, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = log.Default()
	}
	return &Handlers{auth: authorizer, playback: playback, logger: logger}
}

// RouterOptions configures [NewRouter].
type RouterOptions struct {
	Logger         *log.Logger
	AllowedOrigins []string
	// Limiter throttles the command routes; nil disables limiting.
	Limiter *RateLimiter
}

// NewRouter registers every route of the web front end.
func NewRouter(h *Handlers, opts RouterOptions) *BasicRouter {
	logger := opts.Logger
	if logger == nil {
		logger = h.logger
	}

	limited := func(fn http.HandlerFunc) http.Handler {
		if opts.Limiter == nil {
			return fn
		}
		return opts.Limiter.Middleware(fn)
	}

	r := NewBasicRouter()
	r.Use(Recovery(logger), Logging(shared.Slog(logger)), CORS(opts.AllowedOrigins))

	r.Handle(http.MethodGet, "/{$}", http.HandlerFunc(h.Authorize))
	r.Handle(http.MethodGet, "/callback", http.HandlerFunc(h.Callback))
	r.Handle(http.MethodGet, "/ui", http.HandlerFunc(h.UI))
	r.Handle(http.MethodGet, "/status", http.HandlerFunc(h.Status))
	r.Handle(http.MethodGet, "/{command}", limited(h.Command))
	r.Handle(http.MethodPost, "/voice_control", limited(h.Voice))
	r.Handle(http.MethodOptions, "/voice_control", http.HandlerFunc(h.Preflight))

	return r
}

// Authorize redirects to the provider's consent page with a fresh state value.
func (h *Handlers) Authorize(w http.ResponseWriter, r *http.Request) {
	state := shared.GenerateID()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.auth.AuthCodeURL(state), http.StatusFound)
}

// Callback completes the authorization code exchange and redirects to the UI.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		h.logger.Warn("authorization denied", "error", errParam)
		writeJSONError(w, http.StatusBadRequest, "authorization failed: "+errParam)
		return
	}

	code := query.Get("code")
	if code == "" {
		writeJSONError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	if cookie, err := r.Cookie(stateCookie); err == nil {
		if cookie.Value != query.Get("state") {
			writeJSONError(w, http.StatusBadRequest, "invalid state parameter")
			return
		}
		http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/", MaxAge: -1})
	}

	if _, err := h.auth.ExchangeCode(r.Context(), code); err != nil {
		h.fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/ui", http.StatusFound)
}

// UI serves the playback control page.
func (h *Handlers) UI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(uiPage)
}

type statusResponse struct {
	Status string      `json:"status"`
	Auth   auth.Status `json:"auth"`
}

// Status reports whether credentials are stored, without exposing them.
func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.auth.Status(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: StatusOK, Auth: st})
}

// Command dispatches the command named by the path.
func (h *Handlers) Command(w http.ResponseWriter, r *http.Request) {
	cmd, err := player.ParseCommand(r.PathValue("command"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ack, err := h.playback.Control(r.Context(), cmd, models.SourceWeb)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Status: StatusOK, Command: ack.Command.String()})
}

type voiceRequest struct {
	Command string `json:"command"`
}

// Voice resolves free-form text to a command and dispatches it.
func (h *Handlers) Voice(w http.ResponseWriter, r *http.Request) {
	var body voiceRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxVoiceBody)).Decode(&body); err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	ack, err := h.playback.Voice(r.Context(), body.Command)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Status: StatusOK, Command: ack.Command.String()})
}

// Preflight answers CORS preflight requests; the headers come from [CORS].
func (h *Handlers) Preflight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Response{Status: StatusOK})
}

// fail writes the JSON error for err with the mapped status code.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := services.StatusCode(err)
	resp := Response{
		Status:  StatusError,
		Error:   err.Error(),
		Message: services.Reason(err),
	}

	if services.NeedsAuthorization(err) {
		resp.AuthURL = authEntry(r)
	}

	var authErr *auth.AuthError
	if errors.As(err, &authErr) && authErr.Body != "" {
		resp.Message = authErr.Body
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		h.logger.Debug("request refused", "path", r.URL.Path, "status", status, "error", err)
	}

	writeJSON(w, status, resp)
}

// authEntry is the absolute URL of the route that starts authorization.
func authEntry(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme, _, _ = strings.Cut(proto, ",")
	}
	return scheme + "://" + r.Host + "/"
}
