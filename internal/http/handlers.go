package http

import (
	"errors"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"careplan-assistant/internal/core"
	"careplan-assistant/internal/session"
	"careplan-assistant/pkg"
)

const sessionCookie = "careplan_session"

// Server bundles together the dependencies required by HTTP handlers. It
// implements http.Handler so it can be passed to http.ListenAndServe.
type Server struct {
	Sessions  *session.Manager
	Service   *core.CarePlanService
	Templates *template.Template
	Log       *logrus.Logger
}

// NewServer constructs a Server. It loads HTML templates from the
// internal/http/templates directory relative to the current working directory.
func NewServer(sessions *session.Manager, service *core.CarePlanService, log *logrus.Logger) (*Server, error) {
	tmplPath := filepath.Join("internal", "http", "templates", "*.html")
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"planRows": PlanRows,
		"fmtTime":  func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	}).ParseGlob(tmplPath)
	if err != nil {
		return nil, err
	}
	return &Server{
		Sessions:  sessions,
		Service:   service,
		Templates: tmpl,
		Log:       log,
	}, nil
}

// ServeHTTP dispatches incoming requests based on the URL path. Minimal
// routing logic is implemented here to keep dependencies light.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/" && r.Method == http.MethodGet:
		s.handleIndex(w, r)
	case r.URL.Path == "/generate" && r.Method == http.MethodPost:
		s.handleGenerate(w, r)
	case r.URL.Path == "/followup" && r.Method == http.MethodPost:
		s.handleFollowUp(w, r)
	case r.URL.Path == "/history" && r.Method == http.MethodGet:
		s.handleHistory(w, r)
	case r.URL.Path == "/end" && r.Method == http.MethodPost:
		s.handleEnd(w, r)
	default:
		http.NotFound(w, r)
	}
}

// sessionStore resolves the request's session cookie to a live store,
// minting a new session (and cookie) when needed.
func (s *Server) sessionStore(w http.ResponseWriter, r *http.Request) (string, *core.SessionStore) {
	var current string
	if c, err := r.Cookie(sessionCookie); err == nil {
		current = c.Value
	}
	id, store := s.Sessions.GetOrCreate(current)
	if id != current {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
		})
	}
	return id, store
}

// handleIndex renders the single-page UI: input form, session history and,
// once a generation exists, the follow-up box.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	_, store := s.sessionStore(w, r)
	data := struct {
		Formats    []pkg.OutputFormat
		HasContext bool
		FollowUp   followupView
		History    []pkg.HistoryEntry
	}{
		Formats:    []pkg.OutputFormat{pkg.FormatSOAP, pkg.FormatTable, pkg.FormatBoth},
		HasContext: store.HasLastOutputs(),
		FollowUp:   followupView{HasContext: store.HasLastOutputs()},
		History:    store.History(),
	}
	if err := s.Templates.ExecuteTemplate(w, "index.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleGenerate runs a generation and returns an HTML fragment with the
// rendered result (or a toast-styled message). Triggered via HTMX.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	_, store := s.sessionStore(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	patientText := r.FormValue("patient_text")
	format := pkg.OutputFormat(r.FormValue("output_format"))

	result, err := s.Service.Generate(r.Context(), store, patientText, format)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	data := struct {
		Result   resultView
		FollowUp followupView
	}{
		Result:   newResultView(format, result),
		FollowUp: followupView{HasContext: true, OOB: true},
	}
	if err := s.Templates.ExecuteTemplate(w, "result.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleFollowUp gates and answers a question about the last result.
func (s *Server) handleFollowUp(w http.ResponseWriter, r *http.Request) {
	_, store := s.sessionStore(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	question := r.FormValue("question")

	answer, err := s.Service.FollowUp(r.Context(), store, question)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	data := struct {
		Question string
		Answer   string
	}{Question: question, Answer: answer}
	if err := s.Templates.ExecuteTemplate(w, "answer.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleHistory re-renders the session transcript in chronological order.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	_, store := s.sessionStore(w, r)
	if err := s.Templates.ExecuteTemplate(w, "history.html", store.History()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleEnd drops the session state and clears the cookie.
func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.Sessions.End(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	io.WriteString(w, `<div class="ok">お疲れさまでした</div>`)
}

// writeServiceError maps the service's typed failure kinds onto fragments.
// A gate rejection is informational, not an error; validation problems are
// warnings; provider and parse failures get error styling.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var vErr *core.ValidationError
	switch {
	case errors.As(err, &vErr):
		s.writeToast(w, "warn", vErr.Msg)
	case errors.Is(err, core.ErrNotRelevant):
		s.writeToast(w, "info", core.ErrNotRelevant.Error())
	case errors.Is(err, core.ErrNoContext):
		s.writeToast(w, "warn", core.ErrNoContext.Error())
	case errors.Is(err, core.ErrParseFailure):
		s.writeToast(w, "error", core.ErrParseFailure.Error())
	default:
		s.writeToast(w, "error", err.Error())
	}
}

func (s *Server) writeToast(w http.ResponseWriter, variant, msg string) {
	io.WriteString(w, `<div class="`+variant+`">`+template.HTMLEscapeString(msg)+`</div>`)
}
