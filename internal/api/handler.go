package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/watchkeep/watchkeep/internal/audit"
	"github.com/watchkeep/watchkeep/internal/auth"
	"github.com/watchkeep/watchkeep/internal/metrics"
	"github.com/watchkeep/watchkeep/internal/store"
)

const (
	defaultPageSize = 20
	auditReadLimit  = 100
	auditReadMax    = 1000
)

// Handler serves all REST routes. Authentication (principal
// classification) happens in the auth middleware wrapped around it;
// per-route role checks happen here.
type Handler struct {
	store *store.Store
	audit *audit.Recorder
	mw    *auth.Middleware
	mux   *http.ServeMux

	now func() time.Time // injectable for deterministic tests
}

// New creates the Handler and registers all routes, returning it wrapped
// in the principal-classification middleware.
func New(st *store.Store, rec *audit.Recorder, mw *auth.Middleware) http.Handler {
	h := newHandler(st, rec, mw)
	return mw.Authenticate(h)
}

func newHandler(st *store.Store, rec *audit.Recorder, mw *auth.Middleware) *Handler {
	h := &Handler{store: st, audit: rec, mw: mw, mux: http.NewServeMux(), now: time.Now}

	h.mux.HandleFunc("/logs", h.method(http.MethodPost, mw.RequireRole(auth.RoleOperator, h.postLog)))
	h.mux.HandleFunc("/metrics", h.method(http.MethodPost, mw.RequireRole(auth.RoleOperator, h.postMetric)))
	h.mux.HandleFunc("/alerts", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			mw.RequireRole(auth.RoleAnalyst, h.listAlerts)(w, r)
		case http.MethodPost:
			mw.RequireRole(auth.RoleOperator, h.postAlert)(w, r)
		default:
			jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})
	h.mux.HandleFunc("/alerts/rules", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			mw.RequireRole(auth.RoleAnalyst, h.listRules)(w, r)
		case http.MethodPost:
			mw.RequireRole(auth.RoleAdmin, h.upsertRule)(w, r)
		default:
			jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	})
	h.mux.HandleFunc("/dashboard", h.method(http.MethodGet, mw.RequireRole(auth.RoleAnalyst, h.dashboard)))
	h.mux.HandleFunc("/audit", h.method(http.MethodGet, mw.RequireRole(auth.RoleAdmin, h.listAudit)))
	h.mux.HandleFunc("/healthz", h.method(http.MethodGet, h.health))

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// postLog handles POST /logs: ingest one log record.
func (h *Handler) postLog(w http.ResponseWriter, r *http.Request) {
	var entry LogEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		metrics.IncIngest("log", metrics.ResultInvalid)
		jsonErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validateLogEntry(entry); len(errs) > 0 {
		metrics.IncIngest("log", metrics.ResultInvalid)
		jsonValidationErr(w, "Invalid log entry", errs)
		return
	}

	ts, _ := parseInstant(entry.Timestamp)
	rec := h.store.AppendLog(store.LogRecord{
		Timestamp: ts,
		Level:     store.Level(entry.Level),
		Message:   entry.Message,
		Source:    entry.Source,
		Context:   entry.Context,
	})

	principal := auth.PrincipalFromContext(r.Context())
	h.audit.Record(principal.Subject, audit.ActionLogIngest, rec.Source, map[string]any{
		"level": rec.Level,
	})
	metrics.IncIngest("log", metrics.ResultOK)
	jsonResp(w, http.StatusCreated, rec)
}

// postMetric handles POST /metrics. A JSON body ingests a single point;
// a text/plain body is parsed as Prometheus text exposition format and
// may ingest many points at once.
func (h *Handler) postMetric(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/plain") {
		h.postMetricExposition(w, r)
		return
	}

	var entry MetricEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		metrics.IncIngest("metric", metrics.ResultInvalid)
		jsonErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validateMetricEntry(entry); len(errs) > 0 {
		metrics.IncIngest("metric", metrics.ResultInvalid)
		jsonValidationErr(w, "Invalid metric entry", errs)
		return
	}

	ts, _ := parseInstant(entry.Timestamp)
	point := h.store.AppendMetric(store.MetricPoint{
		Timestamp: ts,
		Name:      entry.Name,
		Value:     *entry.Value,
		Labels:    entry.Labels,
	})

	principal := auth.PrincipalFromContext(r.Context())
	h.audit.Record(principal.Subject, audit.ActionMetricIngest, point.Name, map[string]any{
		"value": point.Value,
	})
	metrics.IncIngest("metric", metrics.ResultOK)
	jsonResp(w, http.StatusCreated, point)
}

// listAlerts handles GET /alerts with optional status filter and paging.
func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	page := queryInt(q.Get("page"), 1)
	pageSize := queryInt(q.Get("pageSize"), defaultPageSize)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	all := h.store.Alerts()
	filtered := all
	if status != "" {
		filtered = make([]store.Alert, 0, len(all))
		for _, a := range all {
			if string(a.Status) == status {
				filtered = append(filtered, a)
			}
		}
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	jsonResp(w, http.StatusOK, Page[store.Alert]{
		Items:    filtered[start:end],
		Page:     page,
		PageSize: pageSize,
		Total:    len(filtered),
	})
}

// postAlert handles POST /alerts: manual alert creation.
func (h *Handler) postAlert(w http.ResponseWriter, r *http.Request) {
	var entry AlertEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validateAlertEntry(entry); len(errs) > 0 {
		jsonValidationErr(w, "Invalid alert", errs)
		return
	}

	createdAt, _ := parseInstant(entry.CreatedAt)
	alert := h.store.AppendAlert(store.Alert{
		ID:        entry.ID,
		Status:    store.AlertStatus(entry.Status),
		Message:   entry.Message,
		CreatedAt: createdAt,
		Severity:  store.Severity(entry.Severity),
	})

	principal := auth.PrincipalFromContext(r.Context())
	h.audit.Record(principal.Subject, audit.ActionAlertCreate, alert.ID, map[string]any{
		"severity": alert.Severity,
	})
	jsonResp(w, http.StatusCreated, alert)
}

// listRules handles GET /alerts/rules.
func (h *Handler) listRules(w http.ResponseWriter, _ *http.Request) {
	rules := h.store.Rules().List()
	if rules == nil {
		rules = []store.AlertRule{}
	}
	jsonResp(w, http.StatusOK, rules)
}

// upsertRule handles POST /alerts/rules: insert or replace wholesale.
func (h *Handler) upsertRule(w http.ResponseWriter, r *http.Request) {
	var entry AlertRuleEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if errs := validateAlertRuleEntry(entry); len(errs) > 0 {
		jsonValidationErr(w, "Invalid alert rule", errs)
		return
	}

	rule := h.store.Rules().Upsert(store.AlertRule{
		ID:         entry.ID,
		Name:       entry.Name,
		Expression: entry.Expression,
		Enabled:    *entry.Enabled,
		Severity:   store.Severity(entry.Severity),
	})

	principal := auth.PrincipalFromContext(r.Context())
	h.audit.Record(principal.Subject, audit.ActionRuleUpsert, rule.ID, map[string]any{
		"enabled":  rule.Enabled,
		"severity": rule.Severity,
	})
	jsonResp(w, http.StatusCreated, rule)
}

// dashboard handles GET /dashboard.
func (h *Handler) dashboard(w http.ResponseWriter, _ *http.Request) {
	jsonResp(w, http.StatusOK, h.buildDashboard())
}

// listAudit handles GET /audit: a recent window of the audit trail.
func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r.URL.Query().Get("limit"), auditReadLimit)
	if limit < 1 {
		limit = auditReadLimit
	}
	if limit > auditReadMax {
		limit = auditReadMax
	}

	items := h.store.RecentAudits(limit)
	jsonResp(w, http.StatusOK, Page[store.AuditEntry]{
		Items:    items,
		Page:     1,
		PageSize: limit,
		Total:    len(items),
	})
}

// health handles GET /healthz.
func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	jsonResp(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- helpers ----------------------------------------------------------------

// method rejects every HTTP method except want.
func (h *Handler) method(want string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != want {
			jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		next(w, r)
	}
}

// queryInt parses a query parameter, falling back to def when absent or
// non-numeric.
func queryInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, status int, msg string) {
	code := "bad_request"
	if status == http.StatusMethodNotAllowed {
		code = "method_not_allowed"
	}
	jsonResp(w, status, errorResponse{Code: code, Message: msg})
}

func jsonValidationErr(w http.ResponseWriter, msg string, details []string) {
	jsonResp(w, http.StatusBadRequest, errorResponse{
		Code:    "bad_request",
		Message: msg,
		Details: details,
	})
}
