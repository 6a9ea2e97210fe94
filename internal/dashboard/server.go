// Package dashboard serves a small read-only HTTP surface: health,
// aggregate stats, and the recent moderation log.
package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"steward/internal/analytics"
	"steward/internal/catalog"
	"steward/internal/storage"

	"go.uber.org/zap"
)

// GuildCounter reports how many guilds the bot currently sees. The bot
// satisfies this from session state.
type GuildCounter interface {
	GuildCount() int
}

type Server struct {
	addr      string
	store     *storage.Store
	analytics *analytics.Service
	catalog   *catalog.Catalog
	guilds    GuildCounter
	logger    *zap.Logger
	startedAt time.Time
	server    *http.Server
}

func New(addr string, store *storage.Store, analyticsService *analytics.Service, cat *catalog.Catalog, guilds GuildCounter, logger *zap.Logger) *Server {
	return &Server{
		addr:      addr,
		store:     store,
		analytics: analyticsService,
		catalog:   cat,
		guilds:    guilds,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Handler builds the route table; split out from Start so tests can hit
// it through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/actions", s.handleActions)
	mux.HandleFunc("/", s.handleIndex)
	return mux
}

func (s *Server) Start() {
	s.server = &http.Server{Addr: s.addr, Handler: s.Handler()}
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", s.addr))
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("dashboard server error", zap.Error(err))
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) {
	if s.server != nil {
		_ = s.server.Shutdown(ctx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type statsResponse struct {
	Guilds        int            `json:"guilds"`
	CatalogSize   int            `json:"catalog_size"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	ActionsByType map[string]int `json:"actions_by_type"`
	ActionsTotal  int            `json:"actions_total"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	since := time.Now().AddDate(0, 0, -7)
	report, err := s.analytics.Report(r.Context(), since)
	if err != nil {
		http.Error(w, "stats unavailable", http.StatusInternalServerError)
		return
	}

	resp := statsResponse{
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		ActionsByType: report.ByAction,
		ActionsTotal:  report.Total,
	}
	if s.guilds != nil {
		resp.Guilds = s.guilds.GuildCount()
	}
	if s.catalog != nil {
		resp.CatalogSize = s.catalog.CachedSize()
	}
	writeJSON(w, resp)
}

type actionResponse struct {
	UserID          string `json:"user_id"`
	ModeratorID     string `json:"moderator_id"`
	Action          string `json:"action"`
	Reason          string `json:"reason"`
	DurationSeconds int64  `json:"duration_seconds,omitempty"`
	CreatedAt       string `json:"created_at"`
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	guildID := r.URL.Query().Get("guild")
	if guildID == "" {
		http.Error(w, "guild parameter required", http.StatusBadRequest)
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	actions, err := s.store.ListModActions(r.Context(), guildID, limit)
	if err != nil {
		http.Error(w, "actions unavailable", http.StatusInternalServerError)
		return
	}

	out := make([]actionResponse, 0, len(actions))
	for _, action := range actions {
		out = append(out, actionResponse{
			UserID:          action.UserID,
			ModeratorID:     action.ModeratorID,
			Action:          action.Action,
			Reason:          action.Reason,
			DurationSeconds: action.DurationSeconds,
			CreatedAt:       action.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, out)
}

const indexPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>steward</title></head>
<body>
<h1>steward</h1>
<p>Endpoints: <a href="/health">/health</a>, <a href="/api/stats">/api/stats</a>, /api/actions?guild=ID</p>
</body>
</html>
`

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexPage))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
