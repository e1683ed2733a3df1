package web

import (
	"context"
	"net/http"
	"time"

	"github.com/JonMunkholm/taller/internal/web/templates"
)

const serviceTitle = "API Taller Mecánico"

var indexEndpoints = []templates.Endpoint{
	{Name: "vehiculos", Path: "/vehiculos"},
	{Name: "mecanicos", Path: "/mecanicos"},
	{Name: "asignaciones", Path: "/asignaciones"},
	{Name: "excel", Path: "/excel/cargar"},
	{Name: "progreso", Path: "/excel/ws/{session_id}"},
	{Name: "metricas", Path: "/metrics"},
}

// handleIndex describes the API. Browsers get an HTML page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if wantsHTML(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.Index(serviceTitle, indexEndpoints).Render(r.Context(), w); err != nil {
			s.respondError(w, r, err)
		}
		return
	}

	endpoints := make(map[string]string, len(indexEndpoints))
	for _, e := range indexEndpoints {
		endpoints[e.Name] = e.Path
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mensaje":   serviceTitle + " funcionando correctamente",
		"endpoints": endpoints,
	})
}

// handleHealth runs every registered check with a short deadline and
// reports import slot usage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	writeJSON(w, status, map[string]any{
		"status":   state,
		"checks":   checks,
		"imports":  s.service.LimiterStatus(),
		"sesiones": s.sessions.Len(),
	})
}
