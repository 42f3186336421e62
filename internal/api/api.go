package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"tsheet/internal/aggregate"
	"tsheet/internal/models"
	"tsheet/internal/rules"
	"tsheet/internal/store"
	"tsheet/internal/workcal"
)

// Server provides the REST API handlers.
type Server struct {
	store store.Store
}

// NewServer creates a new API server over the given store.
func NewServer(s store.Store) *Server {
	return &Server{store: s}
}

// Router returns an http.Handler for the API routes.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/rules", s.listRules)
	mux.HandleFunc("POST /api/v1/rules", s.createRule)
	mux.HandleFunc("GET /api/v1/rules/{id}", s.getRule)
	mux.HandleFunc("PUT /api/v1/rules/{id}", s.updateRule)
	mux.HandleFunc("DELETE /api/v1/rules/{id}", s.deleteRule)

	mux.HandleFunc("GET /api/v1/team", s.listMembers)
	mux.HandleFunc("POST /api/v1/team", s.createMember)
	mux.HandleFunc("DELETE /api/v1/team/{id}", s.deleteMember)

	mux.HandleFunc("GET /api/v1/tracks", s.listTracks)
	mux.HandleFunc("POST /api/v1/tracks", s.createTrack)
	mux.HandleFunc("DELETE /api/v1/tracks/{id}", s.deleteTrack)

	mux.HandleFunc("GET /api/v1/report", s.report)
	mux.HandleFunc("GET /api/v1/norm", s.norm)
	mux.HandleFunc("POST /api/v1/meetings/apply", s.applyRules)

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// --- Rules ---

func (s *Server) listRules(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createRule(w http.ResponseWriter, r *http.Request) {
	var rule models.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if err := s.store.CreateRule(r.Context(), &rule); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rule)
}

func (s *Server) getRule(w http.ResponseWriter, r *http.Request) {
	rule, err := s.store.GetRule(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (s *Server) updateRule(w http.ResponseWriter, r *http.Request) {
	var rule models.Rule
	if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	rule.ID = r.PathValue("id")
	if err := s.store.UpdateRule(r.Context(), &rule); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

func (s *Server) deleteRule(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRule(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Team ---

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListMembers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createMember(w http.ResponseWriter, r *http.Request) {
	var m models.Member
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if m.UID == 0 || m.Login == "" {
		writeError(w, http.StatusBadRequest, "uid and login are required")
		return
	}
	if err := s.store.CreateMember(r.Context(), &m); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) deleteMember(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteMember(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Tracks ---

func trackFilterFromQuery(r *http.Request) store.TrackListFilter {
	f := store.TrackListFilter{
		From:     r.URL.Query().Get("from"),
		To:       r.URL.Query().Get("to"),
		IssueKey: r.URL.Query().Get("issue"),
	}
	if v := r.URL.Query().Get("author"); v != "" {
		f.AuthorID, _ = strconv.ParseInt(v, 10, 64)
	}
	return f
}

func (s *Server) listTracks(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.ListTracks(r.Context(), trackFilterFromQuery(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createTrack(w http.ResponseWriter, r *http.Request) {
	var in models.TrackByUser
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if in.IssueKey == "" {
		writeError(w, http.StatusBadRequest, "issueKey is required")
		return
	}
	if err := s.store.UpsertTrack(r.Context(), &in.Track, in.UID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, in)
}

func (s *Server) deleteTrack(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTrack(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Report ---

type reportResponse struct {
	UserIDs []int64                  `json:"userIds"`
	Rows    []models.IssueSummaryRow `json:"rows"`
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tracks, err := s.store.ListTracks(ctx, trackFilterFromQuery(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	users := make([]aggregate.User, 0, len(members))
	for _, m := range members {
		users = append(users, aggregate.User{UID: m.UID, Display: m.Display})
	}
	byUser := make([]models.TrackByUser, 0, len(tracks))
	for _, t := range tracks {
		byUser = append(byUser, *t)
	}

	res := aggregate.ByIssue(byUser, users)
	writeJSON(w, http.StatusOK, reportResponse{UserIDs: res.UserIDs, Rows: res.Rows})
}

func (s *Server) norm(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		writeError(w, http.StatusBadRequest, "day query parameter is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"day":      workcal.NormalizeDay(day),
		"expected": workcal.ExpectedHours(day),
	})
}

// --- Meetings ---

func (s *Server) applyRules(w http.ResponseWriter, r *http.Request) {
	var meetings []models.Meeting
	if err := json.NewDecoder(r.Body).Decode(&meetings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	ruleSet, err := s.store.ListRules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	rs := make([]models.Rule, 0, len(ruleSet))
	for _, rl := range ruleSet {
		rs = append(rs, *rl)
	}
	writeJSON(w, http.StatusOK, rules.Apply(meetings, rs))
}
