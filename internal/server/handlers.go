package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/store"
)

const maxKeywords = 10

type factCheckRequest struct {
	Claim   string `json:"claim"`
	Content string `json:"content"`
}

type factCheckResponse struct {
	Success  bool                `json:"success"`
	Results  []model.ScoreResult `json:"results"`
	RecordID int64               `json:"record_id,omitempty"`
}

type extractRequest struct {
	Text string `json:"text"`
}

type extractResponse struct {
	model.Extraction
	Quality  model.TextQuality `json:"quality"`
	Keywords []string          `json:"keywords"`
}

type reportRequest struct {
	Content  string `json:"content"`
	URL      string `json:"url"`
	Email    string `json:"email"`
	Category string `json:"category"`
}

// claimView is the API shape of a stored claim; sources stay JSON-encoded
type claimView struct {
	model.ClaimRecord
	SourcesList []string `json:"sources_list"`
}

type trendView struct {
	model.TrendPoint
	FalseRate float64 `json:"false_rate"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFactCheck(w http.ResponseWriter, r *http.Request) {
	var req factCheckRequest
	if !decode(w, r, &req) {
		writeError(w, http.StatusBadRequest, "Missing request data")
		return
	}

	text := strings.TrimSpace(req.Claim)
	if text == "" {
		text = strings.TrimSpace(req.Content)
	}
	if text == "" {
		writeError(w, http.StatusBadRequest, "Missing claim or content text")
		return
	}

	report, err := s.pipeline.CheckText(r.Context(), text)
	if err != nil {
		s.logger.Error("fact check failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, factCheckResponse{
		Success:  true,
		Results:  []model.ScoreResult{report.Result},
		RecordID: report.RecordID,
	})
}

func (s *Server) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "Invalid claim id")
		return
	}

	rec, err := s.store.GetClaim(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Claim not found")
		return
	}
	if err != nil {
		s.internalError(w, "get claim", err)
		return
	}
	writeJSON(w, http.StatusOK, claimView{ClaimRecord: *rec, SourcesList: rec.SourceList()})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !decode(w, r, &req) || strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "Missing text")
		return
	}

	engine := s.pipeline.Engine()
	writeJSON(w, http.StatusOK, extractResponse{
		Extraction: engine.ExtractClaims(r.Context(), req.Text),
		Quality:    engine.TextQuality(req.Text),
		Keywords:   engine.Keywords(req.Text, maxKeywords),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var req reportRequest
	if !decode(w, r, &req) || strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "Missing content text")
		return
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = string(model.CategoryGeneral)
	}
	rep := model.ContentReport{
		ContentText: strings.TrimSpace(req.Content),
		URL:         strings.TrimSpace(req.URL),
		Email:       strings.TrimSpace(req.Email),
		Category:    category,
	}
	if err := s.store.SaveReport(r.Context(), &rep); err != nil {
		s.internalError(w, "save report", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"report_id": rep.ID,
		"status":    "submitted",
	})
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	points, err := s.store.ListTrends(r.Context(), queryInt(r, "limit"))
	if err != nil {
		s.internalError(w, "list trends", err)
		return
	}
	views := make([]trendView, 0, len(points))
	for _, p := range points {
		views = append(views, trendView{TrendPoint: p, FalseRate: p.FalseRate()})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.internalError(w, "stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "Missing query")
		return
	}

	band := model.CredibilityBand(strings.ToLower(q.Get("credibility")))
	switch band {
	case model.BandAny, model.BandHigh, model.BandMedium, model.BandLow:
	default:
		writeError(w, http.StatusBadRequest, "credibility must be high, medium or low")
		return
	}

	records, err := s.store.SearchClaims(r.Context(), model.ClaimSearch{
		Query:       query,
		Category:    strings.TrimSpace(q.Get("category")),
		Credibility: band,
		Limit:       queryInt(r, "limit"),
	})
	if err != nil {
		s.internalError(w, "search claims", err)
		return
	}
	writeJSON(w, http.StatusOK, claimViews(records))
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	records, err := s.store.RecentClaims(r.Context(), queryInt(r, "limit"))
	if err != nil {
		s.internalError(w, "recent claims", err)
		return
	}
	writeJSON(w, http.StatusOK, claimViews(records))
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "Storage is disabled")
		return false
	}
	return true
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("api error", zap.String("op", op), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func claimViews(records []model.ClaimRecord) []claimView {
	views := make([]claimView, 0, len(records))
	for _, rec := range records {
		views = append(views, claimView{ClaimRecord: rec, SourcesList: rec.SourceList()})
	}
	return views
}

// decode reads a JSON body of at most maxBodyBytes
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v) == nil
}

// queryInt returns 0 for a missing or malformed parameter
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
