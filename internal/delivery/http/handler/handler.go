package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/reyesayala/wa-network-request-compare/internal/compare"
	"github.com/reyesayala/wa-network-request-compare/internal/delivery/http/request"
	"github.com/reyesayala/wa-network-request-compare/internal/delivery/http/response"
	"github.com/reyesayala/wa-network-request-compare/internal/entity"
	"github.com/reyesayala/wa-network-request-compare/internal/repository"
)

type Handler struct {
	defaults compare.Options
	reports  repository.ReportRepository // nil disables persistence
	scores   repository.ScoreRepository  // nil disables score lookup
}

func NewHandler(defaults compare.Options, reports repository.ReportRepository, scores repository.ScoreRepository) *Handler {
	return &Handler{defaults: defaults, reports: reports, scores: scores}
}

// HandleCompare runs one page-pair comparison over request sets supplied in
// the body and returns the classifications plus the page score.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	var req request.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	key := entity.PageKey{ArchiveID: req.ArchiveID, URLID: req.URLID}
	pair := entity.ComparisonPair{
		Key:      key,
		Current:  toRequestSet(key, entity.SideCurrent, req.Current),
		Archived: toRequestSet(key, entity.SideArchived, req.Archived),
	}
	if err := pair.Current.Validate(); err != nil {
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := pair.Archived.Validate(); err != nil {
		h.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := h.defaults
	if req.Options != nil {
		applyOptions(&opts, req.Options)
	}

	result, err := compare.Compare(pair, opts)
	if err != nil {
		if errors.Is(err, compare.ErrThresholdOutOfRange) ||
			errors.Is(err, compare.ErrPenaltyOutOfRange) ||
			errors.Is(err, compare.ErrUnknownStrategy) ||
			errors.Is(err, compare.ErrUnknownRule) {
			h.writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Comparison failed", "page", key.String(), "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if req.Persist && h.reports != nil {
		if err := h.reports.SavePage(r.Context(), result.Quality, result.Classifications); err != nil {
			slog.Error("Failed to persist comparison", "page", key.String(), "error", err)
			h.writeJSONError(w, "Failed to persist result", http.StatusInternalServerError)
			return
		}
	}

	h.writeJSON(w, http.StatusOK, toCompareResponse(result))
}

// HandleGetScore returns the persisted score for a page pair.
func (h *Handler) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	archiveID := r.URL.Query().Get("archive_id")
	urlID := r.URL.Query().Get("url_id")
	if archiveID == "" || urlID == "" {
		h.writeJSONError(w, "archive_id and url_id query parameters are required", http.StatusBadRequest)
		return
	}
	if h.scores == nil {
		h.writeJSONError(w, "Score lookup is not configured", http.StatusNotImplemented)
		return
	}

	key := entity.PageKey{ArchiveID: archiveID, URLID: urlID}
	score, err := h.scores.FindScore(r.Context(), key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.writeJSONError(w, "No score recorded for the given page", http.StatusNotFound)
			return
		}
		slog.Error("Failed to look up score", "page", key.String(), "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, toPageScore(*score))
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toRequestSet(key entity.PageKey, side entity.Side, records []request.RequestRecord) entity.RequestSet {
	set := entity.RequestSet{ArchiveID: key.ArchiveID, URLID: key.URLID, Side: side}
	for _, r := range records {
		set.Records = append(set.Records, entity.RequestRecord{
			ArchiveID:    key.ArchiveID,
			URLID:        key.URLID,
			URL:          r.URL,
			ResourceType: entity.ResourceType(r.ResourceType),
			StatusCode:   r.StatusCode,
			CaptureDate:  r.CaptureDate,
		})
	}
	return set
}

func applyOptions(opts *compare.Options, o *request.CompareOptions) {
	if o.MatchThreshold != nil {
		opts.MatchThreshold = *o.MatchThreshold
	}
	if o.TypeMismatchPenalty != nil {
		opts.TypeMismatchPenalty = *o.TypeMismatchPenalty
	}
	if o.MatchingStrategy != "" {
		opts.Strategy = compare.Strategy(o.MatchingStrategy)
	}
	// A supplied rule list is authoritative and replaces the defaults; a
	// fresh slice keeps concurrent requests off the shared backing array.
	if len(o.Canonicalization) > 0 {
		rules := make([]compare.Rule, 0, len(o.Canonicalization))
		for _, name := range o.Canonicalization {
			rules = append(rules, compare.Rule(name))
		}
		opts.Rules = rules
	}
	opts.IgnoreRedirects = o.IgnoreRedirects
	opts.PenalizeExtra = o.PenalizeExtra
}

func toCompareResponse(result *compare.Result) response.CompareResponse {
	resp := response.CompareResponse{Summary: toPageScore(result.Quality)}
	for _, c := range result.Classifications {
		resp.Requests = append(resp.Requests, response.ClassificationRow{
			Label:          string(c.Label),
			Side:           string(c.Side),
			URL:            c.URL,
			CounterpartURL: c.CounterpartURL,
			CurrentStatus:  c.CurrentStatus,
			ArchivedStatus: c.ArchivedStatus,
			Similarity:     c.Similarity,
		})
	}
	return resp
}

func toPageScore(s entity.PageQualityScore) response.PageScore {
	return response.PageScore{
		ArchiveID:      s.Key.ArchiveID,
		URLID:          s.Key.URLID,
		Score:          s.Score,
		MatchedSame:    s.MatchedSame,
		MatchedChanged: s.MatchedChanged,
		Unmatched:      s.Unmatched,
		Extra:          s.Extra,
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
