package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/progress-hub/ai-progress-hub/config"
	"github.com/progress-hub/ai-progress-hub/internal/domain/progress"
	"github.com/progress-hub/ai-progress-hub/pkg/logger"
	"github.com/progress-hub/ai-progress-hub/pkg/timeutil"
)

// DefaultUserID is the identifier used when the user_id query parameter
// is omitted. The original deployment was single-user.
const DefaultUserID = "default_user"

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20 // 1 MB

// validate checks decoded request bodies against their struct tags.
var validate = validator.New()

// userID extracts the user_id query parameter with the default fallback.
func userID(r *http.Request) string {
	if id := r.URL.Query().Get("user_id"); id != "" {
		return id
	}
	return DefaultUserID
}

// decodeBody decodes and validates a JSON request body into dst.
// Returns false after writing the 400 response when the body is bad.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeJSONError(w, http.StatusBadRequest, "Validation failed on field '"+verrs[0].Field()+"'")
			return false
		}
		writeJSONError(w, http.StatusBadRequest, "Validation failed")
		return false
	}

	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVICE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "AI Engineer Progress Tracker API",
		"version":     s.deps.Version,
		"environment": s.deps.Environment,
		"debug":       s.deps.Debug,
	})
}

// handleFrontendConfig serves the configuration block the frontend
// bootstraps from.
func (s *Server) handleFrontendConfig(w http.ResponseWriter, r *http.Request) {
	features := s.deps.Features

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"api_url":                   s.deps.APIURL,
		"debug":                     s.deps.Debug,
		"environment":               s.deps.Environment,
		"analytics_enabled":         features != nil && features.IsEnabled(config.FeatureAnalytics),
		"spaced_repetition_enabled": features != nil && features.IsEnabled(config.FeatureSpacedRepetition),
	})
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   s.deps.Version,
		})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())
	if status.Status != "healthy" {
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetProgress handles GET /api/progress.
// A missing snapshot yields a fresh default, never a 404: the frontend
// calls this on first load, before anything has been stored.
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	snap, err := s.deps.Store.LoadSnapshot(r.Context(), uid)
	if errors.Is(err, progress.ErrSnapshotNotFound) {
		snap = progress.NewSnapshot()
	} else if err != nil {
		s.logger.Error("failed to load progress", logger.Err(err), logger.UserID(uid))
		writeJSONError(w, http.StatusInternalServerError, "Failed to retrieve progress")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// handleSaveProgress handles POST /api/progress.
func (s *Server) handleSaveProgress(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	var snap progress.Snapshot
	if !s.decodeBody(w, r, &snap) {
		return
	}

	snap.Normalize()
	snap.Touch(time.Now())

	if err := s.deps.Store.SaveSnapshot(r.Context(), uid, &snap); err != nil {
		s.logger.Error("failed to save progress", logger.Err(err), logger.UserID(uid))
		writeJSONError(w, http.StatusInternalServerError, "Failed to save progress")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Progress saved successfully",
	})
}

// taskCompletionRequest is the wire form of a completion event. Points
// is a pointer so an omitted field is rejected instead of decoding to
// zero and permanently marking the task completed for no XP.
type taskCompletionRequest struct {
	TaskID     string            `json:"taskId" validate:"required"`
	Points     *int              `json:"points" validate:"required,gte=0"`
	Time       float64           `json:"time"`
	Category   progress.Category `json:"category"`
	Notes      string            `json:"notes"`
	Difficulty string            `json:"difficulty"`
}

// event converts the validated request into the domain event.
func (req taskCompletionRequest) event() progress.TaskCompletion {
	return progress.TaskCompletion{
		TaskID:     req.TaskID,
		Points:     *req.Points,
		Time:       req.Time,
		Category:   req.Category,
		Notes:      req.Notes,
		Difficulty: req.Difficulty,
	}
}

// handleCompleteTask handles POST /api/task/complete.
func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	var req taskCompletionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	completion := req.event()

	snap, err := s.deps.Store.LoadSnapshot(r.Context(), uid)
	if errors.Is(err, progress.ErrSnapshotNotFound) {
		snap = progress.NewSnapshot()
	} else if err != nil {
		s.logger.Error("failed to load progress", logger.Err(err), logger.UserID(uid))
		writeJSONError(w, http.StatusInternalServerError, "Failed to complete task")
		return
	}

	earned := progress.ApplyCompletion(snap, completion, time.Now())
	snap.Touch(time.Now())

	if err := s.deps.Store.SaveSnapshot(r.Context(), uid, snap); err != nil {
		s.logger.Error("failed to save progress", logger.Err(err), logger.UserID(uid))
		writeJSONError(w, http.StatusInternalServerError, "Failed to complete task")
		return
	}

	s.logger.Info("task completed",
		logger.UserID(uid),
		logger.TaskID(completion.TaskID),
		logger.Category(string(completion.Category)),
		logger.XPAmount(int(earned)),
	)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   "Task completed successfully",
		"xp_earned": int(earned),
		"total_xp":  int(snap.TotalXP),
	})
}

// handleSaveDailyLog handles POST /api/daily-log.
func (s *Server) handleSaveDailyLog(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	var log progress.DailyLog
	if !s.decodeBody(w, r, &log) {
		return
	}
	if !timeutil.IsDateKey(log.Date) {
		writeJSONError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}
	log.Normalize()

	if err := s.deps.Store.SaveDailyLog(r.Context(), uid, &log); err != nil {
		s.logger.Error("failed to save daily log", logger.Err(err), logger.UserID(uid))
		writeJSONError(w, http.StatusInternalServerError, "Failed to save daily log")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Daily log saved",
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ANALYTICS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetAnalytics handles GET /api/analytics.
// Unlike the progress read, analytics on a never-seen identifier is a
// 404: derived metrics over a default snapshot would be noise.
func (s *Server) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	if s.deps.Features != nil && !s.deps.Features.IsEnabled(config.FeatureAnalytics) {
		writeJSONError(w, http.StatusNotFound, "Analytics is disabled")
		return
	}

	uid := userID(r)

	snap, err := s.deps.Store.LoadSnapshot(r.Context(), uid)
	if errors.Is(err, progress.ErrSnapshotNotFound) {
		writeJSONError(w, http.StatusNotFound, "No progress data found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load progress", logger.Err(err), logger.UserID(uid))
		writeJSONError(w, http.StatusInternalServerError, "Failed to retrieve analytics")
		return
	}

	recommendations := []string{}
	if s.deps.Features == nil || s.deps.Features.IsEnabled(config.FeatureRecommendations) {
		recommendations = progress.Recommendations(snap)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"learning_velocity":       progress.LearningVelocity(snap),
		"certification_readiness": progress.CertificationReadiness(snap),
		"recommendations":         recommendations,
		"summary":                 progress.Summarize(snap),
	})
}

// handleGetSpacedRepetition handles GET /api/spaced-repetition.
func (s *Server) handleGetSpacedRepetition(w http.ResponseWriter, r *http.Request) {
	if s.deps.Features != nil && !s.deps.Features.IsEnabled(config.FeatureSpacedRepetition) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"items": []progress.RepetitionItem{},
			"count": 0,
		})
		return
	}

	uid := userID(r)

	items, err := s.deps.Store.DueRepetitionItems(r.Context(), uid)
	if err != nil {
		s.logger.Error("failed to load repetition items", logger.Err(err), logger.UserID(uid))
		writeJSONError(w, http.StatusInternalServerError, "Failed to retrieve spaced repetition items")
		return
	}
	if items == nil {
		items = []progress.RepetitionItem{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// handleCreateBackup handles GET /api/backup.
func (s *Server) handleCreateBackup(w http.ResponseWriter, r *http.Request) {
	if s.deps.Features != nil && !s.deps.Features.IsEnabled(config.FeatureBackupExport) {
		writeJSONError(w, http.StatusNotFound, "Backup export is disabled")
		return
	}

	uid := userID(r)

	snap, err := s.deps.Store.LoadSnapshot(r.Context(), uid)
	if errors.Is(err, progress.ErrSnapshotNotFound) {
		writeJSONError(w, http.StatusNotFound, "No progress data found")
		return
	}
	if err != nil {
		s.logger.Error("failed to load progress", logger.Err(err), logger.UserID(uid))
		writeJSONError(w, http.StatusInternalServerError, "Failed to create backup")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"backup_date": time.Now().UTC().Format(time.RFC3339),
		"user_id":     uid,
		"progress":    snap,
		"version":     s.deps.Version,
	})
}
