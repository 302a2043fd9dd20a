package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/brandsignal/brandsignal/internal/api"
	"github.com/brandsignal/brandsignal/internal/database"
	"github.com/brandsignal/brandsignal/internal/services"
)

// APIHandler handles the triage REST API.
type APIHandler struct {
	mentionService    *services.MentionService
	competitorService *services.CompetitorService
	queryService      *services.QueryService
	spikeService      *services.SpikeService
	trendService      *services.TrendService
	alertService      *services.AlertService
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(
	mentionService *services.MentionService,
	competitorService *services.CompetitorService,
	queryService *services.QueryService,
	spikeService *services.SpikeService,
	trendService *services.TrendService,
	alertService *services.AlertService,
) *APIHandler {
	return &APIHandler{
		mentionService:    mentionService,
		competitorService: competitorService,
		queryService:      queryService,
		spikeService:      spikeService,
		trendService:      trendService,
		alertService:      alertService,
	}
}

// SetupRoutes configures all HTTP routes
func (h *APIHandler) SetupRoutes(r *mux.Router) {
	// Mentions
	r.HandleFunc("/api/mentions", h.handleCreateMention).Methods(http.MethodPost)
	r.HandleFunc("/api/mentions/batch", h.handleCreateMentionsBatch).Methods(http.MethodPost)

	// Competitors
	r.HandleFunc("/api/competitors/updates", h.handleCreateCompetitorUpdate).Methods(http.MethodPost)
	r.HandleFunc("/api/competitors/updates/batch", h.handleCreateCompetitorUpdatesBatch).Methods(http.MethodPost)
	r.HandleFunc("/api/competitors/{id}/patterns", h.handleGetPatterns).Methods(http.MethodGet)

	// Queries
	r.HandleFunc("/api/queries", h.handleCreateQuery).Methods(http.MethodPost)
	r.HandleFunc("/api/queries/{id}", h.handleGetQuery).Methods(http.MethodGet)
	r.HandleFunc("/api/queries/{id}/assign", h.handleAssignQuery).Methods(http.MethodPost)
	r.HandleFunc("/api/queries/{id}/status", h.handleUpdateQueryStatus).Methods(http.MethodPut)
	r.HandleFunc("/api/queries/{id}/priority", h.handleUpdateQueryPriority).Methods(http.MethodPut)

	// Trends
	r.HandleFunc("/api/trends", h.handleGetTrends).Methods(http.MethodGet)

	// Alerts
	r.HandleFunc("/api/alerts", h.handleListAlerts).Methods(http.MethodGet)
	r.HandleFunc("/api/alerts/check", h.handleCheckAlerts).Methods(http.MethodPost)
	r.HandleFunc("/api/alerts/{id}/resolve", h.handleResolveAlert).Methods(http.MethodPost)

	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
}

func (h *APIHandler) handleCreateMention(w http.ResponseWriter, r *http.Request) {
	var req api.MentionRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	raw, errs := mentionToRaw(req)
	if errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	if err := h.mentionService.ProcessMention(r.Context(), raw); err != nil {
		respondServiceError(w, "Failed to process mention", err)
		return
	}

	// Spike evaluation rides on ingestion but never delays the response.
	go h.checkSpikes()

	api.RespondNoContent(w)
}

func (h *APIHandler) handleCreateMentionsBatch(w http.ResponseWriter, r *http.Request) {
	var req api.MentionBatchRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	raws := make([]services.RawMention, 0, len(req.Mentions))
	for i, m := range req.Mentions {
		raw, errs := mentionToRaw(m)
		if errs != nil {
			log.Printf("Skipping invalid mention at index %d: %v", i, errs)
			continue
		}
		raws = append(raws, raw)
	}

	failed, err := h.mentionService.ProcessMentionsBatch(r.Context(), raws)
	if err != nil {
		log.Printf("Mention batch completed with failures: %v", err)
	}
	failed += len(req.Mentions) - len(raws)

	go h.checkSpikes()

	api.RespondJSON(w, http.StatusOK, api.BatchResponse{
		Accepted: len(req.Mentions) - failed,
		Failed:   failed,
	})
}

func (h *APIHandler) handleCreateCompetitorUpdate(w http.ResponseWriter, r *http.Request) {
	var req api.CompetitorUpdateRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	raw, errs := competitorUpdateToRaw(req)
	if errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	if err := h.competitorService.ProcessCompetitorUpdate(raw); err != nil {
		respondServiceError(w, "Failed to process competitor update", err)
		return
	}

	api.RespondNoContent(w)
}

func (h *APIHandler) handleCreateCompetitorUpdatesBatch(w http.ResponseWriter, r *http.Request) {
	var req api.CompetitorUpdateBatchRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	raws := make([]services.RawCompetitorUpdate, 0, len(req.Updates))
	for i, u := range req.Updates {
		raw, errs := competitorUpdateToRaw(u)
		if errs != nil {
			log.Printf("Skipping invalid competitor update at index %d: %v", i, errs)
			continue
		}
		raws = append(raws, raw)
	}

	failed, err := h.competitorService.ProcessCompetitorUpdatesBatch(raws)
	if err != nil {
		log.Printf("Competitor update batch completed with failures: %v", err)
	}
	failed += len(req.Updates) - len(raws)

	api.RespondJSON(w, http.StatusOK, api.BatchResponse{
		Accepted: len(req.Updates) - failed,
		Failed:   failed,
	})
}

func (h *APIHandler) handleGetPatterns(w http.ResponseWriter, r *http.Request) {
	competitorID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid competitor id")
		return
	}

	typeParam := r.URL.Query().Get("type")
	if typeParam == "" {
		api.RespondError(w, http.StatusBadRequest, "Query parameter 'type' is required")
		return
	}
	// Unknown non-empty types map to OTHER.
	updateType, _ := database.ParseUpdateType(typeParam)

	pattern, err := h.trendService.DetectPatterns(uint(competitorID), updateType)
	if err != nil {
		respondServiceError(w, "Failed to detect patterns", err)
		return
	}
	if pattern == nil {
		api.RespondJSON(w, http.StatusOK, map[string]interface{}{"pattern": nil})
		return
	}
	api.RespondJSON(w, http.StatusOK, map[string]interface{}{"pattern": pattern})
}

func (h *APIHandler) handleCreateQuery(w http.ResponseWriter, r *http.Request) {
	var req api.CreateQueryRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	raw, errs := queryToRaw(req)
	if errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	id, err := h.queryService.ProcessQuery(raw)
	if err != nil {
		respondServiceError(w, "Failed to process query", err)
		return
	}

	api.RespondJSON(w, http.StatusCreated, api.CreateQueryResponse{ID: id})
}

func (h *APIHandler) handleGetQuery(w http.ResponseWriter, r *http.Request) {
	query, err := h.queryService.GetQuery(mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, "Failed to get query", err)
		return
	}
	api.RespondJSON(w, http.StatusOK, query)
}

func (h *APIHandler) handleAssignQuery(w http.ResponseWriter, r *http.Request) {
	var req api.AssignQueryRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	if err := h.queryService.AssignQuery(mux.Vars(r)["id"], req.AssigneeID, req.Notes); err != nil {
		respondServiceError(w, "Failed to assign query", err)
		return
	}
	api.RespondNoContent(w)
}

func (h *APIHandler) handleUpdateQueryStatus(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateQueryStatusRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	status, ok := database.ParseQueryStatus(req.Status)
	if !ok {
		api.RespondValidationError(w, map[string]string{"status": "unknown status: " + req.Status})
		return
	}
	if err := h.queryService.UpdateQueryStatus(mux.Vars(r)["id"], status, req.UserID, req.Notes); err != nil {
		respondServiceError(w, "Failed to update query status", err)
		return
	}
	api.RespondNoContent(w)
}

func (h *APIHandler) handleUpdateQueryPriority(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateQueryPriorityRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := api.Validate(req); errs != nil {
		api.RespondValidationError(w, errs)
		return
	}

	priority, ok := database.ParseQueryPriority(req.Priority)
	if !ok {
		api.RespondValidationError(w, map[string]string{"priority": "unknown priority: " + req.Priority})
		return
	}
	if err := h.queryService.UpdateQueryPriority(mux.Vars(r)["id"], priority, req.UserID, req.Notes); err != nil {
		respondServiceError(w, "Failed to update query priority", err)
		return
	}
	api.RespondNoContent(w)
}

func (h *APIHandler) handleGetTrends(w http.ResponseWriter, r *http.Request) {
	days := 30
	if daysParam := r.URL.Query().Get("days"); daysParam != "" {
		parsed, err := strconv.Atoi(daysParam)
		if err != nil || parsed <= 0 {
			api.RespondError(w, http.StatusBadRequest, "Query parameter 'days' must be a positive integer")
			return
		}
		days = parsed
	}

	trends, err := h.trendService.DetectTrends(days)
	if err != nil {
		respondServiceError(w, "Failed to detect trends", err)
		return
	}
	api.RespondJSON(w, http.StatusOK, map[string]interface{}{"trends": trends})
}

func (h *APIHandler) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alertService.ListActiveAlerts()
	if err != nil {
		respondServiceError(w, "Failed to list alerts", err)
		return
	}
	api.RespondJSON(w, http.StatusOK, map[string]interface{}{"alerts": alerts})
}

func (h *APIHandler) handleCheckAlerts(w http.ResponseWriter, r *http.Request) {
	if err := h.spikeService.CheckAndCreateAlerts(); err != nil {
		respondServiceError(w, "Failed to run spike check", err)
		return
	}
	api.RespondNoContent(w)
}

func (h *APIHandler) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		api.RespondError(w, http.StatusBadRequest, "Invalid alert id")
		return
	}

	if err := h.alertService.ResolveAlert(uint(id)); err != nil {
		respondServiceError(w, "Failed to resolve alert", err)
		return
	}
	api.RespondNoContent(w)
}

func (h *APIHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	api.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *APIHandler) checkSpikes() {
	if err := h.spikeService.CheckAndCreateAlerts(); err != nil {
		log.Printf("Spike check failed: %v", err)
	}
}

// respondServiceError maps service-layer sentinel errors to HTTP statuses.
func respondServiceError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		api.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrValidation):
		api.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("%s: %v", message, err)
		api.RespondError(w, http.StatusInternalServerError, message)
	}
}
