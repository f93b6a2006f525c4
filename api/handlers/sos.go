package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/safe-connect/sos-api/api"
	"github.com/safe-connect/sos-api/api/dispatch"
	"github.com/safe-connect/sos-api/config"
	"github.com/safe-connect/sos-api/databases"
	"github.com/safe-connect/sos-api/models"
)

// Sos exposes the SOS case lifecycle over HTTP
type Sos struct {
	Service *dispatch.CaseService
	Queue   databases.ResponderQueueDatabase
}

type cancelSosRequest struct {
	Reason string `json:"reason"`
}

type declineSosRequest struct {
	Reason string `json:"reason"`
}

type acceptSosRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type createSosResponse struct {
	Case            *models.SosCase `json:"case"`
	NotifiedCount   int             `json:"notifiedCount"`
	DispatchPending bool            `json:"dispatchPending,omitempty"`
}

type listSosResponse struct {
	Cases []models.SosCase `json:"cases"`
	Total int64            `json:"total"`
	Page  int64            `json:"page"`
	Limit int64            `json:"limit"`
}

// CreateSosHandler files a new emergency case and kicks off dispatch
func (s Sos) CreateSosHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing authenticated user", http.StatusUnauthorized, w, nil)
		return
	}

	var input dispatch.CreateCaseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sosCase, candidates, err := s.Service.Create(ctx, actor, input)
	if err != nil && sosCase == nil {
		serviceError(w, "failed to create sos case", err)
		return
	}

	resp := createSosResponse{
		Case:            sosCase,
		NotifiedCount:   len(candidates),
		DispatchPending: err != nil,
	}
	if err != nil {
		zap.S().Warnw("sos case created but dispatch failed",
			"caseCode", sosCase.Code,
			"error", err,
		)
	}

	writeJSON(w, http.StatusCreated, resp)
}

// SosByRefHandler fetches a case by code or id
func (s Sos) SosByRefHandler(w http.ResponseWriter, r *http.Request) {
	caseRef := mux.Vars(r)["case_ref"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sosCase, err := s.Service.Get(ctx, caseRef)
	if err != nil {
		serviceError(w, "failed to get sos case", err)
		return
	}
	writeJSON(w, http.StatusOK, sosCase)
}

// SosListHandler lists cases with status/type filters and pagination
func (s Sos) SosListHandler(w http.ResponseWriter, r *http.Request) {
	query := dispatch.ListQuery{
		Status:        r.URL.Query().Get("status"),
		EmergencyType: r.URL.Query().Get("emergency_type"),
		ReporterID:    r.URL.Query().Get("reporter_id"),
		AcceptedBy:    r.URL.Query().Get("accepted_by"),
		SortBy:        r.URL.Query().Get("sort_by"),
		SortDesc:      r.URL.Query().Get("order") == "desc",
	}
	query.Page, _ = strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)
	query.Limit, _ = strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	cases, total, err := s.Service.List(ctx, query)
	if err != nil {
		serviceError(w, "failed to list sos cases", err)
		return
	}
	if cases == nil {
		cases = []models.SosCase{}
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	writeJSON(w, http.StatusOK, listSosResponse{
		Cases: cases,
		Total: total,
		Page:  query.Page,
		Limit: query.Limit,
	})
}

// AcceptSosHandler claims the case for the acting volunteer
func (s Sos) AcceptSosHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing authenticated user", http.StatusUnauthorized, w, nil)
		return
	}
	caseRef := mux.Vars(r)["case_ref"]

	var body acceptSosRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
			return
		}
	}
	var fallback *dispatch.Coordinates
	if body.Latitude != nil && body.Longitude != nil {
		fallback = &dispatch.Coordinates{Latitude: *body.Latitude, Longitude: *body.Longitude}
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	result, err := s.Service.Accept(ctx, actor, caseRef, fallback)
	if err != nil {
		serviceError(w, "failed to accept sos case", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CancelSosHandler cancels or resets the case depending on the actor's role
func (s Sos) CancelSosHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing authenticated user", http.StatusUnauthorized, w, nil)
		return
	}
	caseRef := mux.Vars(r)["case_ref"]

	var body cancelSosRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sosCase, err := s.Service.Cancel(ctx, actor, caseRef, body.Reason)
	if err != nil {
		serviceError(w, "failed to cancel sos case", err)
		return
	}
	writeJSON(w, http.StatusOK, sosCase)
}

// DeclineSosHandler records a volunteer's refusal
func (s Sos) DeclineSosHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing authenticated user", http.StatusUnauthorized, w, nil)
		return
	}
	caseRef := mux.Vars(r)["case_ref"]

	var body declineSosRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := s.Service.Decline(ctx, actor, caseRef, body.Reason); err != nil {
		serviceError(w, "failed to decline sos case", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "declined"})
}

// SeenSosHandler marks the volunteer's queue entry as seen
func (s Sos) SeenSosHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing authenticated user", http.StatusUnauthorized, w, nil)
		return
	}
	caseRef := mux.Vars(r)["case_ref"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := s.Service.MarkSeen(ctx, actor, caseRef); err != nil {
		serviceError(w, "failed to mark sos case seen", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "seen"})
}

// StartSosHandler moves the accepted case into IN_PROGRESS
func (s Sos) StartSosHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing authenticated user", http.StatusUnauthorized, w, nil)
		return
	}
	caseRef := mux.Vars(r)["case_ref"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sosCase, err := s.Service.Start(ctx, actor, caseRef)
	if err != nil {
		serviceError(w, "failed to start sos case", err)
		return
	}
	writeJSON(w, http.StatusOK, sosCase)
}

// ResolveSosHandler closes the case as resolved
func (s Sos) ResolveSosHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing authenticated user", http.StatusUnauthorized, w, nil)
		return
	}
	caseRef := mux.Vars(r)["case_ref"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sosCase, err := s.Service.Resolve(ctx, actor, caseRef)
	if err != nil {
		serviceError(w, "failed to resolve sos case", err)
		return
	}
	writeJSON(w, http.StatusOK, sosCase)
}

// SosQueueHandler lists the responder queue for a case, nearest first
func (s Sos) SosQueueHandler(w http.ResponseWriter, r *http.Request) {
	caseRef := mux.Vars(r)["case_ref"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sosCase, err := s.Service.Get(ctx, caseRef)
	if err != nil {
		serviceError(w, "failed to get sos case", err)
		return
	}

	entries, err := s.Queue.EntriesByCase(ctx, sosCase.ID)
	if err != nil {
		serviceError(w, "failed to list responder queue", err)
		return
	}
	if entries == nil {
		entries = []models.ResponderQueueEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// SosDirectionsHandler returns the navigation link from the responder's
// position to the reporter
func (s Sos) SosDirectionsHandler(w http.ResponseWriter, r *http.Request) {
	caseRef := mux.Vars(r)["case_ref"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	sosCase, err := s.Service.Get(ctx, caseRef)
	if err != nil {
		serviceError(w, "failed to get sos case", err)
		return
	}

	url := dispatch.DirectionsURL(&sosCase.Location, sosCase.ResponderLocation)
	if url == "" {
		config.ErrorStatus("no responder location on case", http.StatusNotFound, w, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"directionsUrl": url})
}

// DeleteSosHandler hard-deletes the case and its queue. Admin only.
func (s Sos) DeleteSosHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := api.ActorFromContext(r.Context())
	if !ok {
		config.ErrorStatus("missing authenticated user", http.StatusUnauthorized, w, nil)
		return
	}
	caseRef := mux.Vars(r)["case_ref"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := s.Service.HardDelete(ctx, actor, caseRef); err != nil {
		serviceError(w, "failed to delete sos case", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// serviceError maps service layer errors to HTTP responses
func serviceError(w http.ResponseWriter, message string, err error) {
	config.ErrorStatus(message, models.StatusForError(err), w, err)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(status)
	w.Write(b)
}
