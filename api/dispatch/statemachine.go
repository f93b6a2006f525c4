package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/safe-connect/sos-api/databases"
	"github.com/safe-connect/sos-api/models"
)

// Case events published to connected clients
const (
	EventCaseAccepted  = "sos_accepted"
	EventCaseCancelled = "sos_cancelled"
	EventCaseReset     = "sos_reset"
	EventCaseStarted   = "sos_started"
	EventCaseResolved  = "sos_resolved"
)

// CandidateDispatcher runs a candidate search and notification fan-out for
// a case. Satisfied by *Dispatcher.
type CandidateDispatcher interface {
	Dispatch(ctx context.Context, sosCase *models.SosCase, exclude ...primitive.ObjectID) ([]models.Candidate, error)
}

// EventPublisher pushes case lifecycle events to connected clients.
// Implementations must be best-effort and non-blocking.
type EventPublisher interface {
	PublishCaseEvent(userID string, event string, data map[string]interface{})
}

// CaseService owns the SOS case lifecycle. Every transition is applied as a
// conditional single-document update guarded by the current status, so two
// racing writers produce exactly one winner; queue side effects run after
// the case document commit.
type CaseService struct {
	Cases      databases.SosCaseDatabase
	Queue      databases.ResponderQueueDatabase
	Volunteers databases.VolunteerDatabase
	Users      databases.UserDatabase
	Dispatcher CandidateDispatcher
	Events     EventPublisher

	// When true, the volunteer who cancels an accepted case is excluded
	// from the re-dispatch triggered by that cancellation.
	ExcludeCancellerOnRedispatch bool
}

// CreateCaseInput carries the reporter-supplied fields of a new case
type CreateCaseInput struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	EmergencyType string  `json:"emergencyType"`
	Description   string  `json:"description"`
	ManualAddress string  `json:"manualAddress"`
	BatteryLevel  *int    `json:"batteryLevel"`
	IsUrgent      bool    `json:"isUrgent"`
}

// Coordinates is an explicit lat/lng pair supplied on accept when the
// volunteer has no registered home base
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AcceptResult is returned to the accepting volunteer
type AcceptResult struct {
	Case          *models.SosCase `json:"case"`
	DirectionsURL string          `json:"directionsUrl,omitempty"`
}

// ListQuery filters and paginates the case listing
type ListQuery struct {
	Status        string
	EmergencyType string
	ReporterID    string
	AcceptedBy    string
	Page          int64
	Limit         int64
	SortBy        string
	SortDesc      bool
}

// Create validates the report, persists a SEARCHING case with a fresh
// unique code, and runs the initial dispatch. An infrastructure failure
// during dispatch is returned alongside the created case: the case stays
// SEARCHING with an empty or partial queue and the dispatch is safe to
// retry.
func (s *CaseService) Create(ctx context.Context, actor models.Actor, input CreateCaseInput) (*models.SosCase, []models.Candidate, error) {
	if !models.ValidCoordinates(input.Latitude, input.Longitude) {
		return nil, nil, fmt.Errorf("%w: invalid coordinates", models.ErrValidation)
	}
	if input.EmergencyType == "" || input.Description == "" {
		return nil, nil, fmt.Errorf("%w: emergency type and description are required", models.ErrValidation)
	}
	if !models.ValidEmergencyType(input.EmergencyType) {
		return nil, nil, fmt.Errorf("%w: unknown emergency type %q", models.ErrValidation, input.EmergencyType)
	}
	if input.BatteryLevel != nil && (*input.BatteryLevel < 0 || *input.BatteryLevel > 100) {
		return nil, nil, fmt.Errorf("%w: battery level out of range", models.ErrValidation)
	}

	now := time.Now().UTC()
	sosCase := &models.SosCase{
		Code:          generateCaseCode(),
		ReporterID:    actor.ID,
		Location:      models.NewGeoPoint(input.Latitude, input.Longitude),
		EmergencyType: input.EmergencyType,
		Description:   strings.TrimSpace(input.Description),
		ManualAddress: strings.TrimSpace(input.ManualAddress),
		BatteryLevel:  input.BatteryLevel,
		IsUrgent:      input.IsUrgent,
		Status:        models.CaseStatusSearching,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := s.Cases.InsertOne(ctx, sosCase); err != nil {
		return nil, nil, fmt.Errorf("%w: insert case: %v", models.ErrStoreUnavailable, err)
	}

	zap.S().Infow("sos case created",
		"caseCode", sosCase.Code,
		"emergencyType", sosCase.EmergencyType,
		"urgent", sosCase.IsUrgent,
	)

	candidates, err := s.Dispatcher.Dispatch(ctx, sosCase)
	if err != nil {
		return sosCase, nil, err
	}
	return sosCase, candidates, nil
}

// Accept claims a SEARCHING case for the acting volunteer. The claim is a
// conditional update on the case document; losing the race surfaces as
// ErrInvalidTransition. The volunteer's busy status is re-validated after
// the claim and the claim is reverted if another case already holds them.
func (s *CaseService) Accept(ctx context.Context, actor models.Actor, caseRef string, fallback *Coordinates) (*AcceptResult, error) {
	sosCase, err := s.findByRef(ctx, caseRef)
	if err != nil {
		return nil, err
	}
	if sosCase.Status != models.CaseStatusSearching {
		return nil, fmt.Errorf("%w: case is no longer available", models.ErrInvalidTransition)
	}

	// best-effort pre-check, the authoritative check runs after the claim
	busy, err := s.volunteerBusy(ctx, actor.ID, sosCase.ID)
	if err != nil {
		return nil, err
	}
	if busy {
		acceptConflicts.Inc()
		return nil, fmt.Errorf("%w: volunteer already handling another case", models.ErrConflict)
	}

	volunteer, err := s.Users.FindOne(ctx, bson.M{"_id": actor.ID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: volunteer", models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: volunteer lookup: %v", models.ErrStoreUnavailable, err)
	}

	responderLocation, err := s.resolveResponderLocation(ctx, actor.ID, fallback)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	claim := bson.M{"$set": bson.M{
		"status":            models.CaseStatusAccepted,
		"acceptedBy":        actor.ID,
		"acceptedAt":        now,
		"responderLocation": responderLocation,
		"responderInfo": models.ResponderInfo{
			VolunteerID:    actor.ID,
			VolunteerName:  volunteer.FullName,
			VolunteerPhone: volunteer.Phone,
			AcceptedAt:     now,
		},
		"updatedAt": now,
	}}
	modified, err := s.Cases.UpdateOne(ctx, bson.M{"_id": sosCase.ID, "status": models.CaseStatusSearching}, claim)
	if err != nil {
		return nil, fmt.Errorf("%w: accept claim: %v", models.ErrStoreUnavailable, err)
	}
	if modified == 0 {
		acceptConflicts.Inc()
		return nil, fmt.Errorf("%w: case is no longer available", models.ErrInvalidTransition)
	}

	// commit-time re-validation for the cross-case race on this volunteer.
	// The claim must not stand on an unverified check, so a failed lookup
	// releases the case and lets the caller retry.
	busy, err = s.volunteerBusy(ctx, actor.ID, sosCase.ID)
	if err != nil {
		s.revertClaim(ctx, sosCase.ID, actor.ID)
		zap.S().Warnw("busy re-validation failed, releasing claim", "caseCode", sosCase.Code, "error", err)
		return nil, err
	}
	if busy {
		s.revertClaim(ctx, sosCase.ID, actor.ID)
		acceptConflicts.Inc()
		return nil, fmt.Errorf("%w: volunteer already handling another case", models.ErrConflict)
	}

	if _, err := s.Queue.MarkResponded(ctx, sosCase.ID, actor.ID, models.QueueStatusAccepted, ""); err != nil {
		// a volunteer may legitimately accept without a queue entry, e.g.
		// when the case code was shared with them directly
		if !errors.Is(err, models.ErrNotInQueue) {
			zap.S().Warnw("failed to mark queue entry accepted", "caseCode", sosCase.Code, "error", err)
		}
	}
	if err := s.Queue.DeclineAllExcept(ctx, sosCase.ID, actor.ID); err != nil {
		zap.S().Warnw("failed to close responder queue", "caseCode", sosCase.Code, "error", err)
	}

	updated, err := s.findByRef(ctx, sosCase.Code)
	if err != nil {
		return nil, err
	}

	casesAccepted.Inc()
	s.publish(updated.ReporterID.Hex(), EventCaseAccepted, map[string]interface{}{
		"caseCode":      updated.Code,
		"volunteerName": volunteer.FullName,
	})
	zap.S().Infow("sos case accepted",
		"caseCode", updated.Code,
		"volunteerId", actor.ID.Hex(),
	)

	return &AcceptResult{
		Case:          updated,
		DirectionsURL: DirectionsURL(&updated.Location, updated.ResponderLocation),
	}, nil
}

// Cancel applies the role-dependent cancel transition. Admins cancel from
// any non-terminal state, reporters from SEARCHING/ACCEPTED; the accepted
// volunteer's cancel resets the case to SEARCHING and re-dispatches.
func (s *CaseService) Cancel(ctx context.Context, actor models.Actor, caseRef, reason string) (*models.SosCase, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: cancel reason is required", models.ErrValidation)
	}

	sosCase, err := s.findByRef(ctx, caseRef)
	if err != nil {
		return nil, err
	}
	if sosCase.Status == models.CaseStatusCancelled {
		return nil, fmt.Errorf("%w: case already cancelled", models.ErrInvalidTransition)
	}

	role, err := cancelRole(actor, sosCase)
	if err != nil {
		return nil, err
	}

	if role == models.CancelRoleVolunteer {
		return s.volunteerCancel(ctx, actor, sosCase)
	}

	allowed := []string{models.CaseStatusSearching, models.CaseStatusAccepted, models.CaseStatusInProgress}
	if role == models.CancelRoleReporter {
		allowed = []string{models.CaseStatusSearching, models.CaseStatusAccepted}
	}
	if !contains(allowed, sosCase.Status) {
		return nil, fmt.Errorf("%w: cannot cancel case in status %s", models.ErrInvalidTransition, sosCase.Status)
	}

	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"status":          models.CaseStatusCancelled,
		"cancelledBy":     actor.ID,
		"cancelledAt":     now,
		"cancelReason":    strings.TrimSpace(reason),
		"cancelledByRole": role,
		"updatedAt":       now,
	}}
	modified, err := s.Cases.UpdateOne(ctx, bson.M{"_id": sosCase.ID, "status": bson.M{"$in": allowed}}, update)
	if err != nil {
		return nil, fmt.Errorf("%w: cancel: %v", models.ErrStoreUnavailable, err)
	}
	if modified == 0 {
		return nil, fmt.Errorf("%w: case state changed", models.ErrInvalidTransition)
	}

	if err := s.Queue.DeclineAll(ctx, sosCase.ID); err != nil {
		zap.S().Warnw("failed to decline responder queue on cancel", "caseCode", sosCase.Code, "error", err)
	}

	casesCancelled.WithLabelValues(role).Inc()
	s.publish(sosCase.ReporterID.Hex(), EventCaseCancelled, map[string]interface{}{
		"caseCode": sosCase.Code,
		"role":     role,
	})
	if sosCase.AcceptedBy != nil {
		s.publish(sosCase.AcceptedBy.Hex(), EventCaseCancelled, map[string]interface{}{
			"caseCode": sosCase.Code,
			"role":     role,
		})
	}
	zap.S().Infow("sos case cancelled",
		"caseCode", sosCase.Code,
		"role", role,
		"reason", reason,
	)

	return s.findByRef(ctx, sosCase.Code)
}

// volunteerCancel resets an accepted case back to SEARCHING and runs a
// fresh dispatch. Whether the cancelling volunteer is excluded from that
// dispatch is a configuration choice.
func (s *CaseService) volunteerCancel(ctx context.Context, actor models.Actor, sosCase *models.SosCase) (*models.SosCase, error) {
	allowed := []string{models.CaseStatusAccepted, models.CaseStatusInProgress}
	if !contains(allowed, sosCase.Status) {
		return nil, fmt.Errorf("%w: cannot cancel case in status %s", models.ErrInvalidTransition, sosCase.Status)
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"status":    models.CaseStatusSearching,
			"updatedAt": now,
		},
		"$unset": bson.M{
			"acceptedBy":        "",
			"acceptedAt":        "",
			"responderLocation": "",
			"responderInfo":     "",
		},
	}
	filter := bson.M{
		"_id":        sosCase.ID,
		"status":     bson.M{"$in": allowed},
		"acceptedBy": actor.ID,
	}
	modified, err := s.Cases.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("%w: volunteer cancel: %v", models.ErrStoreUnavailable, err)
	}
	if modified == 0 {
		return nil, fmt.Errorf("%w: case state changed", models.ErrInvalidTransition)
	}

	casesCancelled.WithLabelValues(models.CancelRoleVolunteer).Inc()
	s.publish(sosCase.ReporterID.Hex(), EventCaseReset, map[string]interface{}{
		"caseCode": sosCase.Code,
	})
	zap.S().Infow("sos case reset by volunteer",
		"caseCode", sosCase.Code,
		"volunteerId", actor.ID.Hex(),
	)

	updated, err := s.findByRef(ctx, sosCase.Code)
	if err != nil {
		return nil, err
	}

	var exclude []primitive.ObjectID
	if s.ExcludeCancellerOnRedispatch {
		exclude = append(exclude, actor.ID)
	}
	if _, err := s.Dispatcher.Dispatch(ctx, updated, exclude...); err != nil {
		// the reset is committed; a failed re-dispatch leaves the case
		// SEARCHING and retryable
		return updated, err
	}
	return updated, nil
}

// Decline records a volunteer's refusal in the responder queue. The case
// status itself does not change.
func (s *CaseService) Decline(ctx context.Context, actor models.Actor, caseRef, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: decline reason is required", models.ErrValidation)
	}

	sosCase, err := s.findByRef(ctx, caseRef)
	if err != nil {
		return err
	}
	if sosCase.Status == models.CaseStatusCancelled {
		return fmt.Errorf("%w: case has been cancelled", models.ErrInvalidTransition)
	}

	if _, err := s.Queue.MarkResponded(ctx, sosCase.ID, actor.ID, models.QueueStatusDeclined, strings.TrimSpace(reason)); err != nil {
		return err
	}

	next, err := s.Queue.NextCandidate(ctx, sosCase.ID)
	if err != nil {
		zap.S().Warnw("failed to inspect responder queue", "caseCode", sosCase.Code, "error", err)
		return nil
	}
	if next == nil && sosCase.Status == models.CaseStatusSearching {
		// queue exhausted; the sweeper picks this up and alerts the reporter
		zap.S().Infow("responder queue exhausted",
			"caseCode", sosCase.Code,
		)
	}
	return nil
}

// MarkSeen flags the volunteer's queue entry as seen
func (s *CaseService) MarkSeen(ctx context.Context, actor models.Actor, caseRef string) error {
	sosCase, err := s.findByRef(ctx, caseRef)
	if err != nil {
		return err
	}
	return s.Queue.MarkSeen(ctx, sosCase.ID, actor.ID)
}

// Start moves an accepted case to IN_PROGRESS. Only the accepted volunteer
// may start the response.
func (s *CaseService) Start(ctx context.Context, actor models.Actor, caseRef string) (*models.SosCase, error) {
	sosCase, err := s.findByRef(ctx, caseRef)
	if err != nil {
		return nil, err
	}
	if sosCase.AcceptedBy == nil || *sosCase.AcceptedBy != actor.ID {
		return nil, fmt.Errorf("%w: only the accepted volunteer may start the case", models.ErrForbidden)
	}

	now := time.Now().UTC()
	modified, err := s.Cases.UpdateOne(ctx,
		bson.M{"_id": sosCase.ID, "status": models.CaseStatusAccepted, "acceptedBy": actor.ID},
		bson.M{"$set": bson.M{"status": models.CaseStatusInProgress, "updatedAt": now}},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: start: %v", models.ErrStoreUnavailable, err)
	}
	if modified == 0 {
		return nil, fmt.Errorf("%w: case is not in ACCEPTED status", models.ErrInvalidTransition)
	}

	s.publish(sosCase.ReporterID.Hex(), EventCaseStarted, map[string]interface{}{"caseCode": sosCase.Code})
	return s.findByRef(ctx, sosCase.Code)
}

// Resolve closes the case as RESOLVED. The accepted volunteer or an admin
// may resolve it from ACCEPTED or IN_PROGRESS.
func (s *CaseService) Resolve(ctx context.Context, actor models.Actor, caseRef string) (*models.SosCase, error) {
	sosCase, err := s.findByRef(ctx, caseRef)
	if err != nil {
		return nil, err
	}
	isVolunteer := sosCase.AcceptedBy != nil && *sosCase.AcceptedBy == actor.ID
	if !actor.IsAdmin() && !isVolunteer {
		return nil, fmt.Errorf("%w: not authorized to resolve this case", models.ErrForbidden)
	}

	now := time.Now().UTC()
	allowed := []string{models.CaseStatusAccepted, models.CaseStatusInProgress}
	modified, err := s.Cases.UpdateOne(ctx,
		bson.M{"_id": sosCase.ID, "status": bson.M{"$in": allowed}},
		bson.M{"$set": bson.M{"status": models.CaseStatusResolved, "resolvedAt": now, "updatedAt": now}},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve: %v", models.ErrStoreUnavailable, err)
	}
	if modified == 0 {
		return nil, fmt.Errorf("%w: cannot resolve case in status %s", models.ErrInvalidTransition, sosCase.Status)
	}

	if err := s.Queue.DeclineAll(ctx, sosCase.ID); err != nil {
		zap.S().Warnw("failed to close responder queue on resolve", "caseCode", sosCase.Code, "error", err)
	}

	s.publish(sosCase.ReporterID.Hex(), EventCaseResolved, map[string]interface{}{"caseCode": sosCase.Code})
	zap.S().Infow("sos case resolved", "caseCode", sosCase.Code)
	return s.findByRef(ctx, sosCase.Code)
}

// Get returns the case addressed by code or id
func (s *CaseService) Get(ctx context.Context, caseRef string) (*models.SosCase, error) {
	return s.findByRef(ctx, caseRef)
}

// List returns matching cases plus the total match count for pagination
func (s *CaseService) List(ctx context.Context, query ListQuery) ([]models.SosCase, int64, error) {
	filter := bson.M{}
	if query.Status != "" {
		filter["status"] = query.Status
	}
	if query.EmergencyType != "" {
		filter["emergencyType"] = query.EmergencyType
	}
	if query.ReporterID != "" {
		id, err := primitive.ObjectIDFromHex(query.ReporterID)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid reporterId", models.ErrValidation)
		}
		filter["reporterId"] = id
	}
	if query.AcceptedBy != "" {
		id, err := primitive.ObjectIDFromHex(query.AcceptedBy)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: invalid acceptedBy", models.ErrValidation)
		}
		filter["acceptedBy"] = id
	}

	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	order := 1
	if query.SortDesc {
		order = -1
	}
	opts := databases.Paginate(query.Limit, query.Page).
		SetSort(bson.D{{Key: sortBy, Value: order}})

	cases, err := s.Cases.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list cases: %v", models.ErrStoreUnavailable, err)
	}
	total, err := s.Cases.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: count cases: %v", models.ErrStoreUnavailable, err)
	}
	return cases, total, nil
}

// HardDelete removes the case document and cascades into its queue
// entries. Administrative forced termination, outside the state machine.
func (s *CaseService) HardDelete(ctx context.Context, actor models.Actor, caseRef string) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: admin role required", models.ErrForbidden)
	}
	sosCase, err := s.findByRef(ctx, caseRef)
	if err != nil {
		return err
	}
	if _, err := s.Queue.DeleteByCase(ctx, sosCase.ID); err != nil {
		return fmt.Errorf("%w: delete queue entries: %v", models.ErrStoreUnavailable, err)
	}
	if err := s.Cases.DeleteOne(ctx, bson.M{"_id": sosCase.ID}); err != nil {
		return fmt.Errorf("%w: delete case: %v", models.ErrStoreUnavailable, err)
	}
	zap.S().Infow("sos case hard-deleted",
		"caseCode", sosCase.Code,
		"adminId", actor.ID.Hex(),
	)
	return nil
}

// findByRef resolves a case by its human-readable code or its hex id.
// Codes may collide in shape with ids, so the code lookup always runs
// first for determinism.
func (s *CaseService) findByRef(ctx context.Context, ref string) (*models.SosCase, error) {
	if ref == "" {
		return nil, fmt.Errorf("%w: case reference is required", models.ErrValidation)
	}

	sosCase, err := s.Cases.FindOne(ctx, bson.M{"code": ref})
	if err == nil {
		return sosCase, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: case lookup: %v", models.ErrStoreUnavailable, err)
	}

	id, idErr := primitive.ObjectIDFromHex(ref)
	if idErr != nil {
		return nil, fmt.Errorf("%w: sos case", models.ErrNotFound)
	}
	sosCase, err = s.Cases.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: sos case", models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: case lookup: %v", models.ErrStoreUnavailable, err)
	}
	return sosCase, nil
}

// volunteerBusy reports whether the volunteer holds any other active case
func (s *CaseService) volunteerBusy(ctx context.Context, volunteerID, excludeCaseID primitive.ObjectID) (bool, error) {
	count, err := s.Cases.CountDocuments(ctx, bson.M{
		"_id":        bson.M{"$ne": excludeCaseID},
		"acceptedBy": volunteerID,
		"status":     bson.M{"$in": []string{models.CaseStatusAccepted, models.CaseStatusInProgress}},
	})
	if err != nil {
		return false, fmt.Errorf("%w: busy check: %v", models.ErrStoreUnavailable, err)
	}
	return count > 0, nil
}

// resolveResponderLocation prefers the volunteer's registered home base and
// falls back to coordinates supplied with the accept request
func (s *CaseService) resolveResponderLocation(ctx context.Context, volunteerID primitive.ObjectID, fallback *Coordinates) (*models.GeoPoint, error) {
	profile, err := s.Volunteers.FindByUserID(ctx, volunteerID)
	if err == nil && profile.HomeBase != nil && !profile.HomeBase.Location.IsZero() {
		loc := profile.HomeBase.Location
		return &loc, nil
	}
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: volunteer profile lookup: %v", models.ErrStoreUnavailable, err)
	}

	if fallback != nil {
		if !models.ValidCoordinates(fallback.Latitude, fallback.Longitude) {
			return nil, fmt.Errorf("%w: invalid coordinates", models.ErrValidation)
		}
		loc := models.NewGeoPoint(fallback.Latitude, fallback.Longitude)
		return &loc, nil
	}
	return nil, fmt.Errorf("%w: volunteer location not found, provide coordinates or set up a home base", models.ErrValidation)
}

// revertClaim rolls an accept claim back after losing the cross-case race
func (s *CaseService) revertClaim(ctx context.Context, caseID, volunteerID primitive.ObjectID) {
	update := bson.M{
		"$set": bson.M{
			"status":    models.CaseStatusSearching,
			"updatedAt": time.Now().UTC(),
		},
		"$unset": bson.M{
			"acceptedBy":        "",
			"acceptedAt":        "",
			"responderLocation": "",
			"responderInfo":     "",
		},
	}
	filter := bson.M{"_id": caseID, "status": models.CaseStatusAccepted, "acceptedBy": volunteerID}
	if _, err := s.Cases.UpdateOne(ctx, filter, update); err != nil {
		zap.S().Errorw("failed to revert accept claim", "caseId", caseID.Hex(), "error", err)
	}
}

func (s *CaseService) publish(userID, event string, data map[string]interface{}) {
	if s.Events == nil {
		return
	}
	s.Events.PublishCaseEvent(userID, event, data)
}

// cancelRole resolves the single role the actor cancels under, or Forbidden
func cancelRole(actor models.Actor, sosCase *models.SosCase) (string, error) {
	switch {
	case actor.IsAdmin():
		return models.CancelRoleAdmin, nil
	case actor.ID == sosCase.ReporterID:
		return models.CancelRoleReporter, nil
	case sosCase.AcceptedBy != nil && *sosCase.AcceptedBy == actor.ID:
		return models.CancelRoleVolunteer, nil
	default:
		return "", fmt.Errorf("%w: not authorized to cancel this case", models.ErrForbidden)
	}
}

// generateCaseCode builds the human-readable unique case code
func generateCaseCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:4]
	return fmt.Sprintf("SOS%d%s", time.Now().UnixMilli(), suffix)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
