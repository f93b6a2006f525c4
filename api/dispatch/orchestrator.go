package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/safe-connect/sos-api/databases"
	"github.com/safe-connect/sos-api/models"
)

// Dispatcher selects and notifies candidate volunteers for a case. Invoked
// on case creation and whenever a volunteer cancellation resets a case back
// to SEARCHING.
type Dispatcher struct {
	Cases      databases.SosCaseDatabase
	Queue      databases.ResponderQueueDatabase
	Volunteers databases.VolunteerDatabase
	Notifier   Notifier

	RadiusKm      float64
	MaxCandidates int64
}

// Dispatch finds eligible volunteers near the case's report location,
// queues them in ranked order and fans out notifications. The busy set is a
// best-effort snapshot; the accept guard re-validates it at commit time.
// Index and queue failures abort the dispatch; delivery failures do not.
func (d *Dispatcher) Dispatch(ctx context.Context, sosCase *models.SosCase, exclude ...primitive.ObjectID) ([]models.Candidate, error) {
	dispatchesTotal.Inc()

	busy, err := d.Cases.Distinct(ctx, "acceptedBy", databases.BusyVolunteerFilter())
	if err != nil {
		return nil, fmt.Errorf("%w: busy volunteer query: %v", models.ErrStoreUnavailable, err)
	}
	busy = append(busy, exclude...)

	candidates, err := d.Volunteers.FindCandidates(ctx, sosCase.Location, d.RadiusKm, d.MaxCandidates, busy)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		emptyDispatches.Inc()
		zap.S().Infow("no eligible volunteers found for case",
			"caseCode", sosCase.Code,
			"radiusKm", d.RadiusKm,
		)
		return []models.Candidate{}, nil
	}

	// Re-dispatch after a volunteer cancellation can select volunteers the
	// case already queued in an earlier round; those entries are retained
	// for audit and the unique (sosId, volunteerId) index rejects fresh
	// inserts for them. Split the selection: insert entries only for new
	// volunteers and reset the retained ones back to NOTIFIED.
	existing, err := d.Queue.EntriesByCase(ctx, sosCase.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: queue lookup: %v", models.ErrStoreUnavailable, err)
	}
	queued := make(map[primitive.ObjectID]bool, len(existing))
	for _, entry := range existing {
		queued[entry.VolunteerID] = true
	}
	fresh := make([]models.Candidate, 0, len(candidates))
	var requeue []primitive.ObjectID
	for _, c := range candidates {
		if queued[c.VolunteerID] {
			requeue = append(requeue, c.VolunteerID)
			continue
		}
		fresh = append(fresh, c)
	}

	if err := d.Queue.Populate(ctx, sosCase.ID, fresh); err != nil {
		if errors.Is(err, models.ErrDuplicateEntry) {
			return nil, fmt.Errorf("queue populate: %w", err)
		}
		return nil, fmt.Errorf("%w: queue populate: %v", models.ErrStoreUnavailable, err)
	}
	if len(requeue) > 0 {
		if _, err := d.Queue.Requeue(ctx, sosCase.ID, requeue); err != nil {
			return nil, fmt.Errorf("%w: queue requeue: %v", models.ErrStoreUnavailable, err)
		}
	}

	_, err = d.Cases.UpdateOne(ctx, bson.M{"_id": sosCase.ID}, bson.M{
		"$set": bson.M{"meta.radiusKmNotified": d.RadiusKm},
		"$inc": bson.M{"meta.notifyCount": len(candidates)},
	})
	if err != nil {
		// bookkeeping only, the queue is already committed
		zap.S().Warnw("failed to update dispatch meta", "caseCode", sosCase.Code, "error", err)
	}

	candidatesNotified.Add(float64(len(candidates)))

	// The queue is fully committed before any delivery starts, so every
	// notified volunteer can find their own queue entry. Deliveries run
	// concurrently and are best-effort.
	var wg sync.WaitGroup
	for _, candidate := range candidates {
		wg.Add(1)
		go func(c models.Candidate) {
			defer wg.Done()
			d.notify(ctx, sosCase, c)
		}(candidate)
	}
	wg.Wait()

	zap.S().Infow("dispatch complete",
		"caseCode", sosCase.Code,
		"candidates", len(candidates),
	)
	return candidates, nil
}

func (d *Dispatcher) notify(ctx context.Context, sosCase *models.SosCase, c models.Candidate) {
	if d.Notifier == nil {
		return
	}
	distance := fmt.Sprintf("%.1f", c.DistanceKm)
	title := "Emergency assistance needed nearby"
	body := fmt.Sprintf("%s - %skm from you", sosCase.EmergencyType, distance)

	res := d.Notifier.Deliver(ctx, c.VolunteerID, title, body, map[string]string{
		"type":          "SOS_CASE",
		"caseId":        sosCase.ID.Hex(),
		"caseCode":      sosCase.Code,
		"emergencyType": sosCase.EmergencyType,
		"distance":      distance,
	})
	if !res.Delivered {
		notificationFailures.Inc()
		zap.S().Warnw("push delivery failed for candidate",
			"caseCode", sosCase.Code,
			"volunteerId", c.VolunteerID.Hex(),
			"reason", res.Reason,
		)
	}
}

// DirectionsURL builds an external map navigation link between the reporter
// and responder locations. Returns empty when either point is missing.
func DirectionsURL(reporterLocation, responderLocation *models.GeoPoint) string {
	if reporterLocation == nil || responderLocation == nil ||
		reporterLocation.IsZero() || responderLocation.IsZero() {
		return ""
	}
	return fmt.Sprintf(
		"https://www.google.com/maps/dir/?api=1&origin=%v,%v&destination=%v,%v&travelmode=driving",
		reporterLocation.Latitude(), reporterLocation.Longitude(),
		responderLocation.Latitude(), responderLocation.Longitude(),
	)
}
