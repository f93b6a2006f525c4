package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/safe-connect/sos-api/api/dispatch"
	"github.com/safe-connect/sos-api/databases/mocks"
	"github.com/safe-connect/sos-api/models"
)

type stubNotifier struct {
	mu        sync.Mutex
	delivered []primitive.ObjectID
	titles    []string
}

func (n *stubNotifier) Deliver(ctx context.Context, userID primitive.ObjectID, title, body string, data map[string]string) dispatch.DeliveryResult {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delivered = append(n.delivered, userID)
	n.titles = append(n.titles, title)
	return dispatch.DeliveryResult{Delivered: true}
}

func newTestScheduler(cases *mocks.SosCaseDatabase, queue *mocks.ResponderQueueDatabase, lock *mocks.SchedulerLockDatabase, notifier dispatch.Notifier) *Scheduler {
	// OpsEmail left empty so no mail leaves the test
	s := NewScheduler(cases, queue, notifier, lock, "")
	s.instanceID = "test-instance"
	return s
}

func exhaustedCase() models.SosCase {
	return models.SosCase{
		ID:            primitive.NewObjectID(),
		Code:          "SOS1756710000000WXYZ",
		ReporterID:    primitive.NewObjectID(),
		EmergencyType: models.EmergencyFire,
		Status:        models.CaseStatusSearching,
		CreatedAt:     time.Now().UTC().Add(-10 * time.Minute),
		Meta:          models.CaseMeta{NotifyCount: 3},
	}
}

func TestSweepExhaustedQueues(t *testing.T) {
	cases := &mocks.SosCaseDatabase{}
	queue := &mocks.ResponderQueueDatabase{}
	lock := &mocks.SchedulerLockDatabase{}
	notifier := &stubNotifier{}

	quiet := exhaustedCase()
	stillPending := exhaustedCase()

	lock.On("TryAcquireLock", mock.Anything, "queue_sweep_job", "test-instance", 10*time.Minute).
		Return(true, nil)
	lock.On("ReleaseLock", mock.Anything, "queue_sweep_job", "test-instance").Return(nil)

	cases.On("Find", mock.Anything, mock.Anything).
		Return([]models.SosCase{quiet, stillPending}, nil)
	queue.On("CountPending", mock.Anything, quiet.ID).Return(int64(0), nil)
	queue.On("CountPending", mock.Anything, stillPending.ID).Return(int64(2), nil)

	// alert flag commits for the quiet case only
	cases.On("UpdateOne", mock.Anything, mock.MatchedBy(func(filter bson.M) bool {
		return filter["_id"] == quiet.ID
	}), mock.Anything).
		Return(int64(1), nil)

	s := newTestScheduler(cases, queue, lock, notifier)
	s.sweepExhaustedQueues()

	assert.Equal(t, []primitive.ObjectID{quiet.ReporterID}, notifier.delivered)
	assert.Equal(t, []string{"Still searching for help"}, notifier.titles)
	lock.AssertCalled(t, "ReleaseLock", mock.Anything, "queue_sweep_job", "test-instance")
}

func TestSweepSkipsWhenLockHeld(t *testing.T) {
	cases := &mocks.SosCaseDatabase{}
	queue := &mocks.ResponderQueueDatabase{}
	lock := &mocks.SchedulerLockDatabase{}
	notifier := &stubNotifier{}

	lock.On("TryAcquireLock", mock.Anything, "queue_sweep_job", "test-instance", 10*time.Minute).
		Return(false, nil)

	s := newTestScheduler(cases, queue, lock, notifier)
	s.sweepExhaustedQueues()

	cases.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
	assert.Empty(t, notifier.delivered)
}

func TestAlertReporterFiresOnce(t *testing.T) {
	cases := &mocks.SosCaseDatabase{}
	notifier := &stubNotifier{}

	sosCase := exhaustedCase()

	// another instance flagged the case first
	cases.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(int64(0), nil)

	s := newTestScheduler(cases, &mocks.ResponderQueueDatabase{}, &mocks.SchedulerLockDatabase{}, notifier)
	s.alertReporter(context.Background(), &sosCase)

	assert.Empty(t, notifier.delivered)
}

func TestAlertReporter(t *testing.T) {
	cases := &mocks.SosCaseDatabase{}
	notifier := &stubNotifier{}

	sosCase := exhaustedCase()

	cases.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(int64(1), nil)

	s := newTestScheduler(cases, &mocks.ResponderQueueDatabase{}, &mocks.SchedulerLockDatabase{}, notifier)
	s.alertReporter(context.Background(), &sosCase)

	assert.Equal(t, []primitive.ObjectID{sosCase.ReporterID}, notifier.delivered)
}

func TestStartRegistersMinutelySweep(t *testing.T) {
	cases := &mocks.SosCaseDatabase{}
	queue := &mocks.ResponderQueueDatabase{}
	lock := &mocks.SchedulerLockDatabase{}

	// a tick before Stop would try the lock; refusing it keeps the job inert
	lock.On("TryAcquireLock", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(false, nil).Maybe()

	s := newTestScheduler(cases, queue, lock, &stubNotifier{})
	s.Start()
	defer s.Stop()

	entries := s.cron.Entries()
	assert.Len(t, entries, 2)

	// the queue sweep runs every minute
	from := time.Date(2026, 3, 1, 12, 0, 30, 0, time.UTC)
	first := entries[0].Schedule.Next(from)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 1, 0, 0, time.UTC), first)
	assert.Equal(t, first.Add(time.Minute), entries[0].Schedule.Next(first))
}

func TestNewSchedulerInstanceID(t *testing.T) {
	t.Setenv("DYNO", "web.3")

	s := NewScheduler(&mocks.SosCaseDatabase{}, &mocks.ResponderQueueDatabase{}, &stubNotifier{}, &mocks.SchedulerLockDatabase{}, "")
	assert.Equal(t, "web.3", s.instanceID)
}
