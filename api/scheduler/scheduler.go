package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/safe-connect/sos-api/api/dispatch"
	"github.com/safe-connect/sos-api/databases"
	"github.com/safe-connect/sos-api/models"
)

// Scheduler handles periodic background jobs for the dispatch pipeline
type Scheduler struct {
	cron       *cron.Cron
	Cases      databases.SosCaseDatabase
	Queue      databases.ResponderQueueDatabase
	Notifier   dispatch.Notifier
	LockDB     databases.SchedulerLockDatabase
	OpsEmail   string
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	cases databases.SosCaseDatabase,
	queue databases.ResponderQueueDatabase,
	notifier dispatch.Notifier,
	lockDB databases.SchedulerLockDatabase,
	opsEmail string,
) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		Cases:      cases,
		Queue:      queue,
		Notifier:   notifier,
		LockDB:     lockDB,
		OpsEmail:   opsEmail,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Sweep searching cases with exhausted responder queues every minute
	_, err := s.cron.AddFunc("* * * * *", s.sweepExhaustedQueues)
	if err != nil {
		zap.S().Errorw("failed to register queue sweep job", "error", err)
	}

	// Escalate long-running unanswered cases daily at 6 AM UTC
	_, err = s.cron.AddFunc("0 6 * * *", s.escalateStaleCases)
	if err != nil {
		zap.S().Errorw("failed to register stale case job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Dispatch scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Dispatch scheduler stopped")
}

// sweepExhaustedQueues finds SEARCHING cases whose responder queue has run
// dry, alerts the reporter once and raises an ops email so a human can take
// over the search.
func (s *Scheduler) sweepExhaustedQueues() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, "queue_sweep_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for queue sweep job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Queue sweep job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "queue_sweep_job", s.instanceID)

	// cases that went through at least one dispatch round and have not yet
	// triggered a reporter alert
	filter := bson.M{
		"status":               models.CaseStatusSearching,
		"meta.notifyCount":     bson.M{"$gt": 0},
		"meta.reporterAlerted": bson.M{"$ne": true},
		"createdAt":            bson.M{"$lt": time.Now().UTC().Add(-2 * time.Minute)},
	}
	cases, err := s.Cases.Find(ctx, filter)
	if err != nil {
		zap.S().Errorw("failed to find searching cases", "error", err)
		return
	}

	for i := range cases {
		sosCase := &cases[i]
		pending, err := s.Queue.CountPending(ctx, sosCase.ID)
		if err != nil {
			zap.S().Errorw("failed to count pending queue entries",
				"caseCode", sosCase.Code, "error", err)
			continue
		}
		if pending > 0 {
			continue
		}
		s.alertReporter(ctx, sosCase)
	}
}

// alertReporter notifies the reporter that no volunteer is coming yet and
// flags the case so the alert fires once
func (s *Scheduler) alertReporter(ctx context.Context, sosCase *models.SosCase) {
	modified, err := s.Cases.UpdateOne(ctx,
		bson.M{"_id": sosCase.ID, "meta.reporterAlerted": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"meta.reporterAlerted": true, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		zap.S().Errorw("failed to flag reporter alert", "caseCode", sosCase.Code, "error", err)
		return
	}
	if modified == 0 {
		// another instance got here first
		return
	}

	result := s.Notifier.Deliver(ctx, sosCase.ReporterID,
		"Still searching for help",
		"No volunteer has accepted your emergency yet. Our team has been alerted.",
		map[string]string{
			"type":     "SOS_QUEUE_EXHAUSTED",
			"caseCode": sosCase.Code,
		},
	)
	if !result.Delivered {
		zap.S().Warnw("reporter alert push not delivered",
			"caseCode", sosCase.Code, "reason", result.Reason)
	}

	subject := fmt.Sprintf("SOS case %s has no responders", sosCase.Code)
	plainText := fmt.Sprintf(
		"Case %s (%s) is still SEARCHING and its responder queue is exhausted. Manual intervention required.",
		sosCase.Code, sosCase.EmergencyType,
	)
	htmlContent := fmt.Sprintf(
		"<p>Case <strong>%s</strong> (%s) is still SEARCHING and its responder queue is exhausted.</p><p>Manual intervention required.</p>",
		sosCase.Code, sosCase.EmergencyType,
	)
	s.sendOpsEmail(subject, plainText, htmlContent)

	zap.S().Infow("reporter alerted for exhausted queue", "caseCode", sosCase.Code)
}

// escalateStaleCases mails ops a digest of cases stuck in SEARCHING for
// more than a day
func (s *Scheduler) escalateStaleCases() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, "stale_case_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for stale case job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Stale case job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "stale_case_job", s.instanceID)

	filter := bson.M{
		"status":    models.CaseStatusSearching,
		"createdAt": bson.M{"$lt": time.Now().UTC().Add(-24 * time.Hour)},
	}
	cases, err := s.Cases.Find(ctx, filter)
	if err != nil {
		zap.S().Errorw("failed to find stale cases", "error", err)
		return
	}
	if len(cases) == 0 {
		return
	}

	body := "The following cases have been SEARCHING for over 24 hours:\n"
	html := "<p>The following cases have been SEARCHING for over 24 hours:</p><ul>"
	for _, c := range cases {
		body += fmt.Sprintf("- %s (%s), created %s\n", c.Code, c.EmergencyType, c.CreatedAt.Format(time.RFC3339))
		html += fmt.Sprintf("<li><strong>%s</strong> (%s), created %s</li>", c.Code, c.EmergencyType, c.CreatedAt.Format(time.RFC3339))
	}
	html += "</ul>"

	s.sendOpsEmail(fmt.Sprintf("%d stale SOS cases need attention", len(cases)), body, html)
	zap.S().Infow("stale case digest sent", "count", len(cases))
}

// sendOpsEmail delivers an operational alert via SendGrid. Failures are
// logged, never fatal.
func (s *Scheduler) sendOpsEmail(subject, plainText, htmlContent string) {
	if s.OpsEmail == "" {
		zap.S().Debug("ops alert email not configured, skipping")
		return
	}

	from := mail.NewEmail("SafeConnect SOS", "no-reply@safeconnect.app")
	to := mail.NewEmail("Operations", s.OpsEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send ops email", "error", err)
		return
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
}
