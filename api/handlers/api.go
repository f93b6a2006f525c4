package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/safe-connect/sos-api/api"
	"github.com/safe-connect/sos-api/api/dispatch"
	"github.com/safe-connect/sos-api/api/scheduler"
	"github.com/safe-connect/sos-api/config"
	"github.com/safe-connect/sos-api/databases"
	"github.com/safe-connect/sos-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Hub      *NotificationHub
	Service  *dispatch.CaseService
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	if a.Hub == nil {
		a.Hub = NewNotificationHub()
	}
	if a.Service == nil {
		a.Service = a.newCaseService()
	}

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)

	sos := Sos{Service: a.Service, Queue: databases.NewResponderQueueDatabase(a.dbHelper)}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/ws/notifications", a.Hub.HandleNotificationsWebSocket)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/sos", api.Middleware(http.HandlerFunc(sos.CreateSosHandler))).Methods("POST")
	apiCreate.Handle("/sos", api.Middleware(http.HandlerFunc(sos.SosListHandler))).Methods("GET")
	apiCreate.Handle("/sos/{case_ref}", api.Middleware(http.HandlerFunc(sos.SosByRefHandler))).Methods("GET")
	apiCreate.Handle("/sos/{case_ref}", api.Middleware(http.HandlerFunc(sos.DeleteSosHandler))).Methods("DELETE")
	apiCreate.Handle("/sos/{case_ref}/accept", api.Middleware(http.HandlerFunc(sos.AcceptSosHandler))).Methods("POST")
	apiCreate.Handle("/sos/{case_ref}/cancel", api.Middleware(http.HandlerFunc(sos.CancelSosHandler))).Methods("POST")
	apiCreate.Handle("/sos/{case_ref}/decline", api.Middleware(http.HandlerFunc(sos.DeclineSosHandler))).Methods("POST")
	apiCreate.Handle("/sos/{case_ref}/seen", api.Middleware(http.HandlerFunc(sos.SeenSosHandler))).Methods("POST")
	apiCreate.Handle("/sos/{case_ref}/start", api.Middleware(http.HandlerFunc(sos.StartSosHandler))).Methods("POST")
	apiCreate.Handle("/sos/{case_ref}/resolve", api.Middleware(http.HandlerFunc(sos.ResolveSosHandler))).Methods("POST")
	apiCreate.Handle("/sos/{case_ref}/queue", api.Middleware(http.HandlerFunc(sos.SosQueueHandler))).Methods("GET")
	apiCreate.Handle("/sos/{case_ref}/directions", api.Middleware(http.HandlerFunc(sos.SosDirectionsHandler))).Methods("GET")

	return r
}

// newCaseService wires the dispatch stack onto the database helper
func (a *App) newCaseService() *dispatch.CaseService {
	caseDB := databases.NewSosCaseDatabase(a.dbHelper)
	queueDB := databases.NewResponderQueueDatabase(a.dbHelper)
	volunteerDB := databases.NewVolunteerDatabase(a.dbHelper)

	notifier := dispatch.NewExpoNotifier(
		databases.NewDeviceDatabase(a.dbHelper),
		databases.NewNotificationDatabase(a.dbHelper),
	)

	dispatcher := &dispatch.Dispatcher{
		Cases:         caseDB,
		Queue:         queueDB,
		Volunteers:    volunteerDB,
		Notifier:      notifier,
		RadiusKm:      a.Config.SearchRadiusKm,
		MaxCandidates: a.Config.MaxCandidates,
	}

	return &dispatch.CaseService{
		Cases:                        caseDB,
		Queue:                        queueDB,
		Volunteers:                   volunteerDB,
		Users:                        databases.NewUserDatabase(a.dbHelper),
		Dispatcher:                   dispatcher,
		Events:                       a.Hub,
		ExcludeCancellerOnRedispatch: a.Config.ExcludeCancellerOnRedispatch,
	}
}

// NewScheduler builds the background job runner on the app's database
// connection. Call after Initialize.
func (a *App) NewScheduler() *scheduler.Scheduler {
	return scheduler.NewScheduler(
		databases.NewSosCaseDatabase(a.dbHelper),
		databases.NewResponderQueueDatabase(a.dbHelper),
		dispatch.NewExpoNotifier(
			databases.NewDeviceDatabase(a.dbHelper),
			databases.NewNotificationDatabase(a.dbHelper),
		),
		databases.NewSchedulerLockDatabase(a.dbHelper),
		a.Config.OpsAlertEmail,
	)
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("sos-api has connected to the database")

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
