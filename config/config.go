package config

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/safe-connect/sos-api/models"
)

// Defaults for the dispatch knobs when the environment leaves them unset
const (
	DefaultSearchRadiusKm = 50.0
	DefaultMaxCandidates  = 10
)

// Config holds the project config values
type Config struct {
	URL          string
	DatabaseName string
	BaseURL      string
	Port         string

	// Dispatch knobs
	SearchRadiusKm float64
	MaxCandidates  int64

	// Whether a volunteer who cancels an accepted case is excluded from the
	// re-dispatch that follows. The legacy behavior re-includes them, so the
	// default is false.
	ExcludeCancellerOnRedispatch bool

	// Ops alerting
	OpsAlertEmail  string
	SendgridAPIKey string
}

// New sets up all config related services
func New() *Config {

	//setup zap logger and replace default logger
	logger, err := setLogger(os.Getenv("APP_ENV"))
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:                          os.Getenv("DB_URI"),
		DatabaseName:                 os.Getenv("DB_NAME"),
		BaseURL:                      os.Getenv("BASE_URL"),
		Port:                         os.Getenv("PORT"),
		SearchRadiusKm:               envFloat("SEARCH_RADIUS_KM", DefaultSearchRadiusKm),
		MaxCandidates:                envInt("MAX_CANDIDATES", DefaultMaxCandidates),
		ExcludeCancellerOnRedispatch: envBool("REDISPATCH_EXCLUDE_CANCELLER", false),
		OpsAlertEmail:                os.Getenv("OPS_ALERT_EMAIL"),
		SendgridAPIKey:               os.Getenv("SENDGRID_API_KEY"),
	}

}

func setLogger(environment string) (*zap.Logger, error) {
	switch environment {
	case "development":
		return zap.NewDevelopment()
	case "production":
		return zap.NewProduction()
	default:
		return zap.NewExample(), nil
	}
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		zap.S().Warnf("invalid %s %q, using default %v", key, v, fallback)
		return fallback
	}
	return f
}

func envInt(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		zap.S().Warnf("invalid %s %q, using default %v", key, v, fallback)
		return fallback
	}
	return i
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		zap.S().Warnf("invalid %s %q, using default %v", key, v, fallback)
		return fallback
	}
	return b
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	b, _ := json.Marshal(models.ErrorMessageResponse{Response: models.MessageError{Message: message, Error: errText}})
	w.Write(b)
}
