package config

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	os.Setenv("DB_NAME", "test")
	conf := New()

	assert.NotEmpty(t, conf)
	assert.Equal(t, DefaultSearchRadiusKm, conf.SearchRadiusKm)
	assert.Equal(t, int64(DefaultMaxCandidates), conf.MaxCandidates)
	assert.False(t, conf.ExcludeCancellerOnRedispatch)
}

func TestNewDispatchKnobs(t *testing.T) {
	os.Setenv("SEARCH_RADIUS_KM", "25.5")
	os.Setenv("MAX_CANDIDATES", "3")
	os.Setenv("REDISPATCH_EXCLUDE_CANCELLER", "true")
	defer func() {
		os.Unsetenv("SEARCH_RADIUS_KM")
		os.Unsetenv("MAX_CANDIDATES")
		os.Unsetenv("REDISPATCH_EXCLUDE_CANCELLER")
	}()

	conf := New()

	assert.Equal(t, 25.5, conf.SearchRadiusKm)
	assert.Equal(t, int64(3), conf.MaxCandidates)
	assert.True(t, conf.ExcludeCancellerOnRedispatch)
}

func TestNewDispatchKnobsInvalidFallBackToDefaults(t *testing.T) {
	os.Setenv("SEARCH_RADIUS_KM", "not-a-number")
	os.Setenv("MAX_CANDIDATES", "ten")
	defer func() {
		os.Unsetenv("SEARCH_RADIUS_KM")
		os.Unsetenv("MAX_CANDIDATES")
	}()

	conf := New()

	assert.Equal(t, DefaultSearchRadiusKm, conf.SearchRadiusKm)
	assert.Equal(t, int64(DefaultMaxCandidates), conf.MaxCandidates)
}

func TestErrorStatus(t *testing.T) {

	ErrorStatus("error it borked", http.StatusBadRequest, httptest.NewRecorder(), errors.New("bad request"))
	assert.True(t, true)
}

func TestSetLoggerSetsDevelopmentLogger(t *testing.T) {
	l, err := setLogger("development")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(1))
}

func TestSetLoggerSetsProductionLogger(t *testing.T) {
	l, err := setLogger("production")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(2))
}

func TestSetLoggerSetsLocalLogger(t *testing.T) {
	l, err := setLogger("local")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(0))
}
