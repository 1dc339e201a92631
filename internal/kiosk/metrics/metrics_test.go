package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObservations(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveAdmission(1)
	m.ObserveAdmission(2)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AdmissionsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RosterSize))

	m.ObserveRejection("not_enrolled")
	m.ObserveRejection("not_enrolled")
	m.ObserveRejection("finger_mismatch")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RejectionsTotal.WithLabelValues("not_enrolled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RejectionsTotal.WithLabelValues("finger_mismatch")))

	m.ObserveTripComplete()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TripsCompletedTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RosterSize), "trip completion resets the roster gauge")
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	// Two engines (e.g. in tests) must be able to register independently.
	m1 := New(prometheus.NewRegistry())
	m2 := New(prometheus.NewRegistry())
	m1.AdmissionsTotal.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(m1.AdmissionsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(m2.AdmissionsTotal))
}
