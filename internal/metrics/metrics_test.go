package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/tcfw/docverify/pkg/fragment"
)

func TestObserve(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveFragment(fragment.Fragment{Name: "a", Status: fragment.StatusValid}, time.Millisecond)
	m.ObserveFragment(fragment.Fragment{Name: "a", Status: fragment.StatusValid}, time.Millisecond)
	m.ObserveFragment(fragment.Fragment{Name: "b", Status: fragment.StatusError}, time.Millisecond)
	m.ObserveOverall(fragment.OverallError, 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FragmentOutcome.WithLabelValues("a", "VALID")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FragmentOutcome.WithLabelValues("b", "ERROR")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OverallOutcome.WithLabelValues("ERROR")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.VerifierLatency))
}

func TestNilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveFragment(fragment.Fragment{Name: "a"}, time.Second)
		m.ObserveOverall(fragment.OverallValid, time.Second)
	})
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
