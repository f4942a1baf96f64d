package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector()

	c.ObserveOperation("deposit", OutcomeSuccess, 10*time.Millisecond)
	c.ObserveOperation("deposit", OutcomeSuccess, 5*time.Millisecond)
	c.ObserveOperation("withdraw", OutcomeRejected, time.Millisecond)
	c.CacheLookup("account", true)
	c.CacheLookup("account", false)
	c.CacheLookup("account", false)
	c.CacheInvalidationFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.operations.WithLabelValues("deposit", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("withdraw", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("account", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.cacheLookups.WithLabelValues("account", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheInvalidationFailed))
}
