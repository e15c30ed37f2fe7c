package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestRecordCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(FeedCacheLookups.WithLabelValues(CacheHit))
	RecordCacheLookup(CacheHit)
	assert.Equal(t, before+1, testutil.ToFloat64(FeedCacheLookups.WithLabelValues(CacheHit)))
}

func TestTrackFeedQuery(t *testing.T) {
	done := TrackFeedQuery("index")
	done()
	assert.GreaterOrEqual(t, testutil.CollectAndCount(FeedQueryLatency), 1)
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "yatube-test"})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	ctx, span := StartSpan(context.Background(), "feed.test", attribute.Int("page", 1))
	assert.NotNil(t, ctx)
	EndSpan(span, errors.New("boom"))
}
