package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordToggle(t *testing.T) {
	before := testutil.ToFloat64(RelationTogglesTotal.WithLabelValues("video", "added"))

	RecordToggle("video", "added")
	RecordToggle("video", "added")

	after := testutil.ToFloat64(RelationTogglesTotal.WithLabelValues("video", "added"))
	require.Equal(t, before+2, after)
}

func TestRecordAuth(t *testing.T) {
	before := testutil.ToFloat64(AuthEventsTotal.WithLabelValues(AuthEventRefresh, AuthResultRejected))

	RecordAuth(AuthEventRefresh, AuthResultRejected)

	require.Equal(t, before+1, testutil.ToFloat64(AuthEventsTotal.WithLabelValues(AuthEventRefresh, AuthResultRejected)))
}
