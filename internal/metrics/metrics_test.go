package metrics

import (
	"io"
	"math/big"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KirkDiggler/lottery/internal/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRound(t *testing.T) {
	m := New()

	round := models.NewRound("raffle", 3, time.Now())
	round.Entrants = []string{"alice", "bob"}
	round.Pool = big.NewInt(2000)
	round.State = models.LotteryStateCalculating

	m.ObserveRound(round)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.entrants))
	assert.Equal(t, 2000.0, testutil.ToFloat64(m.pool))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.state))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.round))
}

func TestCounters(t *testing.T) {
	m := New()

	m.EntryAccepted()
	m.EntryAccepted()
	m.Upkeep(UpkeepPerformed)
	m.Upkeep(UpkeepNotNeeded)
	m.Fulfillment(FulfillmentPaid)
	m.SnapshotFailed()
	m.PayoutLatency(time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.entries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upkeeps.WithLabelValues(UpkeepPerformed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upkeeps.WithLabelValues(UpkeepNotNeeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fulfillments.WithLabelValues(FulfillmentPaid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshotFailures))
	assert.Equal(t, 1, testutil.CollectAndCount(m.fulfillmentLatency))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.EntryAccepted()
		m.Upkeep(UpkeepFailed)
		m.Fulfillment(FulfillmentPayoutFailed)
		m.SnapshotFailed()
		m.PayoutLatency(time.Second)
		m.ObserveRound(models.NewRound("raffle", 1, time.Now()))
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.EntryAccepted()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "lottery_entries_total 1")
}
