package export

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
	"github.com/tamnguyenvan/timegroup/pkg/services/timeframe"
	"github.com/tamnguyenvan/timegroup/pkg/sink"
)

type fakePublisher struct {
	mu        sync.Mutex
	published []*sink.UploadBatch
	rollbacks int
	failWith  error
}

func (p *fakePublisher) Publish(_ context.Context, batch *sink.UploadBatch) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failWith != nil {
		return p.failWith
	}
	p.published = append(p.published, batch)
	return nil
}

func (p *fakePublisher) Rollback(_ context.Context, _ *sink.UploadBatch) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rollbacks++
	return nil
}

func newTestController(fetcher Fetcher, publisher sink.Publisher, shops ...domain.Shop) *Controller {
	return NewController(
		timeframe.NewResolver(),
		NewAggregator(fetcher, testReports()),
		publisher,
		shops,
	)
}

// drain consumes events until a terminal state or timeout, returning
// everything seen.
func drain(t *testing.T, c *Controller) []Event {
	t.Helper()
	var events []Event
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-c.Events():
			events = append(events, ev)
			if ev.State == StateDone || ev.State == StateFailed {
				return events
			}
		case <-deadline:
			t.Fatal("no terminal event received")
		}
	}
}

func TestController_SuccessfulRun(t *testing.T) {
	publisher := &fakePublisher{}
	c := newTestController(newFakeFetcher(), publisher,
		domain.Shop{Code: "shop1", ID: 1, Name: "Shop 1"})

	runID, err := c.ExportReport(context.Background(), Request{
		ReportType: domain.ReportTypeOrder,
		TimeFrame:  timeframe.TokenToday,
		Selected:   []string{SelectPosData},
	})
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	events := drain(t, c)
	last := events[len(events)-1]
	assert.Equal(t, StateDone, last.State)
	assert.Equal(t, "Hoàn thành!", last.Message)
	assert.Equal(t, runID, last.RunID)

	require.Len(t, publisher.published, 1)
	assert.Empty(t, c.Status().FailedShops)
}

func TestController_RejectsConcurrentRun(t *testing.T) {
	fetcher := newFakeFetcher()
	publisher := &fakePublisher{}

	// No shops: the run finishes almost immediately, so hold the
	// single-flight flag manually to make the overlap deterministic.
	c := newTestController(fetcher, publisher)
	c.mu.Lock()
	c.running = true
	c.mu.Unlock()

	_, err := c.ExportReport(context.Background(), Request{
		ReportType: domain.ReportTypeOrder,
		TimeFrame:  timeframe.TokenToday,
	})
	assert.ErrorIs(t, err, ErrExportInFlight)
}

func TestController_InvalidTimeFrameFailsBeforeFetch(t *testing.T) {
	fetcher := newFakeFetcher()
	c := newTestController(fetcher, &fakePublisher{},
		domain.Shop{Code: "shop1", ID: 1, Name: "Shop 1"})

	_, err := c.ExportReport(context.Background(), Request{
		ReportType: domain.ReportTypeOrder,
		TimeFrame:  "whenever",
		Selected:   []string{SelectPosData},
	})
	require.NoError(t, err)

	events := drain(t, c)
	assert.Equal(t, StateFailed, events[len(events)-1].State)
	assert.Empty(t, fetcher.orderCalls)
}

func TestController_PerShopIsolation(t *testing.T) {
	fetcher := newFakeFetcher()
	publisher := &fakePublisher{}

	// shop2 has no order spreadsheet configured, so its batch fails;
	// shop1 must still publish.
	c := newTestController(fetcher, publisher,
		domain.Shop{Code: "shop2", ID: 2, Name: "Shop 2"},
		domain.Shop{Code: "shop1", ID: 1, Name: "Shop 1"})

	_, err := c.ExportReport(context.Background(), Request{
		ReportType: domain.ReportTypeOrder,
		TimeFrame:  timeframe.TokenToday,
		Selected:   []string{SelectPosData},
	})
	require.NoError(t, err)

	events := drain(t, c)
	last := events[len(events)-1]
	assert.Equal(t, StateFailed, last.State)
	assert.Contains(t, last.Message, "shop2")

	require.Len(t, publisher.published, 1)
	assert.Equal(t, []string{"shop2"}, c.Status().FailedShops)
}

func TestController_UploadFailureTriggersRollback(t *testing.T) {
	publisher := &fakePublisher{failWith: errors.New("quota exceeded")}
	c := newTestController(newFakeFetcher(), publisher,
		domain.Shop{Code: "shop1", ID: 1, Name: "Shop 1"})

	_, err := c.ExportReport(context.Background(), Request{
		ReportType: domain.ReportTypeOrder,
		TimeFrame:  timeframe.TokenToday,
		Selected:   []string{SelectPosData},
	})
	require.NoError(t, err)

	events := drain(t, c)
	assert.Equal(t, StateFailed, events[len(events)-1].State)

	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	assert.Equal(t, 1, publisher.rollbacks)
}

func TestController_RunsAgainAfterCompletion(t *testing.T) {
	publisher := &fakePublisher{}
	c := newTestController(newFakeFetcher(), publisher,
		domain.Shop{Code: "shop1", ID: 1, Name: "Shop 1"})

	for i := 0; i < 2; i++ {
		_, err := c.ExportReport(context.Background(), Request{
			ReportType: domain.ReportTypeOrder,
			TimeFrame:  timeframe.TokenToday,
			Selected:   []string{SelectPosData},
		})
		require.NoError(t, err)
		drain(t, c)

		// The single-flight flag clears shortly after the terminal event.
		require.Eventually(t, func() bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			return !c.running
		}, time.Second, 5*time.Millisecond)
	}

	assert.Len(t, publisher.published, 2)
}
