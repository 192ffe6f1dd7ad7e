package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tamnguyenvan/timegroup/pkg/models/domain"
	"github.com/tamnguyenvan/timegroup/pkg/services/timeframe"
	"github.com/tamnguyenvan/timegroup/pkg/sink"
)

// ErrExportInFlight is returned while a run is active; requests are
// rejected, never queued.
var ErrExportInFlight = errors.New("an export is already in flight")

// State is the pipeline's position within a run.
type State string

const (
	StateIdle       State = "idle"
	StateResolving  State = "resolving"
	StateFetching   State = "fetching"
	StateParsing    State = "parsing"
	StatePublishing State = "publishing"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Event is one progress or completion notification pushed to the
// caller. The channel handoff makes it safe to receive from any
// goroutine.
type Event struct {
	RunID   string
	State   State
	Message string
}

// Request describes one export invocation.
type Request struct {
	ReportType domain.ReportType
	TimeFrame  string
	Selected   []string
}

// Status is a point-in-time snapshot for pollers.
type Status struct {
	RunID       string
	State       State
	Messages    []string
	FailedShops []string
}

// Controller drives a full export: resolve dates, then per shop fetch,
// parse and publish. One run at a time; shops are processed
// sequentially and a failing shop does not abort the rest of the batch.
type Controller struct {
	resolver   *timeframe.Resolver
	aggregator *Aggregator
	publisher  sink.Publisher
	shops      []domain.Shop

	events chan Event

	mu          sync.Mutex
	running     bool
	runID       string
	state       State
	messages    []string
	failedShops []string
}

const maxStatusMessages = 100

func NewController(
	resolver *timeframe.Resolver,
	aggregator *Aggregator,
	publisher sink.Publisher,
	shops []domain.Shop,
) *Controller {
	return &Controller{
		resolver:   resolver,
		aggregator: aggregator,
		publisher:  publisher,
		shops:      shops,
		events:     make(chan Event, 128),
		state:      StateIdle,
	}
}

// Events exposes the progress stream. The controller never blocks on a
// slow consumer; events beyond the buffer are dropped (the status
// snapshot still records them).
func (c *Controller) Events() <-chan Event {
	return c.events
}

// Status returns the current run snapshot.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		RunID:       c.runID,
		State:       c.state,
		Messages:    append([]string(nil), c.messages...),
		FailedShops: append([]string(nil), c.failedShops...),
	}
}

// ExportReport starts a run in the background and returns its id, or
// ErrExportInFlight while another run is active. The run outlives the
// caller's context; there is no mid-flight cancellation.
func (c *Controller) ExportReport(ctx context.Context, req Request) (string, error) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return "", ErrExportInFlight
	}
	runID := uuid.NewString()
	c.running = true
	c.runID = runID
	c.state = StateResolving
	c.messages = nil
	c.failedShops = nil
	c.mu.Unlock()

	go c.run(context.WithoutCancel(ctx), runID, req)
	return runID, nil
}

func (c *Controller) run(ctx context.Context, runID string, req Request) {
	logger := zerolog.Ctx(ctx).With().
		Str("run_id", runID).
		Str("report_type", string(req.ReportType)).
		Logger()
	ctx = logger.WithContext(ctx)

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	c.emit(runID, StateResolving, "Bắt đầu xuất báo cáo...")

	rng, err := c.resolver.Resolve(req.TimeFrame)
	if err != nil {
		logger.Error().Err(err).Str("time_frame", req.TimeFrame).Msg("time frame rejected")
		c.emit(runID, StateFailed, fmt.Sprintf("Khung thời gian không hợp lệ: %s", req.TimeFrame))
		return
	}

	selected := make(map[string]bool, len(req.Selected))
	for _, token := range req.Selected {
		selected[token] = true
	}

	for _, shop := range c.shops {
		c.emit(runID, StateFetching, fmt.Sprintf("Đang xử lý %s...", shop.Name))

		batch, err := c.aggregator.BuildBatch(ctx, shop, req.ReportType, rng, selected,
			func(state State, message string) {
				c.emit(runID, state, message)
			})
		if err != nil {
			logger.Error().Err(err).Str("shop", shop.Code).Msg("shop export failed")
			c.recordFailedShop(shop.Code)
			continue
		}

		c.emit(runID, StatePublishing, "Đang cập nhật dữ liệu vào spreadsheet...")
		if err := c.publisher.Publish(ctx, batch); err != nil {
			logger.Error().Err(err).Str("shop", shop.Code).Msg("upload failed")
			c.emit(runID, StatePublishing, fmt.Sprintf("Failed to upload data: %v", err))
			if rbErr := c.publisher.Rollback(ctx, batch); rbErr != nil {
				logger.Error().Err(rbErr).Str("shop", shop.Code).Msg("rollback failed")
			}
			c.recordFailedShop(shop.Code)
			continue
		}
	}

	c.mu.Lock()
	failed := append([]string(nil), c.failedShops...)
	c.mu.Unlock()

	if len(failed) > 0 {
		c.emit(runID, StateFailed,
			fmt.Sprintf("Hoàn thành với lỗi. Shop bị lỗi: %s", strings.Join(failed, ", ")))
		return
	}
	c.emit(runID, StateDone, "Hoàn thành!")
}

func (c *Controller) recordFailedShop(code string) {
	c.mu.Lock()
	c.failedShops = append(c.failedShops, code)
	c.mu.Unlock()
}

func (c *Controller) emit(runID string, state State, message string) {
	c.mu.Lock()
	c.state = state
	c.messages = append(c.messages, message)
	if len(c.messages) > maxStatusMessages {
		c.messages = c.messages[len(c.messages)-maxStatusMessages:]
	}
	c.mu.Unlock()

	select {
	case c.events <- Event{RunID: runID, State: state, Message: message}:
	default:
	}
}
