package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/ncasas/billetera-backend/internal/domain"
	"github.com/ncasas/billetera-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturingPublisher records published events for assertions
type capturingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (p *capturingPublisher) Publish(walletID uuid.UUID, event websocket.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *capturingPublisher) Events() []websocket.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]websocket.Event, len(p.events))
	copy(out, p.events)
	return out
}

func publishedLabels(t *testing.T, events []websocket.Event) []string {
	t.Helper()
	labels := make([]string, len(events))
	for i, e := range events {
		report, ok := e.Payload.(*domain.AnalyticsReport)
		require.True(t, ok, "event %d payload is not a report", i)
		labels[i] = report.Label
	}
	return labels
}

type computeCall struct {
	release chan struct{}
	report  *domain.AnalyticsReport
	err     error
}

// blockingComputer blocks each Compute call until its release channel fires.
// Calls are keyed by the request so the outcome of each Invalidate is fixed
// up front, regardless of which goroutine reaches Compute first.
type blockingComputer struct {
	mu    sync.Mutex
	calls int
	byReq map[domain.AnalyticsRequest]*computeCall
}

func newBlockingComputer() *blockingComputer {
	return &blockingComputer{byReq: make(map[domain.AnalyticsRequest]*computeCall)}
}

func (c *blockingComputer) expect(req domain.AnalyticsRequest, report *domain.AnalyticsReport, err error) chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	call := &computeCall{release: make(chan struct{}), report: report, err: err}
	c.byReq[req] = call
	return call.release
}

func (c *blockingComputer) Compute(profileID uuid.UUID, req domain.AnalyticsRequest) (*domain.AnalyticsReport, error) {
	c.mu.Lock()
	c.calls++
	call, ok := c.byReq[req]
	c.mu.Unlock()
	if !ok {
		return nil, errors.New("unexpected compute request")
	}

	<-call.release
	return call.report, call.err
}

func (c *blockingComputer) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func monthRequest(walletID uuid.UUID, month int) domain.AnalyticsRequest {
	return domain.AnalyticsRequest{
		WalletID: walletID,
		Period:   domain.Period{Kind: domain.PeriodKindMonth, Year: 2025, Month: month},
	}
}

// A slow first fetch must never overwrite the result of a newer one: only
// the latest generation's report is published.
func TestAnalyticsNotifier_StaleResultDiscarded(t *testing.T) {
	walletID := uuid.New()
	profileID := uuid.New()
	oldReq := monthRequest(walletID, 3)
	newReq := monthRequest(walletID, 4)

	computer := newBlockingComputer()
	firstRelease := computer.expect(oldReq, &domain.AnalyticsReport{Label: "old"}, nil)
	secondRelease := computer.expect(newReq, &domain.AnalyticsReport{Label: "new"}, nil)

	publisher := &capturingPublisher{}
	notifier := NewAnalyticsNotifier(computer, publisher)

	notifier.Invalidate(profileID, oldReq)
	notifier.Invalidate(profileID, newReq)

	// The newer fetch resolves first; the older one limps in afterwards
	close(secondRelease)
	close(firstRelease)
	notifier.Wait()

	events := publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "analytics.updated", events[0].Type)
	assert.Equal(t, []string{"new"}, publishedLabels(t, events))
}

// gatedPublisher blocks the publish of one chosen report until the test
// opens the gate, pinning that publish in flight.
type gatedPublisher struct {
	capturingPublisher
	gatedLabel string
	entered    chan struct{}
	gate       chan struct{}
}

func newGatedPublisher(label string) *gatedPublisher {
	return &gatedPublisher{
		gatedLabel: label,
		entered:    make(chan struct{}),
		gate:       make(chan struct{}),
	}
}

func (p *gatedPublisher) Publish(walletID uuid.UUID, event websocket.Event) {
	if report, ok := event.Payload.(*domain.AnalyticsReport); ok && report.Label == p.gatedLabel {
		close(p.entered)
		<-p.gate
	}
	p.capturingPublisher.Publish(walletID, event)
}

// A result that passed the staleness check while newest must finish
// publishing before a later generation's result goes out: the report a
// client receives last is always the freshest one.
func TestAnalyticsNotifier_InFlightPublishNotOvertaken(t *testing.T) {
	walletID := uuid.New()
	profileID := uuid.New()
	oldReq := monthRequest(walletID, 3)
	newReq := monthRequest(walletID, 4)

	computer := newBlockingComputer()
	firstRelease := computer.expect(oldReq, &domain.AnalyticsReport{Label: "old"}, nil)
	secondRelease := computer.expect(newReq, &domain.AnalyticsReport{Label: "new"}, nil)

	publisher := newGatedPublisher("old")
	notifier := NewAnalyticsNotifier(computer, publisher)

	// Generation 1 computes and gets pinned inside its publish
	notifier.Invalidate(profileID, oldReq)
	close(firstRelease)
	<-publisher.entered

	// Generation 2 arrives while the first publish is still in flight
	invalidated := make(chan struct{})
	go func() {
		notifier.Invalidate(profileID, newReq)
		close(secondRelease)
		close(invalidated)
	}()

	close(publisher.gate)
	<-invalidated
	notifier.Wait()

	events := publisher.Events()
	require.Len(t, events, 2)
	assert.Equal(t, []string{"old", "new"}, publishedLabels(t, events))
}

// Generations are tracked per wallet: invalidating one wallet never
// suppresses another's in-flight result.
func TestAnalyticsNotifier_PerWalletGenerations(t *testing.T) {
	profileID := uuid.New()
	reqA := monthRequest(uuid.New(), 3)
	reqB := monthRequest(uuid.New(), 3)

	computer := newBlockingComputer()
	releaseA := computer.expect(reqA, &domain.AnalyticsReport{Label: "a"}, nil)
	releaseB := computer.expect(reqB, &domain.AnalyticsReport{Label: "b"}, nil)

	publisher := &capturingPublisher{}
	notifier := NewAnalyticsNotifier(computer, publisher)

	notifier.Invalidate(profileID, reqA)
	notifier.Invalidate(profileID, reqB)

	close(releaseB)
	close(releaseA)
	notifier.Wait()

	assert.Len(t, publisher.Events(), 2)
}

// Fetch failures are logged and dropped, never retried or published.
func TestAnalyticsNotifier_FetchFailureNotPublished(t *testing.T) {
	profileID := uuid.New()
	req := monthRequest(uuid.New(), 3)

	computer := newBlockingComputer()
	release := computer.expect(req, nil, errors.New("connection reset"))

	publisher := &capturingPublisher{}
	notifier := NewAnalyticsNotifier(computer, publisher)

	notifier.Invalidate(profileID, req)
	close(release)
	notifier.Wait()

	assert.Empty(t, publisher.Events())
	assert.Equal(t, 1, computer.callCount())
}
