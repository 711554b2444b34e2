package poller

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/brickgame/go/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type fakeSource struct {
	mu    sync.Mutex
	calls []string

	stateErr  error
	statusErr error
	status    models.Status
	stateGate chan struct{}

	stateCalls atomic.Int32
}

func (s *fakeSource) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *fakeSource) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *fakeSource) GetState(ctx context.Context) (*models.BoardSnapshot, error) {
	s.record("state")
	s.stateCalls.Add(1)
	if s.stateGate != nil {
		<-s.stateGate
	}
	if s.stateErr != nil {
		return nil, s.stateErr
	}
	return &models.BoardSnapshot{Score: int(s.stateCalls.Load())}, nil
}

func (s *fakeSource) GetStatus(ctx context.Context) (*models.StatusSnapshot, error) {
	s.record("status")
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	status := s.status
	if status == "" {
		status = models.StatusRunning
	}
	return &models.StatusSnapshot{Status: status}, nil
}

type fakeSink struct {
	mu      sync.Mutex
	applied []string

	statusCh chan models.StatusSnapshot
	stateCh  chan models.BoardSnapshot
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		statusCh: make(chan models.StatusSnapshot, 100),
		stateCh:  make(chan models.BoardSnapshot, 100),
	}
}

func (s *fakeSink) ApplyStatus(status models.StatusSnapshot) {
	s.mu.Lock()
	s.applied = append(s.applied, "status")
	s.mu.Unlock()
	select {
	case s.statusCh <- status:
	default:
	}
}

func (s *fakeSink) ApplyState(state models.BoardSnapshot) {
	s.mu.Lock()
	s.applied = append(s.applied, "state")
	s.mu.Unlock()
	select {
	case s.stateCh <- state:
	default:
	}
}

func (s *fakeSink) Applied() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.applied...)
}

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for value")
	}
	var zero T
	return zero
}

func blockUntil(t *testing.T, clock *clockwork.FakeClock, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := clock.BlockUntilContext(ctx, n); err != nil {
		t.Fatalf("timed out waiting for %d sleepers: %v", n, err)
	}
}

func waitDone(t *testing.T, p *Poller) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		p.Wait()
		close(done)
	}()
	waitFor(t, done)
}

func TestFastLoopAppliesStatusBeforeState(t *testing.T) {
	source := &fakeSource{}
	sink := newFakeSink()
	flag := &Flag{}
	clock := clockwork.NewFakeClock()
	p := NewPoller(source, sink, flag, clock, DefaultConfig())

	flag.Enable()
	if !p.StartFast(context.Background()) {
		t.Fatalf("expected fast loop to start")
	}
	waitFor(t, sink.stateCh)
	blockUntil(t, clock, 1)

	flag.Disable()
	clock.Advance(DefaultConfig().FastInterval)
	waitDone(t, p)

	if got, want := source.Calls(), []string{"state", "status"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected fetch order %v, got %v", want, got)
	}
	if got, want := sink.Applied(), []string{"status", "state"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected apply order %v, got %v", want, got)
	}
	if p.FastRunning() {
		t.Fatalf("expected fast loop to be stopped")
	}
}

func TestFastLoopKeepsPollingWhileEnabled(t *testing.T) {
	source := &fakeSource{}
	sink := newFakeSink()
	flag := &Flag{}
	clock := clockwork.NewFakeClock()
	p := NewPoller(source, sink, flag, clock, DefaultConfig())

	flag.Enable()
	p.StartFast(context.Background())
	for i := 0; i < 3; i++ {
		waitFor(t, sink.stateCh)
		blockUntil(t, clock, 1)
		if i < 2 {
			clock.Advance(DefaultConfig().FastInterval)
		}
	}

	flag.Disable()
	clock.Advance(DefaultConfig().FastInterval)
	waitDone(t, p)

	if got := p.Stats().Frames; got != 3 {
		t.Fatalf("expected 3 frames, got %d", got)
	}
}

func TestFastLoopFailureDisablesPolling(t *testing.T) {
	source := &fakeSource{statusErr: errors.New("connection refused")}
	sink := newFakeSink()
	flag := &Flag{}
	p := NewPoller(source, sink, flag, clockwork.NewFakeClock(), DefaultConfig())

	flag.Enable()
	p.StartFast(context.Background())
	waitDone(t, p)

	if flag.Enabled() {
		t.Fatalf("expected failure to disable polling")
	}
	if len(sink.Applied()) != 0 {
		t.Fatalf("expected nothing applied on failure, got %v", sink.Applied())
	}
	if got := p.Stats().Failures; got != 1 {
		t.Fatalf("expected 1 failure, got %d", got)
	}
}

func TestStartFastIsSingleInstance(t *testing.T) {
	source := &fakeSource{}
	sink := newFakeSink()
	flag := &Flag{}
	clock := clockwork.NewFakeClock()
	p := NewPoller(source, sink, flag, clock, DefaultConfig())

	flag.Enable()
	if !p.StartFast(context.Background()) {
		t.Fatalf("expected first start to succeed")
	}
	if p.StartFast(context.Background()) {
		t.Fatalf("expected second start to be a no-op")
	}
	waitFor(t, sink.stateCh)
	blockUntil(t, clock, 1)

	flag.Disable()
	clock.Advance(DefaultConfig().FastInterval)
	waitDone(t, p)
}

func TestStopAllowsOneInFlightResult(t *testing.T) {
	source := &fakeSource{stateGate: make(chan struct{})}
	sink := newFakeSink()
	flag := &Flag{}
	clock := clockwork.NewFakeClock()
	p := NewPoller(source, sink, flag, clock, DefaultConfig())

	flag.Enable()
	p.StartFast(context.Background())
	for source.stateCalls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}

	// stop while the state request is in flight
	flag.Disable()
	close(source.stateGate)

	waitFor(t, sink.stateCh)
	blockUntil(t, clock, 1)
	clock.Advance(DefaultConfig().FastInterval)
	waitDone(t, p)

	if got := source.stateCalls.Load(); got != 1 {
		t.Fatalf("expected no new iteration after stop, got %d state fetches", got)
	}
	if got := p.Stats().Frames; got != 1 {
		t.Fatalf("expected the in-flight frame to be applied once, got %d", got)
	}
}

func TestSlowLoopHandsOffToFastLoop(t *testing.T) {
	source := &fakeSource{status: models.StatusStart}
	sink := newFakeSink()
	flag := &Flag{}
	clock := clockwork.NewFakeClock()
	cfg := DefaultConfig()
	p := NewPoller(source, sink, flag, clock, cfg)
	ctx := context.Background()

	flag.Enable()
	p.StartSlow(ctx)
	waitFor(t, sink.statusCh)
	blockUntil(t, clock, 1)

	p.StartFast(ctx)
	waitFor(t, sink.stateCh)
	blockUntil(t, clock, 2)

	clock.Advance(cfg.SlowInterval)
	deadline := time.Now().Add(2 * time.Second)
	for p.slowRunning.Load() {
		if time.Now().After(deadline) {
			t.Fatalf("expected slow loop to stop once fast loop runs")
		}
		time.Sleep(time.Millisecond)
	}

	blockUntil(t, clock, 1)
	flag.Disable()
	clock.Advance(cfg.FastInterval)
	waitDone(t, p)
}

func TestSlowLoopFailureDisablesPolling(t *testing.T) {
	source := &fakeSource{statusErr: errors.New("eof")}
	flag := &Flag{}
	p := NewPoller(source, newFakeSink(), flag, clockwork.NewFakeClock(), DefaultConfig())

	flag.Enable()
	p.StartSlow(context.Background())
	waitDone(t, p)

	if flag.Enabled() {
		t.Fatalf("expected slow loop failure to disable polling")
	}
}

func TestLoopsDoNotStartWhenIdle(t *testing.T) {
	source := &fakeSource{}
	flag := &Flag{}
	p := NewPoller(source, newFakeSink(), flag, clockwork.NewFakeClock(), DefaultConfig())

	p.StartFast(context.Background())
	p.StartSlow(context.Background())
	waitDone(t, p)

	if len(source.Calls()) != 0 {
		t.Fatalf("expected no requests while idle, got %v", source.Calls())
	}
}

func TestContextCancelEndsLoopQuietly(t *testing.T) {
	source := &fakeSource{}
	sink := newFakeSink()
	flag := &Flag{}
	clock := clockwork.NewFakeClock()
	p := NewPoller(source, sink, flag, clock, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())

	flag.Enable()
	p.StartFast(ctx)
	waitFor(t, sink.stateCh)
	blockUntil(t, clock, 1)

	cancel()
	waitDone(t, p)

	if p.Stats().Failures != 0 {
		t.Fatalf("cancellation must not count as a failure")
	}
}

// parkOnPollFailure blocks the failing loop inside its error log until the
// returned release func is called.
func parkOnPollFailure(t *testing.T) (<-chan struct{}, func()) {
	t.Helper()
	parked := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	prev := log.Logger
	log.Logger = log.Logger.Hook(zerolog.HookFunc(func(e *zerolog.Event, level zerolog.Level, msg string) {
		if level == zerolog.ErrorLevel {
			once.Do(func() {
				close(parked)
				<-release
			})
		}
	}))
	t.Cleanup(func() { log.Logger = prev })

	var releaseOnce sync.Once
	return parked, func() { releaseOnce.Do(func() { close(release) }) }
}

func TestStartWhileFailedLoopUnwinds(t *testing.T) {
	tests := []struct {
		name  string
		start func(p *Poller, ctx context.Context) bool
	}{
		{"fast", (*Poller).StartFast},
		{"slow", (*Poller).StartSlow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parked, release := parkOnPollFailure(t)
			defer release()

			source := &fakeSource{statusErr: errors.New("connection refused")}
			sink := newFakeSink()
			flag := &Flag{}
			clock := clockwork.NewFakeClock()
			p := NewPoller(source, sink, flag, clock, DefaultConfig())
			ctx := context.Background()

			flag.Enable()
			tt.start(p, ctx)
			waitFor(t, parked)

			if flag.Enabled() {
				t.Fatalf("expected failure to disable polling")
			}

			// the player presses start again before the failed loop has returned
			source.statusErr = nil
			flag.Enable()
			if !tt.start(p, ctx) {
				t.Fatalf("expected start to launch a loop while the failed one unwinds")
			}
			release()

			waitFor(t, sink.statusCh)
			blockUntil(t, clock, 1)
			if !flag.Enabled() {
				t.Fatalf("expected polling to stay enabled after restart")
			}

			flag.Disable()
			clock.Advance(DefaultConfig().SlowInterval)
			waitDone(t, p)
		})
	}
}

type heldStatusSource struct {
	*fakeSource
	once    sync.Once
	held    chan struct{}
	release chan struct{}
}

// GetStatus holds the first request in flight and answers it with Start
func (s *heldStatusSource) GetStatus(ctx context.Context) (*models.StatusSnapshot, error) {
	first := false
	s.once.Do(func() { first = true })
	if !first {
		return s.fakeSource.GetStatus(ctx)
	}
	close(s.held)
	<-s.release
	return &models.StatusSnapshot{Status: models.StatusStart}, nil
}

func TestSlowLoopDropsStatusOnceFastLoopRuns(t *testing.T) {
	source := &heldStatusSource{
		fakeSource: &fakeSource{status: models.StatusRunning},
		held:       make(chan struct{}),
		release:    make(chan struct{}),
	}
	sink := newFakeSink()
	flag := &Flag{}
	clock := clockwork.NewFakeClock()
	p := NewPoller(source, sink, flag, clock, DefaultConfig())
	ctx := context.Background()

	flag.Enable()
	p.StartSlow(ctx)
	waitFor(t, source.held)

	p.StartFast(ctx)
	waitFor(t, sink.stateCh)
	close(source.release)

	deadline := time.Now().Add(2 * time.Second)
	for p.slowRunning.Load() {
		if time.Now().After(deadline) {
			t.Fatalf("expected slow loop to hand off")
		}
		time.Sleep(time.Millisecond)
	}

	blockUntil(t, clock, 1)
	flag.Disable()
	clock.Advance(DefaultConfig().FastInterval)
	waitDone(t, p)

	close(sink.statusCh)
	for status := range sink.statusCh {
		if status.Status != models.StatusRunning {
			t.Fatalf("expected only fast loop statuses, got %s", status.Status)
		}
	}
}
