package poller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/brickgame/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Flag is the single polling-enabled switch shared by both loops and the
// action dispatcher. Loops read it only at iteration boundaries.
type Flag struct {
	enabled atomic.Bool
}

func (f *Flag) Enable()       { f.enabled.Store(true) }
func (f *Flag) Disable()      { f.enabled.Store(false) }
func (f *Flag) Enabled() bool { return f.enabled.Load() }

// Source fetches snapshots from the game server
type Source interface {
	GetState(ctx context.Context) (*models.BoardSnapshot, error)
	GetStatus(ctx context.Context) (*models.StatusSnapshot, error)
}

// Sink receives every successfully fetched snapshot
type Sink interface {
	ApplyStatus(status models.StatusSnapshot)
	ApplyState(state models.BoardSnapshot)
}

type Config struct {
	FastInterval time.Duration `yaml:"fast_interval"`
	SlowInterval time.Duration `yaml:"slow_interval"`
}

func DefaultConfig() Config {
	return Config{
		FastInterval: 17 * time.Millisecond,
		SlowInterval: 10 * time.Second,
	}
}

// Stats counts what the loops have done since the poller was created
type Stats struct {
	Frames   uint64
	Statuses uint64
	Failures uint64
}

// Poller runs the fast (state+status) and slow (status only) loops. Each
// loop has at most one request outstanding.
type Poller struct {
	source Source
	sink   Sink
	flag   *Flag
	clock  clockwork.Clock
	config Config

	fastRunning atomic.Bool
	slowRunning atomic.Bool
	wg          sync.WaitGroup

	frames   atomic.Uint64
	statuses atomic.Uint64
	failures atomic.Uint64
}

func NewPoller(source Source, sink Sink, flag *Flag, clock clockwork.Clock, cfg Config) *Poller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Poller{
		source: source,
		sink:   sink,
		flag:   flag,
		clock:  clock,
		config: cfg,
	}
}

// StartFast starts the board loop unless it is already running
func (p *Poller) StartFast(ctx context.Context) bool {
	if !p.fastRunning.CompareAndSwap(false, true) {
		return false
	}
	p.wg.Add(1)
	go p.runFast(ctx)
	return true
}

// StartSlow starts the lobby heartbeat loop unless it is already running
func (p *Poller) StartSlow(ctx context.Context) bool {
	if !p.slowRunning.CompareAndSwap(false, true) {
		return false
	}
	p.wg.Add(1)
	go p.runSlow(ctx)
	return true
}

func (p *Poller) FastRunning() bool { return p.fastRunning.Load() }

// Wait blocks until both loops have returned
func (p *Poller) Wait() {
	p.wg.Wait()
}

func (p *Poller) Stats() Stats {
	return Stats{
		Frames:   p.frames.Load(),
		Statuses: p.statuses.Load(),
		Failures: p.failures.Load(),
	}
}

func (p *Poller) runFast(ctx context.Context) {
	defer p.wg.Done()

	for {
		err := p.fastLoop(ctx)
		p.fastRunning.Store(false)
		if err != nil {
			p.fail(ctx, "fast", err)
		}
		if !p.resume(ctx, &p.fastRunning) {
			return
		}
		log.Debug().Msg("polling re-enabled while fast poll loop was stopping, resuming")
	}
}

func (p *Poller) fastLoop(ctx context.Context) error {
	log.Debug().Dur("interval", p.config.FastInterval).Msg("fast poll loop started")

	for p.flag.Enabled() {
		if err := p.pollFrame(ctx); err != nil {
			return err
		}
		if !p.sleep(ctx, p.config.FastInterval) {
			return nil
		}
	}

	log.Debug().Msg("fast poll loop stopped")
	return nil
}

func (p *Poller) runSlow(ctx context.Context) {
	defer p.wg.Done()

	for {
		handedOff, err := p.slowLoop(ctx)
		p.slowRunning.Store(false)
		if err != nil {
			p.fail(ctx, "slow", err)
		}
		if handedOff || p.fastRunning.Load() || !p.resume(ctx, &p.slowRunning) {
			return
		}
		log.Debug().Msg("polling re-enabled while slow poll loop was stopping, resuming")
	}
}

// slowLoop reports whether it stopped because the fast loop took over
func (p *Poller) slowLoop(ctx context.Context) (bool, error) {
	log.Debug().Dur("interval", p.config.SlowInterval).Msg("slow poll loop started")

	for p.flag.Enabled() {
		if p.fastRunning.Load() {
			log.Debug().Msg("fast poll loop active, slow poll loop handing off")
			return true, nil
		}
		status, err := p.source.GetStatus(ctx)
		if err != nil {
			return false, err
		}
		// the fast loop may have started while this request was in flight;
		// its own status is newer
		if p.fastRunning.Load() {
			log.Debug().Msg("fast poll loop active, dropping heartbeat status")
			return true, nil
		}
		p.statuses.Add(1)
		p.sink.ApplyStatus(*status)

		if !p.sleep(ctx, p.config.SlowInterval) {
			return false, nil
		}
	}

	log.Debug().Msg("slow poll loop stopped")
	return false, nil
}

// resume reclaims a loop whose exit raced a start: polling was enabled again
// while the loop was still marked running, so the start could not launch it.
func (p *Poller) resume(ctx context.Context, running *atomic.Bool) bool {
	return ctx.Err() == nil && p.flag.Enabled() && running.CompareAndSwap(false, true)
}

// pollFrame fetches state then status and applies status first, so the
// overlay changes no later than the board freezes.
func (p *Poller) pollFrame(ctx context.Context) error {
	state, err := p.source.GetState(ctx)
	if err != nil {
		return fmt.Errorf("failed to poll state: %w", err)
	}
	status, err := p.source.GetStatus(ctx)
	if err != nil {
		return fmt.Errorf("failed to poll status: %w", err)
	}

	p.statuses.Add(1)
	p.sink.ApplyStatus(*status)
	p.frames.Add(1)
	p.sink.ApplyState(*state)
	return nil
}

func (p *Poller) fail(ctx context.Context, loop string, err error) {
	if ctx.Err() != nil {
		log.Debug().Str("loop", loop).Msg("poll loop cancelled")
		return
	}
	p.failures.Add(1)
	p.flag.Disable()
	log.Error().Err(err).Str("loop", loop).Msg("poll failed, polling disabled")
}

func (p *Poller) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-p.clock.After(d):
		return true
	}
}
