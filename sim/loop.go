package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/milk9111/platformer/logger"
)

const defaultMaxSteps = 8

// Loop turns elapsed wall time into whole fixed steps. Time that does not
// fill a step carries over to the next Advance.
type Loop struct {
	step time.Duration
	// MaxSteps bounds the steps one Advance may run; a larger backlog is
	// dropped.
	MaxSteps int

	tick    func(dt float64)
	acc     time.Duration
	ticks   uint64
	stopped bool
	log     *slog.Logger
}

func NewLoop(step time.Duration, tick func(dt float64)) *Loop {
	if step <= 0 {
		step = time.Second / 60
	}
	return &Loop{
		step:     step,
		MaxSteps: defaultMaxSteps,
		tick:     tick,
		log:      logger.L().With("component", "loop"),
	}
}

func (l *Loop) Step() time.Duration { return l.step }

func (l *Loop) Ticks() uint64 { return l.ticks }

// Stop ends the loop after the tick in progress: the rest of the current
// Advance is skipped and Run returns. It must be called from the goroutine
// driving the loop, usually from the tick func. A stopped loop stays stopped.
func (l *Loop) Stop() { l.stopped = true }

// Advance runs every whole step that fits in the accumulated time and
// returns how many ran.
func (l *Loop) Advance(elapsed time.Duration) int {
	if l.stopped {
		return 0
	}
	if elapsed > 0 {
		l.acc += elapsed
	}
	dt := l.step.Seconds()
	steps := 0
	for l.acc >= l.step {
		if l.MaxSteps > 0 && steps >= l.MaxSteps {
			dropped := l.acc / l.step
			l.log.Warn("simulation behind, dropping steps", "dropped", int64(dropped), "ticks", l.ticks)
			l.acc %= l.step
			break
		}
		if l.tick != nil {
			l.tick(dt)
		}
		l.acc -= l.step
		l.ticks++
		steps++
		if l.stopped {
			break
		}
	}
	return steps
}

// Run advances the loop in real time until ctx is done or the loop is
// stopped, in which case it returns nil.
func (l *Loop) Run(ctx context.Context) error {
	if l.stopped {
		return nil
	}
	ticker := time.NewTicker(l.step)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			l.Advance(now.Sub(last))
			last = now
			if l.stopped {
				return nil
			}
		}
	}
}
