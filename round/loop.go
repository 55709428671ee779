package round

import (
	"context"
	"time"
)

// Loop drives r from two independent tickers, one per frame and one per
// second, until the round ends or ctx is cancelled. onFrame, if not nil, is
// called after every frame tick and once more after the round ends, with
// the latest snapshot. Loop starts the round if it has not been started and
// returns ctx.Err() on cancellation, nil when the round ended.
func Loop(ctx context.Context, r *Round, frameInterval time.Duration, onFrame func(Snapshot)) error {
	frames := time.NewTicker(frameInterval)
	defer frames.Stop()
	seconds := time.NewTicker(time.Second)
	defer seconds.Stop()

	r.Start()
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.Done():
			if onFrame != nil {
				onFrame(r.Snapshot())
			}
			return nil
		case <-frames.C:
			r.Tick(time.Since(start))
			if onFrame != nil {
				onFrame(r.Snapshot())
			}
		case <-seconds.C:
			r.SecondTick()
		}
	}
}

// Pacer turns a monotonically growing elapsed time into whole periods, for
// hosts that only get a per-frame callback.
type Pacer struct {
	period time.Duration
	fired  int64
}

// NewPacer returns a pacer that fires once per period.
func NewPacer(period time.Duration) *Pacer {
	return &Pacer{period: period}
}

// Due returns how many periods completed since the previous call.
func (p *Pacer) Due(elapsed time.Duration) int {
	total := int64(elapsed / p.period)
	if total <= p.fired {
		return 0
	}
	n := total - p.fired
	p.fired = total
	return int(n)
}
