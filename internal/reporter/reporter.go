// Package reporter is the client-side half of progress tracking: it decides
// when a continuously advancing playback position is worth reporting, so the
// write volume stays bounded without losing resume fidelity.
package reporter

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/training-portal/internal/progress"
)

// EmitFunc delivers one report to the reconciler (directly or over HTTP).
type EmitFunc func(ctx context.Context, rep progress.Report) error

const (
	defaultIntervalSec = 5
	defaultSettle      = 500 * time.Millisecond
)

// Options configures a Reporter. Zero values fall back to defaults.
type Options struct {
	VideoID     string
	IntervalSec int           // minimum playback seconds between reports
	Settle      time.Duration // wall-clock debounce coalescing seek bursts
	Emit        EmitFunc
	Logger      *zap.Logger
	Now         func() time.Time // injectable clock for tests
}

// Reporter throttles periodic position reports for a single player instance.
// All state is owned by the instance; two players never share a gate.
type Reporter struct {
	videoID     string
	intervalSec int
	settle      time.Duration
	emit        EmitFunc
	log         *zap.Logger
	now         func() time.Time

	mu          sync.Mutex
	lastEmitPos int
	lastEmitAt  time.Time
	hasEmitted  bool
}

func New(opts Options) *Reporter {
	if opts.IntervalSec <= 0 {
		opts.IntervalSec = defaultIntervalSec
	}
	if opts.Settle <= 0 {
		opts.Settle = defaultSettle
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Reporter{
		videoID:     opts.VideoID,
		intervalSec: opts.IntervalSec,
		settle:      opts.Settle,
		emit:        opts.Emit,
		log:         opts.Logger,
		now:         opts.Now,
	}
}

// Tick feeds the current playback position. It emits a periodic report when
// the position moved at least the interval since the last successful emit
// and the settle delay has passed. Emit failures are swallowed: the position
// gate is left untouched, so the next tick naturally retries.
func (r *Reporter) Tick(ctx context.Context, position, duration int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hasEmitted {
		delta := position - r.lastEmitPos
		if delta < 0 {
			delta = -delta
		}
		if delta < r.intervalSec {
			return
		}
		if r.now().Sub(r.lastEmitAt) < r.settle {
			return
		}
	}

	rep := progress.Report{VideoID: r.videoID, Position: position, Duration: duration, Kind: progress.ReportPeriodic}
	if err := r.emit(ctx, rep); err != nil {
		r.log.Warn("progress report dropped", zap.String("video_id", r.videoID), zap.Error(err))
		return
	}
	r.lastEmitPos = position
	r.lastEmitAt = r.now()
	r.hasEmitted = true
}

// Ended emits the forced end-of-stream report, bypassing both gates.
// A failure here is still swallowed; playback has already finished.
func (r *Reporter) Ended(ctx context.Context, duration int) {
	rep := progress.Report{VideoID: r.videoID, Position: duration, Duration: duration, Kind: progress.ReportEndOfStream}
	if err := r.emit(ctx, rep); err != nil {
		r.log.Warn("final progress report dropped", zap.String("video_id", r.videoID), zap.Error(err))
		return
	}
	r.mu.Lock()
	r.lastEmitPos = duration
	r.lastEmitAt = r.now()
	r.hasEmitted = true
	r.mu.Unlock()
}
