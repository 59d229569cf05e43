package logging

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap/zapcore"
)

var (
	droppedEntries     *prometheus.CounterVec
	droppedEntriesOnce sync.Once
)

// droppedCounter returns personad_log_entries_dropped_total{level}, the
// entries discarded by sampling. A burst of generator fallbacks shows up
// here rather than in the log.
func droppedCounter() *prometheus.CounterVec {
	droppedEntriesOnce.Do(func() {
		droppedEntries = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "personad",
			Name:      "log_entries_dropped_total",
			Help:      "Log entries dropped by sampling, by level.",
		}, []string{"level"})
	})
	return droppedEntries
}

// newSampledCore samples entries below error. Errors bypass the sampler
// so a failing generator is always visible.
func newSampledCore(core zapcore.Core, cfg SamplingConfig) zapcore.Core {
	if !cfg.Enabled {
		return core
	}

	errCore, err := zapcore.NewIncreaseLevelCore(core, zapcore.ErrorLevel)
	if err != nil {
		return core
	}

	dropped := droppedCounter()
	sampled := zapcore.NewSamplerWithOptions(
		belowErrorCore{core},
		cfg.Tick.Duration(),
		cfg.Initial,
		cfg.Thereafter,
		zapcore.SamplerHook(func(e zapcore.Entry, dec zapcore.SamplingDecision) {
			if dec&zapcore.LogDropped != 0 {
				dropped.WithLabelValues(levelName(e.Level)).Inc()
			}
		}),
	)

	return zapcore.NewTee(errCore, sampled)
}

// belowErrorCore passes only entries under ErrorLevel.
type belowErrorCore struct {
	zapcore.Core
}

func (c belowErrorCore) Enabled(lvl zapcore.Level) bool {
	return lvl < zapcore.ErrorLevel && c.Core.Enabled(lvl)
}

func (c belowErrorCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}

func (c belowErrorCore) With(fields []zapcore.Field) zapcore.Core {
	return belowErrorCore{c.Core.With(fields)}
}
