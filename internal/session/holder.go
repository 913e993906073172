package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"perceptron/internal/configio"
	"perceptron/internal/perceptron"
)

// ErrNotLoaded reports that no configuration is currently available, either
// because none was loaded yet or because the last load failed.
var ErrNotLoaded = errors.New("perceptron configuration is not loaded")

// Snapshot is an immutable loaded configuration.
type Snapshot struct {
	Perceptron *perceptron.Perceptron
	Source     string
	LoadedAt   time.Time
}

type state struct {
	snapshot *Snapshot
	err      error
}

// Holder owns the reference to the current perceptron. Readers take the
// snapshot once per evaluation; reloads build a new perceptron and replace
// the reference in a single store, so a reader never sees a bias from one
// configuration with weights from another.
type Holder struct {
	reloadMu sync.Mutex
	state    atomic.Pointer[state]
	logger   logrus.FieldLogger
	now      func() time.Time
}

func NewHolder(logger logrus.FieldLogger) *Holder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	h := &Holder{logger: logger, now: time.Now}
	h.state.Store(&state{})
	return h
}

// Reload reads src and publishes a new snapshot. On failure the previous
// snapshot is dropped and prediction stays disabled until a later reload
// succeeds.
func (h *Holder) Reload(ctx context.Context, src configio.Source) (*Snapshot, error) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	log := h.logger.WithField("source", src.Name())
	bias, weights, err := configio.ReadConfiguration(ctx, src)
	if err != nil {
		h.state.Store(&state{err: err})
		log.WithError(err).Error("could not load configuration")
		return nil, err
	}

	snap := &Snapshot{
		Perceptron: perceptron.New(bias, weights, perceptron.WithLogger(log)),
		Source:     src.Name(),
		LoadedAt:   h.now().UTC(),
	}
	h.state.Store(&state{snapshot: snap})
	log.WithFields(logrus.Fields{
		"bias":            bias,
		"weights":         weights,
		"expected_inputs": snap.Perceptron.InputCount(),
	}).Info("configuration loaded")
	return snap, nil
}

// Publish installs an already constructed perceptron.
func (h *Holder) Publish(p *perceptron.Perceptron, source string) *Snapshot {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	snap := &Snapshot{Perceptron: p, Source: source, LoadedAt: h.now().UTC()}
	h.state.Store(&state{snapshot: snap})
	return snap
}

// Current returns the loaded snapshot or an error wrapping ErrNotLoaded and,
// when present, the cause of the last failed load.
func (h *Holder) Current() (*Snapshot, error) {
	st := h.state.Load()
	if st.snapshot != nil {
		return st.snapshot, nil
	}
	if st.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotLoaded, st.err)
	}
	return nil, ErrNotLoaded
}

// LastError returns the error of the most recent load, or nil after a
// successful one.
func (h *Holder) LastError() error {
	return h.state.Load().err
}
