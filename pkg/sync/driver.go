package sync

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// PassRunner runs a single synchronization pass.
type PassRunner interface {
	Reconcile(source, replica string) (Stats, error)
}

// DriverConfig contains everything a Driver needs. Clock and Log default to
// the real clock and the standard logger.
type DriverConfig struct {
	Source   string
	Replica  string
	Interval time.Duration

	Reconciler PassRunner
	Clock      clockwork.Clock
	Log        logrus.FieldLogger
}

// Driver repeatedly reconciles the source and replica at a fixed interval.
type Driver struct {
	source   string
	replica  string
	interval time.Duration

	reconciler PassRunner
	clock      clockwork.Clock
	log        logrus.FieldLogger
}

// NewDriver creates a new Driver.
func NewDriver(cfg DriverConfig) *Driver {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Driver{
		source:     cfg.Source,
		replica:    cfg.Replica,
		interval:   cfg.Interval,
		reconciler: cfg.Reconciler,
		clock:      clock,
		log:        log,
	}
}

// Run syncs once per interval until `ctx` is cancelled. A failed pass is
// logged, and the next pass is attempted after the usual interval.
// Cancelling `ctx` never interrupts a pass that's in progress.
func (d *Driver) Run(ctx context.Context) {
	for {
		d.RunOnce()

		select {
		case <-ctx.Done():
			return
		case <-d.clock.After(d.interval):
		}
	}
}

// RunOnce runs a single pass and logs its outcome.
func (d *Driver) RunOnce() (Stats, error) {
	stats, err := d.reconciler.Reconcile(d.source, d.replica)
	if err != nil {
		d.log.Errorf("Error during synchronization: %s", err)
		return stats, err
	}

	if stats.Changed() {
		d.log.WithFields(logrus.Fields{
			"createdDirs":  stats.CreatedDirs,
			"copiedFiles":  stats.CopiedFiles,
			"copiedBytes":  humanize.Bytes(uint64(stats.CopiedBytes)),
			"deletedFiles": stats.DeletedFiles,
			"deletedDirs":  stats.DeletedDirs,
		}).Debug("Pass finished")
	} else {
		d.log.Debug("Pass finished. Replica already up to date.")
	}
	return stats, nil
}
