package quartic

import (
	"github.com/hupe1980/quartic/blobstore"
	"github.com/hupe1980/quartic/codec"
)

type options struct {
	logger        *Logger
	workers       int
	filterBits    uint
	hashBits      uint // 0 means size from the key count
	haltOnFirst   bool
	snapshotStore blobstore.Store
	codec         codec.Codec
	onTask        TaskFunc
	onSolution    func(Solution)
}

// Option configures engine construction.
type Option func(*options)

// WithLogger sets the structured logger. Nil restores the default.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NewLogger(nil)
		}
		o.logger = l
	}
}

// WithWorkers fixes the scan fan-out. Zero or negative means one worker
// per logical CPU; the QUARTIC_WORKERS environment variable, when set,
// takes precedence over both.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithFilterBits sets the log2 size of each Bloom plane.
func WithFilterBits(b uint) Option {
	return func(o *options) {
		o.filterBits = b
	}
}

// WithHashBits pins the log2 slot count of the hash table. Without it the
// table is sized from the generated key count at load factor below 0.5.
func WithHashBits(b uint) Option {
	return func(o *options) {
		o.hashBits = b
	}
}

// WithExhaustiveScan keeps scanning after the first confirmed solution.
func WithExhaustiveScan() Option {
	return func(o *options) {
		o.haltOnFirst = false
	}
}

// WithSnapshotStore enables difference snapshots. A matching snapshot is
// loaded instead of regenerating; after a fresh generation one is written.
// Without a store the engine persists nothing.
func WithSnapshotStore(store blobstore.Store) Option {
	return func(o *options) {
		o.snapshotStore = store
	}
}

// WithCodec selects the snapshot compression codec.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithOnTask installs a callback invoked as each phase completes, with the
// stage name and the task and cumulative wall-clock durations.
func WithOnTask(fn TaskFunc) Option {
	return func(o *options) {
		o.onTask = fn
	}
}

// WithOnSolution installs a sink receiving each solution as the scan
// confirms it, ahead of the final Result.
func WithOnSolution(fn func(Solution)) Option {
	return func(o *options) {
		o.onSolution = fn
	}
}
