package system

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/l1jgo/gameserver/internal/core/event"
	"github.com/l1jgo/gameserver/internal/core/ioc"
	"go.uber.org/zap"
)

// ActivitySink stores activity records. Implementations must be safe to call
// from the journal's writer goroutine.
type ActivitySink interface {
	Record(ctx context.Context, a Activity) error
}

// NopSink discards every record.
type NopSink struct{}

func (NopSink) Record(context.Context, Activity) error { return nil }

const (
	defaultJournalQueue = 256
	journalWriteTimeout = 5 * time.Second
)

// Journal queues lifecycle activity from the bus and hands it to a sink on
// a background goroutine, so a slow store never blocks the core. When the
// queue is full new records are dropped and counted.
type Journal struct {
	events  *event.Bus
	sink    ActivitySink
	queue   chan Activity
	dropped atomic.Int64
	log     *zap.Logger
}

func NewJournal(sink ActivitySink, queueSize int, log *zap.Logger) *Journal {
	if sink == nil {
		sink = NopSink{}
	}
	if queueSize <= 0 {
		queueSize = defaultJournalQueue
	}
	return &Journal{
		sink:  sink,
		queue: make(chan Activity, queueSize),
		log:   log,
	}
}

func (s *Journal) Dependencies() []ioc.Dependency {
	return []ioc.Dependency{ioc.Require(&s.events)}
}

func (s *Journal) Initialize() error {
	SubscribeActivity(s.events, s.enqueue)
	return nil
}

func (s *Journal) enqueue(a Activity) {
	select {
	case s.queue <- a:
	default:
		n := s.dropped.Add(1)
		s.log.Warn("journal queue full, record dropped",
			zap.String("type", string(a.Kind)),
			zap.Int64("dropped", n),
		)
	}
}

// Dropped returns how many records were discarded because the queue was
// full.
func (s *Journal) Dropped() int64 { return s.dropped.Load() }

// Run writes queued records until ctx is done, then flushes what is left.
func (s *Journal) Run(ctx context.Context) error {
	for {
		select {
		case a := <-s.queue:
			s.write(ctx, a)
		case <-ctx.Done():
			s.flush()
			return nil
		}
	}
}

func (s *Journal) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
	defer cancel()
	for {
		select {
		case a := <-s.queue:
			s.write(ctx, a)
		default:
			return
		}
	}
}

func (s *Journal) write(ctx context.Context, a Activity) {
	ctx, cancel := context.WithTimeout(ctx, journalWriteTimeout)
	defer cancel()
	if err := s.sink.Record(ctx, a); err != nil {
		s.log.Warn("journal write failed",
			zap.String("type", string(a.Kind)),
			zap.String("game", a.Game),
			zap.Error(err),
		)
	}
}
