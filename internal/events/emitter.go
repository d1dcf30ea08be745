package events

import (
	"context"
	"sync"
	"time"

	"commitbot/internal/models"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

type Config struct {
	Buffer     int
	BatchSize  int
	FlushEvery time.Duration
}

var (
	defaultConfig = Config{
		Buffer:     1000,
		BatchSize:  50,
		FlushEvery: 2 * time.Second,
	}
	fastConfig = Config{
		Buffer:     1000,
		BatchSize:  50,
		FlushEvery: 50 * time.Millisecond,
	}
)

// Sink persists audit events.
type Sink interface {
	InsertOne(ctx context.Context, evt models.Event) error
	InsertMany(ctx context.Context, evts []models.Event) error
}

// MongoSink writes events into a MongoDB collection.
type MongoSink struct {
	coll *mongo.Collection
}

func NewMongoSink(coll *mongo.Collection) *MongoSink {
	return &MongoSink{coll: coll}
}

func (s *MongoSink) InsertOne(ctx context.Context, evt models.Event) error {
	_, err := s.coll.InsertOne(ctx, evt)
	return err
}

func (s *MongoSink) InsertMany(ctx context.Context, evts []models.Event) error {
	docs := make([]interface{}, len(evts))
	for i, evt := range evts {
		docs[i] = evt
	}

	_, err := s.coll.InsertMany(ctx, docs)
	return err
}

// Emitter buffers events and writes them to its sink in batches from a
// single worker goroutine. A nil *Emitter drops everything.
type Emitter struct {
	sink       Sink
	buf        chan models.Event
	cfg        Config
	deployment string
	log        zerolog.Logger

	wg        sync.WaitGroup
	onceClose sync.Once
	closed    chan struct{}
	mu        sync.RWMutex
}

func NewEmitter(sink Sink, deployment string, log zerolog.Logger) *Emitter {
	return NewEmitterWithConfig(sink, deployment, selectConfig(deployment), log)
}

func NewEmitterWithConfig(sink Sink, deployment string, cfg Config, log zerolog.Logger) *Emitter {
	e := &Emitter{
		sink:       sink,
		buf:        make(chan models.Event, cfg.Buffer),
		cfg:        cfg,
		deployment: deployment,
		log:        log.With().Str("component", "events").Logger(),
		closed:     make(chan struct{}),
	}

	e.wg.Add(1)
	go e.worker()

	return e
}

func selectConfig(deployment string) Config {
	switch deployment {
	case "test":
		return fastConfig
	default:
		return defaultConfig
	}
}

// Close stops accepting events and flushes what is buffered.
func (e *Emitter) Close() {
	if e == nil {
		return
	}

	e.onceClose.Do(func() {
		e.mu.Lock()
		close(e.closed)
		close(e.buf)
		e.mu.Unlock()

		e.wg.Wait()
	})
}

func (e *Emitter) worker() {
	defer e.wg.Done()

	batch := make([]models.Event, 0, e.cfg.BatchSize)
	timer := time.NewTimer(e.cfg.FlushEvery)

	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			timer.Reset(e.cfg.FlushEvery)
			return
		}

		ctx, cancel := context.WithTimeout(
			context.Background(),
			2*time.Second,
		)

		if err := e.sink.InsertMany(ctx, batch); err != nil {
			e.log.Warn().Err(err).Int("events", len(batch)).Msg("failed to flush events")
		}

		cancel()

		batch = batch[:0]
		timer.Reset(e.cfg.FlushEvery)
	}

	for {
		select {
		case evt, ok := <-e.buf:
			if !ok {
				flush()
				return
			}

			batch = append(batch, evt)

			if len(batch) >= e.cfg.BatchSize {
				flush()
			}
		case <-timer.C:
			flush()
		}
	}
}
