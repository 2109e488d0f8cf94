package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mloptapang/primero/internal/model"
	"github.com/mloptapang/primero/internal/repository"
)

// BatchRecordWorker buffers records and writes them to the index in batches.
type BatchRecordWorker interface {
	Enqueue(record model.Record)
	Shutdown()
}

type batchRecordWorker struct {
	repo          repository.RecordRepository
	logger        zerolog.Logger
	recordQueue   chan model.Record
	batchSize     int
	flushInterval time.Duration
	wg            sync.WaitGroup
}

// NewBatchRecordWorker starts the flush loop. Batches are written when they
// reach batchSize, on every interval tick, and on Shutdown.
func NewBatchRecordWorker(repo repository.RecordRepository, logger zerolog.Logger, bufferSize, batchSize int, interval time.Duration) BatchRecordWorker {
	if batchSize < 1 {
		batchSize = 1
	}
	if interval <= 0 {
		interval = time.Second
	}
	worker := &batchRecordWorker{
		repo:          repo,
		logger:        logger.With().Str("component", "index_worker").Logger(),
		recordQueue:   make(chan model.Record, bufferSize),
		batchSize:     batchSize,
		flushInterval: interval,
	}
	worker.wg.Add(1)
	go worker.startLoop()
	return worker
}

// Enqueue blocks while the buffer is full.
func (w *batchRecordWorker) Enqueue(record model.Record) {
	w.recordQueue <- record
}

// Shutdown stops accepting records and waits for the last batch to flush.
func (w *batchRecordWorker) Shutdown() {
	w.logger.Info().Msg("draining index queue")
	close(w.recordQueue)
	w.wg.Wait()
	w.logger.Info().Msg("index worker stopped")
}

func (w *batchRecordWorker) startLoop() {
	defer w.wg.Done()

	var batch []model.Record
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case record, ok := <-w.recordQueue:
			if !ok {
				if len(batch) > 0 {
					w.bulkInsert(batch)
				}
				return
			}

			batch = append(batch, record)

			if len(batch) >= w.batchSize {
				w.bulkInsert(batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.bulkInsert(batch)
				batch = nil
			}
		}
	}
}

func (w *batchRecordWorker) bulkInsert(records []model.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.repo.CreateBatch(ctx, records); err != nil {
		w.logger.Error().Err(err).Int("records", len(records)).Msg("bulk insert failed")
		return
	}
	w.logger.Debug().Int("records", len(records)).Int("queued", len(w.recordQueue)).Msg("records flushed")
}
