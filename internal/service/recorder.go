package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/realty-chat/internal/model"
	"github.com/capitalize-ai/realty-chat/internal/store"
	"github.com/capitalize-ai/realty-chat/pkg/logger"
	"github.com/capitalize-ai/realty-chat/pkg/metrics"
)

// Recorder persists conversation turns on a detached goroutine. Delivery is
// best effort: failures are logged and counted, never returned.
type Recorder struct {
	log     store.ConversationLog
	timeout time.Duration
	logger  *logger.Logger
	now     func() time.Time

	wg sync.WaitGroup
}

// NewRecorder creates a recorder writing to log. Each write is bounded by timeout.
func NewRecorder(log store.ConversationLog, timeout time.Duration, lg *logger.Logger) *Recorder {
	return &Recorder{
		log:     log,
		timeout: timeout,
		logger:  lg,
		now:     time.Now,
	}
}

// Record schedules rec for persistence and returns immediately. The write
// outlives ctx cancellation.
func (r *Recorder) Record(ctx context.Context, rec model.ConversationRecord) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}

	writeCtx := context.WithoutCancel(ctx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.write(writeCtx, &rec)
	}()
}

func (r *Recorder) write(ctx context.Context, rec *model.ConversationRecord) {
	defer func() {
		if p := recover(); p != nil {
			metrics.RecordingFailuresTotal.Inc()
			r.logger.Error("conversation recording panicked",
				zap.String("tenant_id", rec.TenantID),
				zap.String("conversation_id", rec.ConversationID),
				zap.Any("panic", p),
			)
		}
	}()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if err := r.log.Append(ctx, rec); err != nil {
		metrics.RecordingFailuresTotal.Inc()
		r.logger.Warn("failed to record conversation turn",
			zap.String("tenant_id", rec.TenantID),
			zap.String("conversation_id", rec.ConversationID),
			zap.String("channel", string(rec.Channel)),
			zap.String("upstream", UpstreamPersistence),
			zap.Error(err),
		)
	}
}

// Wait blocks until pending writes finish or ctx is done.
func (r *Recorder) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
