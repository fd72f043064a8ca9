// Package audit buffers admission decisions and guard notifications and
// flushes them to their append-only stores in batches.
package audit

import (
	"context"
	"log"
	"sync"
	"time"

	"tokenguard/internal/domain"
	"tokenguard/internal/observability"
	"tokenguard/internal/storage"
)

// RecorderOptions contains configuration for creating a Recorder.
type RecorderOptions struct {
	DecisionStore     storage.DecisionStore
	NotificationStore storage.NotificationStore

	FlushInterval time.Duration // Default: 5s
	MaxBuffer     int           // Default: 256 - flush early past this many records
	Logger        *log.Logger
	Metrics       *observability.Metrics
}

// Recorder collects guard output and writes it out in batches. Recording
// never blocks the guard: entries go into in-memory buffers and a
// background loop drains them.
type Recorder struct {
	decisionStore     storage.DecisionStore
	notificationStore storage.NotificationStore
	flushInterval     time.Duration
	maxBuffer         int
	logger            *log.Logger
	metrics           *observability.Metrics

	mu            sync.Mutex
	decisions     []*domain.Decision
	notifications []*domain.Notification

	// kick wakes the Run loop for an early flush once a buffer passes
	// maxBuffer. Store I/O happens only on the Run goroutine, never on
	// the recording caller.
	kick chan struct{}
}

// NewRecorder creates a new audit recorder.
func NewRecorder(opts RecorderOptions) *Recorder {
	flushInterval := opts.FlushInterval
	if flushInterval == 0 {
		flushInterval = 5 * time.Second
	}

	maxBuffer := opts.MaxBuffer
	if maxBuffer == 0 {
		maxBuffer = 256
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Recorder{
		decisionStore:     opts.DecisionStore,
		notificationStore: opts.NotificationStore,
		flushInterval:     flushInterval,
		maxBuffer:         maxBuffer,
		logger:            logger,
		metrics:           opts.Metrics,
		kick:              make(chan struct{}, 1),
	}
}

// RecordDecision buffers an admission decision.
func (r *Recorder) RecordDecision(d domain.Decision) {
	r.mu.Lock()
	r.decisions = append(r.decisions, &d)
	size := len(r.decisions)
	r.mu.Unlock()

	r.updateBufferGauge()
	if size >= r.maxBuffer {
		r.kickFlush()
	}
}

// RecordNotification buffers a guard notification.
func (r *Recorder) RecordNotification(n domain.Notification) {
	r.mu.Lock()
	r.notifications = append(r.notifications, &n)
	size := len(r.notifications)
	r.mu.Unlock()

	r.updateBufferGauge()
	if size >= r.maxBuffer {
		r.kickFlush()
	}
}

// kickFlush wakes the Run loop without blocking. A full channel means a
// wake-up is already pending.
func (r *Recorder) kickFlush() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// Run flushes on the configured interval, and early whenever a buffer
// passes maxBuffer, until ctx is canceled, then performs a final flush.
func (r *Recorder) Run(ctx context.Context) {
	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Flush(context.Background())
			return
		case <-r.kick:
			r.Flush(ctx)
		case <-ticker.C:
			r.Flush(ctx)
		}
	}
}

// Flush writes all buffered records to their stores. Failed batches are
// requeued so a transient store outage loses nothing.
func (r *Recorder) Flush(ctx context.Context) {
	r.mu.Lock()
	decisions := r.decisions
	notifications := r.notifications
	r.decisions = nil
	r.notifications = nil
	r.mu.Unlock()

	if len(decisions) > 0 && r.decisionStore != nil {
		if err := r.decisionStore.InsertBulk(ctx, decisions); err != nil {
			r.logger.Printf("audit: flush decisions: %v", err)
			r.countFlushError()
			r.requeueDecisions(decisions)
		} else {
			r.countFlush()
		}
	}

	if len(notifications) > 0 && r.notificationStore != nil {
		if err := r.notificationStore.InsertBulk(ctx, notifications); err != nil {
			r.logger.Printf("audit: flush notifications: %v", err)
			r.countFlushError()
			r.requeueNotifications(notifications)
		} else {
			r.countFlush()
		}
	}

	r.updateBufferGauge()
}

func (r *Recorder) requeueDecisions(decisions []*domain.Decision) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions = append(decisions, r.decisions...)
}

func (r *Recorder) requeueNotifications(notifications []*domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(notifications, r.notifications...)
}

func (r *Recorder) countFlush() {
	if r.metrics != nil {
		r.metrics.AuditFlushes.Inc()
	}
}

func (r *Recorder) countFlushError() {
	if r.metrics != nil {
		r.metrics.AuditFlushErrors.Inc()
	}
}

func (r *Recorder) updateBufferGauge() {
	if r.metrics == nil {
		return
	}
	r.mu.Lock()
	size := len(r.decisions) + len(r.notifications)
	r.mu.Unlock()
	r.metrics.AuditBufferSize.Set(float64(size))
}
