package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"Voxmill/internal/domain/models"
	domrepo "Voxmill/internal/domain/repository"
)

// Sink is the minimal delivery interface the pipeline needs.
type Sink interface {
	PublishBatch(ctx context.Context, alerts []models.VelocityAlert) error
}

// AlertPipeline sits between alert detection and the broker. It validates,
// throttles per area, and buffers when downstream is unavailable.
type AlertPipeline struct {
	sink      Sink
	metrics   domrepo.Metrics
	maxPerMin int
	bufSize   int
	bufCh     chan models.VelocityAlert
	stopCh    chan struct{}
	started   bool
	mu        sync.Mutex
	lastSeen  map[string]time.Time // per-area last accepted time
	minGap    time.Duration
}

type PipelineOption func(*AlertPipeline)

// WithMaxPerMinute sets the max alerts accepted per area per minute.
func WithMaxPerMinute(n int) PipelineOption {
	return func(p *AlertPipeline) {
		if n > 0 {
			p.maxPerMin = n
			p.minGap = time.Minute / time.Duration(n)
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *AlertPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewAlertPipeline creates a new pipeline.
func NewAlertPipeline(sink Sink, metrics domrepo.Metrics, opts ...PipelineOption) *AlertPipeline {
	p := &AlertPipeline{
		sink:      sink,
		metrics:   metrics,
		maxPerMin: 30,  // default throttle per area
		bufSize:   500, // default buffer
		bufCh:     make(chan models.VelocityAlert, 500),
		stopCh:    make(chan struct{}),
		lastSeen:  make(map[string]time.Time),
		minGap:    time.Minute / 30,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan models.VelocityAlert, p.bufSize)
	}
	return p
}

// Start launches background flushing of buffered alerts.
func (p *AlertPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case a := <-p.bufCh:
				if err := p.sink.PublishBatch(ctx, []models.VelocityAlert{a}); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("alert_pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- a:
					default:
						p.metrics.RecordError("alert_pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *AlertPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Deliver validates, throttles, and forwards alerts downstream, buffering
// the ones that fail to send.
func (p *AlertPipeline) Deliver(ctx context.Context, alerts []models.VelocityAlert) error {
	start := time.Now()
	accepted := make([]models.VelocityAlert, 0, len(alerts))
	for _, a := range alerts {
		if err := validateAlert(a); err != nil {
			p.metrics.RecordError("alert_pipeline_validate")
			continue
		}
		if !p.allow(a.Area, start) {
			p.metrics.RecordError("alert_pipeline_throttle")
			continue
		}
		accepted = append(accepted, a)
	}
	if len(accepted) == 0 {
		return nil
	}

	if err := p.sink.PublishBatch(ctx, accepted); err != nil {
		p.metrics.RecordError("alert_pipeline_publish")
		// buffer non-blocking
		for _, a := range accepted {
			select {
			case p.bufCh <- a:
			default:
				p.metrics.RecordError("alert_pipeline_buffer_full")
			}
		}
		return fmt.Errorf("alert pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("alert_pipeline_publish", time.Since(start).Seconds())
	return nil
}

func validateAlert(a models.VelocityAlert) error {
	if a.Area == "" {
		return fmt.Errorf("area empty")
	}
	if a.Type == "" {
		return fmt.Errorf("type empty")
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return fmt.Errorf("confidence out of range")
	}
	return nil
}

func (p *AlertPipeline) allow(area string, now time.Time) bool {
	if p.maxPerMin <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSeen[area]
	if !last.IsZero() && now.Sub(last) < p.minGap {
		return false
	}
	p.lastSeen[area] = now
	return true
}
