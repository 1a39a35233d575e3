package collector

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"stream-insights/internal/models"
	"stream-insights/internal/twitch"
)

// StreamLister is the one platform capability a tick needs. Satisfied by
// *twitch.Client; tests substitute a fake.
type StreamLister interface {
	GetStreamsByLogins(ctx context.Context, logins []string) (map[string]twitch.Stream, error)
}

// SampleStore is the write side of the time-series store.
type SampleStore interface {
	AppendSamples(samples []models.StreamSample) error
}

// Stats counts what the collector has done since start.
type Stats struct {
	Ticks          int64
	FailedTicks    int64
	SamplesWritten int64
	LastRun        time.Time
}

// Collector samples the live status of a fixed channel list on a fixed
// interval, writing exactly one sample row per channel per tick. A failed
// fetch skips the whole tick; the loop never stops on its own.
type Collector struct {
	store    SampleStore
	client   StreamLister
	channels []string
	interval time.Duration
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	running bool
	stats   Stats
}

func New(store SampleStore, client StreamLister, channels []string, interval time.Duration) *Collector {
	ctx, cancel := context.WithCancel(context.Background())
	return &Collector{
		store:    store,
		client:   client,
		channels: channels,
		interval: interval,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the sampling loop in the background. The first tick runs
// immediately; later ticks follow every interval.
func (c *Collector) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	log.Printf("[collector] started: channels=%d interval=%s", len(c.channels), c.interval)
	go c.samplingLoop()
}

// Stop cancels the loop. An in-flight tick finishes or is abandoned by its
// request timeout; there is no further shutdown contract.
func (c *Collector) Stop() {
	c.cancel()
}

// Done is closed once Stop has been called.
func (c *Collector) Done() <-chan struct{} {
	return c.ctx.Done()
}

func (c *Collector) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Collector) samplingLoop() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	if err := c.RunTick(c.ctx); err != nil {
		log.Printf("[collector] tick failed: %v", err)
	}

	for {
		select {
		case <-c.ctx.Done():
			log.Println("[collector] stopped")
			return
		case <-ticker.C:
			if err := c.RunTick(c.ctx); err != nil {
				log.Printf("[collector] tick failed: %v", err)
			}
		}
	}
}

// RunTick performs one collection cycle: a single timestamp, one batched
// live-stream lookup for every configured channel, one batched write. On a
// fetch error nothing is written and the error is returned for logging.
func (c *Collector) RunTick(ctx context.Context) error {
	ts := c.now().UTC()

	liveMap, err := c.client.GetStreamsByLogins(ctx, c.channels)
	if err != nil {
		c.recordTick(ts, 0, true)
		return fmt.Errorf("fetch live streams: %w", err)
	}

	samples := make([]models.StreamSample, 0, len(c.channels))
	for _, login := range c.channels {
		if s, ok := liveMap[login]; ok {
			samples = append(samples, models.StreamSample{
				UserLogin:   login,
				SampledAt:   ts,
				IsLive:      true,
				ViewerCount: s.ViewerCount,
				GameName:    strPtr(s.GameName),
				Title:       strPtr(s.Title),
				StartedAt:   strPtr(s.StartedAt),
				StreamID:    strPtr(s.ID),
			})
		} else {
			samples = append(samples, models.StreamSample{
				UserLogin: login,
				SampledAt: ts,
				IsLive:    false,
			})
		}
	}

	if err := c.store.AppendSamples(samples); err != nil {
		c.recordTick(ts, 0, true)
		return fmt.Errorf("append samples: %w", err)
	}

	c.recordTick(ts, len(samples), false)
	log.Printf("[collector] %s saved %d samples (live=%d)", ts.Format(time.RFC3339), len(samples), len(liveMap))
	return nil
}

func (c *Collector) recordTick(ts time.Time, written int, failed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Ticks++
	if failed {
		c.stats.FailedTicks++
	}
	c.stats.SamplesWritten += int64(written)
	c.stats.LastRun = ts
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
