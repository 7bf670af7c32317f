package analysis

import (
	"strings"
	"sync"
	"time"

	"github.com/ai-gateway/domain-analyst/internal/metrics"
)

// DefaultFlushInterval is the minimum spacing between snapshots.
const DefaultFlushInterval = 50 * time.Millisecond

// Snapshot is the cumulative view handed to an UpdateFunc.
type Snapshot struct {
	ReasoningContent string `json:"reasoning_content"`
	FinalContent     string `json:"final_content"`
	IsReasoningPhase bool   `json:"is_reasoning_phase"`
}

// UpdateFunc receives snapshots while a streaming analysis runs. Calls are
// serialized and never happen after Analyze returns. It must not call back
// into the Client.
type UpdateFunc func(Snapshot)

// state is the aggregation state of one streaming call.
type state struct {
	reasoning      string
	final          string
	reasoningPhase bool
	// reasoningDone records that the sentinel phrase showed up in the
	// reasoning stream. Nothing branches on it; it is reported only.
	reasoningDone bool
}

func (s *state) snapshot() Snapshot {
	return Snapshot{
		ReasoningContent: s.reasoning,
		FinalContent:     s.final,
		IsReasoningPhase: s.reasoningPhase,
	}
}

// coalescer batches deltas into snapshots at most once per interval, plus a
// ticker that flushes fragments left behind by a burst. All state lives
// behind mu, shared by the read loop and the ticker goroutine.
type coalescer struct {
	mu               sync.Mutex
	st               state
	pendingReasoning []string
	pendingFinal     []string
	dirty            bool
	lastFlush        time.Time
	interval         time.Duration
	sentinel         string
	now              func() time.Time
	emit             UpdateFunc

	stopOnce sync.Once
}

func newCoalescer(interval time.Duration, sentinel string, now func() time.Time, emit UpdateFunc) *coalescer {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	if now == nil {
		now = time.Now
	}
	return &coalescer{
		st:       state{reasoningPhase: true},
		interval: interval,
		sentinel: sentinel,
		now:      now,
		emit:     emit,
	}
}

// start launches the periodic flush. The returned stop function may be
// called any number of times; the ticker is released on the first call,
// which also waits for the goroutine to exit.
func (c *coalescer) start() (stop func()) {
	ticker := time.NewTicker(c.interval)
	quit := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			select {
			case <-ticker.C:
				c.flush()
			case <-quit:
				return
			}
		}
	}()

	return func() {
		c.stopOnce.Do(func() {
			ticker.Stop()
			close(quit)
			<-done
		})
	}
}

func (c *coalescer) addReasoning(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.reasoningPhase {
		c.pendingReasoning = append(c.pendingReasoning, text)
	}
	if c.sentinel != "" && strings.Contains(text, c.sentinel) {
		c.st.reasoningDone = true
	}
	c.flushIfDueLocked()
}

func (c *coalescer) addFinal(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.reasoningPhase = false
	c.pendingFinal = append(c.pendingFinal, text)
	c.flushIfDueLocked()
}

// replaceFinal installs a complete answer and flushes right away. Pending
// answer fragments are folded in first, so the complete text supersedes them.
func (c *coalescer) replaceFinal(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drainLocked()
	c.st.final = text
	c.st.reasoningPhase = false
	c.dirty = true
	c.flushLocked()
}

// replaceReasoning installs a complete reasoning text and flushes right away.
func (c *coalescer) replaceReasoning(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drainLocked()
	c.st.reasoning = text
	c.dirty = true
	c.flushLocked()
}

func (c *coalescer) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushLocked()
}

// finish drains everything still pending and emits the terminal snapshot,
// which always reports the reasoning phase as over. The ticker must already
// be stopped.
func (c *coalescer) finish() state {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushLocked()
	c.st.reasoningPhase = false
	if c.emit != nil {
		c.emit(c.st.snapshot())
	}
	return c.st
}

func (c *coalescer) flushIfDueLocked() {
	if c.now().Sub(c.lastFlush) >= c.interval {
		c.flushLocked()
	}
}

func (c *coalescer) drainLocked() {
	if len(c.pendingReasoning) > 0 {
		c.st.reasoning += strings.Join(c.pendingReasoning, "")
		c.pendingReasoning = c.pendingReasoning[:0]
		c.dirty = true
	}
	if len(c.pendingFinal) > 0 {
		c.st.final += strings.Join(c.pendingFinal, "")
		c.pendingFinal = c.pendingFinal[:0]
		c.dirty = true
	}
}

func (c *coalescer) flushLocked() {
	c.drainLocked()
	if !c.dirty {
		return
	}
	c.dirty = false
	if c.emit != nil {
		c.emit(c.st.snapshot())
	}
	metrics.RecordFlush()
	c.lastFlush = c.now()
}
