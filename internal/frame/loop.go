package frame

import (
	"context"
	"sync"
	"time"
)

// Frame is one batch of callbacks collected during a Loop interval.
type Frame struct {
	Seq       uint64
	Time      time.Time
	callbacks []func()
}

// Len returns the number of callbacks in the frame.
func (f Frame) Len() int {
	return len(f.callbacks)
}

// Run executes the frame's callbacks in request order.
func (f Frame) Run() {
	for _, fn := range f.callbacks {
		fn()
	}
}

// Loop is the fixed-interval fallback Requester.
//
// The first Request after an idle period arms a timer; every Request that
// arrives before it fires joins the same Frame. Frames are delivered on
// Frames() and never run on the timer goroutine.
//
// Thread-safe: Yes (Request may be called from any goroutine)
type Loop struct {
	interval time.Duration

	mu      sync.Mutex
	pending []func()
	timer   *time.Timer
	seq     uint64
	closed  bool
	sending bool

	frames chan Frame
	done   chan struct{}
	once   sync.Once
}

// NewLoop creates a Loop. A zero interval means DefaultInterval.
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		interval: interval,
		frames:   make(chan Frame, 1),
		done:     make(chan struct{}),
	}
}

// Interval returns the frame period.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Request adds fn to the next frame.
func (l *Loop) Request(fn func()) {
	if fn == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.pending = append(l.pending, fn)
	if l.timer == nil {
		l.timer = time.AfterFunc(l.interval, l.fire)
	}
}

// Busy reports whether a frame is queued, armed or being handed over. A
// consumer that sees Busy false and an empty Frames channel is idle until
// it requests again.
func (l *Loop) Busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending) > 0 || l.timer != nil || l.sending
}

// Frames returns the channel frames are delivered on. It is never closed;
// select on Done to notice shutdown.
func (l *Loop) Frames() <-chan Frame {
	return l.frames
}

// RunUntilIdle runs delivered frames on the calling goroutine until the
// loop is idle, and returns how many ran. Callbacks that request again keep
// it going.
func (l *Loop) RunUntilIdle(ctx context.Context) (int, error) {
	n := 0
	for {
		if !l.Busy() {
			select {
			case f := <-l.frames:
				f.Run()
				n++
				continue
			default:
				return n, nil
			}
		}
		select {
		case f := <-l.frames:
			f.Run()
			n++
		case <-l.done:
			return n, nil
		case <-ctx.Done():
			return n, ctx.Err()
		}
	}
}

// Done is closed by Close.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Close stops the loop. Pending callbacks are dropped.
func (l *Loop) Close() {
	l.once.Do(func() {
		l.mu.Lock()
		l.closed = true
		l.pending = nil
		if l.timer != nil {
			l.timer.Stop()
			l.timer = nil
		}
		l.mu.Unlock()
		close(l.done)
	})
}

// fire runs on the timer goroutine and hands the batch to the consumer.
func (l *Loop) fire() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	batch := l.pending
	l.pending = nil
	l.timer = nil
	l.seq++
	f := Frame{Seq: l.seq, Time: time.Now(), callbacks: batch}
	l.sending = true
	l.mu.Unlock()

	// Send outside the lock so consumers can Request from inside Run.
	select {
	case l.frames <- f:
	case <-l.done:
	}

	l.mu.Lock()
	l.sending = false
	l.mu.Unlock()
}
