package frame

// Manual is a per-frame callback queue drained by its owner.
//
// It is not safe for concurrent use: Request and Run must be called from
// the same goroutine, which is the point. Callbacks requested while Run is
// draining land in the next frame.
type Manual struct {
	pending []func()
	frames  uint64
}

// NewManual creates an empty frame queue.
func NewManual() *Manual {
	return &Manual{}
}

// Request queues fn for the next Run.
func (m *Manual) Request(fn func()) {
	if fn == nil {
		return
	}
	m.pending = append(m.pending, fn)
}

// Pending returns the number of callbacks waiting for the next frame.
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Frames returns how many non-empty frames have been run.
func (m *Manual) Frames() uint64 {
	return m.frames
}

// Run executes every callback queued before the call and returns how many
// ran.
func (m *Manual) Run() int {
	batch := m.pending
	m.pending = nil
	if len(batch) == 0 {
		return 0
	}

	m.frames++
	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// RunUntilIdle keeps running frames until nothing is pending or limit
// frames have run. It returns the number of frames run.
func (m *Manual) RunUntilIdle(limit int) int {
	n := 0
	for n < limit && len(m.pending) > 0 {
		m.Run()
		n++
	}
	return n
}
