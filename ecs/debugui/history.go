package debugui

import "time"

// history is a fixed-size ring of samples for ImGui plots.
type history struct {
	values []float32
	next   int
	filled bool
}

func newHistory(size int) *history {
	return &history{values: make([]float32, max(size, 1))}
}

func (h *history) push(v float32) {
	h.values[h.next] = v
	h.next = (h.next + 1) % len(h.values)
	if h.next == 0 {
		h.filled = true
	}
}

// ordered returns the samples oldest first.
func (h *history) ordered() []float32 {
	if !h.filled {
		return append([]float32(nil), h.values[:h.next]...)
	}
	out := make([]float32, 0, len(h.values))
	out = append(out, h.values[h.next:]...)
	return append(out, h.values[:h.next]...)
}

func (h *history) average() float32 {
	samples := h.ordered()
	if len(samples) == 0 {
		return 0
	}
	var sum float32
	for _, v := range samples {
		sum += v
	}
	return sum / float32(len(samples))
}

// FrameTimer measures wall time between overlay frames.
type FrameTimer struct {
	last time.Time
	now  func() time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{last: time.Now(), now: time.Now}
}

// Delta returns the time since the previous call.
func (ft *FrameTimer) Delta() time.Duration {
	now := ft.now()
	d := now.Sub(ft.last)
	ft.last = now
	return d
}
