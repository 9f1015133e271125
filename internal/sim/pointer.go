package sim

import "sync"

// Pointer holds the most recent pointer-position sample in world
// coordinates (X/Y plane). Writes come from the UI event stream, reads from
// the frame loop; last writer wins, nothing is queued.
type Pointer struct {
	mu     sync.Mutex
	x, y   float64
	active bool
}

func (p *Pointer) Set(x, y float64) {
	p.mu.Lock()
	p.x, p.y, p.active = x, y, true
	p.mu.Unlock()
}

// Clear marks the pointer as absent (left the viewport).
func (p *Pointer) Clear() {
	p.mu.Lock()
	p.active = false
	p.mu.Unlock()
}

func (p *Pointer) get() (x, y float64, active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.x, p.y, p.active
}
