// Package avatar provides the sources the round reads the dragon's target
// position from.
package avatar

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/plus3/dragonbubbles/bubble"
)

// Source yields the avatar target for the current tick. It returns false
// when it has nothing to offer yet; the round then keeps the previous
// position. Implementations must not block.
type Source interface {
	Target(now time.Duration) (bubble.Point, bool)
}

// Fixed always returns the same point.
type Fixed bubble.Point

func (f Fixed) Target(time.Duration) (bubble.Point, bool) {
	return bubble.Point(f), true
}

// position is a lock-free last-known point. Coordinates are packed as two
// float32 halves of one uint64 so readers never see a torn update.
type position struct {
	bits atomic.Uint64
	set  atomic.Bool
}

func (p *position) store(x, y float64) {
	packed := uint64(math.Float32bits(float32(x)))<<32 | uint64(math.Float32bits(float32(y)))
	p.bits.Store(packed)
	p.set.Store(true)
}

func (p *position) load() (bubble.Point, bool) {
	if !p.set.Load() {
		return bubble.Point{}, false
	}
	packed := p.bits.Load()
	return bubble.Point{
		X: float64(math.Float32frombits(uint32(packed >> 32))),
		Y: float64(math.Float32frombits(uint32(packed))),
	}, true
}

// Pointer follows a pointing device. The host writes the cursor position
// with Set, possibly from another goroutine.
type Pointer struct {
	pos position
}

// NewPointer returns a pointer source with no position yet.
func NewPointer() *Pointer {
	return &Pointer{}
}

// Set records the latest cursor position in canvas pixels.
func (p *Pointer) Set(x, y float64) {
	p.pos.store(x, y)
}

func (p *Pointer) Target(time.Duration) (bubble.Point, bool) {
	return p.pos.load()
}
