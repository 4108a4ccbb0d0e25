// Package sonyflake implements a process-local generator of unique, roughly
// time-ordered 64-bit IDs. The layout, most significant bit first, is:
//
//	[1 bit unused][39 bits ticks since epoch (10ms)][8 bits sequence][16 bits machine ID]
//
// Each Generator owns its own epoch and state. Uniqueness across processes
// relies on callers assigning distinct machine IDs.
package sonyflake

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	TimestampBitLen = 39
	SequenceBitLen  = 8
	MachineBitLen   = 63 - TimestampBitLen - SequenceBitLen

	// TickDuration is the resolution of the timestamp field.
	TickDuration = 10 * time.Millisecond

	sequenceMask  = 1<<SequenceBitLen - 1
	machineMask   = 1<<MachineBitLen - 1
	maxTick       = 1 << TimestampBitLen
	tickShift     = SequenceBitLen + MachineBitLen
	sequenceShift = MachineBitLen
)

// DefaultEpoch is the documented zero point for generators that want IDs
// comparable across restarts: 2025-01-01 00:00 UTC.
var DefaultEpoch = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// ErrTimestampOverflow is returned once the tick count no longer fits in
// 39 bits. It is permanent for the generator that returned it.
var ErrTimestampOverflow = errors.New("sonyflake: timestamp overflow")

type Config struct {
	// MachineID is masked to its low 16 bits.
	MachineID uint64
	// Epoch anchors tick zero. The zero value uses the clock reading at
	// construction. A fixed epoch is rebased onto that reading so elapsed
	// time stays monotonic.
	Epoch time.Time
	// Clock defaults to SystemClock.
	Clock Clock
	// Logger defaults to discarding output.
	Logger *slog.Logger
}

// Generator mints IDs. It is safe for concurrent use; a single mutex
// serializes every call, including the sleep taken on sequence wrap.
type Generator struct {
	mu        sync.Mutex
	clock     Clock
	logger    *slog.Logger
	epoch     time.Time
	lastTick  uint64
	sequence  uint64
	machineID uint64
}

// NewGenerator creates a generator from config. It never fails: an out of
// range machine ID is truncated rather than rejected.
func NewGenerator(config Config) *Generator {
	generator := &Generator{
		clock:     config.Clock,
		logger:    config.Logger,
		epoch:     config.Epoch,
		machineID: config.MachineID & machineMask,
	}
	if generator.clock == nil {
		generator.clock = SystemClock
	}
	if generator.logger == nil {
		generator.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	start := generator.clock.Now()
	if generator.epoch.IsZero() {
		generator.epoch = start
	} else {
		// Re-derive the epoch from start so it carries start's monotonic
		// reading; wall clock steps then cannot move ticks.
		generator.epoch = start.Add(generator.epoch.Sub(start))
	}
	return generator
}

// ID returns the next ID. When 256 IDs have already been issued in the
// current tick it blocks until the following tick boundary, holding the
// lock, so concurrent callers queue behind it.
//
// A clock that reads earlier than the last issued tick is treated as the
// same tick: the generator consumes sequence space instead of going back.
func (g *Generator) ID() (ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	tick := g.tick(g.clock.Now())
	if tick <= g.lastTick {
		g.sequence = (g.sequence + 1) & sequenceMask
		if g.sequence == 0 {
			g.lastTick++
			g.waitForTick(g.lastTick)
		}
	} else {
		g.lastTick = tick
		g.sequence = 0
	}

	// Checked after both assignments to lastTick, so a fresh tick landing
	// exactly on 2^39 fails as well. lastTick is never lowered, so every
	// later call fails too.
	if g.lastTick >= maxTick {
		g.logger.Error("sonyflake: tick field exhausted",
			slog.Uint64("tick", g.lastTick),
			slog.Time("epoch", g.epoch))
		return 0, fmt.Errorf("%w: tick %d exceeds %d bits", ErrTimestampOverflow, g.lastTick, TimestampBitLen)
	}

	return Compose(g.lastTick, g.sequence, g.machineID), nil
}

// SetMachineID replaces the machine ID used for subsequent IDs. Only the
// low 16 bits are kept.
func (g *Generator) SetMachineID(machineID uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.machineID = machineID & machineMask
}

// MachineID returns the machine ID stamped into new IDs.
func (g *Generator) MachineID() uint16 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return uint16(g.machineID)
}

// Epoch returns the instant tick zero is measured from.
func (g *Generator) Epoch() time.Time {
	return g.epoch
}

// tick converts a clock reading to whole ticks since the epoch. Readings
// before the epoch map to tick 0.
func (g *Generator) tick(now time.Time) uint64 {
	elapsed := now.Sub(g.epoch)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed / TickDuration)
}

// waitForTick sleeps until the clock reaches the start of tick. Past
// boundaries return immediately. The sleep never exceeds one tick: a
// boundary further away means the clock reads behind lastTick (stepped
// back, or before a future epoch), and the lock must not be held that long.
func (g *Generator) waitForTick(tick uint64) {
	if tick >= maxTick {
		return
	}
	boundary := g.epoch.Add(time.Duration(tick) * TickDuration)
	wait := boundary.Sub(g.clock.Now())
	if wait <= 0 {
		return
	}
	if wait > TickDuration {
		wait = TickDuration
	}
	g.logger.Debug("sonyflake: sequence exhausted, waiting for next tick",
		slog.Uint64("tick", tick),
		slog.Duration("wait", wait))
	g.clock.Sleep(wait)
}
