package sonyflake

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidID is returned by Parse for strings that are not a valid ID.
var ErrInvalidID = errors.New("sonyflake: invalid id")

const encodedLen = 13

// ID is a generated identifier. The top bit is always zero.
type ID uint64

// Compose packs the three fields into an ID. Each field is masked to its
// width.
func Compose(tick, sequence, machineID uint64) ID {
	return ID((tick&(maxTick-1))<<tickShift | (sequence&sequenceMask)<<sequenceShift | machineID&machineMask)
}

// Tick returns the number of 10ms ticks since the generator's epoch.
func (id ID) Tick() uint64 {
	return uint64(id) >> tickShift
}

// Sequence returns the intra-tick counter.
func (id ID) Sequence() uint8 {
	return uint8(uint64(id) >> sequenceShift & sequenceMask)
}

// MachineID returns the machine ID of the generator that issued the ID.
func (id ID) MachineID() uint16 {
	return uint16(uint64(id) & machineMask)
}

// Time returns the start of the tick the ID was issued in, relative to
// epoch. Pass the epoch of the generator that produced the ID.
func (id ID) Time(epoch time.Time) time.Time {
	return epoch.Add(time.Duration(id.Tick()) * TickDuration)
}

// String returns the base32 encoded string representation of the ID,
// zero-padded to 13 characters so that string order matches numeric order.
func (id ID) String() string {
	var buf [encodedLen]byte
	str := strconv.FormatUint(uint64(id), 32)
	pad := encodedLen - len(str)

	for i := range pad {
		buf[i] = '0'
	}
	copy(buf[pad:], str)
	return string(buf[:])
}

// Parse decodes the output of ID.String.
func Parse(s string) (ID, error) {
	if len(s) != encodedLen {
		return 0, fmt.Errorf("%w: %q has length %d, want %d", ErrInvalidID, s, len(s), encodedLen)
	}
	v, err := strconv.ParseUint(s, 32, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidID, s, err)
	}
	if v>>63 != 0 {
		return 0, fmt.Errorf("%w: %q sets the reserved top bit", ErrInvalidID, s)
	}
	return ID(v), nil
}
