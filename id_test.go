package sonyflake_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runpod/sonyflake"
)

func TestCompose(t *testing.T) {
	id := sonyflake.Compose(0x12, 0x34, 0x5678)
	assert.Equal(t, sonyflake.ID(0x12<<24|0x34<<16|0x5678), id)
	assert.Equal(t, uint64(0x12), id.Tick())
	assert.Equal(t, uint8(0x34), id.Sequence())
	assert.Equal(t, uint16(0x5678), id.MachineID())

	// Oversized fields are masked rather than bleeding into neighbours.
	id = sonyflake.Compose(1<<39|1, 0x1FF, 0x1FFFF)
	assert.Equal(t, uint64(1), id.Tick())
	assert.Equal(t, uint8(0xFF), id.Sequence())
	assert.Equal(t, uint16(0xFFFF), id.MachineID())
	assert.Zero(t, uint64(id)>>63)
}

func TestStringParse(t *testing.T) {
	cases := []sonyflake.ID{
		0,
		1,
		sonyflake.Compose(12345, 7, 99),
		sonyflake.Compose(1<<39-1, 0xFF, 0xFFFF),
	}
	for _, id := range cases {
		s := id.String()
		assert.Len(t, s, 13)
		parsed, err := sonyflake.Parse(s)
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	}
}

func TestStringSortsLikeID(t *testing.T) {
	g := sonyflake.NewGenerator(sonyflake.Config{MachineID: 9})
	strs := make([]string, 0, 600)
	for range 600 {
		strs = append(strs, mustID(t, g).String())
	}
	assert.True(t, sort.StringsAreSorted(strs))
}

func TestParseRejects(t *testing.T) {
	for _, s := range []string{"", "abc", "00000000000000", "0000000000zz0", "8000000000000"} {
		_, err := sonyflake.Parse(s)
		assert.ErrorIs(t, err, sonyflake.ErrInvalidID, s)
	}
}
