package idgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/conquest-editor/internal/pkg/idgen"
)

// sequenceRoller returns the queued values in order, then repeats the last one
type sequenceRoller struct {
	values []int
	calls  int
}

func (r *sequenceRoller) Roll(size int) (int, error) {
	v := r.values[len(r.values)-1]
	if r.calls < len(r.values) {
		v = r.values[r.calls]
	}
	r.calls++
	return v, nil
}

func (r *sequenceRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i], _ = r.Roll(size)
	}
	return out, nil
}

func TestEntityGenerator_SkipsTakenIDs(t *testing.T) {
	roller := &sequenceRoller{values: []int{1, 1, 2}}
	gen := idgen.NewEntity(roller, []string{"0x8000"})

	assert.Equal(t, "0x8001", gen.Generate())
	assert.Equal(t, 3, roller.calls)
}

func TestEntityGenerator_TakenIsCaseInsensitive(t *testing.T) {
	roller := &sequenceRoller{values: []int{0xa40, 5}}
	gen := idgen.NewEntity(roller, []string{"0x8A3F"})

	id := gen.Generate()
	assert.NotEqual(t, "0x8a3f", id)
}

func TestEntityGenerator_FallsBackToScan(t *testing.T) {
	roller := &sequenceRoller{values: []int{1}}
	gen := idgen.NewEntity(roller, []string{"0x8000"})

	assert.Equal(t, "0x8001", gen.Generate())
	assert.Equal(t, "0x8002", gen.Generate())
}

func TestEntityGenerator_Reserve(t *testing.T) {
	roller := &sequenceRoller{values: []int{3, 4}}
	gen := idgen.NewEntity(roller, nil)
	gen.Reserve("0x8002")

	assert.Equal(t, "0x8003", gen.Generate())
}

func TestEntityGenerator_DefaultRollerStaysInRange(t *testing.T) {
	gen := idgen.NewEntity(nil, nil)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := gen.Generate()
		require.True(t, strings.HasPrefix(id, "0x"))
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
		require.Len(t, id, 6)
		require.GreaterOrEqual(t, id, "0x8000")
	}
}

func TestUUIDGenerator(t *testing.T) {
	id := idgen.NewUUID("run").Generate()
	assert.True(t, strings.HasPrefix(id, "run_"))
	assert.Len(t, id, len("run_")+36)
}
