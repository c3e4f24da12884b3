package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoSeqMapComputesEachIndexOnce(t *testing.T) {
	runs := make(map[int]int)
	m := MemoSeqMap(IndexSeqMap(func(i int) (Value, error) {
		runs[i]++
		return &Bit{B: stubBit(i%2 == 0)}, nil
	}))

	for _, i := range []int{0, 1, 0, 1, 0} {
		_, err := m.Lookup(i)
		require.NoError(t, err)
	}
	assert.Equal(t, map[int]int{0: 1, 1: 1}, runs)
}

func TestMemoSeqMapIsIdempotent(t *testing.T) {
	m := MemoSeqMap(IndexSeqMap(func(i int) (Value, error) {
		return &Bit{B: stubBit(false)}, nil
	}))
	assert.Same(t, m, MemoSeqMap(m))
}

func TestUpdateSeqMapOverlay(t *testing.T) {
	base := IndexSeqMap(func(i int) (Value, error) {
		return &Bit{B: stubBit(false)}, nil
	})
	updated := base.Update(1, Ready(&Bit{B: stubBit(true)}))

	v, err := updated.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, "True", v.(*Bit).B.String())

	v, err = updated.Lookup(0)
	require.NoError(t, err)
	assert.Equal(t, "False", v.(*Bit).B.String(), "untouched entries read through to the base")

	// Consecutive updates collapse into one overlay; the original map is
	// unaffected either way.
	twice := updated.Update(0, Ready(&Bit{B: stubBit(true)}))
	u, ok := twice.(*updateSeqMap)
	require.True(t, ok)
	assert.Len(t, u.updates, 2)

	v, err = updated.Lookup(0)
	require.NoError(t, err)
	assert.Equal(t, "False", v.(*Bit).B.String())
}

func TestThunkSeqMapForcesElements(t *testing.T) {
	runs := 0
	elems := []*Thunk{
		NewThunk("", func() (Value, error) {
			runs++
			return &Bit{B: stubBit(true)}, nil
		}),
		Ready(&Bit{B: stubBit(false)}),
	}
	m := ThunkSeqMap(elems)

	for i := 0; i < 2; i++ {
		_, err := m.Lookup(0)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, runs, "elements are shared suspensions, forced once")
}
