package evaluator

// SeqMap is a lazy, index-addressable ordered collection of suspended
// values. Lookups may compute; Update is functional and shares every
// untouched entry with the original map.
type SeqMap interface {
	Lookup(i int) (Value, error)
	Update(i int, v *Thunk) SeqMap
}

// IndexSeqMap generates elements from an index rule. It carries no cache;
// wrap it in MemoSeqMap when repeated reads must not recompute.
type IndexSeqMap func(i int) (Value, error)

func (m IndexSeqMap) Lookup(i int) (Value, error) { return m(i) }

func (m IndexSeqMap) Update(i int, v *Thunk) SeqMap {
	return newUpdateSeqMap(m, i, v)
}

// memoSeqMap caches one thunk per index on top of any SeqMap.
type memoSeqMap struct {
	inner SeqMap
	cache map[int]*Thunk
}

// MemoSeqMap wraps m so repeated reads of an index are computed once.
func MemoSeqMap(m SeqMap) SeqMap {
	if _, ok := m.(*memoSeqMap); ok {
		return m
	}
	return &memoSeqMap{inner: m, cache: make(map[int]*Thunk)}
}

func (m *memoSeqMap) Lookup(i int) (Value, error) {
	t, ok := m.cache[i]
	if !ok {
		t = NewThunk("", func() (Value, error) { return m.inner.Lookup(i) })
		m.cache[i] = t
	}
	return t.Force()
}

func (m *memoSeqMap) Update(i int, v *Thunk) SeqMap {
	return newUpdateSeqMap(m, i, v)
}

// updateSeqMap overlays point updates on a shared base map.
type updateSeqMap struct {
	base    SeqMap
	updates map[int]*Thunk
}

func newUpdateSeqMap(base SeqMap, i int, v *Thunk) SeqMap {
	if u, ok := base.(*updateSeqMap); ok {
		updates := make(map[int]*Thunk, len(u.updates)+1)
		for k, t := range u.updates {
			updates[k] = t
		}
		updates[i] = v
		return &updateSeqMap{base: u.base, updates: updates}
	}
	return &updateSeqMap{base: base, updates: map[int]*Thunk{i: v}}
}

func (m *updateSeqMap) Lookup(i int) (Value, error) {
	if t, ok := m.updates[i]; ok {
		return t.Force()
	}
	return m.base.Lookup(i)
}

func (m *updateSeqMap) Update(i int, v *Thunk) SeqMap {
	return newUpdateSeqMap(m, i, v)
}

// JoinSeqMap flattens one level of nesting given the known inner length:
// element i of the result is element i%inner of inner sequence i/inner.
func JoinSeqMap(sym Backend, m SeqMap, inner int) SeqMap {
	return IndexSeqMap(func(i int) (Value, error) {
		q, r := i/inner, i%inner
		outer, err := sym.LookupSeq(m, q)
		if err != nil {
			return nil, err
		}
		return IndexValue(sym, outer, r)
	})
}

// ThunkSeqMap builds a map over a fixed slice of suspensions.
func ThunkSeqMap(elems []*Thunk) SeqMap {
	return IndexSeqMap(func(i int) (Value, error) {
		if i < 0 || i >= len(elems) {
			bug("ThunkSeqMap", "index %d out of range for length %d", i, len(elems))
		}
		return elems[i].Force()
	})
}
