package evaluator

// A Thunk is a deferred, at-most-once computation of a Value. Memoization
// is part of the semantics, not an optimization: after the first force the
// computation (and any side effect it carries) never runs again, and a
// failed force caches its error so every later force fails identically.
//
// Evaluation is single-threaded and demand-driven (the backend may use
// threads internally, the evaluator does not), so thunk state needs no
// locking. Re-entering a thunk that is already being forced can only mean
// the computation demanded itself, which is the loop-error condition.

type thunkState int

const (
	statePending thunkState = iota
	stateInProgress
	stateForced
	stateFailed
	stateHole // declared but not yet filled
)

// Thunk is a suspended computation with states
// pending -> in-progress -> forced | failed.
type Thunk struct {
	state   thunkState
	compute func() (Value, error)
	val     Value
	err     error
	label   string
	target  *Thunk // set when a hole is filled
}

// NewThunk suspends compute under a diagnostic label.
func NewThunk(label string, compute func() (Value, error)) *Thunk {
	return &Thunk{state: statePending, compute: compute, label: label}
}

// Ready wraps an already-computed value.
func Ready(v Value) *Thunk {
	return &Thunk{state: stateForced, val: v}
}

// Force demands the value. The underlying computation runs at most once;
// both results and failures are cached.
func (t *Thunk) Force() (Value, error) {
	switch t.state {
	case stateForced:
		return t.val, t.err
	case stateFailed:
		return nil, t.err
	case stateInProgress:
		return nil, &LoopError{Name: t.label}
	case stateHole:
		if t.target == nil {
			// Demanded while its declaration group is still being set
			// up: the definition cannot complete without itself.
			return nil, &LoopError{Name: t.label}
		}
		return t.target.Force()
	}
	t.state = stateInProgress
	v, err := t.compute()
	t.compute = nil
	if err != nil {
		t.state = stateFailed
		t.err = err
		return nil, err
	}
	t.state = stateForced
	t.val = v
	return v, nil
}

// FillFunc fills a hole. The second call on the same hole fails.
type FillFunc func(*Thunk) error

// DeclareHole returns a readable placeholder and its write-once fill
// function, the mechanism behind mutually recursive declaration groups: a
// group binds every name to a hole first, evaluates all bodies under
// those bindings, and only then fills each hole.
func DeclareHole(label string) (*Thunk, FillFunc) {
	hole := &Thunk{state: stateHole, label: label}
	fill := func(t *Thunk) error {
		if hole.target != nil {
			return &ValueError{Msg: "hole " + label + " filled twice"}
		}
		hole.target = t
		return nil
	}
	return hole, fill
}
