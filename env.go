package apidsl

// Environment is a stack of frames mapping Symbol to the Expr it is bound
// to. Lookup walks from the innermost frame to the outermost. Frames are
// pushed on entering a Lambda or a Decl-prefix scope and popped on exit.
//
// Grounded on this corpus's symbol-table pattern (a map-backed table built
// during a single pass over the tree), generalized here into an explicit
// stack passed as a parameter to each pass rather than kept as ambient or
// global state.
type Environment struct {
	frames []map[Symbol]*Expr
}

// NewEnvironment returns an Environment with a single, empty top-level
// frame.
func NewEnvironment() *Environment {
	return &Environment{frames: []map[Symbol]*Expr{make(map[Symbol]*Expr)}}
}

// PushFrame opens a new, innermost scope.
func (e *Environment) PushFrame() {
	e.frames = append(e.frames, make(map[Symbol]*Expr))
}

// PopFrame closes the innermost scope. Callers must ensure every PushFrame
// is matched by a PopFrame on all exit paths, including error returns.
func (e *Environment) PopFrame() {
	e.frames = e.frames[:len(e.frames)-1]
}

// Bind introduces name into the innermost frame, shadowing any outer
// binding of the same name for the remainder of that frame's lifetime.
func (e *Environment) Bind(name Symbol, value *Expr) {
	e.frames[len(e.frames)-1][name] = value
}

// Lookup returns the nearest binding of name, searching from the innermost
// frame outward, or nil if name is unbound anywhere in scope.
func (e *Environment) Lookup(name Symbol) *Expr {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if v, ok := e.frames[i][name]; ok {
			return v
		}
	}

	return nil
}

// Depth returns the number of open frames, chiefly for assertions in tests
// that every PushFrame was matched by a PopFrame.
func (e *Environment) Depth() int { return len(e.frames) }

// Snapshot returns an independent copy of e's current frame stack. Each
// frame map is copied so that later Binds against e (in particular, a later
// top-level Decl shadowing an earlier one) never retroactively change what
// the snapshot sees. A Lambda captures one of these at the point it is
// first reduced, giving it a proper lexical closure over its defining
// environment rather than the reducer's ambient, ever-mutating one: a
// function defined while `b` names one value must keep seeing that value
// even after a later `let b` rebinds the name at top level.
func (e *Environment) Snapshot() *Environment {
	frames := make([]map[Symbol]*Expr, len(e.frames))

	for i, f := range e.frames {
		fc := make(map[Symbol]*Expr, len(f))

		for k, v := range f {
			fc[k] = v
		}

		frames[i] = fc
	}

	return &Environment{frames: frames}
}
