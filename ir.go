package apidsl

// Relation is the post-reduction form of a Rel expression: its URI (still
// the typed Expr, so an emitter can walk Literal/Variable segments and
// read Variable schema tags) and its per-method Transfers.
type Relation struct {
	URI   *Expr
	Xfers map[Method]*Transfer
	Pos   Span
}

// Entry is one (pattern string, Relation) pair in a Spec, kept alongside
// the map for ordered iteration.
type Entry struct {
	Pattern  string
	Relation *Relation
}

// Spec is the evaluated IR: every top-level Decl whose reduced value is a
// Rel, keyed by its URI pattern string in declaration order.
type Spec struct {
	Entries   []Entry
	byPattern map[string]*Relation
}

// NewSpec returns an empty Spec.
func NewSpec() *Spec {
	return &Spec{byPattern: make(map[string]*Relation)}
}

// Lookup returns the Relation registered under pattern, if any.
func (s *Spec) Lookup(pattern string) (*Relation, bool) {
	rel, ok := s.byPattern[pattern]

	return rel, ok
}

// insert adds rel under pattern, rejecting a repeat pattern with
// DuplicateRelation.
func (s *Spec) insert(pattern string, rel *Relation, pos Span) error {
	if _, exists := s.byPattern[pattern]; exists {
		return NewDuplicateRelationError(pos, "duplicate relation pattern "+pattern)
	}

	s.byPattern[pattern] = rel
	s.Entries = append(s.Entries, Entry{Pattern: pattern, Relation: rel})

	return nil
}

// AssembleIR walks the checked, closed declarations in order and inserts
// every Rel-valued one into a Spec under its URI pattern string. Decls
// whose value is not a Rel (plain schemas, or unapplied helper functions,
// see check.TypeCheck) are simply not part of the IR, matching the
// emitter's interest in relations only.
func AssembleIR(decls []*Expr, interner *Interner) (*Spec, error) {
	spec := NewSpec()

	for _, d := range decls {
		if d.Value.Kind != KindRel {
			continue
		}

		pattern := uriPatternString(d.Value.RelURI, interner)

		rel := &Relation{URI: d.Value.RelURI, Xfers: d.Value.Xfers, Pos: d.Value.Pos}

		if err := spec.insert(pattern, rel, d.Value.Pos); err != nil {
			return nil, err
		}
	}

	return spec, nil
}

// uriPatternString renders a Uri expression's pattern string: each Literal
// segment verbatim, each Variable segment as "{name}".
func uriPatternString(uri *Expr, interner *Interner) string {
	if len(uri.URISegments) == 0 {
		return "/"
	}

	pattern := ""

	for _, seg := range uri.URISegments {
		pattern += "/"

		if seg.Literal != nil {
			pattern += *seg.Literal
		} else {
			pattern += "{" + interner.Resolve(seg.Variable.Name) + "}"
		}
	}

	return pattern
}

// Emitter is an external collaborator: it consumes the IR and projects it
// into a target interchange format (e.g. an OpenAPI document). Compile
// never calls one itself; producing and feeding a Spec to an Emitter is
// left to a driver.
type Emitter interface {
	// Name identifies the target format, e.g. "openapi".
	Name() string

	// EmitRelation projects one Spec entry. Emit calls this once per
	// Entry in Spec order.
	EmitRelation(pattern string, rel *Relation) error
}

// Emit feeds every entry of spec to e in declaration order.
func Emit(e Emitter, spec *Spec) error {
	for _, entry := range spec.Entries {
		if err := e.EmitRelation(entry.Pattern, entry.Relation); err != nil {
			return err
		}
	}

	return nil
}
