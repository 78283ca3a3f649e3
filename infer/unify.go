package infer

import (
	"fmt"

	apidsl "github.com/apidsl/apidsl"
)

// Substitution maps inference variable ids to the tag they were unified
// with. It is built incrementally by Unify and is idempotent after
// saturation: Resolve always returns a tag that is either ground or an
// unbound Var, never a Var with an entry of its own.
type Substitution struct {
	bindings map[int]apidsl.Tag
}

// Resolve follows t through the substitution to a fixed point: a ground
// tag, or a Var with no binding.
func (s *Substitution) Resolve(t apidsl.Tag) apidsl.Tag {
	for t.Kind == apidsl.TagVar {
		bound, ok := s.bindings[t.Var]
		if !ok {
			return t
		}

		t = bound
	}

	return t
}

// Unify solves cs into a Substitution by standard first-order unification
// over Tag. Every non-variable tag is a ground constant, so no occurs
// check is required: a Var can only ever bind to a ground tag or to
// another Var, never to a compound term containing itself.
func Unify(cs *ConstraintSet) (*Substitution, error) {
	s := &Substitution{bindings: make(map[int]apidsl.Tag)}

	for _, c := range cs.items {
		if err := s.unify(c.A, c.B, c.Span); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Substitution) unify(a, b apidsl.Tag, span apidsl.Span) error {
	a = s.Resolve(a)
	b = s.Resolve(b)

	switch {
	case a.Kind == apidsl.TagVar && b.Kind == apidsl.TagVar && a.Var == b.Var:
		return nil

	case a.Kind == apidsl.TagVar:
		s.bindings[a.Var] = b

		return nil

	case b.Kind == apidsl.TagVar:
		s.bindings[b.Var] = a

		return nil

	case a.Kind == b.Kind:
		return nil

	default:
		return apidsl.NewInvalidTypesErrorWith2(span, span, fmt.Sprintf("cannot unify %s with %s", a, b))
	}
}
