package infer

import apidsl "github.com/apidsl/apidsl"

// Constraint is one equality obligation between two tags, remembering the
// span(s) that produced it for diagnostics should unification fail.
type Constraint struct {
	A, B  apidsl.Tag
	Span  apidsl.Span
	Span2 *apidsl.Span
}

// ConstraintSet is the ordered worklist built by a constraint-collection
// walk and consumed by the unifier.
type ConstraintSet struct {
	items []Constraint
}

// Items returns the collected constraints in collection order.
func (cs *ConstraintSet) Items() []Constraint { return cs.items }

func (cs *ConstraintSet) eq(a, b apidsl.Tag, span apidsl.Span) {
	cs.items = append(cs.items, Constraint{A: a, B: b, Span: span})
}

// Collect performs a post-order constraint-collection walk over every
// top-level declaration, threading a single Environment binding each
// declared name to its (not-yet-reduced) value so later Decls and Lambda
// bodies can resolve Var references and, for App, resolve a head to the
// Lambda it must reduce against. Declarations bind sequentially, so a
// reference that would need a later declaration, including self-reference
// inside a not-yet-bound recursive `let`, resolves to nothing and is
// reported immediately as ErrInvalidTypes for App heads (or deferred to
// the free-variable check for plain Var occurrences).
func Collect(decls []*apidsl.Expr) (*ConstraintSet, error) {
	cs := &ConstraintSet{}
	env := apidsl.NewEnvironment()

	for _, d := range decls {
		if err := constrain(d.Value, env, cs); err != nil {
			return nil, err
		}

		env.Bind(d.Name, d.Value)
	}

	return cs, nil
}

func constrain(e *apidsl.Expr, env *apidsl.Environment, cs *ConstraintSet) error {
	if e == nil {
		return nil
	}

	switch e.Kind {
	case apidsl.KindPrim:
		cs.eq(e.Tag, apidsl.Tag{Kind: apidsl.TagPrimitive}, e.Pos)

	case apidsl.KindURI:
		cs.eq(e.Tag, apidsl.Tag{Kind: apidsl.TagURI}, e.Pos)

		for _, seg := range e.URISegments {
			if seg.Variable == nil {
				continue
			}

			if seg.Variable.Schema != nil {
				if err := constrain(seg.Variable.Schema, env, cs); err != nil {
					return err
				}

				cs.eq(seg.Variable.Schema.Tag, apidsl.Tag{Kind: apidsl.TagPrimitive}, seg.Variable.Pos)
			} else {
				cs.eq(seg.Variable.ImplicitTag, apidsl.Tag{Kind: apidsl.TagPrimitive}, seg.Variable.Pos)
			}
		}

	case apidsl.KindObject:
		cs.eq(e.Tag, apidsl.Tag{Kind: apidsl.TagObject}, e.Pos)

		for _, p := range e.Props {
			if err := constrain(p.Schema, env, cs); err != nil {
				return err
			}
		}

	case apidsl.KindArray:
		cs.eq(e.Tag, apidsl.Tag{Kind: apidsl.TagArray}, e.Pos)

		if err := constrain(e.Item, env, cs); err != nil {
			return err
		}

	case apidsl.KindOp:
		for _, o := range e.Operands {
			if err := constrain(o, env, cs); err != nil {
				return err
			}
		}

		if e.Op == apidsl.OpJoin {
			cs.eq(e.Tag, apidsl.Tag{Kind: apidsl.TagObject}, e.Pos)

			for _, o := range e.Operands {
				cs.eq(o.Tag, apidsl.Tag{Kind: apidsl.TagObject}, o.Pos)
			}
		} else {
			if len(e.Operands) > 0 {
				cs.eq(e.Tag, e.Operands[0].Tag, e.Pos)

				for _, o := range e.Operands[1:] {
					cs.eq(o.Tag, e.Operands[0].Tag, o.Pos)
				}
			}
		}

	case apidsl.KindRel:
		cs.eq(e.Tag, apidsl.Tag{Kind: apidsl.TagRelation}, e.Pos)

		if err := constrain(e.RelURI, env, cs); err != nil {
			return err
		}

		cs.eq(e.RelURI.Tag, apidsl.Tag{Kind: apidsl.TagURI}, e.RelURI.Pos)

		for _, xfer := range e.Xfers {
			if xfer.Domain != nil {
				if err := constrain(xfer.Domain.Schema, env, cs); err != nil {
					return err
				}

				cs.eq(xfer.Domain.Tag, apidsl.Tag{Kind: apidsl.TagContent}, xfer.Domain.Pos)
			}

			if err := constrain(xfer.Range.Schema, env, cs); err != nil {
				return err
			}

			cs.eq(xfer.Range.Tag, apidsl.Tag{Kind: apidsl.TagContent}, xfer.Range.Pos)
		}

	case apidsl.KindVar:
		if bound := env.Lookup(e.Name); bound != nil && bound.Kind != apidsl.KindLambda {
			cs.eq(e.Tag, bound.Tag, e.Pos)
		}

	case apidsl.KindBinding:
		// No equation of its own; occurrences are tied to it via KindVar above.

	case apidsl.KindLambda:
		env.PushFrame()

		for _, p := range e.Params {
			env.Bind(p.Name, p)
		}

		err := constrain(e.Body, env, cs)

		env.PopFrame()

		if err != nil {
			return err
		}

		cs.eq(e.Tag, e.Body.Tag, e.Pos)

	case apidsl.KindApp:
		if err := constrain(e.Head, env, cs); err != nil {
			return err
		}

		for _, a := range e.Args {
			if err := constrain(a, env, cs); err != nil {
				return err
			}
		}

		lambda := resolveLambda(e.Head, env)
		if lambda == nil {
			return apidsl.NewInvalidTypesError(e.Pos, "application of a value that is not a function")
		}

		// Tie each parameter to its argument; an arity mismatch is reported
		// by reduction, so only the overlapping prefix is constrained here.
		for i, a := range e.Args {
			if i < len(lambda.Params) {
				cs.eq(lambda.Params[i].Tag, a.Tag, a.Pos)
			}
		}

		cs.eq(e.Tag, lambda.Body.Tag, e.Pos)
	}

	return nil
}

// resolveLambda follows Var references through env to find the Lambda an
// App's head ultimately names, or nil if it does not name one.
func resolveLambda(head *apidsl.Expr, env *apidsl.Environment) *apidsl.Expr {
	switch head.Kind {
	case apidsl.KindLambda:
		return head
	case apidsl.KindVar:
		if bound := env.Lookup(head.Name); bound != nil {
			return resolveLambda(bound, env)
		}

		return nil
	default:
		return nil
	}
}
