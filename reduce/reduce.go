// Package reduce implements the syntax-directed β-reduction pass of the
// compiler pipeline.
package reduce

import (
	"fmt"

	apidsl "github.com/apidsl/apidsl"
)

// Reduce evaluates every top-level declaration in source order, threading
// one Environment across all of them so that a later Decl sees the fully
// reduced value of an earlier one: each Decl reduces its value in the
// current environment, then binds its name to the reduced result before
// the next Decl runs. It mutates and returns decls.
func Reduce(decls []*apidsl.Expr) ([]*apidsl.Expr, error) {
	env := apidsl.NewEnvironment()

	for _, d := range decls {
		reduced, err := reduceExpr(d.Value, env)
		if err != nil {
			return nil, err
		}

		d.Value = reduced
		env.Bind(d.Name, d.Value)
	}

	return decls, nil
}

func reduceExpr(e *apidsl.Expr, env *apidsl.Environment) (*apidsl.Expr, error) {
	if e == nil {
		return nil, nil
	}

	switch e.Kind {
	case apidsl.KindPrim:
		return e, nil

	case apidsl.KindURI:
		for _, seg := range e.URISegments {
			if seg.Variable == nil || seg.Variable.Schema == nil {
				continue
			}

			r, err := reduceExpr(seg.Variable.Schema, env)
			if err != nil {
				return nil, err
			}

			seg.Variable.Schema = r
		}

		return e, nil

	case apidsl.KindObject:
		for _, p := range e.Props {
			r, err := reduceExpr(p.Schema, env)
			if err != nil {
				return nil, err
			}

			p.Schema = r
		}

		return e, nil

	case apidsl.KindArray:
		r, err := reduceExpr(e.Item, env)
		if err != nil {
			return nil, err
		}

		e.Item = r

		return e, nil

	case apidsl.KindOp:
		return reduceOp(e, env)

	case apidsl.KindRel:
		uri, err := reduceExpr(e.RelURI, env)
		if err != nil {
			return nil, err
		}

		e.RelURI = uri

		for _, xfer := range e.Xfers {
			if xfer.Domain != nil {
				r, err := reduceExpr(xfer.Domain.Schema, env)
				if err != nil {
					return nil, err
				}

				xfer.Domain.Schema = r
			}

			r, err := reduceExpr(xfer.Range.Schema, env)
			if err != nil {
				return nil, err
			}

			xfer.Range.Schema = r
		}

		return e, nil

	case apidsl.KindVar:
		bound := env.Lookup(e.Name)
		if bound == nil || bound.Kind == apidsl.KindBinding {
			// Either unresolved (left for the free-variable check) or a
			// parameter occurrence not yet applied: leave the Var in place.
			return e, nil
		}

		return reduceExpr(cloneExpr(bound), env)

	case apidsl.KindBinding:
		return e, nil

	case apidsl.KindLambda:
		// Functions are transparent but their bodies are only ever reduced
		// at an application site, with parameters bound to concrete reduced
		// arguments: never eagerly, and never with the Binding placeholders
		// that would otherwise stand in for those arguments. The first time
		// a given Lambda value is reduced (at its defining Decl, or when a
		// bare reference to it is cloned and reduced), it captures the
		// environment it was defined in, so later applications resolve free
		// variables against that scope instead of whatever is ambient at the
		// call site.
		if e.Closure == nil {
			e.Closure = env.Snapshot()
		}

		return e, nil

	case apidsl.KindApp:
		return reduceApp(e, env)

	default:
		return e, nil
	}
}

// reduceOp reduces every operand, then flattens any nested Op of the same
// kind into this one's operand list, and collapses a singleton operand list
// to that one operand.
func reduceOp(e *apidsl.Expr, env *apidsl.Environment) (*apidsl.Expr, error) {
	operands := make([]*apidsl.Expr, 0, len(e.Operands))

	for _, o := range e.Operands {
		r, err := reduceExpr(o, env)
		if err != nil {
			return nil, err
		}

		if r.Kind == apidsl.KindOp && r.Op == e.Op {
			operands = append(operands, r.Operands...)
		} else {
			operands = append(operands, r)
		}
	}

	switch len(operands) {
	case 0:
		return nil, apidsl.NewInvalidArityError(e.Pos, "operator "+e.Op.String()+" has no operands")
	case 1:
		return operands[0], nil
	default:
		e.Operands = operands

		return e, nil
	}
}

// reduceApp implements the App{head: Lambda{bs, body}, args} rewrite:
// reduce head and every argument, require head resolved to a Lambda whose
// parameter count matches, bind each parameter to its reduced argument in
// a fresh frame pushed onto the Lambda's own closure, reduce the body
// under that, then pop. Arguments are reduced in the caller's environment
// (env); the body is reduced in the callee's closure, not env. A Lambda is
// only ever applied against the scope it closed over at definition time
// (see reduceExpr's KindLambda case).
func reduceApp(e *apidsl.Expr, env *apidsl.Environment) (*apidsl.Expr, error) {
	head, err := reduceExpr(e.Head, env)
	if err != nil {
		return nil, err
	}

	if head.Kind != apidsl.KindLambda {
		return nil, apidsl.NewInvalidTypesError(e.Pos, "application of a value that did not reduce to a function")
	}

	args := make([]*apidsl.Expr, len(e.Args))

	for i, a := range e.Args {
		r, err := reduceExpr(a, env)
		if err != nil {
			return nil, err
		}

		args[i] = r
	}

	if len(head.Params) != len(args) {
		return nil, apidsl.NewInvalidArityError(
			e.Pos,
			fmt.Sprintf("expected %d argument(s), got %d", len(head.Params), len(args)),
		)
	}

	callEnv := head.Closure
	if callEnv == nil {
		// Defensive: every Lambda is reduced (and so closure-captured)
		// before it can ever be applied, since App always reduces its head
		// first. This only guards against a future caller that hands
		// reduceApp an unreduced Lambda directly.
		callEnv = env
	}

	callEnv.PushFrame()

	for i, p := range head.Params {
		callEnv.Bind(p.Name, args[i])
	}

	result, err := reduceExpr(head.Body, callEnv)

	callEnv.PopFrame()

	if err != nil {
		return nil, err
	}

	return result, nil
}
