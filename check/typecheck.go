// Package check implements the structural type-check and free-variable
// check that run after reduction has produced a ground, substituted tree.
package check

import apidsl "github.com/apidsl/apidsl"

// TypeCheck re-verifies the structural predicates only partially enforced
// by unification equality: the is_schema side conditions on Object
// properties, Array items, Sum/Any operands, and Content schemas, plus the
// Primitive condition on URI variable schemas. The Content nodes' own tags
// are not re-checked. Tags
// alone no longer carry that information once beta-reduction has
// eliminated the App/Lambda nodes equality was collected against. A
// top-level Decl whose reduced value is itself a bare Lambda is an
// unapplied helper function: it contributes nothing to the IR (only
// Rel-valued declarations are emitted) and is skipped here rather than
// rejected for the App/Lambda nodes its own body may still contain.
func TypeCheck(decls []*apidsl.Expr) error {
	for _, d := range decls {
		if d.Value.Kind == apidsl.KindLambda {
			continue
		}

		if err := checkExpr(d.Value); err != nil {
			return err
		}
	}

	return nil
}

func checkExpr(e *apidsl.Expr) error {
	if e == nil {
		return nil
	}

	switch e.Kind {
	case apidsl.KindPrim:
		if e.Tag.Kind != apidsl.TagPrimitive {
			return wantTag(e, "Primitive")
		}

	case apidsl.KindURI:
		if e.Tag.Kind != apidsl.TagURI {
			return wantTag(e, "Uri")
		}

		for _, seg := range e.URISegments {
			if seg.Variable == nil || seg.Variable.Schema == nil {
				continue
			}

			if err := checkExpr(seg.Variable.Schema); err != nil {
				return err
			}

			// An unresolved Var is let through, as IsSchema does, so that an
			// undeclared identifier is reported by FreeVars.
			if k := seg.Variable.Schema.Tag.Kind; k != apidsl.TagPrimitive && k != apidsl.TagVar {
				return apidsl.NewInvalidTypesError(seg.Variable.Pos, "uri variable schema must be a primitive")
			}
		}

	case apidsl.KindObject:
		if e.Tag.Kind != apidsl.TagObject {
			return wantTag(e, "Object")
		}

		for _, p := range e.Props {
			if !p.Schema.Tag.IsSchema() {
				return apidsl.NewInvalidTypesError(p.Schema.Pos, "property schema must be a schema kind")
			}

			if err := checkExpr(p.Schema); err != nil {
				return err
			}
		}

	case apidsl.KindArray:
		if e.Tag.Kind != apidsl.TagArray {
			return wantTag(e, "Array")
		}

		if !e.Item.Tag.IsSchema() {
			return apidsl.NewInvalidTypesError(e.Item.Pos, "array item must be a schema kind")
		}

		if err := checkExpr(e.Item); err != nil {
			return err
		}

	case apidsl.KindOp:
		if e.Op == apidsl.OpJoin {
			if e.Tag.Kind != apidsl.TagObject {
				return wantTag(e, "Object")
			}

			for _, o := range e.Operands {
				if o.Tag.Kind != apidsl.TagObject {
					return wantTag(o, "Object")
				}
			}
		} else {
			if !e.Tag.IsSchema() {
				return apidsl.NewInvalidTypesError(e.Pos, "ill-formed alternative: operand is not a schema kind")
			}

			for _, o := range e.Operands {
				if !o.Tag.IsSchema() {
					return apidsl.NewInvalidTypesError(o.Pos, "ill-formed alternative: operand is not a schema kind")
				}
			}
		}

		for _, o := range e.Operands {
			if err := checkExpr(o); err != nil {
				return err
			}
		}

	case apidsl.KindRel:
		if e.Tag.Kind != apidsl.TagRelation {
			return wantTag(e, "Relation")
		}

		if err := checkExpr(e.RelURI); err != nil {
			return err
		}

		for _, xfer := range e.Xfers {
			if xfer.Domain != nil {
				if !xfer.Domain.Schema.Tag.IsSchema() {
					return apidsl.NewInvalidTypesError(xfer.Domain.Pos, "request content must be a schema kind")
				}

				if err := checkExpr(xfer.Domain.Schema); err != nil {
					return err
				}
			}

			if !xfer.Range.Schema.Tag.IsSchema() {
				return apidsl.NewInvalidTypesError(xfer.Range.Pos, "response content must be a schema kind")
			}

			if err := checkExpr(xfer.Range.Schema); err != nil {
				return err
			}
		}

	case apidsl.KindApp, apidsl.KindLambda:
		return apidsl.NewInvalidTypesError(e.Pos, "a function value or application survived reduction")
	}

	return nil
}

func wantTag(e *apidsl.Expr, want string) error {
	return apidsl.NewInvalidTypesError(e.Pos, "expected a "+want+" tag")
}
