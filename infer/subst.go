package infer

import apidsl "github.com/apidsl/apidsl"

// Apply rewrites every node's tag (and every Content's and implicit-schema
// URI variable's tag) to its resolved form under s. A tag that was never
// constrained stays a bare Var here. That happens for a reference to an
// undeclared identifier, which the free-variable check later rejects, and
// for the parameters (and anything built only from them) of a function
// that is never applied, which TypeCheck skips and which is accepted.
func Apply(decls []*apidsl.Expr, s *Substitution) {
	for _, d := range decls {
		apply(d, s)
	}
}

func apply(e *apidsl.Expr, s *Substitution) {
	if e == nil {
		return
	}

	e.Tag = s.Resolve(e.Tag)

	switch e.Kind {
	case apidsl.KindURI:
		for _, seg := range e.URISegments {
			if seg.Variable == nil {
				continue
			}

			if seg.Variable.Schema != nil {
				apply(seg.Variable.Schema, s)
			} else {
				seg.Variable.ImplicitTag = s.Resolve(seg.Variable.ImplicitTag)
			}
		}

	case apidsl.KindObject:
		for _, p := range e.Props {
			apply(p.Schema, s)
		}

	case apidsl.KindArray:
		apply(e.Item, s)

	case apidsl.KindOp:
		for _, o := range e.Operands {
			apply(o, s)
		}

	case apidsl.KindRel:
		apply(e.RelURI, s)

		for _, xfer := range e.Xfers {
			applyContent(xfer.Domain, s)
			applyContent(xfer.Range, s)
		}

	case apidsl.KindLambda:
		for _, p := range e.Params {
			apply(p, s)
		}

		apply(e.Body, s)

	case apidsl.KindApp:
		apply(e.Head, s)

		for _, a := range e.Args {
			apply(a, s)
		}

	case apidsl.KindDecl:
		apply(e.Value, s)
	}
}

func applyContent(content *apidsl.Content, s *Substitution) {
	if content == nil {
		return
	}

	content.Tag = s.Resolve(content.Tag)
	apply(content.Schema, s)
}
