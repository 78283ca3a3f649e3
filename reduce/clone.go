package reduce

import apidsl "github.com/apidsl/apidsl"

// cloneExpr deep-copies an expression tree so that reducing one Var
// occurrence's substituted value can never mutate another occurrence's
// copy of the same declaration or argument: every lookup clones before
// reducing.
func cloneExpr(e *apidsl.Expr) *apidsl.Expr {
	if e == nil {
		return nil
	}

	c := *e

	switch e.Kind {
	case apidsl.KindURI:
		c.URISegments = make([]*apidsl.UriSegment, len(e.URISegments))
		for i, seg := range e.URISegments {
			c.URISegments[i] = cloneSegment(seg)
		}

	case apidsl.KindObject:
		c.Props = make([]*apidsl.Prop, len(e.Props))
		for i, p := range e.Props {
			c.Props[i] = cloneProp(p)
		}

	case apidsl.KindArray:
		c.Item = cloneExpr(e.Item)

	case apidsl.KindOp:
		c.Operands = make([]*apidsl.Expr, len(e.Operands))
		for i, o := range e.Operands {
			c.Operands[i] = cloneExpr(o)
		}

	case apidsl.KindRel:
		c.RelURI = cloneExpr(e.RelURI)
		c.Xfers = make(map[apidsl.Method]*apidsl.Transfer, len(e.Xfers))

		for m, x := range e.Xfers {
			c.Xfers[m] = cloneTransfer(x)
		}

	case apidsl.KindLambda:
		c.Params = make([]*apidsl.Expr, len(e.Params))
		for i, p := range e.Params {
			c.Params[i] = cloneExpr(p)
		}

		c.Body = cloneExpr(e.Body)

	case apidsl.KindApp:
		c.Head = cloneExpr(e.Head)
		c.Args = make([]*apidsl.Expr, len(e.Args))

		for i, a := range e.Args {
			c.Args[i] = cloneExpr(a)
		}

	case apidsl.KindDecl:
		c.Value = cloneExpr(e.Value)
	}

	return &c
}

func cloneProp(p *apidsl.Prop) *apidsl.Prop {
	if p == nil {
		return nil
	}

	c := *p
	c.Schema = cloneExpr(p.Schema)

	return &c
}

func cloneSegment(s *apidsl.UriSegment) *apidsl.UriSegment {
	c := *s
	c.Variable = cloneProp(s.Variable)

	return &c
}

func cloneContent(c0 *apidsl.Content) *apidsl.Content {
	if c0 == nil {
		return nil
	}

	c := *c0
	c.Schema = cloneExpr(c0.Schema)

	return &c
}

func cloneTransfer(t *apidsl.Transfer) *apidsl.Transfer {
	c := *t
	c.Domain = cloneContent(t.Domain)
	c.Range = cloneContent(t.Range)

	return &c
}
