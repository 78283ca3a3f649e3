// Package infer implements tag assignment, constraint collection,
// unification, and substitution: the type-inference stage of the compiler
// pipeline.
package infer

import apidsl "github.com/apidsl/apidsl"

// Counter issues fresh inference variable ids from a monotonic sequence,
// shared across an entire program so two nodes never collide.
type Counter struct {
	next int
}

// Fresh returns a new TagVar tag and advances the counter.
func (c *Counter) Fresh() apidsl.Tag {
	t := apidsl.Tag{Kind: apidsl.TagVar, Var: c.next}
	c.next++

	return t
}

// AssignTags walks every declaration's expression tree, giving each node
// (and each Content and implicit-schema URI variable) a fresh Var tag.
// Binding occurrences and variable references are tagged independently of
// whatever they resolve to; unification is what later proves them equal.
func AssignTags(decls []*apidsl.Expr) *Counter {
	c := &Counter{}

	for _, d := range decls {
		assign(d, c)
	}

	return c
}

func assign(e *apidsl.Expr, c *Counter) {
	if e == nil {
		return
	}

	e.Tag = c.Fresh()

	switch e.Kind {
	case apidsl.KindURI:
		for _, seg := range e.URISegments {
			if seg.Variable == nil {
				continue
			}

			if seg.Variable.Schema != nil {
				assign(seg.Variable.Schema, c)
			} else {
				seg.Variable.ImplicitTag = c.Fresh()
			}
		}

	case apidsl.KindObject:
		for _, p := range e.Props {
			assign(p.Schema, c)
		}

	case apidsl.KindArray:
		assign(e.Item, c)

	case apidsl.KindOp:
		for _, o := range e.Operands {
			assign(o, c)
		}

	case apidsl.KindRel:
		assign(e.RelURI, c)

		for _, xfer := range e.Xfers {
			assignContent(xfer.Domain, c)
			assignContent(xfer.Range, c)
		}

	case apidsl.KindLambda:
		for _, p := range e.Params {
			assign(p, c)
		}

		assign(e.Body, c)

	case apidsl.KindApp:
		assign(e.Head, c)

		for _, a := range e.Args {
			assign(a, c)
		}

	case apidsl.KindDecl:
		assign(e.Value, c)
	}
}

func assignContent(content *apidsl.Content, c *Counter) {
	if content == nil {
		return
	}

	content.Tag = c.Fresh()
	assign(content.Schema, c)
}
