package main

import (
	apidsl "github.com/apidsl/apidsl"
)

// specDoc, relationDoc, transferDoc, and contentDoc are the JSON-facing
// shapes rendered from a *pipeline.Result. They exist only at this CLI
// boundary: package apidsl's own types carry interned Symbols and raw
// *Expr trees, neither of which marshal to anything useful on their own.
// Projecting the IR into a target interchange format is an external
// Emitter's job; this is just enough projection for a human or a script
// reading the driver's own diagnostic output.
type specDoc struct {
	Relations []relationDoc `json:"relations"`
}

type relationDoc struct {
	Pattern   string                  `json:"pattern"`
	Transfers map[string]transferDoc `json:"transfers"`
}

type transferDoc struct {
	Domain *contentDoc `json:"domain,omitempty"`
	Range  *contentDoc `json:"range"`
}

type contentDoc struct {
	Description *string `json:"description,omitempty"`
	Schema      any     `json:"schema"`
}

func renderSpec(spec *apidsl.Spec, interner *apidsl.Interner) specDoc {
	doc := specDoc{Relations: make([]relationDoc, 0, len(spec.Entries))}

	for _, entry := range spec.Entries {
		xfers := make(map[string]transferDoc, len(entry.Relation.Xfers))

		for method, xfer := range entry.Relation.Xfers {
			td := transferDoc{Range: renderContent(xfer.Range, interner)}
			if xfer.Domain != nil {
				td.Domain = renderContent(xfer.Domain, interner)
			}

			xfers[method.String()] = td
		}

		doc.Relations = append(doc.Relations, relationDoc{
			Pattern:   entry.Pattern,
			Transfers: xfers,
		})
	}

	return doc
}

func renderContent(c *apidsl.Content, interner *apidsl.Interner) *contentDoc {
	return &contentDoc{
		Description: c.Desc,
		Schema:      renderSchema(c.Schema, interner),
	}
}

// renderSchema projects a reduced, checked Expr schema into plain
// JSON-marshalable values. It renders the Primitive, Uri, Object, and
// Array kinds; any other kind, including a join, sum, or any operator
// expression that passed check.TypeCheck, is rendered as type "unknown".
func renderSchema(e *apidsl.Expr, interner *apidsl.Interner) any {
	if e == nil {
		return nil
	}

	switch e.Kind {
	case apidsl.KindPrim:
		return map[string]any{"type": e.Prim.String()}
	case apidsl.KindURI:
		segments := make([]any, 0, len(e.URISegments))

		for _, seg := range e.URISegments {
			if seg.Literal != nil {
				segments = append(segments, *seg.Literal)
				continue
			}

			segments = append(segments, map[string]any{
				"variable": interner.Resolve(seg.Variable.Name),
				"schema":   renderProp(seg.Variable, interner),
			})
		}

		return map[string]any{"type": "uri", "segments": segments}
	case apidsl.KindObject:
		props := make(map[string]any, len(e.Props))
		for _, p := range e.Props {
			props[interner.Resolve(p.Name)] = renderProp(p, interner)
		}

		return map[string]any{"type": "object", "properties": props}
	case apidsl.KindArray:
		return map[string]any{"type": "array", "items": renderSchema(e.Item, interner)}
	default:
		return map[string]any{"type": "unknown"}
	}
}

func renderProp(p *apidsl.Prop, interner *apidsl.Interner) any {
	if p.Schema != nil {
		return renderSchema(p.Schema, interner)
	}

	return map[string]any{"type": p.ImplicitTag.String()}
}
