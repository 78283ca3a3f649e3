package apidsl

// Node is implemented by every typed expression and declaration; it
// provides the span every node carries back to its source.
type Node interface {
	Span() Span
}

// ExprKind discriminates the tagged union of expression forms. A single
// struct with kind-specific fields (rather than an interface per kind)
// mirrors how this corpus represents closed sum types elsewhere: one
// struct, a discriminant, and the fields that apply to each arm.
type ExprKind int

// The expression kinds.
const (
	KindPrim ExprKind = iota
	KindURI
	KindObject
	KindArray
	KindOp
	KindRel
	KindVar
	KindBinding
	KindLambda
	KindApp
	KindDecl
)

// PrimKind is the payload of a Prim expression.
type PrimKind int

// The three primitive kinds.
const (
	PrimNum PrimKind = iota
	PrimStr
	PrimBool
)

func (p PrimKind) String() string {
	switch p {
	case PrimNum:
		return "num"
	case PrimStr:
		return "str"
	case PrimBool:
		return "bool"
	default:
		return "?"
	}
}

// OpKind is the payload of an Op expression.
type OpKind int

// The three variadic operators.
const (
	OpJoin OpKind = iota // &
	OpSum                // |
	OpAny                // ~
)

func (o OpKind) String() string {
	switch o {
	case OpJoin:
		return "&"
	case OpSum:
		return "|"
	case OpAny:
		return "~"
	default:
		return "?"
	}
}

// TagKind names the coarse type label attached to every expression node.
type TagKind int

// The tag kinds. TagVar carries a fresh inference variable id.
const (
	TagPrimitive TagKind = iota
	TagURI
	TagObject
	TagArray
	TagContent
	TagRelation
	TagVar
)

// Tag is the coarse type label on an expression node.
type Tag struct {
	Kind TagKind
	Var  int // meaningful only when Kind == TagVar
}

// IsSchema reports whether a tag may appear as a data schema: Primitive,
// Uri, Object, or Array, or an as-yet-unresolved Var (which may still unify
// to one of those). The structural type-checker, which runs after
// substitution and reduction have produced a ground tree, re-checks this on
// ground tags only: a Var surviving that far would mean something upstream
// already went wrong.
func (t Tag) IsSchema() bool {
	switch t.Kind {
	case TagPrimitive, TagURI, TagObject, TagArray, TagVar:
		return true
	default:
		return false
	}
}

func (t Tag) String() string {
	switch t.Kind {
	case TagPrimitive:
		return "Primitive"
	case TagURI:
		return "Uri"
	case TagObject:
		return "Object"
	case TagArray:
		return "Array"
	case TagContent:
		return "Content"
	case TagRelation:
		return "Relation"
	case TagVar:
		return "Var"
	default:
		return "?"
	}
}

// Prop is a named schema field, used both in Object literals and as a URI
// variable's declared schema. Schema is nil for a URI path variable written
// without an explicit `: expr` (e.g. bare `{id}`); ImplicitTag then carries
// the tag such a variable is assigned directly. Tag-assignment,
// constraint-collection, and substitution special-case a nil Schema by
// reading/writing ImplicitTag instead; reduction, type-checking, and the
// free-variable check never need to, since there is no Expr node to reduce
// or check in the first place.
type Prop struct {
	Name        Symbol
	Schema      *Expr
	ImplicitTag Tag
	Pos         Span
}

// Span returns the source span of the property.
func (p *Prop) Span() Span { return p.Pos }

// UriSegment is one element of a Uri expression's path.
type UriSegment struct {
	// Exactly one of Literal or Variable is set.
	Literal  *string
	Variable *Prop
	Pos      Span
}

// Span returns the source span of the segment.
func (s *UriSegment) Span() Span { return s.Pos }

// Content is the schema (and optional description) carried by one side of
// a Transfer. Tag is the Content node's own coarse type label, constrained
// to TagContent independently of Schema's tag.
type Content struct {
	Schema *Expr
	Desc   *string
	Tag    Tag
	Pos    Span
}

// Span returns the source span of the content.
func (c *Content) Span() Span { return c.Pos }

// Transfer associates an optional request Content with a required response
// Content for one HTTP method on a Rel.
type Transfer struct {
	Domain *Content // request body; nil when the method takes none
	Range  *Content // response body
	Pos    Span
}

// Span returns the source span of the transfer.
func (t *Transfer) Span() Span { return t.Pos }

// Expr is a single node of the typed expression tree. Every node carries a
// Tag (assigned during tag assignment, resolved after unification), an
// optional human-readable description, and a span. Which of the
// kind-specific fields are populated is determined by Kind.
type Expr struct {
	Kind ExprKind
	Tag  Tag
	Desc *string
	Pos  Span

	// KindPrim
	Prim PrimKind

	// KindURI
	URISegments []*UriSegment

	// KindObject
	Props []*Prop

	// KindArray
	Item *Expr

	// KindOp
	Op       OpKind
	Operands []*Expr

	// KindRel
	RelURI *Expr
	Xfers  map[Method]*Transfer

	// KindVar, KindBinding, KindDecl: the referenced/introduced/declared name.
	Name Symbol

	// KindLambda
	Params  []*Expr // each a KindBinding node
	Body    *Expr
	Closure *Environment // captured at first reduction; see Environment.Snapshot

	// KindApp
	Head *Expr
	Args []*Expr

	// KindDecl
	Value *Expr
}

// Span returns the source span of the node.
func (e *Expr) Span() Span { return e.Pos }

