package apidsl

// lowerer walks a CST arena and rebuilds it as the typed expression tree.
// It carries only the two read-only inputs every lowering method needs
// (the arena and the interner used to resolve identifier text), so
// lowering itself is free of any mutable compiler state. Tags are not
// assigned until the inference pass that follows.
type lowerer struct {
	cst      *CST
	interner *Interner
}

// Lower rebuilds cst as an ordered list of top-level Decl expressions, one
// per `let` statement, in source order: declarations are lowered, and
// later passes see them, in the order they appear.
func Lower(cst *CST, interner *Interner) ([]*Expr, error) {
	lw := &lowerer{cst: cst, interner: interner}

	rule, children, _ := cst.Node(cst.Root())
	if rule != RuleProgram {
		panic("apidsl: Lower called on a non-program root")
	}

	decls := make([]*Expr, 0, len(children))

	for _, c := range children {
		decl, err := lw.lowerStmt(c.Node)
		if err != nil {
			return nil, err
		}

		decls = append(decls, decl)
	}

	return decls, nil
}

func (lw *lowerer) text(ref TokenRef) string { return lw.cst.Token(ref).Value }

func (lw *lowerer) sym(ref TokenRef) Symbol { return lw.cst.Token(ref).Sym }

// lowerStmt lowers `stmt := 'let' ident ident* '=' expr` into a KindDecl
// node. A parameter list turns the right-hand side into a Lambda, e.g.
// `let f x y = e` becomes `Decl(f, Lambda{[x, y], e})`.
func (lw *lowerer) lowerStmt(id NodeID) (*Expr, error) {
	_, children, span := lw.cst.Node(id)

	nameRef := children[0].Token
	name := lw.sym(nameRef)

	var params []*Expr

	i := 1
	for children[i].IsToken() {
		pref := children[i].Token
		ptok := lw.cst.Token(pref)
		params = append(params, &Expr{Kind: KindBinding, Name: lw.sym(pref), Pos: ptok.Span})
		i++
	}

	body, err := lw.lowerExpr(children[i].Node)
	if err != nil {
		return nil, err
	}

	value := body

	if len(params) > 0 {
		value = &Expr{Kind: KindLambda, Params: params, Body: body, Pos: JoinSpans(params[0].Pos, body.Pos)}
	}

	return &Expr{Kind: KindDecl, Name: name, Value: value, Pos: span}, nil
}

// lowerExpr lowers a RuleExpr (or, when there was only a single join term,
// whatever that term lowered to) into a binary chain of KindOp nodes. The
// chain is left-associative here; flattening same-operator runs into a
// single variadic Op happens later, during reduction.
func (lw *lowerer) lowerExpr(id NodeID) (*Expr, error) {
	rule, children, span := lw.cst.Node(id)
	if rule != RuleExpr {
		return lw.lowerJoin(id)
	}

	left, err := lw.lowerJoin(children[0].Node)
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(children); i += 2 {
		opTok := lw.cst.Token(children[i].Token)

		right, err := lw.lowerJoin(children[i+1].Node)
		if err != nil {
			return nil, err
		}

		op := OpSum
		if opTok.Kind == TokenTilde {
			op = OpAny
		}

		left = &Expr{Kind: KindOp, Op: op, Operands: []*Expr{left, right}, Pos: JoinSpans(left.Pos, right.Pos)}
	}

	_ = span

	return left, nil
}

// lowerJoin lowers a RuleJoin node (or passes through to the next level)
// into a binary chain of OpJoin nodes, by the same left-to-right, flatten-
// later convention as lowerExpr.
func (lw *lowerer) lowerJoin(id NodeID) (*Expr, error) {
	rule, children, _ := lw.cst.Node(id)
	if rule != RuleJoin {
		return lw.lowerApplicationOrRel(id)
	}

	left, err := lw.lowerApplicationOrRel(children[0].Node)
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(children); i += 2 {
		right, err := lw.lowerApplicationOrRel(children[i+1].Node)
		if err != nil {
			return nil, err
		}

		left = &Expr{Kind: KindOp, Op: OpJoin, Operands: []*Expr{left, right}, Pos: JoinSpans(left.Pos, right.Pos)}
	}

	return left, nil
}

// lowerApplicationOrRel lowers either a plain application/atom or, when the
// parser recognized a trailing `on { ... }` suffix, a RuleRel.
func (lw *lowerer) lowerApplicationOrRel(id NodeID) (*Expr, error) {
	rule, children, span := lw.cst.Node(id)
	if rule != RuleRel {
		return lw.lowerApplication(id)
	}

	uri, err := lw.lowerApplication(children[0].Node)
	if err != nil {
		return nil, err
	}

	xfers := make(map[Method]*Transfer)

	for i := 1; i < len(children); i++ {
		c := children[i]
		if c.IsToken() {
			continue
		}

		rule, _, _ := lw.cst.Node(c.Node)
		if rule != RuleTransfer {
			continue
		}

		method, _ := methodFromToken(children[i-1].Token.Kind)

		xfer, err := lw.lowerTransfer(c.Node)
		if err != nil {
			return nil, err
		}

		xfers[method] = xfer
	}

	return &Expr{Kind: KindRel, RelURI: uri, Xfers: xfers, Pos: span}, nil
}

// lowerTransfer lowers `transfer := expr? '->' expr` into a Transfer.
func (lw *lowerer) lowerTransfer(id NodeID) (*Transfer, error) {
	_, children, span := lw.cst.Node(id)

	var domain *Content

	rangeIdx := len(children) - 1

	if len(children) == 3 {
		schema, err := lw.lowerExpr(children[0].Node)
		if err != nil {
			return nil, err
		}

		domain = &Content{Schema: schema, Pos: schema.Pos}
	}

	rngSchema, err := lw.lowerExpr(children[rangeIdx].Node)
	if err != nil {
		return nil, err
	}

	return &Transfer{Domain: domain, Range: &Content{Schema: rngSchema, Pos: rngSchema.Pos}, Pos: span}, nil
}

// lowerApplication lowers `application := atom atom*` into a single n-ary
// KindApp node: `f x y` becomes `App{Head: f, Args: [x, y]}`, matched
// against a Lambda's whole parameter list at once by reduction rather than
// curried one argument at a time.
func (lw *lowerer) lowerApplication(id NodeID) (*Expr, error) {
	rule, children, span := lw.cst.Node(id)
	if rule != RuleApplication {
		return lw.lowerAtom(id)
	}

	head, err := lw.lowerAtom(children[0].Node)
	if err != nil {
		return nil, err
	}

	args := make([]*Expr, 0, len(children)-1)

	for i := 1; i < len(children); i++ {
		arg, err := lw.lowerAtom(children[i].Node)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	return &Expr{Kind: KindApp, Head: head, Args: args, Pos: span}, nil
}

// lowerAtom lowers any atom form: a primitive literal, a uri, an object, an
// array, a bare variable reference, or a parenthesized sub-expression.
func (lw *lowerer) lowerAtom(id NodeID) (*Expr, error) {
	rule, children, span := lw.cst.Node(id)

	switch rule {
	case RulePrim:
		tok := lw.cst.Token(children[0].Token)

		var kind PrimKind

		switch tok.Kind {
		case TokenNum:
			kind = PrimNum
		case TokenStr:
			kind = PrimStr
		case TokenBool:
			kind = PrimBool
		}

		return &Expr{Kind: KindPrim, Prim: kind, Pos: span}, nil

	case RuleURI:
		return lw.lowerURI(id)

	case RuleObject:
		return lw.lowerObject(id)

	case RuleArray:
		return lw.lowerArray(id)

	case RuleAtom:
		if children[0].IsToken() && children[0].Token.Kind == TokenIdent {
			return &Expr{Kind: KindVar, Name: lw.sym(children[0].Token), Pos: span}, nil
		}

		// Parenthesized expression: '(' expr ')'.
		return lw.lowerExpr(children[1].Node)

	default:
		panic("apidsl: unexpected atom rule " + string(rule))
	}
}

// lowerURI lowers `uri := 'uri' | ('/' segment)+`.
func (lw *lowerer) lowerURI(id NodeID) (*Expr, error) {
	_, children, span := lw.cst.Node(id)

	if len(children) == 1 && children[0].IsToken() {
		return &Expr{Kind: KindURI, Pos: span}, nil
	}

	var segments []*UriSegment

	for i := 1; i < len(children); i += 2 {
		seg, err := lw.lowerSegment(children[i].Node)
		if err != nil {
			return nil, err
		}

		segments = append(segments, seg)
	}

	return &Expr{Kind: KindURI, URISegments: segments, Pos: span}, nil
}

// lowerSegment lowers `segment := literal | '{' ident (':' expr)? '}'`.
func (lw *lowerer) lowerSegment(id NodeID) (*UriSegment, error) {
	_, children, span := lw.cst.Node(id)

	if len(children) == 1 {
		text := lw.text(children[0].Token)

		return &UriSegment{Literal: &text, Pos: span}, nil
	}

	nameRef := children[1].Token
	prop := &Prop{Name: lw.sym(nameRef), Pos: span}

	if len(children) == 5 {
		schema, err := lw.lowerExpr(children[3].Node)
		if err != nil {
			return nil, err
		}

		prop.Schema = schema
	}

	return &UriSegment{Variable: prop, Pos: span}, nil
}

// lowerObject lowers `object := '{' (prop (',' prop)*)? '}'`.
func (lw *lowerer) lowerObject(id NodeID) (*Expr, error) {
	_, children, span := lw.cst.Node(id)

	var props []*Prop

	for _, c := range children {
		if c.IsToken() {
			continue
		}

		rule, _, _ := lw.cst.Node(c.Node)
		if rule != RuleProp {
			continue
		}

		prop, err := lw.lowerProp(c.Node)
		if err != nil {
			return nil, err
		}

		props = append(props, prop)
	}

	return &Expr{Kind: KindObject, Props: props, Pos: span}, nil
}

// lowerProp lowers `prop := ident ':' expr`.
func (lw *lowerer) lowerProp(id NodeID) (*Prop, error) {
	_, children, span := lw.cst.Node(id)

	schema, err := lw.lowerExpr(children[1].Node)
	if err != nil {
		return nil, err
	}

	return &Prop{Name: lw.sym(children[0].Token), Schema: schema, Pos: span}, nil
}

// lowerArray lowers `array := '[' expr ']'`.
func (lw *lowerer) lowerArray(id NodeID) (*Expr, error) {
	_, children, span := lw.cst.Node(id)

	item, err := lw.lowerExpr(children[1].Node)
	if err != nil {
		return nil, err
	}

	return &Expr{Kind: KindArray, Item: item, Pos: span}, nil
}
