package reduce_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apidsl "github.com/apidsl/apidsl"
	"github.com/apidsl/apidsl/reduce"
)

func lowerDecls(t *testing.T, src string) []*apidsl.Expr {
	t.Helper()

	interner := apidsl.NewInterner()

	cst, err := apidsl.Parse("test.apidsl", src, interner)
	require.NoError(t, err)

	decls, err := apidsl.Lower(cst, interner)
	require.NoError(t, err)

	return decls
}

func declByIndex(decls []*apidsl.Expr, i int) *apidsl.Expr { return decls[i].Value }

func TestReduce_AppliesLambdaToLiteralArity(t *testing.T) {
	t.Parallel()

	decls := lowerDecls(t, "let f x y z = num\nlet a = f num {} uri")

	reduced, err := reduce.Reduce(decls)
	require.NoError(t, err)

	a := declByIndex(reduced, 1)
	assert.Equal(t, apidsl.KindPrim, a.Kind)
	assert.Equal(t, apidsl.PrimNum, a.Prim)
}

// TestReduce_ClosureCapturesDefinitionTimeBinding checks that a function
// defined while `b` names one value keeps seeing that value even after a
// later `let b` rebinds the name at top level.
func TestReduce_ClosureCapturesDefinitionTimeBinding(t *testing.T) {
	t.Parallel()

	src := "let b = str\n" +
		"let g x = b\n" +
		"let b = bool\n" +
		"let f x = x | num | g x\n" +
		"let a = f bool\n"

	decls := lowerDecls(t, src)

	reduced, err := reduce.Reduce(decls)
	require.NoError(t, err)

	a := declByIndex(reduced, 4)
	require.Equal(t, apidsl.KindOp, a.Kind)
	require.Equal(t, apidsl.OpSum, a.Op)
	require.Len(t, a.Operands, 3)

	assert.Equal(t, apidsl.PrimBool, a.Operands[0].Prim, "x")
	assert.Equal(t, apidsl.PrimNum, a.Operands[1].Prim, "num")
	assert.Equal(t, apidsl.PrimStr, a.Operands[2].Prim, "g x must see b as it was when g was defined")
}

func TestReduce_SelfReferentialLetRejected(t *testing.T) {
	t.Parallel()

	decls := lowerDecls(t, "let f x = f x\nlet a = f num")

	// f's own name is not yet bound in the environment while its value is
	// being reduced (Decl binds n only after reducing e), so the closure f
	// captures does not contain f. A Lambda body is reduced only when the
	// function is applied; at `f num` the App inside the body can never
	// resolve "f" to a Lambda, and reduceApp reports InvalidTypes rather
	// than recursing, which rejects cyclic lets without any dedicated
	// cycle detection.
	_, err := reduce.Reduce(decls)
	require.Error(t, err)

	var apiErr *apidsl.Error

	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apidsl.ErrInvalidTypes, apiErr.Kind)
}

func TestReduce_ArityMismatch(t *testing.T) {
	t.Parallel()

	decls := lowerDecls(t, "let f x y = x\nlet a = f num")

	_, err := reduce.Reduce(decls)
	require.Error(t, err)

	var apiErr *apidsl.Error

	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apidsl.ErrInvalidArity, apiErr.Kind)
}

func TestReduce_FlattensNestedSameOperator(t *testing.T) {
	t.Parallel()

	decls := lowerDecls(t, "let a = num | str | bool")

	reduced, err := reduce.Reduce(decls)
	require.NoError(t, err)

	op := declByIndex(reduced, 0)
	require.Equal(t, apidsl.KindOp, op.Kind)
	assert.Equal(t, apidsl.OpSum, op.Op)
	require.Len(t, op.Operands, 3)
}

func TestReduce_EmptyJoinRejected(t *testing.T) {
	t.Parallel()

	// An Op with zero operands can't occur from this grammar directly, but
	// guard the invariant by constructing one in place of a parsed program.
	op := &apidsl.Expr{Kind: apidsl.KindOp, Op: apidsl.OpJoin}
	decl := &apidsl.Expr{Kind: apidsl.KindDecl, Value: op}

	_, err := reduce.Reduce([]*apidsl.Expr{decl})
	require.Error(t, err)

	var apiErr *apidsl.Error

	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apidsl.ErrInvalidArity, apiErr.Kind)
}
