package infer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apidsl "github.com/apidsl/apidsl"
	"github.com/apidsl/apidsl/infer"
)

func lowerAndTag(t *testing.T, src string) []*apidsl.Expr {
	t.Helper()

	interner := apidsl.NewInterner()

	cst, err := apidsl.Parse("test.apidsl", src, interner)
	require.NoError(t, err)

	decls, err := apidsl.Lower(cst, interner)
	require.NoError(t, err)

	infer.AssignTags(decls)

	return decls
}

func TestAssignTags_EveryNodeGetsADistinctVar(t *testing.T) {
	t.Parallel()

	decls := lowerAndTag(t, "let a = num | str")

	sum := decls[0].Value
	require.Equal(t, apidsl.KindOp, sum.Kind)
	assert.Equal(t, apidsl.TagVar, sum.Tag.Kind)
	assert.Equal(t, apidsl.TagVar, sum.Operands[0].Tag.Kind)
	assert.Equal(t, apidsl.TagVar, sum.Operands[1].Tag.Kind)
	assert.NotEqual(t, sum.Operands[0].Tag.Var, sum.Operands[1].Tag.Var)
}

func TestAssignTags_ImplicitURIVariableGetsItsOwnVar(t *testing.T) {
	t.Parallel()

	decls := lowerAndTag(t, "let u = /items/{id}")

	uri := decls[0].Value
	seg := uri.URISegments[1]
	require.NotNil(t, seg.Variable)
	assert.Nil(t, seg.Variable.Schema)
	assert.Equal(t, apidsl.TagVar, seg.Variable.ImplicitTag.Kind)
}

func TestCollectAndUnify_PrimitiveLiteralResolvesToPrimitive(t *testing.T) {
	t.Parallel()

	decls := lowerAndTag(t, "let a = num")

	cs, err := infer.Collect(decls)
	require.NoError(t, err)

	subst, err := infer.Unify(cs)
	require.NoError(t, err)

	infer.Apply(decls, subst)

	assert.Equal(t, apidsl.TagPrimitive, decls[0].Value.Tag.Kind)
}

func TestCollectAndUnify_SumOperandsUnifyTogether(t *testing.T) {
	t.Parallel()

	decls := lowerAndTag(t, "let a = num | str | bool")

	cs, err := infer.Collect(decls)
	require.NoError(t, err)

	_, err = infer.Unify(cs)
	require.NoError(t, err)
}

func TestCollectAndUnify_JoinOperandsMustBeObjects(t *testing.T) {
	t.Parallel()

	decls := lowerAndTag(t, "let a = {} & {}")

	cs, err := infer.Collect(decls)
	require.NoError(t, err)

	subst, err := infer.Unify(cs)
	require.NoError(t, err)

	infer.Apply(decls, subst)

	assert.Equal(t, apidsl.TagObject, decls[0].Value.Tag.Kind)
}

func TestCollectAndUnify_ApplicationTagIsLambdaBodysTag(t *testing.T) {
	t.Parallel()

	decls := lowerAndTag(t, "let f x = x\nlet a = f num")

	cs, err := infer.Collect(decls)
	require.NoError(t, err)

	subst, err := infer.Unify(cs)
	require.NoError(t, err)

	infer.Apply(decls, subst)

	assert.Equal(t, apidsl.TagPrimitive, decls[1].Value.Tag.Kind)
}

func TestCollect_ApplicationOfNonFunctionIsRejected(t *testing.T) {
	t.Parallel()

	decls := lowerAndTag(t, "let a = num\nlet b = a num")

	_, err := infer.Collect(decls)
	require.Error(t, err)

	var apiErr *apidsl.Error

	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apidsl.ErrInvalidTypes, apiErr.Kind)
}

func TestCollect_SelfReferentialLetRejected(t *testing.T) {
	t.Parallel()

	decls := lowerAndTag(t, "let f x = f x")

	_, err := infer.Collect(decls)
	require.Error(t, err)

	var apiErr *apidsl.Error

	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apidsl.ErrInvalidTypes, apiErr.Kind)
}

func TestUnify_MismatchedGroundTagsRejected(t *testing.T) {
	t.Parallel()

	decls := lowerAndTag(t, "let a = num | {}")

	cs, err := infer.Collect(decls)
	require.NoError(t, err)

	_, err = infer.Unify(cs)
	require.Error(t, err)

	var apiErr *apidsl.Error

	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, apidsl.ErrInvalidTypes, apiErr.Kind)
}

func TestSubstitution_ResolveIsIdempotentAfterApply(t *testing.T) {
	t.Parallel()

	decls := lowerAndTag(t, "let a = num")

	cs, err := infer.Collect(decls)
	require.NoError(t, err)

	subst, err := infer.Unify(cs)
	require.NoError(t, err)

	tag := decls[0].Value.Tag
	resolved := subst.Resolve(tag)
	assert.Equal(t, resolved, subst.Resolve(resolved))
}
