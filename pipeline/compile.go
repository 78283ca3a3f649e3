// Package pipeline wires together the compiler's components: lexing and
// parsing (package apidsl), tag inference (apidsl/infer), β-reduction
// (apidsl/reduce), and the post-reduction checks (apidsl/check), into a
// single entry point. It lives apart from package apidsl itself so that
// package can stay a leaf dependency of infer/reduce/check rather than
// importing them back.
package pipeline

import (
	"time"

	apidsl "github.com/apidsl/apidsl"
	"github.com/apidsl/apidsl/check"
	"github.com/apidsl/apidsl/infer"
	"github.com/apidsl/apidsl/reduce"
)

// Result bundles the IR with the Interner that resolves every Symbol
// reachable from it: callers rendering the IR (the emitter, or the CLI's
// diagnostic JSON dump) need both.
type Result struct {
	Spec     *apidsl.Spec
	Interner *apidsl.Interner
}

// Stage names a pipeline step, for callers (the CLI) that want per-pass
// timing without duplicating Compile's control flow.
type Stage string

// The pipeline stages, in execution order.
const (
	StageParse      Stage = "parse"
	StageLower      Stage = "lower"
	StageInfer      Stage = "infer"
	StageReduce     Stage = "reduce"
	StageTypeCheck  Stage = "typecheck"
	StageFreeVars   Stage = "freevars"
	StageAssembleIR Stage = "assemble-ir"
)

// Compile runs the full pipeline over input: lex, parse, lower, infer and
// unify, substitute, reduce, type-check, free-variable-check, and assemble
// the IR. It returns either a fully-reduced Result or the first
// *apidsl.Error any pass produced; callers never see a bare error from an
// individual stage.
func Compile(filename, input string) (*Result, error) {
	return CompileWithTrace(filename, input, nil)
}

// CompileWithTrace behaves like Compile but invokes trace (if non-nil)
// after each stage completes, with the wall-clock time that stage took.
// cmd/apidsl uses this hook to emit zap pass-timing logs without this
// package depending on zap itself.
func CompileWithTrace(filename, input string, trace func(Stage, time.Duration)) (*Result, error) {
	report := func(stage Stage, start time.Time) {
		if trace != nil {
			trace(stage, time.Since(start))
		}
	}

	interner := apidsl.NewInterner()

	start := time.Now()

	cst, err := apidsl.Parse(filename, input, interner)
	if err != nil {
		return nil, err
	}

	report(StageParse, start)

	start = time.Now()

	decls, err := apidsl.Lower(cst, interner)
	if err != nil {
		return nil, err
	}

	report(StageLower, start)

	start = time.Now()

	infer.AssignTags(decls)

	constraints, err := infer.Collect(decls)
	if err != nil {
		return nil, err
	}

	subst, err := infer.Unify(constraints)
	if err != nil {
		return nil, err
	}

	infer.Apply(decls, subst)

	report(StageInfer, start)

	start = time.Now()

	decls, err = reduce.Reduce(decls)
	if err != nil {
		return nil, err
	}

	report(StageReduce, start)

	start = time.Now()

	if err := check.TypeCheck(decls); err != nil {
		return nil, err
	}

	report(StageTypeCheck, start)

	start = time.Now()

	if err := check.FreeVars(decls); err != nil {
		return nil, err
	}

	report(StageFreeVars, start)

	start = time.Now()

	spec, err := apidsl.AssembleIR(decls, interner)
	if err != nil {
		return nil, err
	}

	report(StageAssembleIR, start)

	return &Result{Spec: spec, Interner: interner}, nil
}
