package check

import apidsl "github.com/apidsl/apidsl"

// FreeVars walks every reduced declaration, including into the bodies of
// unapplied Lambdas (unlike TypeCheck, which skips them), and rejects the
// program if any surviving Var fails to resolve against an Environment of
// declarations seen so far plus, inside a Lambda, its own parameters. A Var
// surviving reduction is, by construction, either a genuinely free
// identifier or a parameter occurrence inside a body that was never
// applied: this pass is what tells the two apart.
func FreeVars(decls []*apidsl.Expr) error {
	env := apidsl.NewEnvironment()

	for _, d := range decls {
		if err := checkFree(d.Value, env); err != nil {
			return err
		}

		env.Bind(d.Name, d.Value)
	}

	return nil
}

func checkFree(e *apidsl.Expr, env *apidsl.Environment) error {
	if e == nil {
		return nil
	}

	switch e.Kind {
	case apidsl.KindVar:
		if env.Lookup(e.Name) == nil {
			return apidsl.NewIdentifierNotInScopeError(e.Pos, "identifier not in scope")
		}

	case apidsl.KindURI:
		for _, seg := range e.URISegments {
			if seg.Variable == nil || seg.Variable.Schema == nil {
				continue
			}

			if err := checkFree(seg.Variable.Schema, env); err != nil {
				return err
			}
		}

	case apidsl.KindObject:
		for _, p := range e.Props {
			if err := checkFree(p.Schema, env); err != nil {
				return err
			}
		}

	case apidsl.KindArray:
		return checkFree(e.Item, env)

	case apidsl.KindOp:
		for _, o := range e.Operands {
			if err := checkFree(o, env); err != nil {
				return err
			}
		}

	case apidsl.KindRel:
		if err := checkFree(e.RelURI, env); err != nil {
			return err
		}

		for _, xfer := range e.Xfers {
			if xfer.Domain != nil {
				if err := checkFree(xfer.Domain.Schema, env); err != nil {
					return err
				}
			}

			if err := checkFree(xfer.Range.Schema, env); err != nil {
				return err
			}
		}

	case apidsl.KindLambda:
		env.PushFrame()

		for _, p := range e.Params {
			env.Bind(p.Name, p)
		}

		err := checkFree(e.Body, env)

		env.PopFrame()

		return err

	case apidsl.KindApp:
		if err := checkFree(e.Head, env); err != nil {
			return err
		}

		for _, a := range e.Args {
			if err := checkFree(a, env); err != nil {
				return err
			}
		}
	}

	return nil
}
