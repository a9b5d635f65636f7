package lang

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

func registerExpr(r *Registry) {
	r.Register("expr.eval", exprEval)
}

// exprEval compiles and runs the expr-lang program in argument src. Every
// other argument is visible to the program as a variable, and env(name)
// reads the process environment.
func exprEval(_ context.Context, call *Call) Value {
	src, fail, ok := call.TextArg("src")
	if !ok {
		return fail
	}

	vars := map[string]any{
		"env": envFunc(call.Environment().processEnv),
	}

	for _, name := range call.Names() {
		if name == "src" {
			continue
		}

		v, _ := call.Arg(name)

		native, fail, ok := exprVar(call, v)
		if !ok {
			return fail
		}

		vars[name] = native
	}

	program, err := compileExpr(src, vars)
	if err != nil {
		return call.Fail("failed: " + err.Error())
	}

	result, err := vm.Run(program, vars)
	if err != nil {
		return call.Fail("failed: " + err.Error())
	}

	return exprResult(result)
}

// exprPrograms caches compiled programs by source and variable signature.
var exprPrograms sync.Map

// compileExpr returns the compiled program for src with variables typed
// like vars, compiling it on first use.
func compileExpr(src string, vars map[string]any) (*vm.Program, error) {
	key := exprKey(src, vars)

	if p, ok := exprPrograms.Load(key); ok {
		return p.(*vm.Program), nil
	}

	program, err := expr.Compile(src, expr.Env(vars))
	if err != nil {
		return nil, err
	}

	p, _ := exprPrograms.LoadOrStore(key, program)

	return p.(*vm.Program), nil
}

func exprKey(src string, vars map[string]any) string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}

	slices.Sort(names)

	var b strings.Builder

	b.WriteString(src)

	for _, name := range names {
		fmt.Fprintf(&b, "\x00%s:%T", name, vars[name])
	}

	return b.String()
}

func exprVar(call *Call, v Value) (any, Value, bool) {
	switch v.Kind {
	case KindText:
		return v.Text, Value{}, true
	case KindColumn:
		items := make([]any, len(v.Items))

		for i, item := range v.Items {
			native, fail, ok := exprVar(call, item)
			if !ok {
				return nil, fail, false
			}

			items[i] = native
		}

		return items, Value{}, true
	case KindError:
		return nil, v, false
	}

	return nil, call.Fail("expects text or column arguments"), false
}

func exprResult(result any) Value {
	switch r := result.(type) {
	case nil:
		return TextValue("")
	case string:
		return TextValue(r)
	case []any:
		items := make([]Value, len(r))
		for i, item := range r {
			items[i] = exprResult(item)
		}

		return ColumnValue(items...)
	case []string:
		items := make([]Value, len(r))
		for i, item := range r {
			items[i] = TextValue(item)
		}

		return ColumnValue(items...)
	}

	return TextValue(fmt.Sprint(result))
}
