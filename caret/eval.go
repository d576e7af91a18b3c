package caret

import (
	"fmt"
)

// Evaluator walks the syntax tree. It keeps no state between
// calls except the nesting depth of the call in progress.
type Evaluator struct {
	maxDepth int
	depth    int
	trace    bool
}

func NewEvaluator(maxDepth int, trace bool) *Evaluator {
	return &Evaluator{
		maxDepth: maxDepth,
		trace:    trace,
	}
}

// Eval evaluates expr, which must have been parsed from src,
// against stack.
func Eval(expr *Expr, src *Source, stack *Stack) (Value, error) {
	return NewEvaluator(DefaultMaxDepth, false).Eval(expr, src, stack)
}

func (ev *Evaluator) Eval(expr *Expr, src *Source, stack *Stack) (Value, error) {
	ev.depth++
	defer func() { ev.depth-- }()
	if ev.maxDepth > 0 && ev.depth > ev.maxDepth {
		return SexpNull, evalErr(DepthExceeded, expr.Span)
	}

	switch expr.Kind {
	case ExprBool:
		return MakeBool(expr.Bool), nil
	case ExprInteger:
		return MakeInt(expr.Int), nil
	case ExprNil:
		return SexpNull, nil
	case ExprString:
		return MakeString(expr.StringText(src)), nil
	case ExprKeyword:
		return MakeKeyword(expr.Sym), nil
	case ExprSymbol:
		v, _, found := stack.LookupSymbol(expr.Sym)
		if !found {
			return SexpNull, evalErr(UndefinedSymbol, expr.Span)
		}
		return v, nil
	case ExprVector:
		elems, err := ev.evalEach(expr.Elems, src, stack)
		if err != nil {
			return SexpNull, err
		}
		return MakeVector(elems), nil
	case ExprList:
		return ev.evalList(expr, src, stack)
	case ExprOperator:
		// the parser only produces operators at the head of a list
		panic(fmt.Sprintf("operator %s evaluated outside head position at %v", expr.Op, expr.Span))
	}
	panic(fmt.Sprintf("unknown expression kind %v", expr.Kind))
}

// evalEach evaluates exprs left to right, stopping at the
// first error.
func (ev *Evaluator) evalEach(exprs []*Expr, src *Source, stack *Stack) ([]Value, error) {
	vals := make([]Value, 0, len(exprs))
	for _, x := range exprs {
		v, err := ev.Eval(x, src, stack)
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func (ev *Evaluator) evalList(expr *Expr, src *Source, stack *Stack) (Value, error) {
	if len(expr.Elems) == 0 {
		return SexpNull, evalErr(EmptyList, expr.Span)
	}
	head, args := expr.Elems[0], expr.Elems[1:]

	switch head.Kind {
	case ExprOperator:
		switch head.Op {
		case OpDef:
			return ev.evalDef(expr, args, src, stack)
		case OpIf:
			return ev.evalIf(expr, args, src, stack)
		case OpLet:
			return ev.evalLet(expr, args, src, stack)
		}
		panic(fmt.Sprintf("unknown operator %v", head.Op))

	case ExprSymbol:
		fn, _, found := stack.LookupSymbol(head.Sym)
		if !found {
			return SexpNull, evalErr(UndefinedSymbol, head.Span)
		}
		if fn.Kind != ValFunction {
			return SexpNull, evalErr(ExpectedFunction, head.Span)
		}
		vals, err := ev.evalEach(args, src, stack)
		if err != nil {
			return SexpNull, err
		}
		res, err := CallBuiltin(fn.Fn, vals)
		if err != nil {
			if ev.trace {
				logger.Debugf("%s at %v: %v", BuiltinName(fn.Fn), expr.Span, err)
			}
			return SexpNull, evalErr(UnsupportedOperation, expr.Span)
		}
		return res, nil
	}
	return SexpNull, evalErr(ExpectedSymbol, head.Span)
}

// (def! name expr) binds in the top frame and returns the value.
func (ev *Evaluator) evalDef(expr *Expr, args []*Expr, src *Source, stack *Stack) (Value, error) {
	if len(args) != 2 {
		return SexpNull, evalErr(UnsupportedOperation, expr.Span)
	}
	name := args[0]
	if name.Kind != ExprSymbol {
		return SexpNull, evalErr(ExpectedSymbol, name.Span)
	}
	v, err := ev.Eval(args[1], src, stack)
	if err != nil {
		return SexpNull, err
	}
	stack.BindSymbol(name.Sym, v)
	if ev.trace {
		logger.Debugf("def! %s (%v) in frame %d", src.Slice(name.Span), v.Kind, stack.Top())
	}
	return v, nil
}

// (if cond then else); only the chosen branch is evaluated.
func (ev *Evaluator) evalIf(expr *Expr, args []*Expr, src *Source, stack *Stack) (Value, error) {
	if len(args) != 3 {
		return SexpNull, evalErr(UnsupportedOperation, expr.Span)
	}
	cond, err := ev.Eval(args[0], src, stack)
	if err != nil {
		return SexpNull, err
	}
	if cond.IsTruthy() {
		return ev.Eval(args[1], src, stack)
	}
	return ev.Eval(args[2], src, stack)
}

// (let* (name expr ...) body) binds sequentially in a new
// frame: each expr sees the names bound before it. The
// frame is popped when let* returns, error or not.
func (ev *Evaluator) evalLet(expr *Expr, args []*Expr, src *Source, stack *Stack) (Value, error) {
	if len(args) != 2 {
		return SexpNull, evalErr(UnsupportedOperation, expr.Span)
	}
	bindings, body := args[0], args[1]
	if bindings.Kind != ExprList && bindings.Kind != ExprVector {
		return SexpNull, evalErr(UnsupportedOperation, bindings.Span)
	}
	if len(bindings.Elems)%2 != 0 {
		return SexpNull, evalErr(UnsupportedOperation, bindings.Span)
	}

	stack.PushNamedScope("let*")
	defer stack.PopScope()
	if ev.trace {
		logger.Debugf("let* pushed frame %d", stack.Top())
	}

	for i := 0; i < len(bindings.Elems); i += 2 {
		name := bindings.Elems[i]
		if name.Kind != ExprSymbol {
			return SexpNull, evalErr(ExpectedSymbol, name.Span)
		}
		v, err := ev.Eval(bindings.Elems[i+1], src, stack)
		if err != nil {
			return SexpNull, err
		}
		stack.BindSymbol(name.Sym, v)
	}
	return ev.Eval(body, src, stack)
}
