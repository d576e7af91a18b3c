package caret

import (
	"fmt"
	"math"
)

var WrongNargs error = fmt.Errorf("wrong number of arguments")
var WrongType error = fmt.Errorf("operands must be integers")
var DivideByZero error = fmt.Errorf("integer division by zero")

// NativeFunction is a builtin. Any error it returns means
// the function does not apply to these arguments; the
// evaluator reports that as an unsupported operation.
type NativeFunction func(name string, args []Value) (Value, error)

type Builtin struct {
	Name string
	Fn   NativeFunction
}

// builtins is the static function table. A function Value
// holds an index into it.
var builtins = []Builtin{
	{"+", ArithmeticFunction("+")},
	{"-", ArithmeticFunction("-")},
	{"*", ArithmeticFunction("*")},
	{"/", ArithmeticFunction("/")},
	{"<", CompareFunction("<")},
	{"<=", CompareFunction("<=")},
	{">", CompareFunction(">")},
	{">=", CompareFunction(">=")},
}

func AllBuiltinFunctions() []Builtin {
	return builtins
}

func LookupBuiltin(name string) (int, bool) {
	for i := range builtins {
		if builtins[i].Name == name {
			return i, true
		}
	}
	return -1, false
}

func BuiltinName(index int) string {
	if index < 0 || index >= len(builtins) {
		panic(fmt.Sprintf("no builtin function at index %d", index))
	}
	return builtins[index].Name
}

func CallBuiltin(index int, args []Value) (Value, error) {
	b := builtins[index]
	return b.Fn(b.Name, args)
}

func twoIntegers(args []Value) (int64, int64, error) {
	if len(args) != 2 {
		return 0, 0, WrongNargs
	}
	if args[0].Kind != ValInteger || args[1].Kind != ValInteger {
		return 0, 0, WrongType
	}
	return args[0].Int, args[1].Int, nil
}

// ArithmeticFunction returns the builtin for one of + - * /.
// Overflow wraps around.
func ArithmeticFunction(name string) NativeFunction {
	return func(_ string, args []Value) (Value, error) {
		a, b, err := twoIntegers(args)
		if err != nil {
			return SexpNull, err
		}
		switch name {
		case "+":
			return MakeInt(a + b), nil
		case "-":
			return MakeInt(a - b), nil
		case "*":
			return MakeInt(a * b), nil
		case "/":
			if b == 0 {
				return SexpNull, DivideByZero
			}
			if a == math.MinInt64 && b == -1 {
				return SexpNull, fmt.Errorf("%d / -1 overflows", a)
			}
			return MakeInt(a / b), nil
		}
		return SexpNull, fmt.Errorf("unknown arithmetic operator '%s'", name)
	}
}

func CompareFunction(name string) NativeFunction {
	return func(_ string, args []Value) (Value, error) {
		a, b, err := twoIntegers(args)
		if err != nil {
			return SexpNull, err
		}
		cond := false
		switch name {
		case "<":
			cond = a < b
		case "<=":
			cond = a <= b
		case ">":
			cond = a > b
		case ">=":
			cond = a >= b
		default:
			return SexpNull, fmt.Errorf("unknown comparison '%s'", name)
		}
		return MakeBool(cond), nil
	}
}
