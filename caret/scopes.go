package caret

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Scopes map names to values. The global scope is created
// with the session and holds the builtins; every let* form
// gets a fresh scope for the duration of its body.
type Scope struct {
	Map      map[Symbol]Value
	Name     string
	IsGlobal bool

	// arena index of the enclosing scope; -1 for the global scope.
	parent int
}

func NewScope() *Scope {
	return &Scope{
		Map:    make(map[Symbol]Value),
		parent: -1,
	}
}

func NewNamedScope(name string) *Scope {
	s := NewScope()
	s.Name = name
	return s
}

func (stack *Stack) PushScope() {
	stack.Push(NewScope())
}

func (stack *Stack) PushNamedScope(name string) {
	stack.Push(NewNamedScope(name))
}

var ErrPopGlobal = errors.New("cannot pop the global scope")

func (stack *Stack) PopScope() error {
	top, err := stack.Get(0)
	if err != nil {
		return err
	}
	if top.IsGlobal {
		return ErrPopGlobal
	}
	_, err = stack.Pop()
	return err
}

// LookupSymbol walks from the top frame through the parent
// chain and returns the first binding of sym.
func (stack *Stack) LookupSymbol(sym Symbol) (Value, *Scope, bool) {
	for i := stack.tos; i >= 0; i = stack.scopes[i].parent {
		scope := stack.scopes[i]
		if v, ok := scope.Map[sym]; ok {
			return v, scope, true
		}
	}
	return SexpNull, nil, false
}

// BindSymbol creates or overwrites sym in the top frame only.
// Enclosing frames are never written through a child.
func (stack *Stack) BindSymbol(sym Symbol, v Value) {
	stack.GetTop().Map[sym] = v
}

func (s *Scope) Show(in *Interner, indent int) string {
	rep := strings.Repeat(" ", indent)
	label := s.Name
	if label == "" {
		label = "(anonymous)"
	}

	names := make([]string, 0, len(s.Map))
	vals := make(map[string]Value, len(s.Map))
	for sym, v := range s.Map {
		name := in.Resolve(sym)
		names = append(names, name)
		vals[name] = v
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "%sscope %s\n", rep, label)
	for _, name := range names {
		fmt.Fprintf(&b, "%s    %s = %s\n", rep, name, vals[name].SexpString(in))
	}
	return b.String()
}
