package caret

import (
	"fmt"
	"strings"
)

// Stack is an arena of scope frames. Frames are pushed and
// popped in LIFO order; each frame records the arena index
// of its parent, and lookups follow those indices from the
// top frame down to the global frame.
type Stack struct {
	tos    int
	scopes []*Scope

	Name string
}

func NewStack(name string) *Stack {
	return &Stack{
		tos:    -1,
		scopes: make([]*Scope, 0, 8),
		Name:   name,
	}
}

func (stack *Stack) Top() int {
	return stack.tos
}

func (stack *Stack) IsEmpty() bool {
	return stack.tos < 0
}

func (stack *Stack) Size() int {
	return stack.tos + 1
}

// Push makes s the new top frame, with the current top as
// its parent.
func (stack *Stack) Push(s *Scope) {
	if n := len(stack.scopes); stack.tos != n-1 {
		panic(fmt.Sprintf("stack %p is corrupt: tos=%v but %v frames",
			stack, stack.tos, n))
	}

	s.parent = stack.tos
	stack.scopes = append(stack.scopes, s)
	stack.tos++
}

var StackUnderFlowErr = fmt.Errorf("invalid stack access: underflow")

// Get returns the frame n places below the top.
func (stack *Stack) Get(n int) (*Scope, error) {
	if n < 0 || stack.tos-n < 0 {
		return nil, StackUnderFlowErr
	}
	return stack.scopes[stack.tos-n], nil
}

func (stack *Stack) GetTop() *Scope {
	s, err := stack.Get(0)
	if err != nil {
		panic(err)
	}
	return s
}

// Root returns the global frame.
func (stack *Stack) Root() *Scope {
	if stack.IsEmpty() {
		panic(StackUnderFlowErr)
	}
	return stack.scopes[0]
}

func (stack *Stack) Pop() (*Scope, error) {
	elem, err := stack.Get(0)
	if err != nil {
		return nil, err
	}
	stack.scopes[stack.tos] = nil
	stack.scopes = stack.scopes[:stack.tos]
	stack.tos--
	return elem, nil
}

// set newsize to 0 to truncate everything
func (stack *Stack) TruncateToSize(newsize int) {
	for i := newsize; i < len(stack.scopes); i++ {
		stack.scopes[i] = nil
	}
	stack.scopes = stack.scopes[:newsize]
	stack.tos = newsize - 1
}

// Show lists the frames from the top down. The global frame
// is skipped unless showGlobal is set; it holds the builtins.
func (stack *Stack) Show(in *Interner, showGlobal bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "stack %s: %d frame(s)\n", stack.Name, stack.Size())
	for i := stack.tos; i >= 0; i = stack.scopes[i].parent {
		s := stack.scopes[i]
		if s.IsGlobal && !showGlobal {
			fmt.Fprintf(&b, "  frame %d '%s': %d binding(s) (hidden)\n", i, s.Name, len(s.Map))
			continue
		}
		b.WriteString(s.Show(in, 2))
	}
	return b.String()
}
