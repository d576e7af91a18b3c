package caret

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test060LookupsWalkParentsAndInsertsHitTheTop(t *testing.T) {

	cv.Convey(`a child frame sees its parents' bindings but writes only to itself`, t, func() {
		in := NewInterner()
		a, b := in.Intern("a"), in.Intern("b")

		stack := NewStack("test")
		glob := NewNamedScope("global")
		glob.IsGlobal = true
		stack.Push(glob)
		stack.BindSymbol(a, MakeInt(1))

		stack.PushNamedScope("inner")
		cv.So(stack.Size(), cv.ShouldEqual, 2)

		v, scope, found := stack.LookupSymbol(a)
		cv.So(found, cv.ShouldBeTrue)
		cv.So(v.Int, cv.ShouldEqual, int64(1))
		cv.So(scope, cv.ShouldEqual, glob)

		stack.BindSymbol(a, MakeInt(2))
		stack.BindSymbol(b, MakeInt(3))
		v, scope, _ = stack.LookupSymbol(a)
		cv.So(v.Int, cv.ShouldEqual, int64(2))
		cv.So(scope.Name, cv.ShouldEqual, "inner")
		cv.So(glob.Map[a].Int, cv.ShouldEqual, int64(1))

		cv.So(stack.PopScope(), cv.ShouldBeNil)
		v, _, _ = stack.LookupSymbol(a)
		cv.So(v.Int, cv.ShouldEqual, int64(1))
		_, _, found = stack.LookupSymbol(b)
		cv.So(found, cv.ShouldBeFalse)
	})
}

func Test061TheGlobalScopeCannotBePopped(t *testing.T) {

	cv.Convey(`PopScope refuses the global frame, and an empty stack underflows`, t, func() {
		stack := NewStack("test")
		_, err := stack.Get(0)
		cv.So(err, cv.ShouldEqual, StackUnderFlowErr)
		cv.So(func() { stack.GetTop() }, cv.ShouldPanic)
		cv.So(stack.IsEmpty(), cv.ShouldBeTrue)

		glob := NewNamedScope("global")
		glob.IsGlobal = true
		stack.Push(glob)
		cv.So(stack.PopScope(), cv.ShouldEqual, ErrPopGlobal)
		cv.So(stack.Size(), cv.ShouldEqual, 1)
		cv.So(stack.Root(), cv.ShouldEqual, glob)

		stack.PushScope()
		stack.PushScope()
		cv.So(stack.Top(), cv.ShouldEqual, 2)
		stack.TruncateToSize(1)
		cv.So(stack.Size(), cv.ShouldEqual, 1)
		cv.So(stack.GetTop(), cv.ShouldEqual, glob)
	})
}

func Test062ShowListsFramesFromTheTop(t *testing.T) {

	cv.Convey(`Show prints user frames and hides the global frame unless asked`, t, func() {
		ses := NewSession(nil)
		mustEval(ses, "(def! zeta 26)")
		mustEval(ses, "(def! alpha :first)")

		out := ses.Stack().Show(ses.Interner(), false)
		cv.So(out, cv.ShouldContainSubstring, "scope user")
		cv.So(out, cv.ShouldContainSubstring, "alpha = :first")
		cv.So(out, cv.ShouldContainSubstring, "zeta = 26")
		cv.So(out, cv.ShouldContainSubstring, "(hidden)")
		cv.So(out, cv.ShouldNotContainSubstring, "<function +>")

		out = ses.Stack().Show(ses.Interner(), true)
		cv.So(out, cv.ShouldContainSubstring, "+ = <function +>")
	})
}
