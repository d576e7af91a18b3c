package caret

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test010InternIsIdempotentAndDistinct(t *testing.T) {

	cv.Convey(`interning the same name twice gives the same symbol; different names give different symbols`, t, func() {
		in := NewInterner()
		a := in.Intern("abc")
		b := in.Intern("def")
		cv.So(in.Intern("abc"), cv.ShouldEqual, a)
		cv.So(a, cv.ShouldNotEqual, b)
		cv.So(in.Resolve(a), cv.ShouldEqual, "abc")
		cv.So(in.Resolve(b), cv.ShouldEqual, "def")
		cv.So(in.Len(), cv.ShouldEqual, 2)

		sym, ok := in.Lookup("def")
		cv.So(ok, cv.ShouldBeTrue)
		cv.So(sym, cv.ShouldEqual, b)
		_, ok = in.Lookup("ghi")
		cv.So(ok, cv.ShouldBeFalse)
		cv.So(in.Len(), cv.ShouldEqual, 2)

		// the empty name is a name like any other
		e := in.Intern("")
		cv.So(in.Resolve(e), cv.ShouldEqual, "")
	})
}

func Test011ResolvingAForeignSymbolPanics(t *testing.T) {

	cv.Convey(`a symbol from another interner that this one never produced cannot be resolved`, t, func() {
		other := NewInterner()
		other.Intern("a")
		other.Intern("b")
		foreign := other.Intern("c")

		in := NewInterner()
		in.Intern("x")
		cv.So(func() { in.Resolve(foreign) }, cv.ShouldPanic)
	})
}
