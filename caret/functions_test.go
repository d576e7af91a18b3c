package caret

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test070BuiltinTableIsIndexedByName(t *testing.T) {

	cv.Convey(`every builtin can be found by name and called through its index`, t, func() {
		for i, b := range AllBuiltinFunctions() {
			j, ok := LookupBuiltin(b.Name)
			cv.So(ok, cv.ShouldBeTrue)
			cv.So(j, cv.ShouldEqual, i)
			cv.So(BuiltinName(i), cv.ShouldEqual, b.Name)
		}
		_, ok := LookupBuiltin("mod")
		cv.So(ok, cv.ShouldBeFalse)
		cv.So(func() { BuiltinName(-1) }, cv.ShouldPanic)

		plus, _ := LookupBuiltin("+")
		v, err := CallBuiltin(plus, []Value{MakeInt(40), MakeInt(2)})
		cv.So(err, cv.ShouldBeNil)
		cv.So(v.Int, cv.ShouldEqual, int64(42))

		_, err = CallBuiltin(plus, []Value{MakeInt(1)})
		cv.So(err, cv.ShouldEqual, WrongNargs)
		_, err = CallBuiltin(plus, []Value{MakeInt(1), MakeString("1")})
		cv.So(err, cv.ShouldEqual, WrongType)

		div, _ := LookupBuiltin("/")
		_, err = CallBuiltin(div, []Value{MakeInt(1), MakeInt(0)})
		cv.So(err, cv.ShouldEqual, DivideByZero)
	})
}

func Test071Truthiness(t *testing.T) {

	cv.Convey(`false and nil are the only falsy values`, t, func() {
		cv.So(SexpNull.IsTruthy(), cv.ShouldBeFalse)
		cv.So(MakeBool(false).IsTruthy(), cv.ShouldBeFalse)
		cv.So(MakeBool(true).IsTruthy(), cv.ShouldBeTrue)
		cv.So(MakeInt(0).IsTruthy(), cv.ShouldBeTrue)
		cv.So(MakeString("").IsTruthy(), cv.ShouldBeTrue)
		cv.So(MakeVector(nil).IsTruthy(), cv.ShouldBeTrue)
		cv.So(MakeFunction(0).IsTruthy(), cv.ShouldBeTrue)
	})
}
