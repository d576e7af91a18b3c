package caret

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
	"github.com/tinylib/msgp/msgp"
)

func populated() *Session {
	ses := NewSession(nil)
	for _, line := range []string{
		"(def! n 5)",
		"(def! neg (- 0 9223372036854775807))",
		`(def! s "hi there")`,
		"(def! k :kw)",
		"(def! v [1 [2 :x] \"\" nil])",
		"(def! f +)",
		"(def! b false)",
		"(def! z nil)",
	} {
		mustEval(ses, line)
	}
	return ses
}

func Test080SnapshotsRestoreUserBindings(t *testing.T) {

	for _, format := range []SnapshotFormat{SnapshotMsgpack, SnapshotCBOR} {
		cv.Convey("a session saved as "+format.String()+" loads into a fresh session with the same values", t, func() {
			orig := populated()
			var buf bytes.Buffer
			cv.So(orig.Save(&buf, format), cv.ShouldBeNil)

			// a different interner, with symbols numbered differently
			ses := NewSession(nil)
			mustEval(ses, "(def! unrelated :other)")
			origin, err := ses.Load(&buf)
			cv.So(err, cv.ShouldBeNil)
			cv.So(origin, cv.ShouldEqual, orig.ID)

			cv.So(mustEval(ses, "n"), cv.ShouldEqual, "5")
			cv.So(mustEval(ses, "neg"), cv.ShouldEqual, "-9223372036854775807")
			cv.So(mustEval(ses, "s"), cv.ShouldEqual, "hi there")
			cv.So(mustEval(ses, "k"), cv.ShouldEqual, ":kw")
			cv.So(mustEval(ses, "v"), cv.ShouldEqual, "[1 [2 :x]  nil]")
			cv.So(mustEval(ses, "(f 1 2)"), cv.ShouldEqual, "3")
			cv.So(mustEval(ses, "b"), cv.ShouldEqual, "false")
			cv.So(mustEval(ses, "z"), cv.ShouldEqual, "nil")
			cv.So(mustEval(ses, "unrelated"), cv.ShouldEqual, ":other")
			cv.So(len(ses.UserScope().Map), cv.ShouldEqual, 9)
		})
	}

	cv.Convey(`builtins are not part of a snapshot`, t, func() {
		var buf bytes.Buffer
		cv.So(NewSession(nil).Save(&buf, SnapshotMsgpack), cv.ShouldBeNil)
		ses := NewSession(nil)
		_, err := ses.Load(&buf)
		cv.So(err, cv.ShouldBeNil)
		cv.So(len(ses.UserScope().Map), cv.ShouldEqual, 0)
	})
}

func Test081DamagedSnapshotsAreRejected(t *testing.T) {

	cv.Convey(`a flipped payload byte fails the checksum and binds nothing`, t, func() {
		var buf bytes.Buffer
		cv.So(populated().Save(&buf, SnapshotMsgpack), cv.ShouldBeNil)
		raw := buf.Bytes()
		raw[len(raw)-1] ^= 0xff

		ses := NewSession(nil)
		_, err := ses.Load(bytes.NewReader(raw))
		cv.So(err, cv.ShouldEqual, ErrBadChecksum)
		cv.So(len(ses.UserScope().Map), cv.ShouldEqual, 0)
	})

	cv.Convey(`element counts larger than the payload are rejected before allocating`, t, func() {
		for _, payload := range [][]byte{
			// {"x": [vector, array of 2^32-1 values]}
			msgp.AppendArrayHeader(msgp.AppendInt(msgp.AppendArrayHeader(
				msgp.AppendString(msgp.AppendMapHeader(nil, 1), "x"), 2), int(ValVector)), 0xffffffff),
			// a map claiming 2^32-1 bindings
			msgp.AppendMapHeader(nil, 0xffffffff),
		} {
			raw := append([]byte("CRT1"), byte(SnapshotMsgpack))
			raw = append(raw, make([]byte, 16)...)
			var sum [8]byte
			binary.LittleEndian.PutUint64(sum[:], Blake2bUint64(payload))
			raw = append(raw, sum[:]...)
			raw = append(raw, payload...)

			ses := NewSession(nil)
			_, err := ses.Load(bytes.NewReader(raw))
			cv.So(errors.Is(err, msgp.ErrShortBytes), cv.ShouldBeTrue)
			cv.So(len(ses.UserScope().Map), cv.ShouldEqual, 0)
		}
	})

	cv.Convey(`input without the header is not a snapshot`, t, func() {
		_, err := NewSession(nil).Load(bytes.NewReader([]byte("(def! a 1)")))
		cv.So(err, cv.ShouldEqual, ErrNotSnapshot)
		_, err = NewSession(nil).Load(bytes.NewReader(nil))
		cv.So(err, cv.ShouldEqual, ErrNotSnapshot)
	})

	cv.Convey(`an unknown format byte is reported as such`, t, func() {
		var buf bytes.Buffer
		cv.So(populated().Save(&buf, SnapshotCBOR), cv.ShouldBeNil)
		raw := buf.Bytes()
		raw[4] = 9
		_, err := NewSession(nil).Load(bytes.NewReader(raw))
		cv.So(errors.Is(err, ErrUnknownFormat), cv.ShouldBeTrue)

		cv.So(NewSession(nil).Save(&buf, SnapshotFormat(7)), cv.ShouldNotBeNil)
	})

	cv.Convey(`format names parse, and unknown names fail`, t, func() {
		f, err := ParseSnapshotFormat("cbor")
		cv.So(err, cv.ShouldBeNil)
		cv.So(f, cv.ShouldEqual, SnapshotCBOR)
		f, err = ParseSnapshotFormat("msgpack")
		cv.So(err, cv.ShouldBeNil)
		cv.So(f, cv.ShouldEqual, SnapshotMsgpack)
		_, err = ParseSnapshotFormat("gob")
		cv.So(errors.Is(err, ErrUnknownFormat), cv.ShouldBeTrue)
	})
}

func Test082Blake2bChecksumIsStable(t *testing.T) {

	cv.Convey(`the checksum depends only on the bytes`, t, func() {
		a := Blake2bUint64([]byte("caret"))
		cv.So(Blake2bUint64([]byte("caret")), cv.ShouldEqual, a)
		cv.So(Blake2bUint64([]byte("carat")), cv.ShouldNotEqual, a)
	})
}
