package caret

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/tinylib/msgp/msgp"
)

// A snapshot holds the user bindings of a session:
//
//	"CRT1" | format (1) | session uuid (16) | checksum (8) | payload
//
// The checksum is the 8 byte blake2b of the payload, little
// endian. Builtins are not saved; a function value is saved
// as the name of its builtin and looked up again on load.
type SnapshotFormat byte

const (
	SnapshotMsgpack SnapshotFormat = 1
	SnapshotCBOR    SnapshotFormat = 2
)

func (f SnapshotFormat) String() string {
	switch f {
	case SnapshotMsgpack:
		return "msgpack"
	case SnapshotCBOR:
		return "cbor"
	}
	return fmt.Sprintf("SnapshotFormat(%d)", byte(f))
}

func ParseSnapshotFormat(name string) (SnapshotFormat, error) {
	switch name {
	case "msgpack", "":
		return SnapshotMsgpack, nil
	case "cbor":
		return SnapshotCBOR, nil
	}
	return 0, fmt.Errorf("%q: %w", name, ErrUnknownFormat)
}

var snapshotMagic = []byte("CRT1")

const snapshotHeaderLen = 4 + 1 + 16 + 8

var ErrNotSnapshot = fmt.Errorf("not a caret snapshot")
var ErrBadChecksum = fmt.Errorf("snapshot checksum mismatch")
var ErrUnknownFormat = fmt.Errorf("unknown snapshot format")

// snapValue is a Value with its symbols spelled out, so that
// it can be read back by a session with a different interner.
type snapValue struct {
	Kind ValueKind   `cbor:"k"`
	Bool bool        `cbor:"b,omitempty"`
	Int  int64       `cbor:"i,omitempty"`
	Str  string      `cbor:"s,omitempty"`
	Vec  []snapValue `cbor:"v,omitempty"`
}

type snapBinding struct {
	Name  string    `cbor:"n"`
	Value snapValue `cbor:"v"`
}

func toSnapValue(v Value, in *Interner) snapValue {
	sv := snapValue{Kind: v.Kind}
	switch v.Kind {
	case ValBool:
		sv.Bool = v.Bool
	case ValInteger:
		sv.Int = v.Int
	case ValString:
		sv.Str = v.Str
	case ValKeyword:
		sv.Str = in.Resolve(v.Sym)
	case ValFunction:
		sv.Str = BuiltinName(v.Fn)
	case ValVector:
		sv.Vec = make([]snapValue, len(v.Vec))
		for i := range v.Vec {
			sv.Vec[i] = toSnapValue(v.Vec[i], in)
		}
	}
	return sv
}

func fromSnapValue(sv snapValue, in *Interner) (Value, error) {
	switch sv.Kind {
	case ValNil:
		return SexpNull, nil
	case ValBool:
		return MakeBool(sv.Bool), nil
	case ValInteger:
		return MakeInt(sv.Int), nil
	case ValString:
		return MakeString(sv.Str), nil
	case ValKeyword:
		return MakeKeyword(in.Intern(sv.Str)), nil
	case ValFunction:
		i, ok := LookupBuiltin(sv.Str)
		if !ok {
			return SexpNull, fmt.Errorf("snapshot refers to unknown builtin '%s'", sv.Str)
		}
		return MakeFunction(i), nil
	case ValVector:
		elems := make([]Value, len(sv.Vec))
		for i := range sv.Vec {
			v, err := fromSnapValue(sv.Vec[i], in)
			if err != nil {
				return SexpNull, err
			}
			elems[i] = v
		}
		return MakeVector(elems), nil
	}
	return SexpNull, fmt.Errorf("snapshot holds unknown value kind %d", int(sv.Kind))
}

// appendSnapValue writes sv as a two element msgpack array:
// the kind, then its payload.
func appendSnapValue(o []byte, sv snapValue) []byte {
	o = msgp.AppendArrayHeader(o, 2)
	o = msgp.AppendInt(o, int(sv.Kind))
	switch sv.Kind {
	case ValBool:
		o = msgp.AppendBool(o, sv.Bool)
	case ValInteger:
		o = msgp.AppendInt64(o, sv.Int)
	case ValString, ValKeyword, ValFunction:
		o = msgp.AppendString(o, sv.Str)
	case ValVector:
		o = msgp.AppendArrayHeader(o, uint32(len(sv.Vec)))
		for i := range sv.Vec {
			o = appendSnapValue(o, sv.Vec[i])
		}
	default:
		o = msgp.AppendNil(o)
	}
	return o
}

func readSnapValue(bts []byte) (sv snapValue, o []byte, err error) {
	var sz uint32
	sz, bts, err = msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return
	}
	if sz != 2 {
		err = fmt.Errorf("snapshot value has %d fields, want 2", sz)
		return
	}
	var kind int
	kind, bts, err = msgp.ReadIntBytes(bts)
	if err != nil {
		return
	}
	sv.Kind = ValueKind(kind)
	switch sv.Kind {
	case ValBool:
		sv.Bool, bts, err = msgp.ReadBoolBytes(bts)
	case ValInteger:
		sv.Int, bts, err = msgp.ReadInt64Bytes(bts)
	case ValString, ValKeyword, ValFunction:
		sv.Str, bts, err = msgp.ReadStringBytes(bts)
	case ValVector:
		var n uint32
		n, bts, err = msgp.ReadArrayHeaderBytes(bts)
		if err != nil {
			return
		}
		// every element takes at least one byte.
		if uint64(n) > uint64(len(bts)) {
			err = msgp.ErrShortBytes
			return
		}
		sv.Vec = make([]snapValue, n)
		for i := range sv.Vec {
			sv.Vec[i], bts, err = readSnapValue(bts)
			if err != nil {
				return
			}
		}
	default:
		bts, err = msgp.ReadNilBytes(bts)
	}
	o = bts
	return
}

func marshalBindings(bindings []snapBinding, format SnapshotFormat) ([]byte, error) {
	switch format {
	case SnapshotMsgpack:
		o := msgp.AppendMapHeader(nil, uint32(len(bindings)))
		for _, b := range bindings {
			o = msgp.AppendString(o, b.Name)
			o = appendSnapValue(o, b.Value)
		}
		return o, nil
	case SnapshotCBOR:
		em, err := cbor.CanonicalEncOptions().EncMode()
		if err != nil {
			return nil, err
		}
		return em.Marshal(bindings)
	}
	return nil, fmt.Errorf("%v: %w", format, ErrUnknownFormat)
}

func unmarshalBindings(payload []byte, format SnapshotFormat) ([]snapBinding, error) {
	switch format {
	case SnapshotMsgpack:
		n, bts, err := msgp.ReadMapHeaderBytes(payload)
		if err != nil {
			return nil, err
		}
		if uint64(n) > uint64(len(bts)) {
			return nil, msgp.ErrShortBytes
		}
		bindings := make([]snapBinding, n)
		for i := range bindings {
			bindings[i].Name, bts, err = msgp.ReadStringBytes(bts)
			if err != nil {
				return nil, err
			}
			bindings[i].Value, bts, err = readSnapValue(bts)
			if err != nil {
				return nil, err
			}
		}
		if len(bts) != 0 {
			return nil, fmt.Errorf("%d trailing bytes after snapshot bindings", len(bts))
		}
		return bindings, nil
	case SnapshotCBOR:
		var bindings []snapBinding
		if err := cbor.Unmarshal(payload, &bindings); err != nil {
			return nil, err
		}
		return bindings, nil
	}
	return nil, fmt.Errorf("format byte %d: %w", byte(format), ErrUnknownFormat)
}

// Save writes the user bindings of the session to w.
func (ses *Session) Save(w io.Writer, format SnapshotFormat) error {
	scope := ses.UserScope()
	bindings := make([]snapBinding, 0, len(scope.Map))
	for sym, v := range scope.Map {
		bindings = append(bindings, snapBinding{
			Name:  ses.interner.Resolve(sym),
			Value: toSnapValue(v, ses.interner),
		})
	}
	sort.Slice(bindings, func(i, j int) bool {
		return bindings[i].Name < bindings[j].Name
	})

	payload, err := marshalBindings(bindings, format)
	if err != nil {
		return fmt.Errorf("snapshot encode: %w", err)
	}

	id, err := uuid.Parse(ses.ID)
	if err != nil {
		return fmt.Errorf("session id: %w", err)
	}
	var hdr bytes.Buffer
	hdr.Write(snapshotMagic)
	hdr.WriteByte(byte(format))
	hdr.Write(id[:])
	var sum [8]byte
	binary.LittleEndian.PutUint64(sum[:], Blake2bUint64(payload))
	hdr.Write(sum[:])

	if _, err := w.Write(hdr.Bytes()); err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	logger.Infof("saved %d binding(s) from session %s as %v", len(bindings), ses.ID, format)
	return nil
}

// Load reads a snapshot written by Save and binds its values
// in the user frame, overwriting bindings of the same name.
// It returns the id of the session that wrote the snapshot.
// Nothing is bound unless the whole snapshot decodes.
func (ses *Session) Load(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if len(raw) < snapshotHeaderLen || !bytes.Equal(raw[:4], snapshotMagic) {
		return "", ErrNotSnapshot
	}
	format := SnapshotFormat(raw[4])
	origin, err := uuid.FromBytes(raw[5:21])
	if err != nil {
		return "", fmt.Errorf("snapshot session id: %w", err)
	}
	sum := binary.LittleEndian.Uint64(raw[21:29])
	payload := raw[snapshotHeaderLen:]
	if Blake2bUint64(payload) != sum {
		return "", ErrBadChecksum
	}

	bindings, err := unmarshalBindings(payload, format)
	if err != nil {
		return "", fmt.Errorf("snapshot decode: %w", err)
	}
	vals := make([]Value, len(bindings))
	for i := range bindings {
		vals[i], err = fromSnapValue(bindings[i].Value, ses.interner)
		if err != nil {
			return "", err
		}
	}

	scope := ses.UserScope()
	for i := range bindings {
		scope.Map[ses.interner.Intern(bindings[i].Name)] = vals[i]
	}
	logger.Infof("loaded %d binding(s) from session %s", len(bindings), origin)
	return origin.String(), nil
}
