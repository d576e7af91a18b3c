package caret

import (
	"github.com/ugorji/go/codec"
)

// function values print as <function +>, so html escaping is off.
var jsonHandle = codec.JsonHandle{HTMLCharsAsIs: true}

// ValueToGo converts v to plain Go data: bool, int64, string,
// nil or []interface{}. Keywords become ":name" and functions
// "<function NAME>", as they display at the repl.
func ValueToGo(v Value, in *Interner) interface{} {
	switch v.Kind {
	case ValBool:
		return v.Bool
	case ValInteger:
		return v.Int
	case ValString:
		return v.Str
	case ValKeyword, ValFunction:
		return v.SexpString(in)
	case ValVector:
		arr := make([]interface{}, len(v.Vec))
		for i := range v.Vec {
			arr[i] = ValueToGo(v.Vec[i], in)
		}
		return arr
	}
	return nil
}

// ValueToJSON renders v as JSON for the -json repl output.
func ValueToJSON(v Value, in *Interner) ([]byte, error) {
	var out []byte
	iface := ValueToGo(v, in)
	enc := codec.NewEncoderBytes(&out, &jsonHandle)
	if err := enc.Encode(iface); err != nil {
		return nil, err
	}
	return out, nil
}

// JSONToGo decodes JSON produced by ValueToJSON.
func JSONToGo(data []byte) (interface{}, error) {
	var iface interface{}
	dec := codec.NewDecoderBytes(data, &jsonHandle)
	if err := dec.Decode(&iface); err != nil {
		return nil, err
	}
	return iface, nil
}
