package caret

import (
	"fmt"
)

// Symbol is an interned name. Two symbols from the same
// Interner are equal exactly when their names are.
type Symbol uint32

// Interner maps names to symbols and back. It only grows;
// one Interner lives as long as its Session.
type Interner struct {
	symtable    map[string]Symbol
	revsymtable []string
}

func NewInterner() *Interner {
	return &Interner{
		symtable: make(map[string]Symbol),
	}
}

func (in *Interner) Intern(name string) Symbol {
	if sym, ok := in.symtable[name]; ok {
		return sym
	}
	sym := Symbol(len(in.revsymtable))
	in.symtable[name] = sym
	in.revsymtable = append(in.revsymtable, name)
	return sym
}

// Resolve panics if sym was not produced by this Interner.
func (in *Interner) Resolve(sym Symbol) string {
	if int(sym) >= len(in.revsymtable) {
		panic(fmt.Sprintf("symbol %d was not interned here (%d symbols known)",
			sym, len(in.revsymtable)))
	}
	return in.revsymtable[sym]
}

// Lookup reports the symbol for name without interning it.
func (in *Interner) Lookup(name string) (Symbol, bool) {
	sym, ok := in.symtable[name]
	return sym, ok
}

func (in *Interner) Len() int {
	return len(in.revsymtable)
}
