package caret

import (
	"github.com/google/uuid"
)

// Session owns the interner and the scope stack that parsed
// expressions are evaluated against. The global frame is
// created with the session and lives as long as it does.
//
// A Session is not safe for concurrent use.
type Session struct {
	ID string

	cfg       *CaretConfig
	interner  *Interner
	stack     *Stack
	evaluator *Evaluator
}

// NewSession returns a session with the builtins bound in
// its global frame. A nil cfg gets the defaults.
func NewSession(cfg *CaretConfig) *Session {
	if cfg == nil {
		cfg = &CaretConfig{MaxDepth: DefaultMaxDepth}
	}
	ses := &Session{
		ID:        uuid.New().String(),
		cfg:       cfg,
		interner:  NewInterner(),
		evaluator: NewEvaluator(cfg.EvalDepth(), cfg.Trace),
	}
	ses.stack = NewStack("session " + ses.ID)

	glob := NewNamedScope("global")
	glob.IsGlobal = true
	ses.stack.Push(glob)
	for i, b := range AllBuiltinFunctions() {
		glob.Map[ses.interner.Intern(b.Name)] = MakeFunction(i)
	}

	// top-level def! writes here; Clear replaces this frame.
	ses.stack.PushNamedScope("user")

	logger.Debugf("session %s started with %d builtins", ses.ID, len(glob.Map))
	return ses
}

func (ses *Session) Interner() *Interner  { return ses.interner }
func (ses *Session) Stack() *Stack        { return ses.stack }
func (ses *Session) Config() *CaretConfig { return ses.cfg }

// UserScope is the frame that top-level def! writes to.
func (ses *Session) UserScope() *Scope {
	return ses.stack.scopes[1]
}

// Parse reads exactly one expression from line.
func (ses *Session) Parse(line string) (*Expr, *Source, error) {
	src := NewSource(line)
	p := NewParser(src, ses.interner)
	p.SetMaxDepth(ses.cfg.EvalDepth())
	expr, err := p.ParseLine()
	return expr, src, err
}

// Eval evaluates expr, which must have been parsed from src
// by this session.
func (ses *Session) Eval(expr *Expr, src *Source) (Value, error) {
	return ses.evaluator.Eval(expr, src, ses.stack)
}

// EvalString parses and evaluates one expression. The Source
// is returned so that errors can be rendered against it.
func (ses *Session) EvalString(line string) (Value, *Source, error) {
	expr, src, err := ses.Parse(line)
	if err != nil {
		return SexpNull, src, err
	}
	v, err := ses.Eval(expr, src)
	return v, src, err
}

// EvalScript parses every expression in text and evaluates
// them in order. It returns the value of the last one, and
// stops at the first error.
func (ses *Session) EvalScript(text string) (Value, *Source, error) {
	src := NewSource(text)
	p := NewParser(src, ses.interner)
	p.SetMaxDepth(ses.cfg.EvalDepth())
	exprs, err := p.ParseAll()
	if err != nil {
		return SexpNull, src, err
	}
	res := SexpNull
	for _, expr := range exprs {
		res, err = ses.Eval(expr, src)
		if err != nil {
			return SexpNull, src, err
		}
	}
	return res, src, nil
}

// Clear drops every user binding, keeping the builtins.
func (ses *Session) Clear() {
	ses.stack.TruncateToSize(1)
	ses.stack.PushNamedScope("user")
}
