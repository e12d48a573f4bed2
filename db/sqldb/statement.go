package sqldb

import (
	"context"
	"fmt"
	"log"
	"sync"
	"unicode/utf8"
)

// StmtState is the lifecycle state of a Statement
type StmtState int

const (
	StmtCreated StmtState = iota
	StmtPrepared
	StmtExecuted
	StmtUnprepared
	StmtFailed
)

func (s StmtState) String() string {
	switch s {
	case StmtCreated:
		return "created"
	case StmtPrepared:
		return "prepared"
	case StmtExecuted:
		return "executed"
	case StmtUnprepared:
		return "unprepared"
	case StmtFailed:
		return "failed"
	default:
		return fmt.Sprintf("StmtState(%d)", int(s))
	}
}

// Statement drives one prepared statement through
// Created -> Prepared -> Executed -> Unprepared.
// Once Prepared, Unprepare must be called exactly once whatever Execute returned.
type Statement struct {
	handle Handle
	params []Param

	mu    sync.Mutex
	state StmtState
	stmt  PreparedStmt
}

func NewStatement(h Handle) *Statement {
	return &Statement{handle: h}
}

// Input declares a named input. Only effective before Prepare
func (s *Statement) Input(name string, typ SQLType, maxLength int) *Statement {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StmtCreated {
		s.params = append(s.params, Param{Name: name, Type: typ, MaxLength: maxLength})
	}
	return s
}

func (s *Statement) State() StmtState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Statement) Params() []Param {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Param(nil), s.params...)
}

// Prepare submits query for server-side compilation
func (s *Statement) Prepare(ctx context.Context, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StmtCreated {
		return &Error{Kind: KindPrepare, Code: CodeAlreadyPrepared,
			Message: fmt.Sprintf("statement is %s", s.state)}
	}
	seen := make(map[string]struct{}, len(s.params))
	for _, p := range s.params {
		if _, dup := seen[p.Name]; dup {
			s.state = StmtFailed
			return &Error{Kind: KindPrepare, Code: CodeArgs,
				Message: fmt.Sprintf("input @%s declared twice", p.Name)}
		}
		seen[p.Name] = struct{}{}
	}
	stmt, err := s.handle.Prepare(ctx, query, s.params)
	if err != nil {
		s.state = StmtFailed
		return AsKind(KindPrepare, err)
	}
	s.stmt = stmt
	s.state = StmtPrepared
	return nil
}

// Execute binds args by name and runs the prepared statement.
// Every declared input must be bound; undeclared args are rejected
func (s *Statement) Execute(ctx context.Context, args map[string]any) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StmtPrepared && s.state != StmtExecuted {
		return nil, &Error{Kind: KindExecute, Code: CodeNotPrepared,
			Message: fmt.Sprintf("statement is %s", s.state)}
	}
	bound, err := bindArgs(s.params, args)
	if err != nil {
		return nil, err
	}
	result, err := s.stmt.Execute(ctx, bound)
	if err != nil {
		return nil, AsKind(KindExecute, err)
	}
	s.state = StmtExecuted
	return result, nil
}

// Unprepare releases the server-side statement.
// The driver is called at most once; its failure still ends in Unprepared
func (s *Statement) Unprepare(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StmtPrepared, StmtExecuted:
	case StmtUnprepared:
		return &Error{Kind: KindUnprepare, Code: CodeAlreadyUnprepared, Message: "statement already unprepared"}
	default:
		return &Error{Kind: KindUnprepare, Code: CodeNotPrepared,
			Message: fmt.Sprintf("statement is %s", s.state)}
	}
	s.state = StmtUnprepared
	stmt := s.stmt
	s.stmt = nil
	if err := stmt.Unprepare(ctx); err != nil {
		return AsKind(KindUnprepare, err)
	}
	return nil
}

func bindArgs(params []Param, args map[string]any) ([]NamedArg, error) {
	bound := make([]NamedArg, 0, len(params))
	declared := make(map[string]struct{}, len(params))
	for _, p := range params {
		declared[p.Name] = struct{}{}
		v, ok := args[p.Name]
		if !ok {
			return nil, &Error{Kind: KindExecute, Code: CodeArgs,
				Message: fmt.Sprintf("no value bound for declared input @%s", p.Name)}
		}
		if err := checkLength(p, v); err != nil {
			return nil, err
		}
		bound = append(bound, NamedArg{Name: p.Name, Value: v})
	}
	for name := range args {
		if _, ok := declared[name]; !ok {
			return nil, &Error{Kind: KindExecute, Code: CodeArgs,
				Message: fmt.Sprintf("value bound for undeclared input @%s", name)}
		}
	}
	return bound, nil
}

func checkLength(p Param, v any) error {
	if p.MaxLength <= 0 {
		return nil
	}
	var n int
	switch val := v.(type) {
	case string:
		n = utf8.RuneCountInString(val)
	case []byte:
		n = len(val)
	default:
		return nil
	}
	if n > p.MaxLength {
		return &Error{Kind: KindExecute, Code: CodeParam,
			Message: fmt.Sprintf("validation failed for input @%s: %d chars exceeds %s", p.Name, n, p)}
	}
	return nil
}

// RunPrepared prepares query, executes it once with args and unprepares it.
// Unprepare runs on every path once Prepare succeeded, including a panicking Execute,
// and is not bound to ctx cancellation.
// An Execute failure is returned even when Unprepare fails too (that one is logged).
// An Unprepare failure after a successful Execute is returned as is
func RunPrepared(ctx context.Context, h Handle, query string, params []Param, args map[string]any) (result *Result, err error) {
	s := NewStatement(h)
	for _, p := range params {
		s.Input(p.Name, p.Type, p.MaxLength)
	}
	if err = s.Prepare(ctx, query); err != nil {
		return nil, err
	}
	defer func() {
		unprepErr := s.Unprepare(context.WithoutCancel(ctx))
		if unprepErr == nil {
			return
		}
		if err != nil {
			log.Printf("[WARN] unprepare after failed execute: %v", unprepErr)
			return
		}
		result, err = nil, unprepErr
	}()
	return s.Execute(ctx, args)
}
