// Package sqldbtest provides a scripted in-memory sqldb.Client for tests.
//
// Statements are matched by their exact text. Unscripted statements fail the way
// SQL Server reports a missing table (error 208), so error paths need no setup.
//
//	c := sqldbtest.New().OnRows("SELECT 1 AS NUMBER", sqldb.Row{"NUMBER": 1})
//	res, err := c.Query(ctx, "SELECT 1 AS NUMBER")
package sqldbtest

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zeptools/gw-sqlfixture/db/sqldb"
)

// Responder answers one round trip
type Responder func(args []sqldb.NamedArg) (*sqldb.Result, error)

type Client struct {
	Conf *sqldb.Conf

	// Failure injection
	InitErr      error
	PrepareErr   error
	UnprepareErr error

	mu         sync.Mutex
	responders map[string]Responder
	calls      []Call

	inits      atomic.Int64
	closes     atomic.Int64
	queries    atomic.Int64
	prepares   atomic.Int64
	executes   atomic.Int64
	unprepares atomic.Int64
}

// Call records one statement that reached the fake
type Call struct {
	Query    string
	Args     []sqldb.NamedArg
	Prepared bool
}

// Ensure sqldbtest.Client implements sqldb.Client interface
var _ sqldb.Client = (*Client)(nil)

func New() *Client {
	return &Client{
		Conf:       &sqldb.Conf{Type: "mssql", DB: "sqldbtest"},
		responders: map[string]Responder{},
	}
}

func (c *Client) On(query string, r Responder) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responders[query] = r
	return c
}

// OnRows answers query with a single record set
func (c *Client) OnRows(query string, rows ...sqldb.Row) *Client {
	return c.On(query, func(_ []sqldb.NamedArg) (*sqldb.Result, error) {
		return sqldb.NewRowsResult(append(sqldb.RecordSet{}, rows...)), nil
	})
}

// OnExec answers query with rowsAffected
func (c *Client) OnExec(query string, rowsAffected int64) *Client {
	return c.On(query, func(_ []sqldb.NamedArg) (*sqldb.Result, error) {
		return sqldb.NewExecResult(rowsAffected), nil
	})
}

// OnError answers query with err
func (c *Client) OnError(query string, err error) *Client {
	return c.On(query, func(_ []sqldb.NamedArg) (*sqldb.Result, error) {
		return nil, err
	})
}

func (c *Client) Init(_ context.Context) error {
	c.inits.Add(1)
	return c.InitErr
}

func (c *Client) Close() error {
	c.closes.Add(1)
	return nil
}

func (c *Client) GetHandle() sqldb.Handle { return c }

func (c *Client) GetConf() *sqldb.Conf { return c.Conf }

func (c *Client) GetDSN() string { return "sqldbtest://" + c.Conf.DB }

func (c *Client) Ping(_ context.Context) error { return nil }

func (c *Client) Query(ctx context.Context, query string, args ...sqldb.NamedArg) (*sqldb.Result, error) {
	c.queries.Add(1)
	return c.respond(ctx, Call{Query: query, Args: args})
}

func (c *Client) Prepare(ctx context.Context, query string, params []sqldb.Param) (sqldb.PreparedStmt, error) {
	c.prepares.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, sqldb.FromDriver("", 0, "", err)
	}
	if c.PrepareErr != nil {
		return nil, c.PrepareErr
	}
	c.mu.Lock()
	_, known := c.responders[query]
	c.mu.Unlock()
	if !known {
		return nil, invalidObject(query)
	}
	return &PreparedStmt{client: c, query: query, params: params}, nil
}

func (c *Client) respond(ctx context.Context, call Call) (*sqldb.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, sqldb.FromDriver("", 0, "", err)
	}
	c.mu.Lock()
	c.calls = append(c.calls, call)
	r, ok := c.responders[call.Query]
	c.mu.Unlock()
	if !ok {
		return nil, invalidObject(call.Query)
	}
	return r(call.Args)
}

func invalidObject(query string) *sqldb.Error {
	return &sqldb.Error{
		Code:    sqldb.CodeRequest,
		Number:  208,
		State:   "1",
		Message: fmt.Sprintf("Invalid object name in %q.", query),
	}
}

// Calls returns every statement that reached the fake, in order
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

func (c *Client) Inits() int64      { return c.inits.Load() }
func (c *Client) Closes() int64     { return c.closes.Load() }
func (c *Client) Queries() int64    { return c.queries.Load() }
func (c *Client) Prepares() int64   { return c.prepares.Load() }
func (c *Client) Executes() int64   { return c.executes.Load() }
func (c *Client) Unprepares() int64 { return c.unprepares.Load() }

type PreparedStmt struct {
	client     *Client
	query      string
	params     []sqldb.Param
	unprepares atomic.Int64
}

func (p *PreparedStmt) Execute(ctx context.Context, args []sqldb.NamedArg) (*sqldb.Result, error) {
	p.client.executes.Add(1)
	return p.client.respond(ctx, Call{Query: p.query, Args: args, Prepared: true})
}

func (p *PreparedStmt) Unprepare(_ context.Context) error {
	p.client.unprepares.Add(1)
	if n := p.unprepares.Add(1); n > 1 {
		panic(fmt.Sprintf("sqldbtest: statement %q unprepared %d times", p.query, n))
	}
	return p.client.UnprepareErr
}
