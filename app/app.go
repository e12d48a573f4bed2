// Package app is the HTTP surface of the fixture service.
//
// Each route drives one database call pattern: callback completion, awaitable
// completion, the prepared statement lifecycle, and shared vs ephemeral pools.
package app

import (
	"embed"
	"net/http"
	"sync/atomic"

	"github.com/zeptools/gw-sqlfixture/db"
	"github.com/zeptools/gw-sqlfixture/db/gateway"
	"github.com/zeptools/gw-sqlfixture/db/pools"
	"github.com/zeptools/gw-sqlfixture/db/sqldb"
	"github.com/zeptools/gw-sqlfixture/readiness"
	"github.com/zeptools/gw-sqlfixture/routing"
)

//go:embed sql
var sqlFS embed.FS

// SQL is the statement group behind the routes
var SQL = sqldb.GroupFS{Group: "fixture", FS: sqlFS}

// Env is everything a database route needs. It exists only after provisioning
type Env struct {
	Client  sqldb.Client // shared pool, closed on shutdown
	Gateway *gateway.Gateway
	Pools   *pools.Selector
	Store   *sqldb.RawStore
}

func NewEnv(shared sqldb.Client, open pools.OpenFunc, store *sqldb.RawStore) *Env {
	return &Env{
		Client:  shared,
		Gateway: gateway.New(shared.GetHandle()),
		Pools:   pools.NewSelector(shared, open),
		Store:   store,
	}
}

type App struct {
	gate *readiness.Gate
	env  atomic.Pointer[Env]
}

func New() *App {
	return &App{gate: readiness.NewGate()}
}

// Ready publishes env and opens the gate. Only the first call takes effect
func (a *App) Ready(env *Env) {
	if a.env.CompareAndSwap(nil, env) {
		a.gate.Open()
	}
}

func (a *App) Gate() *readiness.Gate {
	return a.gate
}

// Close releases the shared pool if provisioning got that far
func (a *App) Close() {
	if env := a.env.Load(); env != nil {
		db.CloseClient("shared pool", env.Client)
	}
}

// Handler builds the route table with wrappers applied outermost first
func (a *App) Handler(wrappers ...routing.HandlerWrapper) http.Handler {
	router := routing.NewBaseRouter()
	router.HandleFunc("GET /{$}", a.handleReady)

	router.HandleFunc("GET /select-getdate", a.withEnv(handleSelectGetDate))
	router.HandleFunc("GET /select-promise", a.withEnv(handleSelectPromise))
	router.HandleFunc("GET /error-callback", a.withEnv(handleErrorCallback))
	router.HandleFunc("GET /error-promise", a.withEnv(handleErrorPromise))
	router.HandleFunc("GET /select", a.withEnv(handleSelectAll))

	router.HandleFunc("POST /insert", a.withEnv(handleInsert))
	router.HandleFunc("POST /insert-params", a.withEnv(handleInsertParams))
	router.HandleFunc("POST /insert-prepared-callback", a.withEnv(handleInsertPreparedCallback))
	router.HandleFunc("POST /insert-prepared-promise", a.withEnv(handleInsertPreparedPromise))
	router.HandleFunc("POST /insert-prepared-error-callback", a.withEnv(handleInsertPreparedErrorCallback))
	router.HandleFunc("POST /insert-prepared-error-promise", a.withEnv(handleInsertPreparedErrorPromise))
	router.HandleFunc("GET /select-by-name/{username}", a.withEnv(handleSelectByName))

	router.HandleFunc("GET /select-standard-pool", a.withEnv(handleSelectStandardPool))
	router.HandleFunc("GET /select-custom-pool", a.withEnv(handleSelectCustomPool))

	return routing.Chain(router, wrappers...)
}

type envHandler func(env *Env, w http.ResponseWriter, r *http.Request)

func (a *App) withEnv(h envHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := a.env.Load()
		if env == nil {
			writeError(w, &sqldb.Error{
				Kind:    sqldb.KindConnect,
				Code:    sqldb.CodeNotOpen,
				Message: "database is still being provisioned",
			})
			return
		}
		h(env, w, r)
	}
}

// handleReady holds the request until provisioning is done.
// A client that gives up first gets no response
func (a *App) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := a.gate.Wait(r.Context()); err != nil {
		return
	}
	writeOK(w)
}
