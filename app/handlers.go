package app

import (
	"fmt"
	"log"
	"net/http"

	"github.com/zeptools/gw-sqlfixture/db/gateway"
	"github.com/zeptools/gw-sqlfixture/db/sqldb"
	"github.com/zeptools/gw-sqlfixture/responses"
)

const (
	stmtSelectGetDate    = "fixture.select_getdate"
	stmtSelectMissing    = "fixture.select_missing"
	stmtSelectUsers      = "fixture.select_users"
	stmtInsertFixed      = "fixture.insert_fixed"
	stmtInsertUser       = "fixture.insert_user"
	stmtSelectUserByName = "fixture.select_user_by_name"
	stmtSelectOne        = "fixture.select_one"
)

const userFieldMaxLen = 40

var (
	userParams = []sqldb.Param{
		{Name: "username", Type: sqldb.NVarChar, MaxLength: userFieldMaxLen},
		{Name: "email", Type: sqldb.NVarChar, MaxLength: userFieldMaxLen},
	}
	usernameParam = userParams[:1]
)

// fixed rows written by the insert routes
var (
	paramsUser        = user("augustus", "augustus@julius.com")
	preparedCbUser    = user("tiberius", "tiberius@julius.com")
	preparedAwaitUser = user("caligula", "caligula@julius.com")
	// emails longer than userFieldMaxLen
	oversizedCbUser    = user("claudius", "claudius@julius.com_lets_make_this_longer_than_40_chars")
	oversizedAwaitUser = user("nero", "nero@julius.com_lets_make_this_longer_than_40_chars")
)

func user(name, email string) map[string]any {
	return map[string]any{"username": name, "email": email}
}

func handleSelectGetDate(env *Env, w http.ResponseWriter, r *http.Request) {
	env.Gateway.QueryFunc(r.Context(), env.Store.MustGet(stmtSelectGetDate), func(result *sqldb.Result, err error) {
		if err != nil {
			log.Printf("[WARN] select getdate failed: %v", err)
			writeError(w, err)
			return
		}
		writeJSON(w, result.RecordSet)
	})
}

func handleSelectPromise(env *Env, w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := env.Gateway.QueryAsync(ctx, env.Store.MustGet(stmtSelectGetDate)).Await(ctx)
	if err != nil {
		log.Printf("[WARN] select getdate failed: %v", err)
		writeError(w, err)
		return
	}
	writeJSON(w, result.RecordSet)
}

// The error routes expect the query to fail, so only success is worth a log line

func handleErrorCallback(env *Env, w http.ResponseWriter, r *http.Request) {
	env.Gateway.QueryFunc(r.Context(), env.Store.MustGet(stmtSelectMissing), func(result *sqldb.Result, err error) {
		if err != nil {
			writeError(w, err)
			return
		}
		log.Printf("[WARN] query on a missing table succeeded")
		writeJSON(w, result.RecordSet)
	})
}

func handleErrorPromise(env *Env, w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := env.Gateway.QueryAsync(ctx, env.Store.MustGet(stmtSelectMissing)).Await(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Printf("[WARN] query on a missing table succeeded")
	writeJSON(w, result.RecordSet)
}

func handleSelectAll(env *Env, w http.ResponseWriter, r *http.Request) {
	result, err := env.Gateway.Query(r.Context(), env.Store.MustGet(stmtSelectUsers))
	if err != nil {
		log.Printf("[WARN] select users failed: %v", err)
		writeError(w, err)
		return
	}
	writeJSON(w, result.RecordSet)
}

func handleInsert(env *Env, w http.ResponseWriter, r *http.Request) {
	result, err := env.Gateway.Query(r.Context(), env.Store.MustGet(stmtInsertFixed))
	if err != nil {
		log.Printf("[WARN] insert failed: %v", err)
		writeError(w, err)
		return
	}
	writeJSON(w, result)
}

func handleInsertParams(env *Env, w http.ResponseWriter, r *http.Request) {
	result, err := env.Gateway.Query(r.Context(), env.Store.MustGet(stmtInsertUser),
		sqldb.Named("username", paramsUser["username"]),
		sqldb.Named("email", paramsUser["email"]),
	)
	if err != nil {
		log.Printf("[WARN] insert with params failed: %v", err)
		writeError(w, err)
		return
	}
	writeJSON(w, result)
}

func handleInsertPreparedCallback(env *Env, w http.ResponseWriter, r *http.Request) {
	env.Gateway.PreparedFunc(r.Context(), env.Store.MustGet(stmtInsertUser), userParams, preparedCbUser, reply(w, "prepared insert"))
}

func handleInsertPreparedPromise(env *Env, w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := env.Gateway.PreparedAsync(ctx, env.Store.MustGet(stmtInsertUser), userParams, preparedAwaitUser).Await(ctx)
	reply(w, "prepared insert")(result, err)
}

func handleInsertPreparedErrorCallback(env *Env, w http.ResponseWriter, r *http.Request) {
	env.Gateway.PreparedFunc(r.Context(), env.Store.MustGet(stmtInsertUser), userParams, oversizedCbUser, replyExpectingError(w))
}

func handleInsertPreparedErrorPromise(env *Env, w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := env.Gateway.PreparedAsync(ctx, env.Store.MustGet(stmtInsertUser), userParams, oversizedAwaitUser).Await(ctx)
	replyExpectingError(w)(result, err)
}

// handleSelectByName answers with the email of the first matching row as a JSON string
func handleSelectByName(env *Env, w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	result, err := env.Gateway.Prepared(r.Context(), env.Store.MustGet(stmtSelectUserByName), usernameParam,
		map[string]any{"username": username})
	if err != nil {
		log.Printf("[WARN] select by name failed: %v", err)
		writeError(w, err)
		return
	}
	row, ok := result.First()
	if !ok {
		writeError(w, &sqldb.Error{
			Kind:    sqldb.KindQuery,
			Code:    sqldb.CodeNoRows,
			Message: fmt.Sprintf("no user named %q", username),
			Err:     sqldb.ErrNoRows,
		})
		return
	}
	writeJSON(w, row["email"])
}

func handleSelectStandardPool(env *Env, w http.ResponseWriter, r *http.Request) {
	result, err := gateway.New(env.Pools.Shared()).Query(r.Context(), env.Store.MustGet(stmtSelectOne))
	if err != nil {
		log.Printf("[WARN] select on the shared pool failed: %v", err)
		writeError(w, err)
		return
	}
	writeJSON(w, result.RecordSet)
}

func handleSelectCustomPool(env *Env, w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var result *sqldb.Result
	err := env.Pools.WithEphemeral(ctx, func(h sqldb.Handle) error {
		var err error
		result, err = gateway.New(h).Query(ctx, env.Store.MustGet(stmtSelectOne))
		return err
	})
	if err != nil {
		log.Printf("[WARN] select on an ephemeral pool failed: %v", err)
		writeError(w, err)
		return
	}
	writeJSON(w, result.RecordSet)
}

// reply writes the raw Result or the error
func reply(w http.ResponseWriter, op string) gateway.Callback {
	return func(result *sqldb.Result, err error) {
		if err != nil {
			log.Printf("[WARN] %s failed: %v", op, err)
			writeError(w, err)
			return
		}
		writeJSON(w, result)
	}
}

// replyExpectingError is reply for routes built to fail. Success is still a 200
func replyExpectingError(w http.ResponseWriter) gateway.Callback {
	return func(result *sqldb.Result, err error) {
		if err != nil {
			writeError(w, err)
			return
		}
		log.Printf("[WARN] over-long value was accepted")
		writeJSON(w, result)
	}
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, payload any) {
	responses.EncodeWriteJSON(w, http.StatusOK, payload)
}

func writeError(w http.ResponseWriter, err error) {
	responses.WriteErrorJSON(w, http.StatusInternalServerError, err)
}
