package routing

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/zeptools/gw-sqlfixture/responses"
)

// RecoverWrapper turns a handler panic into a 500 JSON message
var RecoverWrapper = HandlerWrapperFunc(func(inner http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Printf("[PANIC] recovered: %v\n%s", rec, debug.Stack())
				responses.WriteSimpleErrorJSON(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		inner.ServeHTTP(w, r)
	})
})
