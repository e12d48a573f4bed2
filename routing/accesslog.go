package routing

import (
	"io"
	"log"
	"net/http"
	"time"

	"github.com/zeptools/gw-sqlfixture/requests"
	"github.com/zeptools/gw-sqlfixture/rw"
)

// AccessLog writes one line per request to out once the handler returns:
// `<prefix><method> <url> <status> <bytes>B <duration> <client-ip> <request-id>`
func AccessLog(out io.Writer, prefix string) HandlerWrapper {
	logger := log.New(out, prefix, log.LstdFlags)
	return HandlerWrapperFunc(func(inner http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := rw.NewStatusWriter(w)
			inner.ServeHTTP(sw, r)
			reqID, _ := RequestIDFromContext(r.Context())
			logger.Printf("%s %s %d %dB %s %s %s",
				r.Method,
				r.URL.RequestURI(),
				sw.Status(),
				sw.BytesWritten(),
				time.Since(start).Round(time.Microsecond),
				requests.GetClientIP(r),
				reqID,
			)
		})
	})
}
