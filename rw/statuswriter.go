package rw

import "net/http"

// StatusWriter records the status code and body size written through it
type StatusWriter struct {
	http.ResponseWriter
	status int
	n      int64
}

func NewStatusWriter(w http.ResponseWriter) *StatusWriter {
	return &StatusWriter{ResponseWriter: w}
}

func (sw *StatusWriter) WriteHeader(code int) {
	if sw.status == 0 {
		sw.status = code
	}
	sw.ResponseWriter.WriteHeader(code)
}

// Write implements io.Writer
func (sw *StatusWriter) Write(p []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}
	n, err := sw.ResponseWriter.Write(p)
	sw.n += int64(n) // cuz Write() can be called multiple times internally
	return n, err
}

// Status returns the sent status, 200 when the handler wrote nothing explicit
func (sw *StatusWriter) Status() int {
	if sw.status == 0 {
		return http.StatusOK
	}
	return sw.status
}

// BytesWritten returns the total number of body bytes written
func (sw *StatusWriter) BytesWritten() int64 {
	return sw.n
}

// Unwrap lets http.ResponseController reach the underlying writer
func (sw *StatusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}
