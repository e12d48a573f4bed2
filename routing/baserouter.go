package routing

import "net/http"

type BaseRouter struct {
	*http.ServeMux // Embedded
}

// Ensure BaseRouter implements http.Handler
var _ http.Handler = (*BaseRouter)(nil)

func NewBaseRouter() *BaseRouter {
	return &BaseRouter{ServeMux: http.NewServeMux()}
}

// Handle registers a route pattern
func (r *BaseRouter) Handle(pattern string, handler http.Handler, handlerWrappers ...HandlerWrapper) {
	r.ServeMux.Handle(pattern, Chain(handler, handlerWrappers...))
}

func (r *BaseRouter) HandleFunc(pattern string, handleFunc func(http.ResponseWriter, *http.Request), handlerWrappers ...HandlerWrapper) {
	r.Handle(pattern, http.HandlerFunc(handleFunc), handlerWrappers...)
}
