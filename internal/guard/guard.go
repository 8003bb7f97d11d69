// Package guard implements the ordered interceptor pipeline wrapped
// around every inbound request: anonymous rate limiting, login lockout,
// security headers and access auditing. Stages are composed once at
// startup; there is no implicit hook registration.
package guard

import "net/http"

// Interceptor is one pipeline stage. A stage either writes a terminal
// response itself or invokes next exactly once.
type Interceptor interface {
	Intercept(w http.ResponseWriter, r *http.Request, next http.Handler)
}

// InterceptorFunc adapts a plain function to the Interceptor interface.
type InterceptorFunc func(w http.ResponseWriter, r *http.Request, next http.Handler)

// Intercept calls f.
func (f InterceptorFunc) Intercept(w http.ResponseWriter, r *http.Request, next http.Handler) {
	f(w, r, next)
}

// Chain composes interceptors into a single middleware. The first
// interceptor in the list sees the request first and its response
// handling runs last.
func Chain(interceptors ...Interceptor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		h := next
		for i := len(interceptors) - 1; i >= 0; i-- {
			stage := interceptors[i]
			inner := h
			h = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				stage.Intercept(w, r, inner)
			})
		}
		return h
	}
}

// statusRecorder captures the status code the downstream handler wrote,
// for stages that act on the outcome after the response is produced.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	if w.status == 0 {
		w.status = statusCode
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Write(data []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(data)
}

func (w *statusRecorder) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}
