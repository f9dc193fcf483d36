package web

import (
	"bufio"
	"errors"
	"log"
	"net"
	"net/http"
	"time"
)

// StatusResponseWriter records the status code for request logging
type StatusResponseWriter struct {
	http.ResponseWriter
	Status int
}

func (w *StatusResponseWriter) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

// Hijack lets the websocket upgrade through the wrapper
func (w *StatusResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.Status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func WrapStatusRW(wr http.ResponseWriter) *StatusResponseWriter {
	if sw, ok := wr.(*StatusResponseWriter); ok {
		return sw
	}
	return &StatusResponseWriter{
		ResponseWriter: wr,
		Status:         http.StatusOK, // handlers might not call WriteHeader at all
	}
}

// Logger logs each request when verbose is set
func Logger(handler http.Handler, name string, verbose bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t0 := time.Now()
		sw := WrapStatusRW(w)
		handler.ServeHTTP(sw, r)
		if verbose {
			log.Printf("%s- %s %s> (%d) - %s",
				name, r.Method, r.RequestURI, sw.Status, time.Since(t0))
		}
	})
}
