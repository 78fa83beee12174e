package server

import (
	"fmt"
	"net/http"
	"time"
)

const (
	// GreetingPath is the health-check style root route.
	GreetingPath = "/"
	// VisitorPath counts visitors and, by default, terminates the server.
	VisitorPath = "/testNYU"

	defaultGreetingName = "Panos"
)

// GreetingHandler serves a fixed greeting interpolated with the current date.
//
// When the shutdown flag is set, it posts the stop signal after the response
// is written; under the default configuration the route leaves the server
// running so it can double as a liveness probe.
type GreetingHandler struct {
	name     string
	now      func() time.Time
	stop     func()
	shutdown bool
}

// NewGreetingHandler creates a [GreetingHandler] greeting the given name.
func NewGreetingHandler(name string, stop func(), shutdown bool) *GreetingHandler {
	if name == "" {
		name = defaultGreetingName
	}
	return &GreetingHandler{
		name:     name,
		now:      time.Now,
		stop:     stop,
		shutdown: shutdown,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *GreetingHandler) Routes() []string {
	return []string{GreetingPath}
}

func (h *GreetingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Hello %s, it is now %s", h.name, h.now().Format("2006-01-02"))

	if h.shutdown && h.stop != nil {
		h.stop()
	}
}

// VisitorHandler increments the server's visitor counter and reports the new
// value. When the shutdown flag is set (the default), it posts the stop
// signal after the response is written, terminating the server once the
// response is flushed.
type VisitorHandler struct {
	visit    func() int64
	stop     func()
	shutdown bool
}

// NewVisitorHandler creates a [VisitorHandler] backed by the given counter.
func NewVisitorHandler(visit func() int64, stop func(), shutdown bool) *VisitorHandler {
	return &VisitorHandler{
		visit:    visit,
		stop:     stop,
		shutdown: shutdown,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *VisitorHandler) Routes() []string {
	return []string{VisitorPath}
}

func (h *VisitorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := h.visit()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Hello! You are visitor #%d", n)

	if h.shutdown && h.stop != nil {
		h.stop()
	}
}
