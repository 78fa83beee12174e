package server

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestGreetingHandler(t *testing.T) {
	fixed := time.Date(2026, time.March, 14, 10, 30, 0, 0, time.UTC)

	t.Run("greets with the current date", func(t *testing.T) {
		h := NewGreetingHandler("Panos", nil, false)
		h.now = func() time.Time { return fixed }

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", GreetingPath, nil))

		if rec.Code != 200 {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if got := rec.Body.String(); got != "Hello Panos, it is now 2026-03-14" {
			t.Errorf("unexpected body: %q", got)
		}
	})

	t.Run("empty name falls back to default", func(t *testing.T) {
		h := NewGreetingHandler("", nil, false)
		h.now = func() time.Time { return fixed }

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", GreetingPath, nil))

		if got := rec.Body.String(); got != "Hello Panos, it is now 2026-03-14" {
			t.Errorf("unexpected body: %q", got)
		}
	})

	t.Run("shutdown flag posts the stop signal", func(t *testing.T) {
		stopped := false
		h := NewGreetingHandler("Panos", func() { stopped = true }, true)

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", GreetingPath, nil))

		if !stopped {
			t.Error("expected stop to be called")
		}
	})

	t.Run("shutdown flag off never stops", func(t *testing.T) {
		stopped := false
		h := NewGreetingHandler("Panos", func() { stopped = true }, false)

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", GreetingPath, nil))

		if stopped {
			t.Error("stop must not be called when the flag is off")
		}
	})
}

func TestVisitorHandler(t *testing.T) {
	t.Run("reports the incremented count", func(t *testing.T) {
		var count int64
		visit := func() int64 { count++; return count }
		h := NewVisitorHandler(visit, nil, false)

		for _, want := range []string{"Hello! You are visitor #1", "Hello! You are visitor #2"} {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest("GET", VisitorPath, nil))
			if got := rec.Body.String(); got != want {
				t.Errorf("expected %q, got %q", want, got)
			}
		}
	})

	t.Run("posts the stop signal after responding", func(t *testing.T) {
		stopped := false
		h := NewVisitorHandler(func() int64 { return 1 }, func() { stopped = true }, true)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", VisitorPath, nil))

		if rec.Body.String() != "Hello! You are visitor #1" {
			t.Errorf("unexpected body: %q", rec.Body.String())
		}
		if !stopped {
			t.Error("expected stop to be called")
		}
	})
}
