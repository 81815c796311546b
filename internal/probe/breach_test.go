package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anityu45/footprintscan/internal/model"
)

func TestBreachProbeRun(t *testing.T) {
	t.Parallel()

	t.Run("exposed email yields one signal per breach", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/check-email/alice@example.com" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"breaches": [["LinkedIn", "Adobe"], ["Adobe", "Canva"]]}`))
		}))
		defer server.Close()

		p := NewBreachProbe(server.Client(), "test-agent", time.Second)
		p.baseURL = server.URL

		signals, err := p.Run(context.Background(), "alice@example.com")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(signals) != 3 {
			t.Fatalf("got %d signals, want 3", len(signals))
		}

		// De-duplication preserves first-seen order.
		wantSources := []string{"LinkedIn", "Adobe", "Canva"}
		for i, sig := range signals {
			if sig.Source != wantSources[i] {
				t.Errorf("signal[%d].Source = %q, want %q", i, sig.Source, wantSources[i])
			}
			if sig.Category != model.CategoryBreach {
				t.Errorf("signal[%d].Category = %v, want Breach", i, sig.Category)
			}
			if sig.Severity != model.SeverityMedium {
				t.Errorf("signal[%d].Severity = %v, want Medium for 3 breaches", i, sig.Severity)
			}
		}
	})

	t.Run("404 means clean", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"Error": "Not found"}`, http.StatusNotFound)
		}))
		defer server.Close()

		p := NewBreachProbe(server.Client(), "test-agent", time.Second)
		p.baseURL = server.URL

		signals, err := p.Run(context.Background(), "clean@example.com")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(signals) != 0 {
			t.Errorf("got %d signals, want 0", len(signals))
		}
	})

	t.Run("server error is reported", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		p := NewBreachProbe(server.Client(), "test-agent", time.Second)
		p.baseURL = server.URL

		if _, err := p.Run(context.Background(), "x@example.com"); err == nil {
			t.Fatal("Run() error = nil, want unexpected status error")
		}
	})

	t.Run("nil client is refused", func(t *testing.T) {
		t.Parallel()

		p := NewBreachProbe(nil, "test-agent", time.Second)
		if _, err := p.Run(context.Background(), "x@example.com"); err != ErrNoHTTPClient {
			t.Fatalf("Run() error = %v, want ErrNoHTTPClient", err)
		}
	})
}

func TestFlattenBreachNames(t *testing.T) {
	t.Parallel()

	names := flattenBreachNames([][]string{{"A", "B", ""}, {"B", "C"}, nil, {"A"}})
	want := []string{"A", "B", "C"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
