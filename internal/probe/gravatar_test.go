package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anityu45/footprintscan/internal/model"
)

func TestGravatarHash(t *testing.T) {
	t.Parallel()

	// Hashing is case- and whitespace-insensitive so the same address
	// always maps to the same profile.
	want := gravatarHash("alice@example.com")
	if got := gravatarHash("  Alice@Example.COM "); got != want {
		t.Errorf("gravatarHash not normalized: %q != %q", got, want)
	}
	if len(want) != 32 {
		t.Errorf("hash length = %d, want 32", len(want))
	}
}

func TestGravatarProbeRun(t *testing.T) {
	t.Parallel()

	t.Run("profile hit yields identity signal", func(t *testing.T) {
		t.Parallel()

		hash := gravatarHash("alice@example.com")
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/" + hash + ".json":
				_, _ = w.Write([]byte(`{"entry": [{"hash": "` + hash + `"}]}`))
			case "/avatar/" + hash:
				// Plain bytes without an EXIF block.
				_, _ = w.Write([]byte("not-a-jpeg"))
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		p := NewGravatarProbe(server.Client(), "test-agent", time.Second, 1<<20)
		p.baseURL = server.URL

		signals, err := p.Run(context.Background(), "alice@example.com")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(signals) != 1 {
			t.Fatalf("got %d signals, want 1", len(signals))
		}
		if signals[0].Source != "gravatar" || signals[0].Category != model.CategoryIdentity {
			t.Errorf("unexpected signal %+v", signals[0])
		}
	})

	t.Run("no profile yields zero signals", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		p := NewGravatarProbe(server.Client(), "test-agent", time.Second, 1<<20)
		p.baseURL = server.URL

		signals, err := p.Run(context.Background(), "nobody@example.com")
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(signals) != 0 {
			t.Errorf("got %d signals, want 0", len(signals))
		}
	})
}
