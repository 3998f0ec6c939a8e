package imagery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPPreloader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.jpg":
			w.Header().Set("Content-Type", "image/jpeg")
			_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
		case "/page":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewHTTPPreloader(time.Second, 1024)
	ctx := context.Background()
	if err := p.Preload(ctx, srv.URL+"/ok.jpg"); err != nil {
		t.Fatalf("ok.jpg: %v", err)
	}
	if err := p.Preload(ctx, srv.URL+"/missing.jpg"); err == nil {
		t.Fatalf("missing.jpg: want error")
	}
	if err := p.Preload(ctx, srv.URL+"/page"); err == nil {
		t.Fatalf("html page: want error")
	}
}

func TestCachedPreloaderWithoutRedis(t *testing.T) {
	calls := 0
	p := &CachedPreloader{Next: PreloaderFunc(func(context.Context, string) error {
		calls++
		return nil
	})}
	_ = p.Preload(context.Background(), "a.jpg")
	_ = p.Preload(context.Background(), "a.jpg")
	if calls != 2 {
		t.Fatalf("nil redis must pass through: want=2 got=%d", calls)
	}
}
