package imagery

import (
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Preloader fetches an image so that displaying it afterwards is instant.
// It returns nil only when the asset is known to load.
type Preloader interface {
	Preload(ctx context.Context, url string) error
}

// PreloaderFunc adapts a plain function to Preloader.
type PreloaderFunc func(ctx context.Context, url string) error

func (f PreloaderFunc) Preload(ctx context.Context, url string) error { return f(ctx, url) }

// HTTPPreloader downloads the asset and discards the bytes.
type HTTPPreloader struct {
	Client   *http.Client
	MaxBytes int64
}

// NewHTTPPreloader returns a preloader with its own client.  maxBytes caps
// how much of the body is read (0 means 20 MiB).
func NewHTTPPreloader(timeout time.Duration, maxBytes int64) *HTTPPreloader {
	if maxBytes <= 0 {
		maxBytes = 20 << 20
	}
	return &HTTPPreloader{Client: &http.Client{Timeout: timeout}, MaxBytes: maxBytes}
}

func (p *HTTPPreloader) Preload(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("preload request: %w", err)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("preload fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("preload fetch: status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(strings.ToLower(ct), "image/") {
		return fmt.Errorf("preload fetch: unexpected content type %q", ct)
	}
	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, p.MaxBytes)); err != nil {
		return fmt.Errorf("preload read: %w", err)
	}
	return nil
}

// CachedPreloader remembers URLs that loaded successfully in Redis so
// other sessions skip the download.  With a nil client it is a plain
// pass-through to Next.
type CachedPreloader struct {
	Next   Preloader
	Redis  *redis.Client
	TTL    time.Duration
	Prefix string
}

func (p *CachedPreloader) key(url string) string {
	sum := sha1.Sum([]byte(url))
	return fmt.Sprintf("%s:%x", p.Prefix, sum[:])
}

func (p *CachedPreloader) Preload(ctx context.Context, url string) error {
	if p.Redis == nil {
		return p.Next.Preload(ctx, url)
	}
	key := p.key(url)
	if n, err := p.Redis.Exists(ctx, key).Result(); err == nil && n > 0 {
		return nil
	}
	if err := p.Next.Preload(ctx, url); err != nil {
		return err
	}
	ttl := p.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	_ = p.Redis.SetEx(context.Background(), key, "1", ttl).Err()
	return nil
}
