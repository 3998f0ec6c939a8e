package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/vehicle-configurator/internal/config"
	"github.com/iliyamo/vehicle-configurator/internal/utils"
)

const secret = "test-secret"

func whoami(c echo.Context) error {
	uid := "anon"
	if id := CurrentUser(c); id != nil {
		uid = userKey(c)
	}
	return c.String(http.StatusOK, uid+"/"+CurrentRole(c))
}

func serve(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func token(t *testing.T, uid uint64, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, uid, role, 5)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok.Token
}

func TestJWTAuth(t *testing.T) {
	e := echo.New()
	e.GET("/x", whoami, JWTAuth(secret))

	if rec := serve(e, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: want=401 got=%d", rec.Code)
	}
	if rec := serve(e, "garbage"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: want=401 got=%d", rec.Code)
	}
	rec := serve(e, token(t, 7, "ADMIN"))
	if rec.Code != http.StatusOK || rec.Body.String() != "7/ADMIN" {
		t.Fatalf("valid token: code=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestOptionalAuth(t *testing.T) {
	e := echo.New()
	e.GET("/x", whoami, OptionalAuth(secret))

	rec := serve(e, "")
	if rec.Code != http.StatusOK || rec.Body.String() != "anon/" {
		t.Fatalf("anonymous: code=%d body=%s", rec.Code, rec.Body.String())
	}
	if rec := serve(e, "garbage"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: want=401 got=%d", rec.Code)
	}
	if rec := serve(e, token(t, 3, "CUSTOMER")); rec.Body.String() != "3/CUSTOMER" {
		t.Fatalf("valid token: body=%s", rec.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	e.GET("/x", whoami, JWTAuth(secret), RequireRole("ADMIN", "SALES"))

	if rec := serve(e, token(t, 1, "CUSTOMER")); rec.Code != http.StatusForbidden {
		t.Fatalf("customer: want=403 got=%d", rec.Code)
	}
	if rec := serve(e, token(t, 1, "SALES")); rec.Code != http.StatusOK {
		t.Fatalf("sales: want=200 got=%d", rec.Code)
	}
}

func TestRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/configurator/abc/color", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/configurator/:sid/color")

	cases := map[string]string{
		"ip":      "rl:ip:10.0.0.1",
		"user":    "rl:user:anon",
		"ip_user": "rl:ip:10.0.0.1:user:anon",
		"":        "rl:ip:10.0.0.1:user:anon:route:POST /v1/configurator/:sid/color",
	}
	for strategy, want := range cases {
		got := rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}, c)
		if got != want {
			t.Fatalf("strategy %q: want=%s got=%s", strategy, want, got)
		}
	}

	c.Set(ctxUserID, uint64(12))
	if got := rateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}, c); !strings.HasSuffix(got, ":12") {
		t.Fatalf("user key: %s", got)
	}
}

func TestDisabledMiddlewaresPassThrough(t *testing.T) {
	e := echo.New()
	e.GET("/x", whoami,
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, nil))
	rec := serve(e, "")
	if rec.Code != http.StatusOK || rec.Header().Get("X-Cache") != "" {
		t.Fatalf("pass-through: code=%d x-cache=%q", rec.Code, rec.Header().Get("X-Cache"))
	}
}

func TestCachePayloadRoundTrip(t *testing.T) {
	h := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, h, []byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, hdr, body, ok := decodePayload(bs)
	if !ok || status != http.StatusOK || hdr.Get("Content-Type") != "application/json" || string(body) != `{"a":1}` {
		t.Fatalf("decode: ok=%v status=%d hdr=%v body=%s", ok, status, hdr, body)
	}
	if _, _, _, ok := decodePayload([]byte{0, 1}); ok {
		t.Fatalf("short payload decoded")
	}
}
