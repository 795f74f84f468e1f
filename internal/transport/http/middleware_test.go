package httptransport

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"plangate/pkg/requestcontext"
	"plangate/pkg/testutil"
)

func TestRequestID(t *testing.T) {
	t.Run("mints an id when none is sent", func(t *testing.T) {
		var seen string
		handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = requestcontext.RequestID(r.Context())
		}))

		rr := testutil.DoRequest(handler, testutil.NewRequest(t, http.MethodGet, "/"))
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))
	})

	t.Run("propagates the inbound id", func(t *testing.T) {
		var seen string
		handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = requestcontext.RequestID(r.Context())
		}))

		req := testutil.NewRequest(t, http.MethodGet, "/")
		req.Header.Set("X-Request-ID", "req-42")
		testutil.DoRequest(handler, req)
		assert.Equal(t, "req-42", seen)
	})
}

func TestClientMetadata(t *testing.T) {
	t.Run("prefers the forwarded address", func(t *testing.T) {
		var ip, ua string
		handler := ClientMetadata(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			ip = requestcontext.ClientIP(r.Context())
			ua = requestcontext.UserAgent(r.Context())
		}))

		req := testutil.NewRequest(t, http.MethodGet, "/")
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		req.Header.Set("User-Agent", "curl/8.0")
		testutil.DoRequest(handler, req)

		assert.Equal(t, "203.0.113.7", ip)
		assert.Equal(t, "curl/8.0", ua)
	})

	t.Run("falls back to the remote address", func(t *testing.T) {
		var ip string
		handler := ClientMetadata(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			ip = requestcontext.ClientIP(r.Context())
		}))

		req := testutil.NewRequest(t, http.MethodGet, "/")
		req.RemoteAddr = "192.0.2.1:5000"
		testutil.DoRequest(handler, req)
		assert.Equal(t, "192.0.2.1", ip)
	})
}

func TestRequestTime(t *testing.T) {
	var first, second time.Time
	handler := RequestTime(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		first = requestcontext.Now(r.Context())
		second = requestcontext.Now(r.Context())
	}))

	testutil.DoRequest(handler, testutil.NewRequest(t, http.MethodGet, "/"))
	assert.False(t, first.IsZero())
	assert.Equal(t, first, second)
}
