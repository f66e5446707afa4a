package mockapi

import (
	"net/http"
	"net/http/httptest"
)

type transport struct {
	handler http.Handler
}

// Transport returns a RoundTripper that serves requests with h in process.
// A request whose context ends before h answers fails with the context error.
func Transport(h http.Handler) http.RoundTripper {
	return transport{handler: h}
}

func (t transport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Body != nil {
		defer func() { _ = r.Body.Close() }()
	}
	rec := httptest.NewRecorder()
	t.handler.ServeHTTP(rec, r)
	if err := r.Context().Err(); err != nil {
		return nil, err
	}
	resp := rec.Result()
	resp.Request = r
	return resp, nil
}
