package testsupport

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
)

// Upstream is a fake remote API serving canned bodies by request path
type Upstream struct {
	*httptest.Server
	hits  atomic.Int64
	query atomic.Value
}

// Route is a canned response
type Route struct {
	Status      int
	ContentType string
	Body        string
}

// NewUpstream starts a server answering each path in routes; unknown paths get 404.
// The server is closed when the test ends.
func NewUpstream(t *testing.T, routes map[string]Route) *Upstream {
	t.Helper()

	u := &Upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.hits.Add(1)
		u.query.Store(r.URL.Query())

		route, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}

		if route.ContentType == "" {
			route.ContentType = "application/json"
		}
		if route.Status == 0 {
			route.Status = http.StatusOK
		}
		w.Header().Set("Content-Type", route.ContentType)
		w.WriteHeader(route.Status)
		_, _ = w.Write([]byte(route.Body))
	}))
	t.Cleanup(u.Close)

	return u
}

// Hits returns the number of requests served
func (u *Upstream) Hits() int64 {
	return u.hits.Load()
}

// LastQuery returns the query parameters of the most recent request
func (u *Upstream) LastQuery() url.Values {
	q, _ := u.query.Load().(url.Values)
	return q
}
