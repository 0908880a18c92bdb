package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/itsells/billing-api/pkg/apperror"
	"golang.org/x/sync/singleflight"
)

// Endpoints discovers which provider base URL is currently responsive. The
// primary URL is probed first, then the fallback; the first responsive base
// is cached for the configured TTL. Concurrent resolutions share a single
// probe through singleflight.
type Endpoints struct {
	primary  string
	fallback string
	ttl      time.Duration
	client   *http.Client
	now      func() time.Time

	mu     sync.Mutex
	cached string
	expiry time.Time

	group singleflight.Group
}

// NewEndpoints creates an Endpoints prober. probeTimeout bounds each probe
// request; ttl bounds how long a responsive base is reused without re-probing.
func NewEndpoints(primary, fallback string, probeTimeout, ttl time.Duration) *Endpoints {
	return &Endpoints{
		primary:  primary,
		fallback: fallback,
		ttl:      ttl,
		client:   &http.Client{Timeout: probeTimeout},
		now:      time.Now,
	}
}

// Resolve returns a responsive base URL, probing if the cache is cold or
// expired. When neither base responds it returns a ConnectivityError.
func (e *Endpoints) Resolve(ctx context.Context) (string, error) {
	e.mu.Lock()
	if e.cached != "" && e.now().Before(e.expiry) {
		url := e.cached
		e.mu.Unlock()
		return url, nil
	}
	e.mu.Unlock()

	v, err, _ := e.group.Do("probe", func() (interface{}, error) {
		return e.probe(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached base so the next Resolve probes again. Callers
// use it after a request to the cached base fails at the transport level.
func (e *Endpoints) Invalidate() {
	e.mu.Lock()
	e.cached = ""
	e.expiry = time.Time{}
	e.mu.Unlock()
}

func (e *Endpoints) probe(ctx context.Context) (string, error) {
	var lastErr error
	for _, base := range []string{e.primary, e.fallback} {
		if base == "" {
			continue
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/docs", nil)
		if err != nil {
			lastErr = err
			continue
		}
		resp, err := e.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			e.mu.Lock()
			e.cached = base
			e.expiry = e.now().Add(e.ttl)
			e.mu.Unlock()
			return base, nil
		}
		lastErr = fmt.Errorf("probe %s: status %d", base, resp.StatusCode)
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no provider base URL configured")
	}
	return "", &apperror.ConnectivityError{Err: lastErr}
}
