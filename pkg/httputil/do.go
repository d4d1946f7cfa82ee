package httputil

import (
	"net/http"
	"time"

	"github.com/mydressline-hue/stockpile/pkg/observability"
)

// Do executes req through client and reports the call to the registered
// HTTP hooks. Use this instead of client.Do for remote service calls so
// instrumentation sees every request.
func Do(client *http.Client, req *http.Request) (*http.Response, error) {
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path

	hooks.OnRequest(req.Context(), req.Method, host, path)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(req.Context(), req.Method, host, path, err)
		return nil, err
	}

	hooks.OnResponse(req.Context(), req.Method, host, path, resp.StatusCode, time.Since(start))
	return resp, nil
}
