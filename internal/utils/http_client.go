package utils

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPClient is a wrapper around resty.Client that speaks JSON and propagates
// trace context on every outgoing request.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient creates an independent client for baseURL. A zero timeout
// leaves the resty default in place.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	client := resty.New().
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		// redirects are part of the API (e-mail confirmation), callers inspect them
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))

	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &HTTPClient{Client: client}
}
