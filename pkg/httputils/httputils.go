package httputils

import (
	"context"
	"net/http"
	"time"

	"github.com/autobrr/autobrr/pkg/sharedhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"

	"github.com/autobrr/discordhook/pkg/runtime"
)

// NewWebhookClient returns an http.Client suited for one-shot webhook
// delivery: a single attempt (the tool never retries a send), a hard timeout
// and an optional pre-request rate limit.
func NewWebhookClient(timeout time.Duration, rl ratelimit.Limiter, log *logrus.Entry) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	// never retry, even on 5xx: the caller owns response interpretation and a
	// failed delivery is reported, not repeated
	retryClient.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		return false, err
	}
	retryClient.RequestLogHook = func(l retryablehttp.Logger, request *http.Request, i int) {
		// set user-agent
		if request != nil {
			request.Header.Set("User-Agent", "discordhook/"+runtime.Version)
		}

		// rate limit
		if rl != nil {
			rl.Take()
		}
	}
	retryClient.ResponseLogHook = func(_ retryablehttp.Logger, response *http.Response) {
		if log != nil && response != nil && response.Request != nil {
			log.Tracef("%s %s -> %d", response.Request.Method, response.Request.URL.Redacted(), response.StatusCode)
		}
	}
	retryClient.HTTPClient.Timeout = timeout
	retryClient.HTTPClient.Transport = sharedhttp.Transport
	retryClient.Logger = nil
	return retryClient.StandardClient()
}
