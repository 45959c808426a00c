// Package check probes link targets over HTTP and classifies the
// outcome as alive, dead, or unknown.
package check

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/linkvet/pkg/types"
)

// errRedirectCap marks a probe that exceeded the configured redirect cap.
var errRedirectCap = errors.New("too many redirects")

// Checker issues header-only probes. A HEAD request costs the server a
// handshake and one response header; probes that fail are classified,
// never escalated to GET or retried.
type Checker struct {
	transport    http.RoundTripper
	timeout      time.Duration
	userAgent    string
	maxRedirects int
}

// New builds a Checker from the check configuration.
func New(cfg types.CheckConfig) *Checker {
	return &Checker{
		transport:    http.DefaultTransport,
		timeout:      cfg.Timeout,
		userAgent:    cfg.UserAgent,
		maxRedirects: cfg.MaxRedirects,
	}
}

// Check probes one target with a single HEAD request. Redirects are
// followed up to the configured cap and the verdict describes the final
// response; a permanent redirect on the first hop is additionally
// recorded on the result so reports can suggest updating the link.
// Network failures come back as StatusUnknown with a classified reason,
// never as an error: an unreachable target is a finding, not a fault.
func (c *Checker) Check(ctx context.Context, target string, kind types.TargetKind) types.CheckResult {
	result := types.CheckResult{Target: target, Kind: kind}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		result.Status = types.StatusUnknown
		result.Reason = types.ReasonConnection
		return result
	}
	req.Header.Set("User-Agent", c.userAgent)

	// The redirect callback carries per-probe state, so every probe
	// gets its own client around the shared transport.
	var redirectTo string
	client := &http.Client{
		Transport: c.transport,
		Timeout:   c.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > c.maxRedirects {
				return errRedirectCap
			}
			if len(via) == 1 && req.Response != nil {
				switch req.Response.StatusCode {
				case http.StatusMovedPermanently, http.StatusPermanentRedirect:
					redirectTo = req.URL.String()
				}
			}
			return nil
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = types.StatusUnknown
		result.Reason = classifyFailure(err)
		return result
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	result.HTTPCode = resp.StatusCode
	result.RedirectTo = redirectTo
	result.Status, result.Reason = classifyCode(resp.StatusCode)
	return result
}

// classifyCode maps the final HTTP status code to a verdict.
func classifyCode(code int) (types.Status, types.FailureReason) {
	switch {
	case code >= 200 && code < 400:
		return types.StatusOK, ""
	case code == http.StatusMethodNotAllowed || code == http.StatusNotImplemented:
		// The server rejected the probe method, not the resource.
		return types.StatusUnknown, types.ReasonProtocolRejected
	case code == http.StatusTooManyRequests:
		return types.StatusUnknown, types.ReasonRateLimited
	default:
		return types.StatusDead, ""
	}
}

// classifyFailure maps a transport-level error to a failure reason.
func classifyFailure(err error) types.FailureReason {
	if errors.Is(err, errRedirectCap) {
		return types.ReasonTooManyRedirects
	}
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Timeout() {
		return types.ReasonTimeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return types.ReasonTimeout
	}
	return types.ReasonConnection
}
