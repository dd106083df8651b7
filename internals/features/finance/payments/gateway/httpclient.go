// file: internals/features/finance/payments/gateway/httpclient.go
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var httpClient = &http.Client{Timeout: 10 * time.Second}

const maxRetries = 2

// postJSONWithRetry posts to a provider API with a small bounded retry.
// Timeouts and 5xx are transient (retried, then ErrProviderUnavailable);
// 4xx is permanent and never retried.
func postJSONWithRetry(ctx context.Context, url string, headers map[string]string, payload any) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, ctx.Err())
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			out := map[string]any{}
			if len(respBody) > 0 {
				if err := json.Unmarshal(respBody, &out); err != nil {
					return nil, fmt.Errorf("provider returned invalid JSON: %w", err)
				}
			}
			return out, nil
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("provider %d: %s", resp.StatusCode, truncateBody(respBody))
			continue
		default:
			// 4xx: permanent, do not retry
			return nil, fmt.Errorf("provider rejected request (%d): %s", resp.StatusCode, truncateBody(respBody))
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, lastErr)
}

func truncateBody(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
