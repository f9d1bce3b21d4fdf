package trigger

import (
	"net/url"
	"sync"

	"github.com/cogstack/cogstack-api/pkg/httpclient"
	"github.com/cogstack/cogstack-api/pkg/logger"
	"go.uber.org/zap"
)

var inflight sync.WaitGroup

// CallAsync calls triggerURL with recordID appended, without blocking the caller.
// Used to notify downstream automation after a contact submission is delivered.
// Failures are logged and otherwise ignored.
func CallAsync(triggerURL, recordID string, httpClient httpclient.Client) {
	if triggerURL == "" {
		// No trigger URL configured, skip silently
		return
	}

	inflight.Add(1)
	go func() {
		defer inflight.Done()

		targetURL := triggerURL + url.PathEscape(recordID)

		logger.Info("Calling trigger URL",
			zap.String("url", targetURL),
			zap.String("record_id", recordID))

		resp, err := httpClient.Get(targetURL)
		if err != nil {
			logger.Error("Failed to call trigger URL",
				zap.Error(err),
				zap.String("url", targetURL),
				zap.String("record_id", recordID))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			logger.Info("Trigger URL called successfully",
				zap.String("url", targetURL),
				zap.String("record_id", recordID),
				zap.Int("status_code", resp.StatusCode))
		} else {
			logger.Warn("Trigger URL returned non-success status",
				zap.String("url", targetURL),
				zap.String("record_id", recordID),
				zap.Int("status_code", resp.StatusCode))
		}
	}()
}

// Wait blocks until every trigger call started by CallAsync has finished.
// Called during shutdown so notifications are not cut off.
func Wait() {
	inflight.Wait()
}
