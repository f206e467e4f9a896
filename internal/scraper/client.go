// Package scraper retrieves the DA price-monitoring page, discovers
// the newest Daily Price Index PDF link, and downloads bulletin bytes.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"presyo/internal/config"
)

// ErrNoBulletins is returned when the target page carries no Daily
// Price Index links at all.
var ErrNoBulletins = errors.New("no daily price index PDFs found")

type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
	log        *logrus.Logger
}

func NewClient(cfg config.Config, log *logrus.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.HTTPTimeout) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.RateLimitRPS),
		log:        log,
	}
}

// fetch GETs a URL with browser-like headers, bounded retries and
// backoff on retryable statuses. The DA site rejects default Go
// user agents.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= 4; attempt++ {
		if err := c.limiter.WaitTurn(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.cfg.UserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,application/pdf;q=0.8,*/*;q=0.7")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Connection", "keep-alive")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 4 {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				c.log.WithFields(logrus.Fields{"url": url, "status": resp.StatusCode, "attempt": attempt}).Warn("retrying fetch")
				time.Sleep(backoff)
				lastErr = fmt.Errorf("status %d", resp.StatusCode)
				continue
			}
			return nil, fmt.Errorf("fetch %s: status=%d", url, resp.StatusCode)
		}

		return body, nil
	}

	if lastErr == nil {
		lastErr = errors.New("fetch failed")
	}
	return nil, fmt.Errorf("fetch %s: %w", url, lastErr)
}

// DownloadPDF fetches bulletin bytes from an absolute URL.
func (c *Client) DownloadPDF(ctx context.Context, url string) ([]byte, error) {
	blob, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{"url": url, "bytes": len(blob)}).Info("bulletin downloaded")
	return blob, nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
