package scraper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"presyo/internal/config"
)

const listingHTML = `<html><body>
<a href="/files/Daily-Price-Index-August-20-2025.pdf">Aug 20</a>
<a href="https://cdn.da.gov.ph/Daily-Price-Index-August-22-2025.pdf">Aug 22</a>
<a href="/files/DPI-Aug-21-2025.pdf">Aug 21</a>
<a href="/files/Daily-Price-Index-August-20-2025.pdf">duplicate</a>
<a href="/files/Daily-Price-Index.pdf">undated</a>
<a href="/about">about the program</a>
</body></html>`

func testClient(t *testing.T, cfg config.Config) *Client {
	t.Helper()
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.da.gov.ph"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 5000
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 100
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewClient(cfg, log)
}

func TestCollectBulletinLinksNewestFirst(t *testing.T) {
	c := testClient(t, config.Config{})

	links, err := c.collectBulletinLinks([]byte(listingHTML))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(links) != 3 {
		t.Fatalf("links=%d: %+v", len(links), links)
	}

	wantDates := []string{"2025-08-22", "2025-08-21", "2025-08-20"}
	for i, date := range wantDates {
		if links[i].DateISO != date {
			t.Fatalf("links[%d].DateISO=%q want %q", i, links[i].DateISO, date)
		}
	}
	if links[0].URL != "https://cdn.da.gov.ph/Daily-Price-Index-August-22-2025.pdf" {
		t.Fatalf("absolute href rewritten: %q", links[0].URL)
	}
	if links[2].URL != "https://www.da.gov.ph/files/Daily-Price-Index-August-20-2025.pdf" {
		t.Fatalf("relative href not resolved: %q", links[2].URL)
	}
	if links[2].Filename != "Daily-Price-Index-August-20-2025.pdf" {
		t.Fatalf("filename=%q", links[2].Filename)
	}
}

func TestFindLatestBulletin(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(listingHTML))
	}))
	defer ts.Close()

	c := testClient(t, config.Config{})
	link, err := c.FindLatestBulletin(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if link.DateISO != "2025-08-22" {
		t.Fatalf("link=%+v", link)
	}
}

func TestFindLatestBulletinNoLinks(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><a href="/about">nothing here</a></body></html>`))
	}))
	defer ts.Close()

	c := testClient(t, config.Config{})
	if _, err := c.FindLatestBulletin(context.Background(), ts.URL); !errors.Is(err, ErrNoBulletins) {
		t.Fatalf("err=%v", err)
	}
}
