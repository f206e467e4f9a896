package scraper

import (
	"context"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"presyo/internal"
	"presyo/internal/parser"
)

var bulletinHrefPattern = regexp.MustCompile(`(?i)(Daily-Price-Index|DPI).*\.pdf$`)

// FindLatestBulletin fetches the price-monitoring page and returns the
// bulletin link with the newest filename date. Links whose filenames
// carry no parsable date are ignored.
func (c *Client) FindLatestBulletin(ctx context.Context, targetURL string) (internal.BulletinLink, error) {
	if targetURL == "" {
		targetURL = c.cfg.TargetURL
	}

	body, err := c.fetch(ctx, targetURL)
	if err != nil {
		return internal.BulletinLink{}, err
	}

	links, err := c.collectBulletinLinks(body)
	if err != nil {
		return internal.BulletinLink{}, err
	}
	if len(links) == 0 {
		return internal.BulletinLink{}, ErrNoBulletins
	}

	best := links[0]
	c.log.WithFields(logrus.Fields{"url": best.URL, "date": best.DateISO, "candidates": len(links)}).Info("newest bulletin selected")
	return best, nil
}

type datedLink struct {
	link internal.BulletinLink
	date time.Time
}

func (c *Client) collectBulletinLinks(pageHTML []byte) ([]internal.BulletinLink, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(pageHTML)))
	if err != nil {
		return nil, err
	}

	dated := []datedLink{}
	seen := map[string]struct{}{}
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || !bulletinHrefPattern.MatchString(href) {
			return
		}

		absolute := resolveURL(c.cfg.BaseURL, href)
		if _, dup := seen[absolute]; dup {
			return
		}
		seen[absolute] = struct{}{}

		filename := path.Base(href)
		date, ok := parser.DateFromFilename(filename)
		if !ok {
			return
		}
		dated = append(dated, datedLink{
			link: internal.BulletinLink{URL: absolute, Filename: filename, DateISO: date.Format("2006-01-02")},
			date: date,
		})
	})

	sort.SliceStable(dated, func(i, j int) bool { return dated[i].date.After(dated[j].date) })

	out := make([]internal.BulletinLink, 0, len(dated))
	for _, d := range dated {
		out = append(out, d.link)
	}
	return out, nil
}

func resolveURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(u).String()
}
