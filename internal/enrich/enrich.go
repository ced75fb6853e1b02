// Package enrich augments stored wells with status, type, and production
// figures scraped from DrillingEdge.
package enrich

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/prairie-data/wellscan/internal/config"
	"github.com/prairie-data/wellscan/internal/model"
	"github.com/prairie-data/wellscan/internal/store"
)

// Scraper fetches and parses DrillingEdge well pages. Requests are paced by
// a token bucket so the site is never hammered.
type Scraper struct {
	cfg     config.ScrapeConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewScraper creates a Scraper from config.
func NewScraper(cfg config.ScrapeConfig) *Scraper {
	delay := time.Duration(cfg.DelayMS) * time.Millisecond
	if delay <= 0 {
		delay = time.Second
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Scraper{
		cfg: cfg,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

// Slug converts a well or county name into a URL path segment.
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlugRe.ReplaceAllString(s, "-")
	s = dashRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

var (
	nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)
	dashRunRe = regexp.MustCompile(`-{2,}`)

	wellLinkRe = regexp.MustCompile(`href="([^"]*/wells/[^"]+)"`)

	statusRe = regexp.MustCompile(`(?i)Well Status\s+([A-Za-z][A-Za-z /-]*)`)
	typeRe   = regexp.MustCompile(`(?i)Well Type\s+([A-Za-z][A-Za-z /-]*)`)
	cityRe   = regexp.MustCompile(`(?i)Closest City\s+([A-Za-z][A-Za-z .'-]*)`)
	oilRe    = regexp.MustCompile(`(?i)([\d,.]+)\s+Barrels of Oil`)
	gasRe    = regexp.MustCompile(`(?i)([\d,.]+)\s+MCF of Gas`)

	tagRe    = regexp.MustCompile(`<[^>]+>`)
	blockRe  = regexp.MustCompile(`(?is)<(script|style|nav|footer)[^>]*>.*?</(script|style|nav|footer)>`)
	spaceRe  = regexp.MustCompile(`[ \t]+`)
	manyNLRe = regexp.MustCompile(`\n{3,}`)
)

// EnrichWell looks up one well on DrillingEdge. It tries the direct
// state/county/well-name page first and falls back to the site search,
// following the first result. Returns nil when no page was found.
func (s *Scraper) EnrichWell(ctx context.Context, rec model.WellRecord) (*model.Enrichment, error) {
	direct := s.cfg.BaseURL + "/" + s.cfg.State + "/" +
		Slug(rec.County) + "-county/wells/" + Slug(rec.WellName) + "/" +
		strings.ToLower(rec.APINumber)

	body, err := s.fetch(ctx, direct)
	pageURL := direct
	if err != nil {
		searchURL := s.cfg.BaseURL + "/search?type=wells&q=" + url.QueryEscape(rec.WellName)
		searchBody, err := s.fetch(ctx, searchURL)
		if err != nil {
			return nil, eris.Wrapf(err, "enrich: search for %q", rec.WellName)
		}
		m := wellLinkRe.FindStringSubmatch(searchBody)
		if m == nil {
			return nil, nil
		}
		pageURL = resolveURL(s.cfg.BaseURL, m[1])
		body, err = s.fetch(ctx, pageURL)
		if err != nil {
			return nil, eris.Wrapf(err, "enrich: fetch well page %s", pageURL)
		}
	}

	enr := parseWellPage(body)
	enr.SourceURL = pageURL
	return enr, nil
}

// fetch gets one URL with pacing and retry on transient failures.
func (s *Scraper) fetch(ctx context.Context, targetURL string) (string, error) {
	retries := s.cfg.MaxRetries
	if retries <= 0 {
		retries = 1
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "enrich: rate limit wait")
		}
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", eris.Wrap(ctx.Err(), "enrich: canceled")
			}
		}

		body, retryable, err := s.fetchOnce(ctx, targetURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return "", lastErr
}

func (s *Scraper) fetchOnce(ctx context.Context, targetURL string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return "", false, eris.Wrap(err, "enrich: create request")
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", true, eris.Wrapf(err, "enrich: fetch %s", targetURL)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return "", true, eris.Wrapf(err, "enrich: read body %s", targetURL)
	}

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return "", true, eris.Errorf("enrich: status %d for %s", resp.StatusCode, targetURL)
	case resp.StatusCode >= 400:
		return "", false, eris.Errorf("enrich: status %d for %s", resp.StatusCode, targetURL)
	}
	return string(body), false, nil
}

// parseWellPage pulls the stat fields out of a well page.
func parseWellPage(html string) *model.Enrichment {
	text := stripHTML(html)

	enr := &model.Enrichment{}
	if m := statusRe.FindStringSubmatch(text); m != nil {
		enr.WellStatus = strings.TrimSpace(m[1])
	}
	if m := typeRe.FindStringSubmatch(text); m != nil {
		enr.WellType = strings.TrimSpace(m[1])
	}
	if m := cityRe.FindStringSubmatch(text); m != nil {
		enr.ClosestCity = strings.TrimSpace(m[1])
	}
	if m := oilRe.FindStringSubmatch(text); m != nil {
		enr.BarrelsOil = strings.ReplaceAll(m[1], ",", "")
	}
	if m := gasRe.FindStringSubmatch(text); m != nil {
		enr.MCFGas = strings.ReplaceAll(m[1], ",", "")
	}
	return enr
}

func stripHTML(html string) string {
	html = blockRe.ReplaceAllString(html, "")
	html = tagRe.ReplaceAllString(html, "\n")
	r := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	html = r.Replace(html)
	html = spaceRe.ReplaceAllString(html, " ")
	html = manyNLRe.ReplaceAllString(html, "\n\n")
	return strings.TrimSpace(html)
}

func resolveURL(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(href, "/")
}

// Run enriches every candidate well. Per-well failures are logged and
// skipped. Returns the number of wells updated.
func Run(ctx context.Context, st store.Store, s *Scraper) (int, error) {
	wells, err := st.ListWellsForEnrichment(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "enrich: list candidates")
	}

	updated := 0
	for _, rec := range wells {
		enr, err := s.EnrichWell(ctx, rec)
		if err != nil {
			if ctx.Err() != nil {
				return updated, eris.Wrap(ctx.Err(), "enrich: canceled")
			}
			zap.L().Warn("enrichment failed",
				zap.Int64("well_id", rec.ID),
				zap.String("well_name", rec.WellName),
				zap.Error(err))
			continue
		}
		if enr == nil {
			zap.L().Info("no drillingedge page found",
				zap.Int64("well_id", rec.ID),
				zap.String("well_name", rec.WellName))
			continue
		}
		if err := st.UpdateEnrichment(ctx, rec.ID, enr); err != nil {
			zap.L().Warn("enrichment update failed",
				zap.Int64("well_id", rec.ID),
				zap.Error(err))
			continue
		}
		updated++
	}

	zap.L().Info("enrichment complete",
		zap.Int("candidates", len(wells)),
		zap.Int("updated", updated))
	return updated, nil
}
