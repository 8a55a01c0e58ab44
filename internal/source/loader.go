// Package source fetches raw questionnaire exports from a local file or a
// published spreadsheet URL and caches the parsed table for a refresh interval.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"yashubustudio/sleepsurvey/survey"
)

// ErrEmptySource is returned when no location is configured.
var ErrEmptySource = errors.New("source location is empty")

// ErrTooLarge is returned when a remote export exceeds the body limit.
var ErrTooLarge = errors.New("source body exceeds size limit")

// defaultMaxBody caps how much of a remote export is read.
const defaultMaxBody = 64 << 20

// Loader reads a CSV or TSV export and keeps it for RefreshSeconds.
type Loader struct {
	location string
	remote   bool
	delim    rune
	ttl      time.Duration
	timeout  time.Duration
	maxBody  int64

	client *http.Client
	cache  *tableCache
	logger zerolog.Logger
	now    func() time.Time

	// fetchMu keeps concurrent cache misses from hitting the source twice.
	fetchMu sync.Mutex
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the client used for remote sources.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) { l.now = now }
}

// New builds a loader for cfg.Location. A location starting with http:// or
// https:// is fetched over HTTP; anything else is read as a file path.
func New(cfg survey.SourceConfig, opts ...Option) (*Loader, error) {
	location := strings.TrimSpace(cfg.Location)
	if location == "" {
		return nil, ErrEmptySource
	}
	if cfg.RefreshSeconds <= 0 {
		cfg.RefreshSeconds = 300
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}

	l := &Loader{
		location: location,
		ttl:      time.Duration(cfg.RefreshSeconds) * time.Second,
		timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
		maxBody:  defaultMaxBody,
		client:   http.DefaultClient,
		cache:    newTableCache(strings.TrimSpace(cfg.CacheDir)),
		logger:   zerolog.Nop(),
		now:      time.Now,
	}
	path := location
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		l.remote = true
		path = u.Path
		if strings.EqualFold(u.Query().Get("output"), "tsv") {
			path += ".tsv"
		}
	}
	l.delim = survey.DelimiterFor(path)
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Location returns the configured file path or URL.
func (l *Loader) Location() string { return l.location }

// Load returns the cached table while it is younger than the refresh interval
// and fetches the source otherwise. The returned table is a private copy.
func (l *Loader) Load(ctx context.Context) (*survey.Table, error) {
	key := cacheKey(l.location, l.delim)
	if e, ok := l.cache.get(key); ok && l.now().Sub(e.fetched) < l.ttl {
		return e.table.Clone(), nil
	}
	return l.refresh(ctx, key, false)
}

// Refresh fetches the source regardless of the cache age.
func (l *Loader) Refresh(ctx context.Context) (*survey.Table, error) {
	return l.refresh(ctx, cacheKey(l.location, l.delim), true)
}

// FetchedAt reports when the cached table was last fetched.
func (l *Loader) FetchedAt() (time.Time, bool) {
	e, ok := l.cache.get(cacheKey(l.location, l.delim))
	return e.fetched, ok
}

func (l *Loader) refresh(ctx context.Context, key string, force bool) (*survey.Table, error) {
	l.fetchMu.Lock()
	defer l.fetchMu.Unlock()

	// Another caller may have refreshed while we waited.
	if e, ok := l.cache.get(key); ok && !force && l.now().Sub(e.fetched) < l.ttl {
		return e.table.Clone(), nil
	}

	started := l.now()
	data, err := l.fetch(ctx)
	if err == nil {
		var t *survey.Table
		t, err = survey.ReadCSV(bytes.NewReader(data), l.delim)
		if err == nil {
			l.cache.put(key, t, l.now())
			if serr := l.cache.save(key, data); serr != nil {
				l.logger.Warn().Err(serr).Msg("Failed to write source cache")
			}
			l.logger.Info().
				Str("source", l.location).
				Int("rows", t.Len()).
				Dur("took", l.now().Sub(started)).
				Msg("Loaded survey export")
			return t.Clone(), nil
		}
		err = fmt.Errorf("parse %s: %w", l.location, err)
	}
	return l.fallback(key, err)
}

// fallback serves the last good copy when a fetch fails.
func (l *Loader) fallback(key string, cause error) (*survey.Table, error) {
	if e, ok := l.cache.get(key); ok {
		l.logger.Warn().Err(cause).Time("fetched", e.fetched).Msg("Source unavailable, serving cached table")
		return e.table.Clone(), nil
	}
	data, ok, err := l.cache.load(key)
	if err != nil {
		l.logger.Warn().Err(err).Msg("Failed to read source cache")
	}
	if ok {
		t, err := survey.ReadCSV(bytes.NewReader(data), l.delim)
		if err == nil {
			l.logger.Warn().Err(cause).Msg("Source unavailable, serving on-disk copy")
			// Zero time keeps the next Load retrying the source.
			l.cache.put(key, t, time.Time{})
			return t.Clone(), nil
		}
	}
	return nil, cause
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	if !l.remote {
		data, err := os.ReadFile(l.location)
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
		return data, nil
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.location, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/tab-separated-values, text/plain")
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch source: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch source: unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read source body: %w", err)
	}
	if int64(len(data)) > l.maxBody {
		return nil, fmt.Errorf("fetch source: %w (%d bytes)", ErrTooLarge, l.maxBody)
	}
	return data, nil
}
