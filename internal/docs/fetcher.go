// Package docs retrieves the auxiliary school documents (module overviews,
// school info, curriculum) from the static content host and caches them
// in-process. Document absence is never an error for callers: every accessor
// returns ("", false) on any failure and the request proceeds without that
// context.
package docs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultFetchTimeout = 3 * time.Second
	DefaultCacheTTL     = time.Hour
)

type Fetcher struct {
	client  *resty.Client
	store   *Store
	timeout time.Duration
}

func NewFetcher(baseURL string, timeout time.Duration, store *Store) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Fetcher{
		client:  resty.New().SetBaseURL(baseURL),
		store:   store,
		timeout: timeout,
	}
}

// ModuleOverview returns the formatted module overview for one grade. The raw
// JSON is fetched per grade and stored already formatted, so each grade has
// its own cache slot.
func (f *Fetcher) ModuleOverview(ctx context.Context, grade int) (string, bool) {
	key := fmt.Sprintf("module-overview/%d", grade)
	if body, ok := f.store.Get(key); ok {
		return body, true
	}

	raw, ok := f.get(ctx, fmt.Sprintf("/module-klasse-%d.json", grade))
	if !ok {
		return "", false
	}

	formatted, err := FormatModuleOverview(raw)
	if err != nil {
		slog.Error("module overview payload is not valid json", "grade", grade, "error", err)
		return "", false
	}

	f.store.Put(key, formatted)
	return formatted, true
}

func (f *Fetcher) SchoolInfo(ctx context.Context) (string, bool) {
	return f.cachedText(ctx, "school-info", "/lmg-schulinfos.md")
}

func (f *Fetcher) Curriculum(ctx context.Context) (string, bool) {
	return f.cachedText(ctx, "curriculum", "/lmg-lehrplan.md")
}

func (f *Fetcher) cachedText(ctx context.Context, key, path string) (string, bool) {
	if body, ok := f.store.Get(key); ok {
		return body, true
	}

	raw, ok := f.get(ctx, path)
	if !ok {
		return "", false
	}

	body := string(raw)
	f.store.Put(key, body)
	return body, true
}

func (f *Fetcher) get(ctx context.Context, path string) ([]byte, bool) {
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	res, err := f.client.R().SetContext(reqCtx).Get(path)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			slog.Warn("document fetch timed out", "path", path, "timeout", f.timeout)
		} else {
			slog.Warn("document fetch failed", "path", path, "error", err)
		}
		return nil, false
	}
	if !res.IsSuccess() {
		slog.Warn("document host returned error", "path", path, "status_code", res.StatusCode())
		return nil, false
	}

	return res.Body(), true
}
