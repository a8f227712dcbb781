package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/lox/skypulse/internal/metrics"
	"github.com/lox/skypulse/internal/store"
)

// RunRecorder audits upstream calls. *store.Store implements it.
type RunRecorder interface {
	StartRun(source, endpoint, query string) (*store.FetchRun, error)
	CompleteRun(run *store.FetchRun) error
}

// request describes one upstream GET.
type request struct {
	source   string     // metrics/audit source label
	endpoint string     // metrics/audit endpoint label
	url      *url.URL
	query    string     // audit description of the request
	failMsg  string     // user-visible NetworkError message
	records  func() int // rows decoded, read after a successful call
}

type fetcher struct {
	client *http.Client
	runs   RunRecorder
	log    *zap.SugaredLogger
}

// getJSON performs the request and decodes a successful JSON body into out.
// Every call is metered and, when a recorder is set, audited.
func (f *fetcher) getJSON(ctx context.Context, r request, out any) error {
	var run *store.FetchRun
	if f.runs != nil {
		var err error
		if run, err = f.runs.StartRun(r.source, r.endpoint, r.query); err != nil {
			f.log.Warnw("start fetch run", "source", r.source, "error", err)
		}
	}

	err := f.do(ctx, r, out, run)

	if run != nil {
		run.Success = err == nil
		if err != nil {
			run.ErrorMessage = sql.NullString{String: errorDetail(err), Valid: true}
		} else if r.records != nil {
			run.RecordsParsed = sql.NullInt64{Int64: int64(r.records()), Valid: true}
		}
		if cerr := f.runs.CompleteRun(run); cerr != nil {
			f.log.Warnw("complete fetch run", "source", r.source, "error", cerr)
		}
	}
	return err
}

func (f *fetcher) do(ctx context.Context, r request, out any, run *store.FetchRun) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.client.Do(req)
	metrics.UpstreamLatency.WithLabelValues(r.source, r.endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues(r.source, r.endpoint, "error").Inc()
		return &NetworkError{Op: r.source + " " + r.endpoint, Message: r.failMsg, Err: err}
	}
	defer resp.Body.Close()

	metrics.UpstreamCallsTotal.WithLabelValues(r.source, r.endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	if run != nil {
		run.HTTPStatus = sql.NullInt64{Int64: int64(resp.StatusCode), Valid: true}
	}

	body, err := io.ReadAll(resp.Body)
	if run != nil {
		run.ResponseSizeBytes = sql.NullInt64{Int64: int64(len(body)), Valid: len(body) > 0}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &NetworkError{
			Op:         r.source + " " + r.endpoint,
			StatusCode: resp.StatusCode,
			Message:    r.failMsg,
		}
	}
	if err != nil {
		return &NetworkError{Op: r.source + " " + r.endpoint, Message: r.failMsg, Err: err}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", r.source, err)
	}
	return nil
}

func errorDetail(err error) string {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Detail()
	}
	return err.Error()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func endpointURL(baseURL, path string) (*url.URL, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	return u.JoinPath(path), nil
}
