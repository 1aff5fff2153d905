package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/stanstork/batchboard-api/internal/models"
)

// DefaultTimeout bounds a live request when no timeout is configured.
const DefaultTimeout = 15 * time.Second

const maxErrorBody = 512

// ErrTimeout is returned when a live request exceeds its client-side timeout.
var ErrTimeout = errors.New("request timed out")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

type httpOptions struct {
	client   *http.Client
	timeout  time.Duration
	location *time.Location
	path     string
}

type HTTPOpt func(*httpOptions)

func WithHTTPClient(c *http.Client) HTTPOpt {
	return func(o *httpOptions) {
		if c != nil {
			o.client = c
		}
	}
}

func WithTimeout(d time.Duration) HTTPOpt {
	return func(o *httpOptions) { o.timeout = d }
}

// WithLocation sets the location calendar dates are anchored in.
func WithLocation(loc *time.Location) HTTPOpt {
	return func(o *httpOptions) { o.location = loc }
}

// WithPath overrides the SLA endpoint path (default /api/sla). An empty path
// keeps the default.
func WithPath(p string) HTTPOpt {
	return func(o *httpOptions) {
		if p = strings.TrimSpace(p); p != "" {
			o.path = "/" + strings.TrimLeft(p, "/")
		}
	}
}

// HTTPProvider fetches records from the SLA REST backend. It does not retry
// and never falls back to mock data.
type HTTPProvider struct {
	baseURL string
	opts    httpOptions
}

func NewHTTPProvider(baseURL string, opts ...HTTPOpt) *HTTPProvider {
	o := httpOptions{
		client:   http.DefaultClient,
		timeout:  DefaultTimeout,
		location: time.UTC,
		path:     "/api/sla",
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &HTTPProvider{baseURL: strings.TrimRight(baseURL, "/"), opts: o}
}

func (p *HTTPProvider) GetData(ctx context.Context, days int) ([]models.BatchRunRecord, error) {
	if days <= 0 {
		return []models.BatchRunRecord{}, nil
	}

	endpoint := p.baseURL + p.opts.path + "?" + url.Values{"days": {strconv.Itoa(days)}}.Encode()
	var raw []rawRecord
	if err := GetJSON(ctx, p.opts.client, endpoint, p.opts.timeout, &raw); err != nil {
		return nil, err
	}

	records := make([]models.BatchRunRecord, 0, len(raw))
	for i, r := range raw {
		rec, err := r.toRecord(i, p.opts.location)
		if err != nil {
			return nil, errors.Wrapf(err, "decode sla record %d", i)
		}
		records = append(records, rec)
	}
	return records, nil
}

// GetJSON performs a GET with a client-side timeout and decodes the JSON body
// into out. Timeouts surface as ErrTimeout, non-2xx responses as *StatusError.
func GetJSON(ctx context.Context, client *http.Client, endpoint string, timeout time.Duration, out interface{}) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return classify(ctx, reqCtx, endpoint, timeout, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{URL: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return classify(ctx, reqCtx, endpoint, timeout, errors.Wrap(err, "decode response"))
	}
	return nil
}

func classify(parent, reqCtx context.Context, endpoint string, timeout time.Duration, err error) error {
	if parent.Err() == nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return errors.Wrapf(ErrTimeout, "GET %s after %s", endpoint, timeout)
	}
	return errors.Wrapf(err, "GET %s", endpoint)
}

// rawRecord is the loosely typed record shape served by the SLA backend.
type rawRecord struct {
	ID          string   `json:"id"`
	RunDate     string   `json:"runDate"`
	Type        string   `json:"type"`
	LRD         string   `json:"lrd"`
	Env         string   `json:"env"`
	Phase       string   `json:"phase"`
	StartTime   *string  `json:"startTime"`
	EndTime     *string  `json:"endTime"`
	DurationHrs *float64 `json:"durationHrs"`
	Status      string   `json:"status"`
}

func (r rawRecord) toRecord(index int, loc *time.Location) (models.BatchRunRecord, error) {
	runDate, err := parseCalendarDate(r.RunDate, loc)
	if err != nil {
		return models.BatchRunRecord{}, errors.Wrap(err, "runDate")
	}
	lrd := runDate
	if strings.TrimSpace(r.LRD) != "" {
		if lrd, err = parseCalendarDate(r.LRD, loc); err != nil {
			return models.BatchRunRecord{}, errors.Wrap(err, "lrd")
		}
	}
	batchType, ok := models.ParseBatchType(r.Type)
	if !ok {
		return models.BatchRunRecord{}, errors.Errorf("unknown type %q", r.Type)
	}
	status, ok := models.ParseRunStatus(r.Status)
	if !ok {
		return models.BatchRunRecord{}, errors.Errorf("unknown status %q", r.Status)
	}
	start, err := parseTimestamp(r.StartTime, loc)
	if err != nil {
		return models.BatchRunRecord{}, errors.Wrap(err, "startTime")
	}
	end, err := parseTimestamp(r.EndTime, loc)
	if err != nil {
		return models.BatchRunRecord{}, errors.Wrap(err, "endTime")
	}
	if start != nil && end != nil && end.Before(*start) {
		return models.BatchRunRecord{}, errors.Errorf("endTime %s before startTime %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	env := strings.ToUpper(strings.TrimSpace(r.Env))
	rec := models.BatchRunRecord{
		ID:        strings.TrimSpace(r.ID),
		RunDate:   runDate,
		Type:      batchType,
		LRD:       lrd,
		Env:       env,
		Phase:     strings.TrimSpace(r.Phase),
		StartTime: start,
		EndTime:   end,
		Status:    status,
	}
	switch {
	case start != nil && end != nil:
		rec.DurationHrs = models.DurationHours(start, end)
	case r.DurationHrs != nil && *r.DurationHrs > 0:
		rec.DurationHrs = *r.DurationHrs
	}
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("%s-%s-%s-%d", env, batchType, runDate.Format("20060102"), index)
	}
	return rec, nil
}

var calendarLayouts = []string{models.DateLayout, "01-02-2006"}

func parseCalendarDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range calendarLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return models.DateOnly(t.In(loc)), nil
	}
	return time.Time{}, errors.Errorf("invalid date %q", s)
}

func parseTimestamp(s *string, loc *time.Location) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(*s))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid timestamp %q", *s)
	}
	t = t.In(loc)
	return &t, nil
}
