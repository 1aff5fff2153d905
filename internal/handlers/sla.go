package handlers

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stanstork/batchboard-api/internal/aggregate"
	"github.com/stanstork/batchboard-api/internal/export"
	"github.com/stanstork/batchboard-api/internal/filter"
	"github.com/stanstork/batchboard-api/internal/models"
	"github.com/stanstork/batchboard-api/internal/provider"
	"github.com/stanstork/batchboard-api/internal/report"
)

// MaxDays caps the window a single request may load.
const MaxDays = 366

const (
	paramDays     = "days"
	paramSort     = "sort"
	paramOrder    = "order"
	paramPage     = "page"
	paramPageSize = "page_size"
)

type SLAOptions struct {
	DefaultDays  int
	Environments []string
	Weight       aggregate.WeightFunc
	Location     *time.Location
	Now          func() time.Time
}

type SLAHandler struct {
	data        provider.DataProvider
	validator   filter.Validator
	weight      aggregate.WeightFunc
	defaultDays int
	loc         *time.Location
	now         func() time.Time
	logger      zerolog.Logger
}

func NewSLAHandler(data provider.DataProvider, opts SLAOptions, logger zerolog.Logger) *SLAHandler {
	if opts.DefaultDays <= 0 {
		opts.DefaultDays = 7
	}
	if opts.Weight == nil {
		opts.Weight = aggregate.StatusWeights
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SLAHandler{
		data:        data,
		validator:   filter.Validator{Environments: opts.Environments, Now: opts.Now, Location: opts.Location},
		weight:      opts.Weight,
		defaultDays: opts.DefaultDays,
		loc:         opts.Location,
		now:         opts.Now,
		logger:      logger.With().Str("handler", "sla").Logger(),
	}
}

// Raw returns the filtered records as served by the data source.
func (h *SLAHandler) Raw(w http.ResponseWriter, r *http.Request) {
	records, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// Series returns per-day runtime averages for the chart plus summary cards.
func (h *SLAHandler) Series(w http.ResponseWriter, r *http.Request) {
	records, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"points":  aggregate.Series(records, h.weight),
		"summary": aggregate.Summary(records),
	})
}

// Rows returns one sorted page of the SLA table.
func (h *SLAHandler) Rows(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	errs := filter.Errors{}
	key, desc := parseSort(q.Get(paramSort), q.Get(paramOrder), errs)
	page := parsePositive(q.Get(paramPage), paramPage, 1, errs)
	size := parsePositive(q.Get(paramPageSize), paramPageSize, report.DefaultPageSize, errs)
	if size > report.MaxPageSize {
		errs.Add(paramPageSize, fmt.Sprintf("must be at most %d", report.MaxPageSize))
	}

	records, ok := h.loadWith(w, r, errs, paramSort, paramOrder, paramPage, paramPageSize)
	if !ok {
		return
	}
	sorted, err := report.SortRows(records, key, desc)
	if err != nil {
		writeValidation(w, filter.Errors{paramSort: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, report.Paginate(sorted, page, size))
}

// Export streams the filtered rows as a CSV attachment.
func (h *SLAHandler) Export(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	errs := filter.Errors{}
	key, desc := parseSort(q.Get(paramSort), q.Get(paramOrder), errs)

	records, ok := h.loadWith(w, r, errs, paramSort, paramOrder)
	if !ok {
		return
	}
	sorted, err := report.SortRows(records, key, desc)
	if err != nil {
		writeValidation(w, filter.Errors{paramSort: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(h.now().In(h.loc))))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteCSV(w, sorted); err != nil {
		h.logger.Error().Err(err).Msg("failed to write csv export")
	}
}

func (h *SLAHandler) load(w http.ResponseWriter, r *http.Request) ([]models.BatchRunRecord, bool) {
	return h.loadWith(w, r, nil)
}

// loadWith parses the filters and window, fetches the data and applies the
// filters. Problems already collected in pending are reported together with
// the filter errors.
func (h *SLAHandler) loadWith(w http.ResponseWriter, r *http.Request, pending filter.Errors, extra ...string) ([]models.BatchRunRecord, bool) {
	q := r.URL.Query()
	f, errs := h.parseFilters(r, extra)
	if errs.Empty() {
		errs = errs.Merge(h.validator.Validate(f))
	}
	errs = errs.Merge(pending)
	days := h.days(q.Get(paramDays), f, &errs)
	if !errs.Empty() {
		writeValidation(w, errs)
		return nil, false
	}

	records, err := h.data.GetData(r.Context(), days)
	if err != nil {
		writeUpstreamError(w, h.logger, err, "Failed to load SLA data")
		return nil, false
	}
	return filter.Apply(records, f), true
}

// parseFilters reads the filters from a JSON body on POST and from the query
// otherwise. A POST query may still carry the window, sort and paging keys.
func (h *SLAHandler) parseFilters(r *http.Request, extra []string) (filter.Filters, filter.Errors) {
	opts := filter.ParseOptions{Location: h.loc, Extra: append([]string{paramDays}, extra...)}
	if r.Method != http.MethodPost {
		return filter.Parse(r.URL.Query(), opts)
	}

	errs := filter.Errors{}
	for key := range r.URL.Query() {
		if !slices.Contains(opts.Extra, key) {
			errs.Add(key, "filters must be sent in the request body")
		}
	}
	f, bodyErrs := filter.Decode(r.Body, opts)
	return f, errs.Merge(bodyErrs)
}

// days resolves the load window. Without an explicit days parameter the
// window stretches back to cover from.
func (h *SLAHandler) days(raw string, f filter.Filters, errs *filter.Errors) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		days := h.defaultDays
		if f.From != nil {
			today := models.DateOnly(h.now().In(h.loc))
			span := models.DaysBetween(f.From.In(h.loc), today) + 1
			if span > days {
				days = span
			}
		}
		if days > MaxDays {
			days = MaxDays
		}
		return days
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		*errs = errs.Merge(filter.Errors{paramDays: "must be an integer"})
		return 0
	}
	if days > MaxDays {
		*errs = errs.Merge(filter.Errors{paramDays: fmt.Sprintf("must be at most %d", MaxDays)})
	}
	return days
}

func parseSort(key, order string, errs filter.Errors) (string, bool) {
	key = strings.TrimSpace(key)
	if key != "" && !report.ValidSortKey(key) {
		errs.Add(paramSort, "unknown sort column "+key)
	}
	desc, err := report.ParseOrder(order)
	if err != nil {
		errs.Add(paramOrder, err.Error())
	}
	return key, desc
}

func parsePositive(raw, field string, def int, errs filter.Errors) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		errs.Add(field, "must be a positive integer")
		return def
	}
	return n
}
