package filter

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/stanstork/batchboard-api/internal/models"
)

// Query and body keys understood by Parse and Decode.
const (
	KeyEnv  = "env"
	KeyType = "type"
	KeyFrom = "from"
	KeyTo   = "to"
)

var filterKeys = map[string]bool{KeyEnv: true, KeyType: true, KeyFrom: true, KeyTo: true}

// dateLayouts are accepted for from/to, ISO first.
var dateLayouts = []string{models.DateLayout, "01-02-2006"}

// Errors maps a field name to a validation message. A nil or empty Errors
// means the input was valid.
type Errors map[string]string

func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// ParseOptions controls how raw filter input is read.
type ParseOptions struct {
	// Location dates are interpreted in. Defaults to UTC.
	Location *time.Location
	// Extra lists additional keys the caller consumes itself (paging, sort).
	// Any other key that is not a filter key is rejected.
	Extra []string
}

func (o ParseOptions) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}

func (o ParseOptions) allowed(key string) bool {
	if filterKeys[key] {
		return true
	}
	for _, extra := range o.Extra {
		if key == extra {
			return true
		}
	}
	return false
}

// Parse builds Filters from query parameters, starting from Default.
func Parse(values url.Values, opts ParseOptions) (Filters, Errors) {
	errs := Errors{}
	for key := range values {
		if !opts.allowed(key) {
			errs.Add(key, "unknown filter field")
		}
	}
	f := build(values.Get(KeyEnv), values.Get(KeyType), values.Get(KeyFrom), values.Get(KeyTo), opts.location(), errs)
	return f, nilIfEmpty(errs)
}

type rawFilters struct {
	Env  string `json:"env"`
	Type string `json:"type"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Decode builds Filters from a JSON object body. Unknown keys are rejected;
// an empty body yields Default.
func Decode(r io.Reader, opts ParseOptions) (Filters, Errors) {
	var raw rawFilters
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		errs := Errors{}
		if field, ok := unknownField(err); ok {
			errs.Add(field, "unknown filter field")
		} else {
			errs.Add("body", "invalid filter payload")
		}
		return Default(), errs
	}
	errs := Errors{}
	f := build(raw.Env, raw.Type, raw.From, raw.To, opts.location(), errs)
	return f, nilIfEmpty(errs)
}

func unknownField(err error) (string, bool) {
	const prefix = "json: unknown field "
	msg := err.Error()
	if !strings.HasPrefix(msg, prefix) {
		return "", false
	}
	return strings.Trim(strings.TrimPrefix(msg, prefix), `"`), true
}

func build(env, typ, from, to string, loc *time.Location, errs Errors) Filters {
	f := Filters{Env: env, Type: typ}.Normalize()
	if from = strings.TrimSpace(from); from != "" {
		if d, err := ParseDate(from, loc); err != nil {
			errs.Add(KeyFrom, err.Error())
		} else {
			f.From = &d
		}
	}
	if to = strings.TrimSpace(to); to != "" {
		if d, err := ParseDate(to, loc); err != nil {
			errs.Add(KeyTo, err.Error())
		} else {
			f.To = &d
		}
	}
	return f
}

// ParseDate parses YYYY-MM-DD or MM-DD-YYYY at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or MM-DD-YYYY", s)
}

// Validator checks filters against the configured environments and clock.
// "Today" is read in Location (UTC when nil), the zone From and To are
// parsed in.
type Validator struct {
	Environments []string
	Now          func() time.Time
	Location     *time.Location
}

// Validate returns field-keyed problems with f, or nil.
func (v Validator) Validate(f Filters) Errors {
	f = f.Normalize()
	errs := Errors{}

	if f.Type != All {
		if _, ok := models.ParseBatchType(f.Type); !ok {
			errs.Add(KeyType, fmt.Sprintf("must be one of ALL, %s, %s", models.BatchTypeBank, models.BatchTypeCard))
		}
	}
	if f.Env != All && len(v.Environments) > 0 && !containsFold(v.Environments, f.Env) {
		errs.Add(KeyEnv, "unknown environment "+f.Env)
	}

	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	loc := v.Location
	if loc == nil {
		loc = time.UTC
	}
	today := dayNumber(now().In(loc))
	if f.From != nil && dayNumber(*f.From) > today {
		errs.Add(KeyFrom, "must not be in the future")
	}
	if f.To != nil && dayNumber(*f.To) > today {
		errs.Add(KeyTo, "must not be in the future")
	}
	if f.From != nil && f.To != nil && dayNumber(*f.From) > dayNumber(*f.To) {
		errs.Add(KeyFrom, "must not be after to")
	}
	return nilIfEmpty(errs)
}

// Merge copies every entry of other into e, keeping existing messages.
func (e Errors) Merge(other Errors) Errors {
	if e == nil {
		e = Errors{}
	}
	for k, v := range other {
		e.Add(k, v)
	}
	return nilIfEmpty(e)
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}

func nilIfEmpty(errs Errors) Errors {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
