package filter

import (
	"net/url"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		extra    []string
		want     Filters
		wantErrs Errors
	}{
		{
			name:  "empty query gives defaults",
			query: "",
			want:  Default(),
		},
		{
			name:  "iso dates",
			query: "env=asys&type=bank&from=2024-03-01&to=2024-03-05",
			want:  Filters{Env: "ASYS", Type: "BANK", From: ptr(day(2024, time.March, 1)), To: ptr(day(2024, time.March, 5))},
		},
		{
			name:  "us dates",
			query: "from=03-01-2024",
			want:  Filters{Env: All, Type: All, From: ptr(day(2024, time.March, 1))},
		},
		{
			name:  "extra keys allowed",
			query: "days=7&env=TSYS",
			extra: []string{"days"},
			want:  Filters{Env: "TSYS", Type: All},
		},
		{
			name:     "unknown key",
			query:    "environment=ASYS",
			want:     Default(),
			wantErrs: Errors{"environment": "unknown filter field"},
		},
		{
			name:     "bad date",
			query:    "to=yesterday",
			want:     Default(),
			wantErrs: Errors{KeyTo: `invalid date "yesterday", expected YYYY-MM-DD or MM-DD-YYYY`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			f, errs := Parse(values, ParseOptions{Extra: tt.extra})
			assert.Equal(t, tt.wantErrs, errs)
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     Filters
		wantErrs Errors
	}{
		{name: "empty body", body: "", want: Default()},
		{name: "empty object", body: "{}", want: Default()},
		{
			name: "all fields",
			body: `{"env":"mst0","type":"CARD","from":"2024-03-01","to":"03-02-2024"}`,
			want: Filters{Env: "MST0", Type: "CARD", From: ptr(day(2024, time.March, 1)), To: ptr(day(2024, time.March, 2))},
		},
		{
			name:     "unknown field",
			body:     `{"env":"ASYS","region":"eu"}`,
			want:     Default(),
			wantErrs: Errors{"region": "unknown filter field"},
		},
		{
			name:     "malformed",
			body:     `{"env":`,
			want:     Default(),
			wantErrs: Errors{"body": "invalid filter payload"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, errs := Decode(strings.NewReader(tt.body), ParseOptions{})
			assert.Equal(t, tt.wantErrs, errs)
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestParseDate_Location(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	d, err := ParseDate("2024-03-01", loc)
	require.NoError(t, err)
	assert.Equal(t, loc, d.Location())
	assert.Equal(t, 0, d.Hour())
}

func TestValidator_Validate(t *testing.T) {
	v := Validator{
		Environments: []string{"ASYS", "TSYS"},
		Now:          func() time.Time { return time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC) },
	}

	tests := []struct {
		name string
		f    Filters
		want Errors
	}{
		{name: "defaults", f: Default()},
		{name: "zero value", f: Filters{}},
		{name: "known env lower case", f: Filters{Env: "tsys", Type: "card"}},
		{name: "today allowed", f: Filters{To: ptr(day(2024, time.March, 10))}},
		{name: "unknown env", f: Filters{Env: "QSYS"}, want: Errors{KeyEnv: "unknown environment QSYS"}},
		{name: "bad type", f: Filters{Type: "WIRE"}, want: Errors{KeyType: "must be one of ALL, BANK, CARD"}},
		{
			name: "future dates",
			f:    Filters{From: ptr(day(2024, time.March, 11)), To: ptr(day(2024, time.March, 12))},
			want: Errors{KeyFrom: "must not be in the future", KeyTo: "must not be in the future"},
		},
		{
			name: "from after to",
			f:    Filters{From: ptr(day(2024, time.March, 5)), To: ptr(day(2024, time.March, 4))},
			want: Errors{KeyFrom: "must not be after to"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.f))
		})
	}
}

func TestValidator_TodayInConfiguredLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name string
		loc  *time.Location
		now  time.Time
		date string
		want Errors
	}{
		{
			name: "zone ahead of host clock",
			loc:  tokyo,
			now:  time.Date(2024, time.March, 15, 20, 0, 0, 0, time.UTC),
			date: "2024-03-16",
		},
		{
			name: "day after in zone ahead",
			loc:  tokyo,
			now:  time.Date(2024, time.March, 15, 20, 0, 0, 0, time.UTC),
			date: "2024-03-17",
			want: Errors{KeyFrom: "must not be in the future"},
		},
		{
			name: "zone behind host clock",
			loc:  ny,
			now:  time.Date(2024, time.March, 11, 2, 0, 0, 0, time.UTC),
			date: "2024-03-11",
			want: Errors{KeyFrom: "must not be in the future"},
		},
		{
			name: "spring forward today",
			loc:  ny,
			now:  time.Date(2024, time.March, 10, 23, 30, 0, 0, ny),
			date: "03-10-2024",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, err := ParseDate(tt.date, tt.loc)
			require.NoError(t, err)

			v := Validator{Now: func() time.Time { return tt.now }, Location: tt.loc}
			assert.Equal(t, tt.want, v.Validate(Filters{From: &from}))
		})
	}
}

func TestErrors(t *testing.T) {
	var errs Errors
	assert.True(t, errs.Empty())

	merged := errs.Merge(Errors{"b": "second", "a": "first"})
	require.NotNil(t, merged)
	merged.Add("a", "ignored")
	assert.Equal(t, "first", merged["a"])
	assert.Equal(t, "a: first; b: second", merged.Error())

	assert.Nil(t, Errors{}.Merge(nil))
}
