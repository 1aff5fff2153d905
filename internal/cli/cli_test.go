package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGenerate_JSONIsReproducible(t *testing.T) {
	args := []string{"generate", "--today", "2024-03-15", "--days", "2", "--env", "ASYS", "-f", "json"}
	first, _, err := execute(t, args...)
	require.NoError(t, err)
	second, _, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(first), &records))
	require.NotEmpty(t, records)
	for _, r := range records {
		assert.Equal(t, "ASYS", r["env"])
	}
	assert.Equal(t, "ASYS-BANK-20240314-0", records[0]["id"])
}

func TestGenerate_Table(t *testing.T) {
	out, _, err := execute(t, "generate", "--today", "2024-03-15", "--days", "1", "--type", "CARD", "--env", "TSYS")
	require.NoError(t, err)
	assert.Contains(t, out, "RUN DATE")
	assert.Contains(t, out, "TSYS-CARD-20240315-0")
	assert.Contains(t, out, "rows)")
}

func TestSeries(t *testing.T) {
	out, _, err := execute(t, "series", "--today", "2024-03-15", "--days", "7",
		"--env", "ASYS", "--type", "BANK", "--from", "2024-03-11", "--to", "03-13-2024", "-f", "json")
	require.NoError(t, err)

	var body struct {
		Points []map[string]interface{} `json:"points"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	require.Len(t, body.Points, 3)
	assert.Equal(t, "2024-03-11", body.Points[0]["date"])

	out, _, err = execute(t, "series", "--today", "2024-03-15", "--preset", "uniform")
	require.NoError(t, err)
	assert.Contains(t, out, "WEIGHTED AVG HRS")
	assert.Contains(t, out, "failure rate")
}

func TestExport_Stdout(t *testing.T) {
	out, _, err := execute(t, "export", "--today", "2024-03-15", "--days", "1", "--out", "-")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Greater(t, len(records), 1)
	assert.Equal(t, "Run Date", records[0][0])
	assert.Equal(t, "03-15-2024", records[1][0])
}

func TestExport_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	_, stderr, err := execute(t, "export", "--today", "2024-03-15", "--days", "1", "--env", "MST0", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Wrote")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `"Run Date"`))
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{name: "unknown preset", args: []string{"generate", "--preset", "spiky"}, msg: "unknown generator preset"},
		{name: "bad format", args: []string{"series", "-f", "csv"}, msg: "unsupported format"},
		{name: "unknown env", args: []string{"generate", "--env", "PROD"}, msg: "unknown environment PROD"},
		{name: "future date", args: []string{"generate", "--today", "2024-03-15", "--to", "2024-03-20"}, msg: "must not be in the future"},
		{name: "bad today", args: []string{"generate", "--today", "soon"}, msg: "--today"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
