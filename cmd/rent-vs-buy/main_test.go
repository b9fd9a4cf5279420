package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/rent-vs-buy/internal/config"
	"github.com/iwvelando/rent-vs-buy/internal/scenario"
	"github.com/iwvelando/rent-vs-buy/pkg/testutil"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    config.LoggingConfig
		override  string
		expectErr bool
	}{
		{"Defaults", config.LoggingConfig{}, "", false},
		{"Console debug", config.LoggingConfig{Level: "debug", Format: "console"}, "", false},
		{"Override wins", config.LoggingConfig{Level: "bogus"}, "warn", false},
		{"Warning alias", config.LoggingConfig{Level: "warning"}, "", false},
		{"Invalid level", config.LoggingConfig{Level: "verbose"}, "", true},
		{"Invalid format", config.LoggingConfig{Format: "text"}, "", true},
		{"Log file", config.LoggingConfig{OutputFile: filepath.Join(t.TempDir(), "logs", "app.log")}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.config, tt.override)
			if tt.expectErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("initializeLogger() error = %v", err)
			}
			if logger == nil {
				t.Fatal("expected logger")
			}
		})
	}
}

func TestFlagName(t *testing.T) {
	tests := map[string]string{
		"monthlyRent":             "monthly-rent",
		"years":                   "years",
		"propertyAppreciationPct": "property-appreciation-pct",
	}
	for key, expected := range tests {
		if got := flagName(key); got != expected {
			t.Errorf("flagName(%q) = %q, expected %q", key, got, expected)
		}
	}
}

func TestCompareDefaultsPretty(t *testing.T) {
	out, err := runRoot(t, "compare", "--log-level", "error")
	if err != nil {
		t.Fatalf("compare error = %v", err)
	}

	for _, fragment := range []string{
		"--- Results for scenario default ---",
		"Total Renting Cost over 10 years: $177,399.43",
		"Total Buying Cost over 10 years: $412,860.41",
		"Estimated Property Value after 10 years: $806,349.83",
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("output missing %q\n%s", fragment, out)
		}
	}
}

func TestCompareFlagsOverride(t *testing.T) {
	out, err := runRoot(t, "compare", "--log-level", "error", "--output-format", "json",
		"--monthly-rent", "1500", "--rent-increase-pct", "0", "--years", "4")
	if err != nil {
		t.Fatalf("compare error = %v", err)
	}

	var outcomes []scenario.Outcome
	if err := json.Unmarshal([]byte(out), &outcomes); err != nil {
		t.Fatalf("failed to decode JSON output: %v\n%s", err, out)
	}
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(outcomes))
	}
	if outcomes[0].Inputs.MonthlyRent != 1500 || outcomes[0].Inputs.Years != 4 {
		t.Errorf("flags not applied: %+v", outcomes[0].Inputs)
	}
	if outcomes[0].Result.TotalRentPaid != 1500*12*4 {
		t.Errorf("expected total rent 72000, got %.2f", outcomes[0].Result.TotalRentPaid)
	}
}

func TestCompareConfigFileCSV(t *testing.T) {
	path := testutil.WriteFile(t, "config.yaml", `
logging:
  level: error
output:
  format: csv
common:
  years: 3
scenarios:
  - name: first
    active: true
  - name: second
    active: true
    monthlyRent: 2500
`)

	out, err := runRoot(t, "compare", "--config", path, "--years", "5")
	if err != nil {
		t.Fatalf("compare error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse CSV: %v\n%s", err, out)
	}
	// The flag overrides the file: two scenarios of five years plus a header.
	if len(records) != 11 {
		t.Fatalf("expected 11 rows, got %d", len(records))
	}
	if records[6][0] != "second" || records[6][2] != "30000.00" {
		t.Errorf("unexpected first row of second scenario %v", records[6])
	}
}

func TestCompareErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"Missing config file", []string{"compare", "--config", "does-not-exist.yaml"}},
		{"Invalid output format", []string{"compare", "--log-level", "error", "--output-format", "xml"}},
		{"Invalid log level", []string{"compare", "--log-level", "loud"}},
		{"Invalid inputs", []string{"compare", "--log-level", "error", "--years", "0"}},
		{"Unexpected argument", []string{"compare", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runRoot(t, tt.args...); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runRoot(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("expected %q, got %q", version, out)
	}
}

func TestRunServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runServe(ctx, filepath.Join(t.TempDir(), "missing.yaml"), "127.0.0.1:0", "error")
	if err != nil {
		t.Fatalf("runServe() error = %v", err)
	}
}

func TestRunServeInvalidConfig(t *testing.T) {
	path := testutil.WriteFile(t, "server.yaml", "maxUploadSize: lots")
	if err := runServe(context.Background(), path, "", "error"); err == nil {
		t.Error("expected error but got none")
	}
}
