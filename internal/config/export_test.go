package config

import (
	"strings"
	"testing"

	"github.com/iwvelando/rent-vs-buy/internal/comparison"
)

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func TestExportYAMLRoundTrip(t *testing.T) {
	common := comparison.DefaultInputs()
	common.MonthlyRent = 2350.5
	common.HomePrice = 1200000
	common.Deposit = 240000

	conf := Configuration{
		Common: common,
		Scenarios: []Scenario{
			{Name: "baseline", Active: true},
			{Name: "higher rates", Active: true, Overrides: Overrides{
				InterestRatePct: floatPtr(6.25),
				LoanTermYears:   intPtr(25),
			}},
			{Name: "parked", Active: false, Overrides: Overrides{MonthlyRent: floatPtr(1800)}},
		},
		Output: OutputConfig{Format: "csv"},
	}

	data, err := ExportYAML(conf)
	if err != nil {
		t.Fatalf("ExportYAML() error = %v", err)
	}

	text := string(data)
	if !strings.HasPrefix(text, "common:\n") {
		t.Errorf("expected document to start with common section:\n%s", text)
	}
	if strings.Index(text, "scenarios:") > strings.Index(text, "output:") {
		t.Errorf("expected scenarios before output:\n%s", text)
	}
	if strings.Contains(text, "logging:") {
		t.Errorf("empty logging section should be omitted:\n%s", text)
	}
	if strings.Contains(text, "homePrice: null") || strings.Count(text, "monthlyRent:") != 2 {
		t.Errorf("unset overrides should be omitted:\n%s", text)
	}

	loaded, err := LoadConfiguration(writeConfig(t, text))
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v\n%s", err, text)
	}

	if loaded.Common != conf.Common {
		t.Errorf("common inputs changed: got %+v, expected %+v", loaded.Common, conf.Common)
	}
	if loaded.Output.Format != "csv" {
		t.Errorf("expected output format csv, got %q", loaded.Output.Format)
	}
	if len(loaded.Scenarios) != len(conf.Scenarios) {
		t.Fatalf("expected %d scenarios, got %d", len(conf.Scenarios), len(loaded.Scenarios))
	}
	for i, original := range conf.Scenarios {
		got := loaded.Scenarios[i]
		if got.Name != original.Name || got.Active != original.Active {
			t.Errorf("scenario %d: got %s/%t, expected %s/%t", i, got.Name, got.Active, original.Name, original.Active)
		}
		if loaded.Inputs(got) != conf.Inputs(original) {
			t.Errorf("scenario %s: resolved inputs differ: got %+v, expected %+v",
				original.Name, loaded.Inputs(got), conf.Inputs(original))
		}
	}
}

func TestExportYAMLEmptyConfiguration(t *testing.T) {
	data, err := ExportYAML(Configuration{Common: comparison.DefaultInputs()})
	if err != nil {
		t.Fatalf("ExportYAML() error = %v", err)
	}
	if strings.Contains(string(data), "scenarios:") {
		t.Errorf("expected no scenarios section:\n%s", data)
	}

	loaded, err := LoadConfigurationFromReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if len(loaded.Scenarios) != 1 || loaded.Scenarios[0].Name != DefaultScenarioName {
		t.Errorf("expected synthesized default scenario, got %+v", loaded.Scenarios)
	}
}
