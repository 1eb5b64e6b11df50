package validation

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"github.com/armadaproject/placement/internal/common/placementerrors"
	"github.com/armadaproject/placement/internal/common/util"
)

type Status string

const (
	StatusPassed             Status = "PASSED"
	StatusPassedWithWarnings Status = "PASSED_WITH_WARNINGS"
	StatusFailed             Status = "FAILED"
)

func statusOf(errors, warnings int) Status {
	switch {
	case errors > 0:
		return StatusFailed
	case warnings > 0:
		return StatusPassedWithWarnings
	default:
		return StatusPassed
	}
}

type CategoryReport struct {
	Name     string   `json:"name"`
	Status   Status   `json:"status"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Report is the outcome of validating a configuration. A FAILED report must stop the run.
type Report struct {
	Status        Status           `json:"status"`
	TotalErrors   int              `json:"totalErrors"`
	TotalWarnings int              `json:"totalWarnings"`
	Categories    []CategoryReport `json:"categories"`
}

// NewReport aggregates per category results, keeping the categories in the order given.
func NewReport(categories []CategoryReport) Report {
	report := Report{Categories: make([]CategoryReport, 0, len(categories))}
	for _, category := range categories {
		if category.Errors == nil {
			category.Errors = []string{}
		}
		if category.Warnings == nil {
			category.Warnings = []string{}
		}
		category.Status = statusOf(len(category.Errors), len(category.Warnings))
		report.TotalErrors += len(category.Errors)
		report.TotalWarnings += len(category.Warnings)
		report.Categories = append(report.Categories, category)
	}
	report.Status = statusOf(report.TotalErrors, report.TotalWarnings)
	return report
}

func (r Report) Passed() bool {
	return r.Status != StatusFailed
}

// Errors returns every error, prefixed with its category.
func (r Report) Errors() []string {
	var out []string
	for _, category := range r.Categories {
		for _, e := range category.Errors {
			out = append(out, fmt.Sprintf("%s: %s", category.Name, e))
		}
	}
	return out
}

// Warnings returns every warning, prefixed with its category.
func (r Report) Warnings() []string {
	var out []string
	for _, category := range r.Categories {
		for _, w := range category.Warnings {
			out = append(out, fmt.Sprintf("%s: %s", category.Name, w))
		}
	}
	return out
}

// Err returns nil unless the report failed, in which case every error is folded into one.
func (r Report) Err() error {
	if r.Passed() {
		return nil
	}
	return placementerrors.Combine(r.Errors())
}

// Summary renders the report for humans.
func (r Report) Summary() string {
	w := util.NewTableBuilder()
	w.WriteRow("CATEGORY", "STATUS", "ERRORS", "WARNINGS")
	for _, category := range r.Categories {
		w.WriteRow(category.Name, category.Status, len(category.Errors), len(category.Warnings))
	}
	w.WriteRow("total", r.Status, r.TotalErrors, r.TotalWarnings)
	out := w.String()
	for _, e := range r.Errors() {
		out += "ERROR   " + e + "\n"
	}
	for _, warning := range r.Warnings() {
		out += "WARNING " + warning + "\n"
	}
	return out
}

func (r Report) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	return b, errors.WithStack(err)
}

func (r Report) YAML() ([]byte, error) {
	b, err := yaml.Marshal(r)
	return b, errors.WithStack(err)
}
