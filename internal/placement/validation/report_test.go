package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"
)

func testReport() Report {
	return NewReport([]CategoryReport{
		{Name: CategoryResources},
		{Name: CategoryProfiles, Warnings: []string{"scaling.defaults is not set"}},
		{Name: CategoryPartitions, Errors: []string{"partitions.defaultPartition is required"}},
	})
}

func TestNewReport(t *testing.T) {
	tests := map[string]struct {
		categories     []CategoryReport
		expectedStatus Status
	}{
		"no categories": {
			expectedStatus: StatusPassed,
		},
		"only passes": {
			categories:     []CategoryReport{{Name: "a"}, {Name: "b"}},
			expectedStatus: StatusPassed,
		},
		"warnings": {
			categories:     []CategoryReport{{Name: "a"}, {Name: "b", Warnings: []string{"w"}}},
			expectedStatus: StatusPassedWithWarnings,
		},
		"errors win over warnings": {
			categories:     []CategoryReport{{Name: "a", Errors: []string{"e"}}, {Name: "b", Warnings: []string{"w"}}},
			expectedStatus: StatusFailed,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			report := NewReport(tc.categories)
			assert.Equal(t, tc.expectedStatus, report.Status)
			assert.Equal(t, tc.expectedStatus != StatusFailed, report.Passed())
		})
	}
}

func TestReport_Aggregation(t *testing.T) {
	report := testReport()
	assert.Equal(t, StatusFailed, report.Status)
	assert.Equal(t, 1, report.TotalErrors)
	assert.Equal(t, 1, report.TotalWarnings)
	assert.Equal(t, []Status{StatusPassed, StatusPassedWithWarnings, StatusFailed}, []Status{
		report.Categories[0].Status, report.Categories[1].Status, report.Categories[2].Status,
	})
	assert.Equal(t, []string{"partitions: partitions.defaultPartition is required"}, report.Errors())
	assert.Equal(t, []string{"profiles: scaling.defaults is not set"}, report.Warnings())

	err := report.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "partitions: partitions.defaultPartition is required")
}

func TestReport_Summary(t *testing.T) {
	expected := "" +
		"CATEGORY    STATUS                ERRORS  WARNINGS\n" +
		"resources   PASSED                0       0\n" +
		"profiles    PASSED_WITH_WARNINGS  0       1\n" +
		"partitions  FAILED                1       0\n" +
		"total       FAILED                1       1\n" +
		"ERROR   partitions: partitions.defaultPartition is required\n" +
		"WARNING profiles: scaling.defaults is not set\n"
	assert.Equal(t, expected, testReport().Summary())
}

func TestReport_MachineReadable(t *testing.T) {
	report := testReport()

	b, err := report.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"status": "FAILED"`)
	assert.Contains(t, string(b), `"errors": []`)

	b, err = report.YAML()
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, yaml.Unmarshal(b, &decoded))
	assert.Equal(t, report, decoded)
}
