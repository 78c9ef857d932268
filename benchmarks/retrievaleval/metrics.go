// ABOUTME: Retrieval quality metrics for precision and recall against ground truth
// ABOUTME: Deterministic evaluation over snippet ID sets, no model calls involved

package retrievaleval

import (
	"fmt"
	"strings"
)

// MetricsCalculator computes retrieval quality scores for benchmark scenarios
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateRecall computes recall (0.0-1.0): the proportion of expected
// snippet IDs that were actually retrieved.
func (m *MetricsCalculator) CalculateRecall(retrievedIDs, expectedIDs []string) (float64, string) {
	if len(expectedIDs) == 0 {
		return 1.0, "No retrieval expectations for this query"
	}

	retrieved := make(map[string]bool, len(retrievedIDs))
	for _, id := range retrievedIDs {
		retrieved[id] = true
	}

	foundCount := 0
	missingItems := []string{}
	for _, expected := range expectedIDs {
		if retrieved[expected] {
			foundCount++
		} else {
			missingItems = append(missingItems, expected)
		}
	}

	recall := float64(foundCount) / float64(len(expectedIDs))
	if recall == 1.0 {
		return 1.0, "Perfect recall - all expected snippets retrieved"
	}

	return recall, fmt.Sprintf(
		"Partial recall (%.2f) - missing snippets: %v",
		recall, missingItems,
	)
}

// CalculatePrecision computes precision (0.0-1.0): whether the result kept
// forbidden snippets out. Full score requires zero forbidden IDs retrieved.
func (m *MetricsCalculator) CalculatePrecision(retrievedIDs, forbiddenIDs []string) (float64, string) {
	if len(forbiddenIDs) == 0 {
		return 1.0, "No exclusion expectations for this query"
	}

	retrieved := make(map[string]bool, len(retrievedIDs))
	for _, id := range retrievedIDs {
		retrieved[id] = true
	}

	forbiddenFound := []string{}
	for _, forbidden := range forbiddenIDs {
		if retrieved[forbidden] {
			forbiddenFound = append(forbiddenFound, forbidden)
		}
	}

	if len(forbiddenFound) == 0 {
		return 1.0, "Perfect precision - no forbidden snippets retrieved"
	}

	excluded := len(forbiddenIDs) - len(forbiddenFound)
	precision := float64(excluded) / float64(len(forbiddenIDs))
	return precision, fmt.Sprintf(
		"Precision failure (%.2f) - forbidden snippets retrieved: %v",
		precision, forbiddenFound,
	)
}

// EvaluateScenario aggregates per-query scores into a scenario result.
// retrievedByQuery must be parallel to scenario.Queries.
func (m *MetricsCalculator) EvaluateScenario(scenario Scenario, retrievedByQuery [][]string) Result {
	if len(retrievedByQuery) != len(scenario.Queries) {
		return Result{
			ScenarioID:   scenario.ID,
			ScenarioName: scenario.Name,
			Status:       "FAIL",
			ErrorMessage: fmt.Sprintf("expected %d query results, got %d", len(scenario.Queries), len(retrievedByQuery)),
		}
	}

	var recallSum, precisionSum float64
	details := []string{}

	for i, query := range scenario.Queries {
		recall, recallDetail := m.CalculateRecall(retrievedByQuery[i], query.ExpectedIDs)
		precision, precisionDetail := m.CalculatePrecision(retrievedByQuery[i], query.ForbiddenIDs)

		recallSum += recall
		precisionSum += precision
		details = append(details, fmt.Sprintf("%q: %s; %s", query.Query, recallDetail, precisionDetail))
	}

	queryCount := float64(len(scenario.Queries))
	recall := recallSum / queryCount
	precision := precisionSum / queryCount
	overall := (recall + precision) / 2.0

	// Production retrieval requires >= 0.9 on both metrics
	status := "FAIL"
	if recall >= 0.9 && precision >= 0.9 {
		status = "PASS"
	}

	return Result{
		ScenarioID:     scenario.ID,
		ScenarioName:   scenario.Name,
		PrecisionScore: precision,
		RecallScore:    recall,
		OverallScore:   overall,
		Status:         status,
		Details: map[string]interface{}{
			"query_count":   len(scenario.Queries),
			"query_details": strings.Join(details, " | "),
		},
	}
}
