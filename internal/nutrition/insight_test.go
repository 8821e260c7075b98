package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_NoItemsShortCircuits(t *testing.T) {
	// Totals are irrelevant when the item set is empty.
	insights := Evaluate(Totals{Protein: 5, Fats: 100}, 0)

	require.Len(t, insights, 1)
	assert.Equal(t, SeverityInfo, insights[0].Severity)
	assert.Equal(t, "No items to analyze", insights[0].Message)
}

func TestEvaluate_BalancedFallback(t *testing.T) {
	insights := Evaluate(Totals{Protein: 80, Carbs: 40, Fats: 30}, 5)

	require.Len(t, insights, 1)
	assert.Equal(t, SeverityInfo, insights[0].Severity)
	assert.Equal(t, "Balanced nutrition", insights[0].Message)
}

func TestEvaluate_AllMatchingRulesIncluded(t *testing.T) {
	// Low protein, high fat ratio and low-carb all fire at once.
	insights := Evaluate(Totals{Protein: 10, Carbs: 5, Fats: 30}, 3)

	require.Len(t, insights, 3)
	assert.Equal(t, "Consider adding more protein", insights[0].Message)
	assert.Equal(t, "High fat-to-protein ratio", insights[1].Message)
	assert.Equal(t, "Low-carb profile detected", insights[2].Message)
}

func TestEvaluate_LowProteinOnly(t *testing.T) {
	insights := Evaluate(Totals{Protein: 40, Carbs: 60, Fats: 20}, 2)

	require.Len(t, insights, 1)
	assert.Equal(t, SeverityWarning, insights[0].Severity)
	assert.Equal(t, "Consider adding more protein", insights[0].Message)
}

func TestEvaluate_HighFatRatio(t *testing.T) {
	insights := Evaluate(Totals{Protein: 60, Carbs: 100, Fats: 130}, 4)

	require.Len(t, insights, 1)
	assert.Equal(t, SeverityWarning, insights[0].Severity)
	assert.Equal(t, "High fat-to-protein ratio", insights[0].Message)
}

func TestEvaluate_ZeroCarbsDoesNotFireLowCarb(t *testing.T) {
	// The low-carb rule requires carbs to be present at all.
	insights := Evaluate(Totals{Protein: 80, Carbs: 0, Fats: 30}, 2)

	require.Len(t, insights, 1)
	assert.Equal(t, "Balanced nutrition", insights[0].Message)
}
