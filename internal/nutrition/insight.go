package nutrition

// Severity classifies how strongly an insight should be surfaced.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Insight is a short, rule-triggered recommendation derived from
// aggregated totals.
type Insight struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// rule pairs a predicate over the aggregate with the insight it produces.
type rule struct {
	matches  func(t Totals, itemCount int) bool
	severity Severity
	message  string
}

// thresholdRules are evaluated in order; every matching rule contributes
// an insight, not just the first match.
var thresholdRules = []rule{
	{
		matches:  func(t Totals, _ int) bool { return t.Protein < 50 },
		severity: SeverityWarning,
		message:  "Consider adding more protein",
	},
	{
		matches:  func(t Totals, _ int) bool { return t.Fats > 2*t.Protein },
		severity: SeverityWarning,
		message:  "High fat-to-protein ratio",
	},
	{
		matches:  func(t Totals, _ int) bool { return t.Carbs > 0 && t.Carbs < t.Protein },
		severity: SeverityInfo,
		message:  "Low-carb profile detected",
	},
}

// Evaluate runs the threshold rules over the aggregated totals. An empty
// item set short-circuits to a single "no items" insight; if no threshold
// rule fires for a non-empty set, the balanced fallback is returned.
func Evaluate(totals Totals, itemCount int) []Insight {
	if itemCount == 0 {
		return []Insight{{Severity: SeverityInfo, Message: "No items to analyze"}}
	}

	var insights []Insight
	for _, r := range thresholdRules {
		if r.matches(totals, itemCount) {
			insights = append(insights, Insight{Severity: r.severity, Message: r.message})
		}
	}

	if len(insights) == 0 {
		insights = append(insights, Insight{Severity: SeverityInfo, Message: "Balanced nutrition"})
	}
	return insights
}
