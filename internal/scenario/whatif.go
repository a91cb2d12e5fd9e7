package scenario

import (
	"fmt"
	"strings"
)

// WhatIfCase is a scripted alternative-strategy analysis for a known race.
type WhatIfCase struct {
	ID                   string
	Question             string
	ActualStrategy       string
	AlternativeStrategy  string
	ActualResult         string
	PredictedAlternative string
	Analysis             string
	Keywords             []string
}

var whatIfCases = []WhatIfCase{
	{
		ID:                   "abu_dhabi_2024_verstappen_early_pit",
		Question:             "What if Verstappen had pitted 5 laps earlier in Abu Dhabi 2024?",
		ActualStrategy:       "Two-stop: Medium (start) → Medium (lap 18) → Hard (lap 38)",
		AlternativeStrategy:  "Two-stop: Medium (start) → Medium (lap 13) → Hard (lap 33)",
		ActualResult:         "Won by 7.456 seconds",
		PredictedAlternative: "Would have won by 12-15 seconds with better tire advantage",
		Analysis:             "Earlier pit would have gained undercut advantage over Leclerc and allowed better tire management in final stint",
		Keywords:             []string{"verstappen", "abu dhabi", "2024"},
	},
	{
		ID:                   "qatar_2024_norris_one_stop",
		Question:             "What if Norris had attempted a one-stop strategy in Qatar 2024?",
		ActualStrategy:       "Two-stop: Medium (start) → Medium (lap 15) → Hard (lap 35)",
		AlternativeStrategy:  "One-stop: Medium (start) → Hard (lap 25)",
		ActualResult:         "Won the race",
		PredictedAlternative: "Would have finished P3-P4 due to tire degradation in final stint",
		Analysis:             "Two-stop was optimal for Qatar's high tire degradation characteristics",
		Keywords:             []string{"norris", "qatar", "one-stop"},
	},
}

// WhatIfCaseIDs lists the scripted what-if case IDs.
func WhatIfCaseIDs() []string {
	ids := make([]string, len(whatIfCases))
	for i, c := range whatIfCases {
		ids[i] = c.ID
	}
	return ids
}

// matchWhatIfCase finds the scripted case whose keywords best match the
// description. At least two keyword hits are required.
func matchWhatIfCase(description string) (WhatIfCase, bool) {
	lower := strings.ToLower(description)
	best := -1
	bestHits := 0
	for i, c := range whatIfCases {
		hits := 0
		for _, keyword := range c.Keywords {
			if strings.Contains(lower, keyword) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = i, hits
		}
	}
	if bestHits < 2 {
		return WhatIfCase{}, false
	}
	return whatIfCases[best], true
}

// ExploreWhatIf analyzes an alternative-strategy question. Known races get
// the scripted analysis; anything else gets the generic framework.
func ExploreWhatIf(description string) string {
	if c, ok := matchWhatIfCase(description); ok {
		var b strings.Builder
		fmt.Fprintf(&b, "**What-If Analysis: %s**\n\n", c.Question)
		fmt.Fprintf(&b, "**Actual Strategy:** %s\n", c.ActualStrategy)
		fmt.Fprintf(&b, "**Alternative Strategy:** %s\n\n", c.AlternativeStrategy)
		fmt.Fprintf(&b, "**Actual Result:** %s\n", c.ActualResult)
		fmt.Fprintf(&b, "**Predicted Alternative:** %s\n\n", c.PredictedAlternative)
		fmt.Fprintf(&b, "**Strategic Analysis:** %s\n", c.Analysis)
		return b.String()
	}

	return fmt.Sprintf(`**What-If Strategic Analysis**

**Your Scenario:** %s

**Strategic Framework:**
1. **Current Situation Analysis**
   - Track position vs tire advantage
   - Championship implications
   - Risk vs reward calculation

2. **Alternative Strategy Impact**
   - Position changes (best/worst case)
   - Time gains/losses
   - Knock-on effects on competitors

3. **External Factors**
   - Safety car probability
   - Weather conditions
   - Tire degradation patterns

**For detailed analysis, specify:**
• Race and driver name
• Strategic decision point
• Alternative considered

**Examples:**
"What if Leclerc had stayed out during the Monaco safety car?"
"What if McLaren had chosen a one-stop strategy at Silverstone?"`, description)
}
