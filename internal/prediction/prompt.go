package prediction

import (
	"fmt"
	"strings"

	"github.com/ppiankov/pitchprophet/internal/parse"
)

// fieldHints pairs each requested header with what the model should put there.
// The order is the order the headers must appear in every match section.
var fieldHints = []struct {
	marker string
	hint   string
}{
	{parse.MarkerMatch, "[Home Team] vs [Away Team]"},
	{parse.MarkerStandings, "[Brief context on positions]"},
	{parse.MarkerH2HForm, "[Discuss recent form and H2H history]"},
	{parse.MarkerHomeAway, "[Analyze home strength vs away weakness]"},
	{parse.MarkerKeyNews, "[Important injuries/suspensions]"},
	{parse.MarkerLikelyScorers, "[List 1-2 probable scorers]"},
	{parse.MarkerPrediction, "[Home Score] - [Away Score]"},
	{parse.MarkerReasoning, "[Summary of analysis]"},
}

// BuildPrompt renders the analysis request for a league.
// The name is interpolated verbatim.
func BuildPrompt(leagueName string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "I need a comprehensive football prediction analysis for the top 3 teams currently in the %s.\n\n", leagueName)

	sb.WriteString("Step 1: Use web search to find the current top 3 teams in the league table right now.\n")
	sb.WriteString("Step 2: For each of these 3 teams, find their very next upcoming match opponent.\n")
	sb.WriteString("Step 3: Analyze the match considering these specific factors:\n")
	sb.WriteString("  - **Current Form**: Last 5 games for both teams.\n")
	sb.WriteString("  - **Head-to-Head (H2H)**: History of the last 5 meetings between these two specific clubs. Note who usually wins.\n")
	sb.WriteString("  - **Home vs Away**: Compare the home team's performance at home vs the away team's performance away. This is critical.\n")
	sb.WriteString("  - **Squad News**: Key injuries or suspensions.\n")
	sb.WriteString("Step 4: Predict the final score and identify 2 likely goal scorers based on player form.\n\n")

	fmt.Fprintf(&sb, "Format the output clearly. Use the delimiter %q between each of the 3 matches so I can split them later.\n\n", parse.Delimiter)

	sb.WriteString("For each match, structure the text exactly like this (keep the headers exactly as written):\n")
	for _, f := range fieldHints {
		sb.WriteString(f.marker)
		sb.WriteString(" ")
		sb.WriteString(f.hint)
		sb.WriteString("\n")
	}

	return sb.String()
}
