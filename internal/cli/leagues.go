package cli

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ppiankov/pitchprophet/internal/model"
)

var leaguesJSON bool

var leaguesCmd = &cobra.Command{
	Use:   "leagues",
	Short: "List the selectable leagues",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		leagues := model.Leagues()

		if leaguesJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(leagues)
		}

		name := lipgloss.NewStyle().Bold(true).Width(18)
		muted := lipgloss.NewStyle().Faint(true)
		for _, l := range leagues {
			fmt.Fprintf(out, "%s  %s %s  %s\n", l.Flag, name.Render(l.Name), muted.Render(l.Country), muted.Render(string(l.ID)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(leaguesCmd)
	leaguesCmd.Flags().BoolVar(&leaguesJSON, "json", false, "print as JSON")
}
