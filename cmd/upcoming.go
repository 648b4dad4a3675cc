package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/livewatch/internal/utils"
	"github.com/sw33tLie/livewatch/pkg/monitor"
	"github.com/sw33tLie/livewatch/pkg/report"
)

// upcomingCmd implements: livewatch upcoming <channel-url>...
var upcomingCmd = &cobra.Command{
	Use:   "upcoming <channel-url>...",
	Short: "List scheduled broadcasts and their start times",
	Long: `List scheduled broadcasts and their start times.

Channels with nothing scheduled show their full video grid on the upcoming page
instead. When the grid holds more than --threshold videos the channel is
reported as having nothing scheduled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("at least one channel URL is required")
		}
		channels, err := parseChannels(args)
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		delimiter, _ := cmd.Flags().GetString("delimiter")
		jsonOut, _ := cmd.Flags().GetBool("json")
		if !jsonOut {
			if err := report.ValidateFlags(output, "tlusc"); err != nil {
				return err
			}
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		return withMonitor(cmd.Context(), cfg, func(m *monitor.Monitor) error {
			for _, ch := range channels {
				entries := m.UpcomingCheck(cmd.Context(), ch)
				if len(entries) == 0 {
					utils.Log.Infof("%s: nothing scheduled", ch)
					continue
				}
				if jsonOut {
					err = report.JSONUpcoming(out, ch, entries)
				} else {
					err = report.PrintUpcoming(out, ch, entries, output, delimiter)
				}
				if err != nil {
					return err
				}
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(upcomingCmd)
	upcomingCmd.Flags().StringP("output", "o", report.DefaultUpcomingFlags, "Output flags. Supported: t (title), l (link), u (full URL), s (start time), c (channel). Can be combined. Example: -o tus")
	upcomingCmd.Flags().StringP("delimiter", "d", " ", "Delimiter character to use for txt output format")
	upcomingCmd.Flags().Bool("json", false, "Print one JSON object per line")
}
