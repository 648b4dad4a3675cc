package cmd

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/livewatch/internal/utils"
	"github.com/sw33tLie/livewatch/pkg/monitor"
	"github.com/sw33tLie/livewatch/pkg/report"
)

// liveCmd implements: livewatch live <channel-url>...
var liveCmd = &cobra.Command{
	Use:   "live <channel-url>...",
	Short: "List broadcasts that are live right now",
	Example: `  livewatch live https://www.youtube.com/c/YellowBrickCinema
  livewatch live -o tu https://www.youtube.com/channel/UCS9uQI-jC3DE0L4IpXyvr6w`,
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
			if err := report.ValidateFlags(output, "tluc"); err != nil {
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
				entries := m.LiveCheck(cmd.Context(), ch)
				if len(entries) == 0 {
					utils.Log.Infof("%s: no live broadcast", ch)
					continue
				}
				if jsonOut {
					err = report.JSONLive(out, ch, entries)
				} else {
					err = report.PrintLive(out, ch, entries, output, delimiter)
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
	rootCmd.AddCommand(liveCmd)
	liveCmd.Flags().StringP("output", "o", report.DefaultLiveFlags, "Output flags. Supported: t (title), l (link), u (full URL), c (channel). Can be combined. Example: -o tu")
	liveCmd.Flags().StringP("delimiter", "d", " ", "Delimiter character to use for txt output format")
	liveCmd.Flags().Bool("json", false, "Print one JSON object per line")
}
