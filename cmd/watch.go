package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/livewatch/internal/config"
	"github.com/sw33tLie/livewatch/internal/utils"
	"github.com/sw33tLie/livewatch/pkg/monitor"
	"github.com/sw33tLie/livewatch/pkg/report"
)

// watchCmd implements: livewatch watch [channel-url...]
// Channels default to watch.channels from the config file.
var watchCmd = &cobra.Command{
	Use:   "watch [channel-url...]",
	Short: "Poll channels and print broadcasts as they go live, end or get scheduled",
	RunE: func(cmd *cobra.Command, args []string) error {
		channels, err := parseChannels(args)
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		delimiter, _ := cmd.Flags().GetString("delimiter")
		jsonOut, _ := cmd.Flags().GetBool("json")
		rounds, _ := cmd.Flags().GetInt("rounds")
		initial, _ := cmd.Flags().GetBool("initial")
		if !jsonOut {
			if err := report.ValidateFlags(output, "ktlusc"); err != nil {
				return err
			}
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(channels) == 0 {
			channels = cfg.Channels
		}
		if len(channels) == 0 {
			return errors.New("no channels given and none configured under watch.channels")
		}

		out := cmd.OutOrStdout()
		err = withMonitor(cmd.Context(), cfg, func(m *monitor.Monitor) error {
			return monitor.Watch(cmd.Context(), monitor.WatchConfig{
				Monitor:       m,
				Channels:      channels,
				Interval:      cfg.Interval,
				Rounds:        rounds,
				ReportInitial: initial,
				Log:           utils.Log,
				OnChange: func(c monitor.Change) {
					var perr error
					if jsonOut {
						perr = report.JSONChange(out, c)
					} else {
						perr = report.PrintChange(out, c, output, delimiter)
					}
					if perr != nil {
						utils.Log.Warnf("Could not print change: %v", perr)
					}
				},
			})
		})
		if errors.Is(err, context.Canceled) {
			utils.Log.Info("Interrupted, stopping.")
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Duration("interval", monitor.DefaultInterval, "Time between poll rounds")
	watchCmd.Flags().Int("rounds", 0, "Number of poll rounds (0 = until interrupted)")
	watchCmd.Flags().Bool("initial", false, "Also report what is live or scheduled on the first poll")
	watchCmd.Flags().StringP("output", "o", report.DefaultChangeFlags, "Output flags. Supported: k (change kind), t (title), l (link), u (full URL), s (start time), c (channel). Can be combined.")
	watchCmd.Flags().StringP("delimiter", "d", " ", "Delimiter character to use for txt output format")
	watchCmd.Flags().Bool("json", false, "Print one JSON object per line")
	viper.BindPFlag(config.KeyInterval, watchCmd.Flags().Lookup("interval"))
}
