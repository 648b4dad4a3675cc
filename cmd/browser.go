package cmd

import (
	"context"

	"github.com/spf13/viper"
	"github.com/sw33tLie/livewatch/internal/config"
	"github.com/sw33tLie/livewatch/internal/utils"
	"github.com/sw33tLie/livewatch/pkg/monitor"
	"github.com/sw33tLie/livewatch/pkg/render"
)

// loadConfig validates the merged flags, env and config file. Mode errors
// surface here, before Chrome is started.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		utils.Log.Errorf("%v", err)
		return config.Config{}, err
	}
	return cfg, nil
}

// parseChannels validates channel URLs given on the command line.
func parseChannels(args []string) ([]string, error) {
	channels := make([]string, 0, len(args))
	for _, a := range args {
		ch, err := monitor.ValidateChannelURL(a)
		if err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// withMonitor runs fn with a monitor backed by a fresh browser session and
// closes the session afterwards, whatever fn returns.
func withMonitor(ctx context.Context, cfg config.Config, fn func(*monitor.Monitor) error) error {
	bc := cfg.Browser
	bc.Log = utils.Log
	return render.With(ctx, bc, func(s *render.Session) error {
		m := monitor.New(s,
			monitor.WithThreshold(cfg.Threshold),
			monitor.WithLogger(utils.Log),
		)
		return fn(m)
	})
}
