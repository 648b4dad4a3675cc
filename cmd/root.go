package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/livewatch/internal/config"
	"github.com/sw33tLie/livewatch/internal/utils"
	"github.com/sw33tLie/livewatch/pkg/extract"
	"github.com/sw33tLie/livewatch/pkg/render"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "livewatch",
	Short: "Check video channels for live and upcoming broadcasts.",
	Long: `livewatch loads channel pages in a headless Chrome and reports which broadcasts
are live right now and which are scheduled, with their start times.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.livewatch.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("mode", string(render.DefaultMode()), "Browser mode. Available: win, linux (mac is not supported yet)")
	rootCmd.PersistentFlags().Bool("headless", true, "Run Chrome without a window")
	rootCmd.PersistentFlags().Duration("wait", render.DefaultWait, "Time to let page scripts render before reading the page")
	rootCmd.PersistentFlags().Duration("timeout", render.DefaultNavigateTimeout, "Maximum time for loading a single page (0 = no limit)")
	rootCmd.PersistentFlags().Bool("images", false, "Load images (slower)")
	rootCmd.PersistentFlags().String("chrome", "", "Path to the Chrome/Chromium executable (default: search PATH)")
	rootCmd.PersistentFlags().String("profile", "", "Chrome user data directory to use")
	rootCmd.PersistentFlags().Int("threshold", extract.DefaultThreshold, "Upcoming grid size above which a channel is assumed to have nothing scheduled")

	viper.BindPFlag(config.KeyMode, rootCmd.PersistentFlags().Lookup("mode"))
	viper.BindPFlag(config.KeyHeadless, rootCmd.PersistentFlags().Lookup("headless"))
	viper.BindPFlag(config.KeyWait, rootCmd.PersistentFlags().Lookup("wait"))
	viper.BindPFlag(config.KeyTimeout, rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag(config.KeyImages, rootCmd.PersistentFlags().Lookup("images"))
	viper.BindPFlag(config.KeyChrome, rootCmd.PersistentFlags().Lookup("chrome"))
	viper.BindPFlag(config.KeyProfile, rootCmd.PersistentFlags().Lookup("profile"))
	viper.BindPFlag(config.KeyThreshold, rootCmd.PersistentFlags().Lookup("threshold"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".livewatch")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("livewatch")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.livewatch.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s\n", err)
			}
		} else {
			fmt.Printf("Error reading config file: %s\n", err)
			os.Exit(1)
		}
	}

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	if err := utils.SetLogLevel(levelString); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
