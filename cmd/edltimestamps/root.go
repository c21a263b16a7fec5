package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/cla7997/edl-timestamps/internal/config"
	"github.com/cla7997/edl-timestamps/internal/hotkey/system"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Drop EDL markers with a global hotkey",
	Long: `edltimestamps records a marker in an EDL file every time the marker
hotkey is pressed, stamped with the time elapsed since it started. Import
the file into your editor to get markers on the timeline. The end hotkey,
Ctrl+C or SIGTERM stops the session.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		configDir, _ := cmd.Flags().GetString("config-dir")
		a := &app{
			out:       cmd.OutOrStdout(),
			fs:        afero.NewOsFs(),
			registrar: system.NewRegistrar(),
		}
		return a.run(ctx, configDir)
	},
}

func init() {
	rootCmd.PersistentFlags().String("config-dir", ".", "directory holding "+config.FileName)
	rootCmd.Flags().String("output-dir", ".", "directory receiving the EDL file")
	rootCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("outputDir", rootCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("logLevel", rootCmd.Flags().Lookup("log-level"))

	rootCmd.AddCommand(keysCmd)
}
