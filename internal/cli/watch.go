package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/chromedock/chromedock/internal/monitor"
)

// newWatchCmd creates the watch command.
func (cli *CLI) newWatchCmd() *cobra.Command {
	var (
		interval time.Duration
		logFile  string
		logJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the foreground watch loop",
		Long: `Run the watch loop that polls every browser instance, adopts browsers
started outside of chromedock and sends desktop notifications when an
instance crashes or stops.

The loop runs in the foreground until interrupted. Only one watch loop
can run at a time; a PID file prevents a second one from starting.

Examples:
  # Watch with the configured interval
  chromedock watch

  # Watch with a custom interval and a log file
  chromedock watch --interval 5s --log-file ~/.local/share/chromedock/watch.log`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval > 0 {
				cli.Config.Monitor.Interval = interval
			}
			if logFile != "" {
				cli.Config.Monitor.LogFile = logFile
			}
			if cmd.Flags().Changed("json-logs") {
				cli.Config.Monitor.LogJSON = logJSON
			}
			return cli.runWatch(cmd)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Poll interval (default from config)")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to a file instead of stderr")
	cmd.Flags().BoolVar(&logJSON, "json-logs", false, "Write logs as JSON")

	return cmd
}

// runWatch builds the monitor from the effective config and blocks on it.
func (cli *CLI) runWatch(cmd *cobra.Command) error {
	level, err := monitor.ParseLogLevel(cli.Config.Monitor.LogLevel)
	if err != nil {
		return err
	}
	if cli.verboseFlag {
		level = monitor.LogLevelDebug
	}

	logger, err := monitor.NewLogger(monitor.LoggerConfig{
		Level:    level,
		FilePath: cli.Config.Monitor.LogFile,
		JSONMode: cli.Config.Monitor.LogJSON,
		MaxSize:  int64(cli.Config.Monitor.LogMaxSize) * 1024 * 1024,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	m := monitor.New(cli.Config, cli.Profiles, cli.Supervisor)
	m.SetLogger(logger)

	return m.Run(cmd.Context())
}
