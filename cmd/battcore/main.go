package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/battcore/battcore/pkg/client"
	"github.com/battcore/battcore/pkg/version"
)

var (
	logLevel       = "info"
	unixSocketPath = "/var/run/battcore.sock"
	configPath     = "/etc/battcore.json"
)

var apiClient = client.NewClient(unixSocketPath)

var (
	gBasic        = "Basic:"
	gAdvanced     = "Advanced:"
	commandGroups = []string{
		gBasic,
		gAdvanced,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	if errors.Is(err, client.ErrDaemonNotRunning) {
		fmt.Fprintln(os.Stderr, "\nError: battcore daemon is not running")
		fmt.Fprintln(os.Stderr, "Is the daemon running? Check --daemon-socket.")
	} else if errors.Is(err, client.ErrPermissionDenied) {
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Try running the command again with 'sudo'")
		fmt.Fprintln(os.Stderr, "  - Or restart the daemon with '--allow-non-root-access'")
	}
}

func main() {
	if os.Getenv("GOMAXPROCS") == "" {
		runtime.GOMAXPROCS(2)
	}

	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

// getVersion returns the client and daemon versions.
func getVersion() (string, string, error) {
	daemonVersion, err := apiClient.GetVersion()
	if err != nil {
		return version.Version, "", err
	}
	return version.Version, daemonVersion, nil
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "battcore",
		Short: "battcore exposes battery telemetry and charger control over a local socket",
		Long: `battcore exposes battery telemetry and charger control over a local socket.

The daemon polls the hardware adapter, resolves the charging status and
serves power-supply properties. The other commands talk to a running daemon.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			err := setupLogger()
			if err != nil {
				return err
			}

			apiClient = client.NewClient(unixSocketPath)

			// These commands run without a daemon to compare versions against.
			if cmd.Name() == "daemon" || cmd.Name() == "version" || cmd.Name() == "install" {
				return nil
			}

			if clientVersion, daemonVersion, err := getVersion(); err == nil {
				if daemonVersion != clientVersion {
					logrus.WithFields(logrus.Fields{
						"clientVersion": clientVersion,
						"daemonVersion": daemonVersion,
					}).Warn("Version mismatch between client and daemon. battcore may not work as expected.")
				}
			} else if errors.Is(err, client.ErrNotFound) {
				logrus.Error("battcore daemon is too old to report its version.")
			}

			return nil
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "battcore daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewDaemonCommand(),
		NewVersionCommand(),
		NewStatusCommand(),
		NewGetCommand(),
		NewAttrCommand(),
		NewFullLevelCommand(),
		NewChargerCommand(),
		NewChargerTimerCommand(),
		NewUpdateCommand(),
		NewWatchCommand(),
		NewDebugCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
	)

	return cmd
}
