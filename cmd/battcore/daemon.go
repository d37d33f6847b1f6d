package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/battcore/battcore/pkg/daemon"
	"github.com/battcore/battcore/pkg/version"
)

var (
	// alwaysAllowNonRootAccess makes the daemon socket world-accessible.
	alwaysAllowNonRootAccess = false
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daemon",
		Short:   "Run battcore daemon in the foreground",
		GroupID: gAdvanced,
		RunE: func(_ *cobra.Command, _ []string) error {
			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("battcore daemon starting")
			return daemon.Run(daemon.Options{
				ConfigPath:     configPath,
				UnixSocketPath: unixSocketPath,
				AllowNonRoot:   alwaysAllowNonRootAccess,
			})
		},
	}

	f := cmd.Flags()

	f.BoolVar(&alwaysAllowNonRootAccess, "allow-non-root-access", false,
		"Allow non-root users to access the daemon.")

	return cmd
}
