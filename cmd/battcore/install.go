package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/battcore/battcore/pkg/utils/service"
)

func NewInstallCommand() *cobra.Command {
	var allowNonRoot bool

	cmd := &cobra.Command{
		Use:     "install",
		Short:   "Install battcore daemon as a system service",
		GroupID: gAdvanced,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if os.Geteuid() != 0 {
				return fmt.Errorf("you must run this command as root")
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			err := service.Default().Install(service.Params{
				ConfigPath:     configPath,
				UnixSocketPath: unixSocketPath,
				AllowNonRoot:   allowNonRoot,
			})
			if err != nil {
				return fmt.Errorf("failed to install daemon: %w", err)
			}
			logrus.Info("installation succeeded")
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowNonRoot, "allow-non-root-access", false,
		"Allow non-root users to access the daemon.")

	return cmd
}

func NewUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall",
		Short:   "Stop and remove the battcore system service",
		GroupID: gAdvanced,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := service.Default().Uninstall(); err != nil {
				return fmt.Errorf("failed to uninstall daemon: %w", err)
			}
			logrus.Info("battcore daemon uninstalled")
			return nil
		},
	}
}
