package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/battcore/battcore/pkg/events"
	"github.com/battcore/battcore/pkg/types"
	"github.com/battcore/battcore/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "get [property]",
		Short:     "Read a battery property",
		GroupID:   gBasic,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: propertyNames(),
		Long: `Read a battery property.

Without an argument every property is printed. Properties are
status, health, present, technology and capacity.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			props := types.Properties
			if len(args) == 1 {
				props = []types.Property{types.Property(args[0])}
			}
			for _, p := range props {
				v, err := apiClient.GetProperty(p)
				if err != nil {
					return fmt.Errorf("failed to get %s: %w", p, err)
				}
				cmd.Printf("%s: %s\n", p, v.Text)
			}
			return nil
		},
	}
}

func propertyNames() []string {
	names := make([]string, 0, len(types.Properties))
	for _, p := range types.Properties {
		names = append(names, string(p))
	}
	return names
}

func NewAttrCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "attr [name]",
		Short:   "Read a raw telemetry attribute",
		GroupID: gAdvanced,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs := types.Attrs
			if len(args) == 1 {
				attrs = []types.Attr{types.Attr(args[0])}
			}
			for _, a := range attrs {
				v, err := apiClient.GetAttr(a)
				if err != nil {
					return fmt.Errorf("failed to get %s: %w", a, err)
				}
				cmd.Printf("%s: %d\n", a, v)
			}
			return nil
		},
	}
}

func NewFullLevelCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "full-level [percentage]",
		Short:   "Set the level the battery is considered full at",
		GroupID: gBasic,
		Long: `Set the level the battery is considered full at.

This is a percentage from 1 to 100. The daemon asks the adapter to apply
it and persists it in the config file. Adapters may accept only some
values.`,
		RunE: func(_ *cobra.Command, args []string) error {
			level, err := parseIntArg(args, "level")
			if err != nil {
				return err
			}

			ret, err := apiClient.SetFullLevel(level)
			if err != nil {
				return fmt.Errorf("failed to set full level: %w", err)
			}
			logResponse(ret)

			logrus.Infof("successfully set full level to %d%%", level)
			return nil
		},
	}
}

func NewChargerCommand() *cobra.Command {
	return newEnableDisableCommand(
		"charger",
		"Enable or disable charging",
		`Enable or disable charging.

Sending either command cancels a pending timed disable.`,
		func() (string, error) {
			return apiClient.SetChargerControl(types.CommandEnable)
		},
		func() (string, error) {
			return apiClient.SetChargerControl(types.CommandDisable)
		},
	)
}

func NewChargerTimerCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "charger-timer [seconds]",
		Short:   "Disable charging for a number of seconds",
		GroupID: gBasic,
		Long: `Disable charging for a number of seconds, then enable it again.

Seconds range from 1 to 65536. 0 cancels a pending timer and enables
charging right away.`,
		RunE: func(_ *cobra.Command, args []string) error {
			seconds, err := parseIntArg(args, "seconds")
			if err != nil {
				return err
			}

			ret, err := apiClient.SetChargerTimer(seconds)
			if err != nil {
				return fmt.Errorf("failed to set charger timer: %w", err)
			}
			logResponse(ret)

			if seconds == 0 {
				logrus.Info("charger timer cancelled, charging enabled")
				return nil
			}
			logrus.Infof("charging disabled until %s", time.Now().Add(time.Duration(seconds)*time.Second).Format(time.Kitchen))
			return nil
		},
	}
}

func NewUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "update [supply]",
		Short:   "Force a telemetry refresh",
		GroupID: gAdvanced,
		Args:    cobra.MaximumNArgs(1),
		Long: `Force a telemetry refresh and notify subscribers of the supply.

The supply defaults to battery.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			supply := types.SupplyBattery
			if len(args) == 1 {
				s, err := types.ParseSupply(args[0])
				if err != nil {
					return err
				}
				supply = s
			}

			snap, err := apiClient.Update(supply)
			if err != nil {
				return err
			}
			cmd.Printf("capacity: %d%%, source: %s, charging enabled: %t\n",
				snap.LevelPercent, snap.ChargingSource, snap.ChargingEnabled)
			return nil
		},
	}
}

func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Print daemon events as they happen",
		GroupID: gAdvanced,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err := apiClient.WatchEvents(ctx, func(e events.Event) bool {
				cmd.Println(formatEvent(e))
				return true
			})
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}

func formatEvent(e events.Event) string {
	switch e.Name {
	case events.SupplyChanged:
		p, err := events.DecodeAs[events.SupplyChangedEvent](e)
		if err == nil {
			return fmt.Sprintf("%s %s: %s %d%%", tsString(p.Ts), p.Supply, p.Status, p.Capacity)
		}
	case events.ChargerControl:
		p, err := events.DecodeAs[events.ChargerControlEvent](e)
		if err == nil {
			return fmt.Sprintf("%s charger %s", tsString(p.Ts), p.State)
		}
	case events.ChargerTimer:
		p, err := events.DecodeAs[events.ChargerTimerEvent](e)
		if err == nil {
			if !p.Armed {
				return fmt.Sprintf("%s charger timer cleared", tsString(p.Ts))
			}
			return fmt.Sprintf("%s charger timer armed until %s", tsString(p.Ts), tsString(p.Deadline))
		}
	}
	return fmt.Sprintf("%s %s", e.Name, string(e.Data))
}

func tsString(unix int64) string {
	return time.Unix(unix, 0).Format(time.Kitchen)
}

func NewDebugCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "debug",
		Short:   "Dump adapter debug text",
		GroupID: gAdvanced,
		Hidden:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := apiClient.GetDebugText()
			if err != nil {
				return err
			}
			cmd.Print(text)
			return nil
		},
	}
}
