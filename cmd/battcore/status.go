package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/battcore/battcore/pkg/config"
	"github.com/battcore/battcore/pkg/core"
	"github.com/battcore/battcore/pkg/types"
)

type statusData struct {
	report core.Report
	config *config.RawFileConfig
}

func fetchStatusData() (*statusData, error) {
	report, err := apiClient.GetStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}

	conf, err := apiClient.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	return &statusData{report: report, config: conf}, nil
}

func NewStatusCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current battery and charger status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := fetchStatusData()
			if err != nil {
				return err
			}

			if asJSON {
				return printStatusJSON(cmd, data)
			}
			printStatus(cmd, data)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")

	return cmd
}

func printStatus(cmd *cobra.Command, data *statusData) {
	r := data.report
	s := r.Snapshot

	cmd.Println(bold("Charging status:"))
	cmd.Printf("  Status: %s\n", statusText(r.Status))
	cmd.Printf("  Charger: %s\n", bool2Text(r.Control == types.ControlEnabled))
	if r.Timer.Armed {
		cmd.Printf("  Re-enable at: %s\n", bold("%s", r.Timer.Deadline.Local().Format("15:04:05")))
	}
	if r.Timer.LastError != "" {
		cmd.Printf("  Last re-enable error: %s\n", color.RedString(r.Timer.LastError))
	}
	cmd.Printf("  Source: %s\n", bold("%s", s.EffectiveSource()))
	if r.FullLatch {
		cmd.Println("    Battery reached its full level. It reads full until the charger is unplugged.")
	}

	cmd.Println()

	cmd.Println(bold("Battery status:"))
	cmd.Printf("  Present: %s\n", bool2Text(s.Present))
	cmd.Printf("  Health: %s\n", bold("%s", r.Health))
	cmd.Printf("  Capacity: %s\n", bold("%d%%", s.LevelPercent))
	cmd.Printf("  Full level: %s\n", bold("%d%%", s.FullLevelPercent))
	cmd.Printf("  Full capacity: %s\n", bold("%d mAh", s.FullCapacityUAh/1000))
	cmd.Printf("  Voltage: %s\n", bold("%.2f V", float64(s.VoltageMV)/1000))
	cmd.Printf("  Current: %s\n", currentText(s.CurrentMA))
	cmd.Printf("  Temperature: %s\n", bold("%.1f °C", float64(s.TemperatureDeciC)/10))

	cmd.Println()

	cmd.Println(bold("Daemon configuration:"))
	conf := config.NewFileFromConfig(data.config, "")
	cmd.Printf("  Adapter: %s (%s)\n", bold("%s", conf.Adapter()), r.Capabilities)
	cmd.Printf("  Poll schedule: %s\n", bold("%s", conf.PollSchedule()))
	if level, ok := conf.FullLevel(); ok {
		cmd.Printf("  Persisted full level: %s\n", bold("%d%%", level))
	}
	cmd.Printf("  Allow non-root users to access the daemon: %s\n", bool2Text(conf.AllowNonRootAccess()))
	if mq := conf.MQTT(); mq.Enabled() {
		cmd.Printf("  MQTT: %s (topic %s)\n", bold("%s", mq.Broker), mq.Topic)
	}
}

func statusText(status string) string {
	switch status {
	case types.StatusCharging.String():
		return color.New(color.Bold, color.FgGreen).Sprint(status)
	case types.StatusDischarging.String():
		return color.New(color.Bold, color.FgRed).Sprint(status)
	default:
		return bold("%s", status)
	}
}

func currentText(ma int32) string {
	switch {
	case ma > 0:
		return color.New(color.Bold, color.FgGreen).Sprintf("%+d mA", ma)
	case ma < 0:
		return color.New(color.Bold, color.FgRed).Sprintf("%+d mA", ma)
	default:
		return bold("%+d mA", ma)
	}
}

func printStatusJSON(cmd *cobra.Command, data *statusData) error {
	out := struct {
		core.Report
		Configuration *config.RawFileConfig `json:"configuration"`
	}{data.report, data.config}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
