// Package service installs the battcore daemon as a system service: a
// launchd daemon on macOS and a systemd unit elsewhere.
package service

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"text/template"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Manager describes one service manager flavor.
type Manager struct {
	// UnitPath is where the service definition is written.
	UnitPath string
	// Template renders the service definition. It receives Params.
	Template *template.Template
	// Load and Unload are the commands that start and stop the service.
	Load   []string
	Unload []string
	// ByName makes Load and Unload act on the unit file name instead of
	// its full path.
	ByName bool
}

// Params are the values substituted into a unit template.
type Params struct {
	Executable     string
	ConfigPath     string
	UnixSocketPath string
	AllowNonRoot   bool
}

var launchdTemplate = template.Must(template.New("launchd").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>io.battcore.daemon</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{ .Executable }}</string>
		<string>daemon</string>
		<string>--config={{ .ConfigPath }}</string>
		<string>--daemon-socket={{ .UnixSocketPath }}</string>
{{- if .AllowNonRoot }}
		<string>--allow-non-root-access</string>
{{- end }}
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardErrorPath</key>
	<string>/tmp/battcore.log</string>
</dict>
</plist>
`))

var systemdTemplate = template.Must(template.New("systemd").Parse(`[Unit]
Description=battcore battery daemon

[Service]
ExecStart={{ .Executable }} daemon --config={{ .ConfigPath }} --daemon-socket={{ .UnixSocketPath }}{{ if .AllowNonRoot }} --allow-non-root-access{{ end }}
ExecReload=/bin/kill -HUP $MAINPID
Restart=on-failure

[Install]
WantedBy=multi-user.target
`))

// Launchd is the macOS launch daemon flavor.
var Launchd = Manager{
	UnitPath: "/Library/LaunchDaemons/io.battcore.daemon.plist",
	Template: launchdTemplate,
	Load:     []string{"/bin/launchctl", "load"},
	Unload:   []string{"/bin/launchctl", "unload"},
}

// Systemd is the systemd unit flavor.
var Systemd = Manager{
	UnitPath: "/etc/systemd/system/battcore.service",
	Template: systemdTemplate,
	Load:     []string{"systemctl", "enable", "--now"},
	Unload:   []string{"systemctl", "disable", "--now"},
	ByName:   true,
}

// Default picks the manager for the running OS.
func Default() Manager {
	if runtime.GOOS == "darwin" {
		return Launchd
	}
	return Systemd
}

// run executes a service manager command. Swapped in tests.
var run = func(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Render returns the service definition for p.
func (m Manager) Render(p Params) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Template.Execute(&buf, p); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to render service definition")
	}
	return buf.Bytes(), nil
}

// Install writes the service definition for the current executable and
// starts it.
func (m Manager) Install(p Params) error {
	if p.Executable == "" {
		exePath, err := os.Executable()
		if err != nil {
			return pkgerrors.Wrap(err, "failed to get the path to the current executable")
		}
		p.Executable = exePath
	}
	exePath, err := filepath.Abs(p.Executable)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to get the absolute path to the current executable")
	}
	p.Executable = exePath

	logrus.Infof("current executable path: %s", exePath)

	unit, err := m.Render(p)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(m.UnitPath), 0755); err != nil {
		return pkgerrors.Wrapf(err, "failed to create %s", filepath.Dir(m.UnitPath))
	}

	if _, err := os.Stat(m.UnitPath); err == nil {
		logrus.Warnf("%s already exists, overwriting", m.UnitPath)
	}

	logrus.Infof("writing service definition to %s", m.UnitPath)
	if err := os.WriteFile(m.UnitPath, unit, 0644); err != nil {
		return pkgerrors.Wrapf(err, "failed to write %s", m.UnitPath)
	}

	logrus.Infof("starting battcore")
	if err := m.exec(m.Load); err != nil {
		return pkgerrors.Wrapf(err, "failed to load %s", m.UnitPath)
	}

	return nil
}

// Uninstall stops the service and removes its definition. A missing
// definition is not an error.
func (m Manager) Uninstall() error {
	logrus.Infof("stopping battcore")

	if err := m.exec(m.Unload); err != nil {
		return pkgerrors.Wrapf(err, "failed to unload %s. Are you root?", m.UnitPath)
	}

	logrus.Infof("removing service definition")

	err := os.Remove(m.UnitPath)
	if err != nil && !os.IsNotExist(err) {
		return pkgerrors.Wrapf(err, "failed to remove %s. Are you root?", m.UnitPath)
	}

	return nil
}

func (m Manager) exec(cmd []string) error {
	if len(cmd) == 0 {
		return nil
	}
	args := append(append([]string{}, cmd[1:]...), m.target())
	return run(cmd[0], args...)
}

// target is the argument service commands act on.
func (m Manager) target() string {
	if m.ByName {
		return filepath.Base(m.UnitPath)
	}
	return m.UnitPath
}
