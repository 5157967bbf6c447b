//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Resetter,Builder
package upload

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gitlab.com/usli/pio-uploader/internal/color"
)

const (
	DefaultPreUploadPause  = 500 * time.Millisecond
	DefaultPreMonitorPause = 2 * time.Second
)

var ErrUploadFailed = errors.New("upload failed")

// Remediation is logged when the upload step fails.
var Remediation = []string{
	"1. Press RESET button on the board",
	"2. Run this tool again",
	"3. Try the Arduino IDE",
}

type Resetter interface {
	Reset(port string, baudRate int) error
}

type Builder interface {
	Upload(projectDir, environment string) error
	Monitor(projectDir, environment string) error
}

type Config struct {
	Port            string
	BaudRate        int
	Environment     string
	ProjectDir      string
	SkipMonitor     bool
	Resetter        Resetter
	Builder         Builder
	Logger          *logrus.Logger
	PreUploadPause  time.Duration
	PreMonitorPause time.Duration
	Sleep           func(time.Duration)
}

type Result struct {
	ResetOK  bool
	UploadOK bool
}

type Uploader struct {
	port            string
	baudRate        int
	environment     string
	projectDir      string
	skipMonitor     bool
	resetter        Resetter
	builder         Builder
	logger          *logrus.Logger
	preUploadPause  time.Duration
	preMonitorPause time.Duration
	sleep           func(time.Duration)
}

func New(config *Config) *Uploader {
	u := &Uploader{
		port:            config.Port,
		baudRate:        config.BaudRate,
		environment:     config.Environment,
		projectDir:      config.ProjectDir,
		skipMonitor:     config.SkipMonitor,
		resetter:        config.Resetter,
		builder:         config.Builder,
		logger:          config.Logger,
		preUploadPause:  config.PreUploadPause,
		preMonitorPause: config.PreMonitorPause,
		sleep:           config.Sleep,
	}
	if u.sleep == nil {
		u.sleep = time.Sleep
	}
	return u
}

// Run resets the board, uploads the firmware and, when the upload succeeded,
// opens the serial monitor. Only an upload failure is returned as an error.
func (u *Uploader) Run() (Result, error) {
	logger := u.logger.WithFields(logrus.Fields{
		"port":        u.port,
		"environment": u.environment,
	})
	result := Result{}

	logger.Info("resetting board via DTR...")
	result.ResetOK = u.Reset()
	if !result.ResetOK {
		logger.Warn(color.Yellow("reset may have failed, continuing anyway..."))
	}

	u.sleep(u.preUploadPause)

	result.UploadOK = u.Upload()
	if !result.UploadOK {
		logger.Error(color.Red("✗ upload failed!"))
		logger.Info(color.Yellow("Try:"))
		for _, line := range Remediation {
			logger.Info(color.Yellow(line))
		}
		return result, fmt.Errorf("%w for environment %v", ErrUploadFailed, u.environment)
	}
	logger.Info(color.Green("✓ upload successful!"))

	if u.skipMonitor {
		logger.Debug("skipping serial monitor")
		return result, nil
	}

	logger.Infof("opening serial monitor in %v...", u.preMonitorPause)
	u.sleep(u.preMonitorPause)
	u.Monitor()

	return result, nil
}

func (u *Uploader) Reset() bool {
	err := u.resetter.Reset(u.port, u.baudRate)
	if err != nil {
		u.logger.Warnf("✗ reset failed: %v", err)
		return false
	}
	u.logger.Info(color.Green("✓ board reset"))
	return true
}

func (u *Uploader) Upload() bool {
	u.logger.WithField("projectDir", u.projectDir).Info("uploading firmware...")
	err := u.builder.Upload(u.projectDir, u.environment)
	if err != nil {
		u.logger.Debugf("upload error: %v", err)
		return false
	}
	return true
}

func (u *Uploader) Monitor() {
	err := u.builder.Monitor(u.projectDir, u.environment)
	if err != nil {
		u.logger.Warnf("serial monitor exited: %v", err)
	}
}
