package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gitlab.com/usli/pio-uploader/internal/color"
	"gitlab.com/usli/pio-uploader/internal/device"
	"gitlab.com/usli/pio-uploader/internal/devicediscovery"
	"gitlab.com/usli/pio-uploader/internal/platformio"
	"gitlab.com/usli/pio-uploader/internal/project"
	"gitlab.com/usli/pio-uploader/internal/serialreset"
	"gitlab.com/usli/pio-uploader/internal/udev"
	"gitlab.com/usli/pio-uploader/internal/upload"
)

// Set via LDFLAGS
var version = "dev"

var (
	port               string
	baudRate           int
	environment        string
	projectPath        string
	pioExecutable      string
	monitor            bool
	passPort           bool
	setupUDev          bool
	debug              bool
	showVersion        bool
	hostOS             = runtime.GOOS
	cleanupDirectories []string
	udevInstalled      bool
	cleanupOnce        sync.Once
	logger             = logrus.New()
	exit               = os.Exit
)

func parseFlags() {
	flag.StringVar(&port, "port", device.DefaultPort, "serial port of the board, or \"auto\" to discover it")
	flag.IntVar(&baudRate, "baud", serialreset.DefaultBaudRate, "baud rate used to trigger the bootloader reset")
	flag.StringVar(&environment, "env", platformio.DefaultEnvironment, "platformio build environment")
	flag.StringVar(&projectPath, "project", project.DefaultPath, "platformio project directory or archive")
	flag.StringVar(&pioExecutable, "pio", platformio.DefaultExecutable, "platformio executable")
	flag.BoolVar(&monitor, "monitor", true, "open the serial monitor after a successful upload")
	flag.BoolVar(&passPort, "pass-port", false, "pass the serial port to platformio for upload and monitor")
	flag.BoolVar(&setupUDev, "udev", false, "install udev rules for usb serial adapters (linux only)")
	flag.BoolVar(&debug, "debug", false, "debug logging")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()
}

func main() {
	parseFlags()
	if showVersion {
		fmt.Println(version)
		return
	}
	configureLogger(logger, debug)
	cleanupOnCtrlC()
	defer cleanup()

	logger.Info("=== PlatformIO reset and upload ===")

	// setup udev if running linux
	if setupUDev {
		if hostOS != "linux" {
			logger.Warnf("-udev is only supported on linux, ignoring on %v", hostOS)
		} else {
			err := udev.Setup(logger, udev.Rules(device.KnownVendors))
			if err != nil {
				logger.Fatalf(color.Red("failed to setup udev: %v"), err)
			}
			udevInstalled = true
		}
	}

	// port discovery
	if port == device.AutoPort {
		discovered, err := devicediscovery.New(devicediscovery.Enumerator{}, logger).DiscoverPort()
		if err != nil {
			logger.Fatalf(color.Red("failed to discover serial port: %v"), err)
		}
		logger.Infof("📟 discovered %v", discovered)
		port = discovered.Name
	}

	// project setup
	logger.Debug("resolving project")
	extractDir, err := tempExtractDir("project")
	if err != nil {
		logger.Fatalf(color.Red("failed to create temp dir for project: %v"), err)
	}
	proj := project.New(&project.Config{
		Path:             projectPath,
		WorkingDirectory: extractDir,
		Logger:           logger,
	})
	_, err = proj.Resolve()
	if err != nil {
		logger.Fatalf(color.Red("failed to resolve project %v: %v"), projectPath, err)
	}
	err = proj.Validate(environment)
	if err != nil {
		logger.Warnf("%v, platformio may reject the environment", err)
	}

	// platformio setup
	logger.Debug("setting up platformio")
	pioConfig := &platformio.Config{Executable: pioExecutable}
	if passPort {
		pioConfig.Port = port
	}
	pio, err := platformio.New(pioConfig)
	if err != nil {
		logger.Fatalf(color.Red("failed to setup platformio: %v"), err)
	}
	if v, err := pio.Version(); err != nil {
		logger.Debugf("unable to read platformio version: %v", err)
	} else {
		logger.Debugf("using %v", v)
	}

	result, err := upload.New(&upload.Config{
		Port:            port,
		BaudRate:        baudRate,
		Environment:     environment,
		ProjectDir:      proj.Directory(),
		SkipMonitor:     !monitor,
		Resetter:        serialreset.New(&serialreset.Config{Logger: logger}),
		Builder:         pio,
		Logger:          logger,
		PreUploadPause:  upload.DefaultPreUploadPause,
		PreMonitorPause: upload.DefaultPreMonitorPause,
	}).Run()
	logger.WithFields(logrus.Fields{
		"reset":  result.ResetOK,
		"upload": result.UploadOK,
	}).Debug("finished")
	if err != nil {
		logger.Debug(err)
	}
}

// configureLogger also makes fatal logs clean up before exiting, since
// os.Exit skips deferred calls.
func configureLogger(logger *logrus.Logger, debug bool) {
	formatter := &prefixed.TextFormatter{ForceColors: true, ForceFormatting: true}
	formatter.SetColorScheme(&prefixed.ColorScheme{
		PrefixStyle: "white",
	})
	logger.SetFormatter(formatter)
	logger.SetOutput(colorable.NewColorableStdout())
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	logger.ExitFunc = func(code int) {
		cleanup()
		exit(code)
	}
}

func tempExtractDir(usage string) (string, error) {
	dir, err := ioutil.TempDir("", fmt.Sprintf("pio-uploader-extracted-%v", usage))
	if err != nil {
		return "", err
	}
	cleanupDirectories = append(cleanupDirectories, dir)
	return dir, nil
}

func cleanup() {
	cleanupOnce.Do(func() {
		for _, dir := range cleanupDirectories {
			err := os.RemoveAll(dir)
			if err != nil {
				fmt.Printf("cleanup error removing dir %v: %v\n", dir, err)
			}
		}
		if udevInstalled {
			udev.Remove(logger)
		}
	})
}

func cleanupOnCtrlC() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\r- Ctrl+C pressed in Terminal")
		cleanup()
		exit(0)
	}()
}
