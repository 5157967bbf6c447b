package platformio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

const (
	DefaultExecutable  = "pio"
	DefaultEnvironment = "nano_v4"
)

var (
	ErrorToolNotFound    = errors.New("platformio executable not found")
	ErrorCommandFailure  = errors.New("failed running command")
	ErrorEmptyProjectDir = errors.New("project directory is required")
)

type Config struct {
	// Executable is a name resolved through PATH or an explicit path.
	Executable string
	// Port, when set, is forwarded as --upload-port and --port.
	Port   string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

type Tool struct {
	executable string
	port       string
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
}

func New(config *Config) (*Tool, error) {
	name := config.Executable
	if name == "" {
		name = DefaultExecutable
	}
	executable, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrorToolNotFound, err)
	}
	t := &Tool{
		executable: executable,
		port:       config.Port,
		stdin:      config.Stdin,
		stdout:     config.Stdout,
		stderr:     config.Stderr,
	}
	if t.stdin == nil {
		t.stdin = os.Stdin
	}
	if t.stdout == nil {
		t.stdout = os.Stdout
	}
	if t.stderr == nil {
		t.stderr = os.Stderr
	}
	return t, nil
}

// Upload builds the environment and flashes it onto the board.
func (t *Tool) Upload(projectDir, environment string) error {
	if projectDir == "" {
		return ErrorEmptyProjectDir
	}
	args := []string{"run", "--environment", environment, "--target", "upload"}
	if t.port != "" {
		args = append(args, "--upload-port", t.port)
	}
	return t.run(projectDir, args)
}

// Monitor attaches to the board's serial output until the tool exits or the
// user interrupts it. pio reads the environment from projectDir.
func (t *Tool) Monitor(projectDir, environment string) error {
	if projectDir == "" {
		return ErrorEmptyProjectDir
	}
	args := []string{"device", "monitor", "--environment", environment}
	if t.port != "" {
		args = append(args, "--port", t.port)
	}
	return t.run(projectDir, args)
}

func (t *Tool) Version() (string, error) {
	resp, err := exec.Command(t.executable, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrorCommandFailure, err)
	}
	return strings.TrimSpace(string(resp)), nil
}

func (t *Tool) Name() string {
	return DefaultExecutable
}

func (t *Tool) run(dir string, args []string) error {
	cmd := exec.Command(t.executable, args...)
	cmd.Dir = dir
	cmd.Stdin = t.stdin
	cmd.Stdout = t.stdout
	cmd.Stderr = t.stderr
	err := cmd.Run()
	if err != nil {
		return fmt.Errorf("%w: %v %v: %v", ErrorCommandFailure, t.Name(), strings.Join(args[:2], " "), err)
	}
	return nil
}
