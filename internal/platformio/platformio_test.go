package platformio

import (
	"bytes"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakePio writes a script that records its arguments and working directory
// and exits with exitCode.
func fakePio(t *testing.T, exitCode int) (executable string, record string) {
	return writeFakePio(t, "exit "+strconv.Itoa(exitCode)+"\n")
}

// writeFakePio records the working directory and arguments and then runs
// body.
func writeFakePio(t *testing.T, body string) (executable string, record string) {
	if runtime.GOOS == "windows" {
		t.Skip("fake executable is a shell script")
	}
	dir, err := ioutil.TempDir("", "fake-pio")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	record = filepath.Join(dir, "record.txt")
	executable = filepath.Join(dir, "pio")
	script := "#!/bin/sh\n" +
		"echo \"$(pwd)|$*\" > " + record + "\n" +
		"echo fake output\n" +
		body
	err = ioutil.WriteFile(executable, []byte(script), 0755)
	if err != nil {
		t.Fatal(err)
	}
	return executable, record
}

func tempProject(t *testing.T) string {
	dir, err := ioutil.TempDir("", "project")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	dir, err = filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}
	err = ioutil.WriteFile(filepath.Join(dir, "platformio.ini"), []byte("[env:nano_v4]\nboard = nanoatmega328new\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

func readRecord(t *testing.T, record string) (string, string) {
	data, err := ioutil.ReadFile(record)
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.SplitN(strings.TrimSpace(string(data)), "|", 2)
	return parts[0], parts[1]
}

func TestNewMissingExecutable(t *testing.T) {
	_, err := New(&Config{Executable: filepath.Join(os.TempDir(), "does-not-exist", "pio")})
	assert.True(t, errors.Is(err, ErrorToolNotFound))
}

func TestUpload(t *testing.T) {
	projectDir, err := ioutil.TempDir("", "project")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(projectDir)
	projectDir, _ = filepath.EvalSymlinks(projectDir)

	tests := map[string]struct {
		exitCode     int
		port         string
		expectedArgs string
		expectedErr  error
	}{
		"successful upload": {
			exitCode:     0,
			expectedArgs: "run --environment nano_v4 --target upload",
		},
		"successful upload with port": {
			exitCode:     0,
			port:         "/dev/ttyUSB0",
			expectedArgs: "run --environment nano_v4 --target upload --upload-port /dev/ttyUSB0",
		},
		"non-zero exit is a failure": {
			exitCode:     1,
			expectedArgs: "run --environment nano_v4 --target upload",
			expectedErr:  ErrorCommandFailure,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			executable, record := fakePio(t, tc.exitCode)
			out := &bytes.Buffer{}
			tool, err := New(&Config{Executable: executable, Port: tc.port, Stdout: out, Stderr: out})
			assert.Nil(t, err)

			err = tool.Upload(projectDir, DefaultEnvironment)
			if tc.expectedErr == nil {
				assert.Nil(t, err)
			} else {
				assert.True(t, errors.Is(err, tc.expectedErr))
			}
			dir, args := readRecord(t, record)
			assert.Equal(t, projectDir, dir)
			assert.Equal(t, tc.expectedArgs, args)
			assert.Contains(t, out.String(), "fake output")
		})
	}
}

func TestUploadRequiresProjectDir(t *testing.T) {
	executable, _ := fakePio(t, 0)
	tool, err := New(&Config{Executable: executable})
	assert.Nil(t, err)
	assert.Equal(t, ErrorEmptyProjectDir, tool.Upload("", DefaultEnvironment))
}

func TestMonitor(t *testing.T) {
	// like pio, the environment is looked up in ./platformio.ini
	executable, record := writeFakePio(t,
		"grep -q '\\[env:nano_v4\\]' platformio.ini 2>/dev/null || { echo unknown environment; exit 1; }\n")
	projectDir := tempProject(t)

	tests := map[string]struct {
		port         string
		expectedArgs string
	}{
		"monitor runs in the project directory": {
			expectedArgs: "device monitor --environment nano_v4",
		},
		"monitor with port": {
			port:         "/dev/ttyACM0",
			expectedArgs: "device monitor --environment nano_v4 --port /dev/ttyACM0",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			out := &bytes.Buffer{}
			tool, err := New(&Config{Executable: executable, Port: tc.port, Stdout: out, Stderr: out})
			assert.Nil(t, err)

			assert.Nil(t, tool.Monitor(projectDir, DefaultEnvironment))
			dir, args := readRecord(t, record)
			assert.Equal(t, projectDir, dir)
			assert.Equal(t, tc.expectedArgs, args)
			assert.NotContains(t, out.String(), "unknown environment")
		})
	}
}

func TestMonitorRequiresProjectDir(t *testing.T) {
	executable, _ := fakePio(t, 0)
	tool, err := New(&Config{Executable: executable})
	assert.Nil(t, err)
	assert.Equal(t, ErrorEmptyProjectDir, tool.Monitor("", DefaultEnvironment))
}
