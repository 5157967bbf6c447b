package project

import (
	"bufio"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archiver/v3"
	"github.com/sirupsen/logrus"
)

const (
	DefaultPath = "."
	ConfigFile  = "platformio.ini"
)

var (
	ErrorValidation   = errors.New("failed to validate project")
	ErrorNoConfigFile = errors.New("unable to find " + ConfigFile)
)

type Config struct {
	// Path is a project directory or an archive of one.
	Path string
	// WorkingDirectory receives extracted archives.
	WorkingDirectory string
	Logger           *logrus.Logger
}

type Project struct {
	path             string
	workingDirectory string
	directory        string
	logger           *logrus.Logger
}

func New(config *Config) *Project {
	path := config.Path
	if path == "" {
		path = DefaultPath
	}
	return &Project{
		path:             path,
		workingDirectory: config.WorkingDirectory,
		logger:           config.Logger,
	}
}

// Resolve finds the directory holding platformio.ini, extracting the project
// first when Path is an archive.
func (p *Project) Resolve() (string, error) {
	info, err := os.Stat(p.path)
	if err != nil {
		return "", fmt.Errorf("unable to find project %v: %w", p.path, err)
	}

	root := p.path
	if !info.IsDir() {
		err = p.extract()
		if err != nil {
			return "", err
		}
		root = p.workingDirectory
	}

	dir, err := findConfig(root)
	if err != nil {
		return "", err
	}
	p.directory, err = filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	p.logger.WithField("directory", p.directory).Debug("resolved project directory")
	return p.directory, nil
}

// Directory is only set after a successful Resolve.
func (p *Project) Directory() string {
	return p.directory
}

// Validate checks the project declares the build environment.
func (p *Project) Validate(environment string) error {
	p.logger.WithField("environment", environment).Debug("validating project")
	if p.directory == "" {
		return fmt.Errorf("%w: project has not been resolved", ErrorValidation)
	}
	f, err := os.Open(filepath.Join(p.directory, ConfigFile))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrorValidation, err)
	}
	defer f.Close()

	section := "[env:" + environment + "]"
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == section {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrorValidation, err)
	}
	return fmt.Errorf("%w: %v does not declare %v", ErrorValidation, ConfigFile, section)
}

func (p *Project) extract() error {
	if p.workingDirectory == "" {
		return fmt.Errorf("%w: no directory to extract %v into", ErrorValidation, p.path)
	}
	p.logger.WithFields(logrus.Fields{
		"archive":          p.path,
		"workingDirectory": p.workingDirectory,
	}).Info("extracting project archive")
	return archiver.Unarchive(p.path, p.workingDirectory)
}

// findConfig looks in root and then one directory down, which is how most
// archives are laid out.
func findConfig(root string) (string, error) {
	if _, err := os.Stat(filepath.Join(root, ConfigFile)); err == nil {
		return root, nil
	}
	files, err := ioutil.ReadDir(root)
	if err != nil {
		return "", err
	}
	for _, file := range files {
		if !file.IsDir() {
			continue
		}
		candidate := filepath.Join(root, file.Name())
		if _, err := os.Stat(filepath.Join(candidate, ConfigFile)); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w in %v", ErrorNoConfigFile, root)
}
