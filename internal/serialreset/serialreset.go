//go:generate mockgen -destination=mocks/mocks.go -package=mocks . Opener
package serialreset

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// DefaultBaudRate is the rate Arduino bootloaders treat as a reset request.
const DefaultBaudRate = 1200

var (
	ErrEmptyPort   = errors.New("serial port path is required")
	ErrResetFailed = errors.New("failed to reset board")
)

type Opener interface {
	Open(port string, baudRate int) (io.Closer, error)
}

// SerialOpener opens real ports through go.bug.st/serial.
type SerialOpener struct{}

func (SerialOpener) Open(port string, baudRate int) (io.Closer, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open port %s: %w", port, err)
	}
	return p, nil
}

type Config struct {
	Opener Opener
	Logger *logrus.Logger
}

type Resetter struct {
	opener Opener
	logger *logrus.Logger
}

func New(config *Config) *Resetter {
	opener := config.Opener
	if opener == nil {
		opener = SerialOpener{}
	}
	return &Resetter{
		opener: opener,
		logger: config.Logger,
	}
}

// Reset opens the port at baudRate and closes it straight away. The handle
// never outlives the call.
func (r *Resetter) Reset(port string, baudRate int) error {
	if port == "" {
		return fmt.Errorf("%w: %v", ErrResetFailed, ErrEmptyPort)
	}
	logger := r.logger.WithFields(logrus.Fields{
		"port":     port,
		"baudRate": baudRate,
	})

	logger.Debug("opening serial port")
	p, err := r.opener.Open(port, baudRate)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResetFailed, err)
	}

	logger.Debug("closing serial port")
	err = p.Close()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrResetFailed, err)
	}
	return nil
}
