//go:generate mockgen -destination=mocks/mocks.go -package=mocks . PortLister
package devicediscovery

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gitlab.com/usli/pio-uploader/internal/device"
	"go.bug.st/serial/enumerator"
)

var (
	ErrNoPortsFound  = errors.New("no usb serial ports detected")
	ErrMultiplePorts = errors.New("multiple usb serial ports detected")
	ErrGetPorts      = errors.New("unable to list serial ports")
)

type PortLister interface {
	ListPorts() ([]*device.Port, error)
}

// Enumerator lists ports through go.bug.st/serial/enumerator.
type Enumerator struct{}

func (Enumerator) ListPorts() ([]*device.Port, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	var ports []*device.Port
	for _, d := range details {
		ports = append(ports, device.New(d.Name, d.IsUSB, d.VID, d.PID, d.SerialNumber))
	}
	return ports, nil
}

type Discovery struct {
	lister PortLister
	logger *logrus.Logger
}

func New(lister PortLister, logger *logrus.Logger) *Discovery {
	return &Discovery{
		lister: lister,
		logger: logger,
	}
}

// DiscoverPort picks the single usb serial port attached. When several are
// present, a lone port from a known board vendor wins.
func (d *Discovery) DiscoverPort() (*device.Port, error) {
	d.logger.Debug("discovering serial ports")
	ports, err := d.lister.ListPorts()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGetPorts, err)
	}

	var usbPorts, knownPorts []*device.Port
	for _, p := range ports {
		if !p.IsUSB {
			d.logger.Debugf("skipping non-usb port %v", p.Name)
			continue
		}
		d.logger.Debugf("found %v", p)
		usbPorts = append(usbPorts, p)
		if p.Vendor() != "" {
			knownPorts = append(knownPorts, p)
		}
	}

	switch {
	case len(usbPorts) == 0:
		return nil, ErrNoPortsFound
	case len(usbPorts) == 1:
		return usbPorts[0], nil
	case len(knownPorts) == 1:
		d.logger.Debugf("choosing %v out of %v usb ports", knownPorts[0], len(usbPorts))
		return knownPorts[0], nil
	}
	return nil, fmt.Errorf("%w: %v", ErrMultiplePorts, names(usbPorts))
}

func names(ports []*device.Port) []string {
	var n []string
	for _, p := range ports {
		n = append(n, p.Name)
	}
	return n
}
