package device

import (
	"fmt"
	"strings"
)

// DefaultPort is the USB serial adapter path of the payload's Nano on macOS.
const DefaultPort = "/dev/cu.usbserial-210"

// AutoPort asks for the port to be discovered instead.
const AutoPort = "auto"

type VendorID string

// KnownVendors maps USB vendor ids found on Arduino-compatible boards.
var KnownVendors = map[VendorID]string{
	"2341": "Arduino",
	"2a03": "Arduino.org",
	"1a86": "CH340",
	"0403": "FTDI",
	"10c4": "Silicon Labs CP210x",
}

type Port struct {
	Name         string
	IsUSB        bool
	VID          VendorID
	PID          string
	SerialNumber string
}

func New(name string, isUSB bool, vid, pid, serialNumber string) *Port {
	return &Port{
		Name:         name,
		IsUSB:        isUSB,
		VID:          VendorID(strings.ToLower(vid)),
		PID:          strings.ToLower(pid),
		SerialNumber: serialNumber,
	}
}

// Vendor returns the known vendor name for the port, or "" if unknown.
func (p *Port) Vendor() string {
	return KnownVendors[p.VID]
}

func (p *Port) String() string {
	if vendor := p.Vendor(); vendor != "" {
		return fmt.Sprintf("port=%v vendor=%v (%v:%v)", p.Name, vendor, p.VID, p.PID)
	}
	return fmt.Sprintf("port=%v (%v:%v)", p.Name, p.VID, p.PID)
}
