package udev

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/usli/pio-uploader/internal/device"
)

func TestRules(t *testing.T) {
	tests := map[string]struct {
		vendors  map[device.VendorID]string
		expected string
	}{
		"rules are ordered by vendor id": {
			vendors: map[device.VendorID]string{
				"2341": "Arduino",
				"1a86": "CH340",
			},
			expected: "# CH340\nSUBSYSTEM==\"tty\", ATTRS{idVendor}==\"1a86\", MODE=\"0666\"\n" +
				"# Arduino\nSUBSYSTEM==\"tty\", ATTRS{idVendor}==\"2341\", MODE=\"0666\"\n",
		},
		"no vendors": {
			vendors:  map[device.VendorID]string{},
			expected: "",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Rules(tc.vendors))
		})
	}
}

func TestRulesCoverKnownVendors(t *testing.T) {
	rules := Rules(device.KnownVendors)
	assert.Equal(t, len(device.KnownVendors), strings.Count(rules, "SUBSYSTEM=="))
	for id := range device.KnownVendors {
		assert.Contains(t, rules, "ATTRS{idVendor}==\""+string(id)+"\"")
	}
}
