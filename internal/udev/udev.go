package udev

import (
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"gitlab.com/usli/pio-uploader/internal/device"
)

const (
	RulesFile = "98-pio-uploader.rules"
	RulesPath = "/etc/udev/rules.d/"
)

// Rules renders one tty rule per vendor, ordered by vendor id.
func Rules(vendors map[device.VendorID]string) string {
	ids := make([]string, 0, len(vendors))
	for id := range vendors {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, "# %v\nSUBSYSTEM==\"tty\", ATTRS{idVendor}==\"%v\", MODE=\"0666\"\n", vendors[device.VendorID(id)], id)
	}
	return b.String()
}

// Setup installs rules that give the current user access to usb serial
// adapters and reloads udev.
func Setup(logger *logrus.Logger, rules string) error {
	if _, err := os.Stat(RulesPath + RulesFile); err == nil {
		logger.Debugf("%v already installed", RulesPath+RulesFile)
		return nil
	}
	if _, err := os.Stat(RulesPath); os.IsNotExist(err) {
		logger.Debugf("running mkdir %v", RulesPath)
		err = exec.Command("sudo", "mkdir", "-p", RulesPath).Run()
		if err != nil {
			return err
		}
	}

	tmpDir, err := ioutil.TempDir("", "pio-uploader-udev")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)
	tmpRules := filepath.Join(tmpDir, RulesFile)
	err = ioutil.WriteFile(tmpRules, []byte(rules), 0644)
	if err != nil {
		return err
	}

	logger.Debugf("running cp %v %v", tmpRules, RulesPath)
	err = exec.Command("sudo", "cp", tmpRules, RulesPath).Run()
	if err != nil {
		return err
	}
	reload(logger)
	return nil
}

// Remove uninstalls the rules file if present.
func Remove(logger *logrus.Logger) {
	if _, err := os.Stat(RulesPath + RulesFile); os.IsNotExist(err) {
		return
	}
	err := exec.Command("sudo", "rm", RulesPath+RulesFile).Run()
	if err != nil {
		logger.Debugf("failed to remove %v: %v", RulesPath+RulesFile, err)
		return
	}
	reload(logger)
}

func reload(logger *logrus.Logger) {
	err := exec.Command("sudo", "udevadm", "control", "--reload-rules").Run()
	if err != nil {
		logger.Debugf("udevadm control --reload-rules failed: %v", err)
	}
	err = exec.Command("sudo", "udevadm", "trigger").Run()
	if err != nil {
		logger.Debugf("udevadm trigger failed: %v", err)
	}
}
