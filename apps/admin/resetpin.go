package main

import (
	"fmt"

	"github.com/trezcool/shule/core/roster"
)

func (cli *commandLine) resetPIN(id, pin string) error {
	s, err := cli.staffRepo.GetStaffByID(id)
	if err != nil {
		return err
	}

	if pin == "" {
		pin = roster.DefaultPIN
	}
	if len(pin) != 4 {
		return fmt.Errorf("PIN must be 4 digits")
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return fmt.Errorf("PIN must be 4 digits")
		}
	}

	s.PIN = pin
	if _, err := cli.staffRepo.UpdateStaff(s); err != nil {
		return err
	}
	return nil
}
