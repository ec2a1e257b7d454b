package zcore

import "fmt"

func errInvalidAddress(address uint32) error {
	return fmt.Errorf("invalid address 0x%x", address)
}

func errIllegalAccess(address uint32) error {
	return fmt.Errorf("illegal write to static/high memory at 0x%x", address)
}

func errInvalidFile(msg string) error {
	return fmt.Errorf("invalid file: %s", msg)
}
