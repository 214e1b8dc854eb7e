//go:build windows

package cli

import (
	"errors"
	"os"

	"golang.org/x/sys/windows"
)

func readPasswordNoEcho(stdin *os.File) ([]byte, error) {
	if stdin == nil {
		return nil, errors.New("stdin unavailable")
	}

	handle := windows.Handle(stdin.Fd())
	var savedMode uint32
	if err := windows.GetConsoleMode(handle, &savedMode); err != nil {
		return nil, err
	}
	if err := windows.SetConsoleMode(handle, savedMode&^windows.ENABLE_ECHO_INPUT); err != nil {
		return nil, err
	}
	defer func() {
		_ = windows.SetConsoleMode(handle, savedMode)
	}()

	return readLine(stdin)
}
