//go:build windows

package player

import (
	"errors"
	"os"
)

func suspendProcess(*os.Process) error  { return errors.New("not supported") }
func continueProcess(*os.Process) error { return errors.New("not supported") }

const signalsSupported = false
