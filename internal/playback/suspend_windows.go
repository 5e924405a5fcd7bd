//go:build windows

package playback

import (
	"errors"
	"os"
)

var errNoJobControl = errors.New("pause/resume not supported on windows")

func suspendProcess(*os.Process) error {
	return errNoJobControl
}

func resumeProcess(*os.Process) error {
	return errNoJobControl
}
