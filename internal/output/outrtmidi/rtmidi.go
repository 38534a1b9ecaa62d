//go:build cgo

package outrtmidi

import (
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register the rtmidi driver
)
