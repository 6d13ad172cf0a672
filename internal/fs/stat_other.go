//go:build !linux && !darwin && !windows

package fs

import (
	"os"
	"time"
)

// CreationTime falls back to the modification time where no creation time is
// available.
func CreationTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
