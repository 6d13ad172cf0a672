//go:build windows

package fs

import (
	"os"
	"syscall"
	"time"
)

// CreationTime returns the NTFS creation time.
func CreationTime(info os.FileInfo) time.Time {
	d, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(0, d.CreationTime.Nanoseconds())
}
