//go:build darwin

package fs

import (
	"os"
	"syscall"
	"time"
)

// CreationTime returns the file birth time.
func CreationTime(info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec)
}
