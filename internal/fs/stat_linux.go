//go:build linux

package fs

import (
	"os"
	"syscall"
	"time"
)

// CreationTime returns the inode change time (ctime). Linux exposes no portable
// birth time through stat(2), so this moves whenever metadata changes.
func CreationTime(info os.FileInfo) time.Time {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime()
	}
	return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec))
}
