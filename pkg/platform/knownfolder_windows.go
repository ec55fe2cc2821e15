//go:build windows

package platform

import "golang.org/x/sys/windows"

// downloadsKnownFolder asks the shell for FOLDERID_Downloads
// ({374DE290-123F-4565-9164-39C4925E467B}).
func downloadsKnownFolder() (string, error) {
	return windows.KnownFolderPath(windows.FOLDERID_Downloads, 0)
}
