//go:build !windows

package platform

import (
	"fmt"
	"runtime"
)

func downloadsKnownFolder() (string, error) {
	return "", fmt.Errorf("known folders are not available on %s", runtime.GOOS)
}
