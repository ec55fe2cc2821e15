package ffmpeg

import (
	"os"
	"path/filepath"
)

const (
	// BundleURL is the Windows build unpacked into BundleDir when ffmpeg is missing.
	BundleURL = "https://github.com/BtbN/FFmpeg-Builds/releases/download/latest/ffmpeg-master-latest-win64-gpl.zip"

	// BundleDir is the provisioning folder, relative to the executable.
	BundleDir = "ffmpeg"

	// bundleBinary is where the zip above puts the executable, relative to BundleDir.
	bundleBinary = "ffmpeg-master-latest-win64-gpl/bin/ffmpeg.exe"
)

// Dir returns the provisioning folder under baseDir.
func Dir(baseDir string) string {
	return filepath.Join(baseDir, BundleDir)
}

// BundledBinary reports the previously provisioned executable under baseDir, if any.
// The file is not checked for being runnable.
func BundledBinary(baseDir string) (string, bool) {
	p := filepath.Join(Dir(baseDir), filepath.FromSlash(bundleBinary))
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}
