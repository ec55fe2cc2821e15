// Package platform hides the per-OS parts of the tool: where downloads go by
// default and how a missing ffmpeg is found or provisioned.
package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/imbecility/ytmp3dl/pkg/ffmpeg"
)

var (
	// ErrPlatformAPI is returned when the OS folder lookup fails.
	ErrPlatformAPI = errors.New("platform folder lookup failed")
	// ErrTranscoderMissing is returned when ffmpeg is absent and cannot be provisioned.
	ErrTranscoderMissing = errors.New("ffmpeg not found")
)

const (
	OSWindows = "windows"

	transcoderName = "ffmpeg"
)

// Platform is selected once at start-up.
type Platform interface {
	Name() string
	DefaultDownloadDir() (string, error)
	LocateTranscoder(ctx context.Context, baseDir string) (string, error)
}

// BundleFetcher provisions a transcoder bundle into destDir.
type BundleFetcher interface {
	FetchAndUnpack(ctx context.Context, url string, destDir string) error
}

// Detect returns the variant for the running OS.
func Detect(fetcher BundleFetcher) Platform {
	return ForOS(runtime.GOOS, fetcher)
}

// ForOS returns the Windows variant for "windows" and the POSIX one otherwise.
func ForOS(goos string, fetcher BundleFetcher) Platform {
	if goos == OSWindows {
		return &Windows{Fetcher: fetcher}
	}
	return &Posix{}
}

// Posix resolves ffmpeg from PATH and expects it to be installed beforehand.
type Posix struct {
	// LookPath and HomeDir default to exec.LookPath and os.UserHomeDir.
	LookPath func(file string) (string, error)
	HomeDir  func() (string, error)
}

func (p *Posix) Name() string { return "posix" }

// DefaultDownloadDir returns <home>/Downloads.
func (p *Posix) DefaultDownloadDir() (string, error) {
	homeDir := p.HomeDir
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}
	home, err := homeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, "Downloads"), nil
}

func (p *Posix) LocateTranscoder(_ context.Context, baseDir string) (string, error) {
	if path, ok := ffmpeg.BundledBinary(baseDir); ok {
		slog.Debug("Using bundled ffmpeg", "path", path)
		return path, nil
	}

	lookPath := p.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	path, err := lookPath(transcoderName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranscoderMissing, err)
	}
	path = strings.TrimSpace(path)
	if abs, aerr := filepath.Abs(path); aerr == nil {
		path = abs
	}
	slog.Debug("Using ffmpeg from PATH", "path", path)
	return path, nil
}

// Windows resolves the Downloads known folder and provisions ffmpeg on demand.
type Windows struct {
	Fetcher BundleFetcher
	// KnownFolder defaults to the shell known-folder lookup for FOLDERID_Downloads.
	KnownFolder func() (string, error)
}

func (w *Windows) Name() string { return OSWindows }

func (w *Windows) DefaultDownloadDir() (string, error) {
	lookup := w.KnownFolder
	if lookup == nil {
		lookup = downloadsKnownFolder
	}
	dir, err := lookup()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPlatformAPI, err)
	}
	if dir == "" {
		return "", fmt.Errorf("%w: empty path for Downloads", ErrPlatformAPI)
	}
	return dir, nil
}

// LocateTranscoder provisions the bundle when it is missing and checks the
// bundle location once more before giving up.
func (w *Windows) LocateTranscoder(ctx context.Context, baseDir string) (string, error) {
	if path, ok := ffmpeg.BundledBinary(baseDir); ok {
		slog.Debug("Using bundled ffmpeg", "path", path)
		return path, nil
	}
	if w.Fetcher == nil {
		return "", fmt.Errorf("%w: no bundle fetcher configured", ErrTranscoderMissing)
	}

	slog.Info("FFmpeg not found. Now downloading...", "url", ffmpeg.BundleURL)
	if err := w.Fetcher.FetchAndUnpack(ctx, ffmpeg.BundleURL, ffmpeg.Dir(baseDir)); err != nil {
		return "", err
	}

	if path, ok := ffmpeg.BundledBinary(baseDir); ok {
		slog.Info("FFmpeg installed successfully", "path", path)
		return path, nil
	}
	return "", fmt.Errorf("%w: bundle from %s has no ffmpeg.exe at the expected location", ErrTranscoderMissing, ffmpeg.BundleURL)
}

// ExecutableDir returns the folder holding the running binary. Binaries built
// by `go run` live in the build cache, so the working directory is used instead.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	if strings.HasPrefix(exe, filepath.Join(os.TempDir(), "go-build")) {
		return os.Getwd()
	}
	return filepath.Dir(exe), nil
}
