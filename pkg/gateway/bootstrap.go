package gateway

import (
	"fmt"
	"io"
	"os"

	"github.com/imbecility/ytmp3dl/pkg/client"
	"github.com/imbecility/ytmp3dl/pkg/downloader"
	"github.com/imbecility/ytmp3dl/pkg/ffmpeg"
	"github.com/imbecility/ytmp3dl/pkg/platform"
)

// Config represents the configuration for service initialization.
type Config struct {
	// BaseDir holds the provisioned ffmpeg folder (defaults to the executable's folder).
	BaseDir string
	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	// Platform defaults to the variant for the running OS.
	Platform platform.Platform
	// Engine defaults to yt-dlp.
	Engine downloader.Engine
	// EchoPrompts writes interactive questions to Stdout.
	EchoPrompts bool
}

// New creates a ready-to-use Service instance with all necessary dependencies.
func New(cfg Config) (*Service, error) {
	if cfg.BaseDir == "" {
		dir, err := platform.ExecutableDir()
		if err != nil {
			return nil, fmt.Errorf("invalid base dir: %w", err)
		}
		cfg.BaseDir = dir
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Engine == nil {
		cfg.Engine = &downloader.YTDLP{}
	}

	if cfg.Platform == nil {
		httpClient, err := client.NewHttpClient()
		if err != nil {
			return nil, fmt.Errorf("failed to init http client: %w", err)
		}
		cfg.Platform = platform.Detect(&ffmpeg.Fetcher{Client: httpClient})
	}

	dl := &downloader.Downloader{
		Engine:     cfg.Engine,
		Transcoder: cfg.Platform,
		BaseDir:    cfg.BaseDir,
	}

	return NewService(cfg.Platform, dl, cfg.Stdin, cfg.Stdout, cfg.EchoPrompts), nil
}
