package downloader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/imbecility/ytmp3dl/pkg/ffmpeg"
	"github.com/imbecility/ytmp3dl/pkg/models"
)

// ErrDownload wraps every failure reported by the download engine.
var ErrDownload = errors.New("download failed")

const (
	audioFormatSelector = "bestaudio/best"
	videoFormatSelector = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	audioCodec          = "mp3"
	audioQuality        = "192K"
	videoContainer      = "mp4"
	outputTemplate      = "%(title)s.%(ext)s"
)

// placeholderExts are containers the engine reports before the video remux
// renames the artifact.
var placeholderExts = []string{".webm", ".mkv", ".m4a", ".opus"}

// Options configures one engine invocation. ExtractAudio and RemuxVideo are
// mutually exclusive.
type Options struct {
	Format         string
	ExtractAudio   bool
	AudioFormat    string
	AudioQuality   string
	RemuxVideo     string
	Output         string
	FFmpegLocation string
}

// Engine is the external download capability.
type Engine interface {
	// Download fetches and post-processes every URL in one call.
	Download(ctx context.Context, opts Options, urls []string) error
	// Filename reports the local name opts would give url, without downloading.
	Filename(ctx context.Context, opts Options, url string) (string, error)
}

// TranscoderLocator finds ffmpeg for the audio pipeline.
type TranscoderLocator interface {
	LocateTranscoder(ctx context.Context, baseDir string) (string, error)
}

// Pipeline builds the engine options for format.
func Pipeline(format models.Format, targetDir string, ffmpegLocation string) Options {
	opts := Options{
		Output:         filepath.Join(targetDir, outputTemplate),
		FFmpegLocation: ffmpegLocation,
	}
	if format == models.FormatMP4 {
		opts.Format = videoFormatSelector
		opts.RemuxVideo = videoContainer
		return opts
	}
	opts.Format = audioFormatSelector
	opts.ExtractAudio = true
	opts.AudioFormat = audioCodec
	opts.AudioQuality = audioQuality
	return opts
}

// FixExtension replaces the reported extension with the final one. Audio is
// always extracted to mp3, so any other extension is swapped. Video names only
// change when they carry a placeholder container.
func FixExtension(name string, format models.Format) string {
	if format == models.FormatMP3 {
		if strings.HasSuffix(name, format.Ext()) {
			return name
		}
		return strings.TrimSuffix(name, filepath.Ext(name)) + format.Ext()
	}
	for _, ext := range placeholderExts {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext) + format.Ext()
		}
	}
	return name
}

type Downloader struct {
	Engine     Engine
	Transcoder TranscoderLocator
	// BaseDir holds the provisioned ffmpeg folder.
	BaseDir string
}

// Download runs the pipeline for req and returns one path per URL, in order.
// Files written before a failure are left on disk.
func (d *Downloader) Download(ctx context.Context, req models.InvocationRequest) (models.DownloadResult, error) {
	if len(req.URLs) == 0 {
		slog.Info("No URLs to download")
		return models.DownloadResult{}, nil
	}

	ffmpegLocation, err := d.ffmpegLocation(ctx, req.Format)
	if err != nil {
		return models.DownloadResult{}, err
	}
	opts := Pipeline(req.Format, req.Dir, ffmpegLocation)

	slog.Info("Starting download", "urls", len(req.URLs), "format", req.Format.String(), "dir", req.Dir)
	if err := d.Engine.Download(ctx, opts, req.URLs); err != nil {
		return models.DownloadResult{}, fmt.Errorf("%w: %w", ErrDownload, err)
	}

	paths := make([]string, 0, len(req.URLs))
	for _, url := range req.URLs {
		name, err := d.Engine.Filename(ctx, opts, url)
		if err != nil {
			return models.DownloadResult{}, fmt.Errorf("%w: resolve filename of %s: %w", ErrDownload, url, err)
		}
		fixed := FixExtension(name, req.Format)
		slog.Debug("Resolved output file", "url", url, "reported", name, "path", fixed)
		paths = append(paths, fixed)
	}

	return models.DownloadResult{Paths: paths}, nil
}

func (d *Downloader) ffmpegLocation(ctx context.Context, format models.Format) (string, error) {
	if format == models.FormatMP4 {
		return ffmpeg.Dir(d.BaseDir), nil
	}
	if d.Transcoder == nil {
		return "", errors.New("no transcoder locator configured")
	}
	return d.Transcoder.LocateTranscoder(ctx, d.BaseDir)
}
