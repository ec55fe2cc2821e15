package downloader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lrstanley/go-ytdlp"
)

// YTDLP drives the yt-dlp executable, installing it on first use when it is
// not already available.
type YTDLP struct {
	installed bool
}

func (y *YTDLP) ensureInstalled(ctx context.Context) error {
	if y.installed {
		return nil
	}
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return fmt.Errorf("install yt-dlp: %w", err)
	}
	slog.Debug("yt-dlp ready", "executable", resolved.Executable, "version", resolved.Version, "downloaded", resolved.Downloaded)
	y.installed = true
	return nil
}

func (y *YTDLP) command(opts Options) *ytdlp.Command {
	dl := ytdlp.New().
		Format(opts.Format).
		Output(opts.Output)

	if opts.FFmpegLocation != "" {
		dl = dl.FFmpegLocation(opts.FFmpegLocation)
	}
	if opts.ExtractAudio {
		dl = dl.ExtractAudio().
			AudioFormat(opts.AudioFormat).
			AudioQuality(opts.AudioQuality)
	}
	if opts.RemuxVideo != "" {
		dl = dl.RemuxVideo(opts.RemuxVideo)
	}
	return dl
}

func (y *YTDLP) Download(ctx context.Context, opts Options, urls []string) error {
	if err := y.ensureInstalled(ctx); err != nil {
		return err
	}

	res, err := y.command(opts).Run(ctx, urls...)
	if err != nil {
		if res != nil && res.Stderr != "" {
			slog.Debug("yt-dlp stderr", "output", res.Stderr)
		}
		return err
	}
	return nil
}

func (y *YTDLP) Filename(ctx context.Context, opts Options, url string) (string, error) {
	if err := y.ensureInstalled(ctx); err != nil {
		return "", err
	}

	res, err := y.command(opts).
		SkipDownload().
		DumpJSON().
		Run(ctx, url)
	if err != nil {
		return "", err
	}

	info, err := res.GetExtractedInfo()
	if err != nil {
		return "", fmt.Errorf("parse metadata: %w", err)
	}
	return filenameOf(info)
}

func filenameOf(info []*ytdlp.ExtractedInfo) (string, error) {
	if len(info) == 0 || info[0].Filename == nil || *info[0].Filename == "" {
		return "", errors.New("metadata has no filename")
	}
	return *info[0].Filename, nil
}
