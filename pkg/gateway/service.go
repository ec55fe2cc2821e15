package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/imbecility/ytmp3dl/pkg/cli"
	"github.com/imbecility/ytmp3dl/pkg/downloader"
	"github.com/imbecility/ytmp3dl/pkg/logger"
	"github.com/imbecility/ytmp3dl/pkg/models"
	"github.com/imbecility/ytmp3dl/pkg/platform"
)

type Service struct {
	Platform    platform.Platform
	Downloader  *downloader.Downloader
	Stdin       io.Reader
	Stdout      io.Writer
	EchoPrompts bool

	// now is overridden in tests.
	now func() time.Time
}

func NewService(p platform.Platform, dl *downloader.Downloader, stdin io.Reader, stdout io.Writer, echoPrompts bool) *Service {
	return &Service{
		Platform:    p,
		Downloader:  dl,
		Stdin:       stdin,
		Stdout:      stdout,
		EchoPrompts: echoPrompts,
		now:         time.Now,
	}
}

// Run executes one invocation. argv excludes the program name; an empty argv
// switches to interactive prompts.
func (s *Service) Run(ctx context.Context, argv []string) error {
	defaultDir, err := s.Platform.DefaultDownloadDir()
	if err != nil {
		return err
	}

	req, done, err := s.request(argv, defaultDir)
	if err != nil || done {
		return err
	}

	res, err := s.Downloader.Download(ctx, req)
	if err != nil {
		return err
	}

	s.refreshTimes(res.Paths)
	slog.Info("Done", "files", len(res.Paths), "dir", req.Dir)
	return nil
}

// request builds the invocation; done is true when nothing is left to do.
func (s *Service) request(argv []string, defaultDir string) (models.InvocationRequest, bool, error) {
	if len(argv) == 0 {
		out := s.Stdout
		if !s.EchoPrompts {
			out = io.Discard
		}
		req, err := cli.NewPrompter(s.Stdin, out).Ask(defaultDir)
		return req, false, err
	}

	args, err := cli.ParseArgs(argv, s.Stdout)
	if err != nil {
		if errors.Is(err, cli.ErrHelp) {
			return models.InvocationRequest{}, true, nil
		}
		return models.InvocationRequest{}, false, err
	}
	if args.Debug {
		logger.SetupGlobalTo(s.Stdout, true, false)
	}
	if args.ShowPath {
		_, err := fmt.Fprintln(s.Stdout, defaultDir)
		return models.InvocationRequest{}, true, err
	}
	return args.Request(defaultDir), false, nil
}

// refreshTimes touches every produced file; failures are only logged.
func (s *Service) refreshTimes(paths []string) {
	now := s.now()
	for _, path := range paths {
		if err := os.Chtimes(path, now, now); err != nil {
			slog.Warn("Could not fix modified time", "path", path, "err", err)
		}
	}
}
