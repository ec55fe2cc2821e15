package gateway

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imbecility/ytmp3dl/pkg/downloader"
	"github.com/imbecility/ytmp3dl/pkg/platform"
)

type fakePlatform struct {
	dir       string
	dirErr    error
	locations int
}

func (f *fakePlatform) Name() string { return "fake" }

func (f *fakePlatform) DefaultDownloadDir() (string, error) { return f.dir, f.dirErr }

func (f *fakePlatform) LocateTranscoder(context.Context, string) (string, error) {
	f.locations++
	return "/usr/bin/ffmpeg", nil
}

// fakeEngine writes <dir>/<last url segment>.mp3 and reports it as .webm.
type fakeEngine struct {
	downloads int
	queries   int
	skip      map[string]bool
	err       error
}

func (f *fakeEngine) name(opts downloader.Options, url string) string {
	return filepath.Join(filepath.Dir(opts.Output), filepath.Base(url))
}

func (f *fakeEngine) Download(_ context.Context, opts downloader.Options, urls []string) error {
	f.downloads++
	if f.err != nil {
		return f.err
	}
	for _, u := range urls {
		if f.skip[u] {
			continue
		}
		ext := ".mp3"
		if opts.RemuxVideo != "" {
			ext = ".mp4"
		}
		if err := os.WriteFile(f.name(opts, u)+ext, []byte("media"), 0644); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeEngine) Filename(_ context.Context, opts downloader.Options, url string) (string, error) {
	f.queries++
	return f.name(opts, url) + ".webm", nil
}

func newTestService(t *testing.T, p *fakePlatform, eng *fakeEngine, stdin string) (*Service, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	svc, err := New(Config{
		BaseDir:     t.TempDir(),
		Stdin:       strings.NewReader(stdin),
		Stdout:      &out,
		Platform:    p,
		Engine:      eng,
		EchoPrompts: true,
	})
	require.NoError(t, err)
	return svc, &out
}

func TestRunShowPath(t *testing.T) {
	p := &fakePlatform{dir: "/home/alice/Downloads"}
	eng := &fakeEngine{}
	svc, out := newTestService(t, p, eng, "")

	require.NoError(t, svc.Run(context.Background(), []string{"-s", "https://example/a"}))
	assert.Equal(t, "/home/alice/Downloads\n", out.String())
	assert.Zero(t, eng.downloads)
	assert.Zero(t, p.locations)
}

func TestRunArgumentModeRefreshesTimes(t *testing.T) {
	outDir := t.TempDir()
	p := &fakePlatform{dir: "/unused"}
	eng := &fakeEngine{}
	svc, _ := newTestService(t, p, eng, "")

	stamp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return stamp }

	require.NoError(t, svc.Run(context.Background(), []string{"https://example/a", "https://example/b", "-p", outDir}))
	assert.Equal(t, 1, eng.downloads)
	assert.Equal(t, 2, eng.queries)
	assert.Equal(t, 1, p.locations)

	for _, name := range []string{"a.mp3", "b.mp3"} {
		info, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err)
		assert.True(t, info.ModTime().Equal(stamp), name)
	}
}

func TestRunTimestampFailureDoesNotAbort(t *testing.T) {
	outDir := t.TempDir()
	eng := &fakeEngine{skip: map[string]bool{"https://example/missing": true}}
	svc, _ := newTestService(t, &fakePlatform{dir: outDir}, eng, "")

	stamp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return stamp }

	err := svc.Run(context.Background(), []string{"https://example/missing", "https://example/ok"})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(outDir, "ok.mp3"))
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(stamp))
}

func TestRunInteractiveVideo(t *testing.T) {
	outDir := t.TempDir()
	p := &fakePlatform{dir: outDir}
	eng := &fakeEngine{}
	svc, out := newTestService(t, p, eng, "https://example/a, https://example/b\ny\ny\n")

	require.NoError(t, svc.Run(context.Background(), nil))
	assert.Contains(t, out.String(), "Enter URL(s):")
	assert.Zero(t, p.locations)
	assert.FileExists(t, filepath.Join(outDir, "a.mp4"))
	assert.FileExists(t, filepath.Join(outDir, "b.mp4"))
}

func TestRunDownloadFailure(t *testing.T) {
	eng := &fakeEngine{err: errors.New("unsupported URL")}
	svc, _ := newTestService(t, &fakePlatform{dir: t.TempDir()}, eng, "")

	err := svc.Run(context.Background(), []string{"nope"})
	assert.ErrorIs(t, err, downloader.ErrDownload)
}

func TestRunPlatformFailure(t *testing.T) {
	eng := &fakeEngine{}
	svc, _ := newTestService(t, &fakePlatform{dirErr: platform.ErrPlatformAPI}, eng, "")

	err := svc.Run(context.Background(), []string{"-s"})
	assert.ErrorIs(t, err, platform.ErrPlatformAPI)
	assert.Zero(t, eng.downloads)
}

func TestRunHelp(t *testing.T) {
	eng := &fakeEngine{}
	svc, out := newTestService(t, &fakePlatform{dir: "/d"}, eng, "")

	require.NoError(t, svc.Run(context.Background(), []string{"--help"}))
	assert.Contains(t, out.String(), "Usage:")
	assert.Zero(t, eng.downloads)
}

func TestRunInteractiveWithoutEchoKeepsStdoutClean(t *testing.T) {
	outDir := t.TempDir()
	eng := &fakeEngine{}
	var out bytes.Buffer
	svc, err := New(Config{
		BaseDir:  t.TempDir(),
		Stdin:    strings.NewReader("https://example/a\nn\ny\n"),
		Stdout:   &out,
		Platform: &fakePlatform{dir: outDir},
		Engine:   eng,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Run(context.Background(), nil))
	assert.NotContains(t, out.String(), "Enter URL(s):")
	assert.NotContains(t, out.String(), "Download as mp4")
	assert.Equal(t, 1, eng.downloads)
	assert.FileExists(t, filepath.Join(outDir, "a.mp3"))
}
