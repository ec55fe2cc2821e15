package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"

	"github.com/imbecility/ytmp3dl/pkg/client"
)

// ErrProvisioning wraps every failure while fetching or unpacking a bundle.
var ErrProvisioning = errors.New("ffmpeg provisioning failed")

// Fetcher downloads a zip bundle and unpacks it in place.
type Fetcher struct {
	Client client.HTTPClient
}

// FetchAndUnpack fetches url into a temporary archive inside destDir, extracts
// every member into destDir and removes the archive.
func (f *Fetcher) FetchAndUnpack(ctx context.Context, url string, destDir string) error {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrProvisioning, destDir, err)
	}

	archivePath := filepath.Join(destDir, "ffmpeg-"+uuid.NewString()+".zip")
	defer func(path string) {
		if rmerr := os.Remove(path); rmerr != nil && !os.IsNotExist(rmerr) {
			slog.Warn("Failed to remove temporary archive", "path", path, "err", rmerr)
		}
	}(archivePath)

	slog.Info("Downloading ffmpeg bundle", "url", url)
	size, err := f.downloadFile(ctx, url, archivePath)
	if err != nil {
		return fmt.Errorf("%w: download %s: %w", ErrProvisioning, url, err)
	}
	slog.Debug("Bundle downloaded", "size", humanize.Bytes(uint64(size)), "path", archivePath)

	n, err := extractZip(archivePath, destDir)
	if err != nil {
		return fmt.Errorf("%w: extract %s: %w", ErrProvisioning, archivePath, err)
	}
	slog.Info("FFmpeg bundle unpacked", "dir", destDir, "files", n)

	return nil
}

func (f *Fetcher) downloadFile(ctx context.Context, url string, dest string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func(Body io.ReadCloser) {
		cerr := Body.Close()
		if cerr != nil {
			slog.Warn("Failed to close response body", "error", cerr)
		}
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("http status: %d", resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// extractZip unpacks archivePath into destDir and returns the number of files written.
func extractZip(archivePath string, destDir string) (int, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, err
	}
	defer func(r *zip.ReadCloser) {
		if cerr := r.Close(); cerr != nil {
			slog.Warn("Failed to close archive", "error", cerr)
		}
	}(reader)

	written := 0
	for _, file := range reader.File {
		cleanName := filepath.Clean(filepath.FromSlash(file.Name))
		if cleanName == "." {
			continue
		}
		target := filepath.Join(destDir, cleanName)
		if !withinDir(destDir, target) {
			return written, fmt.Errorf("zip contains invalid path: %s", file.Name)
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return written, err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return written, err
		}
		if err := writeMember(file, target); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func writeMember(file *zip.File, target string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer func(src io.ReadCloser) {
		if cerr := src.Close(); cerr != nil {
			slog.Warn("Failed to close archive member", "name", file.Name, "error", cerr)
		}
	}(src)

	mode := file.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}

	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	return err
}

func withinDir(base string, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
