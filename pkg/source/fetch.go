package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"
	"golang.org/x/sync/errgroup"
)

// A Fetcher retrieves release tarballs from a GNU mirror. The zero value
// fetches from DefaultMirror over HTTPS.
type Fetcher struct {
	// Mirror is the archive host, without a scheme.
	Mirror string
	// Scheme selects the transport: "https" (default) or "ftp".
	Scheme string
	// RoundTripper is, if defined, a custom roundtripper used by the
	// HTTPS transport.
	RoundTripper http.RoundTripper
	// Timeout is the request timeout. Defaults to no timeout.
	Timeout time.Duration

	client     *http.Client
	clientInit sync.Once
}

func (f *Fetcher) mirror() string {
	if f.Mirror == "" {
		return DefaultMirror
	}
	return f.Mirror
}

func (f *Fetcher) getClient() *http.Client {
	f.clientInit.Do(func() {
		f.client = &http.Client{
			Transport: f.RoundTripper,
			Timeout:   f.Timeout,
		}
	})

	return f.client
}

// Fetch retrieves the tool's tarball into destDir. A tarball that is
// already present is left untouched and reported with downloaded == false.
// The file is downloaded under a temporary name and renamed into place
// only once the transfer completed, so a partial download is never
// mistaken for a finished one.
func (f *Fetcher) Fetch(ctx context.Context, tool Tool, destDir string) (downloaded bool, err error) {
	dest := filepath.Join(destDir, tool.Tarball)

	if _, err := os.Stat(dest); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("source: failed to stat %q: %w", dest, err)
	}

	tmp := dest + ".partial"
	out, err := os.Create(tmp)
	if err != nil {
		return false, fmt.Errorf("source: failed to create %q: %w", tmp, err)
	}

	switch f.Scheme {
	case "", "https":
		err = f.fetchHTTP(ctx, tool, out)
	case "ftp":
		err = f.fetchFTP(ctx, tool, out)
	default:
		err = fmt.Errorf("source: unsupported scheme %q", f.Scheme)
	}

	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return false, fmt.Errorf("source: download of %s failed: %w", tool.Tarball, err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return false, fmt.Errorf("source: failed to finalize %q: %w", dest, err)
	}

	return true, nil
}

func (f *Fetcher) fetchHTTP(ctx context.Context, tool Tool, out io.Writer) error {
	url := "https://" + f.mirror() + path.Join(tool.RemoteDir, tool.Tarball)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	res, err := f.getClient().Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: %s", url, http.StatusText(res.StatusCode))
	}

	_, err = io.Copy(out, res.Body)
	return err
}

func (f *Fetcher) fetchFTP(ctx context.Context, tool Tool, out io.Writer) error {
	opts := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if f.Timeout > 0 {
		opts = append(opts, ftp.DialWithTimeout(f.Timeout))
	}

	conn, err := ftp.Dial(f.mirror()+":21", opts...)
	if err != nil {
		return err
	}
	defer conn.Quit()

	if err := conn.Login("anonymous", "anonymous"); err != nil {
		return err
	}

	res, err := conn.Retr(path.Join(tool.RemoteDir, tool.Tarball))
	if err != nil {
		return err
	}
	defer res.Close()

	_, err = io.Copy(out, res)
	return err
}

// EnsureAll makes every tool's tarball available and trustworthy in dir.
// Missing tarballs are downloaded concurrently and verified against their
// checksums; tarballs already on disk are skipped entirely. Any failure
// cancels the remaining transfers and aborts. The optional report callback
// is invoked once per tool, never concurrently.
func EnsureAll(ctx context.Context, f *Fetcher, tools []Tool, dir string, report func(tool Tool, downloaded bool, size int64)) error {
	g, gctx := errgroup.WithContext(ctx)

	var reportMu sync.Mutex

	for _, tool := range tools {
		tool := tool

		g.Go(func() error {
			downloaded, err := f.Fetch(gctx, tool, dir)
			if err != nil {
				return err
			}

			tarball := filepath.Join(dir, tool.Tarball)
			if downloaded {
				if err := f.verifyAfterDownload(tarball, tool); err != nil {
					return err
				}
			}

			if report != nil {
				info, err := os.Stat(tarball)
				if err != nil {
					return fmt.Errorf("source: failed to stat %q: %w", tarball, err)
				}

				reportMu.Lock()
				report(tool, downloaded, info.Size())
				reportMu.Unlock()
			}

			return nil
		})
	}

	return g.Wait()
}

func (f *Fetcher) verifyAfterDownload(tarball string, tool Tool) error {
	if err := Verify(tarball, tool.Checksum); err != nil {
		// Keep nothing that failed verification.
		os.Remove(tarball)
		return err
	}
	return nil
}
