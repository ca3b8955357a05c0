package mirror_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"crossbuild/pkg/mirror"
)

const gdbIndex = `<!DOCTYPE html>
<html><head><title>Index of /gnu/gdb</title></head><body>
<h1>Index of /gnu/gdb</h1>
<table>
<tr><td><a href="/gnu/">Parent Directory</a></td></tr>
<tr><td><a href="gdb-13.2.tar.gz">gdb-13.2.tar.gz</a></td><td>38M</td></tr>
<tr><td><a href="gdb-13.2.tar.xz">gdb-13.2.tar.xz</a></td><td>23M</td></tr>
<tr><td><a href="gdb-14.2.tar.xz">gdb-14.2.tar.xz</a></td><td>23M</td></tr>
<tr><td><a href="gdb-14.2.tar.xz.sig">gdb-14.2.tar.xz.sig</a></td><td>833</td></tr>
</table>
</body></html>`

const gccIndex = `<!DOCTYPE html>
<html><body>
<a href="gcc-13.3.0/">gcc-13.3.0/</a>
<a href="gcc-14.1.0/">gcc-14.1.0/</a>
<a href="infrastructure/">infrastructure/</a>
</body></html>`

type transport struct {
	baseURL *url.URL
	rt      http.RoundTripper
}

var _ http.RoundTripper = (*transport)(nil)

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = t.baseURL.Scheme
	req.URL.Host = t.baseURL.Host
	return t.rt.RoundTrip(req)
}

func newClient(tb testing.TB, pages map[string]string) *mirror.Client {
	tb.Helper()

	mux := http.NewServeMux()
	for p, page := range pages {
		page := page
		mux.HandleFunc(p, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			io.WriteString(w, page)
		})
	}

	server := httptest.NewServer(mux)
	tb.Cleanup(server.Close)

	baseURL, err := url.Parse(server.URL)
	require.NoError(tb, err)

	return &mirror.Client{
		RoundTripper: &transport{baseURL: baseURL, rt: server.Client().Transport},
	}
}

func TestClient_Releases(t *testing.T) {
	client := newClient(t, map[string]string{"/gnu/gdb/": gdbIndex})

	releases, err := client.Releases(context.Background(), "gdb")
	require.NoError(t, err)

	require.Equal(t, []mirror.Release{
		{Version: "14.2", Tarball: "gdb-14.2.tar.xz"},
		{Version: "13.2", Tarball: "gdb-13.2.tar.xz"},
	}, releases)
}

func TestClient_ReleasesNestedDirectories(t *testing.T) {
	client := newClient(t, map[string]string{"/gnu/gcc/": gccIndex})

	releases, err := client.Releases(context.Background(), "gcc")
	require.NoError(t, err)

	require.Equal(t, []mirror.Release{
		{Version: "14.1.0"},
		{Version: "13.3.0"},
	}, releases)
}

func TestClient_ReleasesSuffixedVersions(t *testing.T) {
	// binutils 2.9.1 era releases carried letter suffixes.
	const index = `<html><body>
<a href="binutils-2.9.tar.xz">binutils-2.9.tar.xz</a>
<a href="binutils-2.10a.tar.xz">binutils-2.10a.tar.xz</a>
<a href="binutils-2.30.tar.xz">binutils-2.30.tar.xz</a>
</body></html>`

	client := newClient(t, map[string]string{"/gnu/binutils/": index})

	releases, err := client.Releases(context.Background(), "binutils")
	require.NoError(t, err)

	require.Equal(t, []mirror.Release{
		{Version: "2.30", Tarball: "binutils-2.30.tar.xz"},
		{Version: "2.10a", Tarball: "binutils-2.10a.tar.xz"},
		{Version: "2.9", Tarball: "binutils-2.9.tar.xz"},
	}, releases)
}

func TestClient_ReleasesNotFound(t *testing.T) {
	client := newClient(t, nil)

	_, err := client.Releases(context.Background(), "gdb")
	require.Error(t, err)
}
