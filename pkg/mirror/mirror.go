/*
Package mirror queries a GNU archive mirror's HTTPS index pages for the
release tarballs published for a tool. It backs the "versions" command,
so a user can discover what upstream offers before pinning a release.
*/
package mirror

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/debug"
)

// A Release is one published upstream version of a tool.
type Release struct {
	// Version string, e.g. "14.1.0".
	Version string
	// Tarball is the xz release archive's file name, if the index lists
	// one directly (GCC nests its tarballs one directory deeper, in
	// which case Tarball is empty).
	Tarball string
}

// The Client scrapes a GNU mirror's index pages.
type Client struct {
	// Mirror is the archive host. Defaults to ftp.gnu.org.
	Mirror string
	// CacheDir specifies a location where GET requests the scraper makes
	// are cached as files. Caching is disabled if not provided.
	CacheDir string
	// Debugger is an optional debugger implementation used by the scraper.
	Debugger debug.Debugger
	// RoundTripper is, if defined, a custom roundtripper used by the scraper.
	RoundTripper http.RoundTripper
	// Timeout is the request timeout. Defaults to no timeout.
	Timeout time.Duration

	collector     *colly.Collector
	collectorInit sync.Once
}

func (c *Client) mirror() string {
	if c.Mirror == "" {
		return "ftp.gnu.org"
	}
	return c.Mirror
}

func (c *Client) getCollector(ctx context.Context) *colly.Collector {
	c.collectorInit.Do(func() {
		col := colly.NewCollector()
		col.AllowedDomains = []string{c.mirror(), "www." + c.mirror()}
		col.CacheDir = c.CacheDir
		col.AllowURLRevisit = true
		col.SetDebugger(c.Debugger)
		col.WithTransport(c.RoundTripper)
		col.SetRequestTimeout(c.Timeout)

		c.collector = col
	})

	col := c.collector.Clone()
	col.Context = ctx
	return col
}

// Releases lists the versions of tool published on the mirror, newest
// first. tool must be one of the GNU project directory names, e.g.
// "binutils", "gcc" or "gdb".
func (c *Client) Releases(ctx context.Context, tool string) ([]Release, error) {
	col := c.getCollector(ctx)

	tarballRe := regexp.MustCompile(`^` + regexp.QuoteMeta(tool) + `-([0-9][0-9a-z]*(?:\.[0-9a-z]+)*)\.tar\.xz$`)
	dirRe := regexp.MustCompile(`^` + regexp.QuoteMeta(tool) + `-([0-9][0-9.]*)$`)

	found := map[string]Release{}

	col.OnHTML(`a[href]`, func(h *colly.HTMLElement) {
		href := strings.TrimSuffix(h.Attr("href"), "/")
		name := path.Base(href)

		if m := tarballRe.FindStringSubmatch(name); m != nil {
			found[m[1]] = Release{Version: m[1], Tarball: name}
			return
		}
		if m := dirRe.FindStringSubmatch(name); m != nil {
			if _, ok := found[m[1]]; !ok {
				found[m[1]] = Release{Version: m[1]}
			}
		}
	})

	url := fmt.Sprintf("https://%s/gnu/%s/", c.mirror(), tool)
	if err := col.Visit(url); err != nil {
		return nil, fmt.Errorf("mirror: failed to list %s releases: %w", tool, err)
	}

	releases := make([]Release, 0, len(found))
	for _, r := range found {
		releases = append(releases, r)
	}
	sort.Slice(releases, func(i, j int) bool {
		return compareVersions(releases[i].Version, releases[j].Version) > 0
	})

	return releases, nil
}

// compareVersions orders dotted version strings by the numeric value of
// each component, then by any trailing suffix, so "2.10a" sorts above
// "2.9" rather than string-wise below it.
func compareVersions(a, b string) int {
	as, bs := strings.Split(a, "."), strings.Split(b, ".")

	for i := 0; i < len(as) && i < len(bs); i++ {
		an, asuffix := splitComponent(as[i])
		bn, bsuffix := splitComponent(bs[i])

		if an != bn {
			return an - bn
		}
		if cmp := strings.Compare(asuffix, bsuffix); cmp != 0 {
			return cmp
		}
	}

	return len(as) - len(bs)
}

// splitComponent splits a version component into its leading number and
// whatever follows it ("10a" yields 10, "a").
func splitComponent(s string) (int, string) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	n, _ := strconv.Atoi(s[:i])
	return n, s[i:]
}
