package linkverify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const pageHTML = `<!doctype html>
<html><body>
<a href="/python-core/generators/">internal absolute</a>
<a href="../decorators/">internal relative</a>
<a href="https://learn.example.com/postgresql/">internal same host</a>
<a href="https://golang.org/doc/">external</a>
<a href="#anchors-are-fine">anchor</a>
<a href="mailto:team@example.com">mail</a>
<img src="/img/flow.png">
</body></html>`

func TestExtract_ClassifiesLinks(t *testing.T) {
	links, err := Extract(strings.NewReader(pageHTML), "https://learn.example.com/")
	require.NoError(t, err)
	require.Len(t, links, 7)

	byURL := map[string]Link{}
	for _, l := range links {
		byURL[l.URL] = l
	}

	require.True(t, byURL["/python-core/generators/"].IsInternal)
	require.True(t, byURL["../decorators/"].IsInternal)
	require.True(t, byURL["https://learn.example.com/postgresql/"].IsInternal)
	require.True(t, byURL["#anchors-are-fine"].IsInternal)
	require.False(t, byURL["https://golang.org/doc/"].IsInternal)
	require.False(t, byURL["mailto:team@example.com"].IsInternal)

	require.Equal(t, "img", byURL["/img/flow.png"].Tag)
	require.Equal(t, "src", byURL["/img/flow.png"].Attribute)
}

func writeSiteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestVerifyAll_ResolvesPrettyURLs(t *testing.T) {
	site := t.TempDir()
	writeSiteFile(t, site, "index.html", `<a href="/python-core/generators/">ok</a>`)
	writeSiteFile(t, site, "python-core/generators/index.html", `<a href="/">home</a><a href="../decorators/">sibling</a>`)
	writeSiteFile(t, site, "python-core/decorators/index.html", `<img src="/img/flow.png">`)
	writeSiteFile(t, site, "img/flow.png", "png")

	v, err := NewVerifier(site, "https://learn.example.com/", "/")
	require.NoError(t, err)

	broken, err := v.VerifyAll()
	require.NoError(t, err)
	require.Empty(t, broken)
}

func TestVerifyAll_ReportsBrokenLinks(t *testing.T) {
	site := t.TempDir()
	writeSiteFile(t, site, "index.html",
		`<a href="/missing/">gone</a><a href="https://golang.org/">external ignored</a>`)

	v, err := NewVerifier(site, "https://learn.example.com/", "/")
	require.NoError(t, err)

	broken, err := v.VerifyAll()
	require.NoError(t, err)
	require.Len(t, broken, 1)
	require.Equal(t, "/index.html", broken[0].SourcePage)
	require.Equal(t, "/missing/", broken[0].Destination)
}

func TestVerifyAll_RelativeLinkResolution(t *testing.T) {
	site := t.TempDir()
	writeSiteFile(t, site, "python-core/generators/index.html", `<a href="../missing/">dangling</a>`)

	v, err := NewVerifier(site, "https://learn.example.com/", "/")
	require.NoError(t, err)

	broken, err := v.VerifyAll()
	require.NoError(t, err)
	require.Len(t, broken, 1)
	require.Equal(t, "/python-core/missing", broken[0].Resolved)
}

func TestVerifyAll_BasePathStripped(t *testing.T) {
	site := t.TempDir()
	writeSiteFile(t, site, "index.html", `<a href="/course/glossary/">ok</a>`)
	writeSiteFile(t, site, "glossary/index.html", "x")

	v, err := NewVerifier(site, "https://learn.example.com/", "/course/")
	require.NoError(t, err)

	broken, err := v.VerifyAll()
	require.NoError(t, err)
	require.Empty(t, broken)
}

func TestExternalChecker_ProbesAndFallsBackToGet(t *testing.T) {
	var headSeen, getSeen bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			headSeen = true
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			getSeen = true
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	checker := NewExternalChecker(2*time.Second, 4)
	results := checker.CheckAll(context.Background(), []string{srv.URL, srv.URL})

	require.Len(t, results, 1) // deduplicated
	require.True(t, headSeen)
	require.True(t, getSeen)
	require.True(t, results[0].OK)
	require.Equal(t, http.StatusOK, results[0].StatusCode)
}

func TestExternalChecker_TransportError(t *testing.T) {
	checker := NewExternalChecker(500*time.Millisecond, 2)
	results := checker.CheckAll(context.Background(), []string{"http://127.0.0.1:1/unreachable"})

	require.Len(t, results, 1)
	require.False(t, results[0].OK)
	require.NotEmpty(t, results[0].Error)
}
