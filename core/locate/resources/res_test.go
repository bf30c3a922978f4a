package resources

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyed/core"
	"github.com/npillmayer/tyed/core/font"
	"github.com/npillmayer/tyed/core/font/fontregistry"
	"github.com/npillmayer/tyed/engine/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
)

var regular = text.Style{}

func writeTestFont(t *testing.T, name string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, gomono.TTF, 0644))
	return path
}

func TestResolvePackagedFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.resources")
	defer teardown()
	//
	bold := text.Style{Weight: text.Bold}
	f, err := ResolveFont(testconfig.Conf{}, "Go Mono", bold).Font()
	require.NoError(t, err)
	assert.Same(t, font.PackagedFont(true, true, false), f)
}

func TestResolveMissingFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.resources")
	defer teardown()
	//
	defer func(orig func(string) (string, error)) { findSystemFont = orig }(findSystemFont)
	findSystemFont = func(string) (string, error) { return "", errors.New("not found") }
	f, err := ResolveFont(testconfig.Conf{}, "No Such Font", regular).Font()
	assert.Error(t, err)
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Same(t, font.FallbackFont(), f)
}

func TestResolveSystemFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.resources")
	defer teardown()
	//
	path := writeTestFont(t, "TestMono-Regular.ttf")
	defer func(orig func(string) (string, error)) { findSystemFont = orig }(findSystemFont)
	findSystemFont = func(name string) (string, error) {
		if name == "TestMono" {
			return path, nil
		}
		return "", errors.New("not found")
	}
	reg := fontregistry.NewRegistry()
	f, err := resolveFont(testconfig.Conf{}, reg, "TestMono", regular)
	require.NoError(t, err)
	assert.Equal(t, path, f.Filepath)
	g, ok := reg.Font(fontregistry.NormalizeFontname("TestMono", regular))
	require.True(t, ok, "resolved font is registered")
	assert.Same(t, f, g)
}

func TestResolveFontForChar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.resources")
	defer teardown()
	//
	path := writeTestFont(t, "mono.ttf")
	broken := filepath.Join(filepath.Dir(path), "broken.otf")
	require.NoError(t, os.WriteFile(broken, []byte("no font"), 0644))
	defer func(orig func() []string) { listSystemFonts = orig }(listSystemFonts)
	listSystemFonts = func() []string {
		return []string{"/fonts/collection.ttc", broken, path}
	}
	ctx := context.Background()
	f, err := ResolveFontForChar(ctx, testconfig.Conf{}, 'x', nil).Font()
	require.NoError(t, err)
	assert.Equal(t, path, f.Filepath)
	_, err = ResolveFontForChar(ctx, testconfig.Conf{}, '中', nil).Font()
	assert.Equal(t, core.EMISSING, core.Code(err))
	exclude := func(p string) bool { return p == path }
	_, err = ResolveFontForChar(ctx, testconfig.Conf{}, 'x', exclude).Font()
	assert.Error(t, err)
	//
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = ResolveFontForChar(canceled, testconfig.Conf{}, 'x', nil).FontWithContext(canceled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseFontConfigList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyed.resources")
	defer teardown()
	//
	out := `/usr/share/fonts/TTF/DejaVuSansMono-Bold.ttf: DejaVu Sans Mono:style=Bold
/usr/share/fonts/noto/NotoSansCJK.ttc: Noto Sans CJK JP,Noto Sans CJK JP Regular:style=Regular
/usr/share/fonts/TTF/FiraCode-Regular.ttf: Fira Code,Fira Code Regular:style=Regular,Normal

broken line
`
	descs, err := parseFontConfigList(bufio.NewScanner(strings.NewReader(out)))
	require.NoError(t, err)
	require.Len(t, descs, 2)
	assert.Equal(t, "DejaVu Sans Mono", descs[0].Family)
	assert.Equal(t, []string{"bold"}, descs[0].Variants)
	assert.Equal(t, "Fira Code", descs[1].Family)
	assert.Equal(t, []string{"regular"}, descs[1].Variants)
	m, _, c := fontregistry.ClosestMatch(descs, "dejavu", text.Style{Weight: text.Bold})
	assert.Equal(t, fontregistry.PerfectConfidence, c)
	assert.Equal(t, "/usr/share/fonts/TTF/DejaVuSansMono-Bold.ttf", m.Path)
}

func TestParseFontConfigFiles(t *testing.T) {
	out := bytes.NewBufferString("/a/b.ttf:\n/a/c.ttc:\n\n/d/e.otf:\n")
	assert.Equal(t, []string{"/a/b.ttf", "/d/e.otf"}, parseFontConfigFiles(out))
}
