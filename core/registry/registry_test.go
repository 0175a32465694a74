package registry

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// File contents drive the fake: "import-error" fails import, "panic" panics
// during import, "invalid" fails verification, anything else is the record key.
type fakeHooks struct {
	loaded []string
}

type fakeRecord struct {
	Extension
	key string
}

func (h *fakeHooks) Import(_ context.Context, path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	s := strings.TrimSpace(string(b))
	switch s {
	case "import-error":
		return "", errors.New("broken file")
	case "panic":
		panic("factory blew up")
	}
	return s, nil
}

func (h *fakeHooks) Verify(_ string, data string) bool { return data != "invalid" }

func (h *fakeHooks) Wrap(name string, data string) *fakeRecord {
	return &fakeRecord{Extension: NewExtension(name), key: data}
}

func (h *fakeHooks) Key(rec *fakeRecord) string { return rec.key }

func (h *fakeHooks) OnLoad(_ context.Context, rec *fakeRecord) {
	h.loaded = append(h.loaded, rec.key)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestRegistry() (*Registry[string, string, *fakeRecord], *fakeHooks, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	hooks := &fakeHooks{}
	r := New[string, string, *fakeRecord](hooks, Options{Logger: zap.New(core).Sugar()})
	return r, hooks, logs
}

func TestLoadFolder_ImportPanicIsContained(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "panic")
	writeFile(t, filepath.Join(dir, "b.yaml"), "alpha")

	r, _, logs := newTestRegistry()
	var n int
	require.NotPanics(t, func() { n = r.LoadFolder(context.Background(), dir) })

	assert.Equal(t, 1, n)
	_, ok := r.Lookup("alpha")
	assert.True(t, ok)

	failed := logs.FilterMessage("failed to import extension").All()
	require.Len(t, failed, 1)
	assert.Contains(t, failed[0].ContextMap()["error"], "factory blew up")
}

func TestLoadFolder_GoodAndBadFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "invalid")
	writeFile(t, filepath.Join(dir, "b.yaml"), "alpha")
	writeFile(t, filepath.Join(dir, "c.yaml"), "import-error")
	writeFile(t, filepath.Join(dir, "d.yaml"), "beta")
	writeFile(t, filepath.Join(dir, "sub", "e.yaml"), "invalid")
	writeFile(t, filepath.Join(dir, "sub", "f.yaml"), "gamma")
	writeFile(t, filepath.Join(dir, "notes.txt"), "delta")

	r, hooks, _ := newTestRegistry()
	n := r.LoadFolder(context.Background(), dir)

	assert.Equal(t, 3, n)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, r.Keys())
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, hooks.loaded)
}

func TestLoadFolder_FilesBeforeSubfolders(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "one.yaml"), "nested")
	writeFile(t, filepath.Join(dir, "z.yaml"), "top")

	r, _, _ := newTestRegistry()
	r.LoadFolder(context.Background(), dir)

	assert.Equal(t, []string{"top", "nested"}, r.Keys())
}

func TestLoadFolder_DuplicateKeepsFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "first.yaml"), "same")
	writeFile(t, filepath.Join(dir, "second.yaml"), "same")

	r, _, logs := newTestRegistry()
	n := r.LoadFolder(context.Background(), dir)

	assert.Equal(t, 1, n)
	rec, ok := r.Lookup("same")
	require.True(t, ok)
	assert.Equal(t, "first", rec.LoggerID())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestLoadFolder_SkipsDotDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".hidden", "x.yaml"), "hidden")
	writeFile(t, filepath.Join(dir, "v1.2", "y.yaml"), "versioned")
	writeFile(t, filepath.Join(dir, "ok", "z.yaml"), "visible")

	r, _, _ := newTestRegistry()
	r.LoadFolder(context.Background(), dir)

	assert.Equal(t, []string{"visible"}, r.Keys())
}

func TestLoadFolder_EnumerationFailureIsContained(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "README"), "not a folder")
	writeFile(t, filepath.Join(dir, "good", "g.yaml"), "good")

	r, _, logs := newTestRegistry()
	n := r.LoadFolder(context.Background(), dir)

	assert.Equal(t, 1, n)
	assert.Equal(t, 1, logs.FilterMessage("failed to read extension folder").Len())

	r2, _, logs2 := newTestRegistry()
	assert.Equal(t, 0, r2.LoadFolder(context.Background(), filepath.Join(dir, "missing")))
	assert.Equal(t, 1, logs2.FilterMessage("failed to read extension folder").Len())
}

func TestLoadFolder_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "alpha")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, _, _ := newTestRegistry()
	assert.Equal(t, 0, r.LoadFolder(ctx, dir))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	t.Run("import failure", func(t *testing.T) {
		p := filepath.Join(dir, "broken.yaml")
		writeFile(t, p, "import-error")
		r, hooks, logs := newTestRegistry()
		assert.False(t, r.LoadFile(context.Background(), p))
		assert.Zero(t, r.Len())
		assert.Empty(t, hooks.loaded)
		assert.Equal(t, 1, logs.FilterMessage("failed to import extension").Len())
	})
	t.Run("missing file", func(t *testing.T) {
		r, _, _ := newTestRegistry()
		assert.False(t, r.LoadFile(context.Background(), filepath.Join(dir, "nope.yaml")))
	})
	t.Run("verification failure", func(t *testing.T) {
		p := filepath.Join(dir, "invalid.yaml")
		writeFile(t, p, "invalid")
		r, hooks, _ := newTestRegistry()
		assert.False(t, r.LoadFile(context.Background(), p))
		assert.Zero(t, r.Len())
		assert.Empty(t, hooks.loaded)
	})
	t.Run("success", func(t *testing.T) {
		p := filepath.Join(dir, "ping.yaml")
		writeFile(t, p, "ping")
		r, hooks, _ := newTestRegistry()
		assert.True(t, r.LoadFile(context.Background(), p))
		rec, ok := r.Lookup("ping")
		require.True(t, ok)
		assert.Equal(t, "ping", rec.LoggerID())
		assert.Equal(t, []string{"ping"}, hooks.loaded)
		assert.Len(t, r.Records(), 1)
	})
}

func TestLookup_Missing(t *testing.T) {
	r, _, _ := newTestRegistry()
	rec, ok := r.Lookup("nothing")
	assert.False(t, ok)
	assert.Nil(t, rec)
}
