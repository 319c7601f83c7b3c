package swhid

import (
	"context"
	"crypto/sha1" //nolint:gosec
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/archive/internal/fsnode"
	"github.com/meigma/archive/internal/testutil"
)

func TestHashBlobMatchesGitFraming(t *testing.T) {
	t.Parallel()
	content := "../x"
	want := sha1.Sum([]byte(fmt.Sprintf("blob %d\x00%s", len(content), content))) //nolint:gosec
	got := hashBlobBytes([]byte(content))
	assert.Equal(t, want[:], got[:])
}

func TestComputeObjectRegularFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	testutil.BuildTree(t, dir, map[string]any{"test.md": "hello"})
	n, err := fsnode.Probe(filepath.Join(dir, "test.md"), nil)
	require.NoError(t, err)

	id, ctx, err := computeObject(context.Background(), n, newConfig(nil))
	require.NoError(t, err)
	assert.Equal(t, "cnt", ctx)

	want := sha1.Sum([]byte("blob 5\x00hello")) //nolint:gosec
	assert.Equal(t, want[:], id[:])
}

func TestComputeObjectSymlink(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	testutil.BuildTree(t, dir, map[string]any{"link": testutil.Link("../x")})
	n, err := fsnode.Probe(filepath.Join(dir, "link"), nil)
	require.NoError(t, err)

	id, ctx, err := computeObject(context.Background(), n, newConfig(nil))
	require.NoError(t, err)
	assert.Equal(t, "cnt", ctx)
	want := sha1.Sum([]byte("blob 4\x00../x")) //nolint:gosec
	assert.Equal(t, want[:], id[:])
}

func TestComputeObjectDirectorySortsEntriesGitStyle(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	// "a" is a file, "ab" is a directory. Git sorts by name with "/" appended
	// for directories, so "a" < "ab/" still sorts "a" first.
	testutil.BuildTree(t, dir, map[string]any{
		"a":  "x",
		"ab": map[string]any{"c": "y"},
	})
	n, err := fsnode.Probe(dir, nil)
	require.NoError(t, err)

	aOid, _, err := computeObject(context.Background(), n.Entries[0].Node, newConfig(nil))
	require.NoError(t, err)
	abOid, _, err := computeObject(context.Background(), n.Entries[1].Node, newConfig(nil))
	require.NoError(t, err)

	entries := []treeEntry{
		{mode: modeDirectory, name: "ab", isDir: true, oid: abOid},
		{mode: modeRegular, name: "a", isDir: false, oid: aOid},
	}
	hashTree(entries) // sorts entries in place
	assert.Equal(t, "a", entries[0].name)
	assert.Equal(t, "ab", entries[1].name)
}

func TestComputeObjectDirectoryConcurrencyMatchesSequential(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	testutil.BuildTree(t, dir, map[string]any{
		"a": "aaa",
		"b": "bbb",
		"c": map[string]any{"d": "ddd", "e": "eee"},
	})
	root, err := fsnode.Probe(dir, nil)
	require.NoError(t, err)

	seq, _, err := computeObject(context.Background(), root, newConfig(nil))
	require.NoError(t, err)

	concurrent, _, err := computeObject(context.Background(), root, newConfig([]Option{WithSubtreeConcurrency(4)}))
	require.NoError(t, err)

	assert.Equal(t, seq, concurrent)
}

func TestModeForExecutable(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	testutil.BuildTree(t, dir, map[string]any{"run": testutil.Exec("x")})
	n, err := fsnode.Probe(filepath.Join(dir, "run"), nil)
	require.NoError(t, err)
	if n.Executable {
		assert.Equal(t, modeExecutable, modeFor(n))
	} else {
		assert.Equal(t, modeRegular, modeFor(n))
	}
}
