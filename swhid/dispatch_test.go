package swhid

import (
	"context"
	"crypto/sha1" //nolint:gosec
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/archive/internal/testutil"
)

func TestHashFileMatchesGitBlob(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	testutil.BuildTree(t, dir, map[string]any{"test.md": "hello"})

	got, err := Hash(context.Background(), filepath.Join(dir, "test.md"), nil)
	require.NoError(t, err)

	want := sha1.Sum([]byte("blob 5\x00hello")) //nolint:gosec
	assert.Equal(t, fmt.Sprintf("swh:1:cnt:%x", want), got)
}

func TestHashDirectoryContext(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	testutil.BuildTree(t, dir, map[string]any{"test.md": "hello"})

	got, err := Hash(context.Background(), dir, nil)
	require.NoError(t, err)
	assert.Regexp(t, `^swh:1:dir:[0-9a-f]{40}$`, got)
}

func TestHashQualifiersPreserveInsertionOrderAndEncode(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	testutil.BuildTree(t, dir, map[string]any{"test.md": "hello"})

	got, err := Hash(context.Background(), filepath.Join(dir, "test.md"), Qualifiers{
		{Key: "origin", Value: "https://example.com/repo"},
		{Key: "visit", Value: "swh:1:snp:abc"},
	})
	require.NoError(t, err)

	require.Contains(t, got, ";origin=https%3A%2F%2Fexample.com%2Frepo")
	require.Contains(t, got, ";visit=swh%3A1%3Asnp%3Aabc")
	originIdx := indexOf(got, ";origin=")
	visitIdx := indexOf(got, ";visit=")
	assert.Less(t, originIdx, visitIdx)
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestStreamYieldsSameStringAsHash(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	testutil.BuildTree(t, dir, map[string]any{"test.md": "hello"})

	hashed, err := Hash(context.Background(), filepath.Join(dir, "test.md"), nil)
	require.NoError(t, err)

	r, err := Stream(context.Background(), filepath.Join(dir, "test.md"))
	require.NoError(t, err)
	streamed, err := io.ReadAll(r)
	require.NoError(t, err)

	assert.Equal(t, hashed, string(streamed))
}

func TestHashSymlinkScenario(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	testutil.BuildTree(t, dir, map[string]any{"link": testutil.Link("../x")})

	got, err := Hash(context.Background(), filepath.Join(dir, "link"), nil)
	require.NoError(t, err)

	want := sha1.Sum([]byte("blob 4\x00../x")) //nolint:gosec
	assert.Equal(t, fmt.Sprintf("swh:1:cnt:%x", want), got)
}
