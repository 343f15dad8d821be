package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgerouter/edgerouter/routing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadRoutesPreservesJSONKeyOrder(t *testing.T) {
	dir := t.TempDir()
	pathFile := filepath.Join(dir, "paths.json")
	writeFile(t, dir, "paths.json", `{
		"/zeta": {"target": "https://zeta"},
		"/alpha": {"target": "https://alpha"},
		"/middle": {"target": "https://middle"}
	}`)

	entries, err := LoadRoutes(pathFile, filepath.Join(dir, "paths"))
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"/zeta", "/alpha", "/middle"}, []string{
		entries[0].Pattern, entries[1].Pattern, entries[2].Pattern,
	})
}

func TestLoadRoutesBundlesOverrideOnCollision(t *testing.T) {
	dir := t.TempDir()
	pathFile := filepath.Join(dir, "paths.json")
	writeFile(t, dir, "paths.json", `{"/api": {"target": "https://v1"}}`)

	bundlesDir := filepath.Join(dir, "paths")
	require.NoError(t, os.Mkdir(bundlesDir, 0o755))
	writeFile(t, bundlesDir, "01-override.json", `{"/api": {"target": "https://v2"}}`)

	entries, err := LoadRoutes(pathFile, bundlesDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, routing.TargetRemote, entries[0].Spec.Target.Kind)
	assert.Equal(t, "https://v2", entries[0].Spec.Target.Remote)
}

func TestLoadRoutesAcceptsYAMLBundles(t *testing.T) {
	dir := t.TempDir()
	pathFile := filepath.Join(dir, "paths.json")
	writeFile(t, dir, "paths.json", `{}`)

	bundlesDir := filepath.Join(dir, "paths")
	require.NoError(t, os.Mkdir(bundlesDir, 0o755))
	writeFile(t, bundlesDir, "extra.yaml", "/from-yaml:\n  target: https://yaml-target\n")

	entries, err := LoadRoutes(pathFile, bundlesDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/from-yaml", entries[0].Pattern)
	assert.Equal(t, "https://yaml-target", entries[0].Spec.Target.Remote)
}

func TestLoadRoutesParsesPoolAndFileTargets(t *testing.T) {
	dir := t.TempDir()
	pathFile := filepath.Join(dir, "paths.json")
	writeFile(t, dir, "paths.json", `{
		"/pool": {"target": ["https://a", "https://b"]},
		"/static": {"target": "file:./body.html"}
	}`)

	entries, err := LoadRoutes(pathFile, filepath.Join(dir, "paths"))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, routing.TargetPool, entries[0].Spec.Target.Kind)
	assert.Equal(t, []string{"https://a", "https://b"}, entries[0].Spec.Target.Pool)

	assert.Equal(t, routing.TargetFile, entries[1].Spec.Target.Kind)
	assert.Equal(t, "./body.html", entries[1].Spec.Target.File)
}

func TestLoadRoutesDistinguishesAbsentFromEmptyCIDRs(t *testing.T) {
	dir := t.TempDir()
	pathFile := filepath.Join(dir, "paths.json")
	writeFile(t, dir, "paths.json", `{
		"/open": {"target": "https://open"},
		"/locked": {"target": "https://locked", "allowedCidrs": []}
	}`)

	entries, err := LoadRoutes(pathFile, filepath.Join(dir, "paths"))
	require.NoError(t, err)
	assert.Nil(t, entries[0].Spec.AllowedCIDRs)
	assert.NotNil(t, entries[1].Spec.AllowedCIDRs)
	assert.Empty(t, entries[1].Spec.AllowedCIDRs)
}

func TestLoadRoutesMissingFilesYieldsEmpty(t *testing.T) {
	dir := t.TempDir()
	entries, err := LoadRoutes(filepath.Join(dir, "paths.json"), filepath.Join(dir, "paths"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
