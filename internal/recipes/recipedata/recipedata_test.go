package recipedata_test

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/recipes/recipedata"
)

func TestParse_Archive(t *testing.T) {
	t.Parallel()

	data, err := recipedata.Parse([]byte(`
sources:
  "1.1.0":
    url:
      - "https://example.com/a.tar.gz"
      - "https://mirror.example.com/a.tar.gz"
    sha256: "abc"
    root_dir: "lib-1.1.0"
patches:
  "1.1.0":
    - patch_file: "patches/fix.patch"
      base_path: "src"
`), fstest.MapFS{"patches/fix.patch": {Data: []byte("--- a/x\n+++ b/x\n")}})
	require.NoError(t, err)

	assert.True(t, data.Has("1.1.0"))
	assert.False(t, data.Has("1.0.0"))

	plan, err := data.Plan("1.1.0")
	require.NoError(t, err)
	assert.Equal(t, domain.Source{
		Kind:    domain.SourceArchive,
		URLs:    []string{"https://example.com/a.tar.gz", "https://mirror.example.com/a.tar.gz"},
		SHA256:  "abc",
		RootDir: "lib-1.1.0",
	}, plan.Source)
	require.Len(t, plan.Patches, 1)
	assert.Equal(t, domain.PatchDiff, plan.Patches[0].Kind)
	assert.Equal(t, "fix.patch", plan.Patches[0].Description)
	assert.Equal(t, "src", plan.Patches[0].BasePath)
	assert.Equal(t, "--- a/x\n+++ b/x\n", plan.Patches[0].Diff)
}

func TestParse_GitWithReplacePatches(t *testing.T) {
	t.Parallel()

	data, err := recipedata.Parse([]byte(`
sources:
  "2.0":
    git: "https://example.com/repo.git"
patches:
  "2.0":
    - file: "CMakeLists.txt"
      anchor: "project(x)"
      replacement: "project(y)"
      patch_description: "rename project"
    - file: "other.txt"
      anchor: " ${extra}"
      replacement: ""
`), nil)
	require.NoError(t, err)

	plan, err := data.Plan("2.0")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceGit, plan.Source.Kind)
	assert.Equal(t, []string{"https://example.com/repo.git"}, plan.Source.URLs)
	assert.Empty(t, plan.Source.Ref)
	assert.False(t, plan.Source.Pinned())

	require.Len(t, plan.Patches, 2)
	assert.Equal(t, "rename project", plan.Patches[0].Description)
	assert.Equal(t, domain.ReplaceInFile("other.txt", " ${extra}", ""), plan.Patches[1])
}

func TestParse_SingleURL(t *testing.T) {
	t.Parallel()

	data, err := recipedata.Parse([]byte(`
sources:
  "1.0":
    url: "https://example.com/a.zip"
`), nil)
	require.NoError(t, err)

	plan, err := data.Plan("1.0")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a.zip"}, plan.Source.URLs)
	assert.Empty(t, plan.Patches)
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "malformed", raw: "sources: [\n"},
		{name: "unknown field", raw: "sources:\n  \"1\":\n    mirror: x\n"},
		{name: "no location", raw: "sources:\n  \"1\":\n    sha256: abc\n"},
		{name: "url and git", raw: "sources:\n  \"1\":\n    url: a\n    git: b\n"},
		{name: "orphan patches", raw: "sources:\n  \"1\":\n    url: a\npatches:\n  \"2\":\n    - patch_file: x\n"},
		{name: "missing patch file", raw: "sources:\n  \"1\":\n    url: a\npatches:\n  \"1\":\n    - patch_file: x\n"},
		{name: "no replacement", raw: "sources:\n  \"1\":\n    url: a\npatches:\n  \"1\":\n    - file: f\n      anchor: a\n"},
		{name: "empty patch", raw: "sources:\n  \"1\":\n    url: a\npatches:\n  \"1\":\n    - base_path: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := recipedata.Parse([]byte(tt.raw), fstest.MapFS{})
			require.ErrorContains(t, err, domain.ErrRecipeDataParseFailed.Error())
		})
	}
}

func TestData_PlanUnknownVersion(t *testing.T) {
	t.Parallel()

	data := parse(t, "sources:\n  \"1\":\n    url: a\n")
	_, err := data.Plan("2")
	require.ErrorIs(t, err, domain.ErrSourceNotDeclared)
}

func TestData_PlanReturnsCopies(t *testing.T) {
	t.Parallel()

	data := parse(t, "sources:\n  \"1\":\n    url: [a, b]\n")
	plan, err := data.Plan("1")
	require.NoError(t, err)
	plan.Source.URLs[0] = "changed"

	again, err := data.Plan("1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, again.Source.URLs)
}

func parse(t *testing.T, raw string) *recipedata.Data {
	t.Helper()
	data, err := recipedata.Parse([]byte(raw), nil)
	require.NoError(t, err)
	return data
}
