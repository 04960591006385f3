package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestParseRef(t *testing.T) {
	ref, err := domain.ParseRef(" openssl/1.1.1k ")
	require.NoError(t, err)
	assert.Equal(t, domain.Ref{Name: "openssl", Version: "1.1.1k"}, ref)
	assert.Equal(t, "openssl/1.1.1k", ref.String())

	for _, in := range []string{"", "openssl", "/1.0", "openssl/", "a/b/c"} {
		_, err := domain.ParseRef(in)
		require.ErrorIs(t, err, domain.ErrInvalidRef, in)
	}
}

func TestMetadata_Validate(t *testing.T) {
	valid := func() domain.Metadata {
		return domain.Metadata{
			Name:    "quickfix",
			Version: "1.15.1",
			License: "The QuickFIX Software License, Version 1.0",
			Options: []domain.OptionDecl{domain.BoolOption("ssl", false)},
		}
	}

	m := valid()
	require.NoError(t, m.Validate())
	assert.Equal(t, domain.Ref{Name: "quickfix", Version: "1.15.1"}, m.Ref())

	tests := []struct {
		name   string
		mutate func(*domain.Metadata)
	}{
		{"missing name", func(m *domain.Metadata) { m.Name = "" }},
		{"missing version", func(m *domain.Metadata) { m.Version = "" }},
		{"missing license", func(m *domain.Metadata) { m.License = "" }},
		{"duplicate option", func(m *domain.Metadata) {
			m.Options = append(m.Options, domain.BoolOption("ssl", true))
		}},
		{"default outside domain", func(m *domain.Metadata) {
			m.Options = []domain.OptionDecl{{Name: "ssl", Default: "maybe"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid()
			tt.mutate(&m)
			require.ErrorIs(t, m.Validate(), domain.ErrInvalidMetadata)
		})
	}
}

func TestConfig_CopySemantics(t *testing.T) {
	deps := []domain.Dependency{{Name: "fmt", Version: domain.ParseVersion("6.2.1")}}
	base := domain.NewConfig(
		domain.Ref{Name: "jinja2cpp", Version: "1.1.0"},
		domain.Settings{OS: domain.OSLinux},
		domain.NewOptionValues(nil),
	)

	withDeps := base.WithDependencies(deps)
	deps[0].Name = "mutated"

	assert.Empty(t, base.Dependencies())
	v, ok := withDeps.Dependency("fmt")
	require.True(t, ok)
	assert.Equal(t, "6.2.1", v.String())

	_, ok = withDeps.Dependency("boost")
	assert.False(t, ok)

	gen := withDeps.WithGenerator("Ninja", 4)
	assert.Equal(t, "Ninja", gen.Generator)
	assert.Equal(t, 4, gen.Jobs)
	assert.Empty(t, withDeps.Generator)
	assert.Len(t, gen.Dependencies(), 1)
}

func TestNewWorkspace(t *testing.T) {
	ws := domain.NewWorkspace("work", "packages", domain.Ref{Name: "quickfix", Version: "1.15.1"})

	root := filepath.Join("work", "quickfix-1.15.1")
	assert.Equal(t, domain.Workspace{
		Root:    root,
		Source:  filepath.Join(root, "source_subfolder"),
		Build:   filepath.Join(root, "build_subfolder"),
		Staging: filepath.Join(root, "package.tmp"),
		Package: filepath.Join("packages", "quickfix", "1.15.1"),
	}, ws)

	assert.Equal(t, filepath.Join(".kiln", "store"), domain.DefaultStorePath())
	assert.Equal(t, filepath.Join(".kiln", "work"), domain.DefaultWorkPath())
	assert.Equal(t, filepath.Join(".kiln", "packages"), domain.DefaultPackagesPath())
	assert.Equal(t, filepath.Join(".kiln", "downloads"), domain.DefaultDownloadsPath())
}

func TestSource_Pinned(t *testing.T) {
	assert.True(t, domain.Source{Kind: domain.SourceArchive, SHA256: "abc"}.Pinned())
	assert.False(t, domain.Source{Kind: domain.SourceArchive}.Pinned())
	assert.True(t, domain.Source{Kind: domain.SourceGit, Ref: "v1.15.1"}.Pinned())
	assert.False(t, domain.Source{Kind: domain.SourceGit}.Pinned())
	assert.False(t, domain.Source{Kind: "svn"}.Pinned())
}

func TestProfile_OptionsFor(t *testing.T) {
	var nilProfile *domain.Profile
	assert.Nil(t, nilProfile.OptionsFor("jinja2cpp"))

	p := &domain.Profile{Options: map[string]map[string]string{"jinja2cpp": {"shared": "True"}}}
	assert.Equal(t, map[string]string{"shared": "True"}, p.OptionsFor("jinja2cpp"))
	assert.Nil(t, p.OptionsFor("quickfix"))
}
