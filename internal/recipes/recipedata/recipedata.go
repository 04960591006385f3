// Package recipedata parses the per-recipe data file that declares upstream sources
// and patches by version.
package recipedata

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"path"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileName is the conventional name of a recipe data file.
const FileName = "conandata.yml"

// URLs accepts either a single URL or a list of mirrors.
type URLs []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (u *URLs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*u = URLs{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return err
	}
	*u = list
	return nil
}

type sourceEntry struct {
	URL     URLs   `yaml:"url"`
	SHA256  string `yaml:"sha256"`
	RootDir string `yaml:"root_dir"`
	Git     string `yaml:"git"`
	Ref     string `yaml:"ref"`
}

type patchEntry struct {
	Description string `yaml:"patch_description"`

	File        string  `yaml:"file"`
	Anchor      string  `yaml:"anchor"`
	Replacement *string `yaml:"replacement"`

	PatchFile string `yaml:"patch_file"`
	BasePath  string `yaml:"base_path"`
}

type document struct {
	Sources map[string]sourceEntry  `yaml:"sources"`
	Patches map[string][]patchEntry `yaml:"patches"`
}

// Data is a parsed recipe data file.
type Data struct {
	sources map[string]domain.Source
	patches map[string][]domain.Patch
}

// Parse decodes a recipe data file. Diff patches are read from files, relative to
// the directory of the data file.
func Parse(raw []byte, files fs.FS) (*Data, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.Wrap(err, domain.ErrRecipeDataParseFailed.Error())
	}

	data := &Data{
		sources: make(map[string]domain.Source, len(doc.Sources)),
		patches: make(map[string][]domain.Patch, len(doc.Patches)),
	}
	for version, entry := range doc.Sources {
		src, err := entry.source()
		if err != nil {
			return nil, zerr.With(err, "version", version)
		}
		data.sources[version] = src
	}
	for version, entries := range doc.Patches {
		if _, ok := data.sources[version]; !ok {
			err := zerr.Wrap(domain.ErrRecipeDataParseFailed, "patches declared for a version without sources")
			return nil, zerr.With(err, "version", version)
		}
		patches := make([]domain.Patch, 0, len(entries))
		for i, entry := range entries {
			p, err := entry.patch(files)
			if err != nil {
				return nil, zerr.With(zerr.With(err, "version", version), "patch", i)
			}
			patches = append(patches, p)
		}
		data.patches[version] = patches
	}
	return data, nil
}

func (e sourceEntry) source() (domain.Source, error) {
	switch {
	case e.Git != "" && len(e.URL) > 0:
		return domain.Source{}, zerr.Wrap(domain.ErrRecipeDataParseFailed, "source declares both url and git")
	case e.Git != "":
		return domain.Source{Kind: domain.SourceGit, URLs: []string{e.Git}, Ref: e.Ref}, nil
	case len(e.URL) > 0:
		return domain.Source{
			Kind:    domain.SourceArchive,
			URLs:    e.URL,
			SHA256:  e.SHA256,
			RootDir: e.RootDir,
		}, nil
	default:
		return domain.Source{}, zerr.Wrap(domain.ErrRecipeDataParseFailed, "source declares neither url nor git")
	}
}

func (e patchEntry) patch(files fs.FS) (domain.Patch, error) {
	switch {
	case e.PatchFile != "" && e.File != "":
		return domain.Patch{}, zerr.Wrap(domain.ErrRecipeDataParseFailed, "patch declares both file and patch_file")
	case e.PatchFile != "" && files == nil:
		return domain.Patch{}, zerr.With(zerr.Wrap(domain.ErrRecipeDataParseFailed, "no patch files available"), "patch_file", e.PatchFile)
	case e.PatchFile != "":
		diff, err := fs.ReadFile(files, path.Clean(e.PatchFile))
		if err != nil {
			return domain.Patch{}, zerr.With(zerr.Wrap(err, domain.ErrRecipeDataParseFailed.Error()), "patch_file", e.PatchFile)
		}
		desc := e.Description
		if desc == "" {
			desc = path.Base(e.PatchFile)
		}
		return domain.Patch{Kind: domain.PatchDiff, Description: desc, Diff: string(diff), BasePath: e.BasePath}, nil
	case e.File != "":
		if e.Anchor == "" || e.Replacement == nil {
			err := zerr.Wrap(domain.ErrRecipeDataParseFailed, "replace patch needs anchor and replacement")
			return domain.Patch{}, zerr.With(err, "file", e.File)
		}
		p := domain.ReplaceInFile(e.File, e.Anchor, *e.Replacement)
		p.Description = e.Description
		return p, nil
	default:
		return domain.Patch{}, zerr.Wrap(domain.ErrRecipeDataParseFailed, "patch declares neither file nor patch_file")
	}
}

// Has reports whether a source is declared for version.
func (d *Data) Has(version string) bool {
	_, ok := d.sources[version]
	return ok
}

// Plan returns the source and patches declared for version.
func (d *Data) Plan(version string) (domain.SourcePlan, error) {
	src, ok := d.sources[version]
	if !ok {
		return domain.SourcePlan{}, zerr.With(zerr.Wrap(domain.ErrSourceNotDeclared, "no source for version"), "version", version)
	}
	src.URLs = append([]string(nil), src.URLs...)
	return domain.SourcePlan{
		Source:  src,
		Patches: append([]domain.Patch(nil), d.patches[version]...),
	}, nil
}
