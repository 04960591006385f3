package domain

import "time"

// CopyOrigin names the tree a package copy rule reads from.
type CopyOrigin string

const (
	// FromSource copies out of the patched source tree.
	FromSource CopyOrigin = "source"
	// FromBuild copies out of the generator build tree.
	FromBuild CopyOrigin = "build"
)

// CopyRule copies files matching Pattern below Src into Dst of the staged package.
type CopyRule struct {
	Pattern string
	From    CopyOrigin
	Src     string
	Dst     string
}

// PackagePlan describes the packaging stage of a recipe.
type PackagePlan struct {
	// Install runs the generator install step into the staged package.
	Install bool
	Copies  []CopyRule

	// Prune lists directories, relative to the package root, that must not ship.
	Prune []string
}

// CppInfo is what a consumer needs to link against a package.
type CppInfo struct {
	Libs        []string `json:"libs"`
	SystemLibs  []string `json:"system_libs,omitempty"`
	IncludeDirs []string `json:"include_dirs"`
	LibDirs     []string `json:"lib_dirs"`
	BinDirs     []string `json:"bin_dirs"`
}

// DefaultCppInfo returns the standard directory layout with the given libraries.
func DefaultCppInfo(libs ...string) CppInfo {
	return CppInfo{
		Libs:        libs,
		IncludeDirs: []string{IncludeDir},
		LibDirs:     []string{LibDir},
		BinDirs:     []string{BinDir},
	}
}

// PackageInfo is the persisted record of a finished package.
type PackageInfo struct {
	Ref          string            `json:"ref"`
	PackageID    string            `json:"package_id"`
	Settings     map[string]string `json:"settings"`
	Options      map[string]string `json:"options"`
	Dependencies []string          `json:"dependencies,omitempty"`
	CppInfo      CppInfo           `json:"cpp_info"`
	Folder       string            `json:"folder"`
	Revision     string            `json:"source_revision,omitempty"`
	SourceHash   string            `json:"source_hash,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
}

// GenerateRequest is the input of one generator step.
type GenerateRequest struct {
	SourceDir   string
	BuildDir    string
	PackageDir  string
	Target      string
	Generator   string
	BuildType   BuildType
	Jobs        int
	Definitions Definitions

	// Runtime, CppStd and Dependencies are exported to the build through the generated build info file.
	Runtime      string
	CppStd       string
	Dependencies []Dependency
}

// Command is an external process invocation.
type Command struct {
	Label       string
	Args        []string
	WorkingDir  string
	Environment map[string]string
}

// Profile holds the values read from a profile file.
type Profile struct {
	Settings     map[string]string
	Options      map[string]map[string]string
	Dependencies map[string]string
	Generator    string
	Jobs         int
}

// OptionsFor returns the option overrides the profile declares for a recipe.
func (p *Profile) OptionsFor(recipe string) map[string]string {
	if p == nil {
		return nil
	}
	return p.Options[recipe]
}
