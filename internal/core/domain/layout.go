package domain

import "path/filepath"

const (
	// KilnDirName is the name of the internal state directory.
	KilnDirName = ".kiln"

	// StoreDirName is the name of the package info store directory.
	StoreDirName = "store"

	// WorkDirName is the name of the directory holding per-recipe workspaces.
	WorkDirName = "work"

	// PackagesDirName is the name of the directory holding finished packages.
	PackagesDirName = "packages"

	// ProfileFileName is the name of the default profile file.
	ProfileFileName = "kiln.yaml"

	// SourceSubfolder is the directory inside a workspace that receives the upstream sources.
	SourceSubfolder = "source_subfolder"

	// BuildSubfolder is the directory inside a workspace used as the generator build tree.
	BuildSubfolder = "build_subfolder"

	// PackageStaging is the directory inside a workspace that receives installed artifacts
	// before they are promoted into the packages directory.
	PackageStaging = "package.tmp"

	// DownloadsDirName is the name of the directory that caches downloaded archives
	// across builds.
	DownloadsDirName = "downloads"

	// IncludeDir is the package directory for public headers.
	IncludeDir = "include"

	// LibDir is the package directory for library files.
	LibDir = "lib"

	// BinDir is the package directory for executables and shared libraries on Windows.
	BinDir = "bin"

	// LicensesDir is the package directory for license files.
	LicensesDir = "licenses"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultStorePath returns the default path for the package info store.
// It joins .kiln and store.
func DefaultStorePath() string {
	return filepath.Join(KilnDirName, StoreDirName)
}

// DefaultWorkPath returns the default root for recipe workspaces.
// It joins .kiln and work.
func DefaultWorkPath() string {
	return filepath.Join(KilnDirName, WorkDirName)
}

// DefaultPackagesPath returns the default root for finished packages.
// It joins .kiln and packages.
func DefaultPackagesPath() string {
	return filepath.Join(KilnDirName, PackagesDirName)
}

// DefaultDownloadsPath returns the default archive cache.
// It joins .kiln and downloads.
func DefaultDownloadsPath() string {
	return filepath.Join(KilnDirName, DownloadsDirName)
}

// Workspace describes the directories used by a single recipe invocation.
type Workspace struct {
	Root    string
	Source  string
	Build   string
	Staging string
	Package string
}

// NewWorkspace lays out the workspace for ref below workRoot, with the final
// package folder below packagesRoot.
func NewWorkspace(workRoot, packagesRoot string, ref Ref) Workspace {
	root := filepath.Join(workRoot, ref.Name+"-"+ref.Version)
	return Workspace{
		Root:    root,
		Source:  filepath.Join(root, SourceSubfolder),
		Build:   filepath.Join(root, BuildSubfolder),
		Staging: filepath.Join(root, PackageStaging),
		Package: filepath.Join(packagesRoot, ref.Name, ref.Version),
	}
}
