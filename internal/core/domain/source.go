package domain

// SourceKind selects how upstream sources are acquired.
type SourceKind string

const (
	// SourceArchive downloads and extracts a release archive.
	SourceArchive SourceKind = "archive"
	// SourceGit clones a git repository.
	SourceGit SourceKind = "git"
)

// Source describes where upstream sources come from.
type Source struct {
	Kind SourceKind
	URLs []string

	// SHA256 is the expected archive checksum; empty skips verification.
	SHA256 string

	// RootDir is the single top-level directory expected inside an archive.
	RootDir string

	// Ref is the branch or tag to clone. Empty tracks the upstream default branch.
	Ref string
}

// Pinned reports whether the source always yields the same tree.
func (s Source) Pinned() bool {
	switch s.Kind {
	case SourceArchive:
		return s.SHA256 != ""
	case SourceGit:
		return s.Ref != ""
	default:
		return false
	}
}

// FileCopy copies a file inside the source tree after patching.
type FileCopy struct {
	From string
	To   string
}

// SourcePlan is everything a recipe needs done to its source tree before configuration.
type SourcePlan struct {
	Source  Source
	Patches []Patch
	Copies  []FileCopy
}

// FetchResult reports what a fetcher retrieved.
type FetchResult struct {
	// Revision is the resolved commit for git sources or the archive checksum.
	Revision string
	URL      string
}
