package domain

// PatchKind selects how a patch is applied.
type PatchKind string

const (
	// PatchReplace replaces an exact anchor string in a single file.
	PatchReplace PatchKind = "replace"
	// PatchDiff applies a unified diff.
	PatchDiff PatchKind = "diff"
)

// Patch is one ordered transformation of the source tree.
type Patch struct {
	Kind        PatchKind
	Description string

	// File, Anchor and Replacement describe a replace patch. File is relative to the source root.
	File        string
	Anchor      string
	Replacement string

	// Diff is unified diff text. Paths inside it are relative to BasePath under the source root.
	Diff     string
	BasePath string
}

// ReplaceInFile builds a replace patch.
func ReplaceInFile(file, anchor, replacement string) Patch {
	return Patch{Kind: PatchReplace, File: file, Anchor: anchor, Replacement: replacement}
}
