package ports

import "go.trai.ch/kiln/internal/core/domain"

// Packager defines the file operations of the packaging stage.
//
//go:generate mockgen -source=packager.go -destination=mocks/mock_packager.go -package=mocks
type Packager interface {
	// CopyFile copies a single file, creating parent directories.
	CopyFile(from, to string) error

	// Copy copies the files matching rule from srcRoot into dstRoot and returns their destinations.
	Copy(rule domain.CopyRule, srcRoot, dstRoot string) ([]string, error)

	// Prune removes dirs below root and verifies none of them remain.
	Prune(root string, dirs []string) error

	// CollectLibs returns the library names found in the lib directory of root.
	CollectLibs(root string) ([]string, error)

	// Promote replaces final with the staged tree.
	Promote(staging, final string) error
}
