package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidConfiguration is returned when a recipe cannot be built with the requested
	// settings, options or dependency versions. It is raised before any compiler invocation.
	ErrInvalidConfiguration = zerr.New("invalid configuration")

	// ErrInvalidMetadata is returned when a recipe declares incomplete identity metadata.
	ErrInvalidMetadata = zerr.New("invalid recipe metadata")

	// ErrRecipeNotFound is returned when a requested recipe is not registered.
	ErrRecipeNotFound = zerr.New("recipe not found")

	// ErrRecipeAlreadyRegistered is returned when two recipes share the same name.
	ErrRecipeAlreadyRegistered = zerr.New("recipe already registered")

	// ErrNoRecipesSpecified is returned when a command requires at least one recipe name.
	ErrNoRecipesSpecified = zerr.New("no recipes specified")

	// ErrInvalidRef is returned when a reference is not in name/version form.
	ErrInvalidRef = zerr.New("invalid reference, expected format: name/version")

	// ErrInvalidAssignment is returned when a command line override is not in key=value form.
	ErrInvalidAssignment = zerr.New("invalid assignment, expected format: key=value")

	// ErrInvalidSetting is returned when a setting key or value is not recognized.
	ErrInvalidSetting = zerr.New("invalid setting")

	// ErrUnknownOption is returned when an option override names an undeclared option.
	ErrUnknownOption = zerr.New("unknown option")

	// ErrInvalidOptionValue is returned when an option value is outside the declared domain.
	ErrInvalidOptionValue = zerr.New("invalid option value")

	// ErrOptionNotApplicable is returned when an override targets an option that was removed
	// for the current platform or by an option rule.
	ErrOptionNotApplicable = zerr.New("option not applicable")

	// ErrInvalidVersionRange is returned when a version range expression cannot be parsed.
	ErrInvalidVersionRange = zerr.New("invalid version range")

	// ErrDependencyNotFound is returned when a requirement has no resolvable version.
	ErrDependencyNotFound = zerr.New("dependency not found")

	// ErrInvalidDefinition is returned when a build definition record fails validation.
	ErrInvalidDefinition = zerr.New("invalid build definition")

	// ErrDuplicateDefinition is returned when two build definitions share the same name.
	ErrDuplicateDefinition = zerr.New("duplicate build definition")

	// ErrSourceNotDeclared is returned when the recipe data has no source for the requested version.
	ErrSourceNotDeclared = zerr.New("no source declared for version")

	// ErrRecipeDataParseFailed is returned when embedded recipe data cannot be parsed.
	ErrRecipeDataParseFailed = zerr.New("failed to parse recipe data")

	// ErrDownloadFailed is returned when a source archive cannot be downloaded.
	ErrDownloadFailed = zerr.New("failed to download source archive")

	// ErrChecksumMismatch is returned when a downloaded archive does not match its declared checksum.
	ErrChecksumMismatch = zerr.New("checksum mismatch")

	// ErrUnsupportedArchive is returned when an archive format is not recognized.
	ErrUnsupportedArchive = zerr.New("unsupported archive format")

	// ErrExtractFailed is returned when an archive cannot be extracted.
	ErrExtractFailed = zerr.New("failed to extract archive")

	// ErrUnexpectedLayout is returned when the extracted archive lacks the expected root directory.
	ErrUnexpectedLayout = zerr.New("unexpected archive layout")

	// ErrUnsafeArchivePath is returned when an archive entry escapes the destination directory.
	ErrUnsafeArchivePath = zerr.New("archive entry escapes destination")

	// ErrCloneFailed is returned when a git source cannot be cloned.
	ErrCloneFailed = zerr.New("failed to clone repository")

	// ErrUnsupportedSource is returned when a source kind is not recognized.
	ErrUnsupportedSource = zerr.New("unsupported source kind")

	// ErrPatchAnchorNotFound is returned when a replacement patch cannot locate its anchor text.
	ErrPatchAnchorNotFound = zerr.New("patch anchor not found")

	// ErrPatchAnchorAmbiguous is returned when a replacement anchor occurs more than once.
	ErrPatchAnchorAmbiguous = zerr.New("patch anchor is not unique")

	// ErrPatchParseFailed is returned when a diff patch cannot be parsed.
	ErrPatchParseFailed = zerr.New("failed to parse diff patch")

	// ErrPatchApplyFailed is returned when a diff patch does not apply to the source tree.
	ErrPatchApplyFailed = zerr.New("failed to apply patch")

	// ErrPatchWriteFailed is returned when patched content cannot be written back.
	ErrPatchWriteFailed = zerr.New("failed to write patched file")

	// ErrSourceFileMissing is returned when a patch or copy references a file absent from the source tree.
	ErrSourceFileMissing = zerr.New("source file missing")

	// ErrConfigureFailed is returned when the build generator configuration step fails.
	ErrConfigureFailed = zerr.New("build configuration failed")

	// ErrBuildFailed is returned when the downstream build tool exits unsuccessfully.
	ErrBuildFailed = zerr.New("build failed")

	// ErrInstallFailed is returned when the downstream install step fails.
	ErrInstallFailed = zerr.New("install failed")

	// ErrPackageCopyFailed is returned when a file cannot be copied into the package folder.
	ErrPackageCopyFailed = zerr.New("failed to copy package file")

	// ErrPruneFailed is returned when a pruned directory cannot be removed.
	ErrPruneFailed = zerr.New("failed to prune package directory")

	// ErrPrunedDirPresent is returned when a pruned directory survives packaging.
	ErrPrunedDirPresent = zerr.New("pruned directory still present in package")

	// ErrPackagePromoteFailed is returned when the staged package cannot be moved into place.
	ErrPackagePromoteFailed = zerr.New("failed to promote staged package")

	// ErrWorkspaceFailed is returned when a recipe workspace cannot be prepared.
	ErrWorkspaceFailed = zerr.New("failed to prepare workspace")

	// ErrStoreCreateFailed is returned when the package store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create package store directory")

	// ErrStoreReadFailed is returned when package info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read package info")

	// ErrStoreUnmarshalFailed is returned when package info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal package info")

	// ErrStoreMarshalFailed is returned when package info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal package info")

	// ErrStoreWriteFailed is returned when package info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write package info")

	// ErrPackageNotFound is returned when no package info is stored for a recipe.
	ErrPackageNotFound = zerr.New("package not found")

	// ErrConfigReadFailed is returned when the profile cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read profile")

	// ErrConfigParseFailed is returned when the profile cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse profile")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrPathStatFailed is returned when stating a path fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrBuildExecutionFailed is returned when at least one recipe pipeline fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")
)
