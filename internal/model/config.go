package model

// Substitution is a regular expression replacement applied to every vendored
// source file before imports are rewritten. Replace uses Python-style group
// references (`\1`).
type Substitution struct {
	Match   string
	Replace string
}

// Configuration is the validated content of the [tool.vendoring] table.
// All paths are absolute and lie inside BaseDirectory.
type Configuration struct {
	// BaseDirectory is the project root the configuration was loaded from.
	BaseDirectory Path
	// Destination is where libraries are unpacked.
	Destination Path
	// Requirements is the pinned requirements file handed to pip.
	Requirements Path
	// Namespace is the package vendored imports are moved under. Empty
	// disables import rewriting.
	Namespace string
	// ProtectedFiles are top-level files in Destination that cleanup keeps.
	ProtectedFiles []string
	// PatchesDir holds *.patch files applied after vendoring. Optional.
	PatchesDir Path
	// PreserveMetadata keeps *.dist-info and *.egg-info directories.
	PreserveMetadata bool
	// SBOMFile is where a CycloneDX SBOM is written. Optional.
	SBOMFile Path

	Substitute []Substitution
	// Drop lists regular expressions matched against Destination-relative
	// slash-separated paths; matches are deleted.
	Drop []string

	// TypingStubs overrides the stub files generated per library.
	TypingStubs map[string][]string

	LicenseDirectories  map[string]string
	LicenseFallbackURLs map[string]string
}
