package model

// LibraryKind tells whether a vendored library is a package directory or a
// single-file module.
type LibraryKind string

const (
	// LibraryPackage is a top-level directory in the destination.
	LibraryPackage LibraryKind = "package"
	// LibraryModule is a top-level .py file in the destination.
	LibraryModule LibraryKind = "module"
)

// Library is a top-level importable name found in the destination after
// pip installed the requirements.
type Library struct {
	Name string
	Kind LibraryKind
}

// Summary describes the outcome of a sync run.
type Summary struct {
	Libraries      []Library
	RewrittenFiles map[string]int // library name -> files changed
	Licenses       []Path
	Stubs          []Path
	Patches        []Path
}
