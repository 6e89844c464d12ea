package model

// PinnedPackage is one `name==version` line of a requirements file. Prefix
// and Suffix keep the surrounding text so the line can be written back
// unchanged apart from the version.
type PinnedPackage struct {
	Name    string
	Version string
	Prefix  string
	Suffix  string
}

func (p PinnedPackage) String() string {
	return p.Prefix + p.Name + "==" + p.Version + p.Suffix
}
