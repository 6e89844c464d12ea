// Package model defines the data structures shared by the vendoring workflow.
package model

import "path/filepath"

// Path represents a file system path.
type Path string

// Join appends elements to the path.
func (p Path) Join(elem ...string) Path {
	return Path(filepath.Join(append([]string{string(p)}, elem...)...))
}

func (p Path) String() string {
	return string(p)
}
