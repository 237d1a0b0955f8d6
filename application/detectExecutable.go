// Package application: This file picks the main executable among the files
// produced by dotnet publish. Its name becomes CFBundleExecutable.
package application

import (
	"path/filepath"
	"strings"
)

// nonExecutableExtensions are never picked by the permission strategy:
// managed assemblies, debug symbols, configuration, manifests and markup.
// Native libraries are excluded too since publish marks them executable.
var nonExecutableExtensions = map[string]bool{
	".dll":    true,
	".pdb":    true,
	".json":   true,
	".xml":    true,
	".config": true,
	".dylib":  true,
}

// executableStrategy picks the executable from the published files, or reports
// that it found none.
type executableStrategy func(files []PublishedFile, baseName string) (string, bool)

// executableStrategies are tried in order; the first match wins.
var executableStrategies = []executableStrategy{
	matchProjectName,
	matchFirstExecutable,
}

// DetectExecutable returns the name of the published file that launches the
// application. When no strategy matches it returns baseName and false: the
// bundle is still produced, pointing at a file that does not exist.
func DetectExecutable(files []PublishedFile, baseName string) (string, bool) {
	for _, strategy := range executableStrategies {
		if name, ok := strategy(files, baseName); ok {
			return name, true
		}
	}
	return baseName, false
}

// matchProjectName finds a file named exactly like the project, without extension.
// This is what a self-contained publish produces by default.
func matchProjectName(files []PublishedFile, baseName string) (string, bool) {
	for _, f := range files {
		if f.Name == baseName {
			return f.Name, true
		}
	}
	return "", false
}

// matchFirstExecutable finds the first file, in enumeration order, with the
// owner execute bit set whose extension is not a known non-executable one.
// It covers projects whose AssemblyName differs from the project file name.
func matchFirstExecutable(files []PublishedFile, _ string) (string, bool) {
	for _, f := range files {
		if nonExecutableExtensions[strings.ToLower(filepath.Ext(f.Name))] {
			continue
		}
		if f.Mode.Perm()&0100 != 0 {
			return f.Name, true
		}
	}
	return "", false
}
