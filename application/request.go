// Package application contains the core logic for turning a .NET project into a
// macOS application bundle: publishing, laying out the .app directory tree,
// detecting the main executable, generating Info.plist and compiling the icon.
package application

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors reported while validating a BuildRequest.
var (
	ErrEmptyProjectPath = errors.New("project path cannot be empty")
	ErrProjectNotFound  = errors.New("project file not found")
	ErrEmptyAppName     = errors.New("application name cannot be empty")
	ErrInvalidAppName   = errors.New("application name must be a plain file name")
	ErrEmptyRuntime     = errors.New("runtime identifier cannot be empty")
)

// BuildRequest describes one bundling run. It is fully resolved before the
// pipeline starts and never modified afterwards.
type BuildRequest struct {
	ProjectPath string // .csproj (or other project file) passed to dotnet publish
	OutputDir   string // Directory receiving <AppName>.app
	AppName     string // Bundle name, also used for the bundle identifier
	IconPath    string // Optional source icon, empty for the default icon
	RuntimeID   string // Runtime identifier, e.g. osx-x64
}

// NewBuildRequest fills in the defaults for every optional argument:
// the output directory is ".", the application name is the project base name
// and the runtime identifier is defaultRuntime.
func NewBuildRequest(projectPath, outputDir, appName, iconPath, runtimeID, defaultRuntime string) BuildRequest {
	if outputDir == "" {
		outputDir = "."
	}
	if appName == "" {
		appName = ProjectBaseName(projectPath)
	}
	if runtimeID == "" {
		runtimeID = defaultRuntime
	}

	return BuildRequest{
		ProjectPath: projectPath,
		OutputDir:   outputDir,
		AppName:     appName,
		IconPath:    iconPath,
		RuntimeID:   runtimeID,
	}
}

// Validate checks the request before any file is touched.
func (r BuildRequest) Validate() error {
	if r.ProjectPath == "" {
		return ErrEmptyProjectPath
	}
	info, err := os.Stat(r.ProjectPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrProjectNotFound, r.ProjectPath)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrProjectNotFound, r.ProjectPath)
	}
	if strings.TrimSpace(r.AppName) == "" {
		return ErrEmptyAppName
	}
	if !isPlainName(r.AppName) {
		return fmt.Errorf("%w: %q", ErrInvalidAppName, r.AppName)
	}
	if r.RuntimeID == "" {
		return ErrEmptyRuntime
	}
	return nil
}

// isPlainName reports whether name stays inside the directory it is joined to.
// The name becomes <output>/<name>.app and <scratch>/<name>-publish, both of
// which are removed recursively.
func isPlainName(name string) bool {
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	return name != "." && filepath.Base(name) == name
}

// ProjectBaseName returns the project file name without directory and extension:
// "src/Foo/Foo.csproj" becomes "Foo".
func ProjectBaseName(projectPath string) string {
	base := filepath.Base(projectPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
