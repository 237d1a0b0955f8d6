// Package application: This file manages the directory structure of macOS application bundles.
// macOS requires a specific directory structure for .app bundles:
//
//	MyApp.app/
//	  Contents/
//	    Info.plist          (required metadata file)
//	    PkgInfo             (legacy type/creator codes)
//	    MacOS/              (published files, including the executable)
//	    Resources/          (AppIcon.icns)
package application

import (
	"errors"
	"os"
	"path/filepath"

	"appbundler/utilities/logger"
)

// BundleLayout holds the paths of the key directories of one bundle.
type BundleLayout struct {
	Root      string // <output>/<name>.app
	Contents  string // Contents/
	MacOS     string // Contents/MacOS/
	Resources string // Contents/Resources/
}

// NewBundleLayout computes the bundle paths without touching the filesystem.
func NewBundleLayout(outputDir, appName string) BundleLayout {
	root := filepath.Join(outputDir, appName+".app")
	contents := filepath.Join(root, "Contents")

	return BundleLayout{
		Root:      root,
		Contents:  contents,
		MacOS:     filepath.Join(contents, "MacOS"),
		Resources: filepath.Join(contents, "Resources"),
	}
}

// InfoPlistPath is Contents/Info.plist.
func (l BundleLayout) InfoPlistPath() string {
	return filepath.Join(l.Contents, "Info.plist")
}

// PkgInfoPath is Contents/PkgInfo.
func (l BundleLayout) PkgInfoPath() string {
	return filepath.Join(l.Contents, "PkgInfo")
}

// IconPath is Contents/Resources/AppIcon.icns.
func (l BundleLayout) IconPath() string {
	return filepath.Join(l.Resources, iconFileName+".icns")
}

// CreateDirectoryStructure removes any existing bundle at the same path and
// creates Contents/MacOS and Contents/Resources. Building a bundle is never
// incremental.
//
// If a directory cannot be created the partially created bundle is deleted.
func (l BundleLayout) CreateDirectoryStructure() error {
	logger.Info("Creating and setting up the bundle directories")

	if l.Root == "" {
		return errors.New("application root directory cannot be empty")
	}

	if err := l.DeleteAll(); err != nil {
		return err
	}

	for _, dir := range []string{l.MacOS, l.Resources} {
		if err := createDir(dir); err != nil {
			_ = l.DeleteAll()
			return err
		}
	}
	return nil
}

// createDir creates a directory and all necessary parent directories.
func createDir(path string) error {
	err := os.MkdirAll(path, 0755)
	if err != nil {
		logger.Debug("Error creating directory %s: %v", path, err)
	}

	return err
}

// DeleteAll removes the entire application bundle directory structure.
func (l BundleLayout) DeleteAll() error {
	err := os.RemoveAll(l.Root)
	if err != nil {
		logger.Debug("Error deleting directory %s: %v", l.Root, err)
	}

	return err
}
