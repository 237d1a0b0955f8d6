// Package application: This file copies the published files into Contents/MacOS
// and makes the detected executable runnable.
package application

import (
	"fmt"
	"io/fs"
	"os"

	"appbundler/utilities/fileManagement"
	"appbundler/utilities/logger"
)

// executeBits are the owner, group and other execute permissions.
const executeBits fs.FileMode = 0111

// PublishedFile is one top-level file of the publish output.
type PublishedFile struct {
	Name string
	Mode fs.FileMode
}

// ListPublishedFiles returns the regular files directly inside publishDir in
// directory order (sorted by name). Subdirectories are not descended into.
func ListPublishedFiles(publishDir string) ([]PublishedFile, error) {
	entries, err := os.ReadDir(publishDir)
	if err != nil {
		return nil, err
	}

	files := make([]PublishedFile, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		files = append(files, PublishedFile{Name: entry.Name(), Mode: info.Mode()})
	}
	return files, nil
}

// CopyPublished copies everything dotnet publish produced into Contents/MacOS.
// Nothing is filtered: debug symbols and metadata files travel along.
func CopyPublished(publishDir, macosDir string) error {
	logger.Info("Copying the published files")

	if err := fileManagement.CopyDirectory(publishDir, macosDir); err != nil {
		return fmt.Errorf("failed to copy published files to %s: %w", macosDir, err)
	}
	return nil
}

// MakeExecutable adds the execute bits to path, keeping every bit it already has.
func MakeExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode() & (fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky)
	return os.Chmod(path, mode|executeBits)
}
