// Package fileManagement provides utilities for file and directory operations.
// This package handles copying files and directory trees, preserving permissions,
// handling symlinks, recreating scratch directories and finding programs in PATH.
package fileManagement

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// CopyDirectory recursively copies a directory tree from source to destination.
// This function:
//   - Preserves file permissions
//   - Handles directories, regular files, and symlinks
//   - Maintains the directory structure
//   - Overwrites files that already exist at the destination
//
// Parameters:
//   - srcDir: Source directory to copy from
//   - dest: Destination directory to copy to (created if missing)
//
// Returns an error if any file operation fails.
func CopyDirectory(srcDir, dest string) error {
	if err := CreateIfNotExists(dest, 0755); err != nil {
		return err
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		sourcePath := filepath.Join(srcDir, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		info, err := entry.Info()
		if err != nil {
			return err
		}

		switch info.Mode() & os.ModeType {
		case os.ModeDir:
			if err := CopyDirectory(sourcePath, destPath); err != nil {
				return err
			}
			if err := os.Chmod(destPath, info.Mode().Perm()); err != nil {
				return err
			}
		case os.ModeSymlink:
			if err := CopySymLink(sourcePath, destPath); err != nil {
				return err
			}
		default:
			if err := Copy(sourcePath, destPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// Copy copies a single file from source to destination.
// The destination is truncated if it exists and receives the source's permission bits.
//
// Parameters:
//   - srcFile: Path to the source file
//   - dstFile: Path to the destination file
//
// Returns an error if the copy operation fails.
func Copy(srcFile, dstFile string) error {
	in, err := os.Open(srcFile)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dstFile, os.O_RDWR|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}

	// OpenFile only applies the mode on creation, and the umask still applies
	return os.Chmod(dstFile, info.Mode().Perm())
}

// Exists checks if a file or directory exists at the given path.
func Exists(filePath string) bool {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return false
	}

	return true
}

// CreateIfNotExists creates a directory if it doesn't already exist.
// This is an idempotent operation - it's safe to call multiple times.
func CreateIfNotExists(dir string, perm os.FileMode) error {
	if Exists(dir) {
		return nil
	}

	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("failed to create directory: '%s', error: '%w'", dir, err)
	}

	return nil
}

// Recreate removes dir and everything below it, then creates it again empty.
func Recreate(dir string, perm os.FileMode) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove directory: '%s', error: '%w'", dir, err)
	}
	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("failed to create directory: '%s', error: '%w'", dir, err)
	}
	return nil
}

// CopySymLink copies a symlink by reading its target and creating a new symlink.
// This preserves the symlink itself, not the file it points to. An existing
// entry at dest is replaced.
func CopySymLink(source, dest string) error {
	link, err := os.Readlink(source)
	if err != nil {
		return err
	}
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Symlink(link, dest)
}

// FindProgramPath locates an executable program in the system PATH.
// This is used to find the external tools: "dotnet", "sips" and "iconutil".
//
// Parameters:
//   - program: Name of the program to find; a path containing a separator is checked directly
//
// Returns:
//   - Full path to the executable
//   - An error if the program is not found
func FindProgramPath(program string) (string, error) {
	path, err := exec.LookPath(program)
	if err != nil {
		return "", fmt.Errorf("program %q not found in PATH: %w", program, err)
	}
	return path, nil
}
