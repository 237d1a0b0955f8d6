// Package application: This file places the application icon into the bundle.
// The icon ends up as Contents/Resources/AppIcon.icns, the file referenced by
// CFBundleIconFile. macOS uses it in Finder, the Dock and other system locations.
package application

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"appbundler/utilities/fileManagement"
	"appbundler/utilities/logger"
)

// InstallIcon writes dst from the user-supplied icon:
//   - .icns files are copied as they are
//   - .png, .jpg and .jpeg images are compiled with sips and iconutil
//   - anything else, a missing file or no icon at all falls back to the default icon
//
// The returned error is never fatal for the bundle; callers log it as a warning.
func InstallIcon(ctx context.Context, compiler *IconCompiler, iconPath, dst string) error {
	logger.Info("Installing the application icon")

	if iconPath == "" {
		logger.Debug("No icon given, using the default icon")
		return compiler.CompileDefault(ctx, dst)
	}

	if !fileManagement.Exists(iconPath) {
		logger.Warn("Icon file %s not found, using the default icon", iconPath)
		return compiler.CompileDefault(ctx, dst)
	}

	switch ext := strings.ToLower(filepath.Ext(iconPath)); ext {
	case ".icns":
		if err := fileManagement.Copy(iconPath, dst); err != nil {
			return fmt.Errorf("failed to copy icon %s: %w", iconPath, err)
		}
		return nil
	case ".png", ".jpg", ".jpeg":
		return compiler.Compile(ctx, iconPath, dst)
	default:
		logger.Warn("Unsupported icon format %q for %s, using the default icon", ext, iconPath)
		return compiler.CompileDefault(ctx, dst)
	}
}
