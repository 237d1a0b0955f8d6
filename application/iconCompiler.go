// Package application: This file converts a raster image into an .icns file.
// An .icns file is compiled by iconutil from an .iconset directory that holds
// the image at every standard size, each in normal and @2x resolution:
//
//	AppIcon.iconset/
//	  icon_16x16.png      icon_16x16@2x.png   (32 px)
//	  icon_32x32.png      icon_32x32@2x.png   (64 px)
//	  ...
//	  icon_512x512.png    icon_512x512@2x.png (1024 px)
package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"appbundler/utilities/logger"
	"appbundler/utilities/process"
)

// iconSizes are the nominal sizes of an iconset; each also gets a @2x variant.
var iconSizes = []int{16, 32, 128, 256, 512}

// IconCompiler drives sips and iconutil.
type IconCompiler struct {
	runner   process.Runner
	sips     string
	iconutil string
}

// NewIconCompiler creates an icon compiler using the given tool programs.
func NewIconCompiler(runner process.Runner, sips, iconutil string) *IconCompiler {
	return &IconCompiler{runner: runner, sips: sips, iconutil: iconutil}
}

// iconVariantName is the file name iconutil expects for a size and scale.
func iconVariantName(size int, retina bool) string {
	if retina {
		return fmt.Sprintf("icon_%dx%d@2x.png", size, size)
	}
	return fmt.Sprintf("icon_%dx%d.png", size, size)
}

// Compile converts src into the .icns file dst.
//
// Each resize is independent: a failed sips call is logged and the remaining
// variants are still produced. A failed iconutil call is returned. The scratch
// directory holding the iconset is removed in every case.
func (c *IconCompiler) Compile(ctx context.Context, src, dst string) error {
	scratch, err := os.MkdirTemp("", "appbundler-icon-")
	if err != nil {
		return fmt.Errorf("failed to create icon scratch directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			logger.Warn("Failed to remove icon scratch directory %s: %v", scratch, err)
		}
	}()

	iconset := filepath.Join(scratch, iconFileName+".iconset")
	if err := os.Mkdir(iconset, 0755); err != nil {
		return fmt.Errorf("failed to create iconset directory: %w", err)
	}

	for _, size := range iconSizes {
		c.resize(ctx, src, size, filepath.Join(iconset, iconVariantName(size, false)))
		c.resize(ctx, src, size*2, filepath.Join(iconset, iconVariantName(size, true)))
	}

	result, err := c.runner.Run(ctx, c.iconutil, "-c", "icns", iconset, "-o", dst)
	if err != nil {
		return fmt.Errorf("iconutil failed to compile %s: %w", dst, err)
	}
	if out := result.Output(); out != "" {
		logger.Debug("iconutil output:\n%s", out)
	}

	return nil
}

func (c *IconCompiler) resize(ctx context.Context, src string, pixels int, out string) {
	px := strconv.Itoa(pixels)
	if _, err := c.runner.Run(ctx, c.sips, "-z", px, px, src, "--out", out); err != nil {
		logger.Debug("sips could not produce %s: %v", filepath.Base(out), err)
	}
}
