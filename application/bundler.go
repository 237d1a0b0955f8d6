// Package application: This file drives the whole bundling pipeline.
package application

import (
	"context"
	"fmt"
	"path/filepath"

	"appbundler/utilities/config"
	"appbundler/utilities/fileManagement"
	"appbundler/utilities/logger"
	"appbundler/utilities/process"
)

// Bundler assembles .app bundles from .NET projects.
type Bundler struct {
	cfg         *config.Config
	description Description
	publisher   *Publisher
	icons       *IconCompiler
}

// NewBundler wires the pipeline steps to cfg and runner.
func NewBundler(cfg *config.Config, runner process.Runner) *Bundler {
	return &Bundler{
		cfg:       cfg,
		publisher: NewPublisher(runner, cfg.Tools.Dotnet),
		icons:     NewIconCompiler(runner, cfg.Tools.Sips, cfg.Tools.Iconutil),
	}
}

// SetDescription applies Info.plist overrides read from a description file.
func (b *Bundler) SetDescription(desc Description) {
	b.description = desc
}

// Assemble builds <OutputDir>/<AppName>.app for req.
//
// Only a failing publish, or a filesystem error while laying out the bundle,
// stops the run. Icon and permission problems are logged as warnings and the
// bundle is still produced.
func (b *Bundler) Assemble(ctx context.Context, req BuildRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	publishDir := PublishDir(b.cfg.ScratchDir, req.AppName)
	if err := b.publisher.Publish(ctx, req.ProjectPath, req.RuntimeID, publishDir); err != nil {
		return err
	}

	layout := NewBundleLayout(req.OutputDir, req.AppName)
	if err := layout.CreateDirectoryStructure(); err != nil {
		return err
	}

	if err := CopyPublished(publishDir, layout.MacOS); err != nil {
		return err
	}

	files, err := ListPublishedFiles(publishDir)
	if err != nil {
		return fmt.Errorf("failed to list published files: %w", err)
	}

	baseName := ProjectBaseName(req.ProjectPath)
	executable, found := DetectExecutable(files, baseName)
	if found {
		logger.Info("Using %s as the bundle executable", executable)
	} else {
		logger.Warn("No executable found in the publish output, assuming %s", executable)
	}

	logger.Info("Writing Info.plist")
	if err := CreatePlist(layout, NewInfoPlistData(executable, req.AppName, b.plistDescription())); err != nil {
		return err
	}

	if err := InstallIcon(ctx, b.icons, req.IconPath, layout.IconPath()); err != nil {
		logger.Warn("Icon not installed: %v", err)
	}

	executablePath := filepath.Join(layout.MacOS, executable)
	if fileManagement.Exists(executablePath) {
		if err := MakeExecutable(executablePath); err != nil {
			logger.Warn("Failed to make %s executable: %v", executablePath, err)
		}
	}

	logger.Info("Bundle created at %s", layout.Root)
	return nil
}

// plistDescription layers the description file over the configured defaults.
func (b *Bundler) plistDescription() Description {
	desc := b.description
	if desc.MinimumMacOSVersion == "" {
		desc.MinimumMacOSVersion = b.cfg.MinimumSystemVersion
	}
	return desc
}
