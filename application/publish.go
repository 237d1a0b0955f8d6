// Package application: This file runs "dotnet publish" to produce the files
// that go into Contents/MacOS.
package application

import (
	"context"
	"fmt"
	"path/filepath"

	"appbundler/utilities/fileManagement"
	"appbundler/utilities/logger"
	"appbundler/utilities/process"
)

// PublishError reports a failed "dotnet publish". It is the only error that
// aborts the pipeline.
type PublishError struct {
	Project string
	Output  string // Captured stdout and stderr of the build
	Err     error
}

// Error includes the captured output, which process.ExitError already carries.
func (e *PublishError) Error() string {
	return fmt.Sprintf("dotnet publish failed for %s: %v", e.Project, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

// Publisher runs the build/publish step.
type Publisher struct {
	runner process.Runner
	dotnet string
}

// NewPublisher creates a publisher invoking the given dotnet program.
func NewPublisher(runner process.Runner, dotnet string) *Publisher {
	return &Publisher{runner: runner, dotnet: dotnet}
}

// PublishDir is the scratch directory receiving the published files of appName.
// Runs for the same application name share, and therefore reset, this directory.
func PublishDir(scratchRoot, appName string) string {
	return filepath.Join(scratchRoot, appName+"-publish")
}

// Publish clears outputDir and publishes projectPath into it as a
// self-contained Release build for runtimeID.
func (p *Publisher) Publish(ctx context.Context, projectPath, runtimeID, outputDir string) error {
	logger.Info("Publishing %s for %s", projectPath, runtimeID)

	if err := fileManagement.Recreate(outputDir, 0755); err != nil {
		return err
	}

	result, err := p.runner.Run(ctx, p.dotnet,
		"publish", projectPath,
		"-c", "Release",
		"-r", runtimeID,
		"--self-contained", "true",
		"-o", outputDir,
	)
	if err != nil {
		return &PublishError{Project: projectPath, Output: result.Output(), Err: err}
	}

	logger.Debug("dotnet publish output:\n%s", result.Output())
	return nil
}
