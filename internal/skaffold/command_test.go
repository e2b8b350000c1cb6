package skaffold_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/repotree/internal/filesystem"
	"github.com/temirov/repotree/internal/manifest"
	"github.com/temirov/repotree/internal/skaffold"
)

func writeManifestFile(t *testing.T, memoryFileSystem filesystem.AferoFileSystem, content string) string {
	t.Helper()
	manifestPath := filepath.Join("config", "repositories.yaml")
	require.NoError(t, memoryFileSystem.MkdirAll("config", 0o755))
	require.NoError(t, memoryFileSystem.WriteFile(manifestPath, []byte(content), 0o600))
	return manifestPath
}

func executeSkaffoldCommand(t *testing.T, builder skaffold.CommandBuilder, arguments ...string) (string, error) {
	t.Helper()
	command, buildError := builder.Build()
	require.NoError(t, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(arguments)
	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestSkaffoldCommandWritesConfiguration(t *testing.T) {
	memoryFileSystem := filesystem.NewMemoryFileSystem()
	require.NoError(t, memoryFileSystem.WriteFile("skaffold.yaml", []byte("stale: true\nleftover: content that is longer than nothing\n"), 0o644))

	builder := skaffold.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() skaffold.CommandConfiguration {
			return skaffold.CommandConfiguration{ManifestPath: writeManifestFile(t, memoryFileSystem, richManifestConstant)}
		},
		FileSystem: memoryFileSystem,
	}

	output, executionError := executeSkaffoldCommand(t, builder)
	require.NoError(t, executionError)
	require.Equal(t, "wrote skaffold.yaml: 2 artifacts, 2 manifests\n", output)

	written, readError := memoryFileSystem.ReadFile("skaffold.yaml")
	require.NoError(t, readError)
	require.Equal(t, richRenderedConstant, string(written))
}

func TestSkaffoldCommandHonorsOutputFlag(t *testing.T) {
	memoryFileSystem := filesystem.NewMemoryFileSystem()
	builder := skaffold.CommandBuilder{
		ConfigurationProvider: func() skaffold.CommandConfiguration {
			return skaffold.CommandConfiguration{ManifestPath: writeManifestFile(t, memoryFileSystem, singleEntryManifestConstant)}
		},
		FileSystem: memoryFileSystem,
	}

	outputPath := filepath.Join("deploy", "skaffold.yaml")
	_, executionError := executeSkaffoldCommand(t, builder, "--output", outputPath)
	require.NoError(t, executionError)

	written, readError := memoryFileSystem.ReadFile(outputPath)
	require.NoError(t, readError)
	require.Contains(t, string(written), "context: team/project/svc.git")
	require.Contains(t, string(written), "- team/project/svc.git/deploy.yaml")
}

func TestSkaffoldCommandFailsOnInvalidManifest(t *testing.T) {
	memoryFileSystem := filesystem.NewMemoryFileSystem()
	builder := skaffold.CommandBuilder{
		ConfigurationProvider: func() skaffold.CommandConfiguration {
			return skaffold.CommandConfiguration{ManifestPath: writeManifestFile(t, memoryFileSystem, "- just\n- a list\n")}
		},
		FileSystem: memoryFileSystem,
	}

	_, executionError := executeSkaffoldCommand(t, builder)
	require.ErrorIs(t, executionError, manifest.ErrManifest)

	_, statError := memoryFileSystem.Stat(skaffold.DefaultOutputPathConstant)
	require.Error(t, statError)
}

func TestSkaffoldConfigurationDefaults(t *testing.T) {
	require.Equal(t, skaffold.CommandConfiguration{ManifestPath: "repositories.yaml", OutputPath: "skaffold.yaml"}, skaffold.CommandConfiguration{OutputPath: "  "}.Sanitize())

	defaults := skaffold.DefaultConfigurationValues("tools.skaffold")
	require.Equal(t, "skaffold.yaml", defaults["tools.skaffold.output"])
}
