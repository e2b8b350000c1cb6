package skaffold

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/temirov/repotree/internal/shared"
)

const (
	// DefaultOutputPathConstant is the configuration file written when nothing else is configured.
	DefaultOutputPathConstant          = "skaffold.yaml"
	yamlIndentConstant                 = 2
	renderFailureTemplateConstant      = "render skaffold configuration: %w"
	directoryFailureTemplateConstant   = "create directory for %s: %w"
	writeFailureTemplateConstant       = "write skaffold configuration %s: %w"
	outputFilePermissionsConstant      = fs.FileMode(0o644)
	outputDirectoryPermissionsConstant = fs.FileMode(0o755)
)

// Render serializes config as YAML with two-space indentation.
func Render(config Config) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndentConstant)
	if encodeError := encoder.Encode(config); encodeError != nil {
		return nil, fmt.Errorf(renderFailureTemplateConstant, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return nil, fmt.Errorf(renderFailureTemplateConstant, closeError)
	}
	return buffer.Bytes(), nil
}

// Write renders config and replaces the contents of outputPath.
func Write(fileSystem shared.FileSystem, outputPath string, config Config) error {
	rendered, renderError := Render(config)
	if renderError != nil {
		return renderError
	}

	parentDirectory := filepath.Dir(outputPath)
	if parentDirectory != "." {
		if directoryError := fileSystem.MkdirAll(parentDirectory, outputDirectoryPermissionsConstant); directoryError != nil {
			return fmt.Errorf(directoryFailureTemplateConstant, outputPath, directoryError)
		}
	}
	if writeError := fileSystem.WriteFile(outputPath, rendered, outputFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(writeFailureTemplateConstant, outputPath, writeError)
	}
	return nil
}
