package skaffold

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/temirov/repotree/internal/manifest"
)

const (
	artifactImageMissingMessageConstant  = "skaffold artifact has no image"
	artifactImageMissingTemplateConstant = "%w: %s"
	pathSeparatorConstant                = "/"
)

// ErrArtifactImageMissing indicates a skaffold-artifact descriptor without an image.
var ErrArtifactImageMissing = errors.New(artifactImageMissingMessageConstant)

// CollectArtifacts returns one Artifact per entry carrying an artifact descriptor, in manifest order.
// The context is the entry directory relative to the manifest root.
func CollectArtifacts(group manifest.Group) ([]Artifact, error) {
	artifacts := []Artifact{}
	var collectionError error
	group.Walk("", func(parentPath string, entry manifest.Entry) {
		if entry.Artifact == nil || collectionError != nil {
			return
		}
		context := entryPath(parentPath, entry)
		if len(strings.TrimSpace(entry.Artifact.Image)) == 0 {
			collectionError = fmt.Errorf(artifactImageMissingTemplateConstant, ErrArtifactImageMissing, context)
			return
		}
		artifacts = append(artifacts, buildArtifact(*entry.Artifact, context))
	})
	if collectionError != nil {
		return nil, collectionError
	}
	return artifacts, nil
}

// CollectManifests returns the path of every listed manifest file, in manifest order.
func CollectManifests(group manifest.Group) []string {
	manifestPaths := []string{}
	group.Walk("", func(parentPath string, entry manifest.Entry) {
		directory := entryPath(parentPath, entry)
		for _, fileName := range entry.Manifests {
			manifestPaths = append(manifestPaths, path.Join(directory, filepath.ToSlash(fileName)))
		}
	})
	return manifestPaths
}

// AssembleConfig builds the complete Skaffold configuration for group.
func AssembleConfig(group manifest.Group) (Config, error) {
	artifacts, artifactsError := CollectArtifacts(group)
	if artifactsError != nil {
		return Config{}, artifactsError
	}
	return Config{
		APIVersion: APIVersionConstant,
		Kind:       KindConstant,
		Manifests:  Manifests{RawYaml: CollectManifests(group)},
		Build: Build{
			Local:     Local{Push: false},
			Artifacts: artifacts,
		},
	}, nil
}

func buildArtifact(source manifest.ArtifactSource, context string) Artifact {
	dockerfile := strings.TrimSpace(source.Dockerfile)
	if len(dockerfile) == 0 {
		dockerfile = DefaultDockerfileConstant
	}

	artifact := Artifact{
		Image:   source.Image,
		Context: context,
		Docker:  Docker{Dockerfile: dockerfile},
	}
	if len(source.Sync) > 0 {
		rules := make([]SyncRule, 0, len(source.Sync))
		for _, syncSource := range source.Sync {
			rules = append(rules, SyncRule{Destination: SyncDestinationConstant, Source: syncSource})
		}
		artifact.Sync = &Sync{Manual: rules}
	}
	return artifact
}

// entryPath is the slash-separated entry directory without a trailing slash.
func entryPath(parentPath string, entry manifest.Entry) string {
	return strings.TrimSuffix(filepath.ToSlash(entry.Directory(parentPath)), pathSeparatorConstant)
}
