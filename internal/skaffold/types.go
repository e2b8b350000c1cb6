package skaffold

const (
	// APIVersionConstant is the Skaffold schema version written to every configuration.
	APIVersionConstant = "skaffold/v4beta3"
	// KindConstant is the Skaffold document kind.
	KindConstant = "Config"
	// DefaultDockerfileConstant is used when an artifact descriptor names no Dockerfile.
	DefaultDockerfileConstant = "Dockerfile"
	// SyncDestinationConstant is the destination of every manual sync rule.
	SyncDestinationConstant = "."
)

// Config is the generated skaffold.yaml document.
type Config struct {
	APIVersion string    `yaml:"apiVersion"`
	Kind       string    `yaml:"kind"`
	Manifests  Manifests `yaml:"manifests"`
	Build      Build     `yaml:"build"`
}

// Manifests lists raw Kubernetes manifests deployed by Skaffold.
type Manifests struct {
	RawYaml []string `yaml:"rawYaml"`
}

// Build configures local builds and the artifacts they produce.
type Build struct {
	Local     Local      `yaml:"local"`
	Artifacts []Artifact `yaml:"artifacts"`
}

// Local configures the local builder.
type Local struct {
	Push bool `yaml:"push"`
}

// Artifact describes one image built from a repository checkout.
type Artifact struct {
	Image   string `yaml:"image"`
	Context string `yaml:"context"`
	Docker  Docker `yaml:"docker"`
	Sync    *Sync  `yaml:"sync,omitempty"`
}

// Docker selects the Dockerfile of an artifact.
type Docker struct {
	Dockerfile string `yaml:"dockerfile"`
}

// Sync holds file sync rules applied without rebuilding.
type Sync struct {
	Manual []SyncRule `yaml:"manual"`
}

// SyncRule copies files matching Source into Destination inside the container.
type SyncRule struct {
	Destination string `yaml:"dest"`
	Source      string `yaml:"src"`
}
