package manifest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/temirov/repotree/internal/dependencies"
	"github.com/temirov/repotree/internal/shared"
)

const (
	manifestErrorMessageConstant            = "invalid repository manifest"
	manifestErrorTemplateConstant           = "%s: %s"
	manifestErrorWithCauseTemplateConstant  = "%s: %s: %v"
	manifestErrorWithPathTemplateConstant   = "%s %s: %s"
	manifestErrorFullTemplateConstant       = "%s %s: %s: %v"
	readFailureReasonConstant               = "unable to read file"
	invalidYAMLReasonConstant               = "content is not valid YAML"
	emptyDocumentReasonConstant             = "document is empty"
	rootNotMappingReasonConstant            = "top-level content is not a mapping"
	groupKeyNotScalarReasonTemplateConstant = "key at %s is not a scalar"
	unsupportedValueReasonTemplateConstant  = "value at %s is neither a mapping nor a sequence"
	entryDecodeReasonTemplateConstant       = "entry at %s could not be decoded"
	locationSeparatorConstant               = "."
	locationIndexTemplateConstant           = "%s[%d]"
	rootLocationConstant                    = "<root>"
	mapstructureTagNameConstant             = "mapstructure"
)

// ErrManifest matches every manifest loading failure through errors.Is.
var ErrManifest = errors.New(manifestErrorMessageConstant)

// Error reports a manifest that is missing, unreadable, not YAML, or not shaped as a tree of mappings.
type Error struct {
	Path   string
	Reason string
	Cause  error
}

// Error describes the failure.
func (manifestError *Error) Error() string {
	switch {
	case len(manifestError.Path) > 0 && manifestError.Cause != nil:
		return fmt.Sprintf(manifestErrorFullTemplateConstant, manifestErrorMessageConstant, manifestError.Path, manifestError.Reason, manifestError.Cause)
	case len(manifestError.Path) > 0:
		return fmt.Sprintf(manifestErrorWithPathTemplateConstant, manifestErrorMessageConstant, manifestError.Path, manifestError.Reason)
	case manifestError.Cause != nil:
		return fmt.Sprintf(manifestErrorWithCauseTemplateConstant, manifestErrorMessageConstant, manifestError.Reason, manifestError.Cause)
	default:
		return fmt.Sprintf(manifestErrorTemplateConstant, manifestErrorMessageConstant, manifestError.Reason)
	}
}

// Unwrap exposes the underlying cause.
func (manifestError *Error) Unwrap() error {
	return manifestError.Cause
}

// Is reports whether target is ErrManifest.
func (manifestError *Error) Is(target error) bool {
	return target == ErrManifest
}

type entryDocument struct {
	Repository string          `mapstructure:"repository"`
	Name       any             `mapstructure:"name"`
	Artifact   *ArtifactSource `mapstructure:"skaffold-artifact"`
	Manifests  []string        `mapstructure:"skaffold-manifests"`
}

// Load reads the manifest stored at filePath through fileSystem and parses it.
// A nil fileSystem reads from the operating system.
func Load(fileSystem shared.FileSystem, filePath string) (Group, error) {
	content, readError := dependencies.ResolveFileSystem(fileSystem).ReadFile(filePath)
	if readError != nil {
		return Group{}, &Error{Path: filePath, Reason: readFailureReasonConstant, Cause: readError}
	}

	group, parseError := Parse(content)
	if parseError != nil {
		var manifestError *Error
		if errors.As(parseError, &manifestError) {
			manifestError.Path = filePath
		}
		return Group{}, parseError
	}
	return group, nil
}

// Parse decodes manifest content. The top-level node must be a mapping.
func Parse(content []byte) (Group, error) {
	var document yaml.Node
	if decodeError := yaml.Unmarshal(content, &document); decodeError != nil {
		return Group{}, &Error{Reason: invalidYAMLReasonConstant, Cause: decodeError}
	}
	if len(document.Content) == 0 {
		return Group{}, &Error{Reason: emptyDocumentReasonConstant}
	}

	rootNode := resolveAlias(document.Content[0])
	if rootNode.Kind != yaml.MappingNode {
		return Group{}, &Error{Reason: rootNotMappingReasonConstant}
	}
	return decodeGroup(rootNode, "")
}

func decodeGroup(mappingNode *yaml.Node, location string) (Group, error) {
	group := Group{Members: make([]Member, 0, len(mappingNode.Content)/2)}
	for pairIndex := 0; pairIndex+1 < len(mappingNode.Content); pairIndex += 2 {
		keyNode := resolveAlias(mappingNode.Content[pairIndex])
		if keyNode.Kind != yaml.ScalarNode {
			return Group{}, &Error{Reason: fmt.Sprintf(groupKeyNotScalarReasonTemplateConstant, describeLocation(location))}
		}

		label := keyNode.Value
		memberLocation := joinLocation(location, label)
		valueNode := resolveAlias(mappingNode.Content[pairIndex+1])

		switch valueNode.Kind {
		case yaml.MappingNode:
			childGroup, childError := decodeGroup(valueNode, memberLocation)
			if childError != nil {
				return Group{}, childError
			}
			group.Members = append(group.Members, Member{Label: label, Node: childGroup})
		case yaml.SequenceNode:
			entries, entriesError := decodeEntries(valueNode, memberLocation)
			if entriesError != nil {
				return Group{}, entriesError
			}
			group.Members = append(group.Members, Member{Label: label, Node: entries})
		case yaml.ScalarNode:
			// scalar leaves carry no repositories
			continue
		default:
			return Group{}, &Error{Reason: fmt.Sprintf(unsupportedValueReasonTemplateConstant, memberLocation)}
		}
	}
	return group, nil
}

func decodeEntries(sequenceNode *yaml.Node, location string) (Entries, error) {
	entries := make(Entries, 0, len(sequenceNode.Content))
	for elementIndex, elementNode := range sequenceNode.Content {
		resolvedElement := resolveAlias(elementNode)
		if resolvedElement.Kind != yaml.MappingNode {
			// plain lists such as skaffold-manifests carry no repositories
			continue
		}

		entry, entryError := decodeEntry(resolvedElement)
		if entryError != nil {
			elementLocation := fmt.Sprintf(locationIndexTemplateConstant, location, elementIndex)
			return nil, &Error{Reason: fmt.Sprintf(entryDecodeReasonTemplateConstant, elementLocation), Cause: entryError}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodeEntry(mappingNode *yaml.Node) (Entry, error) {
	var rawEntry map[string]any
	if decodeError := mappingNode.Decode(&rawEntry); decodeError != nil {
		return Entry{}, decodeError
	}

	var document entryDocument
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          mapstructureTagNameConstant,
		WeaklyTypedInput: true,
		Result:           &document,
	})
	if decoderError != nil {
		return Entry{}, decoderError
	}
	if decodeError := decoder.Decode(rawEntry); decodeError != nil {
		return Entry{}, decodeError
	}

	return Entry{
		Repository: strings.TrimSpace(document.Repository),
		Name:       truthyText(document.Name),
		Artifact:   document.Artifact,
		Manifests:  document.Manifests,
	}, nil
}

// truthyText returns the textual form of a truthy YAML value and an empty string for
// null, false, zero, and empty values.
func truthyText(value any) string {
	switch typedValue := value.(type) {
	case nil:
		return ""
	case string:
		return typedValue
	case bool:
		if !typedValue {
			return ""
		}
		return strconv.FormatBool(typedValue)
	case int:
		if typedValue == 0 {
			return ""
		}
		return strconv.Itoa(typedValue)
	case int64:
		if typedValue == 0 {
			return ""
		}
		return strconv.FormatInt(typedValue, 10)
	case uint64:
		if typedValue == 0 {
			return ""
		}
		return strconv.FormatUint(typedValue, 10)
	case float64:
		if typedValue == 0 {
			return ""
		}
		return strconv.FormatFloat(typedValue, 'g', -1, 64)
	case []any:
		if len(typedValue) == 0 {
			return ""
		}
	case map[string]any:
		if len(typedValue) == 0 {
			return ""
		}
	}
	return fmt.Sprint(value)
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func joinLocation(location string, label string) string {
	if len(location) == 0 {
		return label
	}
	return location + locationSeparatorConstant + label
}

func describeLocation(location string) string {
	if len(location) == 0 {
		return rootLocationConstant
	}
	return location
}
