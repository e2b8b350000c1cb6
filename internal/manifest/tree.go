package manifest

import (
	"fmt"

	"github.com/xlab/treeprint"
)

const (
	artifactAnnotationTemplateConstant  = "image %s"
	manifestsAnnotationTemplateConstant = "%d manifest(s)"
)

// RenderTree draws the group as an indented tree rooted at rootLabel.
// Entries appear under their list label with the resolved name and repository URL.
func RenderTree(group Group, rootLabel string) string {
	tree := treeprint.NewWithRoot(rootLabel)
	appendGroup(tree, group)
	return tree.String()
}

func appendGroup(branch treeprint.Tree, group Group) {
	for _, member := range group.Members {
		childBranch := branch.AddBranch(member.Label)
		switch typedNode := member.Node.(type) {
		case Group:
			appendGroup(childBranch, typedNode)
		case Entries:
			appendEntries(childBranch, typedNode)
		}
	}
}

func appendEntries(branch treeprint.Tree, entries Entries) {
	for _, entry := range entries {
		entryBranch := branch.AddMetaBranch(entry.Repository, entry.ResolvedName())
		if entry.Artifact != nil {
			entryBranch.AddNode(fmt.Sprintf(artifactAnnotationTemplateConstant, entry.Artifact.Image))
		}
		if len(entry.Manifests) > 0 {
			entryBranch.AddNode(fmt.Sprintf(manifestsAnnotationTemplateConstant, len(entry.Manifests)))
		}
	}
}
