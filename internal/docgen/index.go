package docgen

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RenderIndex renders the cross-element index: one link per documented
// element in lexicographic order, followed by the static comment-notation
// guide. The guide is fixed text, independent of any element's data.
func RenderIndex(elements []string, now time.Time) string {
	sorted := make([]string, len(elements))
	copy(sorted, elements)
	sort.Strings(sorted)

	var sb strings.Builder
	sb.WriteString("# PolicyStack Documentation Index\n\n")
	fmt.Fprintf(&sb, "%s\n\n", TimestampLine(now))
	sb.WriteString("## Available Elements\n\n")

	if len(sorted) == 0 {
		sb.WriteString("No elements documented yet.\n")
	} else {
		for _, name := range sorted {
			fmt.Fprintf(&sb, "- [%s](./%s.md)\n", name, name)
		}
	}
	sb.WriteString("\n")
	sb.WriteString(usageGuide)
	return sb.String()
}

const usageGuide = `## Comment Notation Guide

Use special comment notation in values.yaml files to add descriptions at any level:

### Basic Usage

` + "```yaml" + `
# @description: This policy enforces security standards
security-policy:
  enabled: true
` + "```" + `

### Nested Field Descriptions

` + "```yaml" + `
configPolicies:
  - name: example-config
    # @desc: Whether to actually apply this configuration
    enabled: true

    # @description: Individual template configurations
    templateNames:
      # @desc: Network policy template for namespace isolation
      - name: network-policy
        complianceType: musthave

      # @desc: RBAC template for role bindings
      - name: rbac-config
        complianceType: musthave

    # @description: Template parameters with specific values
    templateParameters:
      # @desc: The namespace to apply policies to
      targetNamespace: production

      # @desc: Severity level for alerts (low/medium/high/critical)
      alertLevel: high
` + "```" + `

### Array Item Descriptions

` + "```yaml" + `
operatorPolicies:
  # @description: GitOps operator for continuous deployment
  - name: openshift-gitops
    enabled: true

    # @desc: Which approved versions can be installed
    versions:
      # @desc: Initial stable release
      - gitops-operator.v1.5.0
      # @desc: Security patch release
      - gitops-operator.v1.5.1
      # @desc: Feature update with performance improvements
      - gitops-operator.v1.6.0
` + "```" + `

## Notes

- Place ` + "`@description:`" + ` or ` + "`@desc:`" + ` comments on the line immediately before the field
- Descriptions work at any nesting level
- Array items can be documented by placing the comment before the item
- Both ` + "`@description:`" + ` and ` + "`@desc:`" + ` are supported (they're equivalent)
`
