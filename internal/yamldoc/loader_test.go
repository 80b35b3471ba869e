package yamldoc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustLoad(t *testing.T, input string) *Document {
	t.Helper()
	doc, err := Load([]byte(input))
	require.NoError(t, err)
	return doc
}

func TestLoadConcreteScenario(t *testing.T) {
	doc := mustLoad(t, `# @description: Example policy
examplePolicy:
  enabled: true
  configPolicies:
    # @desc: First template
    - name: tmpl-a
    # @desc: Second template
    - name: tmpl-b
`)

	desc, ok := doc.Describe(Path{}.Child("examplePolicy"))
	require.True(t, ok)
	assert.Equal(t, "Example policy", desc)

	first, ok := doc.Describe(Path{}.Child("examplePolicy").Child("configPolicies").Elem(0))
	require.True(t, ok)
	assert.Equal(t, "First template", first)

	second, ok := doc.Describe(Path{}.Child("examplePolicy").Child("configPolicies").Elem(1))
	require.True(t, ok)
	assert.Equal(t, "Second template", second)

	_, ok = doc.Describe(Path{}.Child("examplePolicy").Child("enabled"))
	assert.False(t, ok, "enabled has no preceding comment")

	enabled := MapValue(MapValue(doc.Body(), "examplePolicy"), "enabled")
	require.NotNil(t, enabled)
	assert.Equal(t, "true", FormatScalar(enabled))
}

func TestMappingKeyBindingDepth(t *testing.T) {
	doc := mustLoad(t, `parent:
  # @desc: only for first
  first: 1
  second: 2
`)

	desc, ok := doc.Describe(Path{}.Child("parent").Child("first"))
	require.True(t, ok)
	assert.Equal(t, "only for first", desc)

	_, ok = doc.Describe(Path{}.Child("parent").Child("second"))
	assert.False(t, ok, "sibling must not inherit the description")
	_, ok = doc.Describe(Path{}.Child("parent"))
	assert.False(t, ok, "parent must not capture a child's description")
}

func TestSequenceItemBinding(t *testing.T) {
	doc := mustLoad(t, `items:
  # @desc: alpha item
  - name: alpha

  # @description: beta item with a longer description spanning more text
  - name: beta

  # @desc: gamma item
  - name: gamma
`)

	base := Path{}.Child("items")
	for i, want := range []string{
		"alpha item",
		"beta item with a longer description spanning more text",
		"gamma item",
	} {
		got, ok := doc.Describe(base.Elem(i))
		require.True(t, ok, "item %d", i)
		assert.Equal(t, want, got)
	}
}

func TestNestedSequenceBinding(t *testing.T) {
	doc := mustLoad(t, `operatorPolicies:
  # @description: GitOps operator
  - name: openshift-gitops
    # @desc: approved versions
    versions:
      # @desc: initial release
      - v1.5.0
      # @desc: patch release
      - v1.5.1
other: true
`)

	base := Path{}.Child("operatorPolicies")
	item, ok := doc.Describe(base.Elem(0))
	require.True(t, ok)
	assert.Equal(t, "GitOps operator", item)

	versions, ok := doc.Describe(base.Elem(0).Child("versions"))
	require.True(t, ok)
	assert.Equal(t, "approved versions", versions)

	v0, ok := doc.Describe(base.Elem(0).Child("versions").Elem(0))
	require.True(t, ok)
	assert.Equal(t, "initial release", v0)

	v1, ok := doc.Describe(base.Elem(0).Child("versions").Elem(1))
	require.True(t, ok)
	assert.Equal(t, "patch release", v1)
}

// Loading must not alter data values: decoding the loader's tree gives the
// same result as a plain decode of the original text.
func TestRoundTripOfStructure(t *testing.T) {
	input := `stack:
  myComponent:
    enable: true
    # @desc: primary policy
    policies:
      - name: p1
        enabled: false
        categories: [CM Configuration Management]
    limits:
      cpu: 2
      memory: 512Mi
`

	doc := mustLoad(t, input)

	var viaLoader, plain any
	require.NoError(t, doc.Root.Decode(&viaLoader))
	require.NoError(t, yaml.Unmarshal([]byte(input), &plain))
	assert.Equal(t, plain, viaLoader)
}

func TestMultiLineDescriptionRun(t *testing.T) {
	doc := mustLoad(t, `# @description: Enforces the security baseline
# @desc: across all managed clusters
securityPolicy:
  enabled: true
`)

	desc, ok := doc.Describe(Path{}.Child("securityPolicy"))
	require.True(t, ok)
	assert.Equal(t, "Enforces the security baseline across all managed clusters", desc)
}

func TestLastDescriptionWinsForDuplicatePath(t *testing.T) {
	doc := mustLoad(t, `# @desc: first
a: 1
# @desc: second
a: 2
`)

	desc, ok := doc.Describe(Path{}.Child("a"))
	require.True(t, ok)
	assert.Equal(t, "second", desc)
}

func TestUnboundDescriptions(t *testing.T) {
	t.Run("indentation drops below comment", func(t *testing.T) {
		doc := mustLoad(t, `a:
    # @desc: deep orphan
b: 1
`)
		_, ok := doc.Describe(Path{}.Child("b"))
		assert.False(t, ok)
		require.Len(t, doc.Unbound, 1)
		assert.Equal(t, "deep orphan", doc.Unbound[0].Text)
		assert.Equal(t, 2, doc.Unbound[0].Line)
	})

	t.Run("comment at end of file", func(t *testing.T) {
		doc := mustLoad(t, `a: 1
# @desc: trailing
`)
		require.Len(t, doc.Unbound, 1)
		assert.Equal(t, "trailing", doc.Unbound[0].Text)
	})

	t.Run("path unreachable in decoded tree", func(t *testing.T) {
		doc := mustLoad(t, `content: |
  # @desc: inside a block scalar
  looksLikeAKey: value
`)
		require.Len(t, doc.Unbound, 1)
		assert.Equal(t, "inside a block scalar", doc.Unbound[0].Text)
	})
}

func TestPlainCommentsIgnored(t *testing.T) {
	doc := mustLoad(t, `# just a note, not a description
a: 1
# @describe: wrong marker
b: 2
`)
	assert.Empty(t, doc.Index)
	assert.Empty(t, doc.Unbound)
}

func TestParseErrorReportsLine(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"unclosed flow sequence", "key: [unclosed\n"},
		{"bad indentation", "examplePolicy:\n  enabled: true\n   configPolicies: x: y\n"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			_, err := Load([]byte(c.input))
			require.Error(t, err)
			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Greater(t, perr.Line, 0)
			assert.Contains(t, perr.Error(), "line")
		})
	}
}

func TestLoadEmptyDocument(t *testing.T) {
	doc, err := Load([]byte(""))
	require.NoError(t, err)
	assert.Nil(t, doc.Body())
	assert.Empty(t, doc.Index)
}
