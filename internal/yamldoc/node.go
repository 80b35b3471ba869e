package yamldoc

import "gopkg.in/yaml.v3"

func documentBody(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		return deref(n.Content[0])
	}
	return deref(n)
}

func deref(n *yaml.Node) *yaml.Node {
	if n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		return n.Alias
	}
	return n
}

// MapValue returns the value node for key in a mapping node, or nil when the
// node is not a mapping or the key is absent.
func MapValue(n *yaml.Node, key string) *yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return deref(n.Content[i+1])
		}
	}
	return nil
}

// resolvePath walks the decoded tree along p and returns the node it
// addresses, or nil when any step cannot be taken.
func resolvePath(root *yaml.Node, p Path) *yaml.Node {
	n := documentBody(root)
	for _, s := range p {
		if n == nil {
			return nil
		}
		if s.IsIndex() {
			if n.Kind != yaml.SequenceNode || s.Index() >= len(n.Content) {
				return nil
			}
			n = deref(n.Content[s.Index()])
		} else {
			n = MapValue(n, s.Key())
		}
	}
	return n
}

// FormatScalar renders a scalar node for output: booleans and numbers as
// their canonical literal, strings verbatim, null or absent values as "-".
func FormatScalar(n *yaml.Node) string {
	n = deref(n)
	if n == nil || n.Tag == "!!null" {
		return "-"
	}
	return n.Value
}
