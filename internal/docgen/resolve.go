package docgen

// Collection keys as they appear in the document. They double as the target
// names in dangling-reference messages.
const (
	colConfig      = "configPolicies"
	colOperator    = "operatorPolicies"
	colCertificate = "certificatePolicies"
)

// resolver indexes every named entity of an element's collections so that
// reference resolution is a single map lookup, and accumulates which names
// each policy's reference lists touched. Anonymous entities (no name) are
// excluded from resolution but still rendered by their collection.
type resolver struct {
	configs   map[string]int
	operators map[string]int
	certs     map[string]int

	referenced map[string]map[string]bool
}

func newResolver(c *Component) *resolver {
	r := &resolver{
		configs:   map[string]int{},
		operators: map[string]int{},
		certs:     map[string]int{},
		referenced: map[string]map[string]bool{
			colConfig:      {},
			colOperator:    {},
			colCertificate: {},
		},
	}
	for i, p := range c.ConfigPolicies {
		if p.Name != "" {
			r.configs[p.Name] = i
		}
	}
	for i, p := range c.OperatorPolicies {
		if p.Name != "" {
			r.operators[p.Name] = i
		}
	}
	for i, p := range c.CertificatePolicies {
		if p.Name != "" {
			r.certs[p.Name] = i
		}
	}
	return r
}

// resolve looks up names against one collection's index, recording every
// reference. It returns the indices of resolved entities in reference order
// and the names that matched nothing (dangling references).
func (r *resolver) resolve(collection string, names []string) (found []int, dangling []string) {
	var index map[string]int
	switch collection {
	case colConfig:
		index = r.configs
	case colOperator:
		index = r.operators
	case colCertificate:
		index = r.certs
	}
	for _, name := range names {
		r.referenced[collection][name] = true
		if i, ok := index[name]; ok {
			found = append(found, i)
		} else {
			dangling = append(dangling, name)
		}
	}
	return found, dangling
}

// orphanNames returns, in definition order, the named entities of a
// collection that no policy's reference list mentioned. Recomputed from
// scratch every run; call after all policies have been resolved.
func (r *resolver) orphanNames(collection string, names []string) []string {
	var orphans []string
	for _, name := range names {
		if name == "" {
			continue
		}
		if !r.referenced[collection][name] {
			orphans = append(orphans, name)
		}
	}
	return orphans
}

func configNames(c *Component) []string {
	names := make([]string, len(c.ConfigPolicies))
	for i, p := range c.ConfigPolicies {
		names[i] = p.Name
	}
	return names
}

func operatorNames(c *Component) []string {
	names := make([]string, len(c.OperatorPolicies))
	for i, p := range c.OperatorPolicies {
		names[i] = p.Name
	}
	return names
}

func certificateNames(c *Component) []string {
	names := make([]string, len(c.CertificatePolicies))
	for i, p := range c.CertificatePolicies {
		names[i] = p.Name
	}
	return names
}
