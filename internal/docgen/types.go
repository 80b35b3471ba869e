package docgen

import "gopkg.in/yaml.v3"

// Component is the recognised schema under stack.<componentName> in a values
// document. Every section is optional; an absent section contributes nothing
// to the rendered report or the statistics. Entities live in parallel sibling
// collections and reference each other by name, never by literal nesting.
type Component struct {
	Enable                  bool                `yaml:"enable"`
	DisablePlacements       bool                `yaml:"disablePlacements"`
	UsePolicySetsPlacements bool                `yaml:"usePolicySetsPlacements"`
	DefaultPolicy           *DefaultPolicy      `yaml:"defaultPolicy"`
	Policies                []Policy            `yaml:"policies"`
	ConfigPolicies          []ConfigPolicy      `yaml:"configPolicies"`
	OperatorPolicies        []OperatorPolicy    `yaml:"operatorPolicies"`
	CertificatePolicies     []CertificatePolicy `yaml:"certificatePolicies"`
	PolicySets              []PolicySet         `yaml:"policySets"`
}

// DefaultPolicy carries compliance metadata applied to every policy that does
// not override it.
type DefaultPolicy struct {
	Categories []string `yaml:"categories"`
	Controls   []string `yaml:"controls"`
	Standards  []string `yaml:"standards"`
}

// Policy is the top-level container entity. Its declared containment of
// sub-policies is expressed through the three reference lists, which name
// entries in the sibling collections of the same element.
type Policy struct {
	Name              string   `yaml:"name"`
	Description       string   `yaml:"description"`
	Enabled           bool     `yaml:"enabled"`
	Disabled          bool     `yaml:"disabled"`
	Severity          string   `yaml:"severity"`
	RemediationAction string   `yaml:"remediationAction"`
	Categories        []string `yaml:"categories"`
	Controls          []string `yaml:"controls"`
	Standards         []string `yaml:"standards"`

	ConfigPolicies      []string `yaml:"configPolicies"`
	OperatorPolicies    []string `yaml:"operatorPolicies"`
	CertificatePolicies []string `yaml:"certificatePolicies"`
}

// TemplateName is one template entry of a configuration policy. The document
// may spell it as a bare string or as a mapping with a per-template
// compliance type.
type TemplateName struct {
	Name           string `yaml:"name"`
	ComplianceType string `yaml:"complianceType"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (t *TemplateName) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.Name = node.Value
		return nil
	}
	type plain TemplateName
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*t = TemplateName(p)
	return nil
}

// ConfigPolicy describes a configuration policy entity.
type ConfigPolicy struct {
	Name                     string         `yaml:"name"`
	Description              string         `yaml:"description"`
	Enabled                  bool           `yaml:"enabled"`
	ComplianceType           string         `yaml:"complianceType"`
	RemediationAction        string         `yaml:"remediationAction"`
	Severity                 string         `yaml:"severity"`
	DisableTemplating        bool           `yaml:"disableTemplating"`
	TemplateNames            []TemplateName `yaml:"templateNames"`
	EnableTemplateParameters bool           `yaml:"enableTemplateParameters"`

	// TemplateParameters stays a raw node so the mapping's insertion order
	// survives into the rendered table.
	TemplateParameters yaml.Node `yaml:"templateParameters"`
}

// Subscription is the operator subscription block of an operator policy.
type Subscription struct {
	Name            string `yaml:"name"`
	Channel         string `yaml:"channel"`
	Source          string `yaml:"source"`
	SourceNamespace string `yaml:"sourceNamespace"`
	StartingCSV     string `yaml:"startingCSV"`
}

// OperatorPolicy describes an operator policy entity.
type OperatorPolicy struct {
	Name              string        `yaml:"name"`
	Description       string        `yaml:"description"`
	Enabled           bool          `yaml:"enabled"`
	Namespace         string        `yaml:"namespace"`
	DisplayName       string        `yaml:"displayName"`
	ComplianceType    string        `yaml:"complianceType"`
	RemediationAction string        `yaml:"remediationAction"`
	Severity          string        `yaml:"severity"`
	UpgradeApproval   string        `yaml:"upgradeApproval"`
	Subscription      *Subscription `yaml:"subscription"`
	Versions          []string      `yaml:"versions"`
}

// CertificatePolicy describes a certificate policy entity.
type CertificatePolicy struct {
	Name                 string `yaml:"name"`
	Description          string `yaml:"description"`
	Enabled              bool   `yaml:"enabled"`
	RemediationAction    string `yaml:"remediationAction"`
	Severity             string `yaml:"severity"`
	DisableTemplating    bool   `yaml:"disableTemplating"`
	MinimumDuration      string `yaml:"minimumDuration"`
	MaximumDuration      string `yaml:"maximumDuration"`
	MinimumCADuration    string `yaml:"minimumCADuration"`
	MaximumCADuration    string `yaml:"maximumCADuration"`
	AllowedSANPattern    string `yaml:"allowedSANPattern"`
	DisallowedSANPattern string `yaml:"disallowedSANPattern"`
}

// PolicySet groups policies by name for shared placement.
type PolicySet struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Enabled     bool     `yaml:"enabled"`
	Policies    []string `yaml:"policies"`
}

// Summary counts the entities defined in each collection of one element.
// Absent collections contribute zero.
type Summary struct {
	Policies            int
	ConfigPolicies      int
	OperatorPolicies    int
	CertificatePolicies int
	PolicySets          int
}

// Total returns the element's combined entity count.
func (s Summary) Total() int {
	return s.Policies + s.ConfigPolicies + s.OperatorPolicies + s.CertificatePolicies + s.PolicySets
}

// WarningKind classifies non-fatal conditions surfaced during generation.
type WarningKind string

const (
	WarnUnboundDescription WarningKind = "unbound-description"
	WarnDanglingReference  WarningKind = "dangling-reference"
	WarnOrphanedEntity     WarningKind = "orphaned-entity"
)

// Warning is a non-fatal condition detected while generating one element.
// Dangling references and orphans also appear in the rendered report; none
// of them abort generation.
type Warning struct {
	Kind    WarningKind
	Message string
	Line    int
}
