package docgen

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/policystack/stackdoc/internal/yamldoc"
)

// timestampFormat is the layout of the single position-stable timestamp line.
// Check mode matches this line to exclude it from comparison, so it must stay
// the only line that changes between runs over unchanged input.
const timestampFormat = "2006-01-02 15:04:05"

// TimestampLine renders the generation timestamp line for a document.
func TimestampLine(now time.Time) string {
	return fmt.Sprintf("*Generated: %s*", now.Format(timestampFormat))
}

type renderer struct {
	sb       strings.Builder
	el       *Element
	comp     *Component
	base     yamldoc.Path
	res      *resolver
	warnings []Warning
}

func (r *renderer) line(format string, args ...any) {
	fmt.Fprintf(&r.sb, format, args...)
	r.sb.WriteByte('\n')
}

func (r *renderer) blank() { r.sb.WriteByte('\n') }

// describe looks up the description bound to a structural path; fields
// without one render with a blank description column.
func (r *renderer) describe(p yamldoc.Path) string {
	text, _ := r.el.Doc.Describe(p)
	return text
}

// entityDescription prefers an inline description field over an attached
// comment at the entity's own path.
func (r *renderer) entityDescription(inline string, p yamldoc.Path) string {
	if inline != "" {
		return inline
	}
	return r.describe(p)
}

func (r *renderer) tableHeader(cols ...string) {
	r.line("| %s |", strings.Join(cols, " | "))
	dashes := make([]string, len(cols))
	for i, c := range cols {
		dashes[i] = strings.Repeat("-", len(c))
	}
	r.line("| %s |", strings.Join(dashes, " | "))
}

func (r *renderer) row(param, value, desc string) {
	r.line("| %s | `%s` | %s |", param, value, desc)
}

func boolValue(b bool) string { return strconv.FormatBool(b) }

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinList(values []string) string {
	return strings.Join(values, ", ")
}

func (r *renderer) warn(kind WarningKind, line int, format string, args ...any) {
	r.warnings = append(r.warnings, Warning{Kind: kind, Message: fmt.Sprintf(format, args...), Line: line})
}

// section pairs a top-level document key with its renderer. The engine walks
// this fixed list in order and skips absent sections cleanly, which keeps the
// traversal declarative instead of a nest of conditionals.
type section struct {
	key     string
	present func() bool
	render  func()
}

func renderElement(el *Element, comp *Component, now time.Time) (string, []Warning) {
	r := &renderer{
		el:   el,
		comp: comp,
		base: yamldoc.Path{}.Child("stack").Child(el.ComponentName()),
		res:  newResolver(comp),
	}

	for _, u := range el.Doc.Unbound {
		r.warn(WarnUnboundDescription, u.Line, "description %q could not be attached to any node", u.Text)
	}

	r.line("# %s - Policy Library Documentation", el.Meta.Name)
	r.blank()
	if el.Meta.Description != "" {
		r.line("> %s", el.Meta.Description)
		r.blank()
	}
	r.line("%s", TimestampLine(now))
	r.blank()

	// Fixed, schema-driven traversal order. The three sub-policy sections
	// cover the entities no policy resolved (anonymous or orphaned);
	// referenced entities render nested under their policy. present() is
	// evaluated lazily so it sees the reference sets accumulated by the
	// policies section.
	sections := []section{
		{"enable", func() bool { return true }, r.componentSection},
		{"defaultPolicy", func() bool { return comp.DefaultPolicy != nil }, r.defaultPolicySection},
		{"policies", func() bool { return len(comp.Policies) > 0 }, r.policiesSection},
		{colConfig, func() bool { return len(r.unreferenced(colConfig)) > 0 }, r.unreferencedConfigSection},
		{colOperator, func() bool { return len(r.unreferenced(colOperator)) > 0 }, r.unreferencedOperatorSection},
		{colCertificate, func() bool { return len(r.unreferenced(colCertificate)) > 0 }, r.unreferencedCertificateSection},
		{"policySets", func() bool { return len(comp.PolicySets) > 0 }, r.policySetsSection},
		{"warnings", r.hasWarningsSection, r.warningsSection},
		{"summary", func() bool { return true }, r.summarySection},
	}
	for _, s := range sections {
		if s.present() {
			s.render()
		}
	}

	return r.sb.String(), r.warnings
}

func (r *renderer) componentSection() {
	r.line("## Component Configuration")
	r.blank()
	r.tableHeader("Parameter", "Value", "Description")
	r.row("Component", r.el.ComponentName(), r.describe(r.base))
	r.row("Enabled", boolValue(r.comp.Enable), r.describe(r.base.Child("enable")))
	if r.comp.DisablePlacements {
		r.row("Disable Placements", boolValue(r.comp.DisablePlacements), r.describe(r.base.Child("disablePlacements")))
	}
	if r.comp.UsePolicySetsPlacements {
		r.row("Use PolicySet Placements", boolValue(r.comp.UsePolicySetsPlacements), r.describe(r.base.Child("usePolicySetsPlacements")))
	}
	r.blank()
}

func (r *renderer) defaultPolicySection() {
	dp := r.comp.DefaultPolicy
	path := r.base.Child("defaultPolicy")

	r.line("## Default Policy Values")
	r.blank()
	if desc := r.describe(path); desc != "" {
		r.line("%s", desc)
		r.blank()
	}
	r.tableHeader("Type", "Values", "Description")
	if len(dp.Categories) > 0 {
		r.line("| Categories | %s | %s |", joinList(dp.Categories), r.describe(path.Child("categories")))
	}
	if len(dp.Controls) > 0 {
		r.line("| Controls | %s | %s |", joinList(dp.Controls), r.describe(path.Child("controls")))
	}
	if len(dp.Standards) > 0 {
		r.line("| Standards | %s | %s |", joinList(dp.Standards), r.describe(path.Child("standards")))
	}
	r.blank()
}

func (r *renderer) policiesSection() {
	r.line("## Policies")
	r.blank()
	for i := range r.comp.Policies {
		r.policySection(&r.comp.Policies[i], r.base.Child("policies").Elem(i))
	}
}

func (r *renderer) policySection(p *Policy, path yamldoc.Path) {
	r.line("### 📋 Policy: %s", orDash(p.Name))
	if desc := r.entityDescription(p.Description, path); desc != "" {
		r.line("> %s", desc)
	}
	r.blank()
	r.tableHeader("Parameter", "Value", "Description")
	r.row("Name", p.Name+"-<release>", "Full policy name including release")
	r.row("Enabled", boolValue(p.Enabled), r.describe(path.Child("enabled")))
	if p.Disabled {
		r.row("Disabled", boolValue(p.Disabled), r.describe(path.Child("disabled")))
	}
	if p.Severity != "" {
		r.row("Severity", p.Severity, r.describe(path.Child("severity")))
	}
	if p.RemediationAction != "" {
		r.row("Remediation", p.RemediationAction, r.describe(path.Child("remediationAction")))
	}
	r.blank()

	r.complianceMetadata(p, path)
	r.subPolicies(p, path)

	r.line("---")
	r.blank()
}

// complianceMetadata renders the policy's categories, controls and standards,
// falling back to the element defaults with a "(default)" marker when the
// policy does not override them.
func (r *renderer) complianceMetadata(p *Policy, path yamldoc.Path) {
	dp := r.comp.DefaultPolicy
	if dp == nil {
		dp = &DefaultPolicy{}
	}
	type metaRow struct {
		label    string
		field    string
		own      []string
		fallback []string
	}
	rows := []metaRow{
		{"Categories", "categories", p.Categories, dp.Categories},
		{"Controls", "controls", p.Controls, dp.Controls},
		{"Standards", "standards", p.Standards, dp.Standards},
	}

	any := false
	for _, m := range rows {
		if len(m.own) > 0 || len(m.fallback) > 0 {
			any = true
		}
	}
	if !any {
		return
	}

	r.line("#### Compliance Metadata")
	r.blank()
	r.tableHeader("Type", "Values", "Description")
	for _, m := range rows {
		values, source := m.own, ""
		if len(values) == 0 {
			values, source = m.fallback, " (default)"
		}
		if len(values) == 0 {
			continue
		}
		r.line("| %s | %s%s | %s |", m.label, joinList(values), source, r.describe(path.Child(m.field)))
	}
	r.blank()
}

// subPolicies resolves the policy's reference lists against the sibling
// collections and renders every resolved entity one level deeper. Unresolved
// names render inline as dangling references.
func (r *renderer) subPolicies(p *Policy, path yamldoc.Path) {
	cfgIdx, cfgDangling := r.res.resolve(colConfig, p.ConfigPolicies)
	opIdx, opDangling := r.res.resolve(colOperator, p.OperatorPolicies)
	certIdx, certDangling := r.res.resolve(colCertificate, p.CertificatePolicies)

	total := len(cfgIdx) + len(opIdx) + len(certIdx) +
		len(cfgDangling) + len(opDangling) + len(certDangling)
	if total == 0 {
		return
	}

	r.line("#### Associated Sub-Policies")
	r.blank()

	if len(cfgIdx) > 0 || len(cfgDangling) > 0 {
		r.line("##### Configuration Policies")
		r.blank()
		for _, i := range cfgIdx {
			r.configPolicySection(&r.comp.ConfigPolicies[i], p.Name, r.base.Child(colConfig).Elem(i), "######")
		}
		r.danglingRefs(p.Name, colConfig, cfgDangling)
	}
	if len(opIdx) > 0 || len(opDangling) > 0 {
		r.line("##### Operator Policies")
		r.blank()
		for _, i := range opIdx {
			r.operatorPolicySection(&r.comp.OperatorPolicies[i], p.Name, r.base.Child(colOperator).Elem(i), "######")
		}
		r.danglingRefs(p.Name, colOperator, opDangling)
	}
	if len(certIdx) > 0 || len(certDangling) > 0 {
		r.line("##### Certificate Policies")
		r.blank()
		for _, i := range certIdx {
			r.certificatePolicySection(&r.comp.CertificatePolicies[i], p.Name, r.base.Child(colCertificate).Elem(i), "######")
		}
		r.danglingRefs(p.Name, colCertificate, certDangling)
	}
}

// unreferenced returns the indices of a collection's entities that no policy
// rendered: anonymous entries plus orphans. They get their own section so
// every defined entity appears in the report exactly once.
func (r *renderer) unreferenced(collection string) []int {
	var names []string
	switch collection {
	case colConfig:
		names = configNames(r.comp)
	case colOperator:
		names = operatorNames(r.comp)
	case colCertificate:
		names = certificateNames(r.comp)
	}
	var idx []int
	for i, name := range names {
		if name == "" || !r.res.referenced[collection][name] {
			idx = append(idx, i)
		}
	}
	return idx
}

func (r *renderer) unreferencedConfigSection() {
	r.line("## Configuration Policies")
	r.blank()
	for _, i := range r.unreferenced(colConfig) {
		r.configPolicySection(&r.comp.ConfigPolicies[i], "", r.base.Child(colConfig).Elem(i), "###")
	}
}

func (r *renderer) unreferencedOperatorSection() {
	r.line("## Operator Policies")
	r.blank()
	for _, i := range r.unreferenced(colOperator) {
		r.operatorPolicySection(&r.comp.OperatorPolicies[i], "", r.base.Child(colOperator).Elem(i), "###")
	}
}

func (r *renderer) unreferencedCertificateSection() {
	r.line("## Certificate Policies")
	r.blank()
	for _, i := range r.unreferenced(colCertificate) {
		r.certificatePolicySection(&r.comp.CertificatePolicies[i], "", r.base.Child(colCertificate).Elem(i), "###")
	}
}

// qualifiedName joins the owning policy's name with the sub-policy name the
// way the chart templates do; standalone entities keep their bare name.
func qualifiedName(policyName, name string) string {
	if name == "" {
		return "-"
	}
	if policyName == "" {
		return name
	}
	return policyName + "-" + name
}

func (r *renderer) danglingRefs(policyName, collection string, names []string) {
	for _, name := range names {
		r.line("- ⚠️ Dangling reference: `%s` not found in %s", name, collection)
		r.warn(WarnDanglingReference, 0, "policy %q references %q, absent from %s", policyName, name, collection)
	}
	if len(names) > 0 {
		r.blank()
	}
}

func (r *renderer) configPolicySection(c *ConfigPolicy, policyName string, path yamldoc.Path, heading string) {
	r.line("%s ⚙️ Config: %s", heading, orDash(c.Name))
	if desc := r.entityDescription(c.Description, path); desc != "" {
		r.line("> %s", desc)
	}
	r.blank()
	r.line("**Basic Configuration:**")
	r.blank()
	r.tableHeader("Parameter", "Value", "Description")
	r.row("Name", qualifiedName(policyName, c.Name), "Configuration policy identifier")
	r.row("Enabled", boolValue(c.Enabled), r.describe(path.Child("enabled")))
	r.row("Compliance Type", orDash(c.ComplianceType), r.describe(path.Child("complianceType")))
	r.row("Remediation", orDash(c.RemediationAction), r.describe(path.Child("remediationAction")))
	r.row("Severity", orDash(c.Severity), r.describe(path.Child("severity")))
	if c.DisableTemplating {
		r.row("Template Processing", "disabled", r.describe(path.Child("disableTemplating")))
	}
	r.blank()

	if len(c.TemplateNames) > 0 {
		r.line("**Templates:**")
		r.blank()
		r.tableHeader("Template File", "Compliance Type", "Description")
		for i, t := range c.TemplateNames {
			compliance := t.ComplianceType
			if compliance == "" {
				compliance = "inherited"
			}
			tPath := path.Child("templateNames").Elem(i)
			r.line("| `converters/%s.yaml` | %s | %s |", t.Name, compliance, r.describe(tPath))
		}
		r.blank()
	}

	if c.EnableTemplateParameters && c.TemplateParameters.Kind == yaml.MappingNode {
		r.line("**Template Parameters:**")
		r.blank()
		r.tableHeader("Parameter", "Value", "Description")
		params := &c.TemplateParameters
		for i := 0; i+1 < len(params.Content); i += 2 {
			key := params.Content[i].Value
			value := yamldoc.FormatScalar(params.Content[i+1])
			r.line("| `%s` | `%s` | %s |", key, value, r.describe(path.Child("templateParameters").Child(key)))
		}
		r.blank()
	}
}

func (r *renderer) operatorPolicySection(o *OperatorPolicy, policyName string, path yamldoc.Path, heading string) {
	r.line("%s 🔧 Operator: %s", heading, orDash(o.Name))
	if desc := r.entityDescription(o.Description, path); desc != "" {
		r.line("> %s", desc)
	}
	r.blank()
	r.line("**Basic Configuration:**")
	r.blank()
	r.tableHeader("Parameter", "Value", "Description")
	r.row("Name", qualifiedName(policyName, o.Name), "Operator policy identifier")
	r.row("Enabled", boolValue(o.Enabled), r.describe(path.Child("enabled")))
	r.row("Namespace", orDash(o.Namespace), r.describe(path.Child("namespace")))
	displayName := o.DisplayName
	if displayName == "" && o.Subscription != nil {
		displayName = o.Subscription.Name
	}
	r.row("Display Name", orDash(displayName), r.describe(path.Child("displayName")))
	r.row("Compliance Type", orDash(o.ComplianceType), r.describe(path.Child("complianceType")))
	r.row("Remediation", orDash(o.RemediationAction), r.describe(path.Child("remediationAction")))
	r.row("Severity", orDash(o.Severity), r.describe(path.Child("severity")))
	if o.UpgradeApproval != "" {
		r.row("Upgrade Approval", o.UpgradeApproval, r.describe(path.Child("upgradeApproval")))
	}
	r.blank()

	if o.Subscription != nil {
		sub := o.Subscription
		subPath := path.Child("subscription")
		r.line("**Subscription Details:**")
		r.blank()
		r.tableHeader("Parameter", "Value", "Description")
		r.row("Name", orDash(sub.Name), r.describe(subPath.Child("name")))
		r.row("Channel", orDash(sub.Channel), r.describe(subPath.Child("channel")))
		r.row("Source", orDash(sub.Source), r.describe(subPath.Child("source")))
		r.row("Source Namespace", orDash(sub.SourceNamespace), r.describe(subPath.Child("sourceNamespace")))
		if sub.StartingCSV != "" {
			r.row("Starting CSV", sub.StartingCSV, r.describe(subPath.Child("startingCSV")))
		}
		r.blank()
	}

	if len(o.Versions) > 0 {
		r.line("**Approved Versions:**")
		r.blank()
		if desc := r.describe(path.Child("versions")); desc != "" {
			r.line("*%s*", desc)
			r.blank()
		}
		for i, v := range o.Versions {
			if desc := r.describe(path.Child("versions").Elem(i)); desc != "" {
				r.line("- `%s` - %s", v, desc)
			} else {
				r.line("- `%s`", v)
			}
		}
		r.blank()
	}
}

func (r *renderer) certificatePolicySection(c *CertificatePolicy, policyName string, path yamldoc.Path, heading string) {
	r.line("%s 🔐 Certificate: %s", heading, orDash(c.Name))
	if desc := r.entityDescription(c.Description, path); desc != "" {
		r.line("> %s", desc)
	}
	r.blank()
	r.line("**Basic Configuration:**")
	r.blank()
	r.tableHeader("Parameter", "Value", "Description")
	r.row("Name", qualifiedName(policyName, c.Name), "Certificate policy identifier")
	r.row("Enabled", boolValue(c.Enabled), r.describe(path.Child("enabled")))
	r.row("Remediation", orDash(c.RemediationAction), r.describe(path.Child("remediationAction")))
	r.row("Severity", orDash(c.Severity), r.describe(path.Child("severity")))
	if c.DisableTemplating {
		r.row("Template Processing", "disabled", r.describe(path.Child("disableTemplating")))
	}
	r.blank()

	if c.MinimumDuration != "" || c.MaximumDuration != "" || c.MinimumCADuration != "" || c.MaximumCADuration != "" {
		r.line("**Duration Requirements:**")
		r.blank()
		r.tableHeader("Type", "Minimum", "Maximum")
		r.line("| Certificate | %s | %s |", orDash(c.MinimumDuration), orDash(c.MaximumDuration))
		r.line("| CA Certificate | %s | %s |", orDash(c.MinimumCADuration), orDash(c.MaximumCADuration))
		r.blank()
	}

	if c.AllowedSANPattern != "" || c.DisallowedSANPattern != "" {
		r.line("**SAN Patterns:**")
		r.blank()
		if c.AllowedSANPattern != "" {
			r.line("- Allowed Pattern: `%s` %s", c.AllowedSANPattern, r.describe(path.Child("allowedSANPattern")))
		}
		if c.DisallowedSANPattern != "" {
			r.line("- Disallowed Pattern: `%s` %s", c.DisallowedSANPattern, r.describe(path.Child("disallowedSANPattern")))
		}
		r.blank()
	}
}

func (r *renderer) policySetsSection() {
	r.line("## PolicySets")
	r.blank()
	for i := range r.comp.PolicySets {
		ps := &r.comp.PolicySets[i]
		path := r.base.Child("policySets").Elem(i)

		r.line("### 📦 PolicySet: %s", orDash(ps.Name))
		if desc := r.entityDescription(ps.Description, path); desc != "" {
			r.line("> %s", desc)
		}
		r.blank()
		r.tableHeader("Parameter", "Value", "Description")
		r.row("Name", ps.Name+"-<release>", "PolicySet identifier")
		r.row("Enabled", boolValue(ps.Enabled), r.describe(path.Child("enabled")))
		r.blank()

		if len(ps.Policies) > 0 {
			r.line("**Included Policies:**")
			r.blank()
			for _, name := range ps.Policies {
				r.line("- `%s-<release>`", name)
			}
			r.blank()
		}

		r.line("---")
		r.blank()
	}
}

func (r *renderer) orphansByCollection() (configs, operators, certs []string) {
	return r.res.orphanNames(colConfig, configNames(r.comp)),
		r.res.orphanNames(colOperator, operatorNames(r.comp)),
		r.res.orphanNames(colCertificate, certificateNames(r.comp))
}

func (r *renderer) hasWarningsSection() bool {
	configs, operators, certs := r.orphansByCollection()
	return len(configs)+len(operators)+len(certs) > 0
}

func (r *renderer) warningsSection() {
	configs, operators, certs := r.orphansByCollection()

	r.line("## ⚠️ Warnings")
	r.blank()

	orphanGroup := func(title, collection string, names []string) {
		if len(names) == 0 {
			return
		}
		r.line("### Orphaned %s", title)
		r.blank()
		r.line("The following entries are defined in %s but referenced by no policy:", collection)
		r.blank()
		for _, name := range names {
			r.line("- %s", name)
			r.warn(WarnOrphanedEntity, 0, "%s entry %q is referenced by no policy", collection, name)
		}
		r.blank()
	}

	orphanGroup("Configuration Policies", colConfig, configs)
	orphanGroup("Operator Policies", colOperator, operators)
	orphanGroup("Certificate Policies", colCertificate, certs)
}

func (r *renderer) summarySection() {
	s := Summarize(r.comp)
	r.line("## 📊 Summary")
	r.blank()
	r.tableHeader("Resource Type", "Count")
	r.line("| Policies | %d |", s.Policies)
	r.line("| Configuration Policies | %d |", s.ConfigPolicies)
	r.line("| Operator Policies | %d |", s.OperatorPolicies)
	r.line("| Certificate Policies | %d |", s.CertificatePolicies)
	r.line("| PolicySets | %d |", s.PolicySets)
	r.line("| **Total Resources** | **%d** |", s.Total())
}

// Summarize counts the entities defined in each collection present in the
// component. Computed once after full traversal.
func Summarize(c *Component) Summary {
	return Summary{
		Policies:            len(c.Policies),
		ConfigPolicies:      len(c.ConfigPolicies),
		OperatorPolicies:    len(c.OperatorPolicies),
		CertificatePolicies: len(c.CertificatePolicies),
		PolicySets:          len(c.PolicySets),
	}
}
