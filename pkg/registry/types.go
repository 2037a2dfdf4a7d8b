package registry

// PolicyConfig represents configuration for a scoring policy
type PolicyConfig struct {
	ID        string                 `json:"id" yaml:"id"`         // "castles/native", "castles/wasm-v1"
	Domain    string                 `json:"domain" yaml:"domain"` // problem model the policy scores
	Kind      string                 `json:"kind" yaml:"kind"`     // native|wasm
	Path      string                 `json:"path,omitempty" yaml:"path,omitempty"`     // wasm module file
	SHA256    string                 `json:"sha256,omitempty" yaml:"sha256,omitempty"` // hex digest of the module file
	MaxRPS    int                    `json:"max_rps,omitempty" yaml:"max_rps,omitempty"`       // score calls per second
	MemPages  int                    `json:"mem_pages,omitempty" yaml:"mem_pages,omitempty"`   // wasm memory limit
	TimeoutMS int                    `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"` // per-call deadline
	Params    map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`
	Tags      []string               `json:"tags,omitempty" yaml:"tags,omitempty"` // selection hints: default, experimental
}

// Registry represents the scoring-policy registry
type Registry struct {
	Policies []PolicyConfig `json:"policies" yaml:"policies"`
}

// FindPolicy returns a policy configuration by ID
func (r *Registry) FindPolicy(id string) *PolicyConfig {
	for _, policy := range r.Policies {
		if policy.ID == id {
			return &policy
		}
	}
	return nil
}

// PoliciesByDomain returns all policies for a problem domain
func (r *Registry) PoliciesByDomain(domain string) []PolicyConfig {
	var policies []PolicyConfig
	for _, policy := range r.Policies {
		if policy.Domain == domain {
			policies = append(policies, policy)
		}
	}
	return policies
}

// PoliciesByKind returns all policies of a specific kind
func (r *Registry) PoliciesByKind(kind string) []PolicyConfig {
	var policies []PolicyConfig
	for _, policy := range r.Policies {
		if policy.Kind == kind {
			policies = append(policies, policy)
		}
	}
	return policies
}

// PoliciesByTag returns all policies with a specific tag
func (r *Registry) PoliciesByTag(tag string) []PolicyConfig {
	var policies []PolicyConfig
	for _, policy := range r.Policies {
		for _, policyTag := range policy.Tags {
			if policyTag == tag {
				policies = append(policies, policy)
				break
			}
		}
	}
	return policies
}

// AllDomains returns a list of all unique domains
func (r *Registry) AllDomains() []string {
	domains := make(map[string]bool)
	for _, policy := range r.Policies {
		domains[policy.Domain] = true
	}

	var result []string
	for domain := range domains {
		result = append(result, domain)
	}
	return result
}

// TotalPolicies returns the total number of policies
func (r *Registry) TotalPolicies() int {
	return len(r.Policies)
}
