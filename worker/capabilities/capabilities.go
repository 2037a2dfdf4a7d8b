package capabilities

// Capabilities defines what capabilities a worker has
type Capabilities struct {
	UseSeeds bool `json:"use_seeds"` // Can warm-start from persisted seeds
	UseWASM  bool `json:"use_wasm"`  // Can execute WASM scoring policies
	UseCache bool `json:"use_cache"` // Can cache and deduplicate score calls
}

// String returns a human-readable representation of capabilities
func (c Capabilities) String() string {
	var caps []string
	if c.UseSeeds {
		caps = append(caps, "Seeds")
	}
	if c.UseWASM {
		caps = append(caps, "WASM")
	}
	if c.UseCache {
		caps = append(caps, "Cache")
	}

	if len(caps) == 0 {
		return "none"
	}

	result := ""
	for i, cap := range caps {
		if i > 0 {
			result += "+"
		}
		result += cap
	}
	return result
}

// CanHandleRequest determines if this worker can handle a given request
func (c Capabilities) CanHandleRequest(requiresSandbox bool) bool {
	// A request that names a wasm policy needs a sandboxed worker
	if requiresSandbox && !c.UseWASM {
		return false
	}
	return true
}

// WorkerWithCapabilities is an interface for workers that expose their capabilities
type WorkerWithCapabilities interface {
	Type() string
	Caps() Capabilities
}

// DefaultCapabilities returns default capabilities for different worker types
func DefaultCapabilities(workerType string) Capabilities {
	switch workerType {
	case "light":
		return Capabilities{
			UseSeeds: true,
			UseWASM:  false,
			UseCache: false,
		}
	case "heavy":
		return Capabilities{
			UseSeeds: true,
			UseWASM:  true,
			UseCache: true,
		}
	default:
		return Capabilities{
			UseSeeds: true,
			UseWASM:  false,
			UseCache: false,
		}
	}
}
