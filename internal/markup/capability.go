package markup

import "strings"

// Capabilities describes which SSML annotations a voice accepts. Restricted
// tiers reject prosody and break elements as malformed requests.
type Capabilities struct {
	Prosody bool
	Breaks  bool
}

// restrictedMarkers flag the capability tier by identifier substring. The
// marker list is the default rule only; explicit table entries win.
var restrictedMarkers = []string{"HD", "Dragon"}

// CapabilityTable resolves a voice identifier to its capabilities. New
// restricted voices are data (Set), not code changes.
type CapabilityTable struct {
	overrides map[string]Capabilities
}

func NewCapabilityTable() *CapabilityTable {
	return &CapabilityTable{overrides: make(map[string]Capabilities)}
}

// Set pins capabilities for one voice, overriding the marker rule.
func (t *CapabilityTable) Set(voice string, c Capabilities) {
	t.overrides[voice] = c
}

func (t *CapabilityTable) Lookup(voice string) Capabilities {
	if t != nil {
		if c, ok := t.overrides[voice]; ok {
			return c
		}
	}
	for _, m := range restrictedMarkers {
		if strings.Contains(voice, m) {
			return Capabilities{}
		}
	}
	return Capabilities{Prosody: true, Breaks: true}
}
