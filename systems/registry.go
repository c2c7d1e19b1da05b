package systems

// SystemInfo describes a simulation system for logs and perf output.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this system does
	Category    string // Grouping (e.g., "core", "ai")
}

// SystemRegistry holds metadata about all systems.
// This centralizes system naming so logs and the perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds all known systems to the registry.
// Update this when adding new systems.
func (r *SystemRegistry) registerDefaults() {
	// Behavior
	r.Register(SystemInfo{ID: "snapshot", Name: "Snapshot", Description: "Captures beacons and active targets", Category: "ai"})
	r.Register(SystemInfo{ID: "decide", Name: "Decide", Description: "Resolves targets and actuator intents", Category: "ai"})

	// External collaborators
	r.Register(SystemInfo{ID: "physics", Name: "Physics", Description: "Turns intents into impulses", Category: "physics"})

	// Segment state
	r.Register(SystemInfo{ID: "charge", Name: "Charge", Description: "Integrates segment charge", Category: "core"})

	// Data collection (internal)
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Records window stats and snapshots", Category: "internal"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.Get(id); ok {
		return info.Name
	}
	return id
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
