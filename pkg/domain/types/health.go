package types

// Component identifies a pipeline component tracked by the health aggregator
type Component string

const (
	ComponentDiscovery  Component = "discovery"
	ComponentRouting    Component = "routing"
	ComponentEscalation Component = "escalation"
	ComponentStore      Component = "store"
)

// AllComponents returns all tracked pipeline components
func AllComponents() []Component {
	return []Component{
		ComponentDiscovery,
		ComponentRouting,
		ComponentEscalation,
		ComponentStore,
	}
}

// String returns the string representation of the component
func (c Component) String() string {
	return string(c)
}

// ComponentStatus represents the health of a single component
type ComponentStatus string

const (
	ComponentStatusOnline   ComponentStatus = "online"
	ComponentStatusDegraded ComponentStatus = "degraded"
	ComponentStatusError    ComponentStatus = "error"
)

// String returns the string representation of the component status
func (s ComponentStatus) String() string {
	return string(s)
}

// SystemStatus represents the aggregated health of the whole pipeline
type SystemStatus string

const (
	SystemStatusHealthy  SystemStatus = "healthy"
	SystemStatusDegraded SystemStatus = "degraded"
	SystemStatusCritical SystemStatus = "critical"
)

// String returns the string representation of the system status
func (s SystemStatus) String() string {
	return string(s)
}
