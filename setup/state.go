package setup

// State represents the current lifecycle state of a configuration
type State int

const (
	// StateDeclaring indicates the configuration was created but not
	// configured
	StateDeclaring State = iota
	// StateConfigured indicates gateway definitions were normalized and
	// the user block ran
	StateConfigured
	// StateFrozen indicates the settings tree is closed and gateways are
	// built
	StateFrozen
	// StateFinalized indicates all components are live; no further
	// structural registration is accepted
	StateFinalized
)

// String returns a string representation of the configuration state
func (s State) String() string {
	switch s {
	case StateDeclaring:
		return "declaring"
	case StateConfigured:
		return "configured"
	case StateFrozen:
		return "frozen"
	case StateFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}
