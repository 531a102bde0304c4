package session

// Capability is a named permission granted to a session. The current
// behavior grants none; the set exists so endpoints can check
// capabilities without changing the principal shape later.
type Capability string

// Principal is the identity bound to a session token. It is immutable
// once created: the store hands out the same instance to every lookup
// and callers must not modify it.
type Principal struct {
	// Subject is the username the session was created for.
	Subject string

	// ObpToken is the upstream DirectLogin credential obtained at login,
	// used for all OBP calls made on this user's behalf.
	ObpToken string

	// Capabilities granted to this session. Empty in the current behavior.
	Capabilities []Capability
}

// HasCapability reports whether the principal holds the given capability.
func (p *Principal) HasCapability(c Capability) bool {
	for _, granted := range p.Capabilities {
		if granted == c {
			return true
		}
	}
	return false
}
