package component

import "fmt"

// Name is a relation's structured identity: the dataset it reads from
// and the role it is registered under. Most relations use the same
// string for both; aliased relations diverge.
type Name struct {
	Dataset string
	Role    string
}

// NameFor returns the canonical name for a role reading its own dataset.
func NameFor(role string) Name {
	return Name{Dataset: role, Role: role}
}

// String renders the name, showing the dataset only when it differs
// from the role.
func (n Name) String() string {
	if n.Dataset != "" && n.Dataset != n.Role {
		return fmt.Sprintf("%s(%s)", n.Role, n.Dataset)
	}
	return n.Role
}
