package gatekit

// Decision is the evaluator's verdict.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) Allowed() bool { return d == Allow }

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Decide is the whole permission model: admins may act on anything, owners
// may act on what they own, and a principal owns itself for self-edit.
// It is pure and must only run after authentication and loading have both
// succeeded; calling it without a principal or target is a programming
// error, not a Deny.
func Decide(principal *Principal, target AccessTarget) Decision {
	if principal == nil {
		panic("gatekit: Decide called without an authenticated principal")
	}
	if target == nil {
		panic("gatekit: Decide called without a loaded target")
	}

	if principal.Admin {
		return Allow
	}

	if target.TargetOwner() == principal.ID {
		return Allow
	}

	return Deny
}
