package valueobjects

// Bit positions of the packed permission value. The layout is frozen: stored
// integers and every service reading them depend on these exact positions.
const (
	BitDelete          = 1 << iota // 1
	BitUpdate                      // 2
	BitRead                        // 4
	BitCreate                      // 8
	BitAdmin                       // 16
	BitInviteMembers               // 32
	BitReview                      // 64
	BitSubmitProposals             // 128
	BitVote                        // 256
)

// CRUDMask covers the four content bits (delete, update, read, create).
// Decision-capability updates must never touch them.
const CRUDMask = BitDelete | BitUpdate | BitRead | BitCreate

// PermissionSet is the decoded form of a packed permission value. Raw
// integers stay a storage detail; everything above the repository layer
// exchanges this struct.
type PermissionSet struct {
	Delete          bool `json:"delete"`
	Update          bool `json:"update"`
	Read            bool `json:"read"`
	Create          bool `json:"create"`
	Admin           bool `json:"admin"`
	InviteMembers   bool `json:"inviteMembers"`
	Review          bool `json:"review"`
	SubmitProposals bool `json:"submitProposals"`
	Vote            bool `json:"vote"`
}

// Encode packs the set into its integer form.
func (p PermissionSet) Encode() int {
	var packed int
	if p.Delete {
		packed |= BitDelete
	}
	if p.Update {
		packed |= BitUpdate
	}
	if p.Read {
		packed |= BitRead
	}
	if p.Create {
		packed |= BitCreate
	}
	if p.Admin {
		packed |= BitAdmin
	}
	if p.InviteMembers {
		packed |= BitInviteMembers
	}
	if p.Review {
		packed |= BitReview
	}
	if p.SubmitProposals {
		packed |= BitSubmitProposals
	}
	if p.Vote {
		packed |= BitVote
	}
	return packed
}

// DecodePermissions unpacks an integer permission value. Bits beyond the
// known layout are ignored.
func DecodePermissions(packed int) PermissionSet {
	return PermissionSet{
		Delete:          packed&BitDelete != 0,
		Update:          packed&BitUpdate != 0,
		Read:            packed&BitRead != 0,
		Create:          packed&BitCreate != 0,
		Admin:           packed&BitAdmin != 0,
		InviteMembers:   packed&BitInviteMembers != 0,
		Review:          packed&BitReview != 0,
		SubmitProposals: packed&BitSubmitProposals != 0,
		Vote:            packed&BitVote != 0,
	}
}

// ApplyDecisionBits rewrites the decision capabilities of an existing packed
// value while preserving its CRUD bits verbatim.
func ApplyDecisionBits(existing int, caps PermissionSet) int {
	return (existing & CRUDMask) | (caps.Encode() &^ CRUDMask)
}

// ForDecisionRole normalizes a set for decision-role creation: members need
// at least read access to see the process they participate in.
func ForDecisionRole(caps PermissionSet) PermissionSet {
	caps.Read = true
	return caps
}

// Includes reports whether every capability in required is present in p.
func (p PermissionSet) Includes(required PermissionSet) bool {
	return p.Encode()&required.Encode() == required.Encode()
}

// Union merges two sets, typically across the roles a member holds.
func (p PermissionSet) Union(other PermissionSet) PermissionSet {
	return DecodePermissions(p.Encode() | other.Encode())
}
