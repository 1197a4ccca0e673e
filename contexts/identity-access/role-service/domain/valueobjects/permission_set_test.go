package valueobjects

import "testing"

func TestEncodeDecodeRoundTripAllCombinations(t *testing.T) {
	for packed := 0; packed < 512; packed++ {
		decoded := DecodePermissions(packed)
		if got := decoded.Encode(); got != packed {
			t.Fatalf("round trip lost bits: %d became %d", packed, got)
		}
	}
}

func TestDecodeIgnoresUnknownBits(t *testing.T) {
	decoded := DecodePermissions(1<<12 | BitVote)
	if got := decoded.Encode(); got != BitVote {
		t.Fatalf("expected unknown bits dropped, got %d", got)
	}
}

func TestBitLayout(t *testing.T) {
	cases := []struct {
		set  PermissionSet
		want int
	}{
		{PermissionSet{Delete: true}, 1},
		{PermissionSet{Update: true}, 2},
		{PermissionSet{Read: true}, 4},
		{PermissionSet{Create: true}, 8},
		{PermissionSet{Admin: true}, 16},
		{PermissionSet{InviteMembers: true}, 32},
		{PermissionSet{Review: true}, 64},
		{PermissionSet{SubmitProposals: true}, 128},
		{PermissionSet{Vote: true}, 256},
	}
	for _, tc := range cases {
		if got := tc.set.Encode(); got != tc.want {
			t.Fatalf("expected %d, got %d for %+v", tc.want, got, tc.set)
		}
	}
}

func TestApplyDecisionBitsPreservesCRUD(t *testing.T) {
	existing := BitRead | BitUpdate | BitAdmin | BitVote
	updated := ApplyDecisionBits(existing, PermissionSet{
		Review:          true,
		SubmitProposals: true,
		// CRUD fields in the incoming set must be ignored.
		Delete: true,
		Create: true,
	})

	if updated&CRUDMask != BitRead|BitUpdate {
		t.Fatalf("expected CRUD bits untouched, got %d", updated&CRUDMask)
	}
	decoded := DecodePermissions(updated)
	if !decoded.Review || !decoded.SubmitProposals {
		t.Fatalf("expected decision bits applied, got %+v", decoded)
	}
	if decoded.Admin || decoded.Vote {
		t.Fatalf("expected dropped decision bits cleared, got %+v", decoded)
	}
	if decoded.Delete || decoded.Create {
		t.Fatalf("expected incoming CRUD fields ignored, got %+v", decoded)
	}
}

func TestForDecisionRoleForcesRead(t *testing.T) {
	caps := ForDecisionRole(PermissionSet{Vote: true})
	if !caps.Read {
		t.Fatalf("expected read forced on for decision roles")
	}
	if !caps.Vote {
		t.Fatalf("expected requested capabilities preserved")
	}
}

func TestIncludesAndUnion(t *testing.T) {
	granted := PermissionSet{Read: true, Vote: true}.Union(PermissionSet{Review: true})
	if !granted.Includes(PermissionSet{Vote: true, Review: true}) {
		t.Fatalf("expected union to include both capability sets")
	}
	if granted.Includes(PermissionSet{Admin: true}) {
		t.Fatalf("expected admin to be missing")
	}
	if !granted.Includes(PermissionSet{}) {
		t.Fatalf("empty requirement must always pass")
	}
}
