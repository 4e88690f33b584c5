package authz

import (
	"testing"

	"github.com/inkwell-api/internal/constants"
)

func TestCanModify(t *testing.T) {
	cases := []struct {
		name    string
		id      Identity
		ownerID uint
		want    bool
	}{
		{"anonymous", Identity{}, 1, false},
		{"owner", Identity{UserID: 1, Role: constants.UserRoleUser}, 1, true},
		{"non-owner", Identity{UserID: 2, Role: constants.UserRoleUser}, 1, false},
		{"admin non-owner", Identity{UserID: 3, Role: constants.UserRoleAdmin}, 1, true},
		{"admin role without user id", Identity{Role: constants.UserRoleAdmin}, 1, false},
	}
	for _, tc := range cases {
		if got := CanModify(tc.id, tc.ownerID); got != tc.want {
			t.Fatalf("%s: CanModify(%+v, %d) = %v, want %v", tc.name, tc.id, tc.ownerID, got, tc.want)
		}
	}
}

func TestIdentityPredicates(t *testing.T) {
	if !(Identity{}).Anonymous() {
		t.Fatalf("zero identity should be anonymous")
	}
	if (Identity{UserID: 1}).Anonymous() {
		t.Fatalf("identity with user id should not be anonymous")
	}
	if (Identity{UserID: 1, Role: constants.UserRoleUser}).IsAdmin() {
		t.Fatalf("user role should not be admin")
	}
	if !(Identity{UserID: 1, Role: constants.UserRoleAdmin}).IsAdmin() {
		t.Fatalf("admin role should be admin")
	}
}
