package core

import (
	"crypto/subtle"
	"fmt"

	"github.com/vovakirdan/roomrelay/internal/store"
)

// AdminGrant selects how the admin flag is computed on join.
type AdminGrant string

const (
	// AdminGrantStrict grants admin on join only to callers presenting the room secret,
	// including the caller that creates the room.
	AdminGrantStrict AdminGrant = "strict"
	// AdminGrantCreator always grants admin to the caller that creates the room and
	// hands the (possibly generated) secret back to it.
	AdminGrantCreator AdminGrant = "creator"
)

// ParseAdminGrant converts a config value into an AdminGrant. Empty means strict.
func ParseAdminGrant(s string) (AdminGrant, error) {
	switch AdminGrant(s) {
	case "", AdminGrantStrict:
		return AdminGrantStrict, nil
	case AdminGrantCreator:
		return AdminGrantCreator, nil
	default:
		return "", fmt.Errorf("unknown admin grant %q", s)
	}
}

// Policy decides who may delete and clear messages in a room.
// The zero value uses AdminGrantStrict.
type Policy struct {
	Grant AdminGrant
}

// IsAdmin reports whether credential matches the room's admin secret exactly.
// A room without a secret never has an admin.
func IsAdmin(room *Room, credential string) bool {
	if room == nil || room.adminSecret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(room.adminSecret), []byte(credential)) == 1
}

// IsSender reports whether identity is the stored sender of msg.
func IsSender(msg store.Message, identity string) bool {
	return msg.SenderID == identity
}

// GrantOnJoin computes the admin flag returned to a joining caller.
func (p Policy) GrantOnJoin(room *Room, credential string, created bool) bool {
	if created && p.Grant == AdminGrantCreator {
		return true
	}
	return IsAdmin(room, credential)
}

// CanDelete allows the room admin or the message's own sender.
func (p Policy) CanDelete(room *Room, msg store.Message, credential, identity string) bool {
	return IsAdmin(room, credential) || IsSender(msg, identity)
}

// CanClear allows the room admin only.
func (p Policy) CanClear(room *Room, credential string) bool {
	return IsAdmin(room, credential)
}
