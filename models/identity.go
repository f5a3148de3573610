package models

type identityKind uint8

const (
	identityHuman identityKind = iota + 1
	identityPrivileged
)

// Identity is the resolved caller of a request: either a human user or the admin.
// The admin is not a User and has no row in the users table.
type Identity struct {
	kind   identityKind
	userID string
}

func Human(userID string) Identity {
	return Identity{kind: identityHuman, userID: userID}
}

func Privileged() Identity {
	return Identity{kind: identityPrivileged}
}

func (i Identity) IsPrivileged() bool { return i.kind == identityPrivileged }

func (i Identity) IsHuman() bool { return i.kind == identityHuman && i.userID != "" }

// UserID returns the caller's user id; ok is false for the admin or an unresolved identity.
func (i Identity) UserID() (string, bool) {
	if !i.IsHuman() {
		return "", false
	}
	return i.userID, true
}

func (i Identity) String() string {
	switch {
	case i.IsPrivileged():
		return "admin"
	case i.IsHuman():
		return "user:" + i.userID
	}
	return "anonymous"
}
