package domain

// Identity is the resolved caller of a request: either anonymous or an
// authenticated username. The zero value is Anonymous.
type Identity struct {
	username string
}

// Anonymous returns the identity of a caller without a valid credential.
func Anonymous() Identity { return Identity{} }

// Authenticated returns the identity of a verified caller.
func Authenticated(username string) Identity { return Identity{username: username} }

// Username returns the caller's username and whether the caller is authenticated.
func (i Identity) Username() (string, bool) {
	return i.username, i.username != ""
}

func (i Identity) IsAuthenticated() bool { return i.username != "" }

func (i Identity) String() string {
	if i.username == "" {
		return "anonymous"
	}
	return i.username
}
