package hub

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Member is a user as listed by the org membership endpoints.
type Member struct {
	UserID      string `json:"userId,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	Roles       string `json:"roles,omitempty"`
}

// DisplayName picks the name to show for m: the display name, else the local
// part of the email. A member with neither is an error.
func DisplayName(m *Member) (string, error) {
	if m == nil {
		return "", fmt.Errorf("unable to get display name for empty user data")
	}
	if m.DisplayName != "" {
		return m.DisplayName, nil
	}
	if m.Email != "" {
		return strings.SplitN(m.Email, "@", 2)[0], nil
	}
	raw, _ := json.Marshal(m)
	return "", fmt.Errorf("either the displayName or the email need to be present in the provided user, received %s", raw)
}
