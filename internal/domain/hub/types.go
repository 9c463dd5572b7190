package hub

import (
	"github.com/zjrosen/hubctl/internal/graph"
)

// PortalConfig is the document served by the portal at /config.
type PortalConfig struct {
	HubAPIURL string    `json:"hubApiUrl" yaml:"hubApiUrl"`
	IdP       IdPConfig `json:"idp" yaml:"idp"`
}

// IdPConfig locates the identity provider used for sign-in.
type IdPConfig struct {
	URL      string `json:"url" yaml:"url"`
	ClientID string `json:"clientId" yaml:"clientId"`
}

// Ready reports whether the config names a Hub API to talk to.
func (c *PortalConfig) Ready() bool {
	return c != nil && c.HubAPIURL != ""
}

// User is the authenticated user kept in the state holder under "user".
type User struct {
	Username    string   `json:"username"`
	UserID      string   `json:"userId,omitempty"`
	AccessToken string   `json:"accessToken"`
	IDToken     string   `json:"idToken"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
	Email       string   `json:"email,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// Tokens is the Hub's answer to an authorization code exchange.
type Tokens struct {
	AccessToken string `json:"accessToken"`
	IDToken     string `json:"idToken"`
}

// PersonalToken is a long-lived access token generated for CLI use.
type PersonalToken struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn,omitempty"`
}

// Org is a Hub organization.
type Org struct {
	OrgName           string `json:"orgName"`
	Description       string `json:"description,omitempty"`
	Summary           string `json:"summary,omitempty"`
	WebsiteURL        string `json:"websiteUrl,omitempty"`
	DefaultVisibility string `json:"defaultVisibility,omitempty"`
	FirstAuthor       string `json:"firstAuthor,omitempty"`
	CreatedTimestamp  string `json:"createdTimestamp,omitempty"`
	UserRole          string `json:"userRole,omitempty"`
	ImageCount        int    `json:"imageCount,omitempty"`
}

// Image is a cell image within an organization.
type Image struct {
	OrgName          string   `json:"orgName"`
	ImageName        string   `json:"imageName"`
	Summary          string   `json:"summary,omitempty"`
	Description      string   `json:"description,omitempty"`
	FirstAuthor      string   `json:"firstAuthor,omitempty"`
	Visibility       string   `json:"visibility,omitempty"`
	PullCount        int64    `json:"pullCount"`
	UpdatedTimestamp string   `json:"updatedTimestamp,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
	UserRole         string   `json:"userRole,omitempty"`
}

// FQN returns "org/image".
func (i Image) FQN() string {
	return i.OrgName + "/" + i.ImageName
}

// Version is one pushed version of an image, including its cell metadata.
type Version struct {
	OrgName          string              `json:"orgName,omitempty"`
	ImageName        string              `json:"imageName,omitempty"`
	Version          string              `json:"version,omitempty"`
	ArtifactVersion  string              `json:"artifactVersion,omitempty"`
	Description      string              `json:"description,omitempty"`
	PullCount        int64               `json:"pullCount"`
	LastAuthor       string              `json:"lastAuthor,omitempty"`
	UpdatedTimestamp string              `json:"updatedTimestamp,omitempty"`
	UserRole         string              `json:"userRole,omitempty"`
	Metadata         *graph.CellMetadata `json:"metadata,omitempty"`
}

// Name returns the version string; list responses carry it as artifactVersion.
func (v Version) Name() string {
	if v.Version != "" {
		return v.Version
	}
	return v.ArtifactVersion
}

// CanPush reports whether the caller may update this version.
func (v Version) CanPush() bool {
	return v.UserRole == PermissionPush || v.UserRole == PermissionAdmin
}

// CanDelete reports whether the caller may delete this version.
func (v Version) CanDelete() bool {
	return v.UserRole == PermissionAdmin
}

// ListResult is the Hub's paged list envelope.
type ListResult[T any] struct {
	Count int `json:"count"`
	Data  []T `json:"data"`
}
