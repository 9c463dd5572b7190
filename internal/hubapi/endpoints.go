package hubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/zjrosen/hubctl/internal/domain/hub"
	"github.com/zjrosen/hubctl/internal/graph"
)

// Wildcard matches any name in list filters.
const Wildcard = "*"

// OrgQuery filters org listings.
type OrgQuery struct {
	// OrgName is a pattern; "*" or empty matches all.
	OrgName string
	Limit   int
	Offset  int
}

func (q OrgQuery) params() map[string]any {
	p := map[string]any{"orgName": orDefault(q.OrgName, Wildcard)}
	paging(p, q.Limit, q.Offset)
	return p
}

// ImageQuery filters image listings.
type ImageQuery struct {
	OrgName   string
	ImageName string
	OrderBy   string
	Limit     int
	Offset    int
}

func (q ImageQuery) params() map[string]any {
	p := map[string]any{
		"orgName":   orDefault(q.OrgName, Wildcard),
		"imageName": orDefault(q.ImageName, Wildcard),
	}
	if q.OrderBy != "" {
		p["orderBy"] = q.OrderBy
	}
	paging(p, q.Limit, q.Offset)
	return p
}

// VersionQuery filters version listings.
type VersionQuery struct {
	Version string
	OrderBy string
	Limit   int
	Offset  int
}

func (q VersionQuery) params() map[string]any {
	p := map[string]any{"artifactVersion": orDefault(q.Version, Wildcard)}
	if q.OrderBy != "" {
		p["orderBy"] = q.OrderBy
	}
	paging(p, q.Limit, q.Offset)
	return p
}

// Contains wraps s as a "*s*" pattern, or returns "*" for an empty s.
func Contains(s string) string {
	if s == "" {
		return Wildcard
	}
	return Wildcard + s + Wildcard
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func paging(p map[string]any, limit, offset int) {
	if limit > 0 {
		p["resultLimit"] = limit
	}
	if offset > 0 {
		p["offset"] = offset
	}
}

// CreateOrgRequest is the body of an org creation.
type CreateOrgRequest struct {
	OrgName      string `json:"orgName"`
	CaptchaToken string `json:"-"`
}

// ImageUpdate is the body of an image update.
type ImageUpdate struct {
	Summary     string   `json:"summary"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// VersionUpdate is the body of a version update.
type VersionUpdate struct {
	Description string `json:"description"`
}

func seg(s string) string {
	return url.PathEscape(s)
}

// ListOrgs searches all orgs.
func (c *Client) ListOrgs(ctx context.Context, q OrgQuery) (*hub.ListResult[hub.Org], error) {
	var out hub.ListResult[hub.Org]
	if err := c.Do(ctx, Request{Path: "/orgs", Query: q.params()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUserOrgs lists the orgs userID belongs to.
func (c *Client) ListUserOrgs(ctx context.Context, userID string, q OrgQuery) (*hub.ListResult[hub.Org], error) {
	var out hub.ListResult[hub.Org]
	if err := c.Do(ctx, Request{Path: "/orgs/users/" + seg(userID), Query: q.params()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOrg fetches one org.
func (c *Client) GetOrg(ctx context.Context, org string) (*hub.Org, error) {
	var out hub.Org
	if err := c.Do(ctx, Request{Path: "/orgs/" + seg(org)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OrgExists checks name availability. A 404 means the name is free.
func (c *Client) OrgExists(ctx context.Context, org string) (bool, error) {
	_, err := c.GetOrg(ctx, org)
	switch {
	case err == nil:
		return true, nil
	case IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

// CreateOrg creates an org. The captcha token travels in its own header.
func (c *Client) CreateOrg(ctx context.Context, r CreateOrgRequest) error {
	if err := hub.ValidateOrgName(r.OrgName); err != nil {
		return err
	}
	req := Request{Method: http.MethodPost, Path: "/orgs", Body: r}
	if r.CaptchaToken != "" {
		req.Header = http.Header{}
		req.Header.Set(hub.CaptchaHeader, r.CaptchaToken)
	}
	return c.Do(ctx, req, nil)
}

// DeleteOrg deletes an org.
func (c *Client) DeleteOrg(ctx context.Context, org string) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: "/orgs/" + seg(org)}, nil)
}

// ListImages searches all images.
func (c *Client) ListImages(ctx context.Context, q ImageQuery) (*hub.ListResult[hub.Image], error) {
	var out hub.ListResult[hub.Image]
	if err := c.Do(ctx, Request{Path: "/images", Query: q.params()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUserImages lists images in the orgs userID belongs to.
func (c *Client) ListUserImages(ctx context.Context, userID string, q ImageQuery) (*hub.ListResult[hub.Image], error) {
	var out hub.ListResult[hub.Image]
	if err := c.Do(ctx, Request{Path: "/images/users/" + seg(userID), Query: q.params()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type imageKey struct{ org, image string }

func (k imageKey) path() string { return "/images/" + seg(k.org) + "/" + seg(k.image) }

// GetImage fetches one image, from cache when enabled.
func (c *Client) GetImage(ctx context.Context, org, image string) (*hub.Image, error) {
	k := imageKey{org, image}
	return c.images.GetWithRefresh(ctx, k.path(), k, c.cacheTTL)
}

func (c *Client) fetchImage(ctx context.Context, k imageKey) (*hub.Image, error) {
	var out hub.Image
	if err := c.Do(ctx, Request{Path: k.path()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateImage replaces an image's summary, description and keywords.
func (c *Client) UpdateImage(ctx context.Context, org, image string, u ImageUpdate) error {
	if u.Keywords == nil {
		u.Keywords = []string{}
	}
	k := imageKey{org, image}
	if err := c.Do(ctx, Request{Method: http.MethodPut, Path: k.path(), Body: u}, nil); err != nil {
		return err
	}
	return c.images.Invalidate(ctx, k.path())
}

// DeleteImage deletes an image and all its versions.
func (c *Client) DeleteImage(ctx context.Context, org, image string) error {
	k := imageKey{org, image}
	if err := c.Do(ctx, Request{Method: http.MethodDelete, Path: k.path()}, nil); err != nil {
		return err
	}
	return c.images.Invalidate(ctx, k.path())
}

// ListVersions lists the versions of an image.
func (c *Client) ListVersions(ctx context.Context, org, image string, q VersionQuery) (*hub.ListResult[hub.Version], error) {
	var out hub.ListResult[hub.Version]
	path := "/artifacts/" + seg(org) + "/" + seg(image) + "/"
	if err := c.Do(ctx, Request{Path: path, Query: q.params()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type versionKey struct{ org, image, version string }

func (k versionKey) path() string {
	return "/artifacts/" + seg(k.org) + "/" + seg(k.image) + "/" + seg(k.version)
}

// GetVersion fetches one version including its validated cell metadata.
func (c *Client) GetVersion(ctx context.Context, org, image, version string) (*hub.Version, error) {
	k := versionKey{org, image, version}
	return c.versions.GetWithRefresh(ctx, k.path(), k, c.cacheTTL)
}

func (c *Client) fetchVersion(ctx context.Context, k versionKey) (*hub.Version, error) {
	var wire struct {
		hub.Version
		Metadata json.RawMessage `json:"metadata"`
	}
	if err := c.Do(ctx, Request{Path: k.path()}, &wire); err != nil {
		return nil, err
	}

	v := wire.Version
	if len(wire.Metadata) > 0 && string(wire.Metadata) != "null" {
		md, err := graph.Decode(wire.Metadata)
		if err != nil {
			return nil, fmt.Errorf("metadata of %s: %w", graph.CellID(k.org, k.image, k.version), err)
		}
		v.Metadata = md
	}
	if v.OrgName == "" {
		v.OrgName = k.org
	}
	if v.ImageName == "" {
		v.ImageName = k.image
	}
	return &v, nil
}

// UpdateVersion replaces a version's description.
func (c *Client) UpdateVersion(ctx context.Context, org, image, version string, u VersionUpdate) error {
	k := versionKey{org, image, version}
	if err := c.Do(ctx, Request{Method: http.MethodPut, Path: k.path(), Body: u}, nil); err != nil {
		return err
	}
	return c.versions.Invalidate(ctx, k.path())
}

// DeleteVersion deletes one version.
func (c *Client) DeleteVersion(ctx context.Context, org, image, version string) error {
	k := versionKey{org, image, version}
	if err := c.Do(ctx, Request{Method: http.MethodDelete, Path: k.path()}, nil); err != nil {
		return err
	}
	return c.versions.Invalidate(ctx, k.path())
}

// ExchangeCode trades an authorization code for tokens. It is public and
// never triggers the unauthorized hook.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*hub.Tokens, error) {
	var out hub.Tokens
	req := Request{Path: "/auth/tokens/" + seg(code), PreventAutoReLogin: true}
	if err := c.DoPublic(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateToken issues a personal access token for the signed-in user.
func (c *Client) GenerateToken(ctx context.Context) (*hub.PersonalToken, error) {
	u := c.holder.User()
	if u == nil {
		return nil, ErrNotSignedIn
	}
	var out hub.PersonalToken
	body := map[string]string{"jwt": u.IDToken}
	if err := c.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/token", Body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokeTokens revokes a personal access token.
func (c *Client) RevokeTokens(ctx context.Context, token string) error {
	body := map[string]string{"token": token}
	return c.Do(ctx, Request{Method: http.MethodPost, Path: "/auth/revoke", Body: body}, nil)
}
