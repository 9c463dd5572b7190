package hub

import (
	"fmt"
	"regexp"
)

// Visibility values for orgs and images.
const (
	VisibilityPublic  = "PUBLIC"
	VisibilityPrivate = "PRIVATE"
)

// Sorting orders accepted by the image listing endpoints.
const (
	SortMostPopular     = "most-popular"
	SortRecentlyUpdated = "last-updated"
)

// Permission levels returned as userRole.
const (
	PermissionAdmin = "admin"
	PermissionPush  = "push"
	PermissionPull  = "pull"
)

// Application error codes carried in Hub API error bodies.
const (
	ErrorCodeAlreadyExists        = 2
	ErrorCodeAllowedLimitExceeded = 3
	ErrorCodeEntryNotFound        = 4
)

// CaptchaHeader carries the reCAPTCHA response on org creation.
const CaptchaHeader = "g-recaptcha-response"

// Identifier patterns used by the Hub for org and image names.
const (
	PatternCelleryID           = `[a-z0-9]+(-[a-z0-9]+)*`
	PatternPartialCelleryID    = `[-a-z0-9]+`
	PatternPartialImageVersion = `[-.a-z0-9]+`
)

var (
	celleryIDRegexp    = regexp.MustCompile(`^` + PatternCelleryID + `$`)
	imageVersionRegexp = regexp.MustCompile(`^` + PatternPartialImageVersion + `$`)
)

// ValidName reports whether name is a valid org or image name.
func ValidName(name string) bool {
	return celleryIDRegexp.MatchString(name)
}

// ValidVersion reports whether v is a valid image version.
func ValidVersion(v string) bool {
	return imageVersionRegexp.MatchString(v)
}

// ValidateOrgName returns an error describing why name cannot be used for an org.
func ValidateOrgName(name string) error {
	return validateName("organization", name)
}

// ValidateImageName returns an error describing why name cannot be used for an image.
func ValidateImageName(name string) error {
	return validateName("image", name)
}

func validateName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name cannot be empty", kind)
	}
	if !ValidName(name) {
		return fmt.Errorf("%s name can only contain lower case letters, numbers and dashes, got %q", kind, name)
	}
	return nil
}
