package models

type Platform string

const (
	PlatformTwitter   Platform = "Twitter"
	PlatformInstagram Platform = "Instagram"
	PlatformFacebook  Platform = "Facebook"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformTikTok    Platform = "TikTok"
)

// Platforms lists the supported platforms in display order.
var Platforms = []Platform{PlatformTwitter, PlatformInstagram, PlatformFacebook, PlatformLinkedIn, PlatformTikTok}

var platformIcons = map[Platform]string{
	PlatformInstagram: "/icons/instagram.svg",
	PlatformTwitter:   "/icons/twitter-x.svg",
	PlatformFacebook:  "/icons/facebook.svg",
	PlatformLinkedIn:  "/icons/linkedin.svg",
	PlatformTikTok:    "/icons/tiktok.svg",
}

func (p Platform) Valid() bool {
	_, ok := platformIcons[p]
	return ok
}

// Icon returns the icon path for the platform, or the default icon.
func (p Platform) Icon() string {
	if icon, ok := platformIcons[p]; ok {
		return icon
	}
	return "/icons/default.svg"
}

type SocialMediaAccount struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	UserName    string   `json:"userName"`
	Title       Platform `json:"title"`
	Image       string   `json:"image,omitempty"`
	ProfileLink string   `json:"profileLink,omitempty"`
	Active      bool     `json:"active"`
}
