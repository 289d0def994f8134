package transfer

type SwitchTeamRequest struct {
	TeamID string `json:"teamId"`
}

type InviteRequest struct {
	Email string `json:"email"`
}

type InviteResponse struct {
	ID         string `json:"id"`
	PreviewURL string `json:"previewUrl,omitempty"`
}

type CheckoutRequest struct {
	PriceID string `json:"priceId"`
}

type RedirectResponse struct {
	URL string `json:"url"`
}

type FollowUpRequest struct {
	TrendingTopic string `json:"trendingTopic"`
	InitialTweet  string `json:"initialTweet"`
}

type CatalogResponse struct {
	Topics      []string       `json:"topics"`
	Frequencies []string       `json:"frequencies"`
	Tones       []string       `json:"tones"`
	Platforms   []PlatformInfo `json:"platforms"`
	MaxTopics   int            `json:"maxTopics"`
}

type PlatformInfo struct {
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

type CreateKeyRequest struct {
	Name string `json:"name"`
}

type RemoveKeyRequest struct {
	KeyID string `json:"key_id"`
}
