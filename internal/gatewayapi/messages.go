package gatewayapi

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RegisterUserRequest struct {
	Username string `json:"username"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

type RegisterUserResponse struct{}

type GetSaltRequest struct {
	Username string `json:"username"`
}

type GetSaltResponse struct {
	Salt []byte `json:"salt"`
}

type LoginRequest struct {
	Username          string `json:"username"`
	VerifierCandidate []byte `json:"verifier_candidate"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TimelineEntry is a milestone on the wire. EventDate is YYYY-MM-DD.
// LinkedPeople is nil for rows written before the field existed; those keep
// people in the last line of Description.
type TimelineEntry struct {
	ID             string   `json:"id,omitempty"`
	Year           int      `json:"year"`
	EventDate      *string  `json:"event_date,omitempty"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Highlight      *string  `json:"highlight,omitempty"`
	CoverMediaID   *string  `json:"cover_media_id,omitempty"`
	MediaIDs       []string `json:"media_ids"`
	LinkedPostIDs  []string `json:"linked_post_ids"`
	LinkedEventIDs []string `json:"linked_event_ids"`
	LinkedPeople   []string `json:"linked_people"`
}

type FetchTimelineRequest struct {
	Subject string `json:"subject"`
}

type FetchTimelineResponse struct {
	Items    []TimelineEntry `json:"items"`
	Revision int64           `json:"revision"`
}

// ReplaceTimelineRequest overwrites the caller's whole collection. Revision
// must equal the one last fetched.
type ReplaceTimelineRequest struct {
	Items    []TimelineEntry `json:"items"`
	Revision int64           `json:"revision"`
}

type ReplaceTimelineResponse struct {
	Items    []TimelineEntry `json:"items"`
	Revision int64           `json:"revision"`
}

type UploadSpec struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

type PrepareMediaUploadRequest struct {
	Files []UploadSpec `json:"files"`
}

type UploadTarget struct {
	MediaID string `json:"media_id"`
	URL     string `json:"url"`
}

type PrepareMediaUploadResponse struct {
	Targets []UploadTarget `json:"targets"`
}

type CompleteMediaUploadRequest struct {
	MediaIDs []string `json:"media_ids"`
}

type UploadResult struct {
	MediaID string `json:"media_id"`
}

type CompleteMediaUploadResponse struct {
	Results []UploadResult `json:"results"`
}

type GetMediaRequest struct {
	ID string `json:"id"`
}

type Media struct {
	ID   string   `json:"id"`
	Kind string   `json:"kind"`
	URLs []string `json:"urls"`
}

type GetMediaResponse struct {
	Media Media `json:"media"`
}

type PostSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type CompetitionSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PersonSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type SearchPostsRequest struct {
	AuthorID string `json:"author_id"`
}

type SearchPostsResponse struct {
	Posts []PostSummary `json:"posts"`
}

type SearchCompetitionsRequest struct{}

type SearchCompetitionsResponse struct {
	Competitions []CompetitionSummary `json:"competitions"`
}

type SearchPeopleRequest struct {
	Query string `json:"query"`
}

type SearchPeopleResponse struct {
	People []PersonSummary `json:"people"`
}
