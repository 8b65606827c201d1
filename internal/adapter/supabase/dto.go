package supabase

// metadataRecord is one row of the metadata table as the backend returns it.
// Stream and thumbnail URLs are never present here; they are resolved by
// enrichment after the fetch.
type metadataRecord struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	YouTubeURL  *string `json:"youtube_url"`
	Language    *string `json:"language"`
}

// submissionBody is the insert payload for the metadata table.
type submissionBody struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	YouTubeURL  string `json:"youtube_url"`
	Duration    string `json:"duration"`
	Category    string `json:"category"`
	IsExplicit  bool   `json:"is_explicit"`
	Language    string `json:"language"`
	Tags        string `json:"tags"`
	Website     string `json:"website"`
	RSSURL      string `json:"rss_url"`
}

// upsertBody is the argument record for the upsert_podcast_library RPC.
// Nil flags marshal to JSON null, which the function treats as "leave the
// stored value unchanged".
type upsertBody struct {
	PodcastID    int64  `json:"p_podcast_id"`
	UserID       string `json:"p_user_id"`
	IsLiked      *bool  `json:"p_is_liked"`
	IsWatchLater *bool  `json:"p_is_watch_later"`
}

// upsertResult is one element of the RPC's representation array.
type upsertResult struct {
	ResultIsLiked      bool `json:"result_is_liked"`
	ResultIsWatchLater bool `json:"result_is_watch_later"`
}

// libraryRow is one row of the podcast_library join table.
type libraryRow struct {
	PodcastID    int64 `json:"podcast_id"`
	IsLiked      bool  `json:"is_liked"`
	IsWatchLater bool  `json:"is_watch_later"`
}

// tokenResponse is the password-grant response from the auth endpoint.
type tokenResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         authUser `json:"user"`
}

type authUser struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata userMetadata `json:"user_metadata"`
}

type userMetadata struct {
	DisplayName string `json:"display_name"`
}
