package response

type Error struct {
	Message string `json:"message"`
}

type CreateImage struct {
	ImageID   string `json:"image_id"`
	UploadURL string `json:"upload_url"`
	ObjectKey string `json:"object_key"`
	ExpiresIn int    `json:"expires_in"`
}

type ImageMetadata struct {
	ContentType string   `json:"content_type"`
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
	Status      string   `json:"status"`
}

type GetImage struct {
	ImageID     string        `json:"image_id"`
	DownloadURL string        `json:"download_url"`
	ExpiresIn   int           `json:"expires_in"`
	Metadata    ImageMetadata `json:"metadata"`
}

type ImageSummary struct {
	ImageID   string   `json:"image_id"`
	OwnerID   string   `json:"owner_id"`
	Title     *string  `json:"title"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at"`
}

type ListImages struct {
	Items     []ImageSummary `json:"items"`
	NextToken string         `json:"next_token,omitempty"`
}
