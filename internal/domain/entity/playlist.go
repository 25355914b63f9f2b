package entity

// Thumbnail is a single image rendition.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Author identifies the channel that uploaded a video or owns a playlist.
type Author struct {
	Name       string      `json:"name"`
	URL        string      `json:"url"`
	ChannelID  string      `json:"channelID"`
	Avatars    []Thumbnail `json:"avatars,omitempty"`
	BestAvatar *Thumbnail  `json:"bestAvatar,omitempty"`
}

// Item is one video entry of a playlist.
type Item struct {
	Title         string      `json:"title"`
	Index         int         `json:"index"`
	ID            string      `json:"id"`
	ShortURL      string      `json:"shortUrl"`
	URL           string      `json:"url"`
	Author        *Author     `json:"author"`
	Thumbnails    []Thumbnail `json:"thumbnails"`
	BestThumbnail *Thumbnail  `json:"bestThumbnail"`
	IsLive        bool        `json:"isLive"`
	Duration      string      `json:"duration,omitempty"`
	DurationSec   int         `json:"durationSec,omitempty"`
	IsPlayable    bool        `json:"isPlayable"`
}

// Playlist is the result of a run or a continuation round.
//
// Metadata fields are only populated from a first page. Continuation is nil
// (serialized as null) when the run cannot be resumed.
type Playlist struct {
	ID                 string      `json:"id,omitempty"`
	URL                string      `json:"url,omitempty"`
	Title              string      `json:"title,omitempty"`
	EstimatedItemCount int         `json:"estimatedItemCount,omitempty"`
	Views              int         `json:"views,omitempty"`
	Thumbnails         []Thumbnail `json:"thumbnails,omitempty"`
	BestThumbnail      *Thumbnail  `json:"bestThumbnail,omitempty"`
	LastUpdated        string      `json:"lastUpdated,omitempty"`
	Description        string      `json:"description,omitempty"`
	Visibility         string      `json:"visibility,omitempty"`
	Author             *Author     `json:"author,omitempty"`
	Items              []Item      `json:"items"`
	Continuation       *Cursor     `json:"continuation"`
}

// BestThumbnail returns the widest thumbnail, or nil for an empty set.
func BestThumbnail(thumbs []Thumbnail) *Thumbnail {
	var best *Thumbnail
	for i := range thumbs {
		if best == nil || thumbs[i].Width > best.Width {
			best = &thumbs[i]
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}
