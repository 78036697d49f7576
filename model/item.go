package model

type FileMetadata struct {
	Filename string `json:"filename"`
	Ext      string `json:"ext"`
}

type AudioFile struct {
	Index    int          `json:"index"`
	Metadata FileMetadata `json:"metadata"`
}

type BookMetadata struct {
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle"`
	AuthorName string   `json:"authorName"`
	Genres     []string `json:"genres"`
}

type Media struct {
	Duration   float64      `json:"duration"`
	Chapters   []Chapter    `json:"chapters"`
	AudioFiles []AudioFile  `json:"audioFiles"`
	Metadata   BookMetadata `json:"metadata"`
}

// Item is the subset of an Audiobookshelf library item that the chapter
// commands read.
type Item struct {
	ID        string `json:"id"`
	LibraryID string `json:"libraryId"`
	MediaType string `json:"mediaType"`
	Media     Media  `json:"media"`
}

// AudioExt returns the extension of the item's first audio file, including
// the leading dot, or "" when the item has no audio files.
func (i *Item) AudioExt() string {
	if len(i.Media.AudioFiles) == 0 {
		return ""
	}
	return i.Media.AudioFiles[0].Metadata.Ext
}

// Title returns the book title, falling back to the item id.
func (i *Item) Title() string {
	if i.Media.Metadata.Title != "" {
		return i.Media.Metadata.Title
	}
	return i.ID
}
