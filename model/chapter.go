package model

// Chapter is one entry of a canonical chapter list. Start and End are
// seconds from the beginning of the audio.
type Chapter struct {
	ID    int     `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Title string  `json:"title"`
}
