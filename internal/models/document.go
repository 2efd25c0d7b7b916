package models

// ProfileDocument is an uploaded profile file held only for the duration of one extraction.
type ProfileDocument struct {
	Filename  string
	MediaType string
	Size      int64
	Data      []byte
}
