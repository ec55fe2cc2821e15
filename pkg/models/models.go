package models

// Format selects the output pipeline. The zero value is audio-only MP3.
type Format int

const (
	FormatMP3 Format = iota
	FormatMP4
)

// Ext returns the extension of the final artifact, including the dot.
func (f Format) Ext() string {
	if f == FormatMP4 {
		return ".mp4"
	}
	return ".mp3"
}

func (f Format) String() string {
	if f == FormatMP4 {
		return "mp4"
	}
	return "mp3"
}

// InvocationRequest is built once per run from arguments or prompts.
type InvocationRequest struct {
	URLs   []string
	Format Format
	// Dir is the folder the media files are written to.
	Dir string
}

// DownloadResult holds one produced file path per requested URL, in request order.
type DownloadResult struct {
	Paths []string
}
