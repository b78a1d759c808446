package pipeline

import "fmt"

// Mode selects which artifacts a run produces.
type Mode string

const (
	// ModeText produces a transcript or subtitle file only.
	ModeText Mode = "text"
	// ModeAudio produces an audio file only.
	ModeAudio Mode = "audio"
	// ModeVideo produces a video file only.
	ModeVideo Mode = "video"
	// ModeAll produces every artifact the source can yield; branch
	// failures degrade to warnings instead of aborting the run.
	ModeAll Mode = "all"
)

// SubtitleFormat selects how textual output is delivered.
type SubtitleFormat string

const (
	// SubtitleText delivers plain text in Result.Transcript.
	SubtitleText SubtitleFormat = "text"
	// SubtitleSRT delivers an .srt file path in Result.SubtitlePath.
	SubtitleSRT SubtitleFormat = "srt"
	// SubtitleVTT delivers a .vtt file path in Result.SubtitlePath.
	SubtitleVTT SubtitleFormat = "vtt"
)

// Request describes one acquisition run.
type Request struct {
	URL            string         `yaml:"url" json:"url"`
	Mode           Mode           `yaml:"mode" json:"mode"`
	SubtitleFormat SubtitleFormat `yaml:"subtitle_format,omitempty" json:"subtitle_format,omitempty"`
	Summarize      bool           `yaml:"summarize,omitempty" json:"summarize,omitempty"`
}

// Validate checks the request and fills defaults. Mode defaults to text,
// subtitle format to plain text.
func (r *Request) Validate() error {
	if r.URL == "" {
		return fmt.Errorf("url is required")
	}
	if r.Mode == "" {
		r.Mode = ModeText
	}
	switch r.Mode {
	case ModeText, ModeAudio, ModeVideo, ModeAll:
	default:
		return fmt.Errorf("invalid mode %q", r.Mode)
	}
	if r.SubtitleFormat == "" {
		r.SubtitleFormat = SubtitleText
	}
	switch r.SubtitleFormat {
	case SubtitleText, SubtitleSRT, SubtitleVTT:
	default:
		return fmt.Errorf("invalid subtitle format %q", r.SubtitleFormat)
	}
	return nil
}

// ProgressFunc receives human-readable status updates during a run.
type ProgressFunc func(status string)
