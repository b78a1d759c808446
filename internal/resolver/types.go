package resolver

// VideoSource is the classification result for one resolution attempt.
// Exactly one concrete variant is produced per attempt; a nil VideoSource
// means no source was found.
type VideoSource interface {
	isVideoSource()
}

// DashSource points at an adaptive-streaming manifest to be parsed and
// fetched stream by stream.
type DashSource struct {
	ManifestURL string
}

// ExternalSource points at a page to be handed to the external extractor.
type ExternalSource struct {
	URL string
}

func (DashSource) isVideoSource()     {}
func (ExternalSource) isVideoSource() {}

// Resolution is the full resolver output: the source variant plus whatever
// page metadata came along for free during resolution.
type Resolution struct {
	Source VideoSource
	Title  string
}
