// Package manifest selects the best video and audio representations from a
// DASH manifest. Parsing is bounded so a hostile manifest cannot exhaust
// memory or CPU: oversized documents are rejected outright and element
// processing stops once the group or representation caps are hit.
package manifest

import (
	"bytes"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// MaxSize is the manifest size ceiling; larger documents are not parsed.
	MaxSize = 512 << 10

	maxAdaptationSets  = 20
	maxRepresentations = 50
)

// Selection holds the highest-bandwidth representation URL found per media
// type. Either field may be empty when no representation of that type
// matched.
type Selection struct {
	VideoURL string
	AudioURL string
}

// Empty reports whether no representation of either type was found.
func (s Selection) Empty() bool {
	return s.VideoURL == "" && s.AudioURL == ""
}

// Fetch downloads a manifest, refusing to read past the size ceiling.
func Fetch(client *http.Client, manifestURL string) ([]byte, error) {
	resp, err := client.Get(manifestURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(io.LimitReader(resp.Body, MaxSize+1))
}

// Select scans the manifest in a single pass and returns the best video and
// audio URLs, resolved against manifestURL. Malformed or over-limit input
// yields a zero Selection, never an error.
func Select(data []byte, manifestURL string) Selection {
	var sel Selection
	if len(data) > MaxSize {
		return sel
	}

	base, err := url.Parse(manifestURL)
	if err != nil {
		base = nil
	}

	dec := xml.NewDecoder(bytes.NewReader(data))

	var (
		setCount, repCount int
		bestVideoBW        = int64(-1)
		bestAudioBW        = int64(-1)

		setContentType string
		setMimeType    string
		setBaseURL     string
		inSet          bool
	)

	for {
		tok, err := dec.Token()
		if err != nil {
			return sel
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "AdaptationSet":
				setCount++
				if setCount > maxAdaptationSets {
					return sel
				}
				inSet = true
				setContentType = attr(el, "contentType")
				setMimeType = attr(el, "mimeType")
				setBaseURL = ""

			case "BaseURL":
				// Set-level base URL; representation-level BaseURL elements
				// are consumed inside readRepresentation.
				if inSet {
					var text string
					if err := dec.DecodeElement(&text, &el); err != nil {
						return sel
					}
					setBaseURL = strings.TrimSpace(text)
				} else {
					if err := dec.Skip(); err != nil {
						return sel
					}
				}

			case "Representation":
				repCount++
				if repCount > maxRepresentations {
					return sel
				}

				rep, ok := readRepresentation(dec, el)
				if !ok {
					return sel
				}

				mediaType := rep.mediaType(setContentType, setMimeType)
				repURL := resolveURL(base, rep.baseURL, setBaseURL)
				if repURL == "" {
					continue
				}

				switch mediaType {
				case "video":
					if rep.bandwidth > bestVideoBW {
						bestVideoBW = rep.bandwidth
						sel.VideoURL = repURL
					}
				case "audio":
					if rep.bandwidth > bestAudioBW {
						bestAudioBW = rep.bandwidth
						sel.AudioURL = repURL
					}
				}
			}

		case xml.EndElement:
			if el.Name.Local == "AdaptationSet" {
				inSet = false
			}
		}
	}
}

type representation struct {
	bandwidth   int64
	contentType string
	mimeType    string
	baseURL     string
}

// mediaType classifies the representation, preferring explicit content-type
// attributes and falling back to mime-type prefixes, representation level
// before group level.
func (r representation) mediaType(setContentType, setMimeType string) string {
	for _, ct := range []string{r.contentType, setContentType} {
		if ct == "video" || ct == "audio" {
			return ct
		}
	}
	for _, mt := range []string{r.mimeType, setMimeType} {
		if strings.HasPrefix(mt, "video/") {
			return "video"
		}
		if strings.HasPrefix(mt, "audio/") {
			return "audio"
		}
	}
	return ""
}

// readRepresentation consumes tokens up to the element's end tag, capturing
// the representation-level BaseURL if present.
func readRepresentation(dec *xml.Decoder, start xml.StartElement) (representation, bool) {
	rep := representation{
		contentType: attr(start, "contentType"),
		mimeType:    attr(start, "mimeType"),
	}
	if bw, err := strconv.ParseInt(attr(start, "bandwidth"), 10, 64); err == nil {
		rep.bandwidth = bw
	}

	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return rep, false
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "BaseURL" && depth == 1 {
				var text string
				if err := dec.DecodeElement(&text, &el); err != nil {
					return rep, false
				}
				rep.baseURL = strings.TrimSpace(text)
			} else {
				depth++
			}
		case xml.EndElement:
			depth--
		}
	}
	return rep, true
}

func resolveURL(base *url.URL, repBase, setBase string) string {
	ref := repBase
	if ref == "" {
		ref = setBase
	}
	if ref == "" {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil {
		if refURL.IsAbs() {
			return refURL.String()
		}
		return ""
	}
	return base.ResolveReference(refURL).String()
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
