package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nguyentantai21042004/clip-flow/internal/manifest"
	"github.com/nguyentantai21042004/clip-flow/internal/resolver"
)

// processDash handles the adaptive-streaming path: fetch the manifest, pick
// the best video and audio representations, download them directly and remux.
// Reddit hosts no native captions, so text mode always goes through
// transcription here.
func (p *implPipeline) processDash(ctx context.Context, src resolver.DashSource, req Request, result *Result, progress ProgressFunc) error {
	result.Platform = "reddit"

	progress("Fetching manifest...")
	data, err := manifest.Fetch(p.client, src.ManifestURL)
	if err != nil {
		return fmt.Errorf("fetch manifest: %w", err)
	}

	sel := manifest.Select(data, src.ManifestURL)
	// Stream URLs come from scraped content, so they get the same address
	// screening as the page URL did.
	if sel.VideoURL != "" && !p.allowURL(sel.VideoURL) {
		result.warn("video stream rejected by address screening")
		sel.VideoURL = ""
	}
	if sel.AudioURL != "" && !p.allowURL(sel.AudioURL) {
		result.warn("audio stream rejected by address screening")
		sel.AudioURL = ""
	}
	if sel.Empty() {
		return ErrNoStream
	}

	needText := req.Mode == ModeText || req.Mode == ModeAll
	needAudio := req.Mode == ModeAudio || req.Mode == ModeAll
	needVideo := req.Mode == ModeVideo || req.Mode == ModeAll
	optional := req.Mode == ModeAll

	// The audio stream also feeds the merge step, so video mode fetches it
	// even though it never appears in the result on its own.
	var audioPath string
	if sel.AudioURL == "" {
		if needText || needAudio {
			if !optional {
				return fmt.Errorf("post has no audio stream")
			}
			result.warn("post has no audio stream")
		}
	} else {
		progress("Downloading audio...")
		dest := filepath.Join(result.tempDir, "audio.mp4")
		if err := p.downloader.FetchStream(ctx, sel.AudioURL, dest); err != nil {
			if (needText || needAudio) && !optional {
				return fmt.Errorf("download audio: %w", err)
			}
			result.warn("audio download failed: %v", err)
		} else {
			audioPath = dest
		}
	}

	if needVideo {
		if err := p.dashVideo(ctx, sel, audioPath, !optional, result, progress); err != nil {
			return err
		}
	}

	if audioPath != "" && result.Duration == nil {
		if dur, err := p.post.Duration(ctx, audioPath); err == nil {
			result.setDuration(dur)
		}
	}

	if needAudio && audioPath != "" {
		result.AudioPath = audioPath
	}

	if needText && audioPath != "" {
		if err := p.transcribeInto(ctx, audioPath, result, progress); err != nil {
			if !optional {
				return err
			}
			result.warn("transcription failed: %v", err)
		}
	}
	return nil
}

// dashVideo downloads the video stream, merges in audio when present, and
// fits the artifact under the delivery ceiling. A merge failure degrades to
// a video-only artifact with a warning.
func (p *implPipeline) dashVideo(ctx context.Context, sel manifest.Selection, audioPath string, required bool, result *Result, progress ProgressFunc) error {
	if sel.VideoURL == "" {
		if required {
			return fmt.Errorf("post has no video stream")
		}
		result.warn("post has no video stream")
		return nil
	}

	progress("Downloading video...")
	videoPath := filepath.Join(result.tempDir, "video.mp4")
	if err := p.downloader.FetchStream(ctx, sel.VideoURL, videoPath); err != nil {
		if required {
			return fmt.Errorf("download video: %w", err)
		}
		result.warn("video download failed: %v", err)
		return nil
	}

	final := videoPath
	if audioPath != "" {
		progress("Merging streams...")
		merged := filepath.Join(result.tempDir, "merged.mp4")
		if err := p.post.Merge(ctx, videoPath, audioPath, merged); err != nil {
			result.warn("merge failed, delivering video without audio: %v", err)
		} else {
			final = merged
		}
	}

	if dur, err := p.post.Duration(ctx, final); err == nil {
		result.setDuration(dur)
	}

	return p.shrinkVideo(ctx, final, required, result, progress)
}
