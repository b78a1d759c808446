package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/clip-flow/internal/resolver"
	"github.com/nguyentantai21042004/clip-flow/internal/subtitle"
)

// processExternal handles every non-manifest platform through the external
// extractor. For text requests native captions are tried first; a hit skips
// the media download entirely.
func (p *implPipeline) processExternal(ctx context.Context, src resolver.ExternalSource, req Request, result *Result, progress ProgressFunc) error {
	result.Platform = platformName(src.URL)

	if title, dur, err := p.downloader.Metadata(ctx, src.URL); err == nil {
		if result.Title == "" {
			result.Title = title
		}
		result.setDuration(dur)
	} else {
		p.logger.Debug(ctx, "metadata probe failed for %s: %v", src.URL, err)
	}

	needText := req.Mode == ModeText || req.Mode == ModeAll
	needAudio := req.Mode == ModeAudio || req.Mode == ModeAll
	needVideo := req.Mode == ModeVideo || req.Mode == ModeAll
	optional := req.Mode == ModeAll

	if needText {
		p.tryCaptions(ctx, src.URL, req.SubtitleFormat, result, progress)
	}
	captionsDone := result.Transcript != "" || result.SubtitlePath != ""

	if !needVideo && !needAudio && captionsDone {
		return nil
	}

	progress("Downloading video...")
	videoPath, err := p.downloader.Extract(ctx, src.URL, result.tempDir)
	if err != nil {
		if optional && captionsDone {
			result.warn("media download failed: %v", err)
			return nil
		}
		return fmt.Errorf("download media: %w", err)
	}

	if result.Duration == nil {
		if dur, derr := p.post.Duration(ctx, videoPath); derr == nil {
			result.setDuration(dur)
		}
	}

	if needAudio || (needText && !captionsDone) {
		progress("Extracting audio...")
		audioPath, aerr := p.post.ExtractAudio(ctx, videoPath)
		if aerr != nil {
			if !optional {
				return fmt.Errorf("extract audio: %w", aerr)
			}
			result.warn("audio extraction failed: %v", aerr)
		} else {
			if needAudio {
				result.AudioPath = audioPath
			}
			if needText && !captionsDone {
				if terr := p.transcribeInto(ctx, audioPath, result, progress); terr != nil {
					if !optional {
						return terr
					}
					result.warn("transcription failed: %v", terr)
				}
			}
		}
	}

	if needVideo {
		if err := p.shrinkVideo(ctx, videoPath, !optional, result, progress); err != nil {
			return err
		}
	}
	return nil
}

// tryCaptions fetches native captions and delivers them in the requested
// format. Every failure falls through silently to the transcription path.
func (p *implPipeline) tryCaptions(ctx context.Context, pageURL string, format SubtitleFormat, result *Result, progress ProgressFunc) {
	progress("Checking for captions...")
	capPath, err := p.downloader.FetchCaptions(ctx, pageURL, result.tempDir, p.cfg.Transcription.Language)
	if err != nil {
		p.logger.Debug(ctx, "caption fetch failed for %s: %v", pageURL, err)
		return
	}
	if capPath == "" {
		return
	}

	if format == SubtitleSRT || format == SubtitleVTT {
		want := "." + string(format)
		if strings.EqualFold(filepath.Ext(capPath), want) {
			result.SubtitlePath = capPath
			result.SubtitleFormat = format
			return
		}
		converted := filepath.Join(result.tempDir, "captions"+want)
		if cerr := p.post.ConvertSubtitle(ctx, capPath, converted); cerr == nil {
			result.SubtitlePath = converted
			result.SubtitleFormat = format
			return
		}
		result.warn("subtitle conversion to %s failed, falling back to plain text", format)
	}

	raw, rerr := os.ReadFile(capPath)
	if rerr != nil {
		p.logger.Debug(ctx, "caption read failed: %v", rerr)
		return
	}
	text := subtitle.ToText(string(raw))
	if text == "" {
		return
	}
	result.Transcript = text
}
