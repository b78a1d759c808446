package postproc

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

// EnsureUnderCeiling returns videoPath unchanged when it already fits the
// delivery ceiling. Otherwise the original is archived (best-effort) and up
// to two compression stages run: constant-quality first, two-pass
// bitrate-targeted second. A result still over the ceiling is a hard
// failure; there is no third stage.
func (p *implPostProcessor) EnsureUnderCeiling(ctx context.Context, videoPath, workDir string) (string, error) {
	info, err := os.Stat(videoPath)
	if err != nil {
		return "", fmt.Errorf("stat candidate artifact: %w", err)
	}
	if info.Size() <= p.ceilingBytes() {
		return videoPath, nil
	}

	p.logger.Info(ctx, "Artifact %s is %d bytes, over the %d MB ceiling; compressing",
		filepath.Base(videoPath), info.Size(), p.pipeline.DeliveryMaxMB)

	p.archiveOriginal(ctx, videoPath)

	stage1 := filepath.Join(workDir, "compressed_crf.mp4")
	if err := p.compressCRF(ctx, videoPath, stage1); err != nil {
		return "", err
	}
	if fits, err := p.fits(stage1); err != nil {
		return "", err
	} else if fits {
		return stage1, nil
	}

	duration, err := p.Duration(ctx, videoPath)
	if err != nil {
		return "", err
	}

	stage2 := filepath.Join(workDir, "compressed_2pass.mp4")
	if err := p.compressTwoPass(ctx, videoPath, stage2, workDir, duration); err != nil {
		return "", err
	}
	if fits, err := p.fits(stage2); err != nil {
		return "", err
	} else if !fits {
		return "", ErrTooLarge
	}
	return stage2, nil
}

func (p *implPostProcessor) fits(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat compressed output: %w", err)
	}
	return info.Size() <= p.ceilingBytes(), nil
}

// archiveOriginal copies the pre-compression original into the archive
// directory. Failure is logged, never fatal.
func (p *implPostProcessor) archiveOriginal(ctx context.Context, videoPath string) {
	if p.pipeline.ArchiveDir == "" {
		return
	}
	if err := os.MkdirAll(p.pipeline.ArchiveDir, 0755); err != nil {
		p.logger.Warn(ctx, "Failed to create archive dir: %v", err)
		return
	}

	dest := filepath.Join(p.pipeline.ArchiveDir, filepath.Base(filepath.Dir(videoPath))+"_"+filepath.Base(videoPath))
	if err := copyFile(videoPath, dest); err != nil {
		p.logger.Warn(ctx, "Failed to archive original %s: %v", videoPath, err)
		return
	}
	p.logger.Debug(ctx, "Archived original to %s", dest)
}

// compressCRF is stage 1: constant-quality re-encode with a height cap and a
// fixed audio bitrate.
func (p *implPostProcessor) compressCRF(ctx context.Context, inPath, outPath string) error {
	args := []string{
		"-y",
		"-i", inPath,
		"-c:v", "libx264",
		"-crf", strconv.Itoa(p.ffmpeg.CRF),
		"-preset", p.ffmpeg.Preset,
		"-vf", fmt.Sprintf("scale=-2:'min(%d,ih)'", p.ffmpeg.MaxHeight),
		"-c:a", "aac",
		"-b:a", fmt.Sprintf("%dk", p.ffmpeg.AudioBitrateKbps),
		"-movflags", "+faststart",
		outPath,
	}

	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("stage 1 compression: %w", err)
	}
	return nil
}

// TwoPassBitrateKbps computes the stage-2 target video bitrate for a target
// size in MB and a duration in seconds, leaving room for the audio track.
func TwoPassBitrateKbps(targetMB, durationSec float64, audioKbps int) int {
	if durationSec <= 0 {
		return 0
	}
	return int(math.Floor(targetMB*8192/durationSec - float64(audioKbps)))
}

// compressTwoPass is stage 2: an analysis pass whose output is discarded,
// then a final encode sharing the pass-log file.
func (p *implPostProcessor) compressTwoPass(ctx context.Context, inPath, outPath, workDir string, durationSec float64) error {
	target := float64(p.pipeline.DeliveryMaxMB) - 1
	bitrate := TwoPassBitrateKbps(target, durationSec, p.ffmpeg.AudioBitrateKbps)
	if bitrate <= 0 {
		return fmt.Errorf("%w: %.0fs at %d MB", ErrTooLong, durationSec, p.pipeline.DeliveryMaxMB)
	}

	passLog := filepath.Join(workDir, "ffmpeg2pass")
	bv := fmt.Sprintf("%dk", bitrate)

	analyze := []string{
		"-y",
		"-i", inPath,
		"-c:v", "libx264",
		"-b:v", bv,
		"-preset", p.ffmpeg.Preset,
		"-pass", "1",
		"-passlogfile", passLog,
		"-an",
		"-f", "null",
		os.DevNull,
	}
	if _, err := p.executor.Execute(ctx, "ffmpeg", analyze...); err != nil {
		return fmt.Errorf("stage 2 analysis pass: %w", err)
	}

	encode := []string{
		"-y",
		"-i", inPath,
		"-c:v", "libx264",
		"-b:v", bv,
		"-preset", p.ffmpeg.Preset,
		"-pass", "2",
		"-passlogfile", passLog,
		"-c:a", "aac",
		"-b:a", fmt.Sprintf("%dk", p.ffmpeg.AudioBitrateKbps),
		"-movflags", "+faststart",
		outPath,
	}
	if _, err := p.executor.Execute(ctx, "ffmpeg", encode...); err != nil {
		return fmt.Errorf("stage 2 encode pass: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
