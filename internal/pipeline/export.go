package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Export copies the run's artifacts out of the scratch directory into
// outDir under the given base name and writes a JSON result manifest next
// to them. Artifact paths on the Result are rewritten to the exported
// locations, so Cleanup can still run afterwards without invalidating them.
func (r *Result) Export(outDir, name string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if r.Transcript != "" {
		if err := os.WriteFile(filepath.Join(outDir, name+".txt"), []byte(r.Transcript), 0o644); err != nil {
			return err
		}
	}
	if r.Summary != "" {
		if err := os.WriteFile(filepath.Join(outDir, name+".summary.txt"), []byte(r.Summary), 0o644); err != nil {
			return err
		}
	}

	// The audio suffix keeps a dash run's audio.mp4 from colliding with the
	// merged video when both export under the same base name.
	artifacts := []struct {
		path   *string
		suffix string
	}{
		{&r.SubtitlePath, ""},
		{&r.AudioPath, ".audio"},
		{&r.VideoPath, ""},
	}
	for _, a := range artifacts {
		if *a.path == "" {
			continue
		}
		dest := filepath.Join(outDir, name+a.suffix+filepath.Ext(*a.path))
		if err := copyFile(*a.path, dest); err != nil {
			return err
		}
		*a.path = dest
	}

	manifest, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outDir, name+".json"), manifest, 0o644)
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
