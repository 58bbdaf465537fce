// Package probe inspects a media file's actual encoded stream properties
// via ffprobe. The resolvers use it as a fallback when filename text does
// not carry codec or resolution tokens.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Result carries the stream properties the pipeline cares about.
type Result struct {
	Codec  string
	Width  int
	Height int
	FPS    float64
}

// Prober is the narrow capability the resolvers depend on. Implementations
// must honor the context deadline; a timeout is reported as an error and
// the caller degrades the affected fields to Unknown.
type Prober interface {
	Probe(ctx context.Context, path string) (Result, error)
}

// FFProbe shells out to the ffprobe binary.
type FFProbe struct {
	// Binary is the executable name or path; empty means "ffprobe" on PATH.
	Binary string
	// Timeout bounds a single invocation. Zero means 10 seconds.
	Timeout time.Duration
}

type ffprobeOutput struct {
	Streams []struct {
		CodecName    string `json:"codec_name"`
		CodecType    string `json:"codec_type"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
}

// Probe runs ffprobe against path and returns the first video stream's
// codec, dimensions and frame rate.
func (f *FFProbe) Probe(ctx context.Context, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("probe: empty path")
	}

	binary := f.Binary
	if binary == "" {
		binary = "ffprobe"
	}
	timeout := f.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error", "-hide_banner",
		"-show_streams", "-of", "json",
		"--", path)
	output, err := cmd.Output()
	if err != nil {
		return Result{}, fmt.Errorf("probe %s: %w", path, err)
	}

	var parsed ffprobeOutput
	if err := json.Unmarshal(output, &parsed); err != nil {
		return Result{}, fmt.Errorf("probe parse %s: %w", path, err)
	}

	for _, stream := range parsed.Streams {
		if !strings.EqualFold(stream.CodecType, "video") {
			continue
		}
		return Result{
			Codec:  stream.CodecName,
			Width:  stream.Width,
			Height: stream.Height,
			FPS:    parseFrameRate(stream.AvgFrameRate),
		}, nil
	}

	return Result{}, fmt.Errorf("probe %s: no video stream", path)
}

// ResolutionFromHeight maps a pixel height onto the conventional resolution
// ladder used in release names.
func ResolutionFromHeight(height int) string {
	switch {
	case height <= 0:
		return ""
	case height >= 2160:
		return "4K"
	case height >= 1080:
		return "1080p"
	case height >= 720:
		return "720p"
	case height >= 480:
		return "480p"
	default:
		return fmt.Sprintf("%dp", height)
	}
}

// parseFrameRate converts ffprobe's "30000/1001" rational into a float.
// Returns 0 for missing or degenerate rates.
func parseFrameRate(rate string) float64 {
	rate = strings.TrimSpace(rate)
	if rate == "" || rate == "0/0" {
		return 0
	}
	num, denom, found := strings.Cut(rate, "/")
	if !found {
		v, err := strconv.ParseFloat(rate, 64)
		if err != nil {
			return 0
		}
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(denom, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
