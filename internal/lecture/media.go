package lecture

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// MaxVideoSize is the service's per-file upload ceiling.
const MaxVideoSize = 100 * 1024 * 1024 // 100MB

// PendingMedia is a file selected for upload but not yet sent. Until Save
// succeeds it exists only on the local disk.
type PendingMedia struct {
	Path string
	Name string
	Size int64
}

// checkVideoFile gates one candidate lecture video: it must exist, stay
// under the ceiling and actually be MP4. Extension alone is not trusted;
// the first bytes are sniffed too.
func checkVideoFile(path string) (PendingMedia, error) {
	info, err := os.Stat(path)
	if err != nil {
		return PendingMedia{}, fmt.Errorf("lecture: video file: %w", err)
	}
	if info.Size() > MaxVideoSize {
		return PendingMedia{}, fmt.Errorf("lecture: file %q exceeds the 100MB limit", filepath.Base(path))
	}

	if !strings.EqualFold(filepath.Ext(path), ".mp4") {
		return PendingMedia{}, fmt.Errorf("lecture: file %q is not an MP4 video, only MP4 files are allowed", filepath.Base(path))
	}
	mime, err := sniffMIME(path)
	if err != nil {
		return PendingMedia{}, err
	}
	if !strings.Contains(mime, "video/mp4") {
		return PendingMedia{}, fmt.Errorf("lecture: file %q is not an MP4 video, only MP4 files are allowed", filepath.Base(path))
	}

	return PendingMedia{Path: path, Name: filepath.Base(path), Size: info.Size()}, nil
}

// checkImageFile gates a thumbnail candidate: any image MIME is fine.
func checkImageFile(path string) (PendingMedia, error) {
	info, err := os.Stat(path)
	if err != nil {
		return PendingMedia{}, fmt.Errorf("lecture: thumbnail file: %w", err)
	}

	mime, err := sniffMIME(path)
	if err != nil {
		return PendingMedia{}, err
	}
	if !strings.HasPrefix(mime, "image/") {
		return PendingMedia{}, fmt.Errorf("lecture: only image files (e.g. .jpg, .png) are allowed for the thumbnail")
	}

	return PendingMedia{Path: path, Name: filepath.Base(path), Size: info.Size()}, nil
}

func sniffMIME(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("lecture: open %s: %w", path, err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return "", fmt.Errorf("lecture: read %s: %w", path, err)
	}
	return http.DetectContentType(buf[:n]), nil
}

// probeDuration asks ffprobe for the video duration in seconds. Best
// effort: a missing ffprobe binary or an unparsable container returns 0
// and the caller keeps whatever duration was set by hand.
func probeDuration(path string) int {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return 0
	}

	var probed struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(raw), &probed); err != nil {
		return 0
	}

	secs, err := strconv.ParseFloat(probed.Format.Duration, 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return int(secs)
}
