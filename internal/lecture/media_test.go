package lecture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// A minimal ftyp box that sniffs as video/mp4.
var mp4Header = append([]byte{0, 0, 0, 16}, []byte("ftypmp42\x00\x00\x00\x00")...)

// An 8-byte PNG signature; sniffs as image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckVideoFile(t *testing.T) {
	good := writeTemp(t, "intro.mp4", mp4Header)

	m, err := checkVideoFile(good)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if m.Name != "intro.mp4" {
		t.Errorf("Expected name %q, got %q", "intro.mp4", m.Name)
	}
	if m.Size != int64(len(mp4Header)) {
		t.Errorf("Expected size %d, got %d", len(mp4Header), m.Size)
	}
}

func TestCheckVideoFileRejectsWrongExtension(t *testing.T) {
	path := writeTemp(t, "notes.txt", []byte("just text"))
	_, err := checkVideoFile(path)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "only MP4") {
		t.Errorf("Expected MP4 message, got %q", err.Error())
	}
}

func TestCheckVideoFileRejectsMislabeledBytes(t *testing.T) {
	// Right extension, wrong content.
	path := writeTemp(t, "fake.mp4", []byte("this is not a video at all"))
	_, err := checkVideoFile(path)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "only MP4") {
		t.Errorf("Expected MP4 message, got %q", err.Error())
	}
}

func TestCheckVideoFileRejectsOversized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.mp4")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	// Sparse file: size check runs on Stat, no real bytes needed.
	if err := f.Truncate(MaxVideoSize + 1); err != nil {
		f.Close()
		t.Skipf("cannot create sparse file: %v", err)
	}
	f.Close()

	_, err = checkVideoFile(path)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "100MB") {
		t.Errorf("Expected size limit message, got %q", err.Error())
	}
}

func TestCheckImageFile(t *testing.T) {
	good := writeTemp(t, "thumb.png", pngHeader)
	if _, err := checkImageFile(good); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	bad := writeTemp(t, "thumb.pdf", []byte("%PDF-1.4 not an image"))
	if _, err := checkImageFile(bad); err == nil {
		t.Error("Expected error for non-image, got nil")
	}
}
