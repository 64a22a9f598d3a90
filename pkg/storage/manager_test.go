package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type failingReader struct {
	data []byte
	sent bool
}

func (f *failingReader) Read(p []byte) (int, error) {
	if !f.sent {
		f.sent = true
		return copy(p, f.data), nil
	}
	return 0, errors.New("connection reset")
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestManager(t *testing.T) {
	tempDir := t.TempDir()
	outDir := filepath.Join(tempDir, "nested", "downloads")

	manager, err := NewManager(outDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if info, err := os.Stat(outDir); err != nil || !info.IsDir() {
		t.Fatal("Expected output directory to be created")
	}

	if manager.GetSavedCount() != 0 {
		t.Error("Expected initial saved count to be 0")
	}

	path := filepath.Join(outDir, "behance_jane-doe_1-x_01.jpg")
	if fileExists(path) {
		t.Error("Expected no file before the first save")
	}

	testData := []byte("test image data")
	n, err := manager.Save(bytes.NewReader(testData), path)
	if err != nil {
		t.Fatalf("Failed to save image: %v", err)
	}
	if n != int64(len(testData)) {
		t.Errorf("Expected %d bytes written, got %d", len(testData), n)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if !bytes.Equal(content, testData) {
		t.Error("File content does not match expected data")
	}

	if manager.GetOutputDir() != outDir {
		t.Errorf("Expected output dir %s, got %s", outDir, manager.GetOutputDir())
	}
	if manager.GetSavedCount() != 1 {
		t.Errorf("Expected saved count to be 1, got %d", manager.GetSavedCount())
	}
	if manager.GetSavedBytes() != int64(len(testData)) {
		t.Errorf("Expected %d saved bytes, got %d", len(testData), manager.GetSavedBytes())
	}
}

func TestSaveOverwrites(t *testing.T) {
	tempDir := t.TempDir()
	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	path := filepath.Join(tempDir, "image.png")
	if _, err := manager.Save(bytes.NewReader([]byte("first version, longer")), path); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if _, err := manager.Save(bytes.NewReader([]byte("second")), path); err != nil {
		t.Fatalf("second save: %v", err)
	}

	content, _ := os.ReadFile(path)
	if string(content) != "second" {
		t.Errorf("Expected file to be overwritten, got %q", content)
	}
	if manager.GetSavedCount() != 1 {
		t.Errorf("Expected one distinct file, got %d", manager.GetSavedCount())
	}
	if manager.GetSavedBytes() != int64(len("second")) {
		t.Errorf("Expected bytes of latest write, got %d", manager.GetSavedBytes())
	}
}

func TestSaveFailureLeavesNoPartialFile(t *testing.T) {
	tempDir := t.TempDir()
	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	path := filepath.Join(tempDir, "broken.jpg")
	if _, err := manager.Save(&failingReader{data: []byte("partial")}, path); err == nil {
		t.Fatal("Expected save to fail")
	}

	if fileExists(path) {
		t.Error("Expected no file at target path after failed stream")
	}

	entries, _ := os.ReadDir(tempDir)
	if len(entries) != 0 {
		t.Errorf("Expected temporary file to be removed, found %d entries", len(entries))
	}
	if manager.GetSavedCount() != 0 {
		t.Error("Expected failed save not to be counted")
	}
}
