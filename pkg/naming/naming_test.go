package naming

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var slugShape = regexp.MustCompile(`^[a-z0-9-]*$`)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"My Project", "my-project"},
		{"Jane Doe", "jane-doe"},
		{"Brand Identity — 2023", "brand-identity-2023"},
		{"Café Crème", "cafe-creme"},
		{"Привет мир", "privet-mir"},
		{"a--b", "a-b"},
		{"a---b", "a-b"},
		{"  spaced  out  ", "-spaced-out-"},
		{"UPPER_case", "upper-case"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeShapeAndIdempotence(t *testing.T) {
	inputs := []string{
		"My Project",
		"Jane & John Doe",
		"東京 Tokyo",
		"Ελληνικά",
		"----",
		"a - - b",
		"already-a-slug",
		"x!!!y???z",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Regexp(t, slugShape, once, "input %q", in)
		assert.NotContains(t, once, "--", "input %q", in)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", in)
		assert.Equal(t, once, Normalize(in), "normalize must be deterministic for %q", in)
	}
}

func TestNormalizeCollapsesSingleRepeatedHyphen(t *testing.T) {
	inputs := []string{"my--project", "a1--b2-c3", "--lead", "trail--"}

	for _, in := range inputs {
		expected := strings.Replace(in, "--", "-", 1)
		assert.Equal(t, expected, Normalize(in), "input %q", in)
	}
}

func TestSequenceNumber(t *testing.T) {
	assert.Equal(t, "01", SequenceNumber(1))
	assert.Equal(t, "03", SequenceNumber(3))
	assert.Equal(t, "09", SequenceNumber(9))
	assert.Equal(t, "10", SequenceNumber(10))
	assert.Equal(t, "12", SequenceNumber(12))
	assert.Equal(t, "120", SequenceNumber(120))
}

func TestExtension(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://mir-s3-cdn-cf.behance.net/project_modules/source/abc.png", "png"},
		{"https://mir-s3-cdn-cf.behance.net/project_modules/source/abc.JPG", "jpg"},
		{"https://mir-s3-cdn-cf.behance.net/project_modules/source/abc.gif?width=10", "gif"},
		{"https://mir-s3-cdn-cf.behance.net/project_modules/source/abc", "jpg"},
		{"https://cdn.example.com/v1.2/image", "jpg"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Extension(tt.url), tt.url)
	}
}

func TestFileName(t *testing.T) {
	p := Project{ID: "12345", NormalizedOwners: "jane-doe", NormalizedTitle: "my-project"}

	assert.Equal(t, "behance_jane-doe_12345-my-project_03.png", FileName(DefaultPrefix, p, 3, "png"))
	assert.Contains(t, FileName(DefaultPrefix, p, 12, "png"), "_12.")
}

func TestTargets(t *testing.T) {
	p := Project{ID: "12345", NormalizedOwners: "jane-doe", NormalizedTitle: "my-project"}
	images := []string{
		"https://cdn.behance.net/project_modules/source/a.jpg",
		"https://cdn.behance.net/project_modules/source/b.png",
	}

	targets := Targets("/out", DefaultPrefix, p, images)

	if assert.Len(t, targets, 2) {
		assert.Equal(t, images[0], targets[0].SourceURL)
		assert.Equal(t, filepath.Join("/out", "behance_jane-doe_12345-my-project_01.jpg"), targets[0].Path)
		assert.Equal(t, filepath.Join("/out", "behance_jane-doe_12345-my-project_02.png"), targets[1].Path)
	}
}
