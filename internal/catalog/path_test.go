package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"uppercases first segment only", "bags/Tote/mini", "BAGS/Tote/mini"},
		{"trims segments", "  bags /  Tote ", "BAGS/Tote"},
		{"accepts backslashes", `bags\Tote\\Mini`, "BAGS/Tote/Mini"},
		{"mixed separators", `shoes/Heels\Red`, "SHOES/Heels/Red"},
		{"drops leading and trailing slashes", "/shoes/", "SHOES"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"separators only", " / \\ / ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.raw))
		})
	}
}

func TestNormalizePath_Idempotent(t *testing.T) {
	for _, raw := range []string{"bags/Tote", `x\y\z`, " a / b ", ""} {
		once := NormalizePath(raw)
		assert.Equal(t, once, NormalizePath(once))
	}
}

func TestNormalizeThumbnail(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"x.webp", "/thumbs/x.webp"},
		{"/thumbs/x.webp", "/thumbs/x.webp"},
		{"thumbs/x.webp", "/thumbs/x.webp"},
		{`thumbs\bags\tote.png`, "/thumbs/bags/tote.png"},
		{"./img/a.png", "/thumbs/img/a.png"},
		{".//img/a.png", "/thumbs/img/a.png"},
		{"/images/bags/tote.webp", "/images/bags/tote.webp"},
		{`\images\tote.webp`, "/images/tote.webp"},
		{"//cdn.example.com/a.png", "//cdn.example.com/a.png"},
		{"./", ""},
		{"https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"   ", ""},
		{"/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeThumbnail(tt.raw))
		})
	}
}

func TestAncestorPaths(t *testing.T) {
	assert.Equal(t, []string{"BAGS", "BAGS/Tote"}, ancestorPaths("BAGS/Tote/Mini"))
	assert.Empty(t, ancestorPaths("BAGS"))
	assert.Empty(t, ancestorPaths(""))
}
