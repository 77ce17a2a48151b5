package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/anvil/pkg/sanitizer"
)

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"script injection", `<p>Hello</p><script>alert('xss')</script>`, "Hello"},
		{"all tags", `<p>Hello <strong>world</strong></p>`, "Hello world"},
		{"event handlers", `<img src="x" onerror="alert('xss')">`, ""},
		{"javascript urls", `<a href="javascript:alert('xss')">click</a>`, "click"},
		{"iframe", `<iframe src="https://evil.com"></iframe>content`, "content"},
		{"plain text untouched", "normal text without HTML", "normal text without HTML"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.StripHTML(tt.input))
		})
	}
}

func TestSanitizeHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"keeps formatting", `<p>Hello <strong>world</strong></p>`, `<p>Hello <strong>world</strong></p>`},
		{"keeps lists", `<ul><li>one</li><li>two</li></ul>`, `<ul><li>one</li><li>two</li></ul>`},
		{"drops script", `<p>ok</p><script>alert(1)</script>`, `<p>ok</p>`},
		{"drops event handler", `<p onclick="alert(1)">ok</p>`, `<p>ok</p>`},
		{"nofollow links", `<a href="https://example.com">x</a>`, `<a href="https://example.com" rel="nofollow">x</a>`},
		{"drops javascript href", `<a href="javascript:alert(1)">x</a>`, `x`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizer.SanitizeHTML(tt.input))
		})
	}
}

func TestCleanFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "my_report.pdf", sanitizer.CleanFilename("my report.pdf"))
	assert.Equal(t, "a_b_c", sanitizer.CleanFilename("a  b\tc"))
	assert.Equal(t, "passwd", sanitizer.CleanFilename("/etc/passwd"))
	assert.Equal(t, "rsum.txt", sanitizer.CleanFilename("résumé.txt"))
}

func TestCleanBaseFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "myreportpdf", sanitizer.CleanBaseFilename("my.report.pdf"))
	assert.Equal(t, "etcpasswd", sanitizer.CleanBaseFilename("../../etc/passwd"))
}

func TestCleanEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "user@example.com", sanitizer.CleanEmail("User@Example.COM"))
	assert.Equal(t, "user+tag@example.com", sanitizer.CleanEmail("user+tag@example.com"))
	assert.Equal(t, "userscript@example.com", sanitizer.CleanEmail("user<script>@example.com"))
	assert.Equal(t, "", sanitizer.CleanEmail("  "))
}

func TestCleanName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Alice", sanitizer.CleanName("<b>Alice</b>"))
	assert.Equal(t, "Bob", sanitizer.CleanName("Bob\x00\x1f"))
	assert.Equal(t, "OMalley", sanitizer.CleanName("O'Malley"))
	assert.Equal(t, "x", sanitizer.CleanName("x`|\\\"<>"))
}

func TestProtectEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "so****@example.com", sanitizer.ProtectEmail("someone@example.com"))
	assert.Equal(t, "a****@example.com", sanitizer.ProtectEmail("a@example.com"))
	assert.Equal(t, "no****", sanitizer.ProtectEmail("noatsign"))
}
