package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Template is a parsed template file: YAML front matter plus markdown
// body.
type Template struct {
	Metadata map[string]any
	Body     string
}

var frontMatterDelim = []byte("---")

// ParseTemplate splits front matter from body. Files without a leading
// "---" are all body.
func ParseTemplate(content []byte) (*Template, error) {
	if !bytes.HasPrefix(content, frontMatterDelim) {
		return &Template{Metadata: make(map[string]any), Body: string(content)}, nil
	}

	rest := bytes.TrimLeft(bytes.TrimPrefix(content, frontMatterDelim), "\r\n")
	if len(rest) == 0 {
		return nil, fmt.Errorf("%w: nothing after opening delimiter", ErrInvalidFrontmatter)
	}
	end := bytes.Index(rest, frontMatterDelim)
	if end == -1 {
		return nil, fmt.Errorf("%w: closing delimiter missing", ErrInvalidFrontmatter)
	}

	head := rest[:end]
	body := rest[end+len(frontMatterDelim):]
	// drop the single newline following the closing delimiter
	if bytes.HasPrefix(body, []byte("\r\n")) {
		body = body[2:]
	} else if bytes.HasPrefix(body, []byte("\n")) {
		body = body[1:]
	}

	metadata := make(map[string]any)
	if len(bytes.TrimSpace(head)) > 0 {
		if err := yaml.Unmarshal(head, &metadata); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}
	return &Template{Metadata: metadata, Body: string(body)}, nil
}
