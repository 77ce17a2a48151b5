package mailer_test

import (
	"context"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/mailer"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []*mailer.Email
	err  error
}

func (f *fakeSender) Send(_ context.Context, email *mailer.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, email)
	return nil
}

func (f *fakeSender) last() *mailer.Email {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"welcome.md": &fstest.MapFile{Data: []byte(`---
subject: "Welcome, {{.Name}}"
---
Hello **{{.Name}}**!

[!button|Confirm your address]({{.Link}})
`)},
		"bare.md": &fstest.MapFile{Data: []byte("Plain *message* body.\n")},
		"layouts/base.html": &fstest.MapFile{Data: []byte(
			`<html><body>{{.Content}}</body></html>`)},
	}
}

func newTestMailer(s mailer.Sender) *mailer.Mailer {
	return mailer.New(s, mailer.NewRenderer(testFS()), mailer.Config{
		FallbackSubject: "Notification",
		DefaultLayout:   "base.html",
	})
}

func TestSendRendersTemplate(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	m := newTestMailer(sender)

	err := m.Send(context.Background(), mailer.SendParams{
		To:       "user@example.com",
		Template: "welcome.md",
		Data:     map[string]any{"Name": "Alice", "Link": "https://example.com/confirm?t=x"},
	})
	require.NoError(t, err)

	sent := sender.last()
	require.NotNil(t, sent)
	assert.Equal(t, []string{"user@example.com"}, sent.To)
	assert.Equal(t, "Welcome, Alice", sent.Subject)
	assert.Contains(t, sent.HTML, "<strong>Alice</strong>")
	assert.Contains(t, sent.HTML, `<a href="https://example.com/confirm?t=x" class="btn">Confirm your address</a>`)
	assert.Contains(t, sent.HTML, "<html><body>")
	assert.Contains(t, sent.Text, "Hello **Alice**!")
	assert.NotContains(t, sent.Text, "<strong>")
}

func TestSendSubjectPrecedence(t *testing.T) {
	t.Parallel()

	t.Run("explicit beats front matter", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		m := newTestMailer(sender)
		err := m.Send(context.Background(), mailer.SendParams{
			To:       "user@example.com",
			Template: "welcome.md",
			Subject:  "Override",
			Data:     map[string]any{"Name": "A", "Link": "x"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Override", sender.last().Subject)
	})

	t.Run("fallback when template has none", func(t *testing.T) {
		t.Parallel()

		sender := &fakeSender{}
		m := newTestMailer(sender)
		err := m.Send(context.Background(), mailer.SendParams{
			To:       "user@example.com",
			Template: "bare.md",
		})
		require.NoError(t, err)
		assert.Equal(t, "Notification", sender.last().Subject)
	})
}

func TestSendValidation(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	m := newTestMailer(sender)

	err := m.Send(context.Background(), mailer.SendParams{Template: "bare.md"})
	assert.ErrorIs(t, err, mailer.ErrNoRecipient)

	err = m.Send(context.Background(), mailer.SendParams{To: "a@b.c", Template: "missing.md"})
	assert.ErrorIs(t, err, mailer.ErrRenderFailed)
	assert.ErrorIs(t, err, mailer.ErrTemplateNotFound)
}

func TestSendRaw(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	m := newTestMailer(sender)

	err := m.SendRaw(context.Background(), &mailer.Email{})
	assert.ErrorIs(t, err, mailer.ErrNoRecipient)

	err = m.SendRaw(context.Background(), &mailer.Email{To: []string{"a@b.c"}})
	assert.ErrorIs(t, err, mailer.ErrNoSubject)

	err = m.SendRaw(context.Background(), &mailer.Email{To: []string{"a@b.c"}, Subject: "s"})
	assert.ErrorIs(t, err, mailer.ErrNoContent)

	err = m.SendRaw(context.Background(), &mailer.Email{
		To: []string{"a@b.c"}, Subject: "s", HTML: "<p>hi</p>",
	})
	assert.NoError(t, err)
}

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	t.Run("front matter", func(t *testing.T) {
		t.Parallel()

		tpl, err := mailer.ParseTemplate([]byte("---\nsubject: Hi\n---\nBody here.\n"))
		require.NoError(t, err)
		assert.Equal(t, "Hi", tpl.Metadata["subject"])
		assert.Equal(t, "Body here.\n", tpl.Body)
	})

	t.Run("no front matter", func(t *testing.T) {
		t.Parallel()

		tpl, err := mailer.ParseTemplate([]byte("Just a body.\n"))
		require.NoError(t, err)
		assert.Empty(t, tpl.Metadata)
		assert.Equal(t, "Just a body.\n", tpl.Body)
	})

	t.Run("unterminated front matter", func(t *testing.T) {
		t.Parallel()

		_, err := mailer.ParseTemplate([]byte("---\nsubject: Hi\n"))
		assert.ErrorIs(t, err, mailer.ErrInvalidFrontmatter)
	})

	t.Run("bad yaml", func(t *testing.T) {
		t.Parallel()

		_, err := mailer.ParseTemplate([]byte("---\n{nope\n---\nbody"))
		assert.ErrorIs(t, err, mailer.ErrInvalidFrontmatter)
	})
}

func TestRecipient(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a@b.c", mailer.Recipient("", "a@b.c"))
	assert.Equal(t, "Alice <a@b.c>", mailer.Recipient("Alice", "a@b.c"))
}
