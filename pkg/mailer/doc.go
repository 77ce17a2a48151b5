// Package mailer renders and delivers transactional mail.
//
// Templates are markdown files with YAML front matter, executed with
// text/template, converted to HTML with
// [github.com/yuin/goldmark] and wrapped in an html/template layout.
// The executed markdown doubles as the text/plain alternative. A small
// goldmark extension renders [!button|Label](URL) as a call-to-action
// anchor.
//
//	//go:embed templates
//	var templates embed.FS
//
//	m := mailer.New(
//	    resend.New(resendCfg),
//	    mailer.NewRenderer(templates),
//	    mailer.Config{FallbackSubject: "Notification"},
//	)
//	err := m.Send(ctx, mailer.SendParams{
//	    To:       "user@example.com",
//	    Template: "confirmlink.md",
//	    Data:     map[string]any{"Link": link},
//	})
//
// Delivery goes through the [Sender] interface; the resend subpackage
// provides the production implementation.
package mailer
