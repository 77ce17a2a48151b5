// Package views renders the demo pages. Components are hand-built
// templ components so the example stays a single go file per concern;
// a real site would generate them from .templ sources.
package views

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/anvil"
	"github.com/dmitrymomot/anvil/pkg/outbox"
	"github.com/dmitrymomot/anvil/pkg/users"
)

func esc(s string) string { return html.EscapeString(s) }

// page wraps body markup in the shared layout with the warnings banner.
func page(title string, warnings []anvil.Warning, body string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, "<!DOCTYPE html><html><head><title>%s</title></head><body>", esc(title))
		for _, warn := range warnings {
			class := "info"
			switch warn.Severity {
			case anvil.SeverityFatal:
				class = "error"
			case anvil.SeverityWarning:
				class = "warning"
			case anvil.SeveritySuccess:
				class = "success"
			}
			fmt.Fprintf(&b, `<p class="flash %s">%s</p>`, class, esc(warn.Code))
		}
		b.WriteString(body)
		b.WriteString("</body></html>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Home is the landing page.
func Home(authenticated bool, warnings []anvil.Warning) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>anvil demo</h1>")
	if authenticated {
		b.WriteString(`<p><a href="/outbox">Outbox</a> · <a href="/user/prefs">Preferences</a> · <a href="/logout">Log out</a></p>`)
	} else {
		b.WriteString(`<p><a href="/login">Log in</a></p>`)
	}
	return page("Home", warnings, b.String())
}

// Login renders the credentials form. The anti-replay token travels in
// a field whose name is opaque per session.
func Login(field, token string, warnings []anvil.Warning) templ.Component {
	var b strings.Builder
	b.WriteString(`<h1>Log in</h1><form method="post" action="/login">`)
	fmt.Fprintf(&b, `<input type="hidden" name="%s" value="%s">`, esc(field), esc(token))
	b.WriteString(`<label>Email <input type="email" name="email"></label>`)
	b.WriteString(`<label>Password <input type="password" name="password"></label>`)
	b.WriteString(`<p>Leave the password empty to receive a login link by mail.</p>`)
	b.WriteString(`<button type="submit">Log in</button></form>`)
	b.WriteString(`<p><a href="/register">Register</a></p>`)
	return page("Log in", warnings, b.String())
}

// Prefs renders the profile form, pre-filled with the current account.
func Prefs(user users.User, field, token string, warnings []anvil.Warning) templ.Component {
	var b strings.Builder
	b.WriteString(`<h1>Preferences</h1><form method="post" action="/user/prefs">`)
	fmt.Fprintf(&b, `<input type="hidden" name="%s" value="%s">`, esc(field), esc(token))
	fmt.Fprintf(&b, `<label>Email <input type="email" name="email" value="%s"></label>`, esc(user.Email))
	fmt.Fprintf(&b, `<label>Name <input type="text" name="name" value="%s"></label>`, esc(user.Name))
	b.WriteString(`<label>New password <input type="password" name="newpassword"></label>`)
	b.WriteString(`<label>Repeat <input type="password" name="newpassword2"></label>`)
	b.WriteString(`<button type="submit">Save</button></form>`)
	return page("Preferences", warnings, b.String())
}

// Register renders the sign-up form. New accounts get their first
// login through a mailed confirmation link.
func Register(field, token string, warnings []anvil.Warning) templ.Component {
	var b strings.Builder
	b.WriteString(`<h1>Register</h1><form method="post" action="/register">`)
	fmt.Fprintf(&b, `<input type="hidden" name="%s" value="%s">`, esc(field), esc(token))
	b.WriteString(`<label>Email <input type="email" name="email"></label>`)
	b.WriteString(`<label>Name <input type="text" name="name"></label>`)
	b.WriteString(`<button type="submit">Register</button></form>`)
	return page("Register", warnings, b.String())
}

// Outbox lists a user's spooled messages pending review.
func Outbox(listings []outbox.Listing, field, token string, warnings []anvil.Warning) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>Outbox</h1>")
	if len(listings) == 0 {
		b.WriteString("<p>Nothing pending.</p>")
	}
	for _, l := range listings {
		fmt.Fprintf(&b, `<article><h2>%s</h2>`, esc(l.Message.Subject))
		if len(l.Roles) > 0 {
			fmt.Fprintf(&b, `<p>Recipient roles: %s</p>`, esc(strings.Join(l.Roles, ", ")))
		}
		fmt.Fprintf(&b, `<form method="post" action="/outbox/send/%d">`, l.Message.ID)
		fmt.Fprintf(&b, `<input type="hidden" name="%s" value="%s">`, esc(field), esc(token))
		b.WriteString(`<button type="submit">Send</button></form>`)
		fmt.Fprintf(&b, `<form method="post" action="/outbox/delete/%d">`, l.Message.ID)
		fmt.Fprintf(&b, `<input type="hidden" name="%s" value="%s">`, esc(field), esc(token))
		b.WriteString(`<button type="submit">Delete</button></form></article>`)
	}
	return page("Outbox", warnings, b.String())
}
