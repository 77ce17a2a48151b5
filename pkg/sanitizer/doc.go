// Package sanitizer cleans untrusted input before it reaches storage,
// templates or outgoing mail.
//
// HTML handling is delegated to [github.com/microcosm-cc/bluemonday]:
// [StripHTML] reduces markup to plain text and [SanitizeHTML] keeps a
// small formatting allow-list. The Clean* helpers normalize the specific
// fields the registration and profile forms accept: display names,
// e-mail addresses and file names.
package sanitizer
