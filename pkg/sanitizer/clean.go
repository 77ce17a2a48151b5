package sanitizer

import (
	"html"
	"regexp"
	"strings"
)

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	filenameRe     = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)
	baseFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	emailRe        = regexp.MustCompile(`[^a-zA-Z0-9@.,_+-]`)
	nameRe         = regexp.MustCompile("[<>`|\\\\\"']")
	lowASCIIRe     = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// CleanFilename collapses whitespace runs into underscores and drops
// everything outside alphanumerics, underscore, dot and hyphen. Accented
// characters do not survive.
func CleanFilename(name string) string {
	return filenameRe.ReplaceAllString(whitespaceRe.ReplaceAllString(name, "_"), "")
}

// CleanBaseFilename is CleanFilename without dots, for names that must
// not carry an extension or traverse directories.
func CleanBaseFilename(name string) string {
	return baseFilenameRe.ReplaceAllString(whitespaceRe.ReplaceAllString(name, "_"), "")
}

// CleanEmail lowercases the address and strips characters that have no
// business in one. Deliberately stricter than RFC 5321 allows.
func CleanEmail(email string) string {
	return strings.ToLower(emailRe.ReplaceAllString(email, ""))
}

// CleanName strips HTML, control characters and shell-ish punctuation
// from a display name. The strip step entity-escapes its output, so the
// result is unescaped back to plain text before the final pass.
func CleanName(name string) string {
	plain := html.UnescapeString(StripHTML(name))
	return nameRe.ReplaceAllString(lowASCIIRe.ReplaceAllString(plain, ""), "")
}

// ProtectEmail masks most of the local part for display, keeping the
// first two characters: "someone@host" becomes "so****@host".
func ProtectEmail(email string) string {
	local, domain, found := strings.Cut(email, "@")
	if len(local) > 2 {
		local = local[:2]
	}
	if !found {
		return local + "****"
	}
	return local + "****@" + domain
}
