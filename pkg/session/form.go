package session

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// FormField derives the opaque hidden-input name for a named form. The
// session ID is mixed in so field names cannot be precomputed for
// another visitor's form.
func FormField(formName, sessionID string) string {
	sum := sha256.Sum256([]byte(formName + sessionID))
	return "form" + hex.EncodeToString(sum[:16])
}

// BeginForm issues a single-use token for the named form, replacing any
// token previously issued for it, and returns the hidden field name and
// token value to embed.
func (s *Session) BeginForm(formName string) (field, token string) {
	field = FormField(formName, s.ID)
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	token = hex.EncodeToString(buf)
	s.SetValue(field, token)
	return field, token
}

// FormInput renders the hidden input for embedding in an HTML form.
func (s *Session) FormInput(formName string) string {
	field, token := s.BeginForm(formName)
	return fmt.Sprintf(`<input type="hidden" name="%s" value="%s" />`, field, token)
}

// ValidateForm consumes the token for the named form and compares it to
// the submitted value. The stored token is deleted before comparison, so
// a token validates at most once regardless of outcome; resubmitting a
// form requires rendering it again.
func (s *Session) ValidateForm(formName, submitted string) bool {
	field := FormField(formName, s.ID)
	stored, err := Value[string](s, field)
	s.DeleteValue(field)
	if err != nil || stored == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}
