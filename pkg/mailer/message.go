package mailer

import "fmt"

// Email is a fully prepared message ready for delivery.
type Email struct {
	Headers     map[string]string
	Tags        map[string]string // provider-side categories, e.g. "kind": "confirmation"
	Subject     string
	HTML        string
	Text        string // plain text alternative
	From        string // overrides the provider default when set
	ReplyTo     string
	To          []string
	CC          []string
	BCC         []string
	Attachments []Attachment
}

// Attachment is a file attached to an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string // set for inline attachments
	Content     []byte
}

// Recipient formats an RFC 5322 address, "Name <email>" when a name is
// given.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
