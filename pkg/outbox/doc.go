// Package outbox spools outgoing mail per user and delivers it through
// the mailer.
//
// Messages address recipients by user ID and keep the rendered subject
// and HTML; addresses are resolved at delivery time. Users holding the
// edit right on the email object type get their mail spooled for review
// instead of sent directly, and with force-outbox enabled the request
// gate steers them to /outbox while messages are pending.
//
// Delivery normally runs as a background job with retries; a scheduled
// sweep picks up system messages stuck in the queue. Every delivered
// message leaves an audit entry.
package outbox
