package outbox

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	texttemplate "text/template"
	"time"

	"github.com/dmitrymomot/anvil/pkg/audit"
	"github.com/dmitrymomot/anvil/pkg/job"
	"github.com/dmitrymomot/anvil/pkg/mailer"
	"github.com/dmitrymomot/anvil/pkg/sanitizer"
	"github.com/dmitrymomot/anvil/pkg/users"
)

// ObjectType is the ACL object type guarding the outbox. A user who can
// EditAction this type gets outgoing mail spooled for review instead
// of sent directly.
const (
	ObjectType = "email"
	EditAction = "edit"
)

// Task names for the background queue.
const (
	TaskSend  = "send_email"
	TaskSweep = "outbox_sweep"
)

// staleAfter is how old an unsent system message must be before the
// sweep retries it.
const staleAfter = time.Hour

// Message is one spooled e-mail. Recipients are user IDs, resolved to
// addresses only at delivery time so later profile edits still apply.
// UserID is the queueing user, zero for system mail. MailFrom names the
// user whose address becomes Reply-To, zero for none.
type Message struct {
	ID          int64
	UserID      int64
	MailFrom    int64
	Recipients  []int64
	CCs         []int64
	BCCs        []int64
	Subject     string
	HTML        string
	ContextType string
	ContextID   *int64
	Sent        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Resolver looks up display data for recipient user IDs. Satisfied by
// users.Service.
type Resolver interface {
	Resolve(ctx context.Context, id int64) (users.User, error)
}

// Enqueuer dispatches background jobs. Satisfied by job.Manager and
// job.Enqueuer.
type Enqueuer interface {
	Enqueue(ctx context.Context, name string, payload any, opts ...job.EnqueueOption) error
}

// RoleLister reports the roles a user holds. Satisfied by acl stores.
type RoleLister interface {
	Roles(ctx context.Context, userID int64) ([]string, error)
}

// Config holds outbox defaults.
type Config struct {
	From            string `env:"MAILER_FROM"`
	FallbackSubject string `env:"MAILER_FALLBACK_SUBJECT" envDefault:"Notification"`
	Layout          string `env:"MAILER_DEFAULT_LAYOUT" envDefault:"base.html"`
	ForceOutbox     bool   `env:"OUTBOX_FORCE"`
}

// Service spools outgoing mail per user, delivers it through the
// mailer, and keeps the audit trail informed.
type Service struct {
	store    Store
	resolver Resolver
	mail     *mailer.Mailer
	renderer *mailer.Renderer
	jobs     Enqueuer
	trail    *audit.Trail
	roles    RoleLister
	logger   *slog.Logger
	config   Config
}

// Option configures a Service.
type Option func(*Service)

// WithJobs makes Send enqueue delivery on the background queue instead
// of delivering inline.
func WithJobs(e Enqueuer) Option {
	return func(s *Service) { s.jobs = e }
}

// WithTrail records an audit entry for every delivered message.
func WithTrail(t *audit.Trail) Option {
	return func(s *Service) { s.trail = t }
}

// WithRoles annotates outbox listings with the recipients' role names.
func WithRoles(r RoleLister) Option {
	return func(s *Service) { s.roles = r }
}

// WithLogger sets the logger. Defaults to discard.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates the outbox service.
func NewService(store Store, resolver Resolver, mail *mailer.Mailer, renderer *mailer.Renderer, cfg Config, opts ...Option) *Service {
	s := &Service{
		store:    store,
		resolver: resolver,
		mail:     mail,
		renderer: renderer,
		config:   cfg,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listing is a pending message plus the role names its recipients hold,
// with the built-in admin and member roles filtered out.
type Listing struct {
	Message
	Roles []string
}

// Pending returns unsent messages queued by userID, oldest first. A
// zero userID returns the whole queue.
func (s *Service) Pending(ctx context.Context, userID int64) ([]Listing, error) {
	msgs, err := s.store.Pending(ctx, userID)
	if err != nil {
		return nil, err
	}

	listings := make([]Listing, 0, len(msgs))
	for _, m := range msgs {
		listings = append(listings, Listing{
			Message: m,
			Roles:   s.recipientRoles(ctx, m),
		})
	}
	return listings, nil
}

// recipientRoles collects the distinct roles across all recipients,
// minus admin and member which every account effectively has.
func (s *Service) recipientRoles(ctx context.Context, m Message) []string {
	if s.roles == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, list := range [][]int64{m.Recipients, m.CCs, m.BCCs} {
		for _, uid := range list {
			roles, err := s.roles.Roles(ctx, uid)
			if err != nil {
				continue
			}
			for _, role := range roles {
				if role == "admin" || role == "member" {
					continue
				}
				if _, ok := seen[role]; !ok {
					seen[role] = struct{}{}
					out = append(out, role)
				}
			}
		}
	}
	return out
}

// Message fetches one spooled message.
func (s *Service) Message(ctx context.Context, id int64) (Message, error) {
	return s.store.Get(ctx, id)
}

// Save creates the message when its ID is zero, updates it otherwise.
func (s *Service) Save(ctx context.Context, m Message) (int64, error) {
	if m.ID == 0 {
		return s.store.Create(ctx, m)
	}
	return m.ID, s.store.Update(ctx, m)
}

// Delete removes a pending message. A non-zero ownerID restricts the
// deletion to that user's own messages; admins pass zero.
func (s *Service) Delete(ctx context.Context, id, ownerID int64) error {
	return s.store.Delete(ctx, id, ownerID)
}

// Send schedules delivery of a spooled message. With a job queue
// configured the heavy lifting happens on a worker with retries;
// without one it delivers inline.
func (s *Service) Send(ctx context.Context, id int64) error {
	if s.jobs == nil {
		return s.Deliver(ctx, id, true)
	}
	return s.jobs.Enqueue(ctx, TaskSend, SendPayload{EmailID: id, Reviewed: true},
		job.UniqueFor(time.Minute),
		job.UniqueKey("outbox:"+strconv.FormatInt(id, 10)),
	)
}

// Deliver resolves recipients, hands the message to the mailer and
// marks it sent. reviewed tells the audit trail whether a person
// released it from their outbox or the system sent it directly.
func (s *Service) Deliver(ctx context.Context, id int64, reviewed bool) error {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if m.Sent {
		return ErrAlreadySent
	}

	email := &mailer.Email{
		From:    s.config.From,
		Subject: m.Subject,
		HTML:    m.HTML,
		Text:    sanitizer.StripHTML(m.HTML),
		To:      s.addresses(ctx, m.Recipients),
		CC:      s.addresses(ctx, m.CCs),
		BCC:     s.addresses(ctx, m.BCCs),
	}
	if len(email.To) == 0 {
		return ErrNoRecipients
	}
	if m.MailFrom != 0 {
		if reply := s.addresses(ctx, []int64{m.MailFrom}); len(reply) > 0 {
			email.ReplyTo = reply[0]
		}
	}

	if err := s.mail.SendRaw(ctx, email); err != nil {
		return err
	}
	if err := s.store.MarkSent(ctx, id); err != nil {
		return err
	}

	if s.trail != nil {
		entry := audit.Entry{
			Action:   "emailed",
			NewValue: strconv.FormatInt(id, 10),
		}
		if reviewed {
			entry.ActingUserID = m.UserID
		}
		if m.ContextType != "" && m.ContextID != nil {
			entry.ObjectType = m.ContextType
			entry.ObjectID = m.ContextID
		}
		if err := s.trail.Log(ctx, entry); err != nil {
			s.logger.ErrorContext(ctx, "audit entry for delivery failed",
				slog.Int64("email_id", id),
				slog.Any("error", err),
			)
		}
	}

	s.logger.InfoContext(ctx, "outbox message delivered",
		slog.Int64("email_id", id),
		slog.Int("recipients", len(email.To)),
	)
	return nil
}

// addresses maps user IDs to RFC 5322 recipients, silently dropping
// users that no longer resolve.
func (s *Service) addresses(ctx context.Context, ids []int64) []string {
	var out []string
	for _, id := range ids {
		u, err := s.resolver.Resolve(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, mailer.Recipient(sanitizer.CleanName(u.Name), u.Email))
	}
	return out
}

// ComposeInput describes a templated message to queue or send.
type ComposeInput struct {
	To       []int64
	CC       []int64
	BCC      []int64
	MailFrom int64
	Template string
	Data     any

	// Audit context attached to the message, e.g. the object whose
	// change triggered it.
	ContextType string
	ContextID   *int64

	// Spool keeps the message in the sender's outbox for review.
	// Direct forces immediate delivery even for spooling users.
	Spool  bool
	Direct bool
}

// Compose renders the template, stores the message and either leaves it
// spooled or schedules delivery. It returns the message ID and whether
// delivery was scheduled.
func (s *Service) Compose(ctx context.Context, senderID int64, in ComposeInput) (int64, bool, error) {
	if len(in.To) == 0 {
		return 0, false, ErrNoRecipients
	}

	result, err := s.renderer.Render(s.config.Layout, in.Template, in.Data)
	if err != nil {
		return 0, false, err
	}
	subject := s.config.FallbackSubject
	if meta, ok := result.Metadata["subject"].(string); ok {
		subject = meta
	}
	subject, err = executeSubject(subject, in.Data)
	if err != nil {
		return 0, false, err
	}

	id, err := s.store.Create(ctx, Message{
		UserID:      senderID,
		MailFrom:    in.MailFrom,
		Recipients:  in.To,
		CCs:         in.CC,
		BCCs:        in.BCC,
		Subject:     subject,
		HTML:        result.HTML,
		ContextType: in.ContextType,
		ContextID:   in.ContextID,
	})
	if err != nil {
		return 0, false, err
	}

	if in.Spool && !in.Direct {
		return id, false, nil
	}
	if s.jobs == nil {
		return id, true, s.Deliver(ctx, id, false)
	}
	return id, true, s.jobs.Enqueue(ctx, TaskSend, SendPayload{EmailID: id})
}

// Sweep re-schedules unsent system messages older than an hour. They
// stayed behind after a delivery failure exhausted its retries.
func (s *Service) Sweep(ctx context.Context) error {
	ids, err := s.store.Stale(ctx, time.Now().Add(-staleAfter))
	if err != nil {
		return err
	}
	var errs []error
	for _, id := range ids {
		if s.jobs != nil {
			errs = append(errs, s.jobs.Enqueue(ctx, TaskSend, SendPayload{EmailID: id}))
			continue
		}
		if err := s.Deliver(ctx, id, false); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HasPending reports whether the user has unsent messages, used by the
// force-outbox request gate.
func (s *Service) HasPending(ctx context.Context, userID int64) (bool, error) {
	return s.store.HasPending(ctx, userID)
}

// ForceOutbox reports whether the gate should steer spooling users with
// pending mail to their outbox.
func (s *Service) ForceOutbox() bool {
	return s.config.ForceOutbox
}

func executeSubject(subject string, data any) (string, error) {
	tmpl, err := texttemplate.New("subject").Parse(subject)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
