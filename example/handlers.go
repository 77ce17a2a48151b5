package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrymomot/anvil"
	"github.com/dmitrymomot/anvil/example/views"
	"github.com/dmitrymomot/anvil/pkg/eventbus"
	"github.com/dmitrymomot/anvil/pkg/outbox"
	"github.com/dmitrymomot/anvil/pkg/session"
	"github.com/dmitrymomot/anvil/pkg/users"
)

func registerRoutes(app *anvil.App, sessions *anvil.SessionManager, accounts *users.Service, outboxSvc *outbox.Service) {
	app.HandleRoute("main", func(c *anvil.Context, _ ...string) error {
		return c.Render(c.Request().Context(), http.StatusOK,
			views.Home(c.IsAuthenticated(), c.Req().Warnings))
	})

	app.HandleRoute("login", func(c *anvil.Context, _ ...string) error {
		r := c.Request()
		ctx := r.Context()
		sess := c.Session()

		// Login link from a confirmation mail.
		if onetime := c.Query("onetime"); onetime != "" {
			if sessions.Login(ctx, c, c.Query("email"), "", onetime) {
				c.RedirectTo("/")
				return nil
			}
			c.Req().Warn(anvil.SeverityFatal, "login_failed")
		}

		if r.Method == http.MethodPost {
			submitted := c.Form(session.FormField("login", sess.ID))
			if !sess.ValidateForm("login", submitted) {
				return anvil.ErrSessionExpired
			}

			email, password := c.Form("email"), c.Form("password")
			switch {
			case password == "":
				sendLoginLink(ctx, c, accounts, outboxSvc, email)
				// Same answer whether or not the account exists.
				c.Req().Warn(anvil.SeveritySuccess, "login_link_sent")
			case sessions.Login(ctx, c, email, password, ""):
				c.RedirectTo("/")
				return nil
			default:
				c.Req().Warn(anvil.SeverityFatal, "login_failed")
			}
		}

		field, token := sess.BeginForm("login")
		return c.Render(ctx, http.StatusOK, views.Login(field, token, c.Req().Warnings))
	})

	app.HandleRoute("register", func(c *anvil.Context, _ ...string) error {
		r := c.Request()
		ctx := r.Context()
		sess := c.Session()

		if r.Method == http.MethodPost {
			submitted := c.Form(session.FormField("register", sess.ID))
			if !sess.ValidateForm("register", submitted) {
				return anvil.ErrSessionExpired
			}
			id, onetime, err := accounts.Create(ctx, users.CreateInput{
				Email:        c.Form("email"),
				Name:         c.Form("name"),
				IssueOnetime: true,
			})
			switch {
			case err == nil:
				app.Bus().Dispatch(ctx, "newuser", id, onetime)
				c.Req().Warn(anvil.SeveritySuccess, "confirm_link_sent")
				c.RedirectTo("/login")
				return nil
			case errors.Is(err, users.ErrEmailTaken):
				// Same answer as success so addresses stay unguessable.
				c.Req().Warn(anvil.SeveritySuccess, "confirm_link_sent")
				c.RedirectTo("/login")
				return nil
			case errors.Is(err, users.ErrInvalidEmail):
				c.Req().Warn(anvil.SeverityFatal, "invalid_email")
			default:
				return err
			}
		}

		field, token := sess.BeginForm("register")
		return c.Render(ctx, http.StatusOK, views.Register(field, token, c.Req().Warnings))
	})

	app.HandleRoute("user+prefs", func(c *anvil.Context, _ ...string) error {
		if !c.IsAuthenticated() {
			c.RedirectTo("/login")
			return nil
		}
		r := c.Request()
		ctx := r.Context()
		sess := c.Session()

		if r.Method == http.MethodPost {
			submitted := c.Form(session.FormField("prefs", sess.ID))
			if !sess.ValidateForm("prefs", submitted) {
				return anvil.ErrSessionExpired
			}
			in := users.UpdateInput{
				NewPassword:        c.Form("newpassword"),
				NewPasswordConfirm: c.Form("newpassword2"),
			}
			if email := c.Form("email"); email != "" {
				in.Email = &email
			}
			if name := c.Form("name"); name != "" {
				in.Name = &name
			}
			_, err := accounts.Update(ctx, c.UserID(), in)
			switch {
			case err == nil:
				app.Bus().Dispatch(ctx, "user_changed", c.UserID())
				c.Req().Warn(anvil.SeveritySuccess, "prefs_saved")
			case errors.Is(err, users.ErrPasswordMismatch):
				c.Req().Warn(anvil.SeverityFatal, "password_mismatch")
			case errors.Is(err, users.ErrWeakPassword):
				c.Req().Warn(anvil.SeverityFatal, "password_too_short")
			case errors.Is(err, users.ErrInvalidEmail):
				c.Req().Warn(anvil.SeverityFatal, "invalid_email")
			case errors.Is(err, users.ErrEmailTaken):
				c.Req().Warn(anvil.SeverityFatal, "email_taken")
			default:
				return err
			}
		}

		user, err := accounts.Resolve(ctx, c.UserID())
		if err != nil {
			return err
		}
		field, token := sess.BeginForm("prefs")
		return c.Render(ctx, http.StatusOK, views.Prefs(user, field, token, c.Req().Warnings))
	})

	app.HandleRoute("logout", func(c *anvil.Context, _ ...string) error {
		sessions.Logout(c.Request().Context(), c)
		c.RedirectTo("/")
		return nil
	})

	app.HandleRoute("outbox", func(c *anvil.Context, _ ...string) error {
		if !c.IsAuthenticated() {
			c.RedirectTo("/login")
			return nil
		}
		ctx := c.Request().Context()
		listings, err := outboxSvc.Pending(ctx, c.UserID())
		if err != nil {
			return err
		}
		field, token := c.Session().BeginForm("outbox")
		return c.Render(ctx, http.StatusOK, views.Outbox(listings, field, token, c.Req().Warnings))
	})

	app.HandleRoute("outbox+send", func(c *anvil.Context, segments ...string) error {
		return outboxAction(c, segments, func(ctx context.Context, id int64) error {
			return outboxSvc.Send(ctx, id)
		})
	})

	app.HandleRoute("outbox+delete", func(c *anvil.Context, segments ...string) error {
		return outboxAction(c, segments, func(ctx context.Context, id int64) error {
			return outboxSvc.Delete(ctx, id, c.UserID())
		})
	})

	// Welcome mail for accounts created elsewhere in the app.
	app.Bus().On("newuser", func(ctx context.Context, args ...any) eventbus.Result {
		if len(args) < 2 {
			return eventbus.Failure()
		}
		userID, _ := args[0].(int64)
		onetime, _ := args[1].(string)
		user, err := accounts.Resolve(ctx, userID)
		if err != nil {
			return eventbus.Failure()
		}
		_, _, err = outboxSvc.Compose(ctx, 0, outbox.ComposeInput{
			To:       []int64{userID},
			Template: "welcome.md",
			Data: map[string]string{
				"Name": user.Name,
				"URL":  loginLinkURL(user.Email, onetime),
			},
			ContextType: "user",
			ContextID:   &userID,
			Direct:      true,
		})
		if err != nil {
			return eventbus.Failure()
		}
		return eventbus.OK()
	})
}

// outboxAction validates the form token, parses the message ID and runs
// the action, then returns to the outbox listing.
func outboxAction(c *anvil.Context, segments []string, fn func(context.Context, int64) error) error {
	if !c.IsAuthenticated() {
		c.RedirectTo("/login")
		return nil
	}
	sess := c.Session()
	if !sess.ValidateForm("outbox", c.Form(session.FormField("outbox", sess.ID))) {
		return anvil.ErrSessionExpired
	}
	if len(segments) == 0 {
		return anvil.ErrNotFound
	}
	id, err := strconv.ParseInt(segments[0], 10, 64)
	if err != nil {
		return anvil.ErrNotFound
	}
	if err := fn(c.Request().Context(), id); err != nil {
		return err
	}
	c.RedirectTo("/outbox")
	return nil
}

// sendLoginLink issues a fresh one-time password and mails it. Unknown
// addresses are ignored without telling the requester.
func sendLoginLink(ctx context.Context, c *anvil.Context, accounts *users.Service, outboxSvc *outbox.Service, email string) {
	acct, err := accounts.ByEmail(ctx, email, true)
	if err != nil {
		return
	}
	onetime, err := accounts.Update(ctx, acct.ID, users.UpdateInput{IssueOnetime: true})
	if err != nil {
		c.Logger().ErrorContext(ctx, "issue onetime", "error", err)
		return
	}
	_, _, err = outboxSvc.Compose(ctx, 0, outbox.ComposeInput{
		To:       []int64{acct.ID},
		Template: "confirmlink.md",
		Data: map[string]string{
			"Name": acct.Name,
			"URL":  loginLinkURL(acct.Email, onetime),
		},
		Direct: true,
	})
	if err != nil {
		c.Logger().ErrorContext(ctx, "send login link", "error", err)
	}
}

func loginLinkURL(email, onetime string) string {
	base := getEnv("BASE_URL", "http://localhost:8080")
	return base + "/login?email=" + url.QueryEscape(email) + "&onetime=" + url.QueryEscape(onetime)
}
