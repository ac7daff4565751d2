package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/justsurfingit/jobtrack-ai/internal/apperror"
	"github.com/justsurfingit/jobtrack-ai/internal/dtos"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
)

// RecruitingQuery narrows the mailbox to recent hiring-related threads.
const RecruitingQuery = "subject:(application OR interview OR update OR offer OR rejected OR status) newer_than:30d"

const inboxPageSize = 50

// MailMessage is the part of an email the tracker cares about.
type MailMessage struct {
	ID      string
	From    string
	Subject string
	Snippet string
	Body    string
}

// MailSource searches a mailbox.
type MailSource interface {
	Search(ctx context.Context, query string, limit int64) ([]MailMessage, error)
}

// GmailSource reads a Gmail mailbox with a read-only token.
type GmailSource struct {
	Client *gmail.Service
	Log    logrus.FieldLogger
}

func NewGmailSource(client *gmail.Service, log logrus.FieldLogger) *GmailSource {
	return &GmailSource{
		Client: client,
		Log:    log,
	}
}

func (g *GmailSource) Search(ctx context.Context, query string, limit int64) ([]MailMessage, error) {
	var resp *gmail.ListMessagesResponse
	err := retry(ctx, g.Log, 3, time.Second, func() error {
		var e error
		resp, e = g.Client.Users.Messages.List("me").Q(query).MaxResults(limit).Context(ctx).Do()
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("gmail: list messages: %w", err)
	}

	out := make([]MailMessage, 0, len(resp.Messages))
	for _, ref := range resp.Messages {
		var msg *gmail.Message
		err := retry(ctx, g.Log, 2, 500*time.Millisecond, func() error {
			var e error
			msg, e = g.Client.Users.Messages.Get("me", ref.Id).Format("full").Context(ctx).Do()
			return e
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			g.Log.WithError(err).WithField("message_id", ref.Id).Warn("Skipping unreadable message")
			continue
		}
		out = append(out, toMailMessage(msg))
	}
	return out, nil
}

// InboxService finds emails in the connected mailbox that are about one of
// the user's applications.
type InboxService struct {
	Applications *ApplicationService
	Source       MailSource
	Log          logrus.FieldLogger
}

func NewInboxService(apps *ApplicationService, source MailSource, log logrus.FieldLogger) *InboxService {
	return &InboxService{
		Applications: apps,
		Source:       source,
		Log:          log,
	}
}

func (s *InboxService) Enabled() bool { return s != nil && s.Source != nil }

func (s *InboxService) FindEmails(ctx context.Context, appID, userID uint) ([]dtos.EmailSummary, error) {
	if !s.Enabled() {
		return nil, apperror.Unavailable("Gmail integration is not configured")
	}

	app, err := s.Applications.Find(ctx, appID, userID)
	if err != nil {
		return nil, err
	}

	messages, err := s.Source.Search(ctx, RecruitingQuery, inboxPageSize)
	if err != nil {
		s.Log.WithError(err).WithField("application_id", appID).Error("Inbox search failed")
		return nil, apperror.Upstream("gmail", err)
	}

	found := []dtos.EmailSummary{}
	for _, m := range messages {
		if !MatchesCompany(app.Company, m.Subject, m.From) {
			continue
		}
		found = append(found, dtos.EmailSummary{
			ID:      m.ID,
			From:    m.From,
			Subject: m.Subject,
			Snippet: m.Snippet,
			Body:    m.Body,
		})
	}

	s.Log.WithFields(logrus.Fields{
		"application_id": appID,
		"scanned":        len(messages),
		"matched":        len(found),
	}).Info("Inbox lookup finished")
	return found, nil
}

// retry runs f up to attempts times, doubling the pause between tries.
// Missing resources are not retried.
func retry(ctx context.Context, log logrus.FieldLogger, attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if isNotFound(err) || i == attempts-1 {
			break
		}

		log.WithError(err).Warnf("Gmail API error, retrying in %v", sleep)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
		sleep *= 2
	}
	return err
}

func isNotFound(err error) bool {
	var gErr *googleapi.Error
	return errors.As(err, &gErr) && gErr.Code == http.StatusNotFound
}

func toMailMessage(msg *gmail.Message) MailMessage {
	headers := parseHeaders(msg)
	return MailMessage{
		ID:      msg.Id,
		From:    headers["From"],
		Subject: headers["Subject"],
		Snippet: msg.Snippet,
		Body:    getEmailBody(msg),
	}
}

func parseHeaders(msg *gmail.Message) map[string]string {
	res := make(map[string]string)
	if msg.Payload == nil {
		return res
	}
	for _, h := range msg.Payload.Headers {
		res[h.Name] = h.Value
	}
	return res
}

// getEmailBody prefers the single-part body, then text/plain, then text/html.
func getEmailBody(msg *gmail.Message) string {
	if msg.Payload == nil {
		return ""
	}
	if msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
		return decodeBody(msg.Payload.Body.Data)
	}
	for _, mime := range []string{"text/plain", "text/html"} {
		for _, part := range msg.Payload.Parts {
			if part.MimeType == mime && part.Body != nil && part.Body.Data != "" {
				return decodeBody(part.Body.Data)
			}
		}
	}
	return ""
}

// Gmail uses URL-safe base64, usually without padding.
func decodeBody(data string) string {
	if d, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return string(d)
	}
	d, _ := base64.URLEncoding.DecodeString(data)
	return string(d)
}
