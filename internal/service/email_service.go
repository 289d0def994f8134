package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"mime/multipart"
	"net/smtp"
	"net/textproto"

	config "github.com/maheshrc27/content-compass/configs"
)

const inviteSubject = "You have been invited to join a team on Content Compass"

var inviteHTML = template.Must(template.New("invite").Parse(`<p>Hello,</p>
<p>{{.Inviter}} invited you to join <strong>{{.Team}}</strong> on Content Compass.</p>
<p><a href="{{.Link}}">Accept the invitation</a></p>`))

type InviteEmail struct {
	To      string
	Inviter string
	Team    string
	Link    string
}

// Mailer sends invitation emails. The returned preview link is only set
// outside production.
type Mailer interface {
	SendInvite(ctx context.Context, email InviteEmail) (previewURL string, err error)
}

// NewMailer returns an SMTP mailer when SMTP is configured and a logging
// mailer otherwise.
func NewMailer(cfg config.Config) Mailer {
	if cfg.SMTP.Host == "" {
		return &logMailer{}
	}
	return &smtpMailer{cfg: cfg}
}

type smtpMailer struct {
	cfg config.Config
}

func inviteText(e InviteEmail) string {
	return fmt.Sprintf("%s invited you to join %s on Content Compass.\n\nAccept the invitation: %s\n", e.Inviter, e.Team, e.Link)
}

func (m *smtpMailer) SendInvite(ctx context.Context, e InviteEmail) (string, error) {
	var html bytes.Buffer
	if err := inviteHTML.Execute(&html, e); err != nil {
		return "", err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, part := range []struct{ ctype, content string }{
		{"text/plain; charset=utf-8", inviteText(e)},
		{"text/html; charset=utf-8", html.String()},
	} {
		pw, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {part.ctype}})
		if err != nil {
			return "", err
		}
		if _, err := pw.Write([]byte(part.content)); err != nil {
			return "", err
		}
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: multipart/alternative; boundary=%s\r\n\r\n%s",
		m.cfg.SMTP.From, e.To, inviteSubject, w.Boundary(), body.String())

	addr := fmt.Sprintf("%s:%s", m.cfg.SMTP.Host, m.cfg.SMTP.Port)
	var auth smtp.Auth
	if m.cfg.SMTP.User != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTP.User, m.cfg.SMTP.Password, m.cfg.SMTP.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.SMTP.From, []string{e.To}, []byte(msg)); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	if m.cfg.Production() {
		return "", nil
	}
	return e.Link, nil
}

type logMailer struct{}

func (m *logMailer) SendInvite(ctx context.Context, e InviteEmail) (string, error) {
	slog.Info("invite email not sent, SMTP is not configured", "to", e.To, "link", e.Link)
	return e.Link, nil
}
