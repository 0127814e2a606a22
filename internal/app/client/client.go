package client

import (
	"errors"
	"fmt"
	"net/smtp"
	"time"

	log "github.com/sirupsen/logrus"
)

// loginAuth implements the LOGIN mechanism, which several transactional
// providers require instead of PLAIN.
type loginAuth struct {
	username, password string
}

func LoginAuth(username, password string) smtp.Auth {
	return &loginAuth{username, password}
}

func (a *loginAuth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	return "LOGIN", []byte{}, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if more {
		switch string(fromServer) {
		case "Username:":
			return []byte(a.username), nil
		case "Password:":
			return []byte(a.password), nil
		default:
			return nil, errors.New("unexpected server challenge")
		}
	}
	return nil, nil
}

type Client interface {
	SendMail(to string, subj string, msg string) error
}

type SMTPClient struct {
	auth    smtp.Auth
	address string
	from    string
}

func NewClient(login string, password string, address string, from string) Client {
	return &SMTPClient{
		auth:    LoginAuth(login, password),
		address: address,
		from:    from,
	}
}

func buildMessage(from string, to string, subj string, body string, date time.Time) []byte {
	return []byte("Date: " + date.Format(time.RFC1123Z) + "\r\n" +
		"From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subj + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		body + "\r\n")
}

func (c *SMTPClient) SendMail(to string, subj string, msg string) error {
	mail := buildMessage(c.from, to, subj, msg, time.Now())

	if err := smtp.SendMail(c.address, c.auth, c.from, []string{to}, mail); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	log.WithFields(log.Fields{"to": to, "subject": subj}).Info("email sent")
	return nil
}
