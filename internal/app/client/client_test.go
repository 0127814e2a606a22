package client

import (
	"strings"
	"testing"
	"time"
)

func TestBuildMessage(t *testing.T) {
	date := time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)
	msg := string(buildMessage("shop@example.com", "owner@example.com", "New order #7", "hello", date))

	wantHeaders := []string{
		"Date: Sat, 15 Jun 2024 12:30:00 +0000\r\n",
		"From: shop@example.com\r\n",
		"To: owner@example.com\r\n",
		"Subject: New order #7\r\n",
		"MIME-Version: 1.0\r\n",
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n",
	}
	for _, h := range wantHeaders {
		if !strings.Contains(msg, h) {
			t.Errorf("message missing header %q", h)
		}
	}

	if !strings.HasSuffix(msg, "\r\n\r\nhello\r\n") {
		t.Errorf("message body malformed: %q", msg)
	}
}

func TestLoginAuth(t *testing.T) {
	auth := LoginAuth("mailer", "mailpass")

	proto, _, err := auth.Start(nil)
	if err != nil {
		t.Fatal(err)
	}
	if proto != "LOGIN" {
		t.Errorf("mechanism = %q, want LOGIN", proto)
	}

	resp, err := auth.Next([]byte("Username:"), true)
	if err != nil || string(resp) != "mailer" {
		t.Errorf("username challenge = %q, %v", resp, err)
	}

	resp, err = auth.Next([]byte("Password:"), true)
	if err != nil || string(resp) != "mailpass" {
		t.Errorf("password challenge = %q, %v", resp, err)
	}

	if _, err := auth.Next([]byte("Garbage:"), true); err == nil {
		t.Error("expected error on unexpected challenge")
	}

	if resp, err := auth.Next(nil, false); err != nil || resp != nil {
		t.Errorf("final exchange = %q, %v", resp, err)
	}
}
