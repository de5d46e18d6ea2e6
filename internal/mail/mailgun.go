// Copyright (c) 2026 Onelink. All rights reserved.
// Author: hello@onelink.dev

// Package mail sends transactional email through the Mailgun messages API.
//
// # Architecture
//
// The outbound call is a form-encoded POST with HTTP basic auth
// ("api" / sending key). Consumers depend on the small [Sender] contract so
// handlers can be tested with a fake and no network.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// messagesURL is the Mailgun send endpoint, parameterized by domain.
	messagesURL = "https://api.mailgun.net/v3/%s/messages"

	// requestTimeout bounds a single send attempt.
	requestTimeout = 10 * time.Second
)

// Message is one outbound transactional email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender is the outbound email contract consumed by route handlers.
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// Client is the Mailgun-backed [Sender].
type Client struct {
	http *resty.Client
	from string
	url  string
}

// NewClient wires a Mailgun client for the given sending domain.
func NewClient(domain, sendingKey, from string) *Client {
	httpClient := resty.New().
		SetTimeout(requestTimeout).
		SetBasicAuth("api", sendingKey)

	return &Client{
		http: httpClient,
		from: from,
		url:  fmt.Sprintf(messagesURL, domain),
	}
}

// Send posts the message to Mailgun.
//
// A missing HTML part falls back to the text part, matching what the
// signup verification email expects.
func (client *Client) Send(ctx context.Context, message Message) error {
	html := message.HTML
	if html == "" {
		html = message.Text
	}

	response, err := client.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"to":      message.To,
			"from":    client.from,
			"subject": message.Subject,
			"text":    message.Text,
			"html":    html,
		}).
		Post(client.url)

	if err != nil {
		return fmt.Errorf("mail: send failed: %w", err)
	}

	if response.IsError() {
		return fmt.Errorf("mail: mailgun responded %s", response.Status())
	}

	return nil
}
