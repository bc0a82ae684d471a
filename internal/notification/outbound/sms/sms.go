// Package sms sends text messages through an HTTP SMS gateway.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/codes"

	"github.com/gnelabs/authgate/internal/pkg/config"
	"github.com/gnelabs/authgate/internal/pkg/instrument"
)

// ErrGatewayURLRequired is returned when the gateway URL is not configured.
var ErrGatewayURLRequired = errors.New("sms gateway url is required")

// Gateway posts messages to a JSON SMS gateway endpoint.
type Gateway struct {
	client *http.Client
	ins    instrument.Instrumentation
	url    string
	apiKey string
	sender string
}

// New builds a Gateway from runtime configuration.
func New(cfg config.Config, ins instrument.Instrumentation) (*Gateway, error) {
	url := cfg.GetString("sms.gateway_url")
	if url == "" {
		return nil, ErrGatewayURLRequired
	}

	timeout := cfg.GetSecond("sms.timeout_seconds")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Gateway{
		client: &http.Client{Timeout: timeout},
		ins:    ins,
		url:    url,
		apiKey: cfg.GetString("sms.api_key"),
		sender: cfg.GetString("sms.sender"),
	}, nil
}

type gatewayRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

// Send delivers one text message to the given phone number.
func (g *Gateway) Send(ctx context.Context, to, text string) error {
	ctx, span := g.ins.Tracer("notification.outbound.sms").Start(ctx, "Send")
	defer span.End()

	payload, err := json.Marshal(gatewayRequest{From: g.sender, To: to, Text: text})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		err := fmt.Errorf("sms gateway answered %d", resp.StatusCode)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
