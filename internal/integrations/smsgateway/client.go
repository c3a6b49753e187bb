package smsgateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type messageAPI interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// Client отправляет SMS через Twilio
type Client struct {
	api  messageAPI
	from string
	log  Logger
}

// NewClient создает клиент Twilio с учетными данными аккаунта
func NewClient(accountSID, authToken, from string, log Logger) *Client {
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &Client{api: rest.Api, from: from, log: log}
}

// Send отправляет одно сообщение. Повторов нет.
func (c *Client) Send(ctx context.Context, to, body string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return ErrInvalidRecipient
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(body)

	msg, err := c.api.CreateMessage(params)
	if err != nil {
		c.log.Error("SMSGateway: failed to send to %s: %v", mask(to), err)
		return fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	sid := ""
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}
	c.log.Info("SMSGateway: sent message sid=%s to %s", sid, mask(to))
	return nil
}

// mask скрывает номер в логах, оставляя 4 последние цифры
func mask(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
