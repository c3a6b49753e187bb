package smsgateway

import "errors"

var (
	// ErrInvalidRecipient возвращается для пустого номера получателя
	ErrInvalidRecipient = errors.New("smsgateway: invalid recipient")

	// ErrSendFailed возвращается, когда Twilio отклонил сообщение или недоступен
	ErrSendFailed = errors.New("smsgateway: failed to send message")
)
