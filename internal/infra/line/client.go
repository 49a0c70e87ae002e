package line

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/line/line-bot-sdk-go/v7/linebot"

	"tebak-kode-bot/internal/config"
	"tebak-kode-bot/internal/domain"
)

// SignatureHeader carries the webhook body signature.
const SignatureHeader = "X-Line-Signature"

// Platform limits for the buttons template.
const (
	maxTitleRunes  = 40
	maxTextRunes   = 60
	maxLabelRunes  = 20
	maxActions     = 4
	maxReplyLength = 5
)

// Client adapts the LINE Messaging API SDK to the quiz's messenger and event parser.
type Client struct {
	bot *linebot.Client
}

func NewClient(cfg config.LineConfig, httpClient *http.Client) (*Client, error) {
	opts := []linebot.ClientOption{}
	if cfg.EndpointBase != "" {
		opts = append(opts, linebot.WithEndpointBase(cfg.EndpointBase))
	}
	if httpClient != nil {
		opts = append(opts, linebot.WithHTTPClient(httpClient))
	}
	bot, err := linebot.New(cfg.ChannelSecret, cfg.ChannelAccessToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("line client: %w", err)
	}
	return &Client{bot: bot}, nil
}

func (c *Client) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	res, err := c.bot.GetProfile(userID).WithContext(ctx).Do()
	if err != nil {
		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return domain.Profile{UserID: res.UserID, DisplayName: res.DisplayName}, nil
}

func (c *Client) Reply(ctx context.Context, replyToken string, messages ...domain.Message) error {
	if len(messages) == 0 {
		return nil
	}
	if len(messages) > maxReplyLength {
		return fmt.Errorf("reply: %d messages exceeds limit of %d", len(messages), maxReplyLength)
	}
	out := make([]linebot.SendingMessage, 0, len(messages))
	for _, m := range messages {
		sm, err := toSendingMessage(m)
		if err != nil {
			return err
		}
		out = append(out, sm)
	}
	if _, err := c.bot.ReplyMessage(replyToken, out...).WithContext(ctx).Do(); err != nil {
		return fmt.Errorf("reply: %w", err)
	}
	return nil
}

// ParseEvents validates the body signature and decodes the delivery.
func (c *Client) ParseEvents(ctx context.Context, signature string, body []byte) ([]domain.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/webhook", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse events: %w", err)
	}
	req.Header.Set(SignatureHeader, signature)

	events, err := c.bot.ParseRequest(req)
	if err != nil {
		if errors.Is(err, linebot.ErrInvalidSignature) {
			return nil, domain.ErrInvalidSignature
		}
		return nil, fmt.Errorf("parse events: %w", err)
	}

	out := make([]domain.Event, 0, len(events))
	for _, ev := range events {
		out = append(out, toDomainEvent(ev))
	}
	return out, nil
}

func toDomainEvent(ev *linebot.Event) domain.Event {
	out := domain.Event{
		Type:       domain.EventType(ev.Type),
		ReplyToken: ev.ReplyToken,
	}
	if ev.Source != nil {
		out.UserID = ev.Source.UserID
	}
	if ev.Type == linebot.EventTypeMessage && ev.Message != nil {
		out.Message = toIncomingMessage(ev.Message)
	}
	return out
}

func toIncomingMessage(m linebot.Message) *domain.IncomingMessage {
	switch msg := m.(type) {
	case *linebot.TextMessage:
		return &domain.IncomingMessage{Type: domain.MessageTypeText, Text: msg.Text}
	case *linebot.StickerMessage:
		return &domain.IncomingMessage{Type: domain.MessageTypeSticker}
	case *linebot.ImageMessage:
		return &domain.IncomingMessage{Type: domain.MessageTypeImage}
	case *linebot.VideoMessage:
		return &domain.IncomingMessage{Type: domain.MessageTypeVideo}
	case *linebot.AudioMessage:
		return &domain.IncomingMessage{Type: domain.MessageTypeAudio}
	case *linebot.FileMessage:
		return &domain.IncomingMessage{Type: domain.MessageTypeFile}
	case *linebot.LocationMessage:
		return &domain.IncomingMessage{Type: domain.MessageTypeLocation}
	default:
		return &domain.IncomingMessage{Type: domain.MessageType("unknown")}
	}
}

func toSendingMessage(m domain.Message) (linebot.SendingMessage, error) {
	switch msg := m.(type) {
	case domain.TextMessage:
		return linebot.NewTextMessage(msg.Text), nil
	case domain.StickerMessage:
		return linebot.NewStickerMessage(msg.PackageID, msg.StickerID), nil
	case domain.ButtonsMessage:
		actions := make([]linebot.TemplateAction, 0, maxActions)
		for _, a := range msg.Actions {
			if len(actions) == maxActions {
				break
			}
			actions = append(actions, linebot.NewMessageAction(truncate(a.Label, maxLabelRunes), a.Text))
		}
		template := linebot.NewButtonsTemplate(
			msg.ImageURL,
			truncate(msg.Title, maxTitleRunes),
			truncate(msg.Text, maxTextRunes),
			actions...,
		)
		return linebot.NewTemplateMessage(msg.AltText, template), nil
	default:
		return nil, fmt.Errorf("reply: unsupported message %T", m)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
