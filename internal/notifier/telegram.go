package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"DiamondQuest/internal/model"

	log "github.com/sirupsen/logrus"
)

const telegramAPI = "https://api.telegram.org"

// TelegramNotifier mirrors toasts to a Telegram chat via the Bot API.
type TelegramNotifier struct {
	BotToken   string
	ChatID     string
	APIURL     string
	MaxRetries int

	// Backoff returns the wait before retry attempt n (0-based).
	Backoff func(n int) time.Duration
	Client  *http.Client
}

type sendMessage struct {
	ChatID              string `json:"chat_id"`
	Text                string `json:"text"`
	ParseMode           string `json:"parse_mode"`
	DisableNotification bool   `json:"disable_notification,omitempty"`
}

type botResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		BotToken:   botToken,
		ChatID:     chatID,
		APIURL:     telegramAPI,
		MaxRetries: 2,
		Backoff:    func(n int) time.Duration { return time.Duration(1<<uint(n)) * time.Second },
		Client:     &http.Client{Timeout: 15 * time.Second, Transport: transport},
	}
}

// Notify sends the toast; info toasts are delivered silently.
func (t *TelegramNotifier) Notify(ctx context.Context, toast model.Toast) error {
	msg := sendMessage{
		ChatID:              t.ChatID,
		Text:                FormatToast(toast),
		ParseMode:           "HTML",
		DisableNotification: toast.Variant == model.ToastInfo,
	}
	return t.deliver(ctx, msg, t.MaxRetries)
}

// SendWithRetry posts text, retrying up to maxRetries times with backoff.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	return t.deliver(ctx, sendMessage{ChatID: t.ChatID, Text: text, ParseMode: "HTML"}, maxRetries)
}

func (t *TelegramNotifier) deliver(ctx context.Context, msg sendMessage, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		lastErr = t.post(ctx, msg)
		if lastErr == nil {
			return nil
		}
		if i == maxRetries {
			break
		}
		wait := t.Backoff(i)
		log.WithFields(log.Fields{"attempt": i + 1, "of": maxRetries + 1}).
			Warnf("telegram send failed: %v, retrying in %v", lastErr, wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("telegram: %d attempts failed: %w", maxRetries+1, lastErr)
}

func (t *TelegramNotifier) post(ctx context.Context, msg sendMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.APIURL, t.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	var br botResponse
	_ = json.NewDecoder(resp.Body).Decode(&br)
	if resp.StatusCode != http.StatusOK || !br.OK {
		return fmt.Errorf("telegram API error: status %d: %s", resp.StatusCode, br.Description)
	}
	return nil
}
