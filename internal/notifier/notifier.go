package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"fortune_wheel/internal/config"
	"fortune_wheel/internal/model"
	"fortune_wheel/internal/service"
	"io"
	"net/http"
	"strings"
)

const (
	sendPath = "/send_notification"
	// maxErrorBody - сколько тела ответа попадает в текст ошибки
	maxErrorBody = 512
)

type request struct {
	UserID        int64  `json:"user_id"`
	PrizeName     string `json:"prize_name"`
	ProtectionKey string `json:"protection_key"`
}

type botClient struct {
	endpoint string
	client   *http.Client
}

// NewBotNotifier - клиент бот-сервера. Пустой BOT_SERVER_URL - уведомления выключены (nil)
func NewBotNotifier(cfg config.NotifierConfig) service.Notifier {
	base := normalizeBaseURL(cfg.BotServerURL())
	if base == "" {
		return nil
	}
	return &botClient{
		endpoint: base + sendPath,
		client:   &http.Client{Timeout: cfg.Timeout()},
	}
}

// SendNotification - один POST без повторов
func (c *botClient) SendNotification(ctx context.Context, n model.Notification) error {
	body, err := json.Marshal(request{
		UserID:        n.UserID,
		PrizeName:     n.PrizeName,
		ProtectionKey: n.ProtectionKey,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("bot server responded %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}
	return nil
}

func normalizeBaseURL(baseURL string) string {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return ""
	}
	if !strings.Contains(trimmed, "://") {
		return "http://" + strings.TrimRight(trimmed, "/")
	}
	return strings.TrimRight(trimmed, "/")
}
