package telegram

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"
)

var (
	ErrEmptyInitData    = errors.New("init data is empty")
	ErrInvalidSignature = errors.New("init data signature mismatch")
	ErrInitDataExpired  = errors.New("init data expired")
)

type User struct {
	ID              int64
	FirstName       string
	LastName        string
	Username        string
	LanguageCode    string
	AllowsWriteToPM bool
}

// InitData - проверенные данные запуска мини-приложения
type InitData struct {
	QueryID  string
	User     *User
	AuthDate time.Time
}

// UserID - id пользователя, если Telegram его передал
func (d *InitData) UserID() (int64, bool) {
	if d == nil || d.User == nil || d.User.ID == 0 {
		return 0, false
	}
	return d.User.ID, true
}

func (d *InitData) CanSendMessage() bool {
	return d != nil && d.User != nil && d.User.AllowsWriteToPM
}

// ParseInitData проверяет подпись initData ботом botToken и возраст auth_date.
// maxAge <= 0 - возраст не проверяется
func ParseInitData(raw, botToken string, maxAge time.Duration, now time.Time) (*InitData, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyInitData
	}

	// Срок проверяем сами относительно now, библиотека смотрит только подпись
	if err := initdata.Validate(raw, botToken, 0); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	parsed, err := initdata.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse init data: %w", err)
	}

	data := &InitData{QueryID: parsed.QueryID}
	if parsed.AuthDateRaw > 0 {
		data.AuthDate = parsed.AuthDate()
	}
	if maxAge > 0 && (data.AuthDate.IsZero() || now.Sub(data.AuthDate) > maxAge) {
		return nil, ErrInitDataExpired
	}

	if u := parsed.User; u.ID != 0 {
		data.User = &User{
			ID:              u.ID,
			FirstName:       u.FirstName,
			LastName:        u.LastName,
			Username:        u.Username,
			LanguageCode:    u.LanguageCode,
			AllowsWriteToPM: u.AllowsWriteToPm,
		}
	}

	return data, nil
}

// Sign - подпись initData для values (поле hash игнорируется), auth_date берётся из values
func Sign(values url.Values, botToken string) string {
	payload := make(map[string]string, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		payload[k] = values.Get(k)
	}

	sec, _ := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	return initdata.Sign(payload, botToken, time.Unix(sec, 0))
}
