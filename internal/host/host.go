package host

import "context"

// Host - возможности мини-приложения Telegram, которыми пользуется колесо
type Host interface {
	// Available - false, если приложение открыто вне Telegram
	Available() bool
	Ready()
	Expand()
	UserID() (int64, bool)
	CanSendMessage() bool
	RequestWriteAccess(ctx context.Context) (bool, error)
	ShowAlert(ctx context.Context, text string) error
	Close()
}

// Absent - хост, когда Telegram недоступен: все действия пропускаются
type Absent struct{}

func (Absent) Available() bool { return false }

func (Absent) Ready() {}

func (Absent) Expand() {}

func (Absent) UserID() (int64, bool) { return 0, false }

func (Absent) CanSendMessage() bool { return false }

func (Absent) RequestWriteAccess(context.Context) (bool, error) { return false, nil }

func (Absent) ShowAlert(context.Context, string) error { return nil }

func (Absent) Close() {}
