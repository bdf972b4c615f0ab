package wheel

import (
	"context"
	"encoding/json"
	"errors"
	dto "fortune_wheel/internal/api/dto/wheel"
	"fortune_wheel/internal/converter"
	"fortune_wheel/internal/logger"
	"fortune_wheel/internal/model"
	"fortune_wheel/internal/telegram"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	MsgSpin        = "spin"
	MsgWriteAccess = "write_access"

	MsgFrame              = "frame"
	MsgResult             = "result"
	MsgNoAttempts         = "no_attempts"
	MsgAlert              = "alert"
	MsgReady              = "ready"
	MsgExpand             = "expand"
	MsgRequestWriteAccess = "request_write_access"
	MsgRestored           = "restored"
	MsgError              = "error"
	MsgClose              = "close"

	sendBufferSize = 256
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
)

var errConnClosed = errors.New("websocket connection closed")

// wsConn - одно подключение мини-приложения. Служит хостом Telegram
// (alert, ready, запрос разрешения) и презентером колеса (кадры, результат)
type wsConn struct {
	conn     *websocket.Conn
	send     chan []byte
	initData *telegram.InitData

	accessTimeout time.Duration
	accessReplies chan bool

	closeOnce sync.Once
	closed    chan struct{}
}

func newWSConn(conn *websocket.Conn, initData *telegram.InitData, accessTimeout time.Duration) *wsConn {
	return &wsConn{
		conn:          conn,
		send:          make(chan []byte, sendBufferSize),
		initData:      initData,
		accessTimeout: accessTimeout,
		accessReplies: make(chan bool, 1),
		closed:        make(chan struct{}),
	}
}

func (c *wsConn) emit(msgType string, data any) error {
	msg := dto.ServerMessage{Type: msgType}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return err
		}
		msg.Data = raw
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case <-c.closed:
		return errConnClosed
	case c.send <- payload:
		return nil
	}
}

// Available - приложение открыто внутри Telegram с проверенными initData
func (c *wsConn) Available() bool {
	return c.initData != nil
}

func (c *wsConn) Ready() {
	_ = c.emit(MsgReady, nil)
}

func (c *wsConn) Expand() {
	_ = c.emit(MsgExpand, nil)
}

func (c *wsConn) UserID() (int64, bool) {
	return c.initData.UserID()
}

func (c *wsConn) CanSendMessage() bool {
	return c.initData.CanSendMessage()
}

// RequestWriteAccess просит клиента показать системный запрос и ждёт ответа write_access
func (c *wsConn) RequestWriteAccess(ctx context.Context) (bool, error) {
	if err := c.emit(MsgRequestWriteAccess, nil); err != nil {
		return false, err
	}

	timer := time.NewTimer(c.accessTimeout)
	defer timer.Stop()

	select {
	case granted := <-c.accessReplies:
		return granted, nil
	case <-timer.C:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	case <-c.closed:
		return false, errConnClosed
	}
}

func (c *wsConn) ShowAlert(_ context.Context, text string) error {
	return c.emit(MsgAlert, dto.AlertData{Text: text})
}

func (c *wsConn) Close() {
	_ = c.emit(MsgClose, nil)
}

// DrawWheel - кадр анимации. Если клиент не успевает читать, кадр пропускается
func (c *wsConn) DrawWheel(rotation float64) error {
	payload, err := json.Marshal(dto.ServerMessage{
		Type: MsgFrame,
		Data: mustMarshal(dto.FrameData{Rotation: rotation}),
	})
	if err != nil {
		return err
	}

	select {
	case <-c.closed:
		return errConnClosed
	case c.send <- payload:
	default:
	}
	return nil
}

func (c *wsConn) ShowResult(outcome model.SpinOutcome) error {
	return c.emit(MsgResult, converter.ToResultData(outcome))
}

func (c *wsConn) deliverWriteAccess(granted bool) {
	select {
	case c.accessReplies <- granted:
	default:
	}
}

func (c *wsConn) shutdown() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Debug("WebSocket write error", zap.Error(err))
				c.shutdown()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.shutdown()
				return
			}

		case <-c.closed:
			c.flush()
			_ = c.conn.WriteControl(websocket.CloseMessage, []byte{}, time.Now().Add(writeWait))
			return
		}
	}
}

// flush дописывает то, что успело попасть в очередь до закрытия
func (c *wsConn) flush() {
	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		default:
			return
		}
	}
}

// readLoop читает сообщения клиента до разрыва соединения
func (c *wsConn) readLoop(onMessage func(dto.ClientMessage)) {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg dto.ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			_ = c.emit(MsgError, dto.ErrorData{Message: "malformed message"})
			continue
		}
		onMessage(msg)
	}
}

func mustMarshal(v any) json.RawMessage {
	raw, _ := json.Marshal(v)
	return raw
}
