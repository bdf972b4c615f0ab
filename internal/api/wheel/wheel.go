package wheel

import (
	"context"
	"errors"
	dto "fortune_wheel/internal/api/dto/wheel"
	"fortune_wheel/internal/converter"
	"fortune_wheel/internal/host"
	"fortune_wheel/internal/logger"
	"fortune_wheel/internal/middleware"
	"fortune_wheel/internal/model"
	"fortune_wheel/internal/service"
	"fortune_wheel/pkg/req"
	"fortune_wheel/pkg/resp"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	defaultAccessTimeout = 60 * time.Second
	qrSize               = 256
)

var (
	_ host.Host         = (*wsConn)(nil)
	_ service.Presenter = (*wsConn)(nil)
)

type HandlerDeps struct {
	Serv service.WheelService

	// AccessTimeout - сколько ждать ответа на запрос разрешения писать пользователю
	AccessTimeout time.Duration
}

type Handler struct {
	serv          service.WheelService
	accessTimeout time.Duration
	upgrader      websocket.Upgrader
}

func NewHandler(deps HandlerDeps) *Handler {
	timeout := deps.AccessTimeout
	if timeout <= 0 {
		timeout = defaultAccessTimeout
	}
	return &Handler{
		serv:          deps.Serv,
		accessTimeout: timeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Мини-приложение открывается с домена Telegram
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Prizes отдаёт каталог с секторами
func (h *Handler) Prizes(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToPrizesResponse(h.serv.Catalog()))
}

// State - состояние устройства и восстановленный последний результат
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := middleware.DeviceIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "device not identified")
		return
	}

	state, err := h.serv.State(r.Context(), deviceID)
	if err != nil {
		h.internalError(w, "load state", err)
		return
	}
	view, err := h.serv.Restore(r.Context(), deviceID)
	if err != nil {
		h.internalError(w, "restore", err)
		return
	}
	days, err := h.serv.DaysUntilReset(r.Context(), deviceID)
	if err != nil {
		h.internalError(w, "days until reset", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStateResponse(state, view, days))
}

func (h *Handler) DaysUntilReset(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := middleware.DeviceIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "device not identified")
		return
	}

	days, err := h.serv.DaysUntilReset(r.Context(), deviceID)
	if err != nil {
		h.internalError(w, "days until reset", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, dto.DaysUntilResetResponse{DaysUntilReset: days})
}

// ResultQR - PNG с QR-кодом ключа защиты последнего приза
func (h *Handler) ResultQR(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := middleware.DeviceIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "device not identified")
		return
	}

	key, err := h.serv.LastProtectionKey(r.Context(), deviceID)
	if errors.Is(err, model.ErrNoProtectionKey) {
		resp.WriteError(w, http.StatusNotFound, "spin the wheel first")
		return
	}
	if err != nil {
		h.internalError(w, "protection key", err)
		return
	}

	png, err := qrcode.Encode(key, qrcode.Medium, qrSize)
	if err != nil {
		h.internalError(w, "encode qr", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// AdminReset - ручной сброс попыток устройства оператором
func (h *Handler) AdminReset(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.ResetRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	deviceID := strings.TrimSpace(payload.DeviceID)
	if deviceID == "" {
		resp.WriteError(w, http.StatusBadRequest, "device_id is required")
		return
	}

	state, err := h.serv.ResetAttempts(r.Context(), deviceID)
	if err != nil {
		h.internalError(w, "reset attempts", err)
		return
	}

	days, err := h.serv.DaysUntilReset(r.Context(), deviceID)
	if err != nil {
		h.internalError(w, "days until reset", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStateResponse(state, nil, days))
}

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStatsResponse(h.serv.Stats()))
}

// Stream - websocket колеса: команды спина от клиента, кадры и результат от сервера
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := middleware.DeviceIDFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, "device not identified")
		return
	}
	initData := middleware.InitDataFromContext(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Failed to upgrade to WebSocket", zap.Error(err))
		return
	}

	c := newWSConn(conn, initData, h.accessTimeout)
	go c.writePump()

	ctx, cancel := context.WithCancel(r.Context())
	var wg sync.WaitGroup
	defer func() {
		// Начатый спин доводится до конца и сохраняется, отправка клиенту уже не нужна
		cancel()
		c.shutdown()
		wg.Wait()
	}()

	logger.Info("Wheel client connected",
		zap.String("device", deviceID),
		zap.Bool("telegram", c.Available()))

	wg.Add(1)
	go func() {
		defer wg.Done()
		h.open(ctx, deviceID, c)
	}()

	c.readLoop(func(msg dto.ClientMessage) {
		switch msg.Type {
		case MsgSpin:
			wg.Add(1)
			go func() {
				defer wg.Done()
				h.spin(ctx, deviceID, c)
			}()
		case MsgWriteAccess:
			c.deliverWriteAccess(msg.Granted)
		default:
			_ = c.emit(MsgError, dto.ErrorData{Message: "unknown message type"})
		}
	})

	logger.Info("Wheel client disconnected", zap.String("device", deviceID))
}

func (h *Handler) open(ctx context.Context, deviceID string, c *wsConn) {
	view, err := h.serv.Open(ctx, deviceID, c)
	if err != nil {
		logger.Error("Failed to open wheel", zap.String("device", deviceID), zap.Error(err))
		_ = c.emit(MsgError, dto.ErrorData{Message: "failed to load state"})
		return
	}
	_ = c.emit(MsgRestored, converter.ToRestoredResponse(view))
}

func (h *Handler) spin(ctx context.Context, deviceID string, c *wsConn) {
	_, err := h.serv.Spin(ctx, deviceID, c, c)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrSpinInProgress):
		// Повторное нажатие во время вращения игнорируется
		logger.Debug("Spin ignored, wheel is spinning", zap.String("device", deviceID))
	case errors.Is(err, model.ErrNoAttempts):
		days, derr := h.serv.DaysUntilReset(ctx, deviceID)
		if derr != nil {
			logger.Warn("Failed to count days until reset", zap.Error(derr))
		}
		_ = c.emit(MsgNoAttempts, dto.NoAttemptsData{DaysLeft: days})
	case errors.Is(err, model.ErrServiceClosed):
		logger.Info("Spin rejected, server is shutting down", zap.String("device", deviceID))
		_ = c.emit(MsgError, dto.ErrorData{Message: "server is shutting down"})
	default:
		logger.Error("Spin failed", zap.String("device", deviceID), zap.Error(err))
		_ = c.emit(MsgError, dto.ErrorData{Message: "spin failed"})
	}
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	logger.Error("Wheel request failed", zap.String("op", op), zap.Error(err))
	resp.WriteError(w, http.StatusInternalServerError, op+" failed")
}
