package wheel

import "encoding/json"

type PrizeResponse struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	Message     string  `json:"message"`
	Weight      float64 `json:"weight"`
	SectorStart float64 `json:"sectorStart"`
	SectorEnd   float64 `json:"sectorEnd"`
}

type PrizesResponse struct {
	Prizes []PrizeResponse `json:"prizes"`
}

type RestoredResponse struct {
	Prize         *PrizeResponse `json:"prize,omitempty"`
	ProtectionKey string         `json:"protectionKey,omitempty"`
	Rotation      float64        `json:"rotation"`
	Unlocked      bool           `json:"unlocked"`
}

type StateResponse struct {
	AttemptsLeft   int              `json:"attemptsLeft"`
	RevanchCount   int              `json:"revanchCount"`
	HasSpun        bool             `json:"hasSpun"`
	LastPrize      string           `json:"lastPrize,omitempty"`
	LastSpinDate   *int64           `json:"lastSpinDate,omitempty"`
	LastResetDate  int64            `json:"lastResetDate"`
	DaysUntilReset int              `json:"daysUntilReset"`
	WheelRotation  float64          `json:"wheelRotation"`
	SpinLabel      string           `json:"spinLabel"`
	CanSubmit      bool             `json:"canSubmit"`
	Restored       RestoredResponse `json:"restored"`
}

type DaysUntilResetResponse struct {
	DaysUntilReset int `json:"daysUntilReset"`
}

type ResetRequest struct {
	DeviceID string `json:"device_id"`
}

type PrizeShareResponse struct {
	PrizeID  string  `json:"prizeId"`
	Count    int     `json:"count"`
	Observed float64 `json:"observed"`
	Expected float64 `json:"expected"`
}

type StatsResponse struct {
	TotalSpins int                  `json:"totalSpins"`
	RedoCount  int                  `json:"redoCount"`
	WindowSize int                  `json:"windowSize"`
	Shares     []PrizeShareResponse `json:"shares"`
}

// ClientMessage - сообщение клиента по websocket
type ClientMessage struct {
	Type    string `json:"type"`
	Granted bool   `json:"granted,omitempty"`
}

// ServerMessage - сообщение сервера по websocket
type ServerMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type FrameData struct {
	Rotation float64 `json:"rotation"`
}

type ResultData struct {
	Prize          PrizeResponse `json:"prize"`
	Message        string        `json:"message"`
	ProtectionKey  string        `json:"protectionKey"`
	AttemptsLeft   int           `json:"attemptsLeft"`
	RevanchCount   int           `json:"revanchCount"`
	DaysUntilReset int           `json:"daysUntilReset"`
	Rotation       float64       `json:"rotation"`
	Unlocked       bool          `json:"unlocked"`
}

type NoAttemptsData struct {
	DaysLeft int `json:"daysLeft"`
}

type AlertData struct {
	Text string `json:"text"`
}

type ErrorData struct {
	Message string `json:"message"`
}
