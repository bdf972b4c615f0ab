package converter

import (
	dto "fortune_wheel/internal/api/dto/wheel"
	"fortune_wheel/internal/model"
	"strconv"
)

const (
	labelFirstSpin   = "Испытаем удачу?"
	labelLastAttempt = "Осталась последняя попытка"
	labelTwoAttempts = "Осталось 2 попытки"
	labelSpin        = "Крутить колесо"
	labelNoAttempts  = "Попытки закончились"
)

func ToPrizeResponse(p model.Prize) dto.PrizeResponse {
	return dto.PrizeResponse{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Message:     p.Message,
		Weight:      p.Weight,
		SectorStart: p.SectorStart,
		SectorEnd:   p.SectorEnd,
	}
}

func ToPrizesResponse(prizes []model.Prize) dto.PrizesResponse {
	out := make([]dto.PrizeResponse, 0, len(prizes))
	for _, p := range prizes {
		out = append(out, ToPrizeResponse(p))
	}
	return dto.PrizesResponse{Prizes: out}
}

func ToRestoredResponse(view *model.RestoredView) dto.RestoredResponse {
	if view == nil {
		return dto.RestoredResponse{}
	}

	out := dto.RestoredResponse{
		ProtectionKey: view.ProtectionKey,
		Rotation:      view.Rotation,
		Unlocked:      view.Unlocked,
	}
	if view.Prize != nil {
		p := ToPrizeResponse(*view.Prize)
		out.Prize = &p
	}
	return out
}

func ToStateResponse(state model.SessionState, view *model.RestoredView, daysUntilReset int) dto.StateResponse {
	out := dto.StateResponse{
		AttemptsLeft:   state.AttemptsLeft,
		RevanchCount:   state.RevanchCount,
		HasSpun:        state.HasSpun,
		LastPrize:      state.LastPrize,
		LastResetDate:  state.LastResetDate.UnixMilli(),
		DaysUntilReset: daysUntilReset,
		WheelRotation:  state.WheelRotation,
		SpinLabel:      SpinLabel(state),
		CanSubmit:      state.LastPrize != "",
		Restored:       ToRestoredResponse(view),
	}
	if !state.LastSpinDate.IsZero() {
		ms := state.LastSpinDate.UnixMilli()
		out.LastSpinDate = &ms
	}
	return out
}

// SpinLabel - надпись на кнопке спина
func SpinLabel(state model.SessionState) string {
	switch {
	case state.AttemptsLeft <= 0:
		return labelNoAttempts
	case !state.HasSpun:
		return labelFirstSpin
	case state.AttemptsLeft == 1:
		return labelLastAttempt
	case state.AttemptsLeft == 2:
		return labelTwoAttempts
	default:
		return labelSpin + " (" + strconv.Itoa(state.AttemptsLeft) + ")"
	}
}

func ToResultData(outcome model.SpinOutcome) dto.ResultData {
	return dto.ResultData{
		Prize:          ToPrizeResponse(outcome.Prize),
		Message:        outcome.Prize.Message,
		ProtectionKey:  outcome.ProtectionKey,
		AttemptsLeft:   outcome.AttemptsLeft,
		RevanchCount:   outcome.RevanchCount,
		DaysUntilReset: outcome.DaysUntilReset,
		Rotation:       outcome.FinalRotation,
		Unlocked:       outcome.Unlocked,
	}
}

func ToStatsResponse(stats model.DrawStats) dto.StatsResponse {
	shares := make([]dto.PrizeShareResponse, 0, len(stats.Shares))
	for _, s := range stats.Shares {
		shares = append(shares, dto.PrizeShareResponse{
			PrizeID:  s.PrizeID,
			Count:    stats.Counts[s.PrizeID],
			Observed: s.Observed,
			Expected: s.Expected,
		})
	}
	return dto.StatsResponse{
		TotalSpins: stats.TotalSpins,
		RedoCount:  stats.RedoCount,
		WindowSize: stats.WindowSize,
		Shares:     shares,
	}
}
