package service

import (
	"fmt"

	"hybrid_bot/internal/models"
	"hybrid_bot/internal/modules/config"
)

// Manager — риск-политика: сайзинг, валидация, SL/TP. Без состояния,
// все методы чистые, один инстанс можно шарить между прогонами.
type Manager struct {
	stopLossPct    float64
	takeProfitPct  float64
	maxPositionPct float64
}

func NewManager(cfg *config.Config) *Manager {
	return New(cfg.Risk)
}

func New(cfg config.RiskConfig) *Manager {
	m := &Manager{
		stopLossPct:    cfg.StopLossPct,
		takeProfitPct:  cfg.TakeProfitPct,
		maxPositionPct: cfg.MaxPositionPct,
	}
	if m.stopLossPct <= 0 {
		m.stopLossPct = 0.03
	}
	if m.takeProfitPct <= 0 {
		m.takeProfitPct = 0.05
	}
	if m.maxPositionPct <= 0 {
		m.maxPositionPct = 0.20
	}
	return m
}

func (m *Manager) MaxPositionPct() float64 { return m.maxPositionPct }

// PositionSize — нотионал позиции в котируемой валюте.
// Потолок maxPositionPct — жёсткий: любая запрошенная доля режется об него.
func (m *Manager) PositionSize(balance, price float64, riskPct ...float64) float64 {
	pct := m.maxPositionPct
	if len(riskPct) > 0 && riskPct[0] > 0 {
		pct = riskPct[0]
	}
	size := balance * pct
	if max := balance * m.maxPositionPct; size > max {
		size = max
	}
	return size
}

// ValidateOrder проверяет заявку перед исполнением.
// Для buy резервируется котируемая валюта (amount*price), для sell — базовая.
func (m *Manager) ValidateOrder(side models.Action, amount, price, balance float64) (bool, string) {
	required := amount * price
	if side == models.ActionSell {
		required = amount
	}
	if required > balance {
		return false, fmt.Sprintf("insufficient balance: required %.2f, available %.2f", required, balance)
	}

	maxPosition := balance * m.maxPositionPct
	if notional := amount * price; notional > maxPosition {
		return false, fmt.Sprintf("position size exceeds maximum: position %.2f, max %.2f", notional, maxPosition)
	}
	return true, "order validated"
}

func (m *Manager) StopLossPrice(entry float64, side models.Action) float64 {
	if side == models.ActionBuy {
		return entry * (1 - m.stopLossPct)
	}
	return entry * (1 + m.stopLossPct)
}

func (m *Manager) TakeProfitPrice(entry float64, side models.Action) float64 {
	if side == models.ActionBuy {
		return entry * (1 + m.takeProfitPct)
	}
	return entry * (1 - m.takeProfitPct)
}

func (m *Manager) StopLossTriggered(entry, current float64, side models.Action) bool {
	sl := m.StopLossPrice(entry, side)
	if side == models.ActionBuy {
		return current <= sl
	}
	return current >= sl
}

func (m *Manager) TakeProfitTriggered(entry, current float64, side models.Action) bool {
	tp := m.TakeProfitPrice(entry, side)
	if side == models.ActionBuy {
		return current >= tp
	}
	return current <= tp
}
