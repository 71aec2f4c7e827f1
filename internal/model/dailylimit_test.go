package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDailyLimit_Available(t *testing.T) {
	limit := &DailyLimit{
		DailyLimit:  decimal.NewFromInt(5000),
		CurrentUsed: decimal.NewFromInt(1200),
	}
	assert.True(t, limit.Available().Equal(decimal.NewFromInt(3800)))
}

func TestDailyLimit_CanSpend(t *testing.T) {
	limit := &DailyLimit{
		DailyLimit:  decimal.NewFromInt(5000),
		CurrentUsed: decimal.NewFromInt(4900),
	}

	assert.True(t, limit.CanSpend(decimal.NewFromInt(100))) // 恰好用满
	assert.False(t, limit.CanSpend(decimal.RequireFromString("100.01")))
}
