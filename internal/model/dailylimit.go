package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LimitType 日限额类别
type LimitType string

const (
	LimitTypeDeposit  LimitType = "deposit"
	LimitTypeWithdraw LimitType = "withdraw"
	LimitTypeTransfer LimitType = "transfer"
)

// DailyLimit 日限额表
// (account_id, limit_type, reset_at) 唯一确定一条记录，当天首次使用时惰性创建
//
// 【重要】current_used 在一天内只增不减：
// 退单/争议不会归还当天已消耗的额度，这是有意的业务设计，不是缺陷
type DailyLimit struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID   int64           `gorm:"not null;uniqueIndex:uk_daily_limit" json:"account_id"`
	LimitType   LimitType       `gorm:"type:varchar(20);not null;uniqueIndex:uk_daily_limit" json:"limit_type"`
	DailyLimit  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"daily_limit"`
	CurrentUsed decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"current_used"`
	ResetAt     time.Time       `gorm:"type:date;not null;uniqueIndex:uk_daily_limit" json:"reset_at"` // 自然日
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DailyLimit) TableName() string {
	return "daily_limits"
}

// Available 当前剩余可用额度
func (d *DailyLimit) Available() decimal.Decimal {
	return d.DailyLimit.Sub(d.CurrentUsed)
}

// CanSpend 判断再消耗 amount 后是否仍在限额内
func (d *DailyLimit) CanSpend(amount decimal.Decimal) bool {
	return d.CurrentUsed.Add(amount).LessThanOrEqual(d.DailyLimit)
}
