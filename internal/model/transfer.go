package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	TransferStatusCompleted = "completed"
	// pending / failed 预留给将来的异步清算，当前引擎只产生 completed
	TransferStatusPending = "pending"
	TransferStatusFailed  = "failed"
)

// Transfer 转账表
// 一次转账作为一个整体，横跨两条流水（转出方借记 + 转入方贷记），
// 两条腿与本记录共用同一个业务流水号
type Transfer struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderAccountID   int64           `gorm:"index;not null" json:"sender_account_id"`
	ReceiverAccountID int64           `gorm:"index;not null" json:"receiver_account_id"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description       string          `gorm:"type:varchar(256)" json:"description"`
	Status            string          `gorm:"type:varchar(20);not null" json:"status"`
	TransactionID     string          `gorm:"type:varchar(64);index;not null" json:"transaction_id"`
	Metadata          datatypes.JSON  `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt         time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Transfer) TableName() string {
	return "transfers"
}
