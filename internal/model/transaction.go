package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Flow 资金流向
type Flow string

const (
	FlowCredit   Flow = "C" // 贷记，余额增加
	FlowDebit    Flow = "D" // 借记，余额减少
	FlowReversal Flow = "E" // 冲正，符号由被冲正流水决定
)

// TransactionType 交易类别（封闭枚举，非法类别在编译期暴露）
type TransactionType string

const (
	TransactionTypeDeposit          TransactionType = "DEPOSIT"
	TransactionTypeWithdraw         TransactionType = "WITHDRAW"
	TransactionTypeTransferSent     TransactionType = "TRANSFER_SENT"
	TransactionTypeTransferReceived TransactionType = "TRANSFER_RECEIVED"
	TransactionTypeChargeback       TransactionType = "CHARGEBACK"
)

// ============================================================================
// 账户流水实体
// ============================================================================

// Transaction 账户流水表，对账与审计的核心依据
//
// 【重要】流水表设计原则：
// 1. 只追加，不修改，不删除 —— 创建后金额与余额快照字段永不变更
// 2. 每笔流水记录交易前后余额 —— 便于校验余额一致性
// 3. 冲正不是删除：退单/争议会产生一条新的 E 向流水，
//    原流水只允许点亮一次性的锁存字段（is_chargebacked / is_contested）
type Transaction struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID     int64           `gorm:"index;not null" json:"account_id"`
	Type          TransactionType `gorm:"type:varchar(32);not null" json:"type"`
	Flow          Flow            `gorm:"type:varchar(1);not null" json:"flow"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"balance_after"`
	Description   string          `gorm:"type:varchar(256)" json:"description"`
	TransactionID string          `gorm:"type:varchar(64);index;not null" json:"transaction_id"` // 业务流水号，转账两条腿共用
	Metadata      datatypes.JSON  `gorm:"type:json" json:"metadata,omitempty"`

	// 退单锁存字段，只允许 false -> true，且只在原流水上点亮
	IsChargebacked            bool   `gorm:"not null;default:false" json:"is_chargebacked"`
	ChargebackOfTransactionID *int64 `gorm:"index" json:"chargeback_of_transaction_id,omitempty"` // 冲正流水回指原流水

	// 争议锁存字段，比退单多记录时间、理由与补偿流水
	IsContested               bool       `gorm:"not null;default:false" json:"is_contested"`
	ContestedAt               *time.Time `json:"contested_at,omitempty"`
	ContestedReason           string     `gorm:"type:varchar(256)" json:"contested_reason,omitempty"`
	ContestationTransactionID *int64     `json:"contestation_transaction_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

// IsReversal 是否为冲正流水，冲正流水本身不允许再被冲正
func (t *Transaction) IsReversal() bool {
	return t.Flow == FlowReversal
}

// IsStatementCredit 对账单口径的贷记分类（冲正流水不计入）
func (t *Transaction) IsStatementCredit() bool {
	return t.Type == TransactionTypeDeposit || t.Type == TransactionTypeTransferReceived
}

// IsStatementDebit 对账单口径的借记分类（冲正流水不计入）
func (t *Transaction) IsStatementDebit() bool {
	return t.Type == TransactionTypeWithdraw || t.Type == TransactionTypeTransferSent
}

// SignedAmount 带符号金额，全账户求和应恒等于当前余额
func (t *Transaction) SignedAmount() decimal.Decimal {
	switch t.Flow {
	case FlowCredit:
		return t.Amount
	case FlowDebit:
		return t.Amount.Neg()
	default:
		// 冲正的符号取决于被冲正流水的方向，余额快照已经固化了结果
		return t.BalanceAfter.Sub(t.BalanceBefore)
	}
}
