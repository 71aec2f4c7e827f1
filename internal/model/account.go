package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AccountStatus 账户生命周期状态
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"   // 正常
	AccountStatusInactive AccountStatus = "inactive" // 已停用
	AccountStatusBlocked  AccountStatus = "blocked"  // 已冻结
)

const AccountTypeDigitalWallet = "digital_wallet"

// Account 钱包账户表
// 账户只在开户时创建一次，状态由账户生命周期模块维护，
// 账户不做物理删除，只做软删除
type Account struct {
	ID            int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64          `gorm:"uniqueIndex;not null" json:"user_id"`                         // 用户ID，由身份模块传入
	Agency        string         `gorm:"type:varchar(4);not null" json:"agency"`                      // 网点号（4位）
	Account       string         `gorm:"type:varchar(9);not null" json:"account"`                     // 账号（9位）
	AccountDigit  string         `gorm:"type:varchar(1);not null" json:"account_digit"`               // 校验位
	AccountNumber string         `gorm:"type:varchar(16);uniqueIndex;not null" json:"account_number"` // 对外展示的钱包号，如 DW12345678
	AccountType   string         `gorm:"type:varchar(32);not null" json:"account_type"`
	Status        AccountStatus  `gorm:"type:varchar(16);index;not null;default:active" json:"status"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}

// Balance 账户余额表，与账户一对一
//
// 【重要】余额一致性原则：
// 1. 余额永远等于该账户全部流水的带符号金额之和
// 2. 余额只能由账本引擎在行锁保护下修改，外部模块不允许直接写
// 3. 任何借记操作前必须先校验余额充足，余额不允许为负
type Balance struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID int64           `gorm:"uniqueIndex;not null" json:"account_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Balance) TableName() string {
	return "balances"
}
