package service

import (
	"errors"
	"fmt"

	"digitalwallet/internal/model"

	"github.com/shopspring/decimal"
)

// 业务规则错误：整个操作原子回滚，并携带调用方渲染精确提示所需的数字上下文。
// 基础设施错误（存储不可用、锁超时等）不在此列，统一包装后对外只报"稍后重试"。

var (
	ErrTransactionNotFound   = errors.New("交易不存在")
	ErrAlreadyChargebacked   = errors.New("该交易已被退单，不能重复退单")
	ErrAlreadyContested      = errors.New("该交易已被争议，不能重复争议")
	ErrCannotReverseReversal = errors.New("冲正流水不能再次冲正")
)

// InvalidAccountError 账户不存在、已停用，或转入账户定位方式缺失/不完整
type InvalidAccountError struct {
	Reason string
}

func (e *InvalidAccountError) Error() string {
	return e.Reason
}

// InvalidStatementError 对账单查询参数非法（日期格式、区间顺序、区间跨度、类别过滤）
type InvalidStatementError struct {
	Reason string
}

func (e *InvalidStatementError) Error() string {
	return e.Reason
}

// InvalidTransferError 非法转账（如转给自己）
type InvalidTransferError struct {
	Reason string
}

func (e *InvalidTransferError) Error() string {
	return e.Reason
}

// InsufficientBalanceError 余额不足，携带当前余额与所需金额
type InsufficientBalanceError struct {
	Current  decimal.Decimal
	Required decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("余额不足：当前余额 %s，所需金额 %s",
		e.Current.StringFixed(2), e.Required.StringFixed(2))
}

// DailyLimitExceededError 超出日限额，携带类别与精确的额度数字
type DailyLimitExceededError struct {
	LimitType model.LimitType
	Used      decimal.Decimal
	Limit     decimal.Decimal
	Attempted decimal.Decimal
}

// Available 剩余可用额度
func (e *DailyLimitExceededError) Available() decimal.Decimal {
	return e.Limit.Sub(e.Used)
}

func (e *DailyLimitExceededError) Error() string {
	return fmt.Sprintf("超出%s日限额：已用 %s，限额 %s，可用 %s，本次尝试 %s",
		limitTypeName(e.LimitType),
		e.Used.StringFixed(2),
		e.Limit.StringFixed(2),
		e.Available().StringFixed(2),
		e.Attempted.StringFixed(2))
}

func limitTypeName(t model.LimitType) string {
	switch t {
	case model.LimitTypeDeposit:
		return "存款"
	case model.LimitTypeWithdraw:
		return "取款"
	case model.LimitTypeTransfer:
		return "转账"
	default:
		return string(t)
	}
}
