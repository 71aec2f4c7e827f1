package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"digitalwallet/internal/config"
	"digitalwallet/internal/infrastructure/lock"
	"digitalwallet/internal/model"
	"digitalwallet/internal/repository"
	"digitalwallet/pkg/idgen"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// WalletService 账本引擎
//
// 五个写操作（存款/取款/转账/退单/争议）都是一个原子单元：
// 取账户行锁 -> 校验 -> 改余额 -> 追加流水 -> 预占日限额（如适用）-> 提交。
// 任何一步校验失败整体回滚，余额、限额、流水都不会留下半截效果。
type WalletService struct {
	db              *gorm.DB
	redisClient     *redis.Client
	cfg             *config.Config
	accountRepo     *repository.AccountRepository
	limitRepo       *repository.DailyLimitRepository
	transactionRepo *repository.TransactionRepository
	transferRepo    *repository.TransferRepository
	outboxRepo      *repository.OutboxRepository
}

func NewWalletService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *WalletService {
	return &WalletService{
		db:              db,
		redisClient:     redisClient,
		cfg:             cfg,
		accountRepo:     repository.NewAccountRepository(db),
		limitRepo:       repository.NewDailyLimitRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
		transferRepo:    repository.NewTransferRepository(db),
		outboxRepo:      repository.NewOutboxRepository(db),
	}
}

type DepositRequest struct {
	UserID      int64
	Amount      decimal.Decimal
	Description string
}

type WithdrawRequest struct {
	UserID      int64
	Amount      decimal.Decimal
	Description string
}

type TransferRequest struct {
	UserID      int64
	Receiver    repository.ReceiverSelector
	Amount      decimal.Decimal
	Description string
}

type ChargebackRequest struct {
	UserID        int64
	TransactionID int64
	Reason        string
	RequestID     string // 客户端幂等ID，用作冲正锁持有者标识
}

type ContestRequest struct {
	UserID        int64
	TransactionID int64
	Motive        string
	RequestID     string
}

// OperationResult 存款/取款结果
type OperationResult struct {
	Transaction *model.Transaction
	NewBalance  decimal.Decimal
}

// TransferResult 转账结果，Transaction 为转出方那条腿
type TransferResult struct {
	Transfer    *model.Transfer
	Transaction *model.Transaction
	NewBalance  decimal.Decimal
}

// ReversalResult 冲正结果
type ReversalResult struct {
	Reversal   *model.Transaction
	Original   *model.Transaction
	NewBalance decimal.Decimal
}

// BalanceInfo 余额查询结果，附带当天取款额度使用情况
type BalanceInfo struct {
	Account       *model.Account
	Balance       decimal.Decimal
	WithdrawLimit *model.DailyLimit
}

// Deposit 存款
func (s *WalletService) Deposit(ctx context.Context, req *DepositRequest) (*OperationResult, error) {
	description := req.Description
	if description == "" {
		description = "存款"
	}

	var result *OperationResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		account, err := s.acquireAccount(ctx, tx, req.UserID)
		if err != nil {
			return err
		}

		if err := s.reserveDailyLimit(ctx, tx, account.ID, model.LimitTypeDeposit,
			req.Amount, s.cfg.Business.DailyLimits.DepositCap()); err != nil {
			return err
		}

		balance, err := s.accountRepo.GetBalanceForUpdate(ctx, tx, account.ID)
		if err != nil {
			return fmt.Errorf("查询余额失败: %w", err)
		}

		balanceBefore := balance.Amount
		balanceAfter := balanceBefore.Add(req.Amount)
		if err := s.accountRepo.UpdateBalance(ctx, tx, balance.ID, balanceAfter); err != nil {
			return fmt.Errorf("入账失败: %w", err)
		}

		trans := &model.Transaction{
			AccountID:     account.ID,
			Type:          model.TransactionTypeDeposit,
			Flow:          model.FlowCredit,
			Amount:        req.Amount,
			BalanceBefore: balanceBefore,
			BalanceAfter:  balanceAfter,
			Description:   description,
			TransactionID: idgen.GenerateMovementID(idgen.PrefixDeposit),
		}
		if err := s.transactionRepo.Create(ctx, tx, trans); err != nil {
			return fmt.Errorf("记录流水失败: %w", err)
		}

		if err := s.appendOutbox(ctx, tx, "wallet.deposit", trans.TransactionID, map[string]interface{}{
			"account_id":     account.ID,
			"transaction_id": trans.TransactionID,
			"amount":         req.Amount.StringFixed(2),
			"balance_after":  balanceAfter.StringFixed(2),
		}); err != nil {
			return err
		}

		result = &OperationResult{Transaction: trans, NewBalance: balanceAfter}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("存款成功: userID=%d, transactionID=%s, amount=%s",
		req.UserID, result.Transaction.TransactionID, req.Amount.StringFixed(2))
	return result, nil
}

// Withdraw 取款
// 余额充足性是第一道闸，先于日限额校验
func (s *WalletService) Withdraw(ctx context.Context, req *WithdrawRequest) (*OperationResult, error) {
	description := req.Description
	if description == "" {
		description = "取款"
	}

	var result *OperationResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		account, err := s.acquireAccount(ctx, tx, req.UserID)
		if err != nil {
			return err
		}

		balance, err := s.accountRepo.GetBalanceForUpdate(ctx, tx, account.ID)
		if err != nil {
			return fmt.Errorf("查询余额失败: %w", err)
		}

		if balance.Amount.LessThan(req.Amount) {
			return &InsufficientBalanceError{Current: balance.Amount, Required: req.Amount}
		}

		if err := s.reserveDailyLimit(ctx, tx, account.ID, model.LimitTypeWithdraw,
			req.Amount, s.cfg.Business.DailyLimits.WithdrawCap()); err != nil {
			return err
		}

		balanceBefore := balance.Amount
		balanceAfter := balanceBefore.Sub(req.Amount)
		if err := s.accountRepo.UpdateBalance(ctx, tx, balance.ID, balanceAfter); err != nil {
			return fmt.Errorf("扣款失败: %w", err)
		}

		trans := &model.Transaction{
			AccountID:     account.ID,
			Type:          model.TransactionTypeWithdraw,
			Flow:          model.FlowDebit,
			Amount:        req.Amount,
			BalanceBefore: balanceBefore,
			BalanceAfter:  balanceAfter,
			Description:   description,
			TransactionID: idgen.GenerateMovementID(idgen.PrefixWithdraw),
		}
		if err := s.transactionRepo.Create(ctx, tx, trans); err != nil {
			return fmt.Errorf("记录流水失败: %w", err)
		}

		if err := s.appendOutbox(ctx, tx, "wallet.withdraw", trans.TransactionID, map[string]interface{}{
			"account_id":     account.ID,
			"transaction_id": trans.TransactionID,
			"amount":         req.Amount.StringFixed(2),
			"balance_after":  balanceAfter.StringFixed(2),
		}); err != nil {
			return err
		}

		result = &OperationResult{Transaction: trans, NewBalance: balanceAfter}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("取款成功: userID=%d, transactionID=%s, amount=%s",
		req.UserID, result.Transaction.TransactionID, req.Amount.StringFixed(2))
	return result, nil
}

// Transfer 转账
//
// 【关键点】必须先锁齐转出、转入两个账户再动任何一方的余额。
// 加锁按账户ID升序，两笔方向相反的并发转账不会因为相反的加锁顺序互相等死
func (s *WalletService) Transfer(ctx context.Context, req *TransferRequest) (*TransferResult, error) {
	if !req.Receiver.Valid() {
		return nil, &InvalidAccountError{Reason: "请提供转入方钱包号，或网点号加账号"}
	}

	description := req.Description
	if description == "" {
		description = "转账"
	}

	var result *TransferResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// 先不加锁拿到双方账户ID，确定加锁顺序
		sender, err := s.accountRepo.GetActiveByUserID(ctx, tx, req.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return &InvalidAccountError{Reason: "转出账户不存在或已停用"}
			}
			return fmt.Errorf("查询转出账户失败: %w", err)
		}

		receiver, err := s.accountRepo.ResolveReceiver(ctx, tx, req.Receiver)
		if err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return &InvalidAccountError{Reason: "转入账户不存在或已停用"}
			}
			return fmt.Errorf("查询转入账户失败: %w", err)
		}

		if sender.ID == receiver.ID {
			return &InvalidTransferError{Reason: "不能转账给同一账户"}
		}

		// 升序加锁后按ID换回转出/转入角色
		firstID, secondID := sender.ID, receiver.ID
		if firstID > secondID {
			firstID, secondID = secondID, firstID
		}
		first, err := s.accountRepo.AcquireByID(ctx, tx, firstID)
		if err != nil {
			return s.mapTransferLockError(err, firstID == sender.ID)
		}
		second, err := s.accountRepo.AcquireByID(ctx, tx, secondID)
		if err != nil {
			return s.mapTransferLockError(err, secondID == sender.ID)
		}
		if first.ID == sender.ID {
			sender, receiver = first, second
		} else {
			sender, receiver = second, first
		}

		senderBalance, err := s.accountRepo.GetBalanceForUpdate(ctx, tx, sender.ID)
		if err != nil {
			return fmt.Errorf("查询转出方余额失败: %w", err)
		}
		if senderBalance.Amount.LessThan(req.Amount) {
			return &InsufficientBalanceError{Current: senderBalance.Amount, Required: req.Amount}
		}

		// 日限额只约束转出方
		if err := s.reserveDailyLimit(ctx, tx, sender.ID, model.LimitTypeTransfer,
			req.Amount, s.cfg.Business.DailyLimits.TransferCap()); err != nil {
			return err
		}

		// 两条腿与转账记录共用一个业务流水号
		movementID := idgen.GenerateMovementID(idgen.PrefixTransfer)

		senderBefore := senderBalance.Amount
		senderAfter := senderBefore.Sub(req.Amount)
		if err := s.accountRepo.UpdateBalance(ctx, tx, senderBalance.ID, senderAfter); err != nil {
			return fmt.Errorf("转出扣款失败: %w", err)
		}

		senderMeta, _ := json.Marshal(map[string]string{"receiver_account": receiver.AccountNumber})
		senderTrans := &model.Transaction{
			AccountID:     sender.ID,
			Type:          model.TransactionTypeTransferSent,
			Flow:          model.FlowDebit,
			Amount:        req.Amount,
			BalanceBefore: senderBefore,
			BalanceAfter:  senderAfter,
			Description:   description,
			TransactionID: movementID,
			Metadata:      senderMeta,
		}
		if err := s.transactionRepo.Create(ctx, tx, senderTrans); err != nil {
			return fmt.Errorf("记录转出流水失败: %w", err)
		}

		receiverBalance, err := s.accountRepo.GetBalanceForUpdate(ctx, tx, receiver.ID)
		if err != nil {
			return fmt.Errorf("查询转入方余额失败: %w", err)
		}
		receiverBefore := receiverBalance.Amount
		receiverAfter := receiverBefore.Add(req.Amount)
		if err := s.accountRepo.UpdateBalance(ctx, tx, receiverBalance.ID, receiverAfter); err != nil {
			return fmt.Errorf("转入入账失败: %w", err)
		}

		receiverMeta, _ := json.Marshal(map[string]string{"sender_account": sender.AccountNumber})
		receiverTrans := &model.Transaction{
			AccountID:     receiver.ID,
			Type:          model.TransactionTypeTransferReceived,
			Flow:          model.FlowCredit,
			Amount:        req.Amount,
			BalanceBefore: receiverBefore,
			BalanceAfter:  receiverAfter,
			Description:   description,
			TransactionID: movementID,
			Metadata:      receiverMeta,
		}
		if err := s.transactionRepo.Create(ctx, tx, receiverTrans); err != nil {
			return fmt.Errorf("记录转入流水失败: %w", err)
		}

		transferMeta, _ := json.Marshal(map[string]string{
			"sender_account":   sender.AccountNumber,
			"receiver_account": receiver.AccountNumber,
		})
		transfer := &model.Transfer{
			SenderAccountID:   sender.ID,
			ReceiverAccountID: receiver.ID,
			Amount:            req.Amount,
			Description:       description,
			Status:            model.TransferStatusCompleted,
			TransactionID:     movementID,
			Metadata:          transferMeta,
		}
		if err := s.transferRepo.Create(ctx, tx, transfer); err != nil {
			return fmt.Errorf("记录转账失败: %w", err)
		}

		if err := s.appendOutbox(ctx, tx, "wallet.transfer", movementID, map[string]interface{}{
			"sender_account_id":   sender.ID,
			"receiver_account_id": receiver.ID,
			"transaction_id":      movementID,
			"amount":              req.Amount.StringFixed(2),
		}); err != nil {
			return err
		}

		result = &TransferResult{Transfer: transfer, Transaction: senderTrans, NewBalance: senderAfter}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("转账成功: userID=%d, transactionID=%s, amount=%s",
		req.UserID, result.Transfer.TransactionID, req.Amount.StringFixed(2))
	return result, nil
}

// Chargeback 退单：对原流水做反向补偿，原流水点亮 is_chargebacked
func (s *WalletService) Chargeback(ctx context.Context, req *ChargebackRequest) (*ReversalResult, error) {
	reason := req.Reason
	if reason == "" {
		reason = "用户申请退单"
	}
	return s.reverse(ctx, req.UserID, req.TransactionID, reason, req.RequestID, reversalChargeback)
}

// Contest 争议：与退单共用同一个冲正原语，
// 区别在于防重复闸（is_contested）与原流水上记录的争议明细
func (s *WalletService) Contest(ctx context.Context, req *ContestRequest) (*ReversalResult, error) {
	motive := req.Motive
	if motive == "" {
		motive = "用户发起争议"
	}
	return s.reverse(ctx, req.UserID, req.TransactionID, motive, req.RequestID, reversalContestation)
}

type reversalKind int

const (
	reversalChargeback reversalKind = iota
	reversalContestation
)

// reverse 冲正原语
// 冲正是新增一条 E 向流水抵销原流水的余额影响，不删除、不改写历史；
// 日限额既不消耗也不归还
func (s *WalletService) reverse(ctx context.Context, userID, transactionID int64, reason, requestID string, kind reversalKind) (*ReversalResult, error) {
	// 行锁之前先抢冲正锁，把跨实例的重复提交挡在库外
	holder := requestID
	if holder == "" {
		holder = uuid.NewString()
	}
	revLock := lock.NewReversalLock(s.redisClient, transactionID, holder)
	if err := revLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		return nil, fmt.Errorf("系统繁忙，请稍后重试: %w", err)
	}
	defer revLock.Unlock(ctx)

	var result *ReversalResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		account, err := s.acquireAccount(ctx, tx, userID)
		if err != nil {
			return err
		}

		original, err := s.transactionRepo.FindByAccountForUpdate(ctx, tx, account.ID, transactionID)
		if err != nil {
			return fmt.Errorf("查询原流水失败: %w", err)
		}
		if original == nil {
			return ErrTransactionNotFound
		}

		switch kind {
		case reversalChargeback:
			if original.IsChargebacked {
				return ErrAlreadyChargebacked
			}
		case reversalContestation:
			if original.IsContested {
				return ErrAlreadyContested
			}
		}
		if original.IsReversal() {
			return ErrCannotReverseReversal
		}

		balance, err := s.accountRepo.GetBalanceForUpdate(ctx, tx, account.ID)
		if err != nil {
			return fmt.Errorf("查询余额失败: %w", err)
		}

		balanceBefore := balance.Amount
		var balanceAfter decimal.Decimal
		if original.Flow == model.FlowCredit {
			balanceAfter = balanceBefore.Sub(original.Amount)
		} else {
			balanceAfter = balanceBefore.Add(original.Amount)
		}
		if err := s.accountRepo.UpdateBalance(ctx, tx, balance.ID, balanceAfter); err != nil {
			return fmt.Errorf("冲正记账失败: %w", err)
		}

		var prefix, description string
		var meta map[string]interface{}
		switch kind {
		case reversalChargeback:
			prefix = idgen.PrefixChargeback
			description = "退单冲正: " + reason
			meta = map[string]interface{}{
				"original_transaction_id": original.TransactionID,
				"original_flow":           original.Flow,
				"reason":                  reason,
			}
		case reversalContestation:
			prefix = idgen.PrefixContestation
			description = "争议冲正: " + reason
			meta = map[string]interface{}{
				"original_transaction_id": original.TransactionID,
				"original_flow":           original.Flow,
				"original_type":           original.Type,
				"contest_motive":          reason,
			}
		}
		metaJSON, _ := json.Marshal(meta)

		originalID := original.ID
		reversal := &model.Transaction{
			AccountID:                 account.ID,
			Type:                      model.TransactionTypeChargeback,
			Flow:                      model.FlowReversal,
			Amount:                    original.Amount,
			BalanceBefore:             balanceBefore,
			BalanceAfter:              balanceAfter,
			Description:               description,
			TransactionID:             idgen.GenerateMovementID(prefix),
			Metadata:                  metaJSON,
			ChargebackOfTransactionID: &originalID,
		}
		if err := s.transactionRepo.Create(ctx, tx, reversal); err != nil {
			return fmt.Errorf("记录冲正流水失败: %w", err)
		}

		// 原流水上的锁存位只允许点亮一次，是唯一允许的创建后变更
		switch kind {
		case reversalChargeback:
			if err := s.transactionRepo.MarkChargebacked(ctx, tx, original.ID); err != nil {
				return fmt.Errorf("标记原流水失败: %w", err)
			}
			original.IsChargebacked = true
		case reversalContestation:
			now := time.Now()
			if err := s.transactionRepo.MarkContested(ctx, tx, original.ID, reason, now, reversal.ID); err != nil {
				return fmt.Errorf("标记原流水失败: %w", err)
			}
			original.IsContested = true
			original.ContestedAt = &now
			original.ContestedReason = reason
			contestationID := reversal.ID
			original.ContestationTransactionID = &contestationID
		}

		event := "wallet.chargeback"
		if kind == reversalContestation {
			event = "wallet.contestation"
		}
		if err := s.appendOutbox(ctx, tx, event, reversal.TransactionID, map[string]interface{}{
			"account_id":              account.ID,
			"transaction_id":          reversal.TransactionID,
			"original_transaction_id": original.TransactionID,
			"amount":                  original.Amount.StringFixed(2),
			"balance_after":           balanceAfter.StringFixed(2),
		}); err != nil {
			return err
		}

		result = &ReversalResult{Reversal: reversal, Original: original, NewBalance: balanceAfter}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("冲正成功: userID=%d, originalID=%d, reversalID=%s",
		userID, result.Original.ID, result.Reversal.TransactionID)
	return result, nil
}

// BalanceInfo 余额查询（只读，不加行锁），附带当天取款额度使用情况
func (s *WalletService) BalanceInfo(ctx context.Context, userID int64) (*BalanceInfo, error) {
	account, err := s.accountRepo.GetActiveByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, &InvalidAccountError{Reason: "账户不存在或已停用"}
		}
		return nil, err
	}

	balance, err := s.accountRepo.GetBalance(ctx, nil, account.ID)
	if err != nil {
		return nil, fmt.Errorf("查询余额失败: %w", err)
	}

	limit, err := s.limitRepo.GetOrCreate(ctx, s.db, account.ID, model.LimitTypeWithdraw,
		repository.Day(time.Now()), s.cfg.Business.DailyLimits.WithdrawCap())
	if err != nil {
		return nil, fmt.Errorf("查询日限额失败: %w", err)
	}

	return &BalanceInfo{Account: account, Balance: balance.Amount, WithdrawLimit: limit}, nil
}

// TransferHistory 查询账户参与的转账记录，按时间倒序分页
func (s *WalletService) TransferHistory(ctx context.Context, userID int64, page, pageSize int) ([]*model.Transfer, int64, error) {
	account, err := s.accountRepo.GetActiveByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, 0, &InvalidAccountError{Reason: "账户不存在或已停用"}
		}
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return s.transferRepo.ListByAccountID(ctx, account.ID, page, pageSize)
}

// TransactionDetail 按账户范围查询单笔流水
func (s *WalletService) TransactionDetail(ctx context.Context, userID, transactionID int64) (*model.Transaction, error) {
	account, err := s.accountRepo.GetActiveByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, &InvalidAccountError{Reason: "账户不存在或已停用"}
		}
		return nil, err
	}

	trans, err := s.transactionRepo.FindByAccount(ctx, nil, account.ID, transactionID)
	if err != nil {
		return nil, fmt.Errorf("查询流水失败: %w", err)
	}
	if trans == nil {
		return nil, ErrTransactionNotFound
	}
	return trans, nil
}

// acquireAccount 取账户行锁并统一映射"账户不存在"错误
func (s *WalletService) acquireAccount(ctx context.Context, tx *gorm.DB, userID int64) (*model.Account, error) {
	account, err := s.accountRepo.AcquireByUserID(ctx, tx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, &InvalidAccountError{Reason: "账户不存在或已停用"}
		}
		return nil, fmt.Errorf("获取账户失败: %w", err)
	}
	return account, nil
}

func (s *WalletService) mapTransferLockError(err error, isSender bool) error {
	if errors.Is(err, repository.ErrAccountNotFound) {
		if isSender {
			return &InvalidAccountError{Reason: "转出账户不存在或已停用"}
		}
		return &InvalidAccountError{Reason: "转入账户不存在或已停用"}
	}
	return fmt.Errorf("锁定账户失败: %w", err)
}

// reserveDailyLimit 惰性创建当天限额记录并原子预占额度
// 预占与账本变更同属一个事务，后续步骤失败时一并回滚
func (s *WalletService) reserveDailyLimit(ctx context.Context, tx *gorm.DB, accountID int64, limitType model.LimitType, amount, defaultLimit decimal.Decimal) error {
	limit, err := s.limitRepo.GetOrCreate(ctx, tx, accountID, limitType, repository.Day(time.Now()), defaultLimit)
	if err != nil {
		return fmt.Errorf("获取日限额失败: %w", err)
	}

	reserved, err := s.limitRepo.Reserve(ctx, tx, limit.ID, amount)
	if err != nil {
		return fmt.Errorf("预占日限额失败: %w", err)
	}
	if !reserved {
		// 预占失败后重读一次，把精确数字带给调用方
		fresh, err := s.limitRepo.Refresh(ctx, tx, limit.ID)
		if err != nil {
			return fmt.Errorf("查询日限额失败: %w", err)
		}
		return &DailyLimitExceededError{
			LimitType: limitType,
			Used:      fresh.CurrentUsed,
			Limit:     fresh.DailyLimit,
			Attempted: amount,
		}
	}
	return nil
}

// appendOutbox 资金变动事件与账本变更同事务落库，由后台任务异步投递
func (s *WalletService) appendOutbox(ctx context.Context, tx *gorm.DB, event, messageKey string, payload map[string]interface{}) error {
	payload["event"] = event
	payload["occurred_at"] = time.Now().Format(time.RFC3339)
	payloadBytes, _ := json.Marshal(payload)

	msg := &model.OutboxMessage{
		MessageKey: messageKey,
		Topic:      s.cfg.Kafka.Topic.WalletEvents,
		Payload:    string(payloadBytes),
		Status:     model.OutboxStatusPending,
	}
	if err := s.outboxRepo.Create(ctx, tx, msg); err != nil {
		return fmt.Errorf("写入事件失败: %w", err)
	}
	return nil
}
