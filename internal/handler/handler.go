package handler

import (
	"errors"
	"strconv"

	"digitalwallet/internal/config"
	"digitalwallet/internal/model"
	"digitalwallet/internal/repository"
	"digitalwallet/internal/service"
	"digitalwallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Handler 统一处理器，包含所有服务依赖
type Handler struct {
	walletService    *service.WalletService
	statementService *service.StatementService
}

// NewHandler 创建处理器实例
func NewHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Handler {
	return &Handler{
		walletService:    service.NewWalletService(db, rdb, cfg),
		statementService: service.NewStatementService(db, cfg),
	}
}

// renderError 业务错误翻译为统一错误码，基础设施错误一律 500
func (h *Handler) renderError(c *gin.Context, err error) {
	var invalidAccount *service.InvalidAccountError
	var invalidTransfer *service.InvalidTransferError
	var insufficient *service.InsufficientBalanceError
	var limitExceeded *service.DailyLimitExceededError
	var invalidStatement *service.InvalidStatementError

	switch {
	case errors.As(err, &invalidAccount):
		response.BusinessError(c, response.CodeInvalidAccount, err.Error())
	case errors.As(err, &insufficient):
		response.BusinessError(c, response.CodeInsufficientBalance, err.Error())
	case errors.As(err, &limitExceeded):
		response.BusinessError(c, response.CodeDailyLimitExceeded, err.Error())
	case errors.As(err, &invalidTransfer):
		response.BusinessError(c, response.CodeInvalidTransfer, err.Error())
	case errors.As(err, &invalidStatement):
		response.BusinessError(c, response.CodeInvalidStatement, err.Error())
	case errors.Is(err, service.ErrTransactionNotFound):
		response.BusinessError(c, response.CodeTransactionNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyChargebacked),
		errors.Is(err, service.ErrAlreadyContested):
		response.BusinessError(c, response.CodeAlreadyReversed, err.Error())
	case errors.Is(err, service.ErrCannotReverseReversal):
		response.BusinessError(c, response.CodeCannotReverseReversal, err.Error())
	default:
		response.ServerError(c, err.Error())
	}
}

// ============================================================
// 余额与流水查询
// ============================================================

// GetBalance 查询余额
// GET /api/v1/wallet/balance
func (h *Handler) GetBalance(c *gin.Context) {
	userID := currentUserID(c)

	info, err := h.walletService.BalanceInfo(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, gin.H{
		"account_number":     info.Account.AccountNumber,
		"balance":            info.Balance,
		"withdraw_limit":     info.WithdrawLimit.DailyLimit,
		"withdraw_used":      info.WithdrawLimit.CurrentUsed,
		"withdraw_available": info.WithdrawLimit.Available(),
	})
}

// GetTransaction 查询单笔流水详情
// GET /api/v1/wallet/transaction/:id
func (h *Handler) GetTransaction(c *gin.Context) {
	userID := currentUserID(c)

	transactionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "id 参数错误")
		return
	}

	trans, err := h.walletService.TransactionDetail(c.Request.Context(), userID, transactionID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, trans)
}

// ListTransfers 查询转账记录（转出与转入都包含）
// GET /api/v1/wallet/transfers?page=1&page_size=10
func (h *Handler) ListTransfers(c *gin.Context) {
	userID := currentUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	transfers, total, err := h.walletService.TransferHistory(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, gin.H{
		"list":      transfers,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// ============================================================
// 资金操作接口
// ============================================================

// DepositRequest 存款请求
type DepositRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
}

// Deposit 存款
// POST /api/v1/wallet/deposit
func (h *Handler) Deposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.walletService.Deposit(c.Request.Context(), &service.DepositRequest{
		UserID:      currentUserID(c),
		Amount:      decimal.NewFromFloat(req.Amount),
		Description: req.Description,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, gin.H{
		"transaction_id": result.Transaction.TransactionID,
		"amount":         result.Transaction.Amount,
		"balance":        result.NewBalance,
	})
}

// WithdrawRequest 取款请求
type WithdrawRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
}

// Withdraw 取款
// POST /api/v1/wallet/withdraw
func (h *Handler) Withdraw(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.walletService.Withdraw(c.Request.Context(), &service.WithdrawRequest{
		UserID:      currentUserID(c),
		Amount:      decimal.NewFromFloat(req.Amount),
		Description: req.Description,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, gin.H{
		"transaction_id": result.Transaction.TransactionID,
		"amount":         result.Transaction.Amount,
		"balance":        result.NewBalance,
	})
}

// TransferRequest 转账请求
// 转入方定位二选一：钱包号，或网点号+账号
type TransferRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Description   string  `json:"description"`
	AccountNumber string  `json:"account_number"`
	Agency        string  `json:"agency"`
	Account       string  `json:"account"`
}

// Transfer 转账
// POST /api/v1/wallet/transfer
//
// 【关键点】转账是双账户操作，需要保证：
// 1. 原子性：转出扣款、转入入账、两条流水、转账记录同时成功或同时失败
// 2. 并发安全：两个账户按固定顺序加锁，避免死锁
// 3. 日限额只约束转出方
func (h *Handler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.walletService.Transfer(c.Request.Context(), &service.TransferRequest{
		UserID: currentUserID(c),
		Receiver: repository.ReceiverSelector{
			AccountNumber: req.AccountNumber,
			Agency:        req.Agency,
			Account:       req.Account,
		},
		Amount:      decimal.NewFromFloat(req.Amount),
		Description: req.Description,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, gin.H{
		"transaction_id": result.Transfer.TransactionID,
		"amount":         result.Transfer.Amount,
		"status":         result.Transfer.Status,
		"balance":        result.NewBalance,
	})
}

// ============================================================
// 冲正接口
// ============================================================

// ChargebackRequest 退单请求
type ChargebackRequest struct {
	RequestID     string `json:"request_id" binding:"required"` // 幂等性ID，客户端生成
	TransactionID int64  `json:"transaction_id" binding:"required"`
	Reason        string `json:"reason"`
}

// Chargeback 退单
// POST /api/v1/wallet/chargeback
//
// 【关键点】退单不删除原流水，而是追加一条反向补偿流水；
// 同一笔流水只允许退单一次
func (h *Handler) Chargeback(c *gin.Context) {
	var req ChargebackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.walletService.Chargeback(c.Request.Context(), &service.ChargebackRequest{
		UserID:        currentUserID(c),
		TransactionID: req.TransactionID,
		Reason:        req.Reason,
		RequestID:     req.RequestID,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, gin.H{
		"reversal_transaction_id": result.Reversal.TransactionID,
		"original_id":             result.Original.ID,
		"amount":                  result.Reversal.Amount,
		"balance":                 result.NewBalance,
	})
}

// ContestRequest 争议请求
type ContestRequest struct {
	RequestID     string `json:"request_id" binding:"required"`
	TransactionID int64  `json:"transaction_id" binding:"required"`
	Motive        string `json:"motive"`
}

// Contest 争议
// POST /api/v1/wallet/contest
func (h *Handler) Contest(c *gin.Context) {
	var req ContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.walletService.Contest(c.Request.Context(), &service.ContestRequest{
		UserID:        currentUserID(c),
		TransactionID: req.TransactionID,
		Motive:        req.Motive,
		RequestID:     req.RequestID,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, gin.H{
		"reversal_transaction_id": result.Reversal.TransactionID,
		"original_id":             result.Original.ID,
		"amount":                  result.Reversal.Amount,
		"balance":                 result.NewBalance,
	})
}

// ============================================================
// 对账单接口
// ============================================================

// GetStatement 查询对账单
// GET /api/v1/wallet/statement?start_date=2025-01-01&end_date=2025-01-31&type=DEPOSIT&page=1&per_page=10
func (h *Handler) GetStatement(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" || endDate == "" {
		response.ParamError(c, "start_date 与 end_date 参数不能为空")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "0"))

	statement, err := h.statementService.BuildStatement(c.Request.Context(), &service.StatementRequest{
		UserID:    currentUserID(c),
		StartDate: startDate,
		EndDate:   endDate,
		Type:      model.TransactionType(c.Query("type")),
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	response.Success(c, statement)
}
