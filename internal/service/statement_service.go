package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"digitalwallet/internal/config"
	"digitalwallet/internal/model"
	"digitalwallet/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const statementDateLayout = "2006-01-02"

// StatementService 对账单构建
//
// 对账单是账本的只读投影：按自然日汇总流水，每天给出贷记/借记合计
// 与当日日终余额。账期期初余额取区间开始前最近一笔流水的 balance_after，
// 往后逐日串联，最新一天的余额即账期期末余额。
type StatementService struct {
	db              *gorm.DB
	cfg             *config.Config
	accountRepo     *repository.AccountRepository
	transactionRepo *repository.TransactionRepository
}

func NewStatementService(db *gorm.DB, cfg *config.Config) *StatementService {
	return &StatementService{
		db:              db,
		cfg:             cfg,
		accountRepo:     repository.NewAccountRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

type StatementRequest struct {
	UserID    int64
	StartDate string
	EndDate   string
	Type      model.TransactionType // 可空，空值不过滤
	Page      int
	PerPage   int
}

// StatementDay 单日汇总，Transactions 按时间倒序
type StatementDay struct {
	Date         string               `json:"date"`
	Balance      decimal.Decimal      `json:"balance"` // 当日日终余额
	TotalCredits decimal.Decimal      `json:"total_credits"`
	TotalDebits  decimal.Decimal      `json:"total_debits"`
	Transactions []*model.Transaction `json:"transactions"`
}

// StatementSummary 账期汇总
type StatementSummary struct {
	OpeningBalance   decimal.Decimal `json:"opening_balance"`
	ClosingBalance   decimal.Decimal `json:"closing_balance"`
	TotalCredits     decimal.Decimal `json:"total_credits"`
	TotalDebits      decimal.Decimal `json:"total_debits"`
	TransactionCount int             `json:"transaction_count"`
}

// StatementMeta 按天分页信息
type StatementMeta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalDays  int `json:"total_days"`
	TotalPages int `json:"total_pages"`
}

type Statement struct {
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
	Summary   StatementSummary `json:"summary"`
	Days      []*StatementDay  `json:"days"`
	Meta      StatementMeta    `json:"meta"`
}

// BuildStatement 构建对账单，天序从新到旧
func (s *StatementService) BuildStatement(ctx context.Context, req *StatementRequest) (*Statement, error) {
	start, end, err := s.validatePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := validateTypeFilter(req.Type); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetActiveByUserID(ctx, nil, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, &InvalidAccountError{Reason: "账户不存在或已停用"}
		}
		return nil, err
	}

	startDate := start.Format(statementDateLayout)
	endDate := end.Format(statementDateLayout)

	// 期初余额 = 区间开始前最近一笔流水的 balance_after，没有则为 0
	openingBalance := decimal.Zero
	last, err := s.transactionRepo.LastBefore(ctx, nil, account.ID, startDate)
	if err != nil {
		return nil, fmt.Errorf("查询期初余额失败: %w", err)
	}
	if last != nil {
		openingBalance = last.BalanceAfter
	}

	transactions, err := s.transactionRepo.ListBetween(ctx, nil, account.ID, startDate, endDate, req.Type)
	if err != nil {
		return nil, fmt.Errorf("查询流水失败: %w", err)
	}

	days := consolidateDaily(openingBalance, transactions)

	summary := StatementSummary{
		OpeningBalance:   openingBalance,
		ClosingBalance:   openingBalance,
		TotalCredits:     decimal.Zero,
		TotalDebits:      decimal.Zero,
		TransactionCount: len(transactions),
	}
	if len(days) > 0 {
		// 天序从新到旧，第一天的日终余额即账期期末余额
		summary.ClosingBalance = days[0].Balance
	}
	for _, day := range days {
		summary.TotalCredits = summary.TotalCredits.Add(day.TotalCredits)
		summary.TotalDebits = summary.TotalDebits.Add(day.TotalDebits)
	}

	page, perPage := req.Page, req.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = s.cfg.Business.StatementPerPage
	}
	if perPage > 100 {
		perPage = 100
	}
	paged, meta := paginateDays(days, page, perPage)

	return &Statement{
		StartDate: startDate,
		EndDate:   endDate,
		Summary:   summary,
		Days:      paged,
		Meta:      meta,
	}, nil
}

func (s *StatementService) validatePeriod(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(statementDateLayout, startDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, &InvalidStatementError{Reason: "开始日期格式非法，应为 YYYY-MM-DD"}
	}
	end, err := time.ParseInLocation(statementDateLayout, endDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, &InvalidStatementError{Reason: "结束日期格式非法，应为 YYYY-MM-DD"}
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, &InvalidStatementError{Reason: "开始日期不能晚于结束日期"}
	}
	maxDays := s.cfg.Business.StatementMaxDays
	if int(end.Sub(start).Hours()/24)+1 > maxDays {
		return time.Time{}, time.Time{}, &InvalidStatementError{
			Reason: fmt.Sprintf("查询区间不能超过 %d 天", maxDays),
		}
	}
	return start, end, nil
}

func validateTypeFilter(t model.TransactionType) error {
	switch t {
	case "", model.TransactionTypeDeposit, model.TransactionTypeWithdraw,
		model.TransactionTypeTransferSent, model.TransactionTypeTransferReceived,
		model.TransactionTypeChargeback:
		return nil
	default:
		return &InvalidStatementError{Reason: "不支持的交易类别: " + string(t)}
	}
}

// consolidateDaily 把按时间倒序的流水按自然日汇总
//
// 余额串联从新往旧进行：先由期初余额加上全区间带符号金额之和得到
// 最新一天的日终余额，再逐天减去当天的带符号金额之和，得到更早
// 每一天的日终余额。冲正流水参与余额串联，但不计入贷记/借记合计。
func consolidateDaily(openingBalance decimal.Decimal, transactions []*model.Transaction) []*StatementDay {
	var days []*StatementDay
	index := make(map[string]*StatementDay)
	signed := make(map[string]decimal.Decimal)

	for _, trans := range transactions {
		date := trans.CreatedAt.Format(statementDateLayout)
		day, ok := index[date]
		if !ok {
			day = &StatementDay{
				Date:         date,
				TotalCredits: decimal.Zero,
				TotalDebits:  decimal.Zero,
			}
			index[date] = day
			signed[date] = decimal.Zero
			days = append(days, day)
		}
		day.Transactions = append(day.Transactions, trans)
		signed[date] = signed[date].Add(trans.SignedAmount())

		if trans.IsStatementCredit() {
			day.TotalCredits = day.TotalCredits.Add(trans.Amount)
		} else if trans.IsStatementDebit() {
			day.TotalDebits = day.TotalDebits.Add(trans.Amount)
		}
	}

	running := openingBalance
	for _, day := range days {
		running = running.Add(signed[day.Date])
	}
	for _, day := range days {
		day.Balance = running
		running = running.Sub(signed[day.Date])
	}
	return days
}

func paginateDays(days []*StatementDay, page, perPage int) ([]*StatementDay, StatementMeta) {
	totalDays := len(days)
	totalPages := (totalDays + perPage - 1) / perPage
	meta := StatementMeta{
		Page:       page,
		PerPage:    perPage,
		TotalDays:  totalDays,
		TotalPages: totalPages,
	}

	offset := (page - 1) * perPage
	if offset >= totalDays {
		return []*StatementDay{}, meta
	}
	limit := offset + perPage
	if limit > totalDays {
		limit = totalDays
	}
	return days[offset:limit], meta
}
