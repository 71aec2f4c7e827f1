package service

import (
	"context"
	"testing"
	"time"

	"digitalwallet/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStatementService(t *testing.T) (*StatementService, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)

	return NewStatementService(gdb, testConfig()), mock
}

func mustDate(s string) time.Time {
	t, err := time.ParseInLocation(statementDateLayout, s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func tx(id int64, txType model.TransactionType, flow model.Flow, amount, before, after string, createdAt time.Time) *model.Transaction {
	return &model.Transaction{
		ID:            id,
		AccountID:     1,
		Type:          txType,
		Flow:          flow,
		Amount:        decimal.RequireFromString(amount),
		BalanceBefore: decimal.RequireFromString(before),
		BalanceAfter:  decimal.RequireFromString(after),
		CreatedAt:     createdAt,
	}
}

func TestConsolidateDaily(t *testing.T) {
	day1 := mustDate("2025-01-10")
	day2 := mustDate("2025-01-12")

	t.Run("余额从新到旧逐日串联", func(t *testing.T) {
		// 期初 100；10号存款 50（100->150）；12号取款 30（150->120）
		// 入参按时间倒序，与流水查询口径一致
		transactions := []*model.Transaction{
			tx(3, model.TransactionTypeWithdraw, model.FlowDebit, "30.00", "150.00", "120.00", day2.Add(10*time.Hour)),
			tx(2, model.TransactionTypeDeposit, model.FlowCredit, "50.00", "100.00", "150.00", day1.Add(9*time.Hour)),
		}

		days := consolidateDaily(decimal.RequireFromString("100.00"), transactions)
		assert.Len(t, days, 2)

		assert.Equal(t, "2025-01-12", days[0].Date)
		assert.True(t, days[0].Balance.Equal(decimal.NewFromInt(120)))
		assert.True(t, days[0].TotalDebits.Equal(decimal.NewFromInt(30)))
		assert.True(t, days[0].TotalCredits.IsZero())

		assert.Equal(t, "2025-01-10", days[1].Date)
		assert.True(t, days[1].Balance.Equal(decimal.NewFromInt(150)))
		assert.True(t, days[1].TotalCredits.Equal(decimal.NewFromInt(50)))
	})

	t.Run("冲正流水参与余额串联但不计入贷记借记合计", func(t *testing.T) {
		// 10号存款 50（100->150）；12号该笔被退单（150->100）
		transactions := []*model.Transaction{
			tx(4, model.TransactionTypeChargeback, model.FlowReversal, "50.00", "150.00", "100.00", day2.Add(11*time.Hour)),
			tx(2, model.TransactionTypeDeposit, model.FlowCredit, "50.00", "100.00", "150.00", day1.Add(9*time.Hour)),
		}

		days := consolidateDaily(decimal.RequireFromString("100.00"), transactions)
		assert.Len(t, days, 2)

		// 冲正当天：合计都为零，余额回到 100
		assert.True(t, days[0].Balance.Equal(decimal.NewFromInt(100)))
		assert.True(t, days[0].TotalCredits.IsZero())
		assert.True(t, days[0].TotalDebits.IsZero())

		assert.True(t, days[1].Balance.Equal(decimal.NewFromInt(150)))
	})

	t.Run("同一天多笔流水聚合", func(t *testing.T) {
		transactions := []*model.Transaction{
			tx(3, model.TransactionTypeWithdraw, model.FlowDebit, "20.00", "130.00", "110.00", day1.Add(15*time.Hour)),
			tx(2, model.TransactionTypeDeposit, model.FlowCredit, "30.00", "100.00", "130.00", day1.Add(9*time.Hour)),
		}

		days := consolidateDaily(decimal.RequireFromString("100.00"), transactions)
		assert.Len(t, days, 1)
		assert.True(t, days[0].Balance.Equal(decimal.NewFromInt(110)))
		assert.True(t, days[0].TotalCredits.Equal(decimal.NewFromInt(30)))
		assert.True(t, days[0].TotalDebits.Equal(decimal.NewFromInt(20)))
		assert.Len(t, days[0].Transactions, 2)
	})

	t.Run("空流水返回空天列表", func(t *testing.T) {
		days := consolidateDaily(decimal.Zero, nil)
		assert.Empty(t, days)
	})
}

func TestPaginateDays(t *testing.T) {
	days := []*StatementDay{
		{Date: "2025-01-12"},
		{Date: "2025-01-11"},
		{Date: "2025-01-10"},
	}

	paged, meta := paginateDays(days, 2, 2)
	assert.Len(t, paged, 1)
	assert.Equal(t, "2025-01-10", paged[0].Date)
	assert.Equal(t, 3, meta.TotalDays)
	assert.Equal(t, 2, meta.TotalPages)

	// 越界页返回空列表而不报错
	paged, _ = paginateDays(days, 5, 2)
	assert.Empty(t, paged)
}

func TestStatementService_BuildStatement(t *testing.T) {
	t.Run("完整账单", func(t *testing.T) {
		svc, mock := newTestStatementService(t)

		day1 := mustDate("2025-01-10").Add(9 * time.Hour)
		day2 := mustDate("2025-01-12").Add(10 * time.Hour)

		mock.ExpectQuery("SELECT .* FROM `accounts`").
			WillReturnRows(accountRows(1, 100))
		// 期初余额：区间开始前最近一笔流水
		mock.ExpectQuery("SELECT .* FROM `transactions`").
			WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "balance_after"}).
				AddRow(1, 1, "100.00"))
		// 区间内流水，按时间倒序
		mock.ExpectQuery("SELECT .* FROM `transactions`").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "account_id", "type", "flow", "amount",
				"balance_before", "balance_after", "created_at",
			}).
				AddRow(3, 1, "WITHDRAW", "D", "30.00", "150.00", "120.00", day2).
				AddRow(2, 1, "DEPOSIT", "C", "50.00", "100.00", "150.00", day1))

		statement, err := svc.BuildStatement(context.Background(), &StatementRequest{
			UserID:    100,
			StartDate: "2025-01-01",
			EndDate:   "2025-01-31",
		})
		assert.NoError(t, err)
		assert.True(t, statement.Summary.OpeningBalance.Equal(decimal.NewFromInt(100)))
		assert.True(t, statement.Summary.ClosingBalance.Equal(decimal.NewFromInt(120)))
		assert.True(t, statement.Summary.TotalCredits.Equal(decimal.NewFromInt(50)))
		assert.True(t, statement.Summary.TotalDebits.Equal(decimal.NewFromInt(30)))
		assert.Equal(t, 2, statement.Summary.TransactionCount)
		assert.Len(t, statement.Days, 2)
		assert.Equal(t, "2025-01-12", statement.Days[0].Date)
		assert.Equal(t, 15, statement.Meta.PerPage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("区间前没有流水时期初余额为零", func(t *testing.T) {
		svc, mock := newTestStatementService(t)

		mock.ExpectQuery("SELECT .* FROM `accounts`").
			WillReturnRows(accountRows(1, 100))
		mock.ExpectQuery("SELECT .* FROM `transactions`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery("SELECT .* FROM `transactions`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		statement, err := svc.BuildStatement(context.Background(), &StatementRequest{
			UserID:    100,
			StartDate: "2025-01-01",
			EndDate:   "2025-01-31",
		})
		assert.NoError(t, err)
		assert.True(t, statement.Summary.OpeningBalance.IsZero())
		assert.True(t, statement.Summary.ClosingBalance.IsZero())
		assert.Empty(t, statement.Days)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("参数校验", func(t *testing.T) {
		svc, _ := newTestStatementService(t)
		ctx := context.Background()

		cases := []struct {
			name string
			req  *StatementRequest
		}{
			{"日期格式非法", &StatementRequest{UserID: 100, StartDate: "01/01/2025", EndDate: "2025-01-31"}},
			{"开始晚于结束", &StatementRequest{UserID: 100, StartDate: "2025-02-01", EndDate: "2025-01-31"}},
			{"区间超过90天", &StatementRequest{UserID: 100, StartDate: "2025-01-01", EndDate: "2025-06-30"}},
			{"交易类别非法", &StatementRequest{UserID: 100, StartDate: "2025-01-01", EndDate: "2025-01-31", Type: "BOGUS"}},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				_, err := svc.BuildStatement(ctx, c.req)
				var stmtErr *InvalidStatementError
				assert.ErrorAs(t, err, &stmtErr)
			})
		}
	})
}
