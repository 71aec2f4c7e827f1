package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func transactionRow(id, accountID int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "account_id", "type", "flow", "amount",
		"balance_before", "balance_after", "transaction_id",
	}).AddRow(id, accountID, "DEPOSIT", "C", "100.00", "0.00", "100.00",
		"DEP20250115143052-00000001")
}

func TestTransactionRepository_FindByAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("命中", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewTransactionRepository(db)

		mock.ExpectQuery("SELECT .* FROM `transactions`").
			WillReturnRows(transactionRow(55, 1))

		trans, err := repo.FindByAccount(ctx, nil, 1, 55)
		assert.NoError(t, err)
		assert.Equal(t, int64(55), trans.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("查不到与查别人账户的流水行为一致", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewTransactionRepository(db)

		mock.ExpectQuery("SELECT .* FROM `transactions`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		trans, err := repo.FindByAccount(ctx, nil, 1, 999)
		assert.NoError(t, err)
		assert.Nil(t, trans)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_LastBefore(t *testing.T) {
	ctx := context.Background()

	t.Run("存在期初流水", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewTransactionRepository(db)

		mock.ExpectQuery("SELECT .* FROM `transactions`").
			WillReturnRows(transactionRow(40, 1))

		trans, err := repo.LastBefore(ctx, nil, 1, "2025-01-01")
		assert.NoError(t, err)
		assert.Equal(t, int64(40), trans.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("区间前没有流水返回 nil", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewTransactionRepository(db)

		mock.ExpectQuery("SELECT .* FROM `transactions`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		trans, err := repo.LastBefore(ctx, nil, 1, "2025-01-01")
		assert.NoError(t, err)
		assert.Nil(t, trans)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_MarkContested(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewTransactionRepository(db)

	mock.ExpectExec("UPDATE `transactions`").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkContested(context.Background(), db, 55, "未收到现金", time.Now(), 70)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
