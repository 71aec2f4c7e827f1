package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestReceiverSelector_Valid(t *testing.T) {
	assert.True(t, ReceiverSelector{AccountNumber: "DW00000001"}.Valid())
	assert.True(t, ReceiverSelector{Agency: "0001", Account: "123456789"}.Valid())
	// 网点号和账号必须成对出现
	assert.False(t, ReceiverSelector{Agency: "0001"}.Valid())
	assert.False(t, ReceiverSelector{Account: "123456789"}.Valid())
	assert.False(t, ReceiverSelector{}.Valid())
}

func activeAccountRows(id, userID int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "agency", "account", "account_digit",
		"account_number", "account_type", "status",
	}).AddRow(id, userID, "0001", "123456789", "7",
		"DW00000001", "digital_wallet", "active")
}

func TestAccountRepository_ResolveReceiver(t *testing.T) {
	ctx := context.Background()

	t.Run("按钱包号命中", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewAccountRepository(db)

		mock.ExpectQuery("SELECT .* FROM `accounts`").
			WillReturnRows(activeAccountRows(1, 100))

		account, err := repo.ResolveReceiver(ctx, nil, ReceiverSelector{AccountNumber: "DW00000001"})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), account.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("不存在返回账户错误", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewAccountRepository(db)

		mock.ExpectQuery("SELECT .* FROM `accounts`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.ResolveReceiver(ctx, nil, ReceiverSelector{Agency: "0001", Account: "999999999"})
		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountRepository_UpdateBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("写入成功", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewAccountRepository(db)

		mock.ExpectExec("UPDATE `balances`").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateBalance(ctx, db, 5, decimal.NewFromInt(100))
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("余额行不存在时报错而不是静默通过", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewAccountRepository(db)

		mock.ExpectExec("UPDATE `balances`").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateBalance(ctx, db, 999, decimal.NewFromInt(100))
		assert.ErrorIs(t, err, ErrBalanceNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
