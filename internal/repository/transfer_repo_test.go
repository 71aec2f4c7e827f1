package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestTransferRepository_GetByTransactionID(t *testing.T) {
	ctx := context.Background()

	t.Run("按业务流水号命中", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewTransferRepository(db)

		mock.ExpectQuery("SELECT .* FROM `transfers`").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "sender_account_id", "receiver_account_id", "amount", "status", "transaction_id",
			}).AddRow(5, 1, 2, "100.00", "completed", "TRF20250115143052-00000001"))

		transfer, err := repo.GetByTransactionID(ctx, "TRF20250115143052-00000001")
		assert.NoError(t, err)
		assert.Equal(t, int64(5), transfer.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("不存在返回 nil", func(t *testing.T) {
		db, mock := newMockGorm(t)
		repo := NewTransferRepository(db)

		mock.ExpectQuery("SELECT .* FROM `transfers`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		transfer, err := repo.GetByTransactionID(ctx, "TRF00000000000000-00000000")
		assert.NoError(t, err)
		assert.Nil(t, transfer)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransferRepository_ListByAccountID(t *testing.T) {
	db, mock := newMockGorm(t)
	repo := NewTransferRepository(db)

	mock.ExpectQuery("SELECT count.* FROM `transfers`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(2))
	mock.ExpectQuery("SELECT .* FROM `transfers`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "sender_account_id", "receiver_account_id", "amount", "status", "transaction_id",
		}).
			AddRow(6, 2, 1, "30.00", "completed", "TRF20250116090000-00000002").
			AddRow(5, 1, 2, "100.00", "completed", "TRF20250115143052-00000001"))

	transfers, total, err := repo.ListByAccountID(context.Background(), 1, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, transfers, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
