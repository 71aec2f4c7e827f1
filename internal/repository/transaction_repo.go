package repository

import (
	"context"
	"errors"
	"time"

	"digitalwallet/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create 追加一条流水并回填自增ID
// 流水创建后不允许再修改金额与余额快照字段
func (r *TransactionRepository) Create(ctx context.Context, tx *gorm.DB, trans *model.Transaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(trans).Error
}

// FindByAccount 按账户范围查询流水
// 查别人账户的流水ID与查不存在的ID行为完全一致（都返回 nil），不泄露他人记录的存在性
func (r *TransactionRepository) FindByAccount(ctx context.Context, db *gorm.DB, accountID, id int64) (*model.Transaction, error) {
	if db == nil {
		db = r.db
	}
	var trans model.Transaction
	err := db.WithContext(ctx).
		Where("id = ? AND account_id = ?", id, accountID).
		First(&trans).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trans, nil
}

// FindByAccountForUpdate 行锁版本，冲正操作读取原流水时使用
func (r *TransactionRepository) FindByAccountForUpdate(ctx context.Context, tx *gorm.DB, accountID, id int64) (*model.Transaction, error) {
	var trans model.Transaction
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND account_id = ?", id, accountID).
		First(&trans).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trans, nil
}

// MarkChargebacked 点亮退单锁存位
// 这是流水创建后唯二允许的变更之一，且只作用在被冲正的原流水上
func (r *TransactionRepository) MarkChargebacked(ctx context.Context, tx *gorm.DB, id int64) error {
	return tx.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("id = ?", id).
		Update("is_chargebacked", true).Error
}

// MarkContested 点亮争议锁存位并记录争议时间、理由与补偿流水
func (r *TransactionRepository) MarkContested(ctx context.Context, tx *gorm.DB, id int64, reason string, contestedAt time.Time, contestationID int64) error {
	return tx.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_contested":                true,
			"contested_at":                contestedAt,
			"contested_reason":            reason,
			"contestation_transaction_id": contestationID,
		}).Error
}

// ListBetween 查询日期区间（闭区间）内的流水，按时间倒序
// typeFilter 为空串时不过滤类别
func (r *TransactionRepository) ListBetween(ctx context.Context, db *gorm.DB, accountID int64, startDate, endDate string, typeFilter model.TransactionType) ([]*model.Transaction, error) {
	if db == nil {
		db = r.db
	}
	query := db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Where("DATE(created_at) BETWEEN ? AND ?", startDate, endDate)
	if typeFilter != "" {
		query = query.Where("type = ?", typeFilter)
	}

	var transactions []*model.Transaction
	err := query.Order("created_at DESC, id DESC").Find(&transactions).Error
	return transactions, err
}

// LastBefore 查询指定日期之前最近的一条流水，其 balance_after 即对账期的期初余额
// 没有则返回 nil（期初余额按 0 处理）
func (r *TransactionRepository) LastBefore(ctx context.Context, db *gorm.DB, accountID int64, startDate string) (*model.Transaction, error) {
	if db == nil {
		db = r.db
	}
	var trans model.Transaction
	err := db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Where("DATE(created_at) < ?", startDate).
		Order("created_at DESC, id DESC").
		First(&trans).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trans, nil
}
