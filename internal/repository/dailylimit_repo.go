package repository

import (
	"context"
	"errors"
	"time"

	"digitalwallet/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDailyLimitNotFound = errors.New("日限额记录不存在")

type DailyLimitRepository struct {
	db *gorm.DB
}

func NewDailyLimitRepository(db *gorm.DB) *DailyLimitRepository {
	return &DailyLimitRepository{db: db}
}

// Day 把时间归一化成自然日（日限额的唯一键之一）
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Get 查询某账户某类别当天的限额记录
func (r *DailyLimitRepository) Get(ctx context.Context, db *gorm.DB, accountID int64, limitType model.LimitType, day time.Time) (*model.DailyLimit, error) {
	if db == nil {
		db = r.db
	}
	var limit model.DailyLimit
	err := db.WithContext(ctx).
		Where("account_id = ? AND limit_type = ? AND reset_at = ?", accountID, limitType, day.Format("2006-01-02")).
		First(&limit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDailyLimitNotFound
		}
		return nil, err
	}
	return &limit, nil
}

// GetOrCreate 惰性创建当天首条限额记录，幂等：
// 并发首次创建依赖 (account_id, limit_type, reset_at) 唯一键，
// 冲突方 DoNothing 后重新读取胜出方的记录，不报错
func (r *DailyLimitRepository) GetOrCreate(ctx context.Context, tx *gorm.DB, accountID int64, limitType model.LimitType, day time.Time, defaultLimit decimal.Decimal) (*model.DailyLimit, error) {
	limit, err := r.Get(ctx, tx, accountID, limitType, day)
	if err == nil {
		return limit, nil
	}
	if !errors.Is(err, ErrDailyLimitNotFound) {
		return nil, err
	}

	newLimit := &model.DailyLimit{
		AccountID:   accountID,
		LimitType:   limitType,
		DailyLimit:  defaultLimit,
		CurrentUsed: decimal.Zero,
		ResetAt:     Day(day),
	}
	err = tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "limit_type"}, {Name: "reset_at"}},
			DoNothing: true,
		}).
		Create(newLimit).Error
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, tx, accountID, limitType, day)
}

// Reserve 在所在事务内原子预占额度
// 条件更新保证 current_used 永不超过 daily_limit，也永不回退；
// 返回 false 表示额度不足，由调用方带上精确数字报错
func (r *DailyLimitRepository) Reserve(ctx context.Context, tx *gorm.DB, limitID int64, amount decimal.Decimal) (bool, error) {
	result := tx.WithContext(ctx).
		Model(&model.DailyLimit{}).
		Where("id = ? AND current_used + ? <= daily_limit", limitID, amount).
		Update("current_used", gorm.Expr("current_used + ?", amount))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Refresh 重新读取最新的限额数字（预占失败后取精确值用）
func (r *DailyLimitRepository) Refresh(ctx context.Context, tx *gorm.DB, limitID int64) (*model.DailyLimit, error) {
	var limit model.DailyLimit
	err := tx.WithContext(ctx).Where("id = ?", limitID).First(&limit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDailyLimitNotFound
		}
		return nil, err
	}
	return &limit, nil
}
