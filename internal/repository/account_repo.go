package repository

import (
	"context"
	"errors"

	"digitalwallet/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAccountNotFound = errors.New("账户不存在或已停用")
	ErrBalanceNotFound = errors.New("余额记录不存在")
)

// ReceiverSelector 转入账户定位方式，二选一：
// 钱包号，或 网点号+账号
type ReceiverSelector struct {
	AccountNumber string
	Agency        string
	Account       string
}

// Valid 必须提供一种完整的定位方式，两种都给时钱包号优先
func (s ReceiverSelector) Valid() bool {
	return s.AccountNumber != "" || (s.Agency != "" && s.Account != "")
}

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create 开户：账户与零余额在同一事务内创建
func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(account).Error; err != nil {
			return err
		}
		balance := &model.Balance{
			AccountID: account.ID,
			Amount:    decimal.Zero,
		}
		return tx.Create(balance).Error
	})
}

// GetActiveByUserID 查询用户的活跃账户（不加锁，只读场景使用）
func (r *AccountRepository) GetActiveByUserID(ctx context.Context, db *gorm.DB, userID int64) (*model.Account, error) {
	if db == nil {
		db = r.db
	}
	var account model.Account
	err := db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.AccountStatusActive).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// AcquireByUserID 以行锁方式取得用户的活跃账户
// 锁持有到所在事务提交或回滚为止，同一账户上的并发操作在此串行化
func (r *AccountRepository) AcquireByUserID(ctx context.Context, tx *gorm.DB, userID int64) (*model.Account, error) {
	var account model.Account
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND status = ?", userID, model.AccountStatusActive).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// AcquireByID 以行锁方式取得活跃账户，转账按账户ID升序逐个加锁时使用
func (r *AccountRepository) AcquireByID(ctx context.Context, tx *gorm.DB, accountID int64) (*model.Account, error) {
	var account model.Account
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND status = ?", accountID, model.AccountStatusActive).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// ResolveReceiver 按定位方式查询转入账户（不加锁，真正加锁在拿到ID排序之后）
func (r *AccountRepository) ResolveReceiver(ctx context.Context, db *gorm.DB, selector ReceiverSelector) (*model.Account, error) {
	if db == nil {
		db = r.db
	}
	query := db.WithContext(ctx).Where("status = ?", model.AccountStatusActive)
	if selector.AccountNumber != "" {
		query = query.Where("account_number = ?", selector.AccountNumber)
	} else {
		query = query.Where("agency = ? AND account = ?", selector.Agency, selector.Account)
	}

	var account model.Account
	if err := query.First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetBalance 查询余额（不加锁）
func (r *AccountRepository) GetBalance(ctx context.Context, db *gorm.DB, accountID int64) (*model.Balance, error) {
	if db == nil {
		db = r.db
	}
	var balance model.Balance
	err := db.WithContext(ctx).Where("account_id = ?", accountID).First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBalanceNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// GetBalanceForUpdate 以行锁方式取得余额行，必须在账户锁之后调用
func (r *AccountRepository) GetBalanceForUpdate(ctx context.Context, tx *gorm.DB, accountID int64) (*model.Balance, error) {
	var balance model.Balance
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ?", accountID).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBalanceNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// UpdateBalance 在持锁事务内写入新余额
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx *gorm.DB, balanceID int64, amount decimal.Decimal) error {
	result := tx.WithContext(ctx).
		Model(&model.Balance{}).
		Where("id = ?", balanceID).
		Update("amount", amount)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBalanceNotFound
	}
	return nil
}
