package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"digitalwallet/internal/config"
	"digitalwallet/internal/infrastructure/database"
	"digitalwallet/internal/model"
	"digitalwallet/internal/repository"
	"digitalwallet/pkg/idgen"
)

// 初始化演示账户：每个用户一个活跃钱包账户加零余额。
// 没有注册接口，账户由本工具（或上游开户流程）预先创建。
func main() {
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	userCount := flag.Int("users", 2, "创建的演示用户数量")
	flag.Parse()

	cfg := config.LoadConfig(*configPath)
	idgen.Init(1)
	db := database.InitMySQL(&cfg.MySQL)

	accountRepo := repository.NewAccountRepository(db)
	ctx := context.Background()

	for userID := int64(1); userID <= int64(*userCount); userID++ {
		account := &model.Account{
			UserID:        userID,
			Agency:        "0001",
			Account:       fmt.Sprintf("%09d", idgen.NextID()%1000000000),
			AccountDigit:  fmt.Sprintf("%d", idgen.NextID()%10),
			AccountNumber: fmt.Sprintf("DW%08d", idgen.NextID()%100000000),
			AccountType:   model.AccountTypeDigitalWallet,
			Status:        model.AccountStatusActive,
		}
		if err := accountRepo.Create(ctx, account); err != nil {
			log.Fatalf("创建账户失败: userID=%d, err=%v", userID, err)
		}
		log.Printf("账户创建成功: userID=%d, accountNumber=%s", userID, account.AccountNumber)
	}
}
