package borrow

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateBorrowNo 生成借阅单号
// 设计原则:
// 1. 全局唯一(避免冲突)
// 2. 时间有序(便于排查和对账)
// 3. 不可预测(防止恶意遍历)
//
// 格式:BRW + 时间戳(秒) + 6位随机数
// 示例:BRW1699248000123456
func GenerateBorrowNo() string {
	timestamp := time.Now().Unix()
	random := rand.Intn(1000000) // 6位随机数
	return fmt.Sprintf("BRW%d%06d", timestamp, random)
}
