package services

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"

	"github.com/google/uuid"
)

var ErrInvalidID = errors.New("无效的ID格式")

// 标识符必须是 UUID v4，校验通过后才能拼入存储键
var uuidV4Pattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// NewID 生成新的 UUID v4 标识符
func NewID() string {
	return uuid.NewString()
}

// ValidateID 校验标识符是否为合法的 UUID v4
func ValidateID(id string) error {
	if !uuidV4Pattern.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}

// 邀请码字符集，去掉了易混淆的 0/O/1/I
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewJoinCode 生成6位邀请码
func NewJoinCode() string {
	code := make([]byte, 6)
	for i := range code {
		code[i] = joinCodeAlphabet[rand.Intn(len(joinCodeAlphabet))]
	}
	return string(code)
}

// GameKey 游戏主记录键
func GameKey(id string) string {
	return fmt.Sprintf("game:%s", id)
}

// VillageKey 村庄主记录键
func VillageKey(id string) string {
	return fmt.Sprintf("village:%s", id)
}

// JoinCodeKey 邀请码到游戏ID的映射键
func JoinCodeKey(code string) string {
	return fmt.Sprintf("joincode:%s", code)
}

// CreatorGamesKey 创建者游戏索引键，按实体分键，
// 同一创建者的多个游戏互不覆盖
func CreatorGamesKey(creatorID, entityID string) string {
	return fmt.Sprintf("creator:%s:games:%s", creatorID, entityID)
}

// RoleKey 玩家角色分配记录键
func RoleKey(gameID, playerID string) string {
	return fmt.Sprintf("game:%s:roles:%s", gameID, playerID)
}
