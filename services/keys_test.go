package services

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{name: "合法v4", id: "3f2c1a6e-8b4d-4c2a-9e1f-0a5b6c7d8e9f", valid: true},
		{name: "生成的ID", id: NewID(), valid: true},
		{name: "空字符串", id: "", valid: false},
		{name: "非UUID", id: "not-a-uuid", valid: false},
		{name: "版本号错误", id: "3f2c1a6e-8b4d-1c2a-9e1f-0a5b6c7d8e9f", valid: false},
		{name: "变体错误", id: "3f2c1a6e-8b4d-4c2a-1e1f-0a5b6c7d8e9f", valid: false},
		{name: "第四段多一位", id: "3f2c1a6e-8b4d-4c2a-9e1fa-0a5b6c7d8e9f", valid: false},
		{name: "大写字母", id: "3F2C1A6E-8B4D-4C2A-9E1F-0A5B6C7D8E9F", valid: false},
		{name: "注入存储键分隔符", id: "game:1;3f2c1a6e-8b4d-4c2a-9e1f", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.valid && err != nil {
				t.Fatalf("合法ID被拒绝: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidID) {
				t.Fatalf("非法ID应返回 ErrInvalidID，实际为 %v", err)
			}
		})
	}
}

func TestNewIDPassesValidation(t *testing.T) {
	// 变体位是随机的，多生成几个覆盖 8/9/a/b 各种取值
	for i := 0; i < 32; i++ {
		id := NewID()
		if len(id) != 36 {
			t.Fatalf("生成的ID长度应为36: %s", id)
		}
		if err := ValidateID(id); err != nil {
			t.Fatalf("生成的ID未通过校验: %s %v", id, err)
		}
	}
}

func TestNewJoinCode(t *testing.T) {
	code := NewJoinCode()
	if len(code) != 6 {
		t.Fatalf("邀请码长度应为6: %s", code)
	}
	for _, ch := range code {
		if !strings.ContainsRune(joinCodeAlphabet, ch) {
			t.Fatalf("邀请码包含字符集之外的字符: %c", ch)
		}
	}
}

func TestStorageKeys(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{name: "游戏键", got: GameKey("abc"), want: "game:abc"},
		{name: "村庄键", got: VillageKey("v1"), want: "village:v1"},
		{name: "邀请码键", got: JoinCodeKey("XK2345"), want: "joincode:XK2345"},
		{name: "创建者索引键", got: CreatorGamesKey("u1", "g1"), want: "creator:u1:games:g1"},
		{name: "角色键", got: RoleKey("g1", "p1"), want: "game:g1:roles:p1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("期望 %s，实际为 %s", tt.want, tt.got)
			}
		})
	}
}
