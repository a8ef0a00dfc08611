package models

// NPC 剧本中的非玩家角色
type NPC struct {
	Name        string `json:"name"`
	Type        string `json:"type"`        // 例如 "villager"、"guard"、"merchant"
	Disposition string `json:"disposition"` // 例如 "hostile"、"neutral"、"friendly"
	Description string `json:"description,omitempty"`
	IsImportant bool   `json:"important,omitempty"` // 是否为剧情关键角色
	Location    string `json:"location,omitempty"`
}

// Scenario 推理游戏剧本，由内容生成服务生成或使用预置剧本
type Scenario struct {
	Theme         ScenarioTheme     `json:"theme"`
	Title         string            `json:"title"`
	Story         string            `json:"story"` // 剧情简介
	Locations     map[string]string `json:"locations"`
	NPCs          map[string]NPC    `json:"npcs,omitempty"`
	OpeningPrompt string            `json:"opening_prompt"` // 开场描述
}

// Region RPG世界中的区域
type Region struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Danger      int    `json:"danger"` // 危险等级 1-5
}

// World RPG游戏世界，由内容生成服务生成或使用预置世界
type World struct {
	Theme       WorldTheme     `json:"theme"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Regions     []Region       `json:"regions"`
	NPCs        map[string]NPC `json:"npcs,omitempty"`
	Hooks       []string       `json:"hooks"` // 冒险线索
}
