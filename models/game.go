package models

import "time"

// GameType 游戏类型
type GameType string

const (
	TypeDeduction GameType = "deduction" // 推理游戏
	TypeRPG       GameType = "rpg"       // 角色扮演游戏
	TypeVillage   GameType = "village"   // 村庄模拟游戏
)

// GameStatus 游戏整体状态
type GameStatus string

const (
	StatusWaiting   GameStatus = "waiting"   // 等待玩家加入
	StatusActive    GameStatus = "active"    // 游戏进行中
	StatusCompleted GameStatus = "completed" // 游戏已结束
)

// GamePhase 游戏阶段
type GamePhase string

const (
	// 推理游戏阶段
	PhaseRoleAssignment GamePhase = "role_assignment" // 角色分配阶段
	PhaseNight          GamePhase = "night"           // 夜晚阶段
	PhaseDay            GamePhase = "day"             // 白天讨论阶段
	PhaseVoting         GamePhase = "voting"          // 投票阶段
	PhaseCompleted      GamePhase = "completed"       // 游戏结束阶段

	// RPG游戏阶段
	PhaseWorldBuilding GamePhase = "world_building" // 世界构建阶段
	PhaseExploration   GamePhase = "exploration"    // 探索阶段
)

// ScenarioTheme 推理游戏剧本主题
type ScenarioTheme string

const (
	ThemeManor      ScenarioTheme = "manor"      // 庄园谜案
	ThemeSpaceship  ScenarioTheme = "spaceship"  // 飞船疑云
	ThemeVillageInn ScenarioTheme = "villageinn" // 客栈风波
)

// WorldTheme RPG世界主题
type WorldTheme string

const (
	WorldFantasy   WorldTheme = "fantasy"   // 奇幻世界
	WorldWasteland WorldTheme = "wasteland" // 废土世界
	WorldSea       WorldTheme = "sea"       // 海洋冒险
)

// Event 游戏事件日志，追加后不可修改
type Event struct {
	ID              string   `json:"id"`
	Round           int      `json:"round"`
	Description     string   `json:"description"`
	IsPublic        bool     `json:"is_public"`        // 是否对所有玩家可见
	AffectedPlayers []string `json:"affected_players"` // 受影响的玩家
	Timestamp       int64    `json:"timestamp"`
}

// Clue 线索
type Clue struct {
	ID              string   `json:"id"`
	Text            string   `json:"text"`
	IsRevealed      bool     `json:"is_revealed"` // 是否已公开
	AffectedPlayers []string `json:"affected_players,omitempty"`
}

// NightAction 夜晚行动
type NightAction struct {
	ActorID    string `json:"actor_id"`
	ActionType string `json:"action_type"`
	TargetID   string `json:"target_id,omitempty"`
	IsResolved bool   `json:"is_resolved"` // 行动是否已结算
	Round      int    `json:"round"`
}

// GameConfig 游戏规则配置
type GameConfig struct {
	MinPlayers int           `json:"min_players"`
	MaxPlayers int           `json:"max_players"`
	Scenario   ScenarioTheme `json:"scenario,omitempty"`    // 推理游戏剧本主题
	WorldTheme WorldTheme    `json:"world_theme,omitempty"` // RPG世界主题
}

// DeductionData 推理游戏的可变数据
type DeductionData struct {
	Round             int            `json:"round"`
	AlivePlayers      []string       `json:"alive_players"`
	EliminatedPlayers []string       `json:"eliminated_players"`
	Events            []Event        `json:"events"`
	CluesAvailable    []Clue         `json:"clues_available"`
	NightActions      []NightAction  `json:"night_actions"`
	Votes             map[string]int `json:"votes,omitempty"` // 本轮票数统计
	Scenario          *Scenario      `json:"scenario,omitempty"`
}

// RPGData RPG游戏的可变数据
type RPGData struct {
	World      *World   `json:"world,omitempty"`
	SessionLog []string `json:"session_log"`
}

// GameState 游戏完整状态，以 game:<id> 为键持久化
type GameState struct {
	ID        string         `json:"id"`
	Type      GameType       `json:"type"`
	Status    GameStatus     `json:"status"`
	Phase     GamePhase      `json:"phase"`
	Players   []string       `json:"players"`
	CreatorID string         `json:"creator_id"` // 创建者身份，删除游戏时校验
	JoinCode  string         `json:"join_code,omitempty"`
	Config    GameConfig     `json:"config"`
	Deduction *DeductionData `json:"deduction,omitempty"`
	RPG       *RPGData       `json:"rpg,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Version   int64          `json:"version"` // 乐观并发控制版本号
}

// CurrentPlayerCount 当前玩家数量
func (g *GameState) CurrentPlayerCount() int {
	return len(g.Players)
}

// HasPlayer 判断玩家是否在游戏中
func (g *GameState) HasPlayer(playerID string) bool {
	for _, p := range g.Players {
		if p == playerID {
			return true
		}
	}
	return false
}
