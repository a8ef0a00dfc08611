package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/qianlnk/partygames/models"
)

var (
	ErrGameNotFound        = errors.New("游戏不存在")
	ErrGameFull            = errors.New("游戏人数已满")
	ErrPlayerAlreadyJoined = errors.New("玩家已在游戏中")
	ErrNotCreator          = errors.New("只有创建者可以删除游戏")
	ErrGameInProgress      = errors.New("游戏正在进行中，无法删除")
	ErrInvalidPlayerBounds = errors.New("最小玩家数不能大于最大玩家数")
	ErrInvalidTheme        = errors.New("不支持的剧本主题")
	ErrJoinCodeNotFound    = errors.New("邀请码无效或已过期")
)

// 推理游戏人数硬限制
const (
	deductionMinPlayers = 4
	deductionMaxPlayers = 12
)

// DeductionService 推理游戏服务
type DeductionService struct {
	store     Store
	generator ContentGenerator
	config    Config
	now       func() time.Time
}

// NewDeductionService 创建推理游戏服务实例
func NewDeductionService(store Store, generator ContentGenerator, config Config) *DeductionService {
	return &DeductionService{
		store:     store,
		generator: generator,
		config:    config,
		now:       time.Now,
	}
}

// CreateDeductionRequest 创建推理游戏请求
type CreateDeductionRequest struct {
	CreatorID  string               `json:"creator_id" binding:"required"`
	MinPlayers int                  `json:"min_players" binding:"required"`
	MaxPlayers int                  `json:"max_players" binding:"required"`
	Scenario   models.ScenarioTheme `json:"scenario" binding:"required"`
}

// Create 创建推理游戏。所有校验在首次写存储之前完成；
// 剧本生成失败时使用预置剧本，创建不会因生成服务不可用而失败。
func (ds *DeductionService) Create(ctx context.Context, req CreateDeductionRequest) (*models.GameState, error) {
	if err := ValidateID(req.CreatorID); err != nil {
		return nil, err
	}
	if req.MinPlayers > req.MaxPlayers {
		return nil, ErrInvalidPlayerBounds
	}
	if req.MinPlayers < deductionMinPlayers || req.MaxPlayers > deductionMaxPlayers {
		return nil, fmt.Errorf("%w: 人数范围必须在 %d 到 %d 之间",
			ErrInvalidPlayerBounds, deductionMinPlayers, deductionMaxPlayers)
	}
	switch req.Scenario {
	case models.ThemeManor, models.ThemeSpaceship, models.ThemeVillageInn:
	default:
		return nil, ErrInvalidTheme
	}

	scenario := ds.generateScenario(ctx, req.Scenario)

	now := ds.now()
	game := &models.GameState{
		ID:        NewID(),
		Type:      models.TypeDeduction,
		Status:    models.StatusWaiting,
		Phase:     models.PhaseRoleAssignment,
		Players:   []string{req.CreatorID},
		CreatorID: req.CreatorID,
		JoinCode:  NewJoinCode(),
		Config: models.GameConfig{
			MinPlayers: req.MinPlayers,
			MaxPlayers: req.MaxPlayers,
			Scenario:   req.Scenario,
		},
		Deduction: &models.DeductionData{
			Round:             0,
			AlivePlayers:      []string{req.CreatorID},
			EliminatedPlayers: []string{},
			Events:            []models.Event{},
			CluesAvailable:    []models.Clue{},
			NightActions:      []models.NightAction{},
			Scenario:          scenario,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ds.persist(game); err != nil {
		return nil, err
	}

	// 辅助索引使用独立的存活时间
	ds.store.Set(JoinCodeKey(game.JoinCode), []byte(game.ID), ds.config.JoinCodeTTL)
	ds.store.Set(CreatorGamesKey(req.CreatorID, game.ID), []byte(game.ID), ds.config.CreatorIndexTTL)

	log.Printf("推理游戏创建成功: id=%s 剧本=%s 邀请码=%s", game.ID, req.Scenario, game.JoinCode)
	return game, nil
}

// Get 读取游戏并按查看者身份净化。
// viewerID 为空时返回旁观者视图。
func (ds *DeductionService) Get(id, viewerID string, includeSecrets bool) (*models.GameState, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	game, _, err := ds.load(id)
	if err != nil {
		return nil, err
	}

	if viewerID == "" {
		return SanitizeForPublic(game), nil
	}
	if err := ValidateID(viewerID); err != nil {
		return nil, err
	}
	return SanitizeForViewer(game, viewerID, includeSecrets)
}

// Join 通过邀请码加入游戏。并发加入通过版本号写入保护，
// 版本冲突时重新加载并重试一次。
func (ds *DeductionService) Join(code, playerID string) (*models.GameState, error) {
	if err := ValidateID(playerID); err != nil {
		return nil, err
	}

	record, exists := ds.store.Get(JoinCodeKey(code))
	if !exists {
		return nil, ErrJoinCodeNotFound
	}
	gameID := string(record.Value)

	for attempt := 0; attempt < 2; attempt++ {
		game, version, err := ds.load(gameID)
		if err != nil {
			return nil, err
		}

		if game.HasPlayer(playerID) {
			return nil, ErrPlayerAlreadyJoined
		}
		if game.CurrentPlayerCount() >= game.Config.MaxPlayers {
			return nil, ErrGameFull
		}

		game.Players = append(game.Players, playerID)
		if game.Deduction != nil {
			game.Deduction.AlivePlayers = append(game.Deduction.AlivePlayers, playerID)
		}
		game.UpdatedAt = ds.now()

		err = ds.compareAndPersist(game, version)
		if err == nil {
			log.Printf("玩家加入推理游戏: game=%s player=%s 当前人数=%d", game.ID, playerID, game.CurrentPlayerCount())
			return game, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
	}

	return nil, ErrVersionConflict
}

// Delete 删除游戏。只有创建者可以删除，且只允许在角色分配阶段删除；
// 成功时同时删除邀请码和创建者索引等辅助键。
func (ds *DeductionService) Delete(id, requesterID string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := ValidateID(requesterID); err != nil {
		return err
	}

	game, _, err := ds.load(id)
	if err != nil {
		return err
	}

	// 阶段检查先于身份检查：进行中的游戏无论操作者是谁都不允许删除
	if game.Phase != models.PhaseRoleAssignment {
		return ErrGameInProgress
	}
	if game.CreatorID != requesterID {
		return ErrNotCreator
	}

	ds.store.Delete(GameKey(id))
	ds.store.Delete(JoinCodeKey(game.JoinCode))
	ds.store.Delete(CreatorGamesKey(game.CreatorID, id))
	for _, playerID := range game.Players {
		ds.store.Delete(RoleKey(id, playerID))
	}

	log.Printf("推理游戏已删除: id=%s 操作者=%s", id, requesterID)
	return nil
}

// generateScenario 调用内容生成服务生成剧本，失败时回落到预置剧本
func (ds *DeductionService) generateScenario(ctx context.Context, theme models.ScenarioTheme) *models.Scenario {
	raw, err := ds.generator.Generate(ctx, "deduction_scenario", map[string]interface{}{
		"theme": theme,
	})
	if err != nil {
		log.Printf("剧本生成失败，使用预置剧本: theme=%s err=%v", theme, err)
		return FallbackScenario(theme)
	}

	var scenario models.Scenario
	if err := json.Unmarshal(raw, &scenario); err != nil || scenario.Title == "" {
		log.Printf("剧本内容无法解析，使用预置剧本: theme=%s err=%v", theme, err)
		return FallbackScenario(theme)
	}
	scenario.Theme = theme
	return &scenario
}

// load 读取并反序列化游戏主记录，返回当前存储版本号
func (ds *DeductionService) load(id string) (*models.GameState, int64, error) {
	record, exists := ds.store.Get(GameKey(id))
	if !exists {
		return nil, 0, ErrGameNotFound
	}

	var game models.GameState
	if err := json.Unmarshal(record.Value, &game); err != nil {
		return nil, 0, fmt.Errorf("游戏记录反序列化失败: %w", err)
	}
	game.Version = record.Version
	return &game, record.Version, nil
}

// persist 无条件写入游戏主记录
func (ds *DeductionService) persist(game *models.GameState) error {
	value, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("游戏记录序列化失败: %w", err)
	}
	record := ds.store.Set(GameKey(game.ID), value, ds.config.GameTTL)
	game.Version = record.Version
	return nil
}

// compareAndPersist 按期望版本号写入游戏主记录
func (ds *DeductionService) compareAndPersist(game *models.GameState, expectedVersion int64) error {
	value, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("游戏记录序列化失败: %w", err)
	}
	record, err := ds.store.CompareAndSet(GameKey(game.ID), value, expectedVersion, ds.config.GameTTL)
	if err != nil {
		return err
	}
	game.Version = record.Version
	return nil
}
