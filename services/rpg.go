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
	ErrInvalidWorldTheme = errors.New("不支持的世界主题")
	ErrGameAlreadyActive = errors.New("游戏已经开始")
	ErrNotEnoughPlayers  = errors.New("玩家人数不足")
)

// RPG游戏人数硬限制
const (
	rpgMinPlayers = 1
	rpgMaxPlayers = 6
)

// RPGService RPG游戏服务
type RPGService struct {
	store     Store
	generator ContentGenerator
	config    Config
	now       func() time.Time
}

// NewRPGService 创建RPG游戏服务实例
func NewRPGService(store Store, generator ContentGenerator, config Config) *RPGService {
	return &RPGService{
		store:     store,
		generator: generator,
		config:    config,
		now:       time.Now,
	}
}

// CreateRPGRequest 创建RPG游戏请求
type CreateRPGRequest struct {
	CreatorID  string            `json:"creator_id" binding:"required"`
	MinPlayers int               `json:"min_players" binding:"required"`
	MaxPlayers int               `json:"max_players" binding:"required"`
	WorldTheme models.WorldTheme `json:"world_theme" binding:"required"`
}

// Create 创建RPG游戏。世界生成失败时使用预置世界，创建不会因生成服务不可用而失败。
func (rs *RPGService) Create(ctx context.Context, req CreateRPGRequest) (*models.GameState, error) {
	if err := ValidateID(req.CreatorID); err != nil {
		return nil, err
	}
	if req.MinPlayers > req.MaxPlayers {
		return nil, ErrInvalidPlayerBounds
	}
	if req.MinPlayers < rpgMinPlayers || req.MaxPlayers > rpgMaxPlayers {
		return nil, fmt.Errorf("%w: 人数范围必须在 %d 到 %d 之间",
			ErrInvalidPlayerBounds, rpgMinPlayers, rpgMaxPlayers)
	}
	switch req.WorldTheme {
	case models.WorldFantasy, models.WorldWasteland, models.WorldSea:
	default:
		return nil, ErrInvalidWorldTheme
	}

	world := rs.generateWorld(ctx, req.WorldTheme)

	now := rs.now()
	game := &models.GameState{
		ID:        NewID(),
		Type:      models.TypeRPG,
		Status:    models.StatusWaiting,
		Phase:     models.PhaseWorldBuilding,
		Players:   []string{req.CreatorID},
		CreatorID: req.CreatorID,
		JoinCode:  NewJoinCode(),
		Config: models.GameConfig{
			MinPlayers: req.MinPlayers,
			MaxPlayers: req.MaxPlayers,
			WorldTheme: req.WorldTheme,
		},
		RPG: &models.RPGData{
			World:      world,
			SessionLog: []string{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	value, err := json.Marshal(game)
	if err != nil {
		return nil, fmt.Errorf("游戏记录序列化失败: %w", err)
	}
	record := rs.store.Set(GameKey(game.ID), value, rs.config.GameTTL)
	game.Version = record.Version

	rs.store.Set(JoinCodeKey(game.JoinCode), []byte(game.ID), rs.config.JoinCodeTTL)
	rs.store.Set(CreatorGamesKey(req.CreatorID, game.ID), []byte(game.ID), rs.config.CreatorIndexTTL)

	log.Printf("RPG游戏创建成功: id=%s 世界=%s(%s)", game.ID, world.Name, req.WorldTheme)
	return game, nil
}

// Get 读取RPG游戏。RPG没有按玩家隐藏的信息，所有查看者获得相同视图。
func (rs *RPGService) Get(id string) (*models.GameState, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	game, _, err := rs.load(id)
	return game, err
}

// Start 开始游戏：世界构建阶段转入探索阶段。
// 人数不足最小要求时拒绝开始。
func (rs *RPGService) Start(id, requesterID string) (*models.GameState, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if err := ValidateID(requesterID); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		game, version, err := rs.load(id)
		if err != nil {
			return nil, err
		}

		if game.CreatorID != requesterID {
			return nil, ErrNotCreator
		}
		if game.Status != models.StatusWaiting {
			return nil, ErrGameAlreadyActive
		}
		if game.CurrentPlayerCount() < game.Config.MinPlayers {
			return nil, ErrNotEnoughPlayers
		}

		game.Status = models.StatusActive
		game.Phase = models.PhaseExploration
		game.UpdatedAt = rs.now()
		if game.RPG != nil && game.RPG.World != nil {
			game.RPG.SessionLog = append(game.RPG.SessionLog, game.RPG.World.Description)
		}

		value, err := json.Marshal(game)
		if err != nil {
			return nil, fmt.Errorf("游戏记录序列化失败: %w", err)
		}
		record, err := rs.store.CompareAndSet(GameKey(id), value, version, rs.config.GameTTL)
		if err == nil {
			game.Version = record.Version
			log.Printf("RPG游戏开始: id=%s 人数=%d", id, game.CurrentPlayerCount())
			return game, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
	}

	return nil, ErrVersionConflict
}

// Delete 删除游戏。只有创建者可以删除，进行中的游戏不允许删除。
func (rs *RPGService) Delete(id, requesterID string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := ValidateID(requesterID); err != nil {
		return err
	}

	game, _, err := rs.load(id)
	if err != nil {
		return err
	}

	if game.CreatorID != requesterID {
		return ErrNotCreator
	}
	if game.Status == models.StatusActive {
		return ErrGameInProgress
	}

	rs.store.Delete(GameKey(id))
	rs.store.Delete(JoinCodeKey(game.JoinCode))
	rs.store.Delete(CreatorGamesKey(game.CreatorID, id))

	log.Printf("RPG游戏已删除: id=%s 操作者=%s", id, requesterID)
	return nil
}

// generateWorld 调用内容生成服务构建世界，失败时回落到预置世界
func (rs *RPGService) generateWorld(ctx context.Context, theme models.WorldTheme) *models.World {
	raw, err := rs.generator.Generate(ctx, "rpg_world", map[string]interface{}{
		"theme": theme,
	})
	if err != nil {
		log.Printf("世界生成失败，使用预置世界: theme=%s err=%v", theme, err)
		return FallbackWorld(theme)
	}

	var world models.World
	if err := json.Unmarshal(raw, &world); err != nil || world.Name == "" {
		log.Printf("世界内容无法解析，使用预置世界: theme=%s err=%v", theme, err)
		return FallbackWorld(theme)
	}
	world.Theme = theme
	return &world
}

// load 读取并反序列化游戏主记录
func (rs *RPGService) load(id string) (*models.GameState, int64, error) {
	record, exists := rs.store.Get(GameKey(id))
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
