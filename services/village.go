package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/qianlnk/partygames/models"
)

var (
	ErrVillageNotFound  = errors.New("村庄不存在")
	ErrValueOutOfRange  = errors.New("指标数值必须在0到100之间")
	ErrInvalidResource  = errors.New("无效的资源数值")
	ErrEmptyVillageName = errors.New("村庄名称不能为空")
)

// VillageService 村庄模拟服务
type VillageService struct {
	store  Store
	config Config
	now    func() time.Time
}

// NewVillageService 创建村庄模拟服务实例
func NewVillageService(store Store, config Config) *VillageService {
	return &VillageService{
		store:  store,
		config: config,
		now:    time.Now,
	}
}

// CreateVillageRequest 创建村庄请求
type CreateVillageRequest struct {
	CreatorID string `json:"creator_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
}

// Create 创建村庄，各项指标和资源使用初始默认值
func (vs *VillageService) Create(req CreateVillageRequest) (*models.Village, error) {
	if err := ValidateID(req.CreatorID); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, ErrEmptyVillageName
	}

	now := vs.now()
	village := &models.Village{
		ID:         NewID(),
		Name:       req.Name,
		CreatorID:  req.CreatorID,
		Happiness:  50,
		Stability:  50,
		Prosperity: 50,
		Defense:    50,
		Resources: map[models.ResourceType]models.Resource{
			models.ResourceFood:     {Current: 100, Maximum: 200, DailyConsumption: 10},
			models.ResourceWater:    {Current: 100, Maximum: 200, DailyConsumption: 8},
			models.ResourceWood:     {Current: 50, Maximum: 150, DailyConsumption: 5},
			models.ResourceStone:    {Current: 30, Maximum: 100, DailyConsumption: 2},
			models.ResourceMaterial: {Current: 20, Maximum: 100, DailyConsumption: 1},
		},
		Population: models.Population{
			Total:      20,
			Housed:     20,
			Employed:   12,
			Unemployed: 8,
			BirthRate:  2.0,
			DeathRate:  1.0,
		},
		Economy: models.Economy{
			NetProfit: 0,
			Policies:  []models.Policy{},
		},
		Events:    []models.VillageEvent{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := vs.persist(village); err != nil {
		return nil, err
	}
	vs.store.Set(CreatorGamesKey(req.CreatorID, village.ID), []byte(village.ID), vs.config.CreatorIndexTTL)

	log.Printf("村庄创建成功: id=%s name=%s", village.ID, village.Name)
	return village, nil
}

// Get 读取村庄及其派生统计指标
func (vs *VillageService) Get(id string) (*models.Village, *models.DerivedStats, error) {
	if err := ValidateID(id); err != nil {
		return nil, nil, err
	}

	village, _, err := vs.load(id)
	if err != nil {
		return nil, nil, err
	}

	stats := ComputeDerivedStats(village, vs.now())
	return village, &stats, nil
}

// UpdateVillageRequest 村庄部分更新请求。
// 指针字段为 nil 表示保持不变；Resources 中出现的资源整项替换；
// Policies 按ID合并：已有政策未出现时保留，出现时整项替换；
// Events 中的条目追加到历史，历史事件不可修改。
type UpdateVillageRequest struct {
	Name       *string                                 `json:"name,omitempty"`
	Happiness  *int                                    `json:"happiness,omitempty"`
	Stability  *int                                    `json:"stability,omitempty"`
	Prosperity *int                                    `json:"prosperity,omitempty"`
	Defense    *int                                    `json:"defense,omitempty"`
	Resources  map[models.ResourceType]models.Resource `json:"resources,omitempty"`
	Population *models.Population                      `json:"population,omitempty"`
	NetProfit  *float64                                `json:"net_profit,omitempty"`
	Policies   []models.Policy                         `json:"policies,omitempty"`
	Events     []models.VillageEvent                   `json:"events,omitempty"`
}

// Update 按字段合并更新村庄，通过版本号写入保护并发更新，
// 版本冲突时重新加载并重试一次
func (vs *VillageService) Update(id string, req UpdateVillageRequest) (*models.Village, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if err := validateVillageUpdate(req); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		village, version, err := vs.load(id)
		if err != nil {
			return nil, err
		}

		applyVillageUpdate(village, req)
		village.UpdatedAt = vs.now()

		value, err := json.Marshal(village)
		if err != nil {
			return nil, fmt.Errorf("村庄记录序列化失败: %w", err)
		}
		record, err := vs.store.CompareAndSet(VillageKey(id), value, version, vs.config.GameTTL)
		if err == nil {
			village.Version = record.Version
			return village, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
		log.Printf("村庄更新版本冲突，重试: id=%s version=%d", id, version)
	}

	return nil, ErrVersionConflict
}

// Delete 删除村庄。只有创建者可以删除，同时删除创建者索引。
func (vs *VillageService) Delete(id, requesterID string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := ValidateID(requesterID); err != nil {
		return err
	}

	village, _, err := vs.load(id)
	if err != nil {
		return err
	}

	if village.CreatorID != requesterID {
		return ErrNotCreator
	}

	vs.store.Delete(VillageKey(id))
	vs.store.Delete(CreatorGamesKey(village.CreatorID, id))

	log.Printf("村庄已删除: id=%s 操作者=%s", id, requesterID)
	return nil
}

// validateVillageUpdate 校验部分更新请求，任何一项越界则整个请求被拒绝
func validateVillageUpdate(req UpdateVillageRequest) error {
	for _, counter := range []*int{req.Happiness, req.Stability, req.Prosperity, req.Defense} {
		if counter != nil && (*counter < 0 || *counter > 100) {
			return ErrValueOutOfRange
		}
	}
	for resType, res := range req.Resources {
		if res.Current < 0 || res.Maximum < 0 || res.DailyConsumption < 0 || res.Current > res.Maximum {
			return fmt.Errorf("%w: %s", ErrInvalidResource, resType)
		}
	}
	if req.Name != nil && *req.Name == "" {
		return ErrEmptyVillageName
	}
	return nil
}

// applyVillageUpdate 将部分更新合并到村庄状态，未出现的字段保持不变
func applyVillageUpdate(village *models.Village, req UpdateVillageRequest) {
	if req.Name != nil {
		village.Name = *req.Name
	}
	if req.Happiness != nil {
		village.Happiness = *req.Happiness
	}
	if req.Stability != nil {
		village.Stability = *req.Stability
	}
	if req.Prosperity != nil {
		village.Prosperity = *req.Prosperity
	}
	if req.Defense != nil {
		village.Defense = *req.Defense
	}
	for resType, res := range req.Resources {
		village.Resources[resType] = res
	}
	if req.Population != nil {
		village.Population = *req.Population
	}
	if req.NetProfit != nil {
		village.Economy.NetProfit = *req.NetProfit
	}
	if len(req.Policies) > 0 {
		village.Economy.Policies = mergePolicies(village.Economy.Policies, req.Policies)
	}
	if len(req.Events) > 0 {
		village.Events = append(village.Events, req.Events...)
	}
}

// mergePolicies 按政策ID合并：更新中出现的政策整项替换，未出现的保留，新政策追加
func mergePolicies(existing, updates []models.Policy) []models.Policy {
	merged := make([]models.Policy, 0, len(existing)+len(updates))
	replaced := make(map[string]models.Policy, len(updates))
	for _, p := range updates {
		replaced[p.ID] = p
	}

	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p.ID] = true
		if update, ok := replaced[p.ID]; ok {
			merged = append(merged, update)
		} else {
			merged = append(merged, p)
		}
	}
	for _, p := range updates {
		if !seen[p.ID] {
			merged = append(merged, p)
		}
	}
	return merged
}

// load 读取并反序列化村庄主记录
func (vs *VillageService) load(id string) (*models.Village, int64, error) {
	record, exists := vs.store.Get(VillageKey(id))
	if !exists {
		return nil, 0, ErrVillageNotFound
	}

	var village models.Village
	if err := json.Unmarshal(record.Value, &village); err != nil {
		return nil, 0, fmt.Errorf("村庄记录反序列化失败: %w", err)
	}
	village.Version = record.Version
	return &village, record.Version, nil
}

// persist 无条件写入村庄主记录
func (vs *VillageService) persist(village *models.Village) error {
	value, err := json.Marshal(village)
	if err != nil {
		return fmt.Errorf("村庄记录序列化失败: %w", err)
	}
	record := vs.store.Set(VillageKey(village.ID), value, vs.config.GameTTL)
	village.Version = record.Version
	return nil
}
