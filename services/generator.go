package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/qianlnk/partygames/models"
)

var ErrGenerationFailed = errors.New("内容生成失败")

// ContentGenerator 内容生成服务接口，调用方必须准备好生成失败时的预置内容
type ContentGenerator interface {
	// Generate 根据内容类型和上下文生成结构化内容
	Generate(ctx context.Context, contentType string, payload interface{}) (json.RawMessage, error)
}

// HTTPGenerator 通过HTTP调用外部文本生成服务
type HTTPGenerator struct {
	endpoint string
	client   *http.Client
}

// NewHTTPGenerator 创建内容生成客户端实例
func NewHTTPGenerator(endpoint string, timeout time.Duration) *HTTPGenerator {
	return &HTTPGenerator{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	ContentType string      `json:"content_type"`
	Context     interface{} `json:"context"`
}

type generateResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
}

// Generate 调用生成服务，任何传输、状态码或解码错误都返回 ErrGenerationFailed
func (g *HTTPGenerator) Generate(ctx context.Context, contentType string, payload interface{}) (json.RawMessage, error) {
	if g.endpoint == "" {
		return nil, fmt.Errorf("%w: 未配置生成服务地址", ErrGenerationFailed)
	}

	body, err := json.Marshal(generateRequest{ContentType: contentType, Context: payload})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: 生成服务返回状态码 %d", ErrGenerationFailed, resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if !out.Success || len(out.Data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrGenerationFailed, out.Error)
	}

	return out.Data, nil
}

// FallbackScenario 按主题返回预置剧本，生成服务不可用时游戏创建仍能完成
func FallbackScenario(theme models.ScenarioTheme) *models.Scenario {
	switch theme {
	case models.ThemeSpaceship:
		return &models.Scenario{
			Theme: models.ThemeSpaceship,
			Title: "猎户号疑云",
			Story: "深空货船猎户号的导航员在冬眠舱中离奇死亡，而舱门的访问记录被人为抹去。船上七名船员中藏着一个不想让船抵达目的地的人。",
			Locations: map[string]string{
				"bridge":    "驾驶舱，主控台的航线日志停在三天前",
				"cargo_bay": "货舱，一个集装箱的封条被重新贴过",
				"medbay":    "医疗舱，冬眠舱的监控探头被胶带遮住",
			},
			NPCs: map[string]models.NPC{
				"chief_engineer": {
					Name:        "轮机长格雷",
					Type:        "crew",
					Disposition: "neutral",
					Description: "事发当晚声称在检修引擎，但引擎日志没有检修记录",
					IsImportant: true,
					Location:    "cargo_bay",
				},
			},
			OpeningPrompt: "警报声在凌晨三点响起。当你们赶到冬眠舱时，导航员的生命体征已经消失了四个小时。",
		}
	case models.ThemeVillageInn:
		return &models.Scenario{
			Theme: models.ThemeVillageInn,
			Title: "客栈风波",
			Story: "暴雨夜，山间客栈里的行商被发现死在柴房，随身的货箱不翼而飞。被大雨困住的住客里，有人在说谎。",
			Locations: map[string]string{
				"lobby":     "大堂，账本上有一页被撕去",
				"woodshed":  "柴房，泥地上有两种不同的脚印",
				"guestroom": "客房，窗栓从里面被打开过",
			},
			NPCs: map[string]models.NPC{
				"innkeeper": {
					Name:        "掌柜老周",
					Type:        "villager",
					Disposition: "friendly",
					Description: "对每位住客的来历都了如指掌，却对行商的身份讳莫如深",
					IsImportant: true,
					Location:    "lobby",
				},
			},
			OpeningPrompt: "雨越下越大，下山的路已经被冲断。掌柜的点起油灯，请各位住客到大堂说清楚昨夜的行踪。",
		}
	default:
		// 未知主题回落到庄园剧本
		return &models.Scenario{
			Theme: models.ThemeManor,
			Title: "庄园谜案",
			Story: "老庄园主在宣读遗嘱的前夜死在书房，书房的门从里面反锁。受邀前来的每位继承人都有不在场证明，但至少有一份是假的。",
			Locations: map[string]string{
				"study":   "书房，壁炉里有烧剩的信纸残角",
				"garden":  "花园，雨后的花坛里有半个鞋印",
				"library": "藏书室，一格书架后藏着暗门",
			},
			NPCs: map[string]models.NPC{
				"butler": {
					Name:        "管家威尔逊",
					Type:        "servant",
					Disposition: "neutral",
					Description: "在庄园服务了三十年，是最后见到庄园主的人",
					IsImportant: true,
					Location:    "study",
				},
			},
			OpeningPrompt: "晚餐的钟声没有像往常一样响起。管家推开书房门时，老庄园主伏在遗嘱上，已经没有了呼吸。",
		}
	}
}

// FallbackWorld 按主题返回预置世界，生成服务不可用时RPG创建仍能完成
func FallbackWorld(theme models.WorldTheme) *models.World {
	switch theme {
	case models.WorldWasteland:
		return &models.World{
			Theme:       models.WorldWasteland,
			Name:        "灰烬平原",
			Description: "大崩塌后的第七十年，幸存者聚落散布在辐射尘覆盖的平原上，靠旧时代的遗物交换水和弹药。",
			Regions: []models.Region{
				{Name: "铁锈镇", Description: "以废弃炼钢厂为中心的交易聚落", Danger: 2},
				{Name: "玻璃荒漠", Description: "核爆熔融后的沙地，夜晚会发出微光", Danger: 4},
				{Name: "地铁深层", Description: "战前地铁网络，深处盘踞着变异生物", Danger: 5},
			},
			Hooks: []string{
				"铁锈镇的水净化器坏了，镇长悬赏寻找旧时代的滤芯",
				"有商队声称在玻璃荒漠中央看到了完好无损的高塔",
			},
		}
	case models.WorldSea:
		return &models.World{
			Theme:       models.WorldSea,
			Name:        "碎星群岛",
			Description: "上千座岛屿散布在永不平静的碧海上，海图的空白处标注着同一句话：此处有龙。",
			Regions: []models.Region{
				{Name: "自由港", Description: "不问来历的走私者之城", Danger: 2},
				{Name: "风暴海峡", Description: "常年被雷暴笼罩的必经航道", Danger: 4},
				{Name: "沉没王廷", Description: "传说中整座沉入海底的古代都城", Danger: 5},
			},
			Hooks: []string{
				"自由港的酒馆里流传着一张残缺的藏宝图",
				"一艘幽灵船每逢月圆便出现在风暴海峡入口",
			},
		}
	default:
		// 未知主题回落到奇幻世界
		return &models.World{
			Theme:       models.WorldFantasy,
			Name:        "埃兰提亚",
			Description: "古龙沉睡的大陆，五座王国共享着一条贯穿南北的魔潮河。近来河水开始倒流，旧神殿的封印出现了裂痕。",
			Regions: []models.Region{
				{Name: "白星城", Description: "建在瀑布之上的王都", Danger: 1},
				{Name: "低语森林", Description: "树木会复述旅人秘密的古老林地", Danger: 3},
				{Name: "裂隙山脉", Description: "封印旧神的山脉，矿道中回荡着敲击声", Danger: 5},
			},
			Hooks: []string{
				"白星城的占星师重金招募敢于进入低语森林的冒险者",
				"裂隙山脉的矿工集体失踪，只留下整齐摆放的工具",
			},
		}
	}
}
