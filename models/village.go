package models

import "time"

// ResourceType 村庄资源类型
type ResourceType string

const (
	ResourceFood     ResourceType = "food"     // 食物
	ResourceWater    ResourceType = "water"    // 水源
	ResourceWood     ResourceType = "wood"     // 木材
	ResourceStone    ResourceType = "stone"    // 石料
	ResourceMaterial ResourceType = "material" // 建材
)

// EventSeverity 村庄事件严重程度
type EventSeverity string

const (
	SeverityMinor        EventSeverity = "minor"        // 轻微
	SeverityModerate     EventSeverity = "moderate"     // 中等
	SeverityMajor        EventSeverity = "major"        // 重大
	SeverityCatastrophic EventSeverity = "catastrophic" // 灾难性
)

// Resource 单项资源库存
type Resource struct {
	Current          float64 `json:"current"`
	Maximum          float64 `json:"maximum"`
	DailyConsumption float64 `json:"daily_consumption"`
}

// Population 人口构成
type Population struct {
	Total      int     `json:"total"`
	Housed     int     `json:"housed"`
	Employed   int     `json:"employed"`
	Unemployed int     `json:"unemployed"`
	BirthRate  float64 `json:"birth_rate"`
	DeathRate  float64 `json:"death_rate"`
}

// Policy 经济政策
type Policy struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Effect string `json:"effect"`
}

// Economy 村庄经济状况
type Economy struct {
	NetProfit float64  `json:"net_profit"`
	Policies  []Policy `json:"policies"`
}

// VillageEvent 村庄历史事件
type VillageEvent struct {
	Severity    EventSeverity `json:"severity"`
	Description string        `json:"description"`
	Date        time.Time     `json:"date"`
}

// Village 村庄状态，以 village:<id> 为键持久化
type Village struct {
	ID         string                    `json:"id"`
	Name       string                    `json:"name"`
	CreatorID  string                    `json:"creator_id"`
	Happiness  int                       `json:"happiness"`  // 0-100
	Stability  int                       `json:"stability"`  // 0-100
	Prosperity int                       `json:"prosperity"` // 0-100
	Defense    int                       `json:"defense"`    // 0-100
	Resources  map[ResourceType]Resource `json:"resources"`
	Population Population                `json:"population"`
	Economy    Economy                   `json:"economy"`
	Events     []VillageEvent            `json:"events"`
	CreatedAt  time.Time                 `json:"created_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
	Version    int64                     `json:"version"` // 乐观并发控制版本号
}

// EconomicTrend 经济趋势
type EconomicTrend string

const (
	TrendPositive EconomicTrend = "positive" // 盈利
	TrendNegative EconomicTrend = "negative" // 亏损
	TrendStable   EconomicTrend = "stable"   // 收支平衡
)

// AlertSeverity 资源警报严重程度
type AlertSeverity string

const (
	AlertCritical AlertSeverity = "critical" // 危急
	AlertHigh     AlertSeverity = "high"     // 严重
	AlertMedium   AlertSeverity = "medium"   // 中等
)

// AlertKind 资源警报种类
type AlertKind string

const (
	AlertShortage AlertKind = "shortage" // 资源短缺
	AlertSurplus  AlertKind = "surplus"  // 资源过剩
)

// ResourceAlert 资源警报
type ResourceAlert struct {
	Resource         ResourceType  `json:"resource"`
	Kind             AlertKind     `json:"kind"`
	Severity         AlertSeverity `json:"severity"`
	Utilization      float64       `json:"utilization"`
	DaysToDepletion  int           `json:"days_to_depletion"` // 过剩警报为 -1
	SuggestedActions []string      `json:"suggested_actions"`
}

// DerivedStats 村庄派生统计指标，只读，不回写存储
type DerivedStats struct {
	ResourceEfficiency      int             `json:"resource_efficiency"` // 0-100
	PopulationGrowthRate    float64         `json:"population_growth_rate"`
	EconomicTrend           EconomicTrend   `json:"economic_trend"`
	HousingCoverage         int             `json:"housing_coverage"` // 0-100
	EmploymentRate          int             `json:"employment_rate"`  // 0-100
	OverallHealth           int             `json:"overall_health"`   // 0-100
	ActiveIssuesCount       int             `json:"active_issues_count"`
	DaysSinceLastMajorEvent int             `json:"days_since_last_major_event"`
	Alerts                  []ResourceAlert `json:"alerts"`
}
