package services

import (
	"math"
	"time"

	"github.com/qianlnk/partygames/models"
)

// 资源警报阈值
const (
	shortageThreshold = 0.10 // 低于该利用率触发短缺警报
	criticalThreshold = 0.05 // 低于该利用率短缺升级为危急
	surplusThreshold  = 0.95 // 高于该利用率触发过剩警报
)

// suggestedActions 各资源类型的建议应对措施
var suggestedActions = map[models.ResourceType][]string{
	models.ResourceFood:     {"增派农田劳力", "向邻近村庄采购粮食", "降低每日口粮配给"},
	models.ResourceWater:    {"修缮水井和引水渠", "启用雨水收集", "限制非必要用水"},
	models.ResourceWood:     {"扩大伐木队规模", "暂停木结构建造", "改用石料替代"},
	models.ResourceStone:    {"增开采石场", "回收废弃建筑石料", "推迟城墙扩建"},
	models.ResourceMaterial: {"加开工坊班次", "进口建材", "暂停非必要工程"},
}

// ComputeDerivedStats 计算村庄派生统计指标，纯函数，不修改传入的村庄状态
func ComputeDerivedStats(v *models.Village, now time.Time) models.DerivedStats {
	stats := models.DerivedStats{
		PopulationGrowthRate: v.Population.BirthRate - v.Population.DeathRate,
		EconomicTrend:        economicTrend(v.Economy.NetProfit),
		OverallHealth:        (v.Happiness + v.Stability + v.Prosperity + v.Defense) / 4,
		Alerts:               ComputeResourceAlerts(v),
	}

	var usedCapacity, totalCapacity float64
	for _, res := range v.Resources {
		usedCapacity += res.Current
		totalCapacity += res.Maximum
	}
	if totalCapacity > 0 {
		stats.ResourceEfficiency = int(math.Floor(usedCapacity / totalCapacity * 100))
	}

	if v.Population.Total > 0 {
		stats.HousingCoverage = int(math.Floor(float64(v.Population.Housed) / float64(v.Population.Total) * 100))
	}

	// 就业人口为零时就业率按0处理，不允许除零
	workforce := v.Population.Employed + v.Population.Unemployed
	if workforce > 0 {
		stats.EmploymentRate = int(math.Floor(float64(v.Population.Employed) / float64(workforce) * 100))
	}

	for _, event := range v.Events {
		if event.Severity == models.SeverityMajor || event.Severity == models.SeverityCatastrophic {
			stats.ActiveIssuesCount++
		}
	}

	if len(v.Events) > 0 {
		last := v.Events[len(v.Events)-1]
		days := int(math.Floor(now.Sub(last.Date).Hours() / 24))
		if days > 0 {
			stats.DaysSinceLastMajorEvent = days
		}
	}

	return stats
}

// economicTrend 根据净利润判断经济趋势
func economicTrend(netProfit float64) models.EconomicTrend {
	switch {
	case netProfit > 0:
		return models.TrendPositive
	case netProfit < 0:
		return models.TrendNegative
	default:
		return models.TrendStable
	}
}

// ComputeResourceAlerts 计算资源警报，最大容量为零的资源利用率无定义，跳过
func ComputeResourceAlerts(v *models.Village) []models.ResourceAlert {
	alerts := make([]models.ResourceAlert, 0)

	for _, resType := range []models.ResourceType{
		models.ResourceFood,
		models.ResourceWater,
		models.ResourceWood,
		models.ResourceStone,
		models.ResourceMaterial,
	} {
		res, exists := v.Resources[resType]
		if !exists || res.Maximum <= 0 {
			continue
		}

		utilization := res.Current / res.Maximum
		switch {
		case utilization < shortageThreshold:
			severity := models.AlertHigh
			if utilization < criticalThreshold {
				severity = models.AlertCritical
			}
			alerts = append(alerts, models.ResourceAlert{
				Resource:         resType,
				Kind:             models.AlertShortage,
				Severity:         severity,
				Utilization:      utilization,
				DaysToDepletion:  daysToDepletion(res),
				SuggestedActions: suggestedActions[resType],
			})
		case utilization > surplusThreshold:
			alerts = append(alerts, models.ResourceAlert{
				Resource:         resType,
				Kind:             models.AlertSurplus,
				Severity:         models.AlertMedium,
				Utilization:      utilization,
				DaysToDepletion:  -1, // 过剩警报没有耗尽时间
				SuggestedActions: suggestedActions[resType],
			})
		}
	}

	return alerts
}

// daysToDepletion 按当前日消耗量估算耗尽天数，日消耗量小于1时按1计算
func daysToDepletion(res models.Resource) int {
	consumption := res.DailyConsumption
	if consumption < 1 {
		consumption = 1
	}
	return int(math.Floor(res.Current / consumption))
}
