package services

import (
	"testing"
	"time"

	"github.com/qianlnk/partygames/models"
)

func villageFixture() *models.Village {
	return &models.Village{
		ID:         "v1",
		Name:       "溪谷村",
		Happiness:  60,
		Stability:  70,
		Prosperity: 50,
		Defense:    40,
		Resources: map[models.ResourceType]models.Resource{
			models.ResourceFood:  {Current: 100, Maximum: 200, DailyConsumption: 10},
			models.ResourceWater: {Current: 100, Maximum: 200, DailyConsumption: 8},
		},
		Population: models.Population{
			Total:      100,
			Housed:     80,
			Employed:   60,
			Unemployed: 20,
			BirthRate:  3.0,
			DeathRate:  1.5,
		},
		Economy: models.Economy{NetProfit: 120},
	}
}

func TestComputeDerivedStats(t *testing.T) {
	v := villageFixture()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	stats := ComputeDerivedStats(v, now)

	if stats.ResourceEfficiency != 50 {
		t.Fatalf("资源利用率应为50，实际为 %d", stats.ResourceEfficiency)
	}
	if stats.PopulationGrowthRate != 1.5 {
		t.Fatalf("人口增长率应为1.5，实际为 %f", stats.PopulationGrowthRate)
	}
	if stats.EconomicTrend != models.TrendPositive {
		t.Fatalf("净利润为正时经济趋势应为 positive，实际为 %s", stats.EconomicTrend)
	}
	if stats.HousingCoverage != 80 {
		t.Fatalf("住房覆盖率应为80，实际为 %d", stats.HousingCoverage)
	}
	if stats.EmploymentRate != 75 {
		t.Fatalf("就业率应为75，实际为 %d", stats.EmploymentRate)
	}
	if stats.OverallHealth != 55 {
		t.Fatalf("综合健康度应为55，实际为 %d", stats.OverallHealth)
	}
	if stats.DaysSinceLastMajorEvent != 0 {
		t.Fatalf("无历史事件时天数应为0，实际为 %d", stats.DaysSinceLastMajorEvent)
	}
}

func TestEconomicTrend(t *testing.T) {
	tests := []struct {
		name      string
		netProfit float64
		want      models.EconomicTrend
	}{
		{name: "盈利", netProfit: 10, want: models.TrendPositive},
		{name: "亏损", netProfit: -10, want: models.TrendNegative},
		{name: "收支平衡", netProfit: 0, want: models.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := villageFixture()
			v.Economy.NetProfit = tt.netProfit
			stats := ComputeDerivedStats(v, time.Now())
			if stats.EconomicTrend != tt.want {
				t.Fatalf("期望 %s，实际为 %s", tt.want, stats.EconomicTrend)
			}
		})
	}
}

// 就业人口和失业人口都为零时就业率必须按0处理而不是除零
func TestEmploymentRateZeroWorkforce(t *testing.T) {
	v := villageFixture()
	v.Population.Employed = 0
	v.Population.Unemployed = 0

	stats := ComputeDerivedStats(v, time.Now())
	if stats.EmploymentRate != 0 {
		t.Fatalf("无劳动人口时就业率应为0，实际为 %d", stats.EmploymentRate)
	}
}

func TestDerivedStatsRanges(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Village)
	}{
		{name: "默认", mutate: func(v *models.Village) {}},
		{name: "满仓", mutate: func(v *models.Village) {
			v.Resources[models.ResourceFood] = models.Resource{Current: 200, Maximum: 200, DailyConsumption: 1}
		}},
		{name: "全员就业", mutate: func(v *models.Village) {
			v.Population.Unemployed = 0
		}},
		{name: "指标极值", mutate: func(v *models.Village) {
			v.Happiness, v.Stability, v.Prosperity, v.Defense = 100, 100, 100, 100
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := villageFixture()
			tt.mutate(v)
			stats := ComputeDerivedStats(v, time.Now())

			for name, value := range map[string]int{
				"资源利用率": stats.ResourceEfficiency,
				"住房覆盖率": stats.HousingCoverage,
				"就业率":   stats.EmploymentRate,
				"综合健康度": stats.OverallHealth,
			} {
				if value < 0 || value > 100 {
					t.Fatalf("%s 越界: %d", name, value)
				}
			}
		})
	}
}

func TestActiveIssuesCount(t *testing.T) {
	v := villageFixture()
	v.Events = []models.VillageEvent{
		{Severity: models.SeverityMinor, Description: "小雨"},
		{Severity: models.SeverityMajor, Description: "粮仓失火"},
		{Severity: models.SeverityCatastrophic, Description: "瘟疫爆发"},
		{Severity: models.SeverityModerate, Description: "商路中断"},
	}

	stats := ComputeDerivedStats(v, time.Now())
	if stats.ActiveIssuesCount != 2 {
		t.Fatalf("重大事件计数应为2，实际为 %d", stats.ActiveIssuesCount)
	}
}

func TestDaysSinceLastMajorEvent(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	v := villageFixture()
	v.Events = []models.VillageEvent{
		{Severity: models.SeverityMajor, Description: "旱灾", Date: now.AddDate(0, 0, -10)},
		{Severity: models.SeverityMinor, Description: "集市开张", Date: now.AddDate(0, 0, -3)},
	}

	stats := ComputeDerivedStats(v, now)
	if stats.DaysSinceLastMajorEvent != 3 {
		t.Fatalf("距最近事件天数应为3，实际为 %d", stats.DaysSinceLastMajorEvent)
	}
}

// 水源 4/100，日消耗2：利用率0.04低于0.05，应产生危急短缺警报，预计2天耗尽
func TestResourceAlertCriticalShortage(t *testing.T) {
	v := villageFixture()
	v.Resources = map[models.ResourceType]models.Resource{
		models.ResourceWater: {Current: 4, Maximum: 100, DailyConsumption: 2},
	}

	alerts := ComputeResourceAlerts(v)
	if len(alerts) != 1 {
		t.Fatalf("应产生1条警报，实际为 %d", len(alerts))
	}

	alert := alerts[0]
	if alert.Resource != models.ResourceWater || alert.Kind != models.AlertShortage {
		t.Fatalf("警报资源类型不符: %+v", alert)
	}
	if alert.Severity != models.AlertCritical {
		t.Fatalf("利用率0.04应为危急警报，实际为 %s", alert.Severity)
	}
	if alert.DaysToDepletion != 2 {
		t.Fatalf("预计耗尽天数应为2，实际为 %d", alert.DaysToDepletion)
	}
	if len(alert.SuggestedActions) == 0 {
		t.Fatal("警报必须携带建议措施")
	}
}

func TestResourceAlertSeverityBoundary(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		want     models.AlertSeverity
	}{
		{name: "危急", current: 4, want: models.AlertCritical},
		{name: "严重", current: 8, want: models.AlertHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := villageFixture()
			v.Resources = map[models.ResourceType]models.Resource{
				models.ResourceFood: {Current: tt.current, Maximum: 100, DailyConsumption: 1},
			}

			alerts := ComputeResourceAlerts(v)
			if len(alerts) != 1 || alerts[0].Severity != tt.want {
				t.Fatalf("期望严重程度 %s，实际 %+v", tt.want, alerts)
			}
		})
	}
}

func TestResourceAlertSurplus(t *testing.T) {
	v := villageFixture()
	v.Resources = map[models.ResourceType]models.Resource{
		models.ResourceWood: {Current: 98, Maximum: 100, DailyConsumption: 1},
	}

	alerts := ComputeResourceAlerts(v)
	if len(alerts) != 1 {
		t.Fatalf("应产生1条警报，实际为 %d", len(alerts))
	}
	if alerts[0].Kind != models.AlertSurplus || alerts[0].Severity != models.AlertMedium {
		t.Fatalf("利用率0.98应为中等过剩警报: %+v", alerts[0])
	}
	if alerts[0].DaysToDepletion != -1 {
		t.Fatalf("过剩警报的耗尽天数应为-1，实际为 %d", alerts[0].DaysToDepletion)
	}
}

// 最大容量为零的资源利用率无定义，不应产生警报
func TestResourceAlertSkipsZeroMaximum(t *testing.T) {
	v := villageFixture()
	v.Resources = map[models.ResourceType]models.Resource{
		models.ResourceStone: {Current: 0, Maximum: 0, DailyConsumption: 0},
	}

	if alerts := ComputeResourceAlerts(v); len(alerts) != 0 {
		t.Fatalf("零容量资源不应产生警报: %+v", alerts)
	}
}

// 健康区间内的资源不产生警报
func TestResourceAlertHealthyRange(t *testing.T) {
	v := villageFixture()

	if alerts := ComputeResourceAlerts(v); len(alerts) != 0 {
		t.Fatalf("利用率0.5不应产生警报: %+v", alerts)
	}
}
