package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/qianlnk/partygames/models"
)

func TestHTTPGeneratorSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("请求体解析失败: %v", err)
		}
		if req.ContentType != "deduction_scenario" {
			t.Fatalf("内容类型不符: %s", req.ContentType)
		}
		json.NewEncoder(w).Encode(generateResponse{
			Success: true,
			Data:    json.RawMessage(`{"title":"生成的剧本"}`),
		})
	}))
	defer server.Close()

	generator := NewHTTPGenerator(server.URL, 5*time.Second)
	raw, err := generator.Generate(context.Background(), "deduction_scenario", map[string]interface{}{"theme": "manor"})
	if err != nil {
		t.Fatalf("生成失败: %v", err)
	}
	if string(raw) != `{"title":"生成的剧本"}` {
		t.Fatalf("生成内容不符: %s", raw)
	}
}

func TestHTTPGeneratorFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "服务端错误",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "业务失败",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(generateResponse{Success: false, Error: "模型过载"})
			},
		},
		{
			name: "响应不是JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("<html>bad gateway</html>"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			generator := NewHTTPGenerator(server.URL, 5*time.Second)
			_, err := generator.Generate(context.Background(), "rpg_world", nil)
			if !errors.Is(err, ErrGenerationFailed) {
				t.Fatalf("期望 ErrGenerationFailed，实际为 %v", err)
			}
		})
	}
}

func TestHTTPGeneratorNoEndpoint(t *testing.T) {
	generator := NewHTTPGenerator("", time.Second)

	_, err := generator.Generate(context.Background(), "deduction_scenario", nil)
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("未配置地址时应返回 ErrGenerationFailed，实际为 %v", err)
	}
}

// 每个主题的预置内容都必须结构完整，生成失败时创建流程依赖它们兜底
func TestFallbackScenarioComplete(t *testing.T) {
	themes := []models.ScenarioTheme{
		models.ThemeManor,
		models.ThemeSpaceship,
		models.ThemeVillageInn,
		"unknown",
	}

	for _, theme := range themes {
		scenario := FallbackScenario(theme)
		if scenario == nil {
			t.Fatalf("主题 %s 没有预置剧本", theme)
		}
		if scenario.Title == "" || scenario.Story == "" || scenario.OpeningPrompt == "" {
			t.Fatalf("主题 %s 的预置剧本不完整: %+v", theme, scenario)
		}
		if len(scenario.Locations) == 0 {
			t.Fatalf("主题 %s 的预置剧本缺少场景", theme)
		}
	}
}

func TestFallbackWorldComplete(t *testing.T) {
	themes := []models.WorldTheme{
		models.WorldFantasy,
		models.WorldWasteland,
		models.WorldSea,
		"unknown",
	}

	for _, theme := range themes {
		world := FallbackWorld(theme)
		if world == nil {
			t.Fatalf("主题 %s 没有预置世界", theme)
		}
		if world.Name == "" || world.Description == "" {
			t.Fatalf("主题 %s 的预置世界不完整: %+v", theme, world)
		}
		if len(world.Regions) == 0 || len(world.Hooks) == 0 {
			t.Fatalf("主题 %s 的预置世界缺少区域或冒险线索", theme)
		}
	}
}
