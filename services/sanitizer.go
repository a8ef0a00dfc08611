package services

import (
	"errors"

	"github.com/qianlnk/partygames/models"
)

var ErrNotParticipant = errors.New("玩家不是当前游戏的存活参与者")

// SanitizeForViewer 生成指定玩家视角的游戏状态视图。
// 只有存活玩家可以获取玩家视角；includeSecrets 控制其他玩家已结算
// 夜晚行动的可见性：自己的行动始终可见，他人行动仅在
// includeSecrets 为真且行动已结算时可见。
// 返回的视图不与原状态共享任何列表，调用方可以安全修改。
func SanitizeForViewer(state *models.GameState, viewerID string, includeSecrets bool) (*models.GameState, error) {
	if state.Deduction == nil {
		// 非推理游戏没有按玩家过滤的隐藏信息，直接返回副本
		view := *state
		return &view, nil
	}

	if !contains(state.Deduction.AlivePlayers, viewerID) {
		return nil, ErrNotParticipant
	}

	view := *state
	data := cloneDeductionShell(state.Deduction)

	for _, event := range state.Deduction.Events {
		if event.IsPublic || contains(event.AffectedPlayers, viewerID) {
			data.Events = append(data.Events, event)
		}
	}
	for _, clue := range state.Deduction.CluesAvailable {
		if clue.IsRevealed || contains(clue.AffectedPlayers, viewerID) {
			data.CluesAvailable = append(data.CluesAvailable, clue)
		}
	}
	for _, action := range state.Deduction.NightActions {
		if action.ActorID == viewerID {
			data.NightActions = append(data.NightActions, action)
			continue
		}
		if includeSecrets && action.IsResolved {
			data.NightActions = append(data.NightActions, action)
		}
	}

	view.Deduction = data
	return &view, nil
}

// SanitizeForPublic 生成旁观者视角的游戏状态视图，
// 只保留公开事件和已公开的线索，夜晚行动始终为空。
// 对已净化的公开视图再次净化得到相同结果。
func SanitizeForPublic(state *models.GameState) *models.GameState {
	view := *state
	if state.Deduction == nil {
		return &view
	}

	data := cloneDeductionShell(state.Deduction)

	for _, event := range state.Deduction.Events {
		if event.IsPublic {
			data.Events = append(data.Events, event)
		}
	}
	for _, clue := range state.Deduction.CluesAvailable {
		if clue.IsRevealed {
			data.CluesAvailable = append(data.CluesAvailable, clue)
		}
	}

	view.Deduction = data
	return &view
}

// cloneDeductionShell 复制推理数据的非过滤字段，过滤列表重新分配，
// 保证视图不与存储中的原状态共享底层数组
func cloneDeductionShell(src *models.DeductionData) *models.DeductionData {
	data := &models.DeductionData{
		Round:             src.Round,
		AlivePlayers:      append([]string(nil), src.AlivePlayers...),
		EliminatedPlayers: append([]string(nil), src.EliminatedPlayers...),
		Events:            make([]models.Event, 0, len(src.Events)),
		CluesAvailable:    make([]models.Clue, 0, len(src.CluesAvailable)),
		NightActions:      make([]models.NightAction, 0),
		Scenario:          src.Scenario,
	}
	if src.Votes != nil {
		data.Votes = make(map[string]int, len(src.Votes))
		for target, count := range src.Votes {
			data.Votes[target] = count
		}
	}
	return data
}

// contains 判断玩家是否在列表中
func contains(players []string, playerID string) bool {
	if playerID == "" {
		return false
	}
	for _, p := range players {
		if p == playerID {
			return true
		}
	}
	return false
}
