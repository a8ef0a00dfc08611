package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qianlnk/partygames/services"
)

// 错误码，响应中的机器可读标识
const (
	codeValidationError = "VALIDATION_ERROR"
	codeNotFound        = "NOT_FOUND"
	codeForbidden       = "FORBIDDEN"
	codeBusinessRule    = "BUSINESS_RULE_VIOLATION"
	codeConflict        = "CONFLICT"
	codeInternalError   = "INTERNAL_ERROR"
)

// respondError 将服务层错误翻译为HTTP状态码和结构化错误响应。
// 未识别的错误按内部错误处理，记录日志但不向调用方泄露细节。
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidID),
		errors.Is(err, services.ErrInvalidTheme),
		errors.Is(err, services.ErrInvalidWorldTheme),
		errors.Is(err, services.ErrValueOutOfRange),
		errors.Is(err, services.ErrInvalidResource),
		errors.Is(err, services.ErrEmptyVillageName):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "code": codeValidationError})

	case errors.Is(err, services.ErrInvalidPlayerBounds),
		errors.Is(err, services.ErrGameFull),
		errors.Is(err, services.ErrPlayerAlreadyJoined),
		errors.Is(err, services.ErrGameInProgress),
		errors.Is(err, services.ErrGameAlreadyActive),
		errors.Is(err, services.ErrNotEnoughPlayers):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "code": codeBusinessRule})

	case errors.Is(err, services.ErrVersionConflict):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "code": codeConflict})

	case errors.Is(err, services.ErrGameNotFound),
		errors.Is(err, services.ErrVillageNotFound),
		errors.Is(err, services.ErrJoinCodeNotFound),
		errors.Is(err, services.ErrKeyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error(), "code": codeNotFound})

	case errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrNotCreator):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "error": err.Error(), "code": codeForbidden})

	default:
		log.Printf("未预期的内部错误: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "内部错误", "code": codeInternalError})
	}
}

// createDeductionGame 创建推理游戏
func createDeductionGame(c *gin.Context) {
	var req services.CreateDeductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "code": codeValidationError})
		return
	}

	game, err := deductionService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "game": game, "join_code": game.JoinCode})
}

// getDeductionGame 读取推理游戏。
// 带 player_id 参数时返回该玩家视角的视图，否则返回旁观者视图；
// include_secrets=true 时玩家可以看到其他玩家已结算的夜晚行动。
func getDeductionGame(c *gin.Context) {
	id := c.Param("id")
	viewerID := c.Query("player_id")
	includeSecrets := c.Query("include_secrets") == "true"

	game, err := deductionService.Get(id, viewerID, includeSecrets)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "game": game})
}

// joinDeductionGame 通过邀请码加入推理游戏
func joinDeductionGame(c *gin.Context) {
	var req struct {
		Code     string `json:"code" binding:"required"`
		PlayerID string `json:"player_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "code": codeValidationError})
		return
	}

	game, err := deductionService.Join(req.Code, req.PlayerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "game": game})
}

// deleteDeductionGame 删除推理游戏，requester_id 必须是创建者
func deleteDeductionGame(c *gin.Context) {
	id := c.Param("id")
	requesterID := c.Query("requester_id")

	if err := deductionService.Delete(id, requesterID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "游戏已删除"})
}

// createRPGGame 创建RPG游戏
func createRPGGame(c *gin.Context) {
	var req services.CreateRPGRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "code": codeValidationError})
		return
	}

	game, err := rpgService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "game": game, "join_code": game.JoinCode})
}

// getRPGGame 读取RPG游戏
func getRPGGame(c *gin.Context) {
	game, err := rpgService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "game": game})
}

// startRPGGame 开始RPG游戏，游戏ID在请求体中
func startRPGGame(c *gin.Context) {
	var req struct {
		GameID      string `json:"game_id" binding:"required"`
		RequesterID string `json:"requester_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "code": codeValidationError})
		return
	}

	game, err := rpgService.Start(req.GameID, req.RequesterID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "game": game})
}

// deleteRPGGame 删除RPG游戏，requester_id 必须是创建者
func deleteRPGGame(c *gin.Context) {
	if err := rpgService.Delete(c.Param("id"), c.Query("requester_id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "游戏已删除"})
}

// createVillage 创建村庄
func createVillage(c *gin.Context) {
	var req services.CreateVillageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "code": codeValidationError})
		return
	}

	village, err := villageService.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "village": village})
}

// getVillage 读取村庄及派生统计指标
func getVillage(c *gin.Context) {
	village, stats, err := villageService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "village": village, "stats": stats})
}

// updateVillage 部分更新村庄
func updateVillage(c *gin.Context) {
	var req services.UpdateVillageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "code": codeValidationError})
		return
	}

	village, err := villageService.Update(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "village": village})
}

// deleteVillage 删除村庄，requester_id 必须是创建者
func deleteVillage(c *gin.Context) {
	if err := villageService.Delete(c.Param("id"), c.Query("requester_id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "村庄已删除"})
}
