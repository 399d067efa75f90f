package controller

import (
	"errors"

	"meded_backend/internal/service"
	"meded_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// RecordActivity godoc
// @Summary 记录学习活动
// @Description 上报一次闪卡或测验活动，返回经验值、连击与新解锁的成就
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ActivityRequest true "活动事件"
// @Success 200 {object} util.Response{data=service.ActivityResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/activity [post]
func (c *ProgressController) RecordActivity(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.ActivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressService.RecordActivity(claims.UserID, req)
	if errors.Is(err, util.ErrUnknownActivityType) {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// GetProgress godoc
// @Summary 获取学习进度
// @Description 当前用户的完整进度（经验值、等级、连击、每日目标、成就列表）
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.UserProgress} "成功"
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.ProgressService.GetProgress(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// swagger:model DailyGoalRequest
type DailyGoalRequest struct {
	DailyGoal int `json:"dailyGoal" binding:"required,min=1"`
}

// UpdateDailyGoal godoc
// @Summary 设置每日目标
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body DailyGoalRequest true "每日目标（张/天）"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "目标必须大于 0"
// @Router /api/progress/daily-goal [put]
func (c *ProgressController) UpdateDailyGoal(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req DailyGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.UpdateDailyGoal(claims.UserID, req.DailyGoal); err != nil {
		if errors.Is(err, util.ErrInvalidDailyGoal) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"dailyGoal": req.DailyGoal})
}
