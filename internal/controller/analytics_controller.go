package controller

import (
	"meded_backend/internal/service"
	"meded_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// GetQuizAnalytics godoc
// @Summary 测验统计
// @Description 测验的聚合统计：提交数、完成率、平均分、逐题成功率与跳过率。
// @Description 尚无提交时返回全零的统计
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.QuizAnalyticsResponse} "成功"
// @Router /api/quizzes/{id}/analytics [get]
func (c *AnalyticsController) GetQuizAnalytics(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	analytics, err := c.AnalyticsService.GetQuizAnalytics(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, analytics)
}
