package controller

import (
	"errors"

	"meded_backend/internal/service"
	"meded_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FlashcardController struct {
	FlashcardService *service.FlashcardService
}

func NewFlashcardController(flashcardService *service.FlashcardService) *FlashcardController {
	return &FlashcardController{FlashcardService: flashcardService}
}

// CreateDeck godoc
// @Summary 创建卡组
// @Tags 闪卡
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.DeckRequest true "卡组信息"
// @Success 201 {object} util.Response{data=model.Deck} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/decks [post]
func (c *FlashcardController) CreateDeck(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.DeckRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	deck, err := c.FlashcardService.CreateDeck(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, deck)
}

// ListDecks godoc
// @Summary 卡组列表
// @Tags 闪卡
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Param   category query string false "分类"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/decks [get]
func (c *FlashcardController) ListDecks(ctx *gin.Context) {
	page, limit := pagination(ctx)
	category := ctx.Query("category")

	decks, total, err := c.FlashcardService.ListDecks(page, limit, category)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  decks,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetDeck godoc
// @Summary 卡组详情
// @Description 获取卡组及其全部闪卡，按排序字段升序
// @Tags 闪卡
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "卡组ID"
// @Success 200 {object} util.Response{data=model.Deck} "成功"
// @Failure 404 {object} util.Response "卡组不存在"
// @Router /api/decks/{id} [get]
func (c *FlashcardController) GetDeck(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	deck, err := c.FlashcardService.GetDeck(id)
	if errors.Is(err, util.ErrDeckNotFound) {
		util.NotFound(ctx)
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, deck)
}

// AddCard godoc
// @Summary 向卡组添加闪卡
// @Tags 闪卡
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "卡组ID"
// @Param   body body service.FlashcardRequest true "闪卡内容"
// @Success 201 {object} util.Response{data=model.Flashcard} "创建成功"
// @Failure 404 {object} util.Response "卡组不存在"
// @Router /api/decks/{id}/cards [post]
func (c *FlashcardController) AddCard(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	var req service.FlashcardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	card, err := c.FlashcardService.AddCard(id, req)
	if errors.Is(err, util.ErrDeckNotFound) {
		util.NotFound(ctx)
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, card)
}

// ReviewCard godoc
// @Summary 记录闪卡复习
// @Description 记录一次复习结果并返回进度更新（经验值、连击、新成就）
// @Tags 闪卡
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "闪卡ID"
// @Param   body body service.ReviewRequest true "复习结果"
// @Success 200 {object} util.Response{data=service.ActivityResult} "成功"
// @Failure 404 {object} util.Response "闪卡不存在"
// @Router /api/flashcards/{id}/review [post]
func (c *FlashcardController) ReviewCard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))

	var req service.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.FlashcardService.ReviewCard(claims.UserID, id, req)
	if errors.Is(err, util.ErrCardNotFound) {
		util.NotFound(ctx)
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, result)
}
