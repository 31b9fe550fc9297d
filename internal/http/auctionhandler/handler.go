package auctionhandler

import (
	"errors"
	"net/http"
	"strconv"

	"auctionhousego/internal/http/middleware"
	"auctionhousego/internal/models"
	"auctionhousego/internal/services/account"
	"auctionhousego/internal/services/auction"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc      auction.IAuctionService
	accounts account.IAccountService
}

func New(svc auction.IAuctionService, accounts account.IAccountService) *Handler {
	return &Handler{svc: svc, accounts: accounts}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/auctions", h.list)
	r.GET("/auctions/:id", h.info)
	r.GET("/auctions/:id/images", h.listImages)

	authed := r.Group("", middleware.RequireAuth(h.accounts))
	{
		sellers := authed.Group("", middleware.RequireRole(models.RoleSeller))
		sellers.POST("/auctions", h.create)
		sellers.PUT("/auctions/:id", h.update)
		sellers.DELETE("/auctions/:id", h.delete)
		sellers.POST("/auctions/:id/deactivate", h.deactivate)
		sellers.GET("/users/me/auctions", h.mine)
		sellers.POST("/auctions/:id/images", h.addImage)
		sellers.DELETE("/images/:imageId", h.deleteImage)
		sellers.PUT("/images/:imageId/primary", h.setPrimaryImage)

		authed.POST("/auctions/:id/watch", h.watch)
		authed.DELETE("/auctions/:id/watch", h.unwatch)
		authed.GET("/users/me/watchlist", h.watchlist)
	}
}

// @Summary		List auctions
// @Description	Paginated active auctions, newest first, optionally filtered by category or free text.
// @Tags			Auctions
// @Param			page		query		int		false	"1-based page"	default(1)
// @Param			page_size	query		int		false	"Page size"		default(20)
// @Param			category	query		string	false	"Category filter"
// @Param			search		query		string	false	"Free-text search over title/description"
// @Success		200			{array}		auction.AuctionSummary
// @Failure		400			{object}	middleware.ErrorResponse
// @Router			/auctions [get]
func (h *Handler) list(c *gin.Context) {
	var q ListAuctionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.svc.ListAuctions(c.Request.Context(), q.Page, q.PageSize, q.Category, q.Search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "listing failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Get auction details
// @Tags			Auctions
// @Param			id	path		int	true	"Auction ID"
// @Success		200	{object}	auction.AuctionResponse
// @Failure		404	{object}	middleware.ErrorResponse
// @Router			/auctions/{id} [get]
func (h *Handler) info(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.svc.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Create an auction
// @Tags			Auctions
// @Security		BearerAuth
// @Param			body	body		CreateAuctionBody	true	"Auction payload"
// @Success		201		{object}	auction.AuctionResponse
// @Failure		400		{object}	middleware.ErrorResponse
// @Router			/auctions [post]
func (h *Handler) create(c *gin.Context) {
	var body CreateAuctionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.svc.CreateAuction(c.Request.Context(), middleware.UserID(c), auction.CreateAuctionInput{
		Title:         body.Title,
		Description:   body.Description,
		Category:      body.Category,
		Condition:     body.Condition,
		Location:      body.Location,
		ShippingInfo:  body.ShippingInfo,
		StartingPrice: body.StartingPrice,
		ReservePrice:  body.ReservePrice,
		StartTime:     body.StartTime.UTC(),
		EndTime:       body.EndTime.UTC(),
		IsFeatured:    body.IsFeatured,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// @Summary		Update an auction
// @Description	Owner-only; blocked once bidding has started.
// @Tags			Auctions
// @Security		BearerAuth
// @Param			id		path		int					true	"Auction ID"
// @Param			body	body		UpdateAuctionBody	true	"Updated fields"
// @Success		200		{object}	auction.AuctionResponse
// @Failure		409		{object}	middleware.ErrorResponse
// @Router			/auctions/{id} [put]
func (h *Handler) update(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body UpdateAuctionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.svc.UpdateAuction(c.Request.Context(), auctionID, middleware.UserID(c), auction.UpdateAuctionInput{
		Title:        body.Title,
		Description:  body.Description,
		Category:     body.Category,
		Condition:    body.Condition,
		Location:     body.Location,
		ShippingInfo: body.ShippingInfo,
		ReservePrice: body.ReservePrice,
		EndTime:      body.EndTime.UTC(),
		IsFeatured:   body.IsFeatured,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Delete an auction
// @Description	Only bid-free auctions can be deleted; use deactivate otherwise.
// @Tags			Auctions
// @Security		BearerAuth
// @Param			id	path	int	true	"Auction ID"
// @Success		204
// @Failure		409	{object}	middleware.ErrorResponse
// @Router			/auctions/{id} [delete]
func (h *Handler) delete(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteAuction(c.Request.Context(), auctionID, middleware.UserID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary		Deactivate an auction
// @Description	Soft off-switch: suppresses bidding without deleting history.
// @Tags			Auctions
// @Security		BearerAuth
// @Param			id	path	int	true	"Auction ID"
// @Success		204
// @Router			/auctions/{id}/deactivate [post]
func (h *Handler) deactivate(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeactivateAuction(c.Request.Context(), auctionID, middleware.UserID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary		List own auctions
// @Tags			Auctions
// @Security		BearerAuth
// @Success		200	{array}	auction.AuctionSummary
// @Router			/users/me/auctions [get]
func (h *Handler) mine(c *gin.Context) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.svc.GetSellerAuctions(c.Request.Context(), middleware.UserID(c), q.Page, q.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "listing failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Watch an auction
// @Tags			Watchlist
// @Security		BearerAuth
// @Param			id	path	int	true	"Auction ID"
// @Success		201
// @Failure		409	{object}	middleware.ErrorResponse
// @Router			/auctions/{id}/watch [post]
func (h *Handler) watch(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.AddToWatchlist(c.Request.Context(), auctionID, middleware.UserID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

// @Summary		Unwatch an auction
// @Tags			Watchlist
// @Security		BearerAuth
// @Param			id	path	int	true	"Auction ID"
// @Success		204
// @Router			/auctions/{id}/watch [delete]
func (h *Handler) unwatch(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.RemoveFromWatchlist(c.Request.Context(), auctionID, middleware.UserID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary		Get own watchlist
// @Tags			Watchlist
// @Security		BearerAuth
// @Success		200	{array}	auction.AuctionSummary
// @Router			/users/me/watchlist [get]
func (h *Handler) watchlist(c *gin.Context) {
	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.svc.GetWatchlist(c.Request.Context(), middleware.UserID(c), q.Page, q.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "listing failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Attach an image
// @Tags			Images
// @Security		BearerAuth
// @Param			id		path		int				true	"Auction ID"
// @Param			body	body		AddImageBody	true	"Image payload"
// @Success		201		{object}	models.AuctionImage
// @Router			/auctions/{id}/images [post]
func (h *Handler) addImage(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body AddImageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	img, err := h.svc.AddImage(c.Request.Context(), auctionID, middleware.UserID(c), auction.ImageInput{
		ImageURL:     body.ImageURL,
		AltText:      body.AltText,
		IsPrimary:    body.IsPrimary,
		DisplayOrder: body.DisplayOrder,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}

// @Summary		List auction images
// @Tags			Images
// @Param			id	path	int	true	"Auction ID"
// @Success		200	{array}	models.AuctionImage
// @Router			/auctions/{id}/images [get]
func (h *Handler) listImages(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.svc.ListImages(c.Request.Context(), auctionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "listing failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Delete an image
// @Tags			Images
// @Security		BearerAuth
// @Param			imageId	path	int	true	"Image ID"
// @Success		204
// @Router			/images/{imageId} [delete]
func (h *Handler) deleteImage(c *gin.Context) {
	imageID, ok := pathID(c, "imageId")
	if !ok {
		return
	}
	if err := h.svc.DeleteImage(c.Request.Context(), imageID, middleware.UserID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary		Make an image primary
// @Tags			Images
// @Security		BearerAuth
// @Param			imageId	path	int	true	"Image ID"
// @Success		204
// @Router			/images/{imageId}/primary [put]
func (h *Handler) setPrimaryImage(c *gin.Context) {
	imageID, ok := pathID(c, "imageId")
	if !ok {
		return
	}
	if err := h.svc.SetPrimaryImage(c.Request.Context(), imageID, middleware.UserID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auction.ErrNotFound),
		errors.Is(err, auction.ErrImageNotFound),
		errors.Is(err, auction.ErrUserNotFound):
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: err.Error()})
	case errors.Is(err, auction.ErrNotOwner),
		errors.Is(err, auction.ErrNotSeller):
		c.JSON(http.StatusForbidden, middleware.ErrorResponse{Error: err.Error()})
	case errors.Is(err, auction.ErrHasBids),
		errors.Is(err, auction.ErrBiddingStarted),
		errors.Is(err, auction.ErrAlreadyWatched),
		errors.Is(err, auction.ErrNotWatched):
		c.JSON(http.StatusConflict, middleware.ErrorResponse{Error: err.Error()})
	case errors.Is(err, auction.ErrEndBeforeStart),
		errors.Is(err, auction.ErrReserveBelowStarting),
		errors.Is(err, auction.ErrStartInPast):
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "internal error"})
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}
