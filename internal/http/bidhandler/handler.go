package bidhandler

import (
	"errors"
	"net/http"
	"strconv"

	"auctionhousego/internal/http/middleware"
	"auctionhousego/internal/models"
	"auctionhousego/internal/services/account"
	"auctionhousego/internal/services/bidding"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type Handler struct {
	svc      bidding.IBiddingService
	accounts account.IAccountService
	limiter  *rate.Limiter
}

func New(svc bidding.IBiddingService, accounts account.IAccountService, limiter *rate.Limiter) *Handler {
	return &Handler{svc: svc, accounts: accounts, limiter: limiter}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/auctions/:id/bids", h.list)
	r.GET("/auctions/:id/bids/highest", h.highest)
	r.GET("/auctions/:id/bids/statistics", h.statistics)

	authed := r.Group("", middleware.RequireAuth(h.accounts))
	{
		authed.POST("/auctions/:id/bids",
			middleware.RequireRole(models.RoleBuyer),
			middleware.RateLimit(h.limiter),
			h.place)
		authed.GET("/users/me/bids", h.userBids)
		authed.GET("/users/me/bids/winning", h.winningBids)
	}
}

// @Summary		Place a bid
// @Description	Places a bid on an auction. Must exceed the current highest bid (or the starting price on the first bid).
// @Tags			Bids
// @Security		BearerAuth
// @Param			id		path		int				true	"Auction ID"
// @Param			body	body		PlaceBidBody	true	"Bid payload"
// @Success		201		{object}	bidding.BidResponse
// @Failure		404		{object}	middleware.ErrorResponse
// @Failure		409		{object}	middleware.ErrorResponse
// @Failure		422		{object}	middleware.ErrorResponse
// @Router			/auctions/{id}/bids [post]
func (h *Handler) place(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body PlaceBidBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}

	out, err := h.svc.PlaceBid(c.Request.Context(), auctionID, middleware.UserID(c), body.Amount)
	if err != nil {
		h.respondBidError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// @Summary		List bids for an auction
// @Description	Paginated, newest first.
// @Tags			Bids
// @Param			id			path		int	true	"Auction ID"
// @Param			page		query		int	false	"1-based page"	default(1)
// @Param			page_size	query		int	false	"Page size"		default(50)
// @Success		200			{array}		bidding.BidResponse
// @Router			/auctions/{id}/bids [get]
func (h *Handler) list(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var q BidPageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.svc.GetAuctionBids(c.Request.Context(), auctionID, q.Page, q.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "listing failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Get the highest bid
// @Tags			Bids
// @Param			id	path		int	true	"Auction ID"
// @Success		200	{object}	bidding.BidResponse
// @Failure		404	{object}	middleware.ErrorResponse
// @Router			/auctions/{id}/bids/highest [get]
func (h *Handler) highest(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.svc.GetHighestBid(c.Request.Context(), auctionID)
	if errors.Is(err, bidding.ErrNoBids) {
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		Bid statistics for an auction
// @Tags			Bids
// @Param			id	path		int	true	"Auction ID"
// @Success		200	{object}	bidding.BidStatistics
// @Failure		404	{object}	middleware.ErrorResponse
// @Router			/auctions/{id}/bids/statistics [get]
func (h *Handler) statistics(c *gin.Context) {
	auctionID, ok := pathID(c, "id")
	if !ok {
		return
	}
	out, err := h.svc.GetBidStatistics(c.Request.Context(), auctionID)
	if errors.Is(err, bidding.ErrAuctionNotFound) {
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		List own bids
// @Description	Annotated with the derived auction status; optional filter active|won|lost.
// @Tags			Bids
// @Security		BearerAuth
// @Param			status	query	string	false	"Filter"	Enums(active,won,lost)
// @Success		200		{array}	bidding.UserBid
// @Router			/users/me/bids [get]
func (h *Handler) userBids(c *gin.Context) {
	var q UserBidsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.svc.GetUserBids(c.Request.Context(), middleware.UserID(c), q.Page, q.PageSize, q.Status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "listing failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary		List auctions won
// @Tags			Bids
// @Security		BearerAuth
// @Success		200	{array}	bidding.WinningBid
// @Router			/users/me/bids/winning [get]
func (h *Handler) winningBids(c *gin.Context) {
	var q BidPageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	out, err := h.svc.GetUserWinningBids(c.Request.Context(), middleware.UserID(c), q.Page, q.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "listing failed"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) respondBidError(c *gin.Context, err error) {
	var rej *bidding.Rejection
	switch {
	case errors.As(err, &rej):
		c.JSON(rejectionStatus(rej.Reason), middleware.ErrorResponse{Error: rej.Message})
	case errors.Is(err, bidding.ErrAuctionNotFound),
		errors.Is(err, bidding.ErrBidderNotFound):
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: err.Error()})
	case errors.Is(err, bidding.ErrConcurrencyConflict):
		c.JSON(http.StatusConflict, middleware.ErrorResponse{Error: "auction updated concurrently, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "bid placement failed"})
	}
}

func rejectionStatus(reason bidding.RejectReason) int {
	switch reason {
	case bidding.ReasonSelfBid, bidding.ReasonRoleForbidden:
		return http.StatusForbidden
	case bidding.ReasonAmountTooLow, bidding.ReasonAlreadyHighestBidder:
		return http.StatusConflict
	default: // AuctionInactive, NotStarted, Ended
		return http.StatusUnprocessableEntity
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
