package authhandler

import (
	"errors"
	"net/http"

	"auctionhousego/internal/http/middleware"
	"auctionhousego/internal/services/account"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc account.IAccountService
}

func New(svc account.IAccountService) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(r gin.IRoutes) {
	r.POST("/auth/register", h.register)
	r.POST("/auth/login", h.login)
}

// @Summary		Register an account
// @Description	Creates a Buyer or Seller account. The role is fixed at registration.
// @Tags			Auth
// @Param			body	body		RegisterBody	true	"Registration payload"
// @Success		201		{object}	models.User
// @Failure		400		{object}	middleware.ErrorResponse
// @Failure		409		{object}	middleware.ErrorResponse
// @Router			/auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var body RegisterBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	u, err := h.svc.Register(c.Request.Context(), account.RegisterInput{
		FirstName:   body.FirstName,
		LastName:    body.LastName,
		Email:       body.Email,
		Password:    body.Password,
		AccountType: body.AccountType,
	})
	switch {
	case errors.Is(err, account.ErrEmailTaken):
		c.JSON(http.StatusConflict, middleware.ErrorResponse{Error: err.Error()})
	case errors.Is(err, account.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "registration failed"})
	default:
		c.JSON(http.StatusCreated, u)
	}
}

// @Summary		Log in
// @Description	Exchanges credentials for a bearer token.
// @Tags			Auth
// @Param			body	body		LoginBody	true	"Credentials"
// @Success		200		{object}	account.AuthResult
// @Failure		401		{object}	middleware.ErrorResponse
// @Router			/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var body LoginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	res, err := h.svc.Login(c.Request.Context(), body.Email, body.Password)
	switch {
	case errors.Is(err, account.ErrInvalidCredentials), errors.Is(err, account.ErrAccountDisabled):
		c.JSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "login failed"})
	default:
		c.JSON(http.StatusOK, res)
	}
}
