package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"auctionhousego/internal/http/auctionhandler"
	"auctionhousego/internal/http/authhandler"
	"auctionhousego/internal/http/bidhandler"
	"auctionhousego/internal/http/middleware"
	"auctionhousego/internal/services/account"
	"auctionhousego/internal/services/auction"
	"auctionhousego/internal/services/bidding"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/abrar71/swaggerfilesv2" // swagger embed files
)

type Services struct {
	Accounts account.IAccountService
	Auctions auction.IAuctionService
	Bidding  bidding.IBiddingService
}

type httpServer struct {
	listenPort uint16
	srv        http.Server
	ln         net.Listener
	services   Services
	bidLimiter *rate.Limiter
	ctx        context.Context
}

func NewHttpServer(ctx context.Context, listenPort uint16, services Services, bidLimiter *rate.Limiter) *httpServer {
	return &httpServer{
		listenPort: listenPort,
		services:   services,
		bidLimiter: bidLimiter,
		ctx:        ctx,
	}
}

func (h *httpServer) Start() error {
	var err error
	listenAddr := fmt.Sprintf(":%d", h.listenPort)
	h.ln, err = net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}

	routerEngine := gin.New()

	// Swagger UI and API specs
	routerEngine.StaticFS("/swagger-apis", http.FS(swaggerfilesv2.FS))
	routerEngine.Static("/api-specs", "api_specs")

	routerEngine.Use(middleware.RequestID())
	routerEngine.Use(ginzap.RecoveryWithZap(zap.L(), true))

	// REST API
	authhandler.New(h.services.Accounts).Register(routerEngine)
	auctionhandler.New(h.services.Auctions, h.services.Accounts).Register(routerEngine)
	bidhandler.New(h.services.Bidding, h.services.Accounts, h.bidLimiter).Register(routerEngine)

	h.srv = http.Server{
		Handler: routerEngine,
	}

	return h.srv.Serve(h.ln)
}

// Dispose gracefully shuts the HTTP server down.
// It waits up to 10 s for in-flight requests to finish.
func (h *httpServer) Dispose() error {
	ctx, cancel := context.WithTimeout(h.ctx, 10*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		zap.L().Error("http_dispose", zap.Error(err))
		return err
	}

	if ctx.Err() == context.DeadlineExceeded {
		zap.L().Error("http_dispose", zap.Error(errors.New("shutdown timed out")))
	}

	return nil
}
