package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	v1 "github.com/NiksFok/conf-bot/internal/api/handler/v1"
	"github.com/NiksFok/conf-bot/internal/api/middleware"
	"github.com/NiksFok/conf-bot/internal/config"
	"github.com/NiksFok/conf-bot/internal/notifier"
	"github.com/NiksFok/conf-bot/internal/repository"
	"github.com/NiksFok/conf-bot/internal/repository/dao"
	"github.com/NiksFok/conf-bot/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	ledgerRepo := repository.NewLedgerRepository(dao.NewTransactionDAO(db))
	standRepo := repository.NewStandRepository(dao.NewStandDAO(db))
	merchRepo := repository.NewMerchRepository(dao.NewMerchDAO(db))
	candidateRepo := repository.NewCandidateRepository(dao.NewCandidateDAO(db))

	notify := notifier.NewLogNotifier()

	roleSvc := service.NewRoleService(userRepo)
	pointsSvc := service.NewPointsService(userRepo, ledgerRepo, standRepo, notify, conf.Points)
	merchSvc := service.NewMerchService(merchRepo, pointsSvc, notify)
	candidateSvc := service.NewCandidateService(candidateRepo, userRepo)
	standSvc := service.NewStandService(standRepo, conf.Points)
	scanSvc := service.NewScanService(roleSvc, pointsSvc, candidateSvc, merchSvc, standRepo)
	authSvc := service.NewAuthService(userRepo, pointsSvc, conf.Points, conf.API.JWTSigningKey)
	userSvc := service.NewUserService(userRepo)

	authHandler := v1.NewAuthHandler(authSvc)
	userHandler := v1.NewUserHandler(userSvc, pointsSvc, roleSvc)
	scanHandler := v1.NewScanHandler(scanSvc)
	merchHandler := v1.NewMerchHandler(merchSvc, roleSvc)
	candidateHandler := v1.NewCandidateHandler(candidateSvc, roleSvc)
	standHandler := v1.NewStandHandler(standSvc, roleSvc)
	adminHandler := v1.NewAdminHandler(pointsSvc, merchSvc, roleSvc)

	s.MountHandlers(authHandler, userHandler, scanHandler, merchHandler, candidateHandler, standHandler, adminHandler)

	return s
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	userHandler *v1.UserHandler,
	scanHandler *v1.ScanHandler,
	merchHandler *v1.MerchHandler,
	candidateHandler *v1.CandidateHandler,
	standHandler *v1.StandHandler,
	adminHandler *v1.AdminHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/register", authHandler.HandleRegister)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/users/:userID", userHandler.HandleGetUser)
		authed.GET("/users/:userID/balance", userHandler.HandleGetBalance)
		authed.GET("/users/:userID/transactions", userHandler.HandleGetTransactions)

		authed.POST("/scan", scanHandler.HandleScan)

		authed.POST("/points/add", adminHandler.HandleAddPoints)
		authed.POST("/points/subtract", adminHandler.HandleSubtractPoints)
		authed.POST("/transactions/:transactionID/cancel", adminHandler.HandleCancelTransaction)

		authed.GET("/merch", merchHandler.HandleListMerch)
		authed.POST("/merch", merchHandler.HandleCreateMerch)
		authed.PUT("/merch/:merchID", merchHandler.HandleUpdateMerch)
		authed.POST("/merch/:merchID/order", merchHandler.HandleCreateOrder)
		authed.GET("/orders", merchHandler.HandleListOwnOrders)
		authed.GET("/orders/pending", merchHandler.HandleListPendingOrders)
		authed.POST("/orders/:orderID/cancel", merchHandler.HandleCancelOrder)
		authed.POST("/orders/:orderID/complete", merchHandler.HandleCompleteOrder)

		authed.GET("/candidates", candidateHandler.HandleListCandidates)
		authed.GET("/candidates/marked", candidateHandler.HandleListMarked)
		authed.POST("/candidates/:userID/mark", candidateHandler.HandleMark)
		authed.POST("/candidates/:userID/unmark", candidateHandler.HandleUnmark)
		authed.POST("/candidates/:userID/notes", candidateHandler.HandleAddNote)
		authed.GET("/candidates/:userID/notes", candidateHandler.HandleGetNotes)

		authed.POST("/stands", standHandler.HandleCreateStand)
		authed.GET("/stands", standHandler.HandleListStands)
		authed.GET("/stands/:standID", standHandler.HandleGetStand)

		authed.GET("/admin/users", userHandler.HandleListUsers)
		authed.POST("/admin/users/:userID/role", adminHandler.HandleSetRole)
		authed.POST("/admin/users/:userID/block", adminHandler.HandleSetBlocked)
		authed.GET("/admin/stats/points", adminHandler.HandleStatsPoints)
		authed.GET("/admin/stats/merch", adminHandler.HandleStatsMerch)
	}

	s.Router.GET("/", v1.HandleHealthcheck)
}
