package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"economy/internal/service"
	"economy/pkg/idgen"
	"economy/pkg/response"
)

// SetupRouter builds the admin API engine.
func SetupRouter(ledger *service.Ledger, gen *idgen.Snowflake, log *logrus.Entry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	log = log.WithField("component", "http")

	r := gin.New()

	// request id first so recovery and logging can report it
	r.Use(RequestIDMiddleware(gen))
	r.Use(RecoveryMiddleware(log))
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware())

	h := NewHandler(ledger)

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		accounts := api.Group("/accounts")
		{
			accounts.POST("", h.CreateAccount)
			accounts.DELETE("/:id", h.DeleteAccount)
			accounts.GET("/:id/balance", h.GetBalance)
			accounts.PUT("/:id/balance", h.SetBalance)
			accounts.POST("/:id/deposit", h.Deposit)
			accounts.POST("/:id/withdraw", h.Withdraw)
			accounts.GET("/:id/players", h.ListAccountPlayers)
		}

		transfers := api.Group("/transfers")
		{
			transfers.POST("", h.Transfer)
			transfers.POST("/players", h.TransferByPlayer)
		}

		players := api.Group("/players")
		{
			players.PUT("/:uuid", h.PutPlayer)
			players.GET("/:uuid/accounts", h.ListPlayerAccounts)
			players.GET("/:uuid/main", h.GetMainAccount)
			players.POST("/:uuid/accounts/:id", h.LinkAccount)
			players.DELETE("/:uuid/accounts/:id", h.UnlinkAccount)
		}

		api.GET("/top", h.Top)
	}

	return r
}
