// Package routes wires repositories, services and handlers onto the fiber app.
package routes

import (
	"paydesk/internal/config"
	"paydesk/internal/handlers"
	"paydesk/internal/middleware"
	"paydesk/internal/repositories"
	"paydesk/internal/services/auth"
	"paydesk/internal/services/balance"
	"paydesk/internal/services/card"
	"paydesk/internal/services/deposit"
	"paydesk/internal/services/paymentaccount"
	"paydesk/internal/services/transaction"
	"paydesk/internal/services/user"

	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	db := repositories.DB
	cache := repositories.CacheService

	userRepo := repositories.NewUserRepository(db)
	balanceRepo := repositories.NewBalanceRepository(db)
	accountRepo := repositories.NewPaymentAccountRepository(db)
	txRepo := repositories.NewTransactionRepository(db)
	cardRepo := repositories.NewUserCardRepository(db)

	userService := user.NewService(userRepo)
	authService := auth.NewService(userRepo)
	balanceService := balance.NewService(balanceRepo, cache)
	accountService := paymentaccount.NewService(accountRepo, cache)
	cardService := card.NewService(cardRepo, config.GetEnv("CARD_SECRET_KEY", "dev-card-secret"))
	depositService := deposit.NewService(accountService, txRepo, cardService)
	transactionService := transaction.NewService(txRepo, cache)

	authHandler := handlers.NewAuthHandler(userService, authService, balanceService)
	paymentHandler := handlers.NewPaymentHandler(accountService, depositService, transactionService, cardService)
	adminHandler := handlers.NewAdminHandler(userService, balanceService, accountService, transactionService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	// Payment method discovery is public; everything else under /payment
	// requires authentication.
	api.Get("/payment/methods", paymentHandler.PaymentMethods)
	api.Get("/payment/method/:type/account", paymentHandler.PaymentMethodByType)

	authenticated := api.Group("/", middleware.Auth)
	authenticated.Get("/profile", authHandler.Profile)
	authenticated.Post("/change-password", authHandler.ChangePassword)
	authenticated.Get("/balance", authHandler.Balance)
	authenticated.Get("/cards", paymentHandler.MyCards)

	payment := authenticated.Group("/payment")
	payment.Post("/deposit", paymentHandler.CreateDeposit)
	payment.Post("/visa-deposit", paymentHandler.CreateCardDeposit)
	payment.Get("/transactions", paymentHandler.MyTransactions)
	payment.Get("/transaction/:transactionId", paymentHandler.MyTransaction)

	paymentAdmin := payment.Group("/admin", middleware.AdminOnly)
	paymentAdmin.Get("/transactions", adminHandler.ListTransactions)
	paymentAdmin.Get("/transactions/pending", adminHandler.ListPendingTransactions)
	paymentAdmin.Patch("/transaction/:transactionId/status", adminHandler.UpdateTransactionStatus)
	paymentAdmin.Get("/stats", adminHandler.TransactionStats)
	paymentAdmin.Get("/payment-accounts", adminHandler.ListPaymentAccounts)
	paymentAdmin.Post("/payment-accounts", adminHandler.CreatePaymentAccount)
	paymentAdmin.Get("/payment-accounts/:id", adminHandler.GetPaymentAccount)
	paymentAdmin.Put("/payment-accounts/:id", adminHandler.UpdatePaymentAccount)

	admin := authenticated.Group("/admin", middleware.AdminOnly)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:id", adminHandler.GetUser)
	admin.Put("/users/:id", adminHandler.UpdateUser)
	admin.Delete("/users/:id", adminHandler.DeleteUser)
	admin.Get("/users/:id/balance", adminHandler.GetUserBalance)
	admin.Put("/users/:id/balance", adminHandler.SetUserBalance)
	admin.Post("/transactions/:transactionId/approve", adminHandler.ApproveTransaction)
	admin.Post("/transactions/:transactionId/reject", adminHandler.RejectTransaction)
	admin.Get("/dashboard", adminHandler.Dashboard)
}
