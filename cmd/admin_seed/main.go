// Command admin_seed creates the initial admin account and, when none exist,
// a starter set of payment accounts.
package main

import (
	"log"
	"os"

	"paydesk/internal/config"
	"paydesk/internal/models"
	"paydesk/internal/repositories"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}
	adminUsername := config.GetEnv("ADMIN_USERNAME", "admin")

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("⚠️ Failed to close database connection: %v", err)
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	seedAdmin(adminUsername, adminEmail, adminPassword)
	seedPaymentAccounts()
}

func seedAdmin(username, email, password string) {
	var existing models.User
	if err := repositories.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Println("Admin user already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.User{
		Username:  username,
		Email:     email,
		Password:  string(hashed),
		FirstName: "System",
		LastName:  "Admin",
		Role:      models.RoleAdmin,
		IsActive:  true,
	}
	balance := models.Balance{Currency: models.DefaultCurrency}

	err = repositories.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		balance.UserID = admin.ID
		return tx.Create(&balance).Error
	})
	if err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("✅ Admin account created successfully!")
}

func seedPaymentAccounts() {
	var count int64
	if err := repositories.DB.Model(&models.PaymentAccount{}).Count(&count).Error; err != nil {
		log.Fatal("Failed to count payment accounts:", err)
	}
	if count > 0 {
		log.Println("Payment accounts already configured")
		return
	}

	accounts := []models.PaymentAccount{
		{
			PaymentType: "visa",
			AccountType: models.AccountTypeCard,
			AccountDetails: models.JSON{
				"cardNumber": "4169000000000000",
				"cardHolder": "PAYDESK OPERATOR",
				"bank":       "Kapital Bank",
			},
			AccountIdentifier: "visa-primary",
			Priority:          1,
			MinAmount:         10,
			MaxAmount:         500,
			Commission:        2,
			IsActive:          true,
		},
		{
			PaymentType: "m10",
			AccountType: models.AccountTypeMobile,
			AccountDetails: models.JSON{
				"phoneNumber": "+994500000000",
				"operator":    "m10",
			},
			AccountIdentifier: "m10-primary",
			Priority:          2,
			MinAmount:         5,
			MaxAmount:         300,
			Commission:        1.5,
			IsActive:          true,
		},
	}

	if err := repositories.DB.Create(&accounts).Error; err != nil {
		log.Fatal("Failed to seed payment accounts:", err)
	}
	log.Printf("✅ Seeded %d payment accounts", len(accounts))
}
