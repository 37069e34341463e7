// Command createadmin bootstraps (or resets) the default admin account.
package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"gridwatch/internal/config"
	"gridwatch/internal/database"
	"gridwatch/internal/models"
	"gridwatch/internal/utils"
)

const (
	adminEmail    = "admin@gridwatch.demo"
	adminPassword = "demo123"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadAPI()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	hashedPassword, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	var user models.User
	if err := db.Where("email = ?", adminEmail).First(&user).Error; err != nil {
		fmt.Println("Admin user not found, creating...")
		admin := &models.User{Email: adminEmail, Name: "Admin User", Password: hashedPassword, Role: "admin"}
		if err := db.Create(admin).Error; err != nil {
			log.Fatalf("Failed to create admin user: %v", err)
		}
		fmt.Println("Admin user created successfully")
		return
	}

	fmt.Println("Admin user found, resetting password...")
	user.Password = hashedPassword
	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("Failed to update password: %v", err)
	}
	fmt.Println("Admin password reset successfully")
}
