// Command resetpassword updates a single operator's password, given the
// target email and new password as flags.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"gridwatch/internal/config"
	"gridwatch/internal/database"
	"gridwatch/internal/models"
	"gridwatch/internal/utils"
)

func main() {
	email := flag.String("email", "admin@gridwatch.demo", "email of the account to reset")
	password := flag.String("password", "demo123", "new password")
	flag.Parse()

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

	hashedPassword, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	var user models.User
	if err := db.Where("email = ?", *email).First(&user).Error; err != nil {
		log.Fatalf("User not found: %v", err)
	}

	user.Password = hashedPassword
	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("Failed to update password: %v", err)
	}

	fmt.Printf("Password updated successfully for %s\n", user.Email)
}
