package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"law_office_app_go/config"
	"law_office_app_go/db"
	"law_office_app_go/logger"
	"law_office_app_go/models"
	"law_office_app_go/services"

	"go.uber.org/zap"
	"golang.org/x/term"
)

func main() {
	role := flag.String("role", models.RoleAdmin, "role of the new user (admin, lawyer, secretary)")
	flag.Parse()

	if !models.IsValidRole(*role) {
		fmt.Fprintf(os.Stderr, "invalid role %q\n", *role)
		os.Exit(2)
	}

	// Load configuration
	cfg := config.Load()
	log, syncLog := logger.Init(logger.Config{Level: "warn", Format: "console", Development: true})
	defer syncLog()

	if err := db.Initialize(cfg); err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label + ": ")
		v, _ := reader.ReadString('\n')
		return strings.TrimSpace(v)
	}

	fmt.Println("=== Create New User ===")
	fmt.Println()
	fullName := prompt("Full name")
	username := prompt("Username")
	email := strings.ToLower(prompt("Email"))

	// Get password securely
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatal("failed to read password", zap.Error(err))
	}

	if fullName == "" || username == "" || email == "" {
		log.Fatal("full name, username and email are required")
	}
	if err := services.ValidatePassword(string(passwordBytes)); err != nil {
		log.Fatal("password rejected", zap.Error(err))
	}

	user, err := services.RegisterUser(db.DB, services.RegisterInput{
		Email:    email,
		Password: string(passwordBytes),
		FullName: fullName,
		Username: username,
		Role:     *role,
	})
	if err != nil {
		log.Fatal("failed to create user", zap.Error(err))
	}

	fmt.Println()
	fmt.Println("User created")
	fmt.Printf("  ID:       %s\n", user.ID)
	fmt.Printf("  Username: %s\n", user.Username)
	fmt.Printf("  Email:    %s\n", user.Email)
	fmt.Printf("  Role:     %s\n", user.Role)
	fmt.Printf("\nSign in with POST %s/api/login\n", cfg.AppURL)
}
