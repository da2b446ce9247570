package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/opencourse/lms-backend/internal/config"
	"github.com/opencourse/lms-backend/internal/database"
	"github.com/opencourse/lms-backend/internal/logger"
	"github.com/opencourse/lms-backend/internal/model"
	"github.com/opencourse/lms-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// Teacher accounts are not self-service; they are provisioned here.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Teacher Account ===")

	// Full name
	fmt.Print("Enter Full Name: ")
	fullName, _ := reader.ReadString('\n')
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		fmt.Println("Error: Full name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)
	if email == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 8 {
		fmt.Println("Error: Password must be at least 8 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	teacher := &model.User{
		Email:        email,
		FullName:     fullName,
		Role:         model.RoleTeacher,
		PasswordHash: string(hashedPassword),
	}

	if err := userRepo.Create(ctx, teacher); err != nil {
		log.Fatal().Err(err).Msg("Failed to create teacher")
	}

	fmt.Printf("\nSuccess! Teacher '%s' (%s) created with ID: %s\n", teacher.FullName, teacher.Email, teacher.ID)
}
