package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"civic_app_go/config"
	"civic_app_go/db"
	"civic_app_go/models"
	"civic_app_go/services"

	"golang.org/x/term"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	conn, err := db.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close(conn)

	// Run migrations
	if err := db.AutoMigrate(conn, &models.Staff{}, &models.Session{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Staff Account ===")
	fmt.Println()

	fmt.Print("Name: ")
	name, _ := reader.ReadString('\n')

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')

	fmt.Print("Role [staff/admin] (default staff): ")
	role, _ := reader.ReadString('\n')
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = models.RoleStaff
	}

	// Get password securely
	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	fmt.Println()

	fmt.Print("Confirm password: ")
	confirmBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	fmt.Println()

	if string(passwordBytes) != string(confirmBytes) {
		log.Fatal("Passwords do not match")
	}

	staff, err := services.CreateStaff(conn, name, email, string(passwordBytes), role)
	if err != nil {
		log.Fatalf("Failed to create staff account: %v", err)
	}

	fmt.Println()
	fmt.Println("✓ Staff account created successfully!")
	fmt.Printf("  ID: %s\n", staff.ID)
	fmt.Printf("  Name: %s\n", staff.Name)
	fmt.Printf("  Email: %s\n", staff.Email)
	fmt.Printf("  Role: %s\n", staff.Role)
	fmt.Println()
	fmt.Printf("The account can now sign in at %s/login\n", cfg.AppURL)
}
