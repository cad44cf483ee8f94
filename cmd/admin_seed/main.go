package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"

	"printhub/internal/config"
	"printhub/internal/models"
	"printhub/internal/repositories"
)

// Seeds the initial admin account. Safe to run repeatedly: it exits early
// when a user with ADMIN_EMAIL already exists.
func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("database init: %v", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			sqlDB.Close()
		}
		if repositories.CacheService != nil {
			repositories.CacheService.Close()
		}
	}()

	email := config.GetEnv("ADMIN_EMAIL", "")
	password := config.GetEnv("ADMIN_PASSWORD", "")
	phone := config.GetEnv("ADMIN_PHONE", "")
	if email == "" || password == "" || phone == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PASSWORD and ADMIN_PHONE must be set")
	}

	var count int64
	if err := repositories.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		log.Fatalf("lookup admin: %v", err)
	}
	if count > 0 {
		log.Printf("admin %s already exists, nothing to do", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	admin := models.User{
		Email:    email,
		Password: string(hash),
		Name:     config.GetEnv("ADMIN_NAME", "Platform Admin"),
		Phone:    phone,
		Role:     models.RoleAdmin,
		Status:   "active",
	}
	if err := repositories.DB.Create(&admin).Error; err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin %s created (id=%d)", email, admin.ID)
}
