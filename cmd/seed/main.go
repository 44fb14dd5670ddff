package main

import (
	"log"
	"os"
	"time"

	"commercial-hub-be/internal/entity"
	"commercial-hub-be/internal/model"
	"commercial-hub-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// identityNamespace must match the auth service so seeded profiles line up
// with magic-link identities.
var identityNamespace = uuid.MustParse("6ba7b811-9dad-11d1-80b4-00c04fd430c8")

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🚀 Seeding Commercial Hub demo data\n")

	color.Yellow("\n1. Team profiles")
	profiles := []model.Profile{
		profile("amira@example.com", "Amira Hassan", entity.MoodRocket),
		profile("ben@example.com", "Ben Oduya", entity.MoodCoffee),
		profile("carla@example.com", "Carla Reyes", entity.MoodParty),
		profile("dev@example.com", "Dev Sharma", entity.MoodSmile),
	}
	for _, p := range profiles {
		var existing model.Profile
		if err := db.Where("id = ?", p.Id).First(&existing).Error; err == nil {
			color.Yellow("Profile %s already exists, skipping...", p.Email)
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			color.Red("Failed to create profile %s: %v", p.Email, err)
		} else {
			color.Green("Created profile: %s", p.Email)
		}
	}

	color.Yellow("\n2. Sample projects")
	now := time.Now()
	projects := []model.Project{
		project("amira@example.com", entity.StatusOpen, "Northwind Retail", "Amira Hassan", "Storefront Refit", 42000, now.AddDate(0, 0, -20)),
		project("amira@example.com", entity.StatusNegotiation, "Palace Hotels", "Amira Hassan", "Palace Renovation", 118500, now.AddDate(0, 0, -12)),
		project("ben@example.com", entity.StatusWon, "Globex Logistics", "Ben Oduya", "Fleet Telemetry", 67300, now.AddDate(0, 0, -5)),
		project("ben@example.com", entity.StatusLost, "Initech", "Ben Oduya", "Office Tower", 25000, now.AddDate(0, -2, 0)),
		project("carla@example.com", entity.StatusOpen, "Acme Build", "Carla Reyes", "Bridge Survey", 15800, now.AddDate(0, 0, -2)),
	}
	for _, p := range projects {
		var existing model.Project
		if err := db.Where("id = ?", p.Id).First(&existing).Error; err == nil {
			color.Yellow("Project %s already exists, skipping...", p.ProjectName)
			continue
		}
		if err := db.Create(&p).Error; err != nil {
			color.Red("Failed to create project %s: %v", p.ProjectName, err)
		} else {
			color.Green("Created project: %s (%s)", p.ProjectName, p.Status)
		}
	}

	color.Cyan("\n✅ Seeding completed")
}

func profile(email, fullName, mood string) model.Profile {
	return model.Profile{
		Id:         uuid.NewSHA1(identityNamespace, []byte(email)),
		Email:      email,
		FullName:   &fullName,
		MoodStatus: mood,
	}
}

func project(ownerEmail, status, client, agent, name string, value float64, requestDate time.Time) model.Project {
	// Deterministic id per project name keeps reseeding idempotent.
	return model.Project{
		Id:          uuid.NewSHA1(identityNamespace, []byte("project:"+name)),
		UserId:      uuid.NewSHA1(identityNamespace, []byte(ownerEmail)),
		Status:      status,
		RequestDate: requestDate,
		ClientName:  client,
		AgentName:   agent,
		ProjectName: name,
		Value:       value,
	}
}
