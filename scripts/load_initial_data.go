package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"taskboard-backend/internal/config"
	"taskboard-backend/internal/database"
	"taskboard-backend/internal/database/models"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Seed data structures matching the YAML layout

type UserData struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type GroupData struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	LeaderEmail string   `yaml:"leader_email"`
	Members     []string `yaml:"members"` // emails, leader included implicitly
}

type TaskData struct {
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	GroupName     string `yaml:"group_name"`
	AssigneeEmail string `yaml:"assignee_email,omitempty"`
	CreatorEmail  string `yaml:"creator_email"`
	Completed     bool   `yaml:"completed"`
	DueInDays     *int   `yaml:"due_in_days,omitempty"`
}

type SeedData struct {
	Users  []UserData  `yaml:"users"`
	Groups []GroupData `yaml:"groups"`
	Tasks  []TaskData  `yaml:"tasks"`
}

func main() {
	dataFile := "scripts/initial_data/data.yaml"
	if len(os.Args) > 1 {
		dataFile = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Initialize(cfg.DatabaseURL, nil)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := loadData(db, dataFile); err != nil {
		log.Fatalf("Failed to load initial data: %v", err)
	}
	log.Println("Initial data loaded")
}

func loadData(db *gorm.DB, dataFile string) error {
	raw, err := os.ReadFile(dataFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", dataFile, err)
	}

	var seed SeedData
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("failed to parse %s: %w", dataFile, err)
	}

	userMap := make(map[string]*models.User)
	userCreated := 0
	for _, userData := range seed.Users {
		user, created, err := createUser(db, userData)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.Email, err)
		}
		userMap[userData.Email] = user
		if created {
			userCreated++
		}
	}
	log.Printf("Users: %d created, %d total", userCreated, len(seed.Users))

	groupMap := make(map[string]*models.Group)
	groupCreated := 0
	for _, groupData := range seed.Groups {
		group, created, err := createGroup(db, groupData, userMap)
		if err != nil {
			return fmt.Errorf("failed to create group %s: %w", groupData.Name, err)
		}
		groupMap[groupData.Name] = group
		if created {
			groupCreated++
		}
	}
	log.Printf("Groups: %d created, %d total", groupCreated, len(seed.Groups))

	taskCreated := 0
	for _, taskData := range seed.Tasks {
		created, err := createTask(db, taskData, userMap, groupMap)
		if err != nil {
			log.Printf("Warning: failed to create task %q: %v", taskData.Title, err)
			continue
		}
		if created {
			taskCreated++
		}
	}
	log.Printf("Tasks: %d created, %d total", taskCreated, len(seed.Tasks))

	return nil
}

func createUser(db *gorm.DB, data UserData) (*models.User, bool, error) {
	var existing models.User
	err := db.First(&existing, "email = ?", data.Email).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}

	user := &models.User{
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func createGroup(db *gorm.DB, data GroupData, userMap map[string]*models.User) (*models.Group, bool, error) {
	leader, ok := userMap[data.LeaderEmail]
	if !ok {
		return nil, false, fmt.Errorf("leader %s not found in seed users", data.LeaderEmail)
	}

	var existing models.Group
	err := db.First(&existing, "name = ? AND leader_id = ?", data.Name, leader.ID).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	group := &models.Group{
		Name:        data.Name,
		Description: data.Description,
		LeaderID:    leader.ID,
	}
	if err := db.Create(group).Error; err != nil {
		return nil, false, err
	}

	// The leader is always a member; seed members follow in listed order
	memberEmails := append([]string{data.LeaderEmail}, data.Members...)
	position := 0
	seen := make(map[string]bool)
	for _, email := range memberEmails {
		if seen[email] {
			continue
		}
		seen[email] = true
		user, ok := userMap[email]
		if !ok {
			return nil, false, fmt.Errorf("member %s not found in seed users", email)
		}
		member := &models.GroupMember{
			GroupID:  group.ID,
			UserID:   user.ID,
			Position: position,
		}
		if err := db.Create(member).Error; err != nil {
			return nil, false, err
		}
		position++
	}

	return group, true, nil
}

func createTask(db *gorm.DB, data TaskData, userMap map[string]*models.User, groupMap map[string]*models.Group) (bool, error) {
	group, ok := groupMap[data.GroupName]
	if !ok {
		return false, fmt.Errorf("group %s not found in seed groups", data.GroupName)
	}
	creator, ok := userMap[data.CreatorEmail]
	if !ok {
		return false, fmt.Errorf("creator %s not found in seed users", data.CreatorEmail)
	}

	var count int64
	if err := db.Model(&models.Task{}).
		Where("title = ? AND group_id = ?", data.Title, group.ID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	task := &models.Task{
		Title:       data.Title,
		Description: data.Description,
		Completed:   data.Completed,
		GroupID:     group.ID,
		CreatedByID: creator.ID,
	}
	if data.AssigneeEmail != "" {
		assignee, ok := userMap[data.AssigneeEmail]
		if !ok {
			return false, fmt.Errorf("assignee %s not found in seed users", data.AssigneeEmail)
		}
		task.AssigneeID = &assignee.ID
	}
	if data.DueInDays != nil {
		due := time.Now().AddDate(0, 0, *data.DueInDays)
		task.DueDate = &due
	}

	if err := db.Create(task).Error; err != nil {
		return false, err
	}
	return true, nil
}
