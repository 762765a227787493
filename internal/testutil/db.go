// Package testutil holds fixtures shared by store-backed tests.
package testutil

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/configs"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/models"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/store"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewDB opens a migrated in-memory SQLite database private to the test.
// A single connection serialises transactions the way row locks do on
// Postgres.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbSeq.Add(1))

	db, err := store.Open(configs.DBConfig{
		Driver:       "sqlite",
		DSN:          dsn,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, false)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { store.Close(db) })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// NewPostgresDB opens the database named by DATABASE_URL and migrates it.
// The test is skipped when the variable is unset. Rows the test creates are
// not removed automatically.
func NewPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := store.Open(configs.DBConfig{
		Driver:       "postgres",
		DSN:          dsn,
		MaxOpenConns: 10,
		MaxIdleConns: 10,
	}, false)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { store.Close(db) })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrate postgres: %v", err)
	}
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Name:     name,
		Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.org",
		Password: "not-a-real-hash",
		Role:     role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func CreateProject(t *testing.T, db *gorm.DB, name, goal string, status models.ProjectStatus) *models.Project {
	t.Helper()
	p := &models.Project{
		Name:          name,
		GoalAmount:    decimal.RequireFromString(goal),
		CurrentAmount: decimal.Zero,
		Status:        status,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return p
}

func ReloadProject(t *testing.T, db *gorm.DB, id uint) *models.Project {
	t.Helper()
	var p models.Project
	if err := db.First(&p, id).Error; err != nil {
		t.Fatalf("reload project %d: %v", id, err)
	}
	return &p
}

func CountDonations(t *testing.T, db *gorm.DB, projectID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.Donation{}).Where("project_id = ?", projectID).Count(&n).Error; err != nil {
		t.Fatalf("count donations: %v", err)
	}
	return n
}
