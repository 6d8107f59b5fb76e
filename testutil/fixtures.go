package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"erms/auth"
	"erms/models"
	"erms/store"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every user created by Fixtures.
const DefaultPassword = "password123"

// Fixtures creates rows and tokens for tests.
type Fixtures struct {
	t     *testing.T
	db    *gorm.DB
	store *store.Store
	auth  *auth.Service
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()
	st := store.New(db)
	return &Fixtures{
		t:     t,
		db:    db,
		store: st,
		auth: auth.NewService(st.Users, auth.Options{
			Secret:     "test-secret",
			Expiration: time.Hour,
			BcryptCost: bcrypt.MinCost,
		}),
	}
}

func (f *Fixtures) Store() *store.Store { return f.store }

func (f *Fixtures) Auth() *auth.Service { return f.auth }

func (f *Fixtures) CreateUser(ctx context.Context, email, name string, role models.Role) *models.User {
	f.t.Helper()

	hash, err := f.auth.HashPassword(DefaultPassword)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	u := &models.User{
		Email:               email,
		Name:                name,
		Role:                role,
		Skills:              []string{},
		AvailablePercentage: models.DefaultAvailablePercentage,
		PasswordHash:        hash,
	}
	if role == models.RoleEngineer {
		capacity := 100
		u.MaxCapacity = &capacity
		u.Seniority = models.SeniorityMid
	}
	if err := f.store.Users.Create(ctx, u); err != nil {
		f.t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func (f *Fixtures) CreateProject(ctx context.Context, name string, managerID uint) *models.Project {
	f.t.Helper()

	p := &models.Project{
		Name:           name,
		RequiredSkills: []string{},
		Status:         models.StatusPlanning,
		ManagerID:      managerID,
	}
	if err := f.store.Projects.Create(ctx, p); err != nil {
		f.t.Fatalf("create project %s: %v", name, err)
	}
	return p
}

func (f *Fixtures) CreateAssignment(ctx context.Context, engineerID, projectID uint, allocation int, endDate *models.Date) *models.Assignment {
	f.t.Helper()

	a := &models.Assignment{
		EngineerID:           engineerID,
		ProjectID:            projectID,
		AllocationPercentage: allocation,
		EndDate:              endDate,
		Role:                 "Developer",
	}
	if err := f.store.Assignments.Create(ctx, a); err != nil {
		f.t.Fatalf("create assignment: %v", err)
	}
	return a
}

// Token issues a bearer token for user.
func (f *Fixtures) Token(user *models.User) string {
	f.t.Helper()
	token, err := f.auth.IssueToken(user)
	if err != nil {
		f.t.Fatalf("issue token: %v", err)
	}
	return token
}

// WithToken sets the Authorization header on r.
func WithToken(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}
