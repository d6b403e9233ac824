package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pantrybox/pantrybox-backend/internal/database"
	"github.com/pantrybox/pantrybox-backend/internal/middleware"
	"github.com/pantrybox/pantrybox-backend/internal/models"
	"github.com/pantrybox/pantrybox-backend/internal/service"
)

// TestDB holds the test database and services
type TestDB struct {
	DB          *gorm.DB
	AuthService *service.AuthService
	Storage     *MemoryStorage
}

// SetupTestDB creates an in-memory database with the full schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return &TestDB{
		DB:          db,
		AuthService: service.NewAuthService(db, "test-secret"),
		Storage:     NewMemoryStorage(),
	}
}

// CreateTestUserAndToken creates a test user and returns their id and a
// valid token.
func CreateTestUserAndToken(t *testing.T, testDB *TestDB) (uuid.UUID, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("testpassword123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user, err := models.NewUser(fmt.Sprintf("testuser+%s@example.com", uuid.New().String()), "Test User", string(hashed))
	if err != nil {
		t.Fatalf("failed to build test user: %v", err)
	}
	if err := testDB.DB.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	token, err := testDB.AuthService.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	return user.ID, token
}

// SetupTestRouter creates a router with all routes registered against an
// in-memory database.
func SetupTestRouter(t *testing.T) (*gin.Engine, *TestDB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB := SetupTestDB(t)

	authHandler := NewAuthHandler(testDB.AuthService)
	recipeHandler := NewRecipeHandler(service.NewRecipeService(testDB.DB), testDB.Storage)
	tagHandler := NewTagHandler(service.NewTagService(testDB.DB))
	ingredientHandler := NewIngredientHandler(service.NewIngredientService(testDB.DB))

	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(testDB.AuthService))
	{
		recipeHandler.RegisterRoutes(protected)
		tagHandler.RegisterRoutes(protected)
		ingredientHandler.RegisterRoutes(protected)
	}

	return router, testDB
}

// PerformRequest makes an authenticated JSON request against the router.
func PerformRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// MemoryStorage is an in-memory ImageStorage used by handler tests.
type MemoryStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

var _ service.ImageStorage = (*MemoryStorage)(nil)

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Objects: make(map[string][]byte)}
}

func (m *MemoryStorage) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = data
	return "https://test-bucket.s3.amazonaws.com/" + key, nil
}

func (m *MemoryStorage) Delete(ctx context.Context, location string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.Objects {
		if location == "https://test-bucket.s3.amazonaws.com/"+key {
			delete(m.Objects, key)
			return nil
		}
	}
	return fmt.Errorf("object not found: %s", location)
}

// Len reports how many objects are currently stored.
func (m *MemoryStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}
