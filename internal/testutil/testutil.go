package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"productattrs/internal/database"
	"productattrs/internal/middleware"
	"productattrs/internal/model"
	"productattrs/internal/variation"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const JWTSecret = "productattrs-test-secret"

// SetupTestDB opens a throwaway sqlite database with every model migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	db, err := database.Open(sqlite.Open(dsn), zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(database.Models()...); err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	return db
}

// SetupRouter creates a gin test router using the test JWT secret.
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.SetJWTSecret(JWTSecret)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// GenerateTestToken creates a valid host-style JWT for the given role.
func GenerateTestToken(userID, role string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for an admin test user.
func DefaultTestToken() string {
	return GenerateTestToken("test-admin", "admin")
}

// DoRequest executes a JSON request against the test router.
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a response.Response-like map.
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedStockItem creates a stock item with a few non-default fields so copies can be checked.
func SeedStockItem(t *testing.T, db *gorm.DB, stockID, description string) *model.StockItem {
	t.Helper()
	item := &model.StockItem{
		StockID:          stockID,
		CategoryID:       3,
		TaxTypeID:        1,
		Description:      description,
		LongDescription:  description,
		Units:            "each",
		MBFlag:           model.MBFlagBought,
		SalesAccount:     "4010",
		COGSAccount:      "5010",
		InventoryAccount: "1510",
		MaterialCost:     decimal.RequireFromString("4.25"),
		Inactive:         true,
		Editable:         true,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("Failed to seed stock item: %v", err)
	}
	return item
}

// SeedCategory creates an active category and one active value per label, in label order.
func SeedCategory(t *testing.T, db *gorm.DB, code, label string, sortOrder int, values ...string) (*model.AttributeCategory, []model.AttributeValue) {
	t.Helper()
	category := &model.AttributeCategory{Code: code, Label: label, SortOrder: sortOrder, Active: true}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to seed category %s: %v", code, err)
	}

	out := make([]model.AttributeValue, 0, len(values))
	for i, v := range values {
		value := model.AttributeValue{
			CategoryID: category.ID,
			Value:      v,
			Slug:       variation.Slugify(v),
			SortOrder:  i,
			Active:     true,
		}
		if err := db.Create(&value).Error; err != nil {
			t.Fatalf("Failed to seed value %s: %v", v, err)
		}
		out = append(out, value)
	}
	return category, out
}

// SeedValue creates a value with an explicit slug.
func SeedValue(t *testing.T, db *gorm.DB, categoryID uint, value, slug string, sortOrder int) model.AttributeValue {
	t.Helper()
	v := model.AttributeValue{CategoryID: categoryID, Value: value, Slug: slug, SortOrder: sortOrder, Active: true}
	if err := db.Create(&v).Error; err != nil {
		t.Fatalf("Failed to seed value %s: %v", value, err)
	}
	return v
}

// AssignCategory records a category assignment for a product.
func AssignCategory(t *testing.T, db *gorm.DB, stockID string, categoryID uint) {
	t.Helper()
	if err := db.Create(&model.CategoryAssignment{StockID: stockID, CategoryID: categoryID}).Error; err != nil {
		t.Fatalf("Failed to assign category %d to %s: %v", categoryID, stockID, err)
	}
}

// AssignValue records a value-level assignment for a product.
func AssignValue(t *testing.T, db *gorm.DB, stockID string, value model.AttributeValue) {
	t.Helper()
	a := model.AttributeAssignment{StockID: stockID, CategoryID: value.CategoryID, ValueID: value.ID, SortOrder: value.SortOrder}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("Failed to assign value %d to %s: %v", value.ID, stockID, err)
	}
}

// SeedPrice adds a price-list entry.
func SeedPrice(t *testing.T, db *gorm.DB, stockID string, salesTypeID int, curr, price string) {
	t.Helper()
	p := model.Price{StockID: stockID, SalesTypeID: salesTypeID, CurrAbrev: curr, Price: decimal.RequireFromString(price)}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("Failed to seed price for %s: %v", stockID, err)
	}
}

// MustCount returns the row count of a model matching the optional condition.
func MustCount(t *testing.T, db *gorm.DB, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(m)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("Failed to count %T: %v", m, err)
	}
	return n
}
