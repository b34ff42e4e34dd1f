package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ohalko/inventory-api/internal/auth"
	"github.com/ohalko/inventory-api/internal/config"
	httpAPI "github.com/ohalko/inventory-api/internal/http"
	"github.com/ohalko/inventory-api/internal/http/controller"
	"github.com/ohalko/inventory-api/internal/model"
	reposql "github.com/ohalko/inventory-api/internal/repository/sql"
	"github.com/ohalko/inventory-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUploader stands in for object storage so API tests stay local.
type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	return "https://cdn.test/" + key, nil
}

type apiFixture struct {
	router      *gin.Engine
	tokens      *auth.TokenManager
	productRepo *reposql.ProductRepository
}

func setupAPI(t *testing.T, testDB *TestDB) *apiFixture {
	t.Helper()

	productRepo := reposql.NewProductRepository(testDB.DB)
	txnRepo := reposql.NewTransactionalRepository(testDB.DB)
	productService := service.NewProductService(productRepo, txnRepo, stubUploader{})

	cfg := &config.Config{Admin: config.Admin{Email: "admin@example.com", Password: "correct-horse"}}
	tokens := auth.NewTokenManager("integration-secret")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	httpAPI.InitRouter(router, tokens,
		controller.New(cfg),
		controller.NewAuthController(cfg.Admin, tokens),
		controller.NewProductController(productService))

	return &apiFixture{router: router, tokens: tokens, productRepo: productRepo}
}

func (f *apiFixture) adminToken(t *testing.T) string {
	t.Helper()
	token, err := f.tokens.Issue(auth.RoleAdmin)
	require.NoError(t, err)
	return token
}

// createRequest builds an authenticated multipart product request.
func (f *apiFixture) productForm(t *testing.T, method, url, token string, fields map[string]string, withImage bool) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if withImage {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="image"; filename="product.png"`)
		header.Set("Content-Type", "image/png")
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake png bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestProductAPI_CRUD_Integration(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	fixture := setupAPI(t, testDB)
	token := fixture.adminToken(t)

	t.Run("create persists the product and an outbox event", func(t *testing.T) {
		testDB.TruncateTables(t)

		req := fixture.productForm(t, http.MethodPost, "/api/products", token, map[string]string{
			"name":        "Gaming Laptop",
			"description": "High-performance machine",
			"price":       "1299.99",
			"category":    "Electronics",
		}, true)
		w := httptest.NewRecorder()
		fixture.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		response := decodeResponse(t, w)
		assert.Equal(t, true, response["success"])

		product := response["product"].(map[string]interface{})
		productID, err := uuid.Parse(product["id"].(string))
		require.NoError(t, err)
		assert.Contains(t, product["image"], "https://cdn.test/products/")

		found, err := fixture.productRepo.FindByID(context.Background(), productID)
		require.NoError(t, err)
		assert.Equal(t, "Gaming Laptop", found.Name)

		var eventCount int
		require.NoError(t, testDB.DB.QueryRow(
			"SELECT COUNT(*) FROM events WHERE event_type = $1", model.EventTypeProductCreated).Scan(&eventCount))
		assert.Equal(t, 1, eventCount)
	})

	t.Run("create without a token is unauthorized", func(t *testing.T) {
		testDB.TruncateTables(t)

		req := fixture.productForm(t, http.MethodPost, "/api/products", "", map[string]string{
			"name": "Sneaky", "description": "No auth", "price": "1", "category": "Misc",
		}, true)
		w := httptest.NewRecorder()
		fixture.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var count int
		require.NoError(t, testDB.DB.QueryRow("SELECT COUNT(*) FROM products").Scan(&count))
		assert.Zero(t, count)
	})

	t.Run("non-admin token is forbidden", func(t *testing.T) {
		testDB.TruncateTables(t)

		viewerToken, err := fixture.tokens.Issue("viewer")
		require.NoError(t, err)

		req := fixture.productForm(t, http.MethodPost, "/api/products", viewerToken, map[string]string{
			"name": "Sneaky", "description": "Wrong role", "price": "1", "category": "Misc",
		}, true)
		w := httptest.NewRecorder()
		fixture.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("update replaces supplied fields and records an event", func(t *testing.T) {
		testDB.TruncateTables(t)

		created, err := fixture.productRepo.Create(context.Background(), &model.Product{
			Name: "Desk Lamp", Description: "Warm light", Price: 24.5, Category: "Home", Image: "img",
		})
		require.NoError(t, err)

		req := fixture.productForm(t, http.MethodPut, "/api/products/"+created.ID.String(), token,
			map[string]string{"price": "19.5"}, false)
		w := httptest.NewRecorder()
		fixture.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeResponse(t, w)
		product := response["product"].(map[string]interface{})
		assert.Equal(t, 19.5, product["price"])
		assert.Equal(t, "Desk Lamp", product["name"])

		var eventCount int
		require.NoError(t, testDB.DB.QueryRow(
			"SELECT COUNT(*) FROM events WHERE event_type = $1", model.EventTypeProductUpdated).Scan(&eventCount))
		assert.Equal(t, 1, eventCount)
	})

	t.Run("delete removes the product", func(t *testing.T) {
		testDB.TruncateTables(t)

		created, err := fixture.productRepo.Create(context.Background(), &model.Product{
			Name: "Desk Lamp", Description: "Warm light", Price: 24.5, Category: "Home", Image: "img",
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodDelete, "/api/products/"+created.ID.String(), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		fixture.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		getReq := httptest.NewRequest(http.MethodGet, "/api/products/"+created.ID.String(), nil)
		getW := httptest.NewRecorder()
		fixture.router.ServeHTTP(getW, getReq)
		assert.Equal(t, http.StatusNotFound, getW.Code)
	})
}

func TestProductAPI_Listing_Integration(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	fixture := setupAPI(t, testDB)
	ctx := context.Background()

	t.Run("listing is public and paginates with clamping", func(t *testing.T) {
		testDB.TruncateTables(t)

		for i := 1; i <= 25; i++ {
			_, err := fixture.productRepo.Create(ctx, &model.Product{
				Name:        fmt.Sprintf("Product %02d", i),
				Description: "Catalog item",
				Price:       float64(i),
				Category:    "Misc",
				Image:       "img",
			})
			require.NoError(t, err)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/products?sort=name&page=3&limit=10", nil)
		w := httptest.NewRecorder()
		fixture.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeResponse(t, w)
		assert.Equal(t, float64(3), response["page"])
		assert.Equal(t, float64(3), response["totalPages"])
		assert.Equal(t, float64(25), response["totalItems"])
		assert.Len(t, response["products"], 5)

		// A page past the end clamps to the last page instead of coming back empty.
		req = httptest.NewRequest(http.MethodGet, "/api/products?sort=name&page=999&limit=10", nil)
		w = httptest.NewRecorder()
		fixture.router.ServeHTTP(w, req)

		response = decodeResponse(t, w)
		assert.Equal(t, float64(3), response["page"])
		assert.Len(t, response["products"], 5)
	})

	t.Run("login then verify round-trip", func(t *testing.T) {
		body := bytes.NewBufferString(`{"email": "admin@example.com", "password": "correct-horse"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		fixture.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		token := decodeResponse(t, w)["token"].(string)

		verifyReq := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
		verifyReq.Header.Set("Authorization", "Bearer "+token)
		verifyW := httptest.NewRecorder()
		fixture.router.ServeHTTP(verifyW, verifyReq)

		assert.Equal(t, http.StatusOK, verifyW.Code)
		user := decodeResponse(t, verifyW)["user"].(map[string]interface{})
		assert.Equal(t, auth.RoleAdmin, user["role"])
	})
}
