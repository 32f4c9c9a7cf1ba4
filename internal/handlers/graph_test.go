package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/boxaid/boxaid/internal/config"
	"github.com/boxaid/boxaid/internal/database"
	"github.com/boxaid/boxaid/internal/models"
	"github.com/boxaid/boxaid/internal/utils"
)

var (
	testDB     *database.DB
	testRouter *Router
)

const testSecret = "graph-test-secret"

func TestMain(m *testing.M) {
	dataPath, err := os.MkdirTemp("", "handlers-test-pg-*")
	if err != nil {
		log.Fatalf("Failed to create temp dir: %v", err)
	}

	testDB, err = database.Connect(config.DatabaseConfig{
		Host:             "localhost",
		Username:         "postgres",
		Database:         "boxaid_test",
		EmbeddedDataPath: dataPath,
		EmbeddedPort:     5502,
	})
	if err != nil {
		log.Fatalf("Failed to start test database: %v", err)
	}

	if err := database.Migrate(testDB); err != nil {
		testDB.Close()
		log.Fatalf("Failed to migrate test schema: %v", err)
	}

	testRouter = NewRouter(testDB, &config.Config{JWTSecret: testSecret, Port: "0"})

	code := m.Run()

	testDB.Close()
	os.RemoveAll(dataPath)
	os.Exit(code)
}

type testWorld struct {
	User       *models.User
	BaseIDs    []uint
	LocationID uint
	ProductID  uint
}

// seedWorld creates an organisation with two permitted bases plus a user,
// location and product to operate on.
func seedWorld(t *testing.T) testWorld {
	t.Helper()

	suffix := time.Now().UnixNano()
	org := models.Organisation{Name: fmt.Sprintf("Org-%d", suffix)}
	if err := testDB.Create(&org).Error; err != nil {
		t.Fatalf("Failed to seed organisation: %v", err)
	}

	var baseIDs []uint
	var firstBase models.Base
	for i := 0; i < 2; i++ {
		base := models.Base{OrganisationID: org.ID, Name: fmt.Sprintf("Base %d-%d", i, suffix)}
		if err := testDB.Create(&base).Error; err != nil {
			t.Fatalf("Failed to seed base: %v", err)
		}
		baseIDs = append(baseIDs, base.ID)
		if i == 0 {
			firstBase = base
		}
	}

	loc := models.Location{BaseID: firstBase.ID, Name: "WH1"}
	if err := testDB.Create(&loc).Error; err != nil {
		t.Fatalf("Failed to seed location: %v", err)
	}
	product := models.Product{BaseID: firstBase.ID, Name: "Blankets"}
	if err := testDB.Create(&product).Error; err != nil {
		t.Fatalf("Failed to seed product: %v", err)
	}

	user := models.User{
		Email:          fmt.Sprintf("vol-%d@boxaid.org", suffix),
		Password:       "x",
		OrganisationID: org.ID,
	}
	if err := testDB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}

	return testWorld{User: &user, BaseIDs: baseIDs, LocationID: loc.ID, ProductID: product.ID}
}

func graphCall(t *testing.T, token string, fields map[string]interface{}) (*httptest.ResponseRecorder, graphResponse) {
	t.Helper()

	payload, err := json.Marshal(map[string]interface{}{"fields": fields})
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/graph", bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	testRouter.ServeHTTP(rec, req)

	var resp graphResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return rec, resp
}

func signToken(t *testing.T, w testWorld, permissions ...string) string {
	t.Helper()
	token, err := utils.GenerateToken(w.User, w.BaseIDs, permissions, testSecret)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func TestGraphRequiresToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/graph", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	testRouter.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}
}

// TestForbiddenBaseIsFieldLocal requests a base outside the permitted set
// alongside a sibling field. The denied field must be null with one
// FORBIDDEN error; the sibling must resolve normally.
func TestForbiddenBaseIsFieldLocal(t *testing.T) {
	w := seedWorld(t)
	token := signToken(t, w)

	forbiddenID := w.BaseIDs[len(w.BaseIDs)-1] + 1000

	rec, resp := graphCall(t, token, map[string]interface{}{
		"base":  map[string]interface{}{"id": forbiddenID},
		"bases": map[string]interface{}{},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Batch must return 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if resp.Data["base"] != nil {
		t.Errorf("Denied field must be null, got %v", resp.Data["base"])
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("Expected exactly one error, got %d: %+v", len(resp.Errors), resp.Errors)
	}
	if resp.Errors[0].Extensions.Code != "FORBIDDEN" {
		t.Errorf("Expected FORBIDDEN, got %s", resp.Errors[0].Extensions.Code)
	}

	bases, ok := resp.Data["bases"].([]interface{})
	if !ok {
		t.Fatalf("Sibling field must still resolve, got %T", resp.Data["bases"])
	}
	if len(bases) != len(w.BaseIDs) {
		t.Errorf("Expected %d permitted bases, got %d", len(w.BaseIDs), len(bases))
	}
}

func TestPermittedBaseResolves(t *testing.T) {
	w := seedWorld(t)
	token := signToken(t, w)

	rec, resp := graphCall(t, token, map[string]interface{}{
		"base": map[string]interface{}{"id": w.BaseIDs[0]},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if len(resp.Errors) != 0 {
		t.Fatalf("Expected no errors, got %+v", resp.Errors)
	}
	base, ok := resp.Data["base"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected base object, got %T", resp.Data["base"])
	}
	if uint(base["id"].(float64)) != w.BaseIDs[0] {
		t.Errorf("Expected base %d, got %v", w.BaseIDs[0], base["id"])
	}
}

func TestCreateBoxRequiresPermission(t *testing.T) {
	w := seedWorld(t)
	token := signToken(t, w) // no stock:write

	var before int64
	testDB.Model(&models.Box{}).Count(&before)

	rec, resp := graphCall(t, token, map[string]interface{}{
		"createBox": map[string]interface{}{
			"productId":  w.ProductID,
			"locationId": w.LocationID,
			"items":      99,
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if resp.Data["createBox"] != nil {
		t.Errorf("Denied mutation must yield null, got %v", resp.Data["createBox"])
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Extensions.Code != "FORBIDDEN" {
		t.Fatalf("Expected one FORBIDDEN error, got %+v", resp.Errors)
	}

	var after int64
	testDB.Model(&models.Box{}).Count(&after)
	if before != after {
		t.Error("Denied mutation must not persist anything")
	}
}

func TestCreateBoxEndToEnd(t *testing.T) {
	w := seedWorld(t)
	token := signToken(t, w, PermStockWrite)

	rec, resp := graphCall(t, token, map[string]interface{}{
		"createBox": map[string]interface{}{
			"productId":  w.ProductID,
			"locationId": w.LocationID,
			"items":      99,
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(resp.Errors) != 0 {
		t.Fatalf("Expected no errors, got %+v", resp.Errors)
	}

	box, ok := resp.Data["createBox"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected box object, got %T", resp.Data["createBox"])
	}
	label, _ := box["labelIdentifier"].(string)
	if label == "" || len(label) > models.BoxLabelLength {
		t.Errorf("Expected freshly minted label within bound, got %q", label)
	}
	if box["state"] != models.BoxStateInStock {
		t.Errorf("Expected state InStock, got %v", box["state"])
	}
	if int(box["items"].(float64)) != 99 {
		t.Errorf("Expected 99 items, got %v", box["items"])
	}

	// The created box is retrievable by label.
	rec, resp = graphCall(t, token, map[string]interface{}{
		"box": map[string]interface{}{"labelIdentifier": label},
	})
	if rec.Code != http.StatusOK || len(resp.Errors) != 0 {
		t.Fatalf("Fetch by label failed: %d %+v", rec.Code, resp.Errors)
	}
}

func TestUpdateBoxEndToEnd(t *testing.T) {
	w := seedWorld(t)
	token := signToken(t, w, PermStockWrite)

	_, createResp := graphCall(t, token, map[string]interface{}{
		"createBox": map[string]interface{}{
			"productId":  w.ProductID,
			"locationId": w.LocationID,
			"items":      5,
		},
	})
	box := createResp.Data["createBox"].(map[string]interface{})
	label := box["labelIdentifier"].(string)

	rec, resp := graphCall(t, token, map[string]interface{}{
		"updateBox": map[string]interface{}{
			"labelIdentifier": label,
			"items":           7,
		},
	})
	if rec.Code != http.StatusOK || len(resp.Errors) != 0 {
		t.Fatalf("Update failed: %d %+v", rec.Code, resp.Errors)
	}
	updated := resp.Data["updateBox"].(map[string]interface{})
	if int(updated["items"].(float64)) != 7 {
		t.Errorf("Expected items 7, got %v", updated["items"])
	}
}

func TestQrExistsAbsenceIsNotAnError(t *testing.T) {
	w := seedWorld(t)
	token := signToken(t, w)

	rec, resp := graphCall(t, token, map[string]interface{}{
		"qrExists": map[string]interface{}{"code": "never-minted"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if len(resp.Errors) != 0 {
		t.Fatalf("Absence is a valid state, got errors %+v", resp.Errors)
	}
	if exists, ok := resp.Data["qrExists"].(bool); !ok || exists {
		t.Errorf("Expected false, got %v", resp.Data["qrExists"])
	}
}

func TestUnknownFieldReported(t *testing.T) {
	w := seedWorld(t)
	token := signToken(t, w)

	_, resp := graphCall(t, token, map[string]interface{}{
		"beneficiaries": map[string]interface{}{},
	})
	if len(resp.Errors) != 1 || resp.Errors[0].Extensions.Code != "BAD_USER_INPUT" {
		t.Errorf("Expected BAD_USER_INPUT for unknown field, got %+v", resp.Errors)
	}
}
