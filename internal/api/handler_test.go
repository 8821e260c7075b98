package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/SherClockHolmes/webpush-go"

	"smart-cart-backend/internal/collection"
	"smart-cart-backend/internal/model"
	"smart-cart-backend/internal/scanner"
	"smart-cart-backend/internal/store"
)

type stubProbe struct {
	err error
}

func (p *stubProbe) ScannerHealth(ctx context.Context) error { return p.err }

type stubSource struct {
	barcode string
	err     error
}

func (s *stubSource) AcquireBarcode(ctx context.Context) (string, error) {
	return s.barcode, s.err
}

type stubResolver struct {
	product *model.Product
	err     error
}

func (r *stubResolver) ResolveProduct(ctx context.Context, barcode string) (*model.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.product != nil {
		p := *r.product
		p.Barcode = barcode
		return &p, nil
	}
	return nil, scanner.ErrProductNotFound
}

type fixture struct {
	router   *gin.Engine
	store    *store.GormStore
	coll     *collection.Collection
	conn     *scanner.Controller
	workflow *scanner.Workflow
	probe    *stubProbe
	source   *stubSource
	resolver *stubResolver
	db       *gorm.DB
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Folder{}, &model.ScannedItem{}, &model.PushSubscription{}))

	s := store.NewGormStore(db)
	coll := collection.New()
	probe := &stubProbe{}
	source := &stubSource{barcode: "4006381333931"}
	resolver := &stubResolver{product: &model.Product{
		Name:     "Peanut Butter",
		Brand:    "NutCo",
		Quantity: "500g",
		Calories: 588,
		Protein:  "25g",
		Carbs:    "20g",
		Fats:     "50g",
	}}

	log := zerolog.Nop()
	conn := scanner.NewController(probe, log)
	workflow := scanner.NewWorkflow(conn, source, resolver, s, s, coll, nil, log)

	handler := NewHandler(s, s, coll, conn, workflow, db, &webpush.Options{VAPIDPublicKey: "test-public-key"}, log)
	router := NewRouter(handler, 1000, 1000, log)

	return &fixture{
		router:   router,
		store:    s,
		coll:     coll,
		conn:     conn,
		workflow: workflow,
		probe:    probe,
		source:   source,
		resolver: resolver,
		db:       db,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) createFolder(t *testing.T, name string) model.Folder {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/folders", gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code)
	var folder model.Folder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &folder))
	return folder
}

func TestScannerEndpoints(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/scanner/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"disconnected"}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/scanner/connect", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"connected"}`, w.Body.String())

	w = f.do(t, http.MethodPost, "/api/scanner/disconnect", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"disconnected"}`, w.Body.String())
}

func TestConnectScannerFailure(t *testing.T) {
	f := newFixture(t)
	f.probe.err = fmt.Errorf("dial tcp: connection refused")

	w := f.do(t, http.MethodPost, "/api/scanner/connect", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, scanner.Disconnected, f.conn.State())
}

func TestFolderLifecycle(t *testing.T) {
	f := newFixture(t)

	folder := f.createFolder(t, "Groceries")
	assert.NotEmpty(t, folder.ID)
	assert.Equal(t, "Groceries", folder.Name)

	w := f.do(t, http.MethodGet, "/api/folders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var folders []model.Folder
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &folders))
	assert.Len(t, folders, 1)

	w = f.do(t, http.MethodDelete, "/api/folders/"+folder.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodDelete, "/api/folders/"+folder.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateFolderRequiresName(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodPost, "/api/folders", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteActiveFolderClearsSelection(t *testing.T) {
	f := newFixture(t)
	folder := f.createFolder(t, "Groceries")

	w := f.do(t, http.MethodPut, "/api/folders/"+folder.ID+"/activate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, folder.ID, f.workflow.ActiveFolder())

	w = f.do(t, http.MethodDelete, "/api/folders/"+folder.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "", f.workflow.ActiveFolder())
}

func TestActivateFolderReloadsItems(t *testing.T) {
	f := newFixture(t)
	folder := f.createFolder(t, "Groceries")

	_, err := f.store.CreateItem(context.Background(), model.ScannedItem{
		ID:       "item-1",
		FolderID: folder.ID,
		Name:     "Oat Bar",
		Protein:  "5g",
	})
	require.NoError(t, err)

	w := f.do(t, http.MethodPut, "/api/folders/"+folder.ID+"/activate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	items := f.coll.ForFolder(folder.ID)
	require.Len(t, items, 1)
	assert.Equal(t, "Oat Bar", items[0].Name)

	w = f.do(t, http.MethodPut, "/api/folders/missing/activate", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTriggerScanEndpoint(t *testing.T) {
	f := newFixture(t)
	folder := f.createFolder(t, "Groceries")

	// Not connected yet.
	w := f.do(t, http.MethodPost, "/api/scan", gin.H{"folder_id": folder.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/scanner/connect", nil).Code)

	// No folder in body and none active.
	w = f.do(t, http.MethodPost, "/api/scan", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Explicit folder.
	w = f.do(t, http.MethodPost, "/api/scan", gin.H{"folder_id": folder.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	var item model.ScannedItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, "Peanut Butter", item.Name)
	assert.Equal(t, folder.ID, item.FolderID)

	// Active folder fallback.
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/api/folders/"+folder.ID+"/activate", nil).Code)
	w = f.do(t, http.MethodPost, "/api/scan", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Device read nothing.
	f.source.barcode = ""
	w = f.do(t, http.MethodPost, "/api/scan", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestTriggerScanUnknownProduct(t *testing.T) {
	f := newFixture(t)
	folder := f.createFolder(t, "Groceries")
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/scanner/connect", nil).Code)

	f.resolver.product = nil
	w := f.do(t, http.MethodPost, "/api/scan", gin.H{"folder_id": folder.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	var item model.ScannedItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, "Unknown Product", item.Name)
	assert.Equal(t, "4006381333931", item.Barcode)
}

func TestGetFolderItems(t *testing.T) {
	f := newFixture(t)
	folder := f.createFolder(t, "Groceries")

	w := f.do(t, http.MethodGet, "/api/folders/"+folder.ID+"/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	_, err := f.store.CreateItem(context.Background(), model.ScannedItem{
		ID: "item-1", FolderID: folder.ID, Name: "Oat Bar",
	})
	require.NoError(t, err)

	w = f.do(t, http.MethodGet, "/api/folders/"+folder.ID+"/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []model.ScannedItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Len(t, f.coll.ForFolder(folder.ID), 1, "fetch reloads the collection")
}

func TestDeleteAndClearItems(t *testing.T) {
	f := newFixture(t)
	folder := f.createFolder(t, "Groceries")
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/scanner/connect", nil).Code)
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPut, "/api/folders/"+folder.ID+"/activate", nil).Code)

	w := f.do(t, http.MethodPost, "/api/scan", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var item model.ScannedItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))

	w = f.do(t, http.MethodDelete, "/api/items/"+item.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, f.coll.ForFolder(folder.ID))

	w = f.do(t, http.MethodPost, "/api/scan", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodDelete, "/api/items", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, f.coll.Len())
	assert.Equal(t, "", f.workflow.ActiveFolder(), "sign-out clears the active folder")
}

func TestFolderAnalysis(t *testing.T) {
	f := newFixture(t)
	folder := f.createFolder(t, "Groceries")

	// Empty folder short-circuits to the no-items insight.
	w := f.do(t, http.MethodGet, "/api/folders/"+folder.ID+"/analysis", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Totals struct {
			Calories float64 `json:"calories"`
			Protein  float64 `json:"protein"`
		} `json:"totals"`
		Percentages struct {
			Protein int `json:"protein"`
		} `json:"percentages"`
		Insights []struct {
			Severity string `json:"severity"`
			Message  string `json:"message"`
		} `json:"insights"`
		Stats struct {
			TotalItems    int    `json:"totalItems"`
			TotalCalories int    `json:"totalCalories"`
			TotalProtein  string `json:"totalProtein"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Insights, 1)
	assert.Equal(t, "No items to analyze", resp.Insights[0].Message)

	f.coll.Append(model.ScannedItem{
		ID: "i1", FolderID: folder.ID, Calories: 300, Protein: "20g", Carbs: "30g", Fats: "10g",
	})

	w = f.do(t, http.MethodGet, "/api/folders/"+folder.ID+"/analysis", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(300), resp.Totals.Calories)
	assert.Equal(t, float64(20), resp.Totals.Protein)
	assert.Equal(t, 33, resp.Percentages.Protein)
	assert.Equal(t, 1, resp.Stats.TotalItems)
	assert.Equal(t, 300, resp.Stats.TotalCalories)
	assert.Equal(t, "20g", resp.Stats.TotalProtein)
	require.NotEmpty(t, resp.Insights)
	assert.Equal(t, "Consider adding more protein", resp.Insights[0].Message)
}

func TestSubscriptionLifecycle(t *testing.T) {
	f := newFixture(t)
	folder := f.createFolder(t, "Groceries")

	w := f.do(t, http.MethodPut, "/api/subscriptions", gin.H{
		"endpoint":           "https://push.example/abc",
		"p256dh":             "key",
		"auth":               "secret",
		"subscribed_folders": []string{folder.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodGet, "/api/subscriptions?endpoint="+url.QueryEscape("https://push.example/abc"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		SubscribedFolders []string `json:"subscribed_folders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []string{folder.ID}, got.SubscribedFolders)

	w = f.do(t, http.MethodDelete, "/api/subscriptions", gin.H{"endpoint": "https://push.example/abc"})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/api/subscriptions?endpoint="+url.QueryEscape("https://push.example/abc"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVAPIDPublicKey(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/vapid_public_key", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"public_key":"test-public-key"}`, w.Body.String())
}
