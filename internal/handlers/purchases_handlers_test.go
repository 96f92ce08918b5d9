package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/artmarket/backend/internal/models"
)

func TestCreatePurchaseMarksArtworkSold(t *testing.T) {
	env := setupTestEnv(t)
	seller, _ := createTestUser(t, env.db, "gallery@example.com", "supersecret1", models.UserRoleSeller)
	artwork := createTestArtwork(t, env.db, seller.ID, "Blue Square", 780)

	resp := performJSONRequest(t, env.app, http.MethodPost, "/api/purchases/", map[string]any{
		"artworkId":  artwork.ID.String(),
		"buyerName":  "Jordan Collector",
		"buyerEmail": "jordan@example.com",
	}, nil)
	assertStatus(t, resp, http.StatusCreated)

	data := envelopeData(t, decodeJSONMap(t, resp))
	if data["message"] != "Purchase completed successfully" {
		t.Fatalf("unexpected message: %v", data["message"])
	}

	purchase, ok := data["purchase"].(map[string]any)
	if !ok {
		t.Fatalf("expected purchase object, got %+v", data["purchase"])
	}
	if purchase["status"] != "completed" {
		t.Fatalf("purchase must be recorded completed, got %v", purchase["status"])
	}
	if purchase["amount"].(float64) != 780.0 {
		t.Fatalf("amount must come from the artwork price, got %v", purchase["amount"])
	}
	if purchase["paymentMethod"] != "credit_card" {
		t.Fatalf("unexpected payment method: %v", purchase["paymentMethod"])
	}
	if txn, _ := purchase["transactionId"].(string); !strings.HasPrefix(txn, "TXN_") {
		t.Fatalf("unexpected transaction id: %v", purchase["transactionId"])
	}

	sellerRef, ok := purchase["seller"].(map[string]any)
	if !ok || sellerRef["id"] != seller.ID.String() {
		t.Fatalf("expected expanded seller, got %+v", purchase["seller"])
	}
	artworkRef, ok := purchase["artwork"].(map[string]any)
	if !ok || artworkRef["title"] != "Blue Square" {
		t.Fatalf("expected expanded artwork, got %+v", purchase["artwork"])
	}

	var reloaded models.Artwork
	if err := env.db.First(&reloaded, "id = ?", artwork.ID).Error; err != nil {
		t.Fatalf("failed reloading artwork: %v", err)
	}
	if reloaded.Status != models.ArtworkStatusSold {
		t.Fatalf("artwork must flip to sold, got %s", reloaded.Status)
	}
}

func TestCreatePurchaseDefaultsAnonymousBuyer(t *testing.T) {
	env := setupTestEnv(t)
	seller, _ := createTestUser(t, env.db, "anonseller@example.com", "supersecret1", models.UserRoleSeller)
	artwork := createTestArtwork(t, env.db, seller.ID, "Red Line", 120)

	resp := performJSONRequest(t, env.app, http.MethodPost, "/api/purchases/", map[string]any{
		"artworkId": artwork.ID.String(),
	}, nil)
	assertStatus(t, resp, http.StatusCreated)

	data := envelopeData(t, decodeJSONMap(t, resp))
	purchase := data["purchase"].(map[string]any)
	if purchase["buyerName"] != models.AnonymousBuyerName {
		t.Fatalf("expected anonymous buyer name, got %v", purchase["buyerName"])
	}
	if purchase["buyerEmail"] != models.AnonymousBuyerEmail {
		t.Fatalf("expected anonymous buyer email, got %v", purchase["buyerEmail"])
	}
}

func TestCreatePurchaseAlreadySold(t *testing.T) {
	env := setupTestEnv(t)
	seller, _ := createTestUser(t, env.db, "soldout@example.com", "supersecret1", models.UserRoleSeller)
	artwork := createTestArtwork(t, env.db, seller.ID, "One Off", 300)

	first := performJSONRequest(t, env.app, http.MethodPost, "/api/purchases/", map[string]any{
		"artworkId": artwork.ID.String(),
	}, nil)
	assertStatus(t, first, http.StatusCreated)
	first.Body.Close()

	second := performJSONRequest(t, env.app, http.MethodPost, "/api/purchases/", map[string]any{
		"artworkId": artwork.ID.String(),
	}, nil)
	assertStatus(t, second, http.StatusBadRequest)

	body := decodeJSONMap(t, second)
	assertEnvelopeError(t, body, "Conflict")
	if body["message"] != "This artwork is already sold" {
		t.Fatalf("unexpected message: %v", body["message"])
	}

	var count int64
	if err := env.db.Model(&models.Purchase{}).Where("artwork_id = ?", artwork.ID).Count(&count).Error; err != nil {
		t.Fatalf("failed counting purchases: %v", err)
	}
	if count != 1 {
		t.Fatalf("exactly one purchase may exist per artwork, got %d", count)
	}
}

func TestCreatePurchaseUnknownArtwork(t *testing.T) {
	env := setupTestEnv(t)

	resp := performJSONRequest(t, env.app, http.MethodPost, "/api/purchases/", map[string]any{
		"artworkId": "7b5d0a41-93e4-4f5e-9a34-43bb6ad4f0cf",
	}, nil)
	assertStatus(t, resp, http.StatusNotFound)

	body := decodeJSONMap(t, resp)
	if body["message"] != "Artwork not found" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestCreatePurchaseValidationErrors(t *testing.T) {
	env := setupTestEnv(t)

	resp := performJSONRequest(t, env.app, http.MethodPost, "/api/purchases/", map[string]any{
		"artworkId":  "",
		"buyerEmail": "not-an-email",
	}, nil)
	assertStatus(t, resp, http.StatusBadRequest)

	body := decodeJSONMap(t, resp)
	assertEnvelopeError(t, body, "ValidationFailed")
	details := validationDetails(t, body)
	if _, present := details["artworkId"]; !present {
		t.Fatalf("expected artworkId detail, got %+v", details)
	}
	if _, present := details["buyerEmail"]; !present {
		t.Fatalf("expected buyerEmail detail, got %+v", details)
	}
}

func TestPurchaseHistoryForSeller(t *testing.T) {
	env := setupTestEnv(t)
	seller, sellerToken := createTestUser(t, env.db, "historyseller@example.com", "supersecret1", models.UserRoleSeller)
	other, otherToken := createTestUser(t, env.db, "bystander@example.com", "supersecret1", models.UserRoleBuyer)

	artwork := createTestArtwork(t, env.db, seller.ID, "Sold Piece", 150)
	sale := performJSONRequest(t, env.app, http.MethodPost, "/api/purchases/", map[string]any{
		"artworkId": artwork.ID.String(),
	}, nil)
	assertStatus(t, sale, http.StatusCreated)
	sale.Body.Close()

	sold := performRequest(t, env.app, http.MethodGet, "/api/purchases/history?type=sold", nil, authHeaders(sellerToken))
	assertStatus(t, sold, http.StatusOK)
	soldList := envelopeList(t, decodeJSONMap(t, sold))
	if len(soldList) != 1 {
		t.Fatalf("expected 1 sold purchase, got %d", len(soldList))
	}

	combined := performRequest(t, env.app, http.MethodGet, "/api/purchases/history", nil, authHeaders(sellerToken))
	assertStatus(t, combined, http.StatusOK)
	if got := len(envelopeList(t, decodeJSONMap(t, combined))); got != 1 {
		t.Fatalf("expected 1 purchase in combined history, got %d", got)
	}

	empty := performRequest(t, env.app, http.MethodGet, "/api/purchases/history", nil, authHeaders(otherToken))
	assertStatus(t, empty, http.StatusOK)
	if got := len(envelopeList(t, decodeJSONMap(t, empty))); got != 0 {
		t.Fatalf("uninvolved user %s must see an empty history, got %d entries", other.Email, got)
	}
}

func TestPurchaseHistoryRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)

	resp := performRequest(t, env.app, http.MethodGet, "/api/purchases/history", nil, nil)
	assertStatus(t, resp, http.StatusUnauthorized)
}

func TestGetPurchaseVisibility(t *testing.T) {
	env := setupTestEnv(t)
	seller, sellerToken := createTestUser(t, env.db, "viewseller@example.com", "supersecret1", models.UserRoleSeller)
	_, strangerToken := createTestUser(t, env.db, "stranger@example.com", "supersecret1", models.UserRoleBuyer)

	artwork := createTestArtwork(t, env.db, seller.ID, "Viewable", 220)
	sale := performJSONRequest(t, env.app, http.MethodPost, "/api/purchases/", map[string]any{
		"artworkId": artwork.ID.String(),
	}, nil)
	assertStatus(t, sale, http.StatusCreated)
	purchase := envelopeData(t, decodeJSONMap(t, sale))["purchase"].(map[string]any)
	purchaseID := purchase["id"].(string)

	asSeller := performRequest(t, env.app, http.MethodGet, "/api/purchases/"+purchaseID, nil, authHeaders(sellerToken))
	assertStatus(t, asSeller, http.StatusOK)
	asSeller.Body.Close()

	asStranger := performRequest(t, env.app, http.MethodGet, "/api/purchases/"+purchaseID, nil, authHeaders(strangerToken))
	assertStatus(t, asStranger, http.StatusForbidden)

	body := decodeJSONMap(t, asStranger)
	if body["message"] != "Not authorized to view this purchase" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestGetPurchaseNotFound(t *testing.T) {
	env := setupTestEnv(t)
	_, token := createTestUser(t, env.db, "lookup@example.com", "supersecret1", models.UserRoleBuyer)

	resp := performRequest(t, env.app, http.MethodGet, "/api/purchases/99d9b6a1-2c43-4cc8-a2a0-6a90e2f6cf21", nil, authHeaders(token))
	assertStatus(t, resp, http.StatusNotFound)

	body := decodeJSONMap(t, resp)
	if body["message"] != "Purchase not found" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}
