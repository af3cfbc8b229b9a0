package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestCreateAndListAnimals(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp()
	handler := &AnimalHandler{DB: db, Store: newMemStore()}
	app.Post("/api/animals", handler.CreateAnimal)
	app.Get("/api/animals", handler.ListAnimals)

	payload := map[string]interface{}{
		"name":       "Rex",
		"type":       "dog",
		"breed":      "Terrier mix",
		"vaccinated": true,
	}
	encoded, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/animals", bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	animal, ok := body["animal"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing animal in response: %v", body)
	}
	if animal["id"] == "" || animal["name"] != "Rex" {
		t.Errorf("unexpected animal payload: %v", animal)
	}

	listResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/animals", nil))
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	listBody := decodeBody(t, listResp)
	animals, ok := listBody["animals"].([]interface{})
	if !ok || len(animals) != 1 {
		t.Errorf("expected one listed animal: %v", listBody)
	}
}

func TestCreateAnimalRequiresNameAndType(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp()
	handler := &AnimalHandler{DB: db, Store: newMemStore()}
	app.Post("/api/animals", handler.CreateAnimal)

	req := httptest.NewRequest(http.MethodPost, "/api/animals", bytes.NewReader([]byte(`{"breed":"mix"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetAnimalNotFound(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp()
	handler := &AnimalHandler{DB: db, Store: newMemStore()}
	app.Get("/api/animals/:id", handler.GetAnimal)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/animals/missing", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["ok"] != false {
		t.Errorf("error envelope missing ok=false: %v", body)
	}
}

func TestDeleteAnimal(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp()
	handler := &AnimalHandler{DB: db, Store: newMemStore()}
	app.Delete("/api/animals/:id", handler.DeleteAnimal)

	animal := seedAnimal(t, db, "Rex", "dog")

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/animals/"+animal.ID, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	again, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/animals/"+animal.ID, nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if again.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", again.StatusCode)
	}
}
