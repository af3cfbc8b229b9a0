package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func multipartBody(t *testing.T, filename, contentType string, size int) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="images"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	if _, err := part.Write(bytes.Repeat([]byte("x"), size)); err != nil {
		t.Fatalf("failed to write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	return buf, writer.FormDataContentType()
}

type imageApp struct {
	app      *fiber.App
	animalID string
}

func newImageApp(t *testing.T) (*imageApp, *memStore) {
	t.Helper()
	db := newTestDB(t)
	store := newMemStore()
	app := newTestApp()
	handler := &ImageHandler{DB: db, Store: store}
	app.Post("/api/animals/:id/images", handler.UploadImages)
	app.Get("/api/animals/:id/images", handler.ListImages)
	app.Patch("/api/animals/:id/images/:imageId/primary", handler.SetPrimaryImage)

	animal := seedAnimal(t, db, "Rex", "dog")
	return &imageApp{app: app, animalID: animal.ID}, store
}

func uploadImage(t *testing.T, ia *imageApp, filename string) string {
	t.Helper()
	buf, contentType := multipartBody(t, filename, "image/jpeg", 64)
	req := httptest.NewRequest(http.MethodPost, "/api/animals/"+ia.animalID+"/images", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := ia.app.Test(req)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	images, ok := body["images"].([]interface{})
	if !ok || len(images) != 1 {
		t.Fatalf("expected one uploaded image: %v", body)
	}
	image, _ := images[0].(map[string]interface{})
	id, _ := image["id"].(string)
	if id == "" {
		t.Fatalf("uploaded image has no id: %v", image)
	}
	return id
}

func TestUploadImagesRejectsEmptyForm(t *testing.T) {
	ia, _ := newImageApp(t)

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/animals/"+ia.animalID+"/images", buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := ia.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if !strings.Contains(errMsg(t, body), "No files provided") {
		t.Errorf("unexpected message: %v", body)
	}
}

func TestUploadImagesRejectsOversizeFile(t *testing.T) {
	ia, store := newImageApp(t)

	buf, contentType := multipartBody(t, "big.jpg", "image/jpeg", maxImageSize+1)
	req := httptest.NewRequest(http.MethodPost, "/api/animals/"+ia.animalID+"/images", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := ia.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if !strings.Contains(errMsg(t, body), "exceeds 10MB limit") {
		t.Errorf("unexpected message: %v", body)
	}
	if len(store.objects) != 0 {
		t.Error("nothing should be stored when validation fails")
	}
}

func TestUploadImagesRejectsNonImage(t *testing.T) {
	ia, store := newImageApp(t)

	buf, contentType := multipartBody(t, "notes.txt", "text/plain", 16)
	req := httptest.NewRequest(http.MethodPost, "/api/animals/"+ia.animalID+"/images", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := ia.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if !strings.Contains(errMsg(t, body), "is not an image") {
		t.Errorf("unexpected message: %v", body)
	}
	if len(store.objects) != 0 {
		t.Error("nothing should be stored when validation fails")
	}
}

func TestUploadImagesSuccess(t *testing.T) {
	ia, store := newImageApp(t)

	buf, contentType := multipartBody(t, "rex.jpg", "image/jpeg", 128)
	req := httptest.NewRequest(http.MethodPost, "/api/animals/"+ia.animalID+"/images", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := ia.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	images, ok := body["images"].([]interface{})
	if !ok || len(images) != 1 {
		t.Fatalf("expected one uploaded image: %v", body)
	}
	first, _ := images[0].(map[string]interface{})
	if first["isPrimary"] != true {
		t.Errorf("first image should be primary: %v", first)
	}
	if len(store.objects) != 1 {
		t.Errorf("expected one stored object, got %d", len(store.objects))
	}
}

func TestSetPrimaryImageAcceptsPatch(t *testing.T) {
	ia, _ := newImageApp(t)

	uploadImage(t, ia, "first.jpg")
	secondID := uploadImage(t, ia, "second.jpg")

	req := httptest.NewRequest(http.MethodPatch,
		"/api/animals/"+ia.animalID+"/images/"+secondID+"/primary", nil)
	resp, err := ia.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	image, ok := body["image"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected image in response: %v", body)
	}
	if image["id"] != secondID {
		t.Errorf("unexpected image promoted: %v", image)
	}
	if image["isPrimary"] != true {
		t.Errorf("image should be primary: %v", image)
	}
}

func TestUploadImagesMissingAnimal(t *testing.T) {
	ia, _ := newImageApp(t)

	buf, contentType := multipartBody(t, "rex.jpg", "image/jpeg", 16)
	req := httptest.NewRequest(http.MethodPost, "/api/animals/missing/images", buf)
	req.Header.Set("Content-Type", contentType)

	resp, err := ia.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
