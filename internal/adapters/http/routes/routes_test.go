package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"courrier-registry/internal/adapters/http/middleware"
	"courrier-registry/internal/adapters/persistence/dbtest"
	"courrier-registry/internal/adapters/storage"
	"courrier-registry/internal/config"

	"github.com/gofiber/fiber/v2"
)

const courrierJSON = `{"numCourrier":"COUD-2023-001","objet":"Demande","type":"INTERNE","nature":"DEPART",` +
	`"destinataire":"Service A","expediteur":"Direction","date":"2023-01-10"}`

const userJSON = `{"nom":"Diop","prenom":"Moussa","username":"mdiop","matricule":"EMP001",` +
	`"roleFonction":"Secretaire","email":"mdiop@x.sn","password":"secret1","telephone":"770000000"}`

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		AppMode:     "dev",
		Attachments: config.AttachmentConfig{MaxUploadMB: 1},
		Security:    config.SecurityConfig{BcryptCost: 4},
	}
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	app := fiber.New(middleware.FiberConfig(cfg))
	middleware.Setup(app, cfg)
	Setup(app, dbtest.NewTestDB(t), cfg, store)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, []byte) {
	t.Helper()

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

func decode(t *testing.T, b []byte, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(b, dst); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
}

func TestRoot(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, "GET", "/", "")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", status)
	}
	var payload map[string]string
	decode(t, body, &payload)
	if payload["message"] != "Bienvenue sur l'API de Gestion des Courriers" || payload["version"] != "1.0.0" {
		t.Fatalf("unexpected welcome payload %v", payload)
	}

	if status, _ := do(t, app, "GET", "/health", ""); status != fiber.StatusOK {
		t.Fatalf("expected healthy database got %d", status)
	}
}

func TestCourrierLifecycle(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, "POST", "/api/courriers", courrierJSON)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", status, body)
	}
	var created map[string]interface{}
	decode(t, body, &created)
	if created["id"].(float64) == 0 || created["date"] != "2023-01-10" || created["pdfFile"] != nil {
		t.Fatalf("unexpected courrier %v", created)
	}
	if suivis, ok := created["suivis"].([]interface{}); !ok || len(suivis) != 0 {
		t.Fatalf("expected empty suivis array got %v", created["suivis"])
	}

	status, body = do(t, app, "POST", "/api/courriers", courrierJSON)
	if status != fiber.StatusConflict {
		t.Fatalf("expected 409 got %d: %s", status, body)
	}

	status, body = do(t, app, "GET", "/api/courriers/check/numero/COUD-2023-001", "")
	if status != fiber.StatusOK || string(body) != "true" {
		t.Fatalf("expected true got %d %s", status, body)
	}

	for _, path := range []string{
		"/api/courriers/numero/COUD-2023-001",
		"/api/courriers/type/interne",
		"/api/courriers/nature/DEPART",
		"/api/courriers/date/2023-01-10",
		"/api/courriers/date-between?startDate=2023-01-01&endDate=2023-01-10",
		"/api/courriers/destinataire/Service%20A",
		"/api/courriers/expediteur/Direction",
		"/api/courriers/objet/DEMAN",
	} {
		status, body := do(t, app, "GET", path, "")
		if status != fiber.StatusOK {
			t.Fatalf("%s: expected 200 got %d: %s", path, status, body)
		}
		if !strings.Contains(string(body), "COUD-2023-001") {
			t.Fatalf("%s: courrier missing from %s", path, body)
		}
	}

	for path, want := range map[string]int{
		"/api/courriers/abc":                      fiber.StatusBadRequest,
		"/api/courriers/999":                      fiber.StatusNotFound,
		"/api/courriers/type/AUTRE":               fiber.StatusBadRequest,
		"/api/courriers/date/10-01-2023":          fiber.StatusBadRequest,
		"/api/courriers/date-between?startDate=x": fiber.StatusBadRequest,
		"/api/courriers/numero/UNKNOWN":           fiber.StatusNotFound,
	} {
		if status, body := do(t, app, "GET", path, ""); status != want {
			t.Fatalf("%s: expected %d got %d: %s", path, want, status, body)
		}
	}

	status, body = do(t, app, "PUT", "/api/courriers/1", strings.Replace(courrierJSON, "Demande", "Relance", 1))
	if status != fiber.StatusOK || !strings.Contains(string(body), "Relance") {
		t.Fatalf("update: %d %s", status, body)
	}
}

func TestDeleteCourrierCascadesOverHTTP(t *testing.T) {
	app := newTestApp(t)

	if status, body := do(t, app, "POST", "/api/courriers", courrierJSON); status != fiber.StatusCreated {
		t.Fatalf("create: %d %s", status, body)
	}
	for _, instr := range []string{"Classer", "Repondre"} {
		status, body := do(t, app, "POST", "/api/suivis", `{"courrierId":1,"instruction":"`+instr+`","date":"2023-01-11"}`)
		if status != fiber.StatusCreated {
			t.Fatalf("create suivi: %d %s", status, body)
		}
	}

	status, body := do(t, app, "GET", "/api/courriers/1", "")
	var c struct {
		Suivis []struct {
			Instruction string `json:"instruction"`
			CourrierID  uint   `json:"courrierId"`
		} `json:"suivis"`
	}
	decode(t, body, &c)
	if status != fiber.StatusOK || len(c.Suivis) != 2 || c.Suivis[0].Instruction != "Classer" || c.Suivis[1].CourrierID != 1 {
		t.Fatalf("unexpected courrier %d %s", status, body)
	}

	if status, _ := do(t, app, "DELETE", "/api/courriers/1", ""); status != fiber.StatusNoContent {
		t.Fatalf("expected 204 got %d", status)
	}
	status, body = do(t, app, "GET", "/api/suivis/courrier/1", "")
	if status != fiber.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected empty list got %d %s", status, body)
	}
	if status, _ := do(t, app, "DELETE", "/api/courriers/1", ""); status != fiber.StatusNotFound {
		t.Fatalf("expected 404 got %d", status)
	}
}

func TestSuiviErrors(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, "POST", "/api/suivis", `{"courrierId":999999,"instruction":"Classer","date":"2023-01-11"}`)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 got %d: %s", status, body)
	}

	status, body = do(t, app, "POST", "/api/suivis", `{"instruction":"Classer","date":"2023-01-11"}`)
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", status, body)
	}
	var errBody struct {
		Success bool              `json:"success"`
		Fields  map[string]string `json:"fields"`
	}
	decode(t, body, &errBody)
	if errBody.Success || errBody.Fields["courrierId"] == "" {
		t.Fatalf("expected a courrierId message got %s", body)
	}

	if status, _ := do(t, app, "DELETE", "/api/suivis/courrier/42", ""); status != fiber.StatusNotFound {
		t.Fatalf("expected 404 got %d", status)
	}
}

func uploadRequest(t *testing.T, path, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadPdf(t *testing.T) {
	app := newTestApp(t)
	if status, body := do(t, app, "POST", "/api/courriers", courrierJSON); status != fiber.StatusCreated {
		t.Fatalf("create: %d %s", status, body)
	}

	status, body := send(t, app, uploadRequest(t, "/api/courriers/1/upload-pdf", "scan.pdf", nil))
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for empty file got %d: %s", status, body)
	}
	_, body = do(t, app, "GET", "/api/courriers/1", "")
	if !strings.Contains(string(body), `"pdfFile":null`) {
		t.Fatalf("pdfFile must stay unset: %s", body)
	}

	status, body = send(t, app, uploadRequest(t, "/api/courriers/1/upload-pdf", "scan.pdf", []byte("%PDF-1.4")))
	if status != fiber.StatusOK {
		t.Fatalf("expected 200 got %d: %s", status, body)
	}
	var c struct {
		PdfFile *string `json:"pdfFile"`
	}
	decode(t, body, &c)
	if c.PdfFile == nil || !strings.HasPrefix(*c.PdfFile, "COUD-2023-001_") || !strings.HasSuffix(*c.PdfFile, "_scan.pdf") {
		t.Fatalf("unexpected stored name %v", c.PdfFile)
	}

	status, _ = send(t, app, uploadRequest(t, "/api/courriers/99/upload-pdf", "scan.pdf", []byte("%PDF")))
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 got %d", status)
	}
}

func TestUserEndpoints(t *testing.T) {
	app := newTestApp(t)

	status, body := do(t, app, "POST", "/api/users", strings.Replace(userJSON, "secret1", "short", 1))
	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for short password got %d: %s", status, body)
	}

	status, body = do(t, app, "POST", "/api/users", userJSON)
	if status != fiber.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", status, body)
	}
	var u map[string]interface{}
	decode(t, body, &u)
	if _, ok := u["password"]; ok {
		t.Fatalf("password leaked: %s", body)
	}
	if u["active"] != true {
		t.Fatalf("active defaults to true: %s", body)
	}

	status, body = do(t, app, "POST", "/api/users", strings.Replace(userJSON, "EMP001", "EMP002", 1))
	if status != fiber.StatusConflict || !strings.Contains(string(body), "username") {
		t.Fatalf("expected username conflict got %d: %s", status, body)
	}

	for path, want := range map[string]string{
		"/api/users/check/username/mdiop":    "true",
		"/api/users/check/email/nobody@x.sn": "false",
		"/api/users/check/matricule/EMP001":  "true",
	} {
		status, body := do(t, app, "GET", path, "")
		if status != fiber.StatusOK || string(body) != want {
			t.Fatalf("%s: expected %s got %d %s", path, want, status, body)
		}
	}

	for _, path := range []string{"/api/users/1", "/api/users/username/mdiop", "/api/users/email/mdiop@x.sn", "/api/users/matricule/EMP001", "/api/users"} {
		status, body := do(t, app, "GET", path, "")
		if status != fiber.StatusOK || strings.Contains(string(body), "password") {
			t.Fatalf("%s: %d %s", path, status, body)
		}
	}

	status, body = do(t, app, "PATCH", "/api/users/1/active?active=false", "")
	if status != fiber.StatusOK || !strings.Contains(string(body), `"active":false`) {
		t.Fatalf("set active: %d %s", status, body)
	}
	if status, _ := do(t, app, "PATCH", "/api/users/1/active?active=maybe", ""); status != fiber.StatusBadRequest {
		t.Fatalf("expected 400 got %d", status)
	}

	if status, _ := do(t, app, "DELETE", "/api/users/1", ""); status != fiber.StatusNoContent {
		t.Fatalf("expected 204 got %d", status)
	}
	if status, _ := do(t, app, "GET", "/api/users/1", ""); status != fiber.StatusNotFound {
		t.Fatalf("expected 404 got %d", status)
	}
}

func TestListPagination(t *testing.T) {
	app := newTestApp(t)
	for _, num := range []string{"C-1", "C-2", "C-3"} {
		if status, body := do(t, app, "POST", "/api/courriers", strings.Replace(courrierJSON, "COUD-2023-001", num, 1)); status != fiber.StatusCreated {
			t.Fatalf("create: %d %s", status, body)
		}
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/courriers?page=2&limit=2", nil), -1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var page []map[string]interface{}
	b, _ := io.ReadAll(resp.Body)
	decode(t, b, &page)
	if len(page) != 1 || page[0]["numCourrier"] != "C-3" {
		t.Fatalf("unexpected page %s", b)
	}
	if resp.Header.Get("X-Total-Count") != "3" {
		t.Fatalf("expected total header 3 got %q", resp.Header.Get("X-Total-Count"))
	}
	if resp.Header.Get("X-Total-Pages") != "2" {
		t.Fatalf("expected 2 pages got %q", resp.Header.Get("X-Total-Pages"))
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/api/courriers", nil), -1)
	b, _ = io.ReadAll(resp.Body)
	decode(t, b, &page)
	if len(page) != 3 || resp.Header.Get("X-Total-Count") != "" {
		t.Fatalf("unpaginated list must return everything: %s", b)
	}
}
