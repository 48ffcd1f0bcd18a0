//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/config"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/db"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/handler"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/middleware"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/repository"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/service"
	"github.com/snnyvrz/shelfshare/apps/catalog-api/internal/validation"
	"gorm.io/gorm"
)

var (
	testDB     *gorm.DB
	testRouter *gin.Engine
)

func TestMain(m *testing.M) {
	cfg := &config.Config{
		DBDriver:  config.DriverPostgres,
		DBHost:    os.Getenv("POSTGRES_HOST"),
		DBPort:    os.Getenv("POSTGRES_PORT"),
		DBUser:    os.Getenv("POSTGRES_USER"),
		DBPass:    os.Getenv("POSTGRES_PASSWORD"),
		DBName:    os.Getenv("POSTGRES_DB"),
		DBSSLMode: "disable",
		TZ:        os.Getenv("TZ"),
	}

	database, err := db.ConnectWithRetry(context.Background(), cfg, db.DefaultRetry)
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	testDB = database

	if err := db.Migrate(database); err != nil {
		panic("failed to migrate: " + err.Error())
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())

	authors := service.NewAuthorService(repository.NewAuthorRepository(database))
	books := service.NewBookService(repository.NewGormBookRepository(database))

	api := r.Group("/api")
	{
		handler.NewAuthorHandler(authors).RegisterRoutes(api)
		handler.NewBookHandler(books).RegisterRoutes(api)
	}

	testRouter = r

	code := m.Run()
	os.Exit(code)
}

func resetDB(t *testing.T) {
	t.Helper()
	sqlDB, err := testDB.DB()
	if err != nil {
		t.Fatalf("get sql.DB failed: %v", err)
	}
	_, err = sqlDB.Exec("TRUNCATE TABLE books, authors RESTART IDENTITY CASCADE;")
	if err != nil {
		t.Fatalf("truncate failed: %v", err)
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	srv := httptest.NewServer(testRouter)
	t.Cleanup(srv.Close)
	return srv, srv.Client()
}

func send(t *testing.T, client *http.Client, method, url string, payload any, out any) int {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("failed to encode payload: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func createTestAuthor(t *testing.T, client *http.Client, baseURL, firstName, lastName string) uint {
	t.Helper()

	var resp handler.AuthorResponse
	status := send(t, client, http.MethodPost, baseURL+"/api/authors", map[string]any{
		"first_name": firstName,
		"last_name":  lastName,
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 when creating author, got %d", status)
	}
	if resp.Data.ID == 0 {
		t.Fatalf("expected author id in response")
	}
	return resp.Data.ID
}

func createTestBook(t *testing.T, client *http.Client, baseURL string, authorID uint, title, isbn string) uint {
	t.Helper()

	var resp handler.BookResponse
	status := send(t, client, http.MethodPost, baseURL+"/api/books", map[string]any{
		"title":     title,
		"isbn":      isbn,
		"author_id": authorID,
	}, &resp)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 when creating book, got %d", status)
	}
	return resp.Data.ID
}

func TestAuthorWithBooksLifecycle_Integration(t *testing.T) {
	resetDB(t)
	srv, client := newTestServer(t)

	authorID := createTestAuthor(t, client, srv.URL, "George", "Orwell")
	bookID := createTestBook(t, client, srv.URL, authorID, "1984", "978-0-452-28423-4")

	var author handler.AuthorResponse
	if status := send(t, client, http.MethodGet, fmt.Sprintf("%s/api/authors/%d", srv.URL, authorID), nil, &author); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(author.Data.Books) != 1 || author.Data.Books[0].ID != bookID {
		t.Fatalf("expected the author to embed book %d, got %+v", bookID, author.Data.Books)
	}

	var conflict validation.ErrorResponse
	status := send(t, client, http.MethodDelete, fmt.Sprintf("%s/api/authors/%d", srv.URL, authorID), nil, &conflict)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 deleting an author with books, got %d", status)
	}
	if conflict.Code != "AUTHOR_HAS_BOOKS" {
		t.Errorf("expected AUTHOR_HAS_BOOKS, got %q", conflict.Code)
	}

	if status := send(t, client, http.MethodDelete, fmt.Sprintf("%s/api/books/%d", srv.URL, bookID), nil, nil); status != http.StatusNoContent {
		t.Fatalf("expected 204 deleting book, got %d", status)
	}
	if status := send(t, client, http.MethodDelete, fmt.Sprintf("%s/api/authors/%d", srv.URL, authorID), nil, nil); status != http.StatusNoContent {
		t.Fatalf("expected 204 deleting author, got %d", status)
	}
	if status := send(t, client, http.MethodGet, fmt.Sprintf("%s/api/authors/%d", srv.URL, authorID), nil, nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
}

func TestDuplicateISBN_Integration(t *testing.T) {
	resetDB(t)
	srv, client := newTestServer(t)

	authorID := createTestAuthor(t, client, srv.URL, "F. Scott", "Fitzgerald")
	createTestBook(t, client, srv.URL, authorID, "The Great Gatsby", "978-0-7432-7356-5")

	var resp validation.ErrorResponse
	status := send(t, client, http.MethodPost, srv.URL+"/api/books", map[string]any{
		"title": "Gatsby again",
		"isbn":  "978-0-7432-7356-5",
	}, &resp)
	if status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if resp.Code != "BOOK_ISBN_CONFLICT" {
		t.Errorf("expected BOOK_ISBN_CONFLICT, got %q", resp.Code)
	}

	var list handler.ListBooksResponse
	send(t, client, http.MethodGet, srv.URL+"/api/books?title=Gatsby", nil, &list)
	if len(list.Data) != 1 {
		t.Errorf("expected exactly one Gatsby, got %d", len(list.Data))
	}
}

func TestUnknownAuthor_Integration(t *testing.T) {
	resetDB(t)
	srv, client := newTestServer(t)

	var resp validation.ErrorResponse
	status := send(t, client, http.MethodPost, srv.URL+"/api/books", map[string]any{
		"title":     "Orphan",
		"isbn":      "0-306-40615-2",
		"author_id": 9999,
	}, &resp)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Field != "author_id" {
		t.Errorf("expected author_id error, got %+v", resp.Errors)
	}
}

func TestSearchAndStats_Integration(t *testing.T) {
	resetDB(t)
	srv, client := newTestServer(t)

	orwell := createTestAuthor(t, client, srv.URL, "George", "Orwell")
	createTestAuthor(t, client, srv.URL, "Jane", "Austen")
	createTestBook(t, client, srv.URL, orwell, "1984", "978-0-452-28423-4")
	animalFarm := createTestBook(t, client, srv.URL, orwell, "Animal Farm", "0-19-852663-6")

	var search handler.ListAuthorsResponse
	if status := send(t, client, http.MethodGet, srv.URL+"/api/authors/search?name=George+Orw", nil, &search); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(search.Data) != 1 || search.Data[0].ID != orwell {
		t.Fatalf("expected Orwell from full-name search, got %+v", search.Data)
	}

	var updated handler.BookResponse
	status := send(t, client, http.MethodPatch, fmt.Sprintf("%s/api/books/%d/status", srv.URL, animalFarm), map[string]any{
		"status": "borrowed",
	}, &updated)
	if status != http.StatusOK || updated.Data.Status != "borrowed" {
		t.Fatalf("expected borrowed, got %d %q", status, updated.Data.Status)
	}

	var stats handler.AuthorStatsResponse
	send(t, client, http.MethodGet, fmt.Sprintf("%s/api/authors/%d/stats", srv.URL, orwell), nil, &stats)
	if stats.Data.TotalBooks != 2 || stats.Data.AvailableBooks != 1 || stats.Data.BorrowedBooks != 1 {
		t.Errorf("unexpected stats %+v", stats.Data)
	}

	var available handler.ListBooksResponse
	send(t, client, http.MethodGet, srv.URL+"/api/books/available", nil, &available)
	if len(available.Data) != 1 || available.Data[0].Title != "1984" {
		t.Errorf("expected only 1984 to be available, got %+v", available.Data)
	}
}
