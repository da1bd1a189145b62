package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mrlokans/gong/internal/database"
	"github.com/mrlokans/gong/internal/entities"
	"github.com/mrlokans/gong/internal/http/mocks"
)

func ptr[T any](v T) *T { return &v }

func setupBooksRouter(t *testing.T) (*gin.Engine, *mocks.MockBookStore, *mocks.MockEntryStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	books := mocks.NewMockBookStore(ctrl)
	entries := mocks.NewMockEntryStore(ctrl)

	controller := NewBooksController(books, entries)
	router := gin.New()
	router.GET("/api/books", controller.GetAllBooks)
	router.POST("/api/books", controller.CreateBook)
	router.GET("/api/books/:id", controller.GetBook)
	router.PATCH("/api/books/:id", controller.UpdateBook)
	router.DELETE("/api/books/:id", controller.DeleteBook)
	router.GET("/api/books/:id/notes.md", controller.DownloadNotes)
	return router, books, entries
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBooksController_GetAllBooks(t *testing.T) {
	t.Run("returns books with count", func(t *testing.T) {
		router, books, _ := setupBooksRouter(t)
		books.EXPECT().GetAll(gomock.Any()).Return([]entities.Book{
			{ID: "b1", Title: "Demian", Author: "Hesse", Rating: 4.5},
			{ID: "b2", Title: "Siddhartha", Author: "Hesse", Rating: 4},
		}, nil)

		w := serve(router, "GET", "/api/books", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, float64(2), response["count"])
		assert.Len(t, response["books"], 2)
	})

	t.Run("returns 500 on store failure", func(t *testing.T) {
		router, books, _ := setupBooksRouter(t)
		books.EXPECT().GetAll(gomock.Any()).Return(nil, errors.New("boom"))

		w := serve(router, "GET", "/api/books", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestBooksController_GetBook(t *testing.T) {
	t.Run("returns the book", func(t *testing.T) {
		router, books, _ := setupBooksRouter(t)
		books.EXPECT().GetByID(gomock.Any(), "b1").Return(&entities.Book{ID: "b1", Title: "Demian"}, nil)

		w := serve(router, "GET", "/api/books/b1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"title": "Demian"`)
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		router, books, _ := setupBooksRouter(t)
		books.EXPECT().GetByID(gomock.Any(), "nope").Return(nil, database.ErrNotFound)

		w := serve(router, "GET", "/api/books/nope", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "book not found")
	})
}

func TestBooksController_CreateBook(t *testing.T) {
	t.Run("creates and returns id", func(t *testing.T) {
		router, books, _ := setupBooksRouter(t)
		books.EXPECT().Create(gomock.Any(), entities.NewBook{
			Title: "Demian", Author: "Hesse", Rating: 4.5, RegisteredDate: "2024-03-02",
		}).Return("new-id", nil)

		w := serve(router, "POST", "/api/books", `{"title":"Demian","author":"Hesse","rating":4.5,"registeredDate":"2024-03-02"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"id":"new-id"}`, w.Body.String())
	})

	t.Run("returns 400 on malformed body", func(t *testing.T) {
		router, _, _ := setupBooksRouter(t)

		w := serve(router, "POST", "/api/books", `{"title":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 422 on constraint violation", func(t *testing.T) {
		router, books, _ := setupBooksRouter(t)
		books.EXPECT().Create(gomock.Any(), gomock.Any()).Return("", database.ConstraintError(errors.New("rating must be at most 5")))

		w := serve(router, "POST", "/api/books", `{"title":"T","author":"A","rating":7}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestBooksController_UpdateBook(t *testing.T) {
	t.Run("passes only supplied fields", func(t *testing.T) {
		router, books, _ := setupBooksRouter(t)
		books.EXPECT().Update(gomock.Any(), "b1", entities.BookPatch{Rating: ptr(5.0), Review: ptr("")}).Return(nil)

		w := serve(router, "PATCH", "/api/books/b1", `{"rating":5,"review":""}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		router, books, _ := setupBooksRouter(t)
		books.EXPECT().Update(gomock.Any(), "nope", gomock.Any()).Return(database.ErrNotFound)

		w := serve(router, "PATCH", "/api/books/nope", `{"title":"X"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBooksController_DeleteBook(t *testing.T) {
	router, books, _ := setupBooksRouter(t)
	books.EXPECT().Delete(gomock.Any(), "b1").Return(nil)
	books.EXPECT().Delete(gomock.Any(), "b1").Return(database.ErrNotFound)

	assert.Equal(t, http.StatusOK, serve(router, "DELETE", "/api/books/b1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, "DELETE", "/api/books/b1", "").Code)
}

func TestBooksController_DownloadNotes(t *testing.T) {
	router, books, entries := setupBooksRouter(t)
	books.EXPECT().GetByID(gomock.Any(), "b1").Return(&entities.Book{ID: "b1", Title: "Demian", Author: "Hesse"}, nil)
	entries.EXPECT().GetByBookID(gomock.Any(), "b1").Return([]entities.Entry{
		{ID: "e1", BookID: "b1", PageStart: 16, PageEnd: 16, Text: "A bird fights its way out of the egg."},
	}, nil)

	w := serve(router, "GET", "/api/books/b1/notes.md", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Demian.md")
	assert.Contains(t, w.Body.String(), "### p. 16")
	assert.Contains(t, w.Body.String(), "> A bird fights its way out of the egg.")
}
