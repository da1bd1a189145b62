package http

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/gong/internal/entities"
	"github.com/mrlokans/gong/internal/exporters"
)

type BooksController struct {
	books   BookStore
	entries EntryStore
}

func NewBooksController(books BookStore, entries EntryStore) *BooksController {
	return &BooksController{
		books:   books,
		entries: entries,
	}
}

func (controller *BooksController) GetAllBooks(c *gin.Context) {
	books, err := controller.books.GetAll(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

func (controller *BooksController) GetBook(c *gin.Context) {
	book, err := controller.books.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

func (controller *BooksController) CreateBook(c *gin.Context) {
	var req entities.NewBook
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	id, err := controller.books.Create(c.Request.Context(), req)
	if err != nil {
		respondStoreError(c, err, "book")
		return
	}
	respondCreated(c, id)
}

func (controller *BooksController) UpdateBook(c *gin.Context) {
	var patch entities.BookPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	if err := controller.books.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
		respondStoreError(c, err, "book")
		return
	}
	respondSuccess(c, "book updated")
}

func (controller *BooksController) DeleteBook(c *gin.Context) {
	if err := controller.books.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err, "book")
		return
	}
	respondSuccess(c, "book deleted")
}

// DownloadNotes renders the book and its entries as a markdown attachment.
func (controller *BooksController) DownloadNotes(c *gin.Context) {
	ctx := c.Request.Context()
	book, err := controller.books.GetByID(ctx, c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "book")
		return
	}
	entries, err := controller.entries.GetByBookID(ctx, book.ID)
	if err != nil {
		respondStoreError(c, err, "entries")
		return
	}

	markdown := exporters.BookNotesMarkdown(*book, entries)
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(book.Title+".md"))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(markdown))
}
