package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/gong/internal/exporters"
)

type SummaryController struct {
	books BookStore
}

func NewSummaryController(books BookStore) *SummaryController {
	return &SummaryController{books: books}
}

// MonthlySummary returns the reading summary of one month as JSON, or as
// shareable markdown with ?format=markdown.
func (controller *SummaryController) MonthlySummary(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		respondBadRequest(c, "invalid year")
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		respondBadRequest(c, "invalid month")
		return
	}

	summary, err := controller.books.MonthlySummary(c.Request.Context(), year, month)
	if err != nil {
		respondStoreError(c, err, "summary")
		return
	}

	if c.Query("format") == "markdown" {
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(exporters.MonthlySummaryMarkdown(*summary)))
		return
	}
	c.IndentedJSON(http.StatusOK, summary)
}
