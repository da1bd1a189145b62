package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/mrlokans/gong/internal/entities"
	"github.com/mrlokans/gong/internal/http/mocks"
)

func setupSummaryRouter(t *testing.T) (*gin.Engine, *mocks.MockBookStore) {
	t.Helper()
	books := mocks.NewMockBookStore(gomock.NewController(t))
	router := gin.New()
	router.GET("/api/summary/:year/:month", NewSummaryController(books).MonthlySummary)
	return router, books
}

var marchSummary = &entities.MonthlySummary{
	Year: 2024, Month: 3, BookCount: 1, EntryCount: 2, AvgRating: 4.5,
	Books: []entities.MonthlyBook{{ID: "b1", Title: "Demian", Rating: 4.5, EntryCount: 2}},
}

func TestSummaryController_JSON(t *testing.T) {
	router, books := setupSummaryRouter(t)
	books.EXPECT().MonthlySummary(gomock.Any(), 2024, 3).Return(marchSummary, nil)

	w := serve(router, "GET", "/api/summary/2024/03", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"bookCount": 1`)
	assert.Contains(t, w.Body.String(), `"entryCount": 2`)
}

func TestSummaryController_Markdown(t *testing.T) {
	router, books := setupSummaryRouter(t)
	books.EXPECT().MonthlySummary(gomock.Any(), 2024, 3).Return(marchSummary, nil)

	w := serve(router, "GET", "/api/summary/2024/3?format=markdown", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Monthly reading log · 2024.03")
	assert.Contains(t, w.Body.String(), "Demian · ★4.5  |  2")
}

func TestSummaryController_InvalidParams(t *testing.T) {
	router, _ := setupSummaryRouter(t)

	assert.Equal(t, http.StatusBadRequest, serve(router, "GET", "/api/summary/abcd/3", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, "GET", "/api/summary/2024/13", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, "GET", "/api/summary/2024/0", "").Code)
}
