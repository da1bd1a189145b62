package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/gong/internal/entities"
	"github.com/mrlokans/gong/internal/pagerange"
)

type EntriesController struct {
	entries EntryStore
}

func NewEntriesController(entries EntryStore) *EntriesController {
	return &EntriesController{entries: entries}
}

// CreateEntryRequest carries a textual page reference such as "p.16" or "19-20".
type CreateEntryRequest struct {
	Page string `json:"page" binding:"required"`
	Text string `json:"text"`
}

// UpdateEntryRequest is a partial update. Page, when present, replaces both
// ends of the range.
type UpdateEntryRequest struct {
	Page *string `json:"page"`
	Text *string `json:"text"`
}

func (controller *EntriesController) ListEntries(c *gin.Context) {
	entries, err := controller.entries.GetByBookID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err, "entries")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

func (controller *EntriesController) CreateEntry(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	id, err := controller.entries.CreateFromInput(c.Request.Context(), c.Param("id"), req.Page, req.Text)
	if err != nil {
		respondStoreError(c, err, "entry")
		return
	}
	respondCreated(c, id)
}

func (controller *EntriesController) UpdateEntry(c *gin.Context) {
	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	patch := entities.EntryPatch{Text: req.Text}
	if req.Page != nil {
		pages, ok := pagerange.Parse(*req.Page)
		if !ok {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error: "invalid page reference: " + *req.Page,
				Code:  CodeConstraint,
			})
			return
		}
		patch.PageStart = &pages.Start
		patch.PageEnd = &pages.End
	}

	if err := controller.entries.Update(c.Request.Context(), c.Param("id"), patch); err != nil {
		respondStoreError(c, err, "entry")
		return
	}
	respondSuccess(c, "entry updated")
}

func (controller *EntriesController) DeleteEntry(c *gin.Context) {
	if err := controller.entries.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err, "entry")
		return
	}
	respondSuccess(c, "entry deleted")
}
