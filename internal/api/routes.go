package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/procureflow/procureflow/internal/catalog"
	"github.com/procureflow/procureflow/internal/dashboard"
	"github.com/procureflow/procureflow/internal/history"
	"github.com/procureflow/procureflow/internal/orders"
	"github.com/procureflow/procureflow/internal/progress"
	"gorm.io/gorm"
)

// registerRoutes sets up all API routes on the gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB) {
	// Items.
	router.GET("/api/items", handleItemList(db))
	router.POST("/api/items", handleItemCreate(db))
	router.PATCH("/api/items/:id", handleItemUpdate(db))

	// Purchase orders.
	router.GET("/api/purchase-orders", handleOrderList(db))
	router.POST("/api/purchase-orders", handleOrderCreate(db))
	router.GET("/api/purchase-orders/:id", handleOrderGet(db))
	router.PATCH("/api/purchase-orders/:id", handleOrderUpdate(db))
	router.POST("/api/purchase-orders/:id/items", handleLineAdd(db))

	// Order lines.
	router.PATCH("/api/purchase-order-items/:id", handleLineUpdate(db))
	router.DELETE("/api/purchase-order-items/:id", handleLineDelete(db))
	router.PATCH("/api/purchase-order-items/:id/process", handleProcessUpdate(db))
	router.PATCH("/api/purchase-order-items/:id/status", handleLineStatusReset(db))
	router.GET("/api/purchase-order-items/:id/history", handleLineHistory(db))

	// Process history and dashboard.
	router.GET("/api/process-history", handleAllHistory(db))
	router.GET("/api/dashboard/stats", handleDashboardStats(db))
}

// errorBody is the JSON error payload shape shared by all endpoints.
type errorBody struct {
	Message string `json:"message"`
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, progress.ErrInvalidStageIndex):
		c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid stage index"})
	case errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, orders.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorBody{Message: err.Error()})
	case errors.Is(err, progress.ErrLineNotFound),
		errors.Is(err, orders.ErrLineNotFound):
		c.JSON(http.StatusNotFound, errorBody{Message: "Order line not found"})
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, errorBody{Message: "Purchase Order not found"})
	case errors.Is(err, catalog.ErrItemNotFound):
		c.JSON(http.StatusNotFound, errorBody{Message: "Item not found"})
	case errors.Is(err, catalog.ErrDuplicateMaterialNumber):
		c.JSON(http.StatusConflict, errorBody{Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorBody{Message: "Internal server error"})
	}
}

// idParam parses the :id path parameter.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

func handleItemList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := catalog.List(db)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func handleItemCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.ItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid request body"})
			return
		}
		item, err := catalog.Create(db, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func handleItemUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var in catalog.ItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid request body"})
			return
		}
		item, err := catalog.Update(db, id, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func handleOrderList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		pos, err := orders.List(db)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, pos)
	}
}

// orderCreateRequest is the POST body for creating an order with lines.
type orderCreateRequest struct {
	orders.OrderInput
	Items []orders.LineInput `json:"items"`
}

func handleOrderCreate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req orderCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid request body"})
			return
		}
		po, err := orders.Create(db, req.OrderInput, req.Items)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, po)
	}
}

func handleOrderGet(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		po, err := orders.Get(db, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, po)
	}
}

func handleOrderUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var in orders.OrderInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid request body"})
			return
		}
		po, err := orders.Update(db, id, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, po)
	}
}

func handleLineAdd(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var in orders.LineInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid request body"})
			return
		}
		line, err := orders.AddLine(db, id, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, line)
	}
}

func handleLineUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var in orders.LineUpdate
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid request body"})
			return
		}
		line, err := orders.UpdateLine(db, id, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

func handleLineDelete(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := orders.DeleteLine(db, id); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// processUpdateRequest is the PATCH body for a stage update. Pointer fields
// distinguish "absent" from zero values; absent fields leave the stage
// record unchanged.
type processUpdateRequest struct {
	StageIndex int     `json:"stageIndex"`
	Remarks    *string `json:"remarks"`
	Completed  *bool   `json:"completed"`
}

func handleProcessUpdate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		var req processUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorBody{Message: "Invalid request body"})
			return
		}
		recs, err := progress.UpdateStage(db, id, req.StageIndex, progress.UpdateOpts{
			Remarks:   req.Remarks,
			Completed: req.Completed,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"processes": recs})
	}
}

func handleLineStatusReset(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		line, err := orders.ResetLineStages(db, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

func handleLineHistory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		rows, err := history.ForLine(db, id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleAllHistory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := history.All(db)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

func handleDashboardStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := dashboard.Compute(db)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
