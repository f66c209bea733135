package drivers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/richxcame/driver-console/pkg/common"
	"github.com/richxcame/driver-console/pkg/middleware"
	"github.com/richxcame/driver-console/pkg/pagination"
)

// Handler handles HTTP requests for the driver lifecycle workflow
type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new driver lifecycle handler
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the driver console endpoints on the given group.
// Param segments live under distinct static prefixes (status/, id/, ...) so
// the router tree stays unambiguous.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, idempotency gin.HandlerFunc) {
	driver := rg.Group("/driver")
	{
		driver.GET("/steps/:category", h.GetSteps)
		driver.GET("/status/:status", h.ListByStatus)
		driver.GET("/counts", h.GetStatusCounts)
		driver.GET("/id/:id", h.GetDriver)
		driver.DELETE("/id/:id", h.DeleteDriver)

		driver.POST("/approve/:id", h.ApproveDriver)
		driver.POST("/reject/:id", h.RejectDriver)
		driver.POST("/reactivate/:id", h.ReactivateDriver)
	}

	admin := rg.Group("/driver/admin")
	if idempotency != nil {
		admin.Use(idempotency)
	}
	{
		admin.POST("/suspend-drivers", h.SuspendDrivers)
		admin.POST("/grant-incentives", h.GrantIncentives)
		admin.GET("/suspend-history", h.ListSuspensions)
		admin.GET("/audit-logs", h.ListAuditLogs)
	}
}

// GetSteps returns the registration step catalog for a category.
// GET /driver/steps/:category
func (h *Handler) GetSteps(c *gin.Context) {
	steps := h.service.Steps(c.Param("category"))
	common.SuccessResponse(c, steps)
}

// ListByStatus returns one page of drivers in a lifecycle status.
// GET /driver/status/:status?page=&limit=
func (h *Handler) ListByStatus(c *gin.Context) {
	params := pagination.ParseParams(c)

	drivers, total, err := h.service.ListByStatus(c.Request.Context(), c.Param("status"), params.Limit, params.Offset())
	if common.HandleServiceError(c, err, "failed to list drivers") {
		return
	}

	common.SuccessResponseWithMeta(c, drivers, pagination.BuildMeta(params, total))
}

// GetStatusCounts returns per-status driver totals for the console sidebar.
// GET /driver/counts
func (h *Handler) GetStatusCounts(c *gin.Context) {
	counts, err := h.service.StatusCounts(c.Request.Context())
	if common.HandleServiceError(c, err, "failed to count drivers") {
		return
	}

	common.SuccessResponse(c, counts)
}

// GetDriver returns a single driver by id.
// GET /driver/id/:id
func (h *Handler) GetDriver(c *gin.Context) {
	id, ok := common.ParseUUIDParam(c, "id", "driver id")
	if !ok {
		return
	}

	driver, err := h.service.GetDriver(c.Request.Context(), id)
	if common.HandleServiceError(c, err, "failed to get driver") {
		return
	}

	common.SuccessResponse(c, driver)
}

// ApproveDriver moves an on-review driver to approved.
// POST /driver/approve/:id
func (h *Handler) ApproveDriver(c *gin.Context) {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := common.ParseUUIDParam(c, "id", "driver id")
	if !ok {
		return
	}

	if common.HandleServiceError(c, h.service.Approve(c.Request.Context(), adminID, id), "failed to approve driver") {
		return
	}

	common.SuccessResponse(c, gin.H{"id": id, "status": StatusApproved})
}

// RejectDriver clears the profile sections behind the selected steps and
// moves the driver to rejected.
// POST /driver/reject/:id
func (h *Handler) RejectDriver(c *gin.Context) {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := common.ParseUUIDParam(c, "id", "driver id")
	if !ok {
		return
	}

	var req RejectDriverRequest
	if !common.BindJSON(c, &req) {
		return
	}

	if common.HandleServiceError(c, h.service.Reject(c.Request.Context(), adminID, id, req.Steps), "failed to reject driver") {
		return
	}

	common.SuccessResponse(c, gin.H{"id": id, "status": StatusRejected})
}

// ReactivateDriver returns a suspended driver to approved.
// POST /driver/reactivate/:id
func (h *Handler) ReactivateDriver(c *gin.Context) {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := common.ParseUUIDParam(c, "id", "driver id")
	if !ok {
		return
	}

	if common.HandleServiceError(c, h.service.Reactivate(c.Request.Context(), adminID, id), "failed to reactivate driver") {
		return
	}

	common.SuccessResponse(c, gin.H{"id": id, "status": StatusApproved})
}

// DeleteDriver soft-deletes a driver.
// DELETE /driver/id/:id
func (h *Handler) DeleteDriver(c *gin.Context) {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	id, ok := common.ParseUUIDParam(c, "id", "driver id")
	if !ok {
		return
	}

	if common.HandleServiceError(c, h.service.Delete(c.Request.Context(), adminID, id), "failed to delete driver") {
		return
	}

	common.SuccessResponse(c, gin.H{"id": id, "status": StatusDeleted})
}

// SuspendDrivers applies a time-windowed suspension to a batch of drivers.
// The response is 200 with per-driver results even when some items fail;
// only invalid input (bad window, blank description, empty batch) is a 400.
// POST /driver/admin/suspend-drivers
func (h *Handler) SuspendDrivers(c *gin.Context) {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req SuspendDriversRequest
	if !common.BindJSON(c, &req) {
		return
	}

	results, err := h.service.SuspendBatch(c.Request.Context(), adminID, &req)
	if common.HandleServiceError(c, err, "failed to suspend drivers") {
		return
	}

	common.SuccessResponse(c, results)
}

// GrantIncentives credits a batch of approved drivers.
// POST /driver/admin/grant-incentives
func (h *Handler) GrantIncentives(c *gin.Context) {
	adminID, err := middleware.GetUserID(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req GrantIncentivesRequest
	if !common.BindJSON(c, &req) {
		return
	}

	results, err := h.service.GrantIncentives(c.Request.Context(), adminID, &req)
	if common.HandleServiceError(c, err, "failed to grant incentives") {
		return
	}

	common.SuccessResponse(c, results)
}

// ListSuspensions returns suspension records, newest first.
// GET /driver/admin/suspend-history?page=&limit=
func (h *Handler) ListSuspensions(c *gin.Context) {
	params := pagination.ParseParams(c)

	records, total, err := h.service.SuspendHistory(c.Request.Context(), params.Limit, params.Offset())
	if common.HandleServiceError(c, err, "failed to list suspension records") {
		return
	}

	common.SuccessResponseWithMeta(c, records, pagination.BuildMeta(params, total))
}

// ListAuditLogs returns audit log entries, newest first.
// GET /driver/admin/audit-logs?page=&limit=
func (h *Handler) ListAuditLogs(c *gin.Context) {
	params := pagination.ParseParams(c)

	logs, total, err := h.service.AuditLogs(c.Request.Context(), params.Limit, params.Offset())
	if common.HandleServiceError(c, err, "failed to list audit logs") {
		return
	}

	common.SuccessResponseWithMeta(c, logs, pagination.BuildMeta(params, total))
}
