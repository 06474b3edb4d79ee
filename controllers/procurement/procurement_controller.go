package procurementController

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/controllers"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/responses"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/services"
)

type Procurement interface {
	Create(ctx context.Context, franchiseID primitive.ObjectID, lines []services.ProcurementLine) (*models.ProcurementRequest, error)
	ForFranchise(ctx context.Context, franchiseID primitive.ObjectID) ([]models.ProcurementRequest, error)
	List(ctx context.Context, status models.ProcurementStatus) ([]models.ProcurementRequest, error)
	AssignVendor(ctx context.Context, id, vendorID primitive.ObjectID) (*models.ProcurementRequest, error)
	Reject(ctx context.Context, id primitive.ObjectID) (*models.ProcurementRequest, error)
	ConfirmReceipt(ctx context.Context, id primitive.ObjectID, actor models.Actor, received []services.ReceivedLine) (*models.ProcurementRequest, error)
}

type ProcurementController struct {
	procurement Procurement
	log         logger.Logger
}

func NewProcurementController(procurement Procurement, log logger.Logger) *ProcurementController {
	return &ProcurementController{procurement: procurement, log: log}
}

type CreateRequest struct {
	Items []services.ProcurementLine `json:"items"`
}

type ReceiveRequest struct {
	Items []services.ReceivedLine `json:"items"`
}

type AssignRequest struct {
	VendorID string `json:"vendorId"`
}

var procurementStatuses = map[models.ProcurementStatus]bool{
	models.ProcurementPendingAssignment: true,
	models.ProcurementAssigned:          true,
	models.ProcurementCompleted:         true,
	models.ProcurementRejected:          true,
}

func (h *ProcurementController) CreateRequest(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	var req CreateRequest
	if err := controllers.Body(c, &req); err != nil {
		return responses.Error(c, h.log, err)
	}

	created, err := h.procurement.Create(ctx, actor.ID, req.Items)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusCreated, "Procurement request created", created)
}

func (h *ProcurementController) FranchiseRequests(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	requests, err := h.procurement.ForFranchise(ctx, actor.ID)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return h.respondList(c, requests)
}

func (h *ProcurementController) ConfirmReceipt(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	actor, err := controllers.Actor(c)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	id, err := controllers.ObjectIDParam(c, "id")
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	var req ReceiveRequest
	if len(c.Body()) > 0 {
		if err := controllers.Body(c, &req); err != nil {
			return responses.Error(c, h.log, err)
		}
	}

	completed, err := h.procurement.ConfirmReceipt(ctx, id, actor, req.Items)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusOK, "Procurement received", completed)
}

func (h *ProcurementController) AllRequests(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	status := models.ProcurementStatus(c.Query("status"))
	if status != "" && !procurementStatuses[status] {
		return responses.Error(c, h.log, services.ErrInvalidStatus)
	}

	requests, err := h.procurement.List(ctx, status)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return h.respondList(c, requests)
}

func (h *ProcurementController) AssignVendor(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	id, err := controllers.ObjectIDParam(c, "id")
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	var req AssignRequest
	if err := controllers.Body(c, &req); err != nil {
		return responses.Error(c, h.log, err)
	}
	vendorID, err := controllers.ObjectIDValue(req.VendorID, "vendorId")
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	assigned, err := h.procurement.AssignVendor(ctx, id, vendorID)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusOK, "Vendor assigned", assigned)
}

func (h *ProcurementController) RejectRequest(c *fiber.Ctx) error {
	ctx, cancel := controllers.Context(c)
	defer cancel()

	id, err := controllers.ObjectIDParam(c, "id")
	if err != nil {
		return responses.Error(c, h.log, err)
	}

	rejected, err := h.procurement.Reject(ctx, id)
	if err != nil {
		return responses.Error(c, h.log, err)
	}
	return responses.OK(c, fiber.StatusOK, "Procurement request rejected", rejected)
}

func (h *ProcurementController) respondList(c *fiber.Ctx, requests []models.ProcurementRequest) error {
	if requests == nil {
		requests = []models.ProcurementRequest{}
	}
	return responses.List(c, "Procurement requests fetched successfully", requests, nil)
}
