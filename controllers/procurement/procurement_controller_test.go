package procurementController

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/middlewares"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/services"
)

type mockProcurement struct{ mock.Mock }

func (m *mockProcurement) one(args mock.Arguments) (*models.ProcurementRequest, error) {
	req, _ := args.Get(0).(*models.ProcurementRequest)
	return req, args.Error(1)
}

func (m *mockProcurement) many(args mock.Arguments) ([]models.ProcurementRequest, error) {
	reqs, _ := args.Get(0).([]models.ProcurementRequest)
	return reqs, args.Error(1)
}

func (m *mockProcurement) Create(ctx context.Context, franchiseID primitive.ObjectID, lines []services.ProcurementLine) (*models.ProcurementRequest, error) {
	return m.one(m.Called(ctx, franchiseID, lines))
}

func (m *mockProcurement) ForFranchise(ctx context.Context, franchiseID primitive.ObjectID) ([]models.ProcurementRequest, error) {
	return m.many(m.Called(ctx, franchiseID))
}

func (m *mockProcurement) List(ctx context.Context, status models.ProcurementStatus) ([]models.ProcurementRequest, error) {
	return m.many(m.Called(ctx, status))
}

func (m *mockProcurement) AssignVendor(ctx context.Context, id, vendorID primitive.ObjectID) (*models.ProcurementRequest, error) {
	return m.one(m.Called(ctx, id, vendorID))
}

func (m *mockProcurement) Reject(ctx context.Context, id primitive.ObjectID) (*models.ProcurementRequest, error) {
	return m.one(m.Called(ctx, id))
}

func (m *mockProcurement) ConfirmReceipt(ctx context.Context, id primitive.ObjectID, actor models.Actor, received []services.ReceivedLine) (*models.ProcurementRequest, error) {
	return m.one(m.Called(ctx, id, actor, received))
}

func newApp(p Procurement, actor models.Actor) *fiber.App {
	h := NewProcurementController(p, logger.NewNop())
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		middlewares.SetActor(c, actor)
		return c.Next()
	})
	app.Post("/franchise/procurement", h.CreateRequest)
	app.Get("/franchise/procurement", h.FranchiseRequests)
	app.Put("/franchise/procurement/:id/receive", h.ConfirmReceipt)
	app.Get("/masteradmin/procurement", h.AllRequests)
	app.Put("/masteradmin/procurement/:id/assign", h.AssignVendor)
	app.Put("/masteradmin/procurement/:id/reject", h.RejectRequest)
	return app
}

func hit(t *testing.T, app *fiber.App, method, path, body string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestFranchiseProcurementFlow(t *testing.T) {
	franchise := models.Actor{Role: models.RoleFranchise, ID: primitive.NewObjectID()}
	id := primitive.NewObjectID()
	p := &mockProcurement{}
	p.On("Create", mock.Anything, franchise.ID, []services.ProcurementLine{{ProductID: "p1", Quantity: 20}}).
		Return(&models.ProcurementRequest{Status: models.ProcurementPendingAssignment}, nil)
	p.On("ForFranchise", mock.Anything, franchise.ID).Return([]models.ProcurementRequest{{}}, nil)
	p.On("ConfirmReceipt", mock.Anything, id, franchise, []services.ReceivedLine{{ProductID: "p1", ReceivedQuantity: 18}}).
		Return(&models.ProcurementRequest{Status: models.ProcurementCompleted}, nil)
	p.On("ConfirmReceipt", mock.Anything, id, franchise, []services.ReceivedLine(nil)).
		Return(nil, services.ErrIllegalTransition)

	app := newApp(p, franchise)
	assert.Equal(t, fiber.StatusCreated, hit(t, app, "POST", "/franchise/procurement", `{"items":[{"productId":"p1","quantity":20}]}`))
	assert.Equal(t, fiber.StatusOK, hit(t, app, "GET", "/franchise/procurement", ""))
	assert.Equal(t, fiber.StatusOK, hit(t, app, "PUT", "/franchise/procurement/"+id.Hex()+"/receive",
		`{"items":[{"productId":"p1","receivedQuantity":18}]}`))
	assert.Equal(t, fiber.StatusBadRequest, hit(t, app, "PUT", "/franchise/procurement/"+id.Hex()+"/receive", ""))
}

func TestAdminProcurement(t *testing.T) {
	admin := models.Actor{Role: models.RoleAdmin, ID: primitive.NewObjectID()}
	id, vendor := primitive.NewObjectID(), primitive.NewObjectID()
	p := &mockProcurement{}
	p.On("List", mock.Anything, models.ProcurementAssigned).Return([]models.ProcurementRequest(nil), nil)
	p.On("AssignVendor", mock.Anything, id, vendor).Return(&models.ProcurementRequest{Status: models.ProcurementAssigned}, nil)
	p.On("Reject", mock.Anything, id).Return(nil, services.ErrIllegalTransition)

	app := newApp(p, admin)
	assert.Equal(t, fiber.StatusOK, hit(t, app, "GET", "/masteradmin/procurement?status=assigned", ""))
	assert.Equal(t, fiber.StatusBadRequest, hit(t, app, "GET", "/masteradmin/procurement?status=lost", ""))
	assert.Equal(t, fiber.StatusOK, hit(t, app, "PUT", "/masteradmin/procurement/"+id.Hex()+"/assign", `{"vendorId":"`+vendor.Hex()+`"}`))
	assert.Equal(t, fiber.StatusBadRequest, hit(t, app, "PUT", "/masteradmin/procurement/"+id.Hex()+"/assign", `{"vendorId":""}`))
	assert.Equal(t, fiber.StatusBadRequest, hit(t, app, "PUT", "/masteradmin/procurement/"+id.Hex()+"/reject", ""))
}
