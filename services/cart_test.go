package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
)

func repositoryPage() repository.Page {
	return repository.Page{Page: 1, Limit: 10}
}

func TestCartService(t *testing.T) {
	ctx := context.Background()
	wheat := models.Product{ID: primitive.NewObjectID(), Name: "Wheat", Price: 100, Status: models.ProductActive,
		BulkPricing: []models.BulkTier{{MinQty: 5, Price: 90}}}
	retired := models.Product{ID: primitive.NewObjectID(), Name: "Barley", Price: 50, Status: models.ProductInactive}
	user := &models.User{ID: primitive.NewObjectID()}

	users := newFakeUsers(user)
	svc := NewCartService(users, newFakeProducts(wheat, retired), NewSettingsService(&fakeSettings{}))

	require.NoError(t, svc.Add(ctx, user.ID, wheat.ID, 2))
	require.NoError(t, svc.Add(ctx, user.ID, wheat.ID, 1))
	assert.ErrorIs(t, svc.Add(ctx, user.ID, retired.ID, 1), ErrProductUnavailable)
	assert.ErrorIs(t, svc.Add(ctx, user.ID, wheat.ID, 0), ErrValidation)
	assert.ErrorIs(t, svc.Add(ctx, user.ID, primitive.NewObjectID(), 1), ErrNotFound)

	view, err := svc.View(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, 357.0, view.Totals.Total)

	require.NoError(t, svc.Update(ctx, user.ID, wheat.ID, 10))
	view, err = svc.View(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, view.Items[0].IsBulkRate)
	assert.Equal(t, 945.0, view.Totals.Total)

	assert.ErrorIs(t, svc.Update(ctx, user.ID, retired.ID, 2), ErrNotFound)

	require.NoError(t, svc.Remove(ctx, user.ID, wheat.ID))
	view, err = svc.View(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.Totals.Total)
}

func TestCartView_FlagsUnavailableLines(t *testing.T) {
	retired := models.Product{ID: primitive.NewObjectID(), Name: "Barley", Price: 50, Status: models.ProductInactive}
	user := &models.User{ID: primitive.NewObjectID(), Cart: []models.CartItem{{ProductID: retired.ID, Quantity: 2}}}

	svc := NewCartService(newFakeUsers(user), newFakeProducts(retired), NewSettingsService(&fakeSettings{}))
	view, err := svc.View(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.False(t, view.Items[0].Available)
	assert.Zero(t, view.Totals.Total)
}
