package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/chiragjeevanani/krishikart-2.0-sub004/configs"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/logger"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/models"
	"github.com/chiragjeevanani/krishikart-2.0-sub004/repository"
)

// StockKeeper moves stock in and out of franchise inventories.
type StockKeeper interface {
	ApplySaleDeduction(ctx context.Context, franchiseID primitive.ObjectID, lines []models.StockLine) error
	RestoreSale(ctx context.Context, franchiseID primitive.ObjectID, lines []models.StockLine) error
	ApplyProcurementReceipt(ctx context.Context, franchiseID primitive.ObjectID, lines []models.StockLine) error
	EnsureProductListed(ctx context.Context, productID primitive.ObjectID, seedStock int) (int, error)
}

type InventoryReconciler struct {
	inventory  repository.InventoryRepository
	franchises repository.FranchiseRepository
	cfg        configs.InventoryConfig
	log        logger.Logger
}

func NewInventoryReconciler(
	inventory repository.InventoryRepository,
	franchises repository.FranchiseRepository,
	cfg configs.InventoryConfig,
	log logger.Logger,
) *InventoryReconciler {
	return &InventoryReconciler{inventory: inventory, franchises: franchises, cfg: cfg, log: log}
}

// ApplySaleDeduction decrements every line or none of them. In strict mode a
// missing or short row fails with ErrStockUnavailable; otherwise a missing
// row is created from PermissiveSeedStock and stock may go negative.
func (r *InventoryReconciler) ApplySaleDeduction(ctx context.Context, franchiseID primitive.ObjectID, lines []models.StockLine) error {
	strict := r.cfg.StrictInventory
	applied := make([]models.StockLine, 0, len(lines))

	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		err := r.deduct(ctx, franchiseID, line, strict)
		if err != nil {
			r.rollback(ctx, franchiseID, applied)
			return err
		}
		applied = append(applied, line)
	}
	return nil
}

func (r *InventoryReconciler) deduct(ctx context.Context, franchiseID primitive.ObjectID, line models.StockLine, strict bool) error {
	changed, err := r.inventory.AdjustStock(ctx, franchiseID, line.ProductID, -line.Quantity, strict)
	if err != nil {
		return err
	}
	if changed {
		return nil
	}
	if strict {
		return fmt.Errorf("%w: product %s", ErrStockUnavailable, line.ProductID.Hex())
	}

	added, err := r.inventory.AddItem(ctx, franchiseID, models.InventoryItem{
		ProductID:    line.ProductID,
		CurrentStock: r.cfg.PermissiveSeedStock - line.Quantity,
		LastUpdated:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if added {
		r.log.WithContext(ctx).Warn("inventory row auto-created during sale",
			logger.String("franchise_id", franchiseID.Hex()),
			logger.String("product_id", line.ProductID.Hex()),
			logger.Int("seed_stock", r.cfg.PermissiveSeedStock))
		return nil
	}

	// Row appeared between the two writes.
	changed, err = r.inventory.AdjustStock(ctx, franchiseID, line.ProductID, -line.Quantity, false)
	if err != nil {
		return err
	}
	if !changed {
		return ErrConflict
	}
	return nil
}

func (r *InventoryReconciler) rollback(ctx context.Context, franchiseID primitive.ObjectID, applied []models.StockLine) {
	if err := r.RestoreSale(ctx, franchiseID, applied); err != nil {
		r.log.WithContext(ctx).Error("rollback of partial sale deduction failed",
			logger.String("franchise_id", franchiseID.Hex()), logger.Error(err))
	}
}

// RestoreSale returns previously deducted quantities.
func (r *InventoryReconciler) RestoreSale(ctx context.Context, franchiseID primitive.ObjectID, lines []models.StockLine) error {
	var errs []error
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		changed, err := r.inventory.AdjustStock(ctx, franchiseID, line.ProductID, line.Quantity, false)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !changed {
			errs = append(errs, fmt.Errorf("restore stock: no row for product %s", line.ProductID.Hex()))
		}
	}
	return errors.Join(errs...)
}

// ApplyProcurementReceipt adds the received quantities, creating rows for
// products the franchise did not stock before.
func (r *InventoryReconciler) ApplyProcurementReceipt(ctx context.Context, franchiseID primitive.ObjectID, lines []models.StockLine) error {
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		if err := r.receive(ctx, franchiseID, line); err != nil {
			return fmt.Errorf("receive product %s: %w", line.ProductID.Hex(), err)
		}
	}
	return nil
}

func (r *InventoryReconciler) receive(ctx context.Context, franchiseID primitive.ObjectID, line models.StockLine) error {
	changed, err := r.inventory.AdjustStock(ctx, franchiseID, line.ProductID, line.Quantity, false)
	if err != nil || changed {
		return err
	}

	added, err := r.inventory.AddItem(ctx, franchiseID, models.InventoryItem{
		ProductID:    line.ProductID,
		CurrentStock: line.Quantity,
		LastUpdated:  time.Now().UTC(),
	})
	if err != nil || added {
		return err
	}

	changed, err = r.inventory.AdjustStock(ctx, franchiseID, line.ProductID, line.Quantity, false)
	if err != nil {
		return err
	}
	if !changed {
		return ErrConflict
	}
	return nil
}

// EnsureProductListed adds a seedStock row for productID to every franchise
// that does not list it yet and reports how many rows were added.
func (r *InventoryReconciler) EnsureProductListed(ctx context.Context, productID primitive.ObjectID, seedStock int) (int, error) {
	ids, err := r.franchises.ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list franchises: %w", err)
	}

	listed := 0
	var errs []error
	for _, fid := range ids {
		added, err := r.inventory.AddItem(ctx, fid, models.InventoryItem{
			ProductID:    productID,
			CurrentStock: seedStock,
			LastUpdated:  time.Now().UTC(),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("franchise %s: %w", fid.Hex(), err))
			continue
		}
		if added {
			listed++
		}
	}
	return listed, errors.Join(errs...)
}
