package workflow

import (
	"context"

	"github.com/mmdatafocus/coffee_export_backend/models"
)

// PackagingEdit updates any subset of a packaging item's fields.
type PackagingEdit struct {
	Material  *string `json:"material"`
	Required  any     `json:"required"`
	Purchased any     `json:"purchased"`
}

func applyPackagingEdit(items []models.PackagingRequirement, itemId string, edit PackagingEdit) ([]models.PackagingRequirement, error) {
	found := false
	for _, item := range items {
		if item.ID == itemId {
			found = true
			break
		}
	}
	if !found {
		return items, models.ErrPackagingItemNotFound
	}

	var err error
	if edit.Material != nil {
		if items, err = models.SetPackagingMaterial(items, itemId, *edit.Material); err != nil {
			return items, err
		}
	}
	if edit.Required != nil {
		if items, err = models.SetPackagingRequired(items, itemId, edit.Required); err != nil {
			return items, err
		}
	}
	if edit.Purchased != nil {
		if items, err = models.SetPackagingPurchased(items, itemId, edit.Purchased); err != nil {
			return items, err
		}
	}
	return items, nil
}

// withLotPackaging seeds the lot's packaging if needed and applies fn to its items.
func withLotPackaging(contract models.Contract, lotId int, fn func([]models.PackagingRequirement) ([]models.PackagingRequirement, error)) (models.Contract, bool, error) {
	i := contract.FindLot(lotId)
	if i < 0 {
		return contract, false, models.ErrLotNotFound
	}
	lot := &contract.Lots[i]
	changed := lot.EnsurePackaging()
	if fn == nil {
		return contract, changed, nil
	}
	items, err := fn(lot.Packaging)
	if err != nil {
		return contract, false, err
	}
	lot.Packaging = items
	return contract, true, nil
}

func lotPackaging(view *LiquidationView, lotId int) []models.PackagingRequirement {
	if i := view.Contract.FindLot(lotId); i >= 0 {
		return view.Contract.Lots[i].Packaging
	}
	return nil
}

// LotPackaging returns the lot's packaging list, deriving it the first time.
func LotPackaging(ctx context.Context, contractId int, lotId int) ([]models.PackagingRequirement, error) {
	view, err := mutateContract(ctx, "LotPackaging", contractId, func(c models.Contract) (models.Contract, bool, error) {
		return withLotPackaging(c, lotId, nil)
	})
	if err != nil {
		return nil, err
	}
	return lotPackaging(view, lotId), nil
}

func AddPackagingItem(ctx context.Context, contractId int, lotId int) ([]models.PackagingRequirement, error) {
	view, err := mutateContract(ctx, "AddPackagingItem", contractId, func(c models.Contract) (models.Contract, bool, error) {
		return withLotPackaging(c, lotId, func(items []models.PackagingRequirement) ([]models.PackagingRequirement, error) {
			return models.AddPackagingItem(items, lotId), nil
		})
	})
	if err != nil {
		return nil, err
	}
	return lotPackaging(view, lotId), nil
}

func UpdatePackagingItem(ctx context.Context, contractId int, lotId int, itemId string, edit PackagingEdit) ([]models.PackagingRequirement, error) {
	view, err := mutateContract(ctx, "UpdatePackagingItem", contractId, func(c models.Contract) (models.Contract, bool, error) {
		return withLotPackaging(c, lotId, func(items []models.PackagingRequirement) ([]models.PackagingRequirement, error) {
			return applyPackagingEdit(items, itemId, edit)
		})
	})
	if err != nil {
		return nil, err
	}
	return lotPackaging(view, lotId), nil
}

func RemovePackagingItem(ctx context.Context, contractId int, lotId int, itemId string) ([]models.PackagingRequirement, error) {
	view, err := mutateContract(ctx, "RemovePackagingItem", contractId, func(c models.Contract) (models.Contract, bool, error) {
		return withLotPackaging(c, lotId, func(items []models.PackagingRequirement) ([]models.PackagingRequirement, error) {
			return models.RemovePackagingItem(items, itemId)
		})
	})
	if err != nil {
		return nil, err
	}
	return lotPackaging(view, lotId), nil
}
