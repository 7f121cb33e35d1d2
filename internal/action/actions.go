package action

import (
	"context"
	"errors"

	"productattrs/internal/service"
	"productattrs/internal/variation"
)

// Names of the actions the host can post.
const (
	GenerateVariations = "generate_variations"
	CreateChild        = "create_child"
	UpdateProductTypes = "update_product_types"
)

// Action handles one named form post and returns a status message for the user.
type Action interface {
	Name() string
	Handle(ctx context.Context, userID string, form Form) (string, error)
}

type generateVariationsAction struct {
	variations service.VariationService
}

// NewGenerateVariations materializes every missing variation of form["stock_id"].
// Precondition failures and input errors come back as status messages.
func NewGenerateVariations(variations service.VariationService) Action {
	return &generateVariationsAction{variations: variations}
}

func (a *generateVariationsAction) Name() string { return GenerateVariations }

func (a *generateVariationsAction) Handle(ctx context.Context, userID string, form Form) (string, error) {
	result, err := a.variations.CreateVariations(ctx, userID, form.Get("stock_id"), form.Bool("copy_pricing"))
	switch {
	case err == nil:
		return result.Message(), nil
	case variation.IsPrecondition(err):
		return variation.PreconditionMessage(err), nil
	case errors.Is(err, variation.ErrInvalidArgument):
		return err.Error(), nil
	default:
		return "", err
	}
}

type createChildAction struct {
	variations service.VariationService
}

// NewCreateChild copies form["stock_id"] into one explicit child product.
func NewCreateChild(variations service.VariationService) Action {
	return &createChildAction{variations: variations}
}

func (a *createChildAction) Name() string { return CreateChild }

func (a *createChildAction) Handle(ctx context.Context, userID string, form Form) (string, error) {
	result, err := a.variations.CreateChild(ctx, userID, form.Get("stock_id"))
	if err != nil {
		return "", err
	}
	return result.Message(), nil
}

type updateProductTypesAction struct {
	productTypes service.ProductTypeService
}

// NewUpdateProductTypes reads product_types[STOCK] and parent_products[STOCK] pairs.
func NewUpdateProductTypes(productTypes service.ProductTypeService) Action {
	return &updateProductTypesAction{productTypes: productTypes}
}

func (a *updateProductTypesAction) Name() string { return UpdateProductTypes }

func (a *updateProductTypesAction) Handle(ctx context.Context, userID string, form Form) (string, error) {
	types := form.Indexed("product_types")
	parents := form.Indexed("parent_products")

	req := service.UpdateProductTypesRequest{Changes: make([]service.ProductTypeChange, 0, len(types))}
	for stockID, kind := range types {
		req.Changes = append(req.Changes, service.ProductTypeChange{
			StockID:       stockID,
			Type:          kind,
			ParentStockID: parents[stockID],
		})
	}

	result, err := a.productTypes.UpdateProductTypes(ctx, userID, req)
	if err != nil {
		return "", err
	}
	return result.Message(), nil
}
