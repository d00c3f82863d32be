package source

import (
	"context"

	"axm-storefront/internal/model"
)

// Mock implements Source and ProductFinder for testing.
// Each method can be configured via function fields.
type Mock struct {
	NameValue       string
	ProductsFunc    func(ctx context.Context) ([]model.Product, error)
	FindProductFunc func(ctx context.Context, handle string) (*model.Product, error)
}

// Name returns NameValue or "mock".
func (m *Mock) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock"
}

// Products calls the configured ProductsFunc or reports an empty tier.
func (m *Mock) Products(ctx context.Context) ([]model.Product, error) {
	if m.ProductsFunc != nil {
		return m.ProductsFunc(ctx)
	}
	return nil, model.ErrEmptySource
}

// FindProduct calls the configured FindProductFunc or returns not found.
func (m *Mock) FindProduct(ctx context.Context, handle string) (*model.Product, error) {
	if m.FindProductFunc != nil {
		return m.FindProductFunc(ctx, handle)
	}
	return nil, model.NewNotFoundError("product")
}

// Static returns a Mock serving a fixed catalog.
func Static(name string, products ...model.Product) *Mock {
	return &Mock{
		NameValue: name,
		ProductsFunc: func(context.Context) ([]model.Product, error) {
			return products, nil
		},
	}
}

// Failing returns a Mock whose Products always fails with err.
func Failing(name string, err error) *Mock {
	return &Mock{
		NameValue: name,
		ProductsFunc: func(context.Context) ([]model.Product, error) {
			return nil, err
		},
	}
}

// Verify Mock implements the interfaces at compile time.
var (
	_ Source        = (*Mock)(nil)
	_ ProductFinder = (*Mock)(nil)
)
