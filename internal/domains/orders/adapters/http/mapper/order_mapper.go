package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	orderstypes "github.com/Apurer/store-admin-api/internal/domains/orders/application/types"
	"github.com/Apurer/store-admin-api/internal/domains/orders/domain"
)

// Product is the catalog entry embedded in order items and shortage reports.
type Product struct {
	ID         string          `json:"product_id"`
	StoreID    string          `json:"store_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Images     []string        `json:"images"`
	IsFeatured bool            `json:"isFeatured"`
	IsArchived bool            `json:"isArchived"`
}

// OrderItem is one line of an order with its current product.
type OrderItem struct {
	ID        string   `json:"order_item_id"`
	OrderID   string   `json:"order_id"`
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product"`
}

// OrderState is the transport shape of a lookup state.
type OrderState struct {
	ID       string `json:"order_state_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Order is the transport shape returned by the order endpoints.
type Order struct {
	ID           string          `json:"order_id"`
	StoreID      string          `json:"store_id"`
	UserID       string          `json:"userId"`
	IsPaid       bool            `json:"isPaid"`
	OrderStateID string          `json:"order_state_id"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	Items        []OrderItem     `json:"orderItems"`
	State        *OrderState     `json:"orderState"`
	TotalPrice   decimal.Decimal `json:"totalPrice"`
}

// NonStockItem reports a product whose stock cannot cover the requested quantity.
type NonStockItem struct {
	Quantity int     `json:"quantity"`
	Product  Product `json:"product"`
}

// StockShortageResponse is the 404 body of a checkout that exceeds stock.
type StockShortageResponse struct {
	NonStockItems []NonStockItem `json:"non_stock_items"`
}

// FromView converts an order view to its transport representation. A nil view maps to nil.
func FromView(view *orderstypes.OrderView) *Order {
	if view == nil || view.Order == nil {
		return nil
	}
	order := view.Order
	out := &Order{
		ID:           order.ID,
		StoreID:      order.StoreID,
		UserID:       order.UserID,
		IsPaid:       order.IsPaid,
		OrderStateID: order.OrderStateID,
		Phone:        order.Phone,
		Address:      order.Address,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
		Items:        make([]OrderItem, 0, len(view.Items)),
		TotalPrice:   view.TotalPrice,
	}
	for _, item := range view.Items {
		mapped := OrderItem{
			ID:        item.Item.ID,
			OrderID:   item.Item.OrderID,
			ProductID: item.Item.ProductID,
			Quantity:  item.Item.Quantity,
		}
		if item.Product != nil {
			p := FromProduct(*item.Product)
			mapped.Product = &p
		}
		out.Items = append(out.Items, mapped)
	}
	if view.State != nil {
		st := FromState(*view.State)
		out.State = &st
	}
	return out
}

// FromViews converts a list of views, always returning a non-nil slice.
func FromViews(views []*orderstypes.OrderView) []*Order {
	out := make([]*Order, 0, len(views))
	for _, view := range views {
		if mapped := FromView(view); mapped != nil {
			out = append(out, mapped)
		}
	}
	return out
}

func FromProduct(p domain.Product) Product {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return Product{
		ID:         p.ID,
		StoreID:    p.StoreID,
		Name:       p.Name,
		Price:      p.Price,
		Quantity:   p.Quantity,
		Images:     images,
		IsFeatured: p.IsFeatured,
		IsArchived: p.IsArchived,
	}
}

func FromState(st domain.OrderState) OrderState {
	return OrderState{ID: st.ID, Name: st.Name, Position: st.Position}
}

// FromStates keeps the repository order.
func FromStates(states []domain.OrderState) []OrderState {
	out := make([]OrderState, 0, len(states))
	for _, st := range states {
		out = append(out, FromState(st))
	}
	return out
}

// FromShortages builds the itemized stock shortage payload.
func FromShortages(shortages []domain.StockShortage) StockShortageResponse {
	items := make([]NonStockItem, 0, len(shortages))
	for _, s := range shortages {
		items = append(items, NonStockItem{Quantity: s.Quantity, Product: FromProduct(s.Product)})
	}
	return StockShortageResponse{NonStockItems: items}
}
