package domain

// OrderState is an entry of the fixed order status lookup table.
type OrderState struct {
	ID       string
	Name     string
	Position int
}

// DefaultStates seeds the lookup table. ID "1" is the initial state new orders start in.
func DefaultStates() []OrderState {
	return []OrderState{
		{ID: "1", Name: "Created", Position: 1},
		{ID: "2", Name: "Paid", Position: 2},
		{ID: "3", Name: "Shipped", Position: 3},
		{ID: "4", Name: "Delivered", Position: 4},
	}
}
