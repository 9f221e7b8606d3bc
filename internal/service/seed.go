package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"perfectapi/internal/domain"
	"perfectapi/internal/store"
)

// SeedDemoData populates the store with the fixture's default entities: two
// users, two products, and one order referencing the first of each. It is a
// no-op when the collections already hold data.
func SeedDemoData(st *store.Store) {
	if st.Users.Len() > 0 || st.Products.Len() > 0 || st.Orders.Len() > 0 {
		return
	}

	now := time.Now().UTC().Truncate(time.Second)

	admin := domain.User{
		ID:     uuid.New(),
		Email:  "admin@example.com",
		Name:   "Admin User",
		Role:   domain.RoleAdmin,
		Active: true,
		Profile: &domain.Profile{
			Bio:       "Administrator of the system.",
			Website:   "https://admin.example.com",
			Interests: []string{"security", "compliance"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	member := domain.User{
		ID:     uuid.New(),
		Email:  "member@example.com",
		Name:   "Member User",
		Role:   domain.RoleMember,
		Active: true,
		Profile: &domain.Profile{
			Bio:       "Standard member.",
			Interests: []string{"apis", "testing"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	st.Users.Put(admin.ID, admin)
	st.Users.Put(member.ID, member)

	book := domain.Product{
		ID:         st.NextProductID(),
		SKU:        "SKU-BOOK01",
		Name:       "API Design Book",
		Price:      decimal.RequireFromString("39.90"),
		Category:   domain.CategoryBook,
		Tags:       []string{"architecture", "best-practices"},
		Dimensions: &domain.Dimensions{W: 15.0, H: 23.0, D: 2.5},
	}
	keyboard := domain.Product{
		ID:         st.NextProductID(),
		SKU:        "SKU-DEV999",
		Name:       "Mechanical Keyboard",
		Price:      decimal.RequireFromString("129.99"),
		Category:   domain.CategoryDevice,
		Tags:       []string{"mechanical", "keyboard"},
		Dimensions: &domain.Dimensions{W: 45.0, H: 4.0, D: 15.0},
	}
	st.Products.Put(book.ID, book)
	st.Products.Put(keyboard.ID, keyboard)

	order := domain.Order{
		ID:            uuid.New(),
		UserID:        admin.ID,
		Status:        domain.OrderStatusNew,
		CreatedAt:     now,
		PaymentMethod: domain.PaymentCard,
		Notes:         "Initial seeded order.",
		Items:         []domain.OrderItem{{ProductID: book.ID, Qty: 1}},
	}
	st.Orders.Put(order.ID, order)
}
