package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"perfectapi/internal/domain"
	"perfectapi/internal/pagination"
	"perfectapi/internal/service"
)

// collection is the standard paginated response envelope.
type collection[T any] struct {
	Items    []T              `json:"items"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int              `json:"total"`
	Links    pagination.Links `json:"_links"`
}

type profileDTO struct {
	Bio       string   `json:"bio"`
	Website   string   `json:"website"`
	Interests []string `json:"interests"`
}

type userDTO struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      string      `json:"role"`
	Active    bool        `json:"active"`
	Profile   *profileDTO `json:"profile"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
}

type userDetailDTO struct {
	userDTO
	AuditLogs []auditEntryDTO `json:"audit_logs"`
}

type auditEntryDTO struct {
	Action      string `json:"action"`
	Actor       string `json:"actor"`
	Summary     string `json:"summary"`
	PerformedAt string `json:"performed_at"`
}

type dimensionsDTO struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

type productDTO struct {
	ID         int64          `json:"id"`
	SKU        string         `json:"sku"`
	Name       string         `json:"name"`
	Price      string         `json:"price"`
	Category   string         `json:"category"`
	Tags       []string       `json:"tags"`
	Dimensions *dimensionsDTO `json:"dimensions"`
}

type orderItemDTO struct {
	ProductID int64  `json:"product_id"`
	Qty       int    `json:"qty"`
	LineTotal string `json:"line_total"`
}

type link struct {
	Href string `json:"href"`
}

type orderLinks struct {
	Self  link   `json:"self"`
	User  link   `json:"user"`
	Items []link `json:"items"`
}

type orderDTO struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Status        string         `json:"status"`
	PaymentMethod string         `json:"payment_method"`
	Notes         string         `json:"notes"`
	Total         string         `json:"total"`
	Items         []orderItemDTO `json:"items"`
	CreatedAt     string         `json:"created_at"`
	Links         orderLinks     `json:"_links"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatMoney(d decimal.Decimal) string {
	return service.Quantize(d).StringFixed(2)
}

func toProfileDTO(p *domain.Profile) *profileDTO {
	if p == nil {
		return nil
	}
	interests := p.Interests
	if interests == nil {
		interests = []string{}
	}
	return &profileDTO{Bio: p.Bio, Website: p.Website, Interests: interests}
}

func toUserDTO(u domain.User) userDTO {
	return userDTO{
		ID:        u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		Active:    u.Active,
		Profile:   toProfileDTO(u.Profile),
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

func toUserDetailDTO(u domain.User, trail []domain.AuditEntry) userDetailDTO {
	logs := make([]auditEntryDTO, 0, len(trail))
	for _, e := range trail {
		logs = append(logs, auditEntryDTO{
			Action:      e.Action,
			Actor:       e.Actor,
			Summary:     e.Summary,
			PerformedAt: formatTime(e.PerformedAt),
		})
	}
	return userDetailDTO{userDTO: toUserDTO(u), AuditLogs: logs}
}

func toProductDTO(p domain.Product) productDTO {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	var dims *dimensionsDTO
	if p.Dimensions != nil {
		dims = &dimensionsDTO{
			Width:  p.Dimensions.W,
			Height: p.Dimensions.H,
			Depth:  p.Dimensions.D,
		}
	}
	return productDTO{
		ID:         p.ID,
		SKU:        p.SKU,
		Name:       p.Name,
		Price:      formatMoney(p.Price),
		Category:   string(p.Category),
		Tags:       tags,
		Dimensions: dims,
	}
}

// toOrderDTO renders an order with freshly computed line totals. Totals are
// never stored, so the caller prices the order at read time.
func toOrderDTO(o domain.Order, priced []service.PricedItem, total decimal.Decimal, base string) orderDTO {
	items := make([]orderItemDTO, 0, len(priced))
	itemLinks := make([]link, 0, len(priced))
	for _, it := range priced {
		items = append(items, orderItemDTO{
			ProductID: it.ProductID,
			Qty:       it.Qty,
			LineTotal: formatMoney(it.LineTotal),
		})
		itemLinks = append(itemLinks, link{Href: fmt.Sprintf("%s/products/%d", base, it.ProductID)})
	}
	return orderDTO{
		ID:            o.ID.String(),
		UserID:        o.UserID.String(),
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		Notes:         o.Notes,
		Total:         formatMoney(total),
		Items:         items,
		CreatedAt:     formatTime(o.CreatedAt),
		Links: orderLinks{
			Self:  link{Href: fmt.Sprintf("%s/orders/%s", base, o.ID)},
			User:  link{Href: fmt.Sprintf("%s/users/%s", base, o.UserID)},
			Items: itemLinks,
		},
	}
}

// requestBase reconstructs the externally visible origin of the request, used
// to build absolute links.
func requestBase(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
