package domain

import "time"

// Uncategorized is the label used when a product's category id cannot be resolved.
const Uncategorized = "Uncategorized"

type Category struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Product struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Price        float64  `json:"price"`
	ComparePrice *float64 `json:"comparePrice,omitempty"`
	Image        string   `json:"image"`
	Images       []string `json:"images"`
	Description  string   `json:"description"`
	Rating       float64  `json:"rating"`
	Reviews      int      `json:"reviews"`
	Stock        int      `json:"stock"`
	SellerID     string   `json:"sellerId"`
	SellerName   string   `json:"sellerName"`
	Trending     bool     `json:"trending"`
	Discount     *int     `json:"discount,omitempty"`
	Tags         []string `json:"tags"`
	DeliveryTime *int     `json:"deliveryTime,omitempty"` // minutes
}

// DeliversIn reports whether the product has a delivery time of exactly min minutes.
func (p Product) DeliversIn(min int) bool {
	return p.DeliveryTime != nil && *p.DeliveryTime == min
}

type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusApproved ApplicationStatus = "approved"
	StatusRejected ApplicationStatus = "rejected"
)

// Application is a seller or delivery partner application.
type Application struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     string            `json:"phone"`
	Role      string            `json:"role"` // seller | delivery
	Details   string            `json:"details"`
	ExtraInfo string            `json:"extraInfo"`
	Status    ApplicationStatus `json:"status"`
	Date      time.Time         `json:"date"`
}

// CanBecome reports whether a transition from the current status to next is allowed.
// Only pending applications move, and only to approved or rejected.
func (a Application) CanBecome(next ApplicationStatus) bool {
	if a.Status != StatusPending {
		return false
	}
	return next == StatusApproved || next == StatusRejected
}

type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type Order struct {
	ID                string      `json:"id"`
	CustomerID        string      `json:"customerId"`
	Items             []OrderItem `json:"items"`
	Total             float64     `json:"total"`
	Status            string      `json:"status"`
	PaymentStatus     string      `json:"paymentStatus"`
	DeliveryPartnerID string      `json:"deliveryPartnerId,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
	ShippingAddress   string      `json:"shippingAddress"`
	TrackingNumber    string      `json:"trackingNumber,omitempty"`
}

type MutationKind string

const (
	MutationCreate MutationKind = "create"
	MutationUpdate MutationKind = "update"
	MutationDelete MutationKind = "delete"
)

type MutationStatus string

const (
	MutationPending MutationStatus = "pending"
	MutationApplied MutationStatus = "applied"
	MutationFailed  MutationStatus = "failed"
)

// Mutation records one catalog write from the moment it is sent until the
// remote system settles it.
type Mutation struct {
	ID        string         `json:"id"`
	Kind      MutationKind   `json:"kind"`
	ProductID string         `json:"productId,omitempty"`
	Status    MutationStatus `json:"status"`
	Err       string         `json:"error,omitempty"`
	StartedAt time.Time      `json:"startedAt"`
}

// Availability is the stock summary shown on a product page.
type Availability struct {
	Status string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty    int    `json:"qty"`
}
