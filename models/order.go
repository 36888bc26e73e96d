package models

import "time"

// OrderStatus is the canonical lifecycle state of an order. The historical
// dashboards stored a mix of English and Spanish tokens for the same states;
// only these values are ever persisted, legacy spellings are translated at
// the boundary (see statemachine.ParseStatus).
type OrderStatus string

const (
	// StatusPending is a freshly created order. Web orders sit here
	// unclaimed (RestaurantID nil); internal orders sit here until the
	// restaurant marks them ready.
	StatusPending OrderStatus = "PENDING"
	// StatusAvailable is claimed by a restaurant and waiting for a driver.
	StatusAvailable OrderStatus = "AVAILABLE"
	// StatusAccepted has a driver assigned.
	StatusAccepted OrderStatus = "ACCEPTED"
	// StatusEnRoute is picked up and on its way to the customer.
	StatusEnRoute OrderStatus = "EN_ROUTE"
	// StatusDelivered is the terminal success state.
	StatusDelivered OrderStatus = "DELIVERED"
	// StatusCancelled is the terminal failure state.
	StatusCancelled OrderStatus = "CANCELLED"
)

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// DisplayName returns the Spanish label the dashboards show. Presentation
// only — never persisted.
func (s OrderStatus) DisplayName() string {
	switch s {
	case StatusPending:
		return "Pendiente"
	case StatusAvailable:
		return "Disponible"
	case StatusAccepted:
		return "Aceptado"
	case StatusEnRoute:
		return "En camino"
	case StatusDelivered:
		return "Entregado"
	case StatusCancelled:
		return "Cancelado"
	}
	return string(s)
}

// PaymentMethod is how the customer pays on delivery.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentTransfer PaymentMethod = "TRANSFER"
)

// ValidPayment reports whether m is a known payment method.
func ValidPayment(m PaymentMethod) bool {
	return m == PaymentCash || m == PaymentTransfer
}

// Order is the central ledger entity. RestaurantID nil means an unclaimed
// web order; DriverID is set exactly once, at the accept transition.
type Order struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	TrackingCode string `json:"tracking_code" gorm:"uniqueIndex;not null"`

	CustomerName    string `json:"customer_name" gorm:"not null"`
	CustomerPhone   string `json:"customer_phone"`
	DeliveryAddress string `json:"delivery_address" gorm:"not null"`

	Items       []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	DeliveryFee float64     `json:"delivery_fee"`
	Total       float64     `json:"total"`

	PaymentMethod PaymentMethod `json:"payment_method" gorm:"not null;default:'CASH'"`

	RestaurantID  *uint  `json:"restaurant_id" gorm:"index"`
	Restaurant    *User  `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	PickupAddress string `json:"pickup_address"`

	DriverID *uint `json:"driver_id" gorm:"index"`
	Driver   *User `json:"driver,omitempty" gorm:"foreignKey:DriverID"`

	Status  OrderStatus `json:"status" gorm:"not null;default:'PENDING';index"`
	Settled bool        `json:"settled" gorm:"not null;default:false;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is a denormalized snapshot of a catalog item at order time.
// Immutable after creation: later catalog edits never touch past orders.
type OrderItem struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	OrderID   uint    `json:"order_id" gorm:"not null;index"`
	Name      string  `json:"name" gorm:"not null"`
	Quantity  int     `json:"quantity" gorm:"not null"`
	UnitPrice float64 `json:"unit_price" gorm:"not null"`
}

// ItemSum is the line-item subtotal, before the delivery fee.
func (o *Order) ItemSum() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	return sum
}

// RecomputeTotal re-derives Total from the items and the fee. Must be called
// on every mutation that touches either; Total is never accepted from input.
func (o *Order) RecomputeTotal() {
	o.Total = o.ItemSum() + o.DeliveryFee
}
