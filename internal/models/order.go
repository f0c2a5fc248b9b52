package models

import "time"

// Order statuses.
const (
	OrderPending    = "Pending"
	OrderConfirmed  = "Confirmed"
	OrderProcessing = "Processing"
	OrderShipped    = "Shipped"
	OrderDelivered  = "Delivered"
	OrderReturned   = "Returned"
	OrderCancelled  = "Cancelled"
)

// Payment statuses.
const (
	PaymentPending  = "Pending"
	PaymentPaid     = "Paid"
	PaymentFailed   = "Failed"
	PaymentRefunded = "Refunded"
)

// OrderStatuses enumerates every order status an admin may set.
var OrderStatuses = []string{
	OrderPending, OrderConfirmed, OrderProcessing, OrderShipped,
	OrderDelivered, OrderReturned, OrderCancelled,
}

// PaymentStatuses enumerates the payment lifecycle values.
var PaymentStatuses = []string{PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded}

// PaymentMethods enumerates the accepted payment methods.
var PaymentMethods = []string{"Credit Card", "Debit Card", "PayPal", "Cash on Delivery"}

// ShippingAddress is the delivery address snapshot embedded in an order.
// It is a copy taken at checkout, never a live reference to the profile.
type ShippingAddress struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// OrderItem is one rental line. Price is the unit price snapshot taken
// at creation time; later product price changes never touch it.
type OrderItem struct {
	ID             uint     `json:"-" gorm:"primaryKey"`
	OrderID        string   `json:"-" gorm:"index;type:varchar(36)"`
	ProductID      string   `json:"product" gorm:"type:varchar(36)"`
	Product        *Product `json:"productDetails,omitempty" gorm:"foreignKey:ProductID"`
	Quantity       int      `json:"quantity"`
	RentalDuration int      `json:"rentalDuration"` // days
	Price          float64  `json:"price"`
	TotalPrice     float64  `json:"totalPrice"`
}

// Order is a rental order. A nil UserID marks a guest order.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          *string         `json:"user" gorm:"index;type:varchar(36)"`
	User            *User           `json:"userDetails,omitempty" gorm:"foreignKey:UserID"`
	IsGuestOrder    bool            `json:"isGuestOrder" gorm:"default:false"`
	Items           []OrderItem     `json:"items" gorm:"constraint:OnDelete:CASCADE"`
	ShippingAddress ShippingAddress `json:"shippingAddress" gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod   string          `json:"paymentMethod" gorm:"type:varchar(32)"`
	PaymentStatus   string          `json:"paymentStatus" gorm:"type:varchar(16);default:Pending"`
	OrderStatus     string          `json:"orderStatus" gorm:"type:varchar(16);default:Pending"`
	Subtotal        float64         `json:"subtotal"`
	ShippingCost    float64         `json:"shippingCost"`
	Tax             float64         `json:"tax"`
	TotalAmount     float64         `json:"totalAmount"`
	OrderNumber     string          `json:"orderNumber" gorm:"uniqueIndex;type:varchar(16)"`
	RentalStartDate time.Time       `json:"rentalStartDate"`
	RentalEndDate   time.Time       `json:"rentalEndDate"`
	NeedDate        time.Time       `json:"needDate"`
	Notes           string          `json:"notes" gorm:"type:text"`
	AdminNotes      string          `json:"adminNotes" gorm:"type:text"`
	IsActive        bool            `json:"isActive" gorm:"default:true"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// IsValidOrderStatus reports whether s is an enumerated order status.
func IsValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValidPaymentStatus reports whether s is an enumerated payment status.
func IsValidPaymentStatus(s string) bool {
	for _, v := range PaymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}
