package model

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// Cancellable mirrors the statuses the backend accepts a cancel request for.
func (s OrderStatus) Cancellable() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "PENDING"
	PaymentStatusPaid              PaymentStatus = "PAID"
	PaymentStatusFailed            PaymentStatus = "FAILED"
	PaymentStatusRefunded          PaymentStatus = "REFUNDED"
	PaymentStatusPartiallyRefunded PaymentStatus = "PARTIALLY_REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard  PaymentMethod = "DEBIT_CARD"
	PaymentMethodPayPal     PaymentMethod = "PAYPAL"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodPayPal:
		return true
	}
	return false
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

type OrderItem struct {
	ID              int64   `json:"id"`
	ProductID       int64   `json:"productId"`
	ProductName     string  `json:"productName"`
	ProductSKU      string  `json:"productSku"`
	ProductImageURL string  `json:"productImageUrl,omitempty"`
	UnitPrice       float64 `json:"unitPrice"`
	Quantity        int     `json:"quantity"`
	TotalPrice      float64 `json:"totalPrice"`
}

type Order struct {
	ID              int64         `json:"id"`
	OrderNumber     string        `json:"orderNumber"`
	Items           []OrderItem   `json:"items"`
	Status          OrderStatus   `json:"status"`
	Subtotal        float64       `json:"subtotal"`
	Tax             float64       `json:"tax"`
	ShippingCost    float64       `json:"shippingCost"`
	TotalAmount     float64       `json:"totalAmount"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	TrackingNumber  string        `json:"trackingNumber,omitempty"`
	ShippingAddress Address       `json:"shippingAddress"`
	BillingAddress  Address       `json:"billingAddress"`
	Notes           string        `json:"notes,omitempty"`
	ShippedAt       Timestamp     `json:"shippedAt"`
	DeliveredAt     Timestamp     `json:"deliveredAt"`
	CreatedAt       Timestamp     `json:"createdAt"`
	UpdatedAt       Timestamp     `json:"updatedAt"`
}

// CreateOrderRequest is the flat body POST /orders expects.
type CreateOrderRequest struct {
	PaymentMethod      PaymentMethod `json:"paymentMethod"`
	ShippingStreet     string        `json:"shippingStreet"`
	ShippingCity       string        `json:"shippingCity"`
	ShippingState      string        `json:"shippingState"`
	ShippingCountry    string        `json:"shippingCountry"`
	ShippingPostalCode string        `json:"shippingPostalCode"`
	BillingStreet      string        `json:"billingStreet"`
	BillingCity        string        `json:"billingCity"`
	BillingState       string        `json:"billingState"`
	BillingCountry     string        `json:"billingCountry"`
	BillingPostalCode  string        `json:"billingPostalCode"`
	Notes              string        `json:"notes"`
}
