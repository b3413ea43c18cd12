package checkout

import (
	"strconv"

	"github.com/abisalde/storefront-client/internal/model"
)

const DefaultCountry = "United States"

type Step int

const (
	StepShipping Step = 1
	StepPayment  Step = 2
	StepReview   Step = 3
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "Shipping"
	case StepPayment:
		return "Payment"
	case StepReview:
		return "Review"
	}
	return "Step(" + strconv.Itoa(int(s)) + ")"
}

// Field names an editable draft field. The names match the order request
// body so form input can be applied by name.
type Field string

const (
	FieldShippingStreet     Field = "shippingStreet"
	FieldShippingCity       Field = "shippingCity"
	FieldShippingState      Field = "shippingState"
	FieldShippingCountry    Field = "shippingCountry"
	FieldShippingPostalCode Field = "shippingPostalCode"
	FieldBillingStreet      Field = "billingStreet"
	FieldBillingCity        Field = "billingCity"
	FieldBillingState       Field = "billingState"
	FieldBillingCountry     Field = "billingCountry"
	FieldBillingPostalCode  Field = "billingPostalCode"
	FieldPaymentMethod      Field = "paymentMethod"
	FieldNotes              Field = "notes"
	FieldSameAsShipping     Field = "sameAsShipping"
)

// billingMirror maps each shipping field to its billing counterpart.
var billingMirror = map[Field]Field{
	FieldShippingStreet:     FieldBillingStreet,
	FieldShippingCity:       FieldBillingCity,
	FieldShippingState:      FieldBillingState,
	FieldShippingCountry:    FieldBillingCountry,
	FieldShippingPostalCode: FieldBillingPostalCode,
}

// Draft is the local, unsubmitted checkout form.
type Draft struct {
	Shipping       model.Address
	Billing        model.Address
	SameAsShipping bool
	PaymentMethod  model.PaymentMethod
	Notes          string
	Step           Step
}

func NewDraft() Draft {
	return Draft{
		Shipping:       model.Address{Country: DefaultCountry},
		Billing:        model.Address{Country: DefaultCountry},
		SameAsShipping: true,
		PaymentMethod:  model.PaymentMethodCreditCard,
		Step:           StepShipping,
	}
}

// Apply returns draft with field set to value. While SameAsShipping is on,
// a shipping edit is mirrored into the matching billing field. Unknown
// fields leave the draft unchanged.
func Apply(draft Draft, field Field, value string) Draft {
	if field == FieldSameAsShipping {
		on, err := strconv.ParseBool(value)
		if err != nil {
			return draft
		}
		return SetSameAsShipping(draft, on)
	}

	draft = set(draft, field, value)
	if mirror, ok := billingMirror[field]; ok && draft.SameAsShipping {
		draft = set(draft, mirror, value)
	}
	return draft
}

// SetSameAsShipping toggles the flag. Turning it on copies the current
// shipping address into billing.
func SetSameAsShipping(draft Draft, on bool) Draft {
	draft.SameAsShipping = on
	if on {
		draft.Billing = draft.Shipping
	}
	return draft
}

func set(draft Draft, field Field, value string) Draft {
	switch field {
	case FieldShippingStreet:
		draft.Shipping.Street = value
	case FieldShippingCity:
		draft.Shipping.City = value
	case FieldShippingState:
		draft.Shipping.State = value
	case FieldShippingCountry:
		draft.Shipping.Country = value
	case FieldShippingPostalCode:
		draft.Shipping.PostalCode = value
	case FieldBillingStreet:
		draft.Billing.Street = value
	case FieldBillingCity:
		draft.Billing.City = value
	case FieldBillingState:
		draft.Billing.State = value
	case FieldBillingCountry:
		draft.Billing.Country = value
	case FieldBillingPostalCode:
		draft.Billing.PostalCode = value
	case FieldPaymentMethod:
		draft.PaymentMethod = model.PaymentMethod(value)
	case FieldNotes:
		draft.Notes = value
	}
	return draft
}

// OrderRequest flattens the draft into the POST /orders body.
func (d Draft) OrderRequest() model.CreateOrderRequest {
	return model.CreateOrderRequest{
		PaymentMethod:      d.PaymentMethod,
		ShippingStreet:     d.Shipping.Street,
		ShippingCity:       d.Shipping.City,
		ShippingState:      d.Shipping.State,
		ShippingCountry:    d.Shipping.Country,
		ShippingPostalCode: d.Shipping.PostalCode,
		BillingStreet:      d.Billing.Street,
		BillingCity:        d.Billing.City,
		BillingState:       d.Billing.State,
		BillingCountry:     d.Billing.Country,
		BillingPostalCode:  d.Billing.PostalCode,
		Notes:              d.Notes,
	}
}
