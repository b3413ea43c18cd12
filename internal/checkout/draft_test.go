package checkout

import (
	"testing"

	"github.com/abisalde/storefront-client/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNewDraftDefaults(t *testing.T) {
	d := NewDraft()

	assert.Equal(t, DefaultCountry, d.Shipping.Country)
	assert.Equal(t, DefaultCountry, d.Billing.Country)
	assert.Equal(t, model.PaymentMethodCreditCard, d.PaymentMethod)
	assert.True(t, d.SameAsShipping)
	assert.Equal(t, StepShipping, d.Step)
}

func TestApply_MirrorsShippingIntoBilling(t *testing.T) {
	tests := []struct {
		field       Field
		value       string
		wantBilling func(model.Address) string
	}{
		{FieldShippingStreet, "1 Main St", func(a model.Address) string { return a.Street }},
		{FieldShippingCity, "Springfield", func(a model.Address) string { return a.City }},
		{FieldShippingState, "IL", func(a model.Address) string { return a.State }},
		{FieldShippingCountry, "Canada", func(a model.Address) string { return a.Country }},
		{FieldShippingPostalCode, "62701", func(a model.Address) string { return a.PostalCode }},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			d := Apply(NewDraft(), tt.field, tt.value)
			assert.Equal(t, tt.value, tt.wantBilling(d.Billing))
			assert.Equal(t, d.Shipping, d.Billing)
		})
	}
}

func TestApply_NoMirrorWhenBillingDiffers(t *testing.T) {
	d := SetSameAsShipping(NewDraft(), false)
	d = Apply(d, FieldShippingStreet, "1 Main St")

	assert.Equal(t, "1 Main St", d.Shipping.Street)
	assert.Empty(t, d.Billing.Street)
}

func TestApply_IsPure(t *testing.T) {
	original := NewDraft()
	_ = Apply(original, FieldShippingStreet, "1 Main St")
	assert.Empty(t, original.Shipping.Street)
}

func TestApply_OtherFields(t *testing.T) {
	d := NewDraft()
	d = Apply(d, FieldPaymentMethod, string(model.PaymentMethodPayPal))
	d = Apply(d, FieldNotes, "ring twice")
	d = Apply(d, Field("unknown"), "x")

	assert.Equal(t, model.PaymentMethodPayPal, d.PaymentMethod)
	assert.Equal(t, "ring twice", d.Notes)
}

func TestSetSameAsShipping_CopiesSnapshot(t *testing.T) {
	d := SetSameAsShipping(NewDraft(), false)
	d = Apply(d, FieldShippingStreet, "1 Main St")
	d = Apply(d, FieldShippingCity, "Springfield")
	d = Apply(d, FieldBillingStreet, "PO Box 9")

	d = Apply(d, FieldSameAsShipping, "true")
	assert.True(t, d.SameAsShipping)
	assert.Equal(t, d.Shipping, d.Billing)

	d = Apply(d, FieldSameAsShipping, "not-a-bool")
	assert.True(t, d.SameAsShipping)
}

func completeShipping(d Draft) Draft {
	d = Apply(d, FieldShippingStreet, "1 Main St")
	d = Apply(d, FieldShippingCity, "Springfield")
	d = Apply(d, FieldShippingState, "IL")
	return Apply(d, FieldShippingPostalCode, "62701")
}

func TestValidateStep(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		step  Step
		want  bool
	}{
		{name: "shipping empty", draft: NewDraft(), step: StepShipping, want: false},
		{name: "shipping complete", draft: completeShipping(NewDraft()), step: StepShipping, want: true},
		{
			name:  "shipping missing postal code",
			draft: Apply(completeShipping(NewDraft()), FieldShippingPostalCode, ""),
			step:  StepShipping,
			want:  false,
		},
		{name: "payment same as shipping", draft: NewDraft(), step: StepPayment, want: true},
		{
			name:  "payment method missing",
			draft: Apply(NewDraft(), FieldPaymentMethod, ""),
			step:  StepPayment,
			want:  false,
		},
		{
			name:  "separate billing keeps mirrored values",
			draft: SetSameAsShipping(completeShipping(NewDraft()), false),
			step:  StepPayment,
			want:  true,
		},
		{
			name: "separate billing missing city",
			draft: Apply(
				SetSameAsShipping(completeShipping(NewDraft()), false),
				FieldBillingCity, "",
			),
			step: StepPayment,
			want: false,
		},
		{name: "review always valid", draft: NewDraft(), step: StepReview, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateStep(tt.draft, tt.step))
		})
	}
}

func TestValidateStep_SeparateBilling(t *testing.T) {
	d := SetSameAsShipping(NewDraft(), false)
	assert.False(t, ValidateStep(d, StepPayment))

	d = Apply(d, FieldBillingStreet, "PO Box 9")
	d = Apply(d, FieldBillingCity, "Chicago")
	d = Apply(d, FieldBillingState, "IL")
	assert.False(t, ValidateStep(d, StepPayment))

	d = Apply(d, FieldBillingPostalCode, "60601")
	assert.True(t, ValidateStep(d, StepPayment))
}

func TestNextBackClamp(t *testing.T) {
	d := NewDraft()

	_, ok := Next(d)
	assert.False(t, ok, "step 2 is unreachable while shipping is incomplete")

	d = completeShipping(d)
	d, ok = Next(d)
	assert.True(t, ok)
	assert.Equal(t, StepPayment, d.Step)

	d, ok = Next(d)
	assert.True(t, ok)
	assert.Equal(t, StepReview, d.Step)
	assert.True(t, ReadyToSubmit(d))

	d, ok = Next(d)
	assert.True(t, ok)
	assert.Equal(t, StepReview, d.Step)

	d = Back(Back(Back(d)))
	assert.Equal(t, StepShipping, d.Step)
}

func TestOrderRequest(t *testing.T) {
	d := completeShipping(NewDraft())
	d = Apply(d, FieldNotes, "leave at door")

	req := d.OrderRequest()
	assert.Equal(t, model.CreateOrderRequest{
		PaymentMethod:      model.PaymentMethodCreditCard,
		ShippingStreet:     "1 Main St",
		ShippingCity:       "Springfield",
		ShippingState:      "IL",
		ShippingCountry:    DefaultCountry,
		ShippingPostalCode: "62701",
		BillingStreet:      "1 Main St",
		BillingCity:        "Springfield",
		BillingState:       "IL",
		BillingCountry:     DefaultCountry,
		BillingPostalCode:  "62701",
		Notes:              "leave at door",
	}, req)
}
