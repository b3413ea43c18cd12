package checkout

// ValidateStep reports whether the draft satisfies step's requirements.
func ValidateStep(d Draft, step Step) bool {
	switch step {
	case StepShipping:
		return addressComplete(d.Shipping.Street, d.Shipping.City, d.Shipping.State, d.Shipping.PostalCode)
	case StepPayment:
		if d.PaymentMethod == "" {
			return false
		}
		if d.SameAsShipping {
			return true
		}
		return addressComplete(d.Billing.Street, d.Billing.City, d.Billing.State, d.Billing.PostalCode)
	default:
		return true
	}
}

// Next advances one step when the current step is valid. The bool reports
// whether the gate passed.
func Next(d Draft) (Draft, bool) {
	if !ValidateStep(d, d.Step) {
		return d, false
	}
	d.Step = clamp(d.Step + 1)
	return d, true
}

func Back(d Draft) Draft {
	d.Step = clamp(d.Step - 1)
	return d
}

// ReadyToSubmit is true on the review step with every earlier step valid.
func ReadyToSubmit(d Draft) bool {
	return d.Step == StepReview && ValidateStep(d, StepShipping) && ValidateStep(d, StepPayment)
}

func clamp(s Step) Step {
	if s < StepShipping {
		return StepShipping
	}
	if s > StepReview {
		return StepReview
	}
	return s
}

func addressComplete(fields ...string) bool {
	for _, f := range fields {
		if f == "" {
			return false
		}
	}
	return true
}
