package errors

var (
	ErrAuthDisabled        = NewTypedError("authentication is not configured for this client", ErrorTypeDisabled)
	ErrNotSignedIn         = NewTypedError("no user is signed in", ErrorTypeUnauthenticated)
	ErrRegistrationPending = NewTypedError("account created but backend registration is pending", ErrorTypeReconciliation)
	ErrEmptyCart           = NewTypedError("cart is empty", ErrorTypeBadRequest)
	ErrStepInvalid         = NewTypedError("checkout step is incomplete", ErrorTypeInvalidInput)
	ErrInvalidQuantity     = NewTypedError("quantity must be at least 1", ErrorTypeInvalidInput)
)

var ErrNoCheckout = NewTypedError("checkout has not been started", ErrorTypeBadRequest)
