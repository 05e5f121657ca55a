package enums

// PaymentProcessor tags which upstream processor settled a payment.
type PaymentProcessor string

const (
	PaymentProcessorStripe PaymentProcessor = "stripe"
	PaymentProcessorPaypal PaymentProcessor = "paypal"
	PaymentProcessorCrypto PaymentProcessor = "crypto"
)

func (p PaymentProcessor) IsValid() bool {
	switch p {
	case PaymentProcessorStripe, PaymentProcessorPaypal, PaymentProcessorCrypto:
		return true
	}
	return false
}
