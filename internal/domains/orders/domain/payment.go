package domain

// PaymentSessionRequest is everything the hosted payment page needs for one order.
type PaymentSessionRequest struct {
	OrderID               string
	LineItems             []PricedLineItem
	SuccessURL            string
	CancelURL             string
	RequireBillingAddress bool
	RequirePhone          bool
	Metadata              map[string]string
}

// PaymentSession is the provider's answer; URL is where the customer is redirected.
type PaymentSession struct {
	ID  string
	URL string
}
