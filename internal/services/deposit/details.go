package deposit

import (
	"strings"

	"paydesk/internal/models"
)

// FormatCardNumber groups a card number into 4-digit blocks separated by
// dashes, e.g. "4169123412341234" -> "4169-1234-1234-1234".
func FormatCardNumber(cardNumber string) string {
	number := strings.ReplaceAll(cardNumber, " ", "")
	var b strings.Builder
	for i, r := range number {
		if i > 0 && i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// buildPaymentDetails snapshots the routing info a user needs to pay into the
// account. The shape follows the account type; unknown types pass the raw
// details through verbatim.
func buildPaymentDetails(account *models.PaymentAccount) (models.JSON, error) {
	switch account.AccountType {
	case models.AccountTypeCard:
		details, err := account.CardDetails()
		if err != nil {
			return nil, err
		}
		return models.JSON{
			"cardNumber": FormatCardNumber(details.CardNumber),
			"cardHolder": details.CardHolder,
			"bank":       details.Bank,
		}, nil

	case models.AccountTypeMobile:
		details, err := account.MobileDetails()
		if err != nil {
			return nil, err
		}
		return models.JSON{
			"phoneNumber": details.PhoneNumber,
			"operator":    details.Operator,
		}, nil

	default:
		return account.AccountDetails, nil
	}
}
