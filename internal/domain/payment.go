package domain

// PaymentResult — неизменяемый результат одной попытки списания или возврата.
// TransactionRef заполнен тогда и только тогда, когда Success == true;
// FailureReason — тогда и только тогда, когда Success == false.
type PaymentResult struct {
	success        bool
	transactionRef string
	failureReason  string
}

// PaymentSucceeded создаёт успешный результат с идентификатором транзакции.
func PaymentSucceeded(transactionRef string) PaymentResult {
	return PaymentResult{success: true, transactionRef: transactionRef}
}

// PaymentDeclined создаёт неуспешный результат с причиной отказа.
func PaymentDeclined(reason string) PaymentResult {
	if reason == "" {
		reason = "declined"
	}
	return PaymentResult{failureReason: reason}
}

func (r PaymentResult) Success() bool          { return r.success }
func (r PaymentResult) TransactionRef() string { return r.transactionRef }
func (r PaymentResult) FailureReason() string  { return r.failureReason }
