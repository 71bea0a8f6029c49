package core

// CategoryInput carries the client-supplied fields for creating or
// replacing a category. Identity and timestamps are always server-assigned.
type CategoryInput struct {
	Name        string
	Description string
	Icon        string
	Color       string
}

// ExpenseInput carries the client-supplied fields for creating or replacing
// an expense. Amount, ExpenseDate and CategoryID arrive as raw text and are
// parsed by the validation layer so that every violation can be reported at
// once.
type ExpenseInput struct {
	Amount      string
	Description string
	ExpenseDate string
	CategoryID  string
}
