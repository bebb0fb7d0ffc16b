package category

// Category is one topic stage in the fixed interview order.
type Category string

const (
	Start         Category = "START"
	Functionality Category = "FUNCTIONALITY"
	Users         Category = "USERS"
	Demographics  Category = "DEMOGRAPHICS"
	Design        Category = "DESIGN"
	Market        Category = "MARKET"
	Technical     Category = "TECHNICAL"
	Review        Category = "REVIEW"
	Complete      Category = "COMPLETE"
)

// DefaultOrder returns the interview traversal from the opening category
// to the terminal one.
func DefaultOrder() []Category {
	return []Category{
		Start,
		Functionality,
		Users,
		Demographics,
		Design,
		Market,
		Technical,
		Review,
		Complete,
	}
}

func (c Category) String() string {
	return string(c)
}
