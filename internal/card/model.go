package card

// Card is the domain model for a catalog entry. WorkflowID and
// APIToken are empty strings when the workflow linkage is not
// configured yet.
type Card struct {
	ID              int64
	Name            string
	Description     string
	Icon            string
	BackgroundColor string
	SortOrder       int
	Enabled         bool
	WorkflowID      string
	APIToken        string
}

// Actionable reports whether the card can invoke its workflow:
// both linkage fields must be populated.
func (c *Card) Actionable() bool {
	return c.WorkflowID != "" && c.APIToken != ""
}

// Detail is the full projection handed to the workflow-invocation
// client. Only returned for enabled, actionable cards.
type Detail struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Icon            string `json:"icon"`
	BackgroundColor string `json:"backgroundColor"`
	WorkflowID      string `json:"workflowId"`
	APIToken        string `json:"apiToken"`
}

// Summary is the catalog-listing projection. It deliberately omits
// the workflow credentials.
type Summary struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Icon            string `json:"icon"`
	BackgroundColor string `json:"backgroundColor"`
	Actionable      bool   `json:"actionable"`
}
