package domain

// ChecklistItem is a single step in a generated checklist. This is the
// contract the language model is instructed to honor: every item carries a
// description, an estimated duration in minutes, and a completion flag that
// must be false at creation.
type ChecklistItem struct {
	Description   string `json:"description"`
	EstimatedTime int    `json:"estimatedTime"`
	IsCompleted   bool   `json:"isCompleted"`
}

// Checklist is the top-level structure the model must return: an ordered
// sequence of items under the "checklist" key.
type Checklist struct {
	Items []ChecklistItem `json:"checklist"`
}
