package models

// Column is a board-level column.
type Column struct {
	ID    ColumnID `json:"id"`
	Title string   `json:"title"`
}

// DefaultColumns returns the four standard board columns.
func DefaultColumns() []Column {
	return []Column{
		{ID: ColumnBacklog, Title: "Backlog"},
		{ID: ColumnInProgress, Title: "In Progress"},
		{ID: ColumnReview, Title: "Review"},
		{ID: ColumnDone, Title: "Done"},
	}
}
