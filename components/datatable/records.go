package datatable

import "strconv"

// Section is a proposal outline row shared by the outline, past-performance,
// key-personnel and focus-documents tables.
type Section struct {
	ID       int    `json:"id"`
	Header   string `json:"header"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	Target   string `json:"target"`
	Limit    string `json:"limit"`
	Reviewer string `json:"reviewer"`
}

// RowID implements Row.
func (s Section) RowID() string {
	return strconv.Itoa(s.ID)
}

// SectionColumns is the column set of the outline tables. The header column
// is pinned.
func SectionColumns() Columns[Section] {
	return MustColumns(
		TextColumn("header", "Header", func(s Section) string { return s.Header }).Pinned(),
		EnumColumn("type", "Section Type", func(s Section) string { return s.Type }),
		EnumColumn("status", "Status", func(s Section) string { return s.Status }),
		NumericTextColumn("target", "Target", func(s Section) string { return s.Target }),
		NumericTextColumn("limit", "Limit", func(s Section) string { return s.Limit }),
		EnumColumn("reviewer", "Reviewer", func(s Section) string { return s.Reviewer }),
	)
}

// User is a row of the users table.
type User struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Plan       string `json:"plan"`
	Billing    string `json:"billing"`
	Status     string `json:"status"`
	JoinedDate string `json:"joinedDate"`
	LastLogin  string `json:"lastLogin"`
}

// RowID implements Row.
func (u User) RowID() string {
	return strconv.Itoa(u.ID)
}

// UserColumns is the column set of the users table.
func UserColumns() Columns[User] {
	return MustColumns(
		TextColumn("name", "User", func(u User) string { return u.Name }).Pinned(),
		TextColumn("email", "Email", func(u User) string { return u.Email }),
		EnumColumn("role", "Role", func(u User) string { return u.Role }),
		EnumColumn("plan", "Plan", func(u User) string { return u.Plan }),
		EnumColumn("billing", "Billing", func(u User) string { return u.Billing }),
		EnumColumn("status", "Status", func(u User) string { return u.Status }),
		TextColumn("joinedDate", "Joined", func(u User) string { return u.JoinedDate }),
		TextColumn("lastLogin", "Last Login", func(u User) string { return u.LastLogin }).Unsortable(),
	)
}

// Task is a row of the tasks table.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	Label       string `json:"label"`
	Priority    string `json:"priority"`
}

// RowID implements Row.
func (t Task) RowID() string {
	return t.ID
}

// TaskColumns is the column set of the tasks table.
func TaskColumns() Columns[Task] {
	return MustColumns(
		TextColumn("id", "Task", func(t Task) string { return t.ID }).Pinned(),
		TextColumn("title", "Title", func(t Task) string { return t.Title }),
		EnumColumn("status", "Status", func(t Task) string { return t.Status }),
		EnumColumn("label", "Label", func(t Task) string { return t.Label }),
		EnumColumn("priority", "Priority", func(t Task) string { return t.Priority }),
	)
}
