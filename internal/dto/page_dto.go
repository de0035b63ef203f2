package dto

// Flash levels mirror the alert classes the pages render.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashDanger  = "danger"
)

type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Page describes what a view renders: its name, pending flash messages and
// the logged-in participant, if any.
type Page struct {
	Page     string   `json:"page"`
	Messages []Flash  `json:"messages"`
	Username string   `json:"username,omitempty"`
	Fields   []string `json:"fields,omitempty"`
	State    string   `json:"state,omitempty"`
}
