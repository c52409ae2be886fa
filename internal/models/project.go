package models

// Project represents one portfolio entry as served in projects.json.
type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	Link        string `json:"link,omitempty"`
}

// HasLink reports whether the project carries a detail link.
func (p Project) HasLink() bool { return p.Link != "" }
