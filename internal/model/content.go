package model

import "time"

// Banner represents a homepage promotional banner.
type Banner struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	ImageURL string `json:"imageUrl"`
	Link     string `json:"link,omitempty"`
}

// Blog represents a blog post summary.
type Blog struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Content   string    `json:"content,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// FAQ represents a frequently-asked-question entry.
type FAQ struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Page represents a static content page (about, terms).
type Page struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ContactInfo represents the store's contact details.
type ContactInfo struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	WhatsApp string `json:"whatsapp,omitempty"`
}

// ChatMessage represents a message in the support chat.
type ChatMessage struct {
	ID        int       `json:"id"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
