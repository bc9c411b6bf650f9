// Package model contains the content records stored in the repository documents.
package model

// DateFormat calendar date layout used by post records
const DateFormat = "2006-01-02"

// Post news article record
type Post struct {
	// ID unique identifier, assigned at creation, never reused
	ID string `json:"id"`
	// Slug URL-safe identifier, unique within the posts document
	Slug string `json:"slug"`
	// Title display title of the post
	Title string `json:"title"`
	// Excerpt short summary shown on listing pages
	Excerpt string `json:"excerpt"`
	// Content markdown body of the post
	Content string `json:"content"`
	// Category slug of the owning category, not enforced by the store
	Category string `json:"category"`
	// Author display name of the author
	Author string `json:"author"`
	// AuthorImage avatar URL of the author
	AuthorImage string `json:"authorImage"`
	// Date calendar date of the post
	Date string `json:"date"`
	// Image cover image URL
	Image string `json:"image"`
	// Featured whether the post is pinned on the front page
	Featured bool `json:"featured"`
	// Views manually seeded view counter
	Views int `json:"views"`
	// Tags free-form labels
	Tags []string `json:"tags"`
}

// Category post category record
type Category struct {
	// ID unique identifier for the category
	ID string `json:"id"`
	// Name display name
	Name string `json:"name"`
	// Slug URL-safe identifier, unique within the categories document
	Slug string `json:"slug"`
	// Description short description
	Description string `json:"description"`
	// Color accent color used by the rendering layer
	Color string `json:"color"`
	// Icon icon identifier used by the rendering layer
	Icon string `json:"icon"`
}

// PostsDocument the posts collection document.
type PostsDocument struct {
	Posts       []Post `json:"posts"`
	LastUpdated string `json:"lastUpdated"`
}

// CategoriesDocument the categories collection document.
type CategoriesDocument struct {
	Categories  []Category `json:"categories"`
	LastUpdated string     `json:"lastUpdated"`
}

// SiteSettings free-form site configuration. A "lastUpdated" key is
// rewritten on every mutation of the document.
type SiteSettings map[string]any
