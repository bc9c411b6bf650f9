// Package dto carries the mutators' inputs and batch results.
package dto

// NewPost factory input for creating a post. Zero fields fall back to the
// mutator's defaults: derived slug, today's date, derived excerpt, zero views.
type NewPost struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Excerpt     string   `json:"excerpt"`
	Content     string   `json:"content"`
	Category    string   `json:"category"`
	Author      string   `json:"author"`
	AuthorImage string   `json:"authorImage"`
	Date        string   `json:"date"`
	Image       string   `json:"image"`
	Featured    bool     `json:"featured"`
	Views       int      `json:"views"`
	Tags        []string `json:"tags"`
}

// PostPatch shallow-merge patch for a post. Nil fields are preserved on the
// existing record, non-nil fields replace it.
type PostPatch struct {
	Title       *string   `json:"title,omitempty"`
	Slug        *string   `json:"slug,omitempty"`
	Excerpt     *string   `json:"excerpt,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Author      *string   `json:"author,omitempty"`
	AuthorImage *string   `json:"authorImage,omitempty"`
	Date        *string   `json:"date,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Featured    *bool     `json:"featured,omitempty"`
	Views       *int      `json:"views,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// NewCategory factory input for creating a category.
type NewCategory struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// CategoryPatch shallow-merge patch for a category.
type CategoryPatch struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`
}

// BulkPostPatch one instruction of a bulk update.
type BulkPostPatch struct {
	Slug  string    `json:"slug"`
	Patch PostPatch `json:"patch"`
}

// BatchFailure one record that failed inside a batch operation.
type BatchFailure struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// BatchResult success/failure partition of a batch operation. A record's
// failure never aborts the batch; it is recorded here and skipped.
type BatchResult struct {
	Succeeded []string       `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}
