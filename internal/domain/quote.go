// Package domain contains core business entities and rules.
package domain

import (
	"strings"
	"time"
)

// Quote represents a stored quotation.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID is the store-assigned identifier, immutable after creation.
	ID int64

	// Text is the quotation itself.
	Text string

	// Author is who said or wrote the quote.
	Author string

	// Source is where the quote comes from (book, speech, ...). Optional;
	// empty means unknown.
	Source string

	// Category is a free-form label. Categories are derived from the set of
	// live quotes, never stored independently.
	Category string

	// CreatedAt is assigned by the store at creation, immutable.
	CreatedAt time.Time

	// IsFavorite reports whether the requesting visitor has favorited this
	// quote. It is an annotation on the read path, not persisted state of
	// the quote itself.
	IsFavorite bool
}

// NewQuote builds a quote from caller-supplied fields, trimming whitespace
// and enforcing the required-field rules. ID and CreatedAt are left for the
// store to assign.
func NewQuote(text, author, source, category string) (*Quote, error) {
	q := &Quote{
		Text:     strings.TrimSpace(text),
		Author:   strings.TrimSpace(author),
		Source:   strings.TrimSpace(source),
		Category: strings.TrimSpace(category),
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}

	return q, nil
}

// Validate checks the required-field rules: text, author, and category must
// be non-empty after trimming. Source is optional.
func (q *Quote) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("text", "must not be empty")
	}

	if strings.TrimSpace(q.Author) == "" {
		return NewValidationError("author", "must not be empty")
	}

	if strings.TrimSpace(q.Category) == "" {
		return NewValidationError("category", "must not be empty")
	}

	return nil
}

// QuotePatch describes a partial update to a quote. Nil fields are left
// unchanged.
type QuotePatch struct {
	Text     *string
	Author   *string
	Source   *string
	Category *string
}

// IsEmpty reports whether the patch changes nothing.
func (p QuotePatch) IsEmpty() bool {
	return p.Text == nil && p.Author == nil && p.Source == nil && p.Category == nil
}

// Apply merges the patch into the quote, trimming patched fields, and
// validates the result. Required fields may not be patched to empty.
func (p QuotePatch) Apply(q *Quote) error {
	if p.Text != nil {
		q.Text = strings.TrimSpace(*p.Text)
	}

	if p.Author != nil {
		q.Author = strings.TrimSpace(*p.Author)
	}

	if p.Source != nil {
		q.Source = strings.TrimSpace(*p.Source)
	}

	if p.Category != nil {
		q.Category = strings.TrimSpace(*p.Category)
	}

	return q.Validate()
}
