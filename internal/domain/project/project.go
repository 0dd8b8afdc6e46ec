// Package project holds the portfolio project record exchanged with the backend.
package project

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 5000
)

// ErrTitleRequired is returned when a project is submitted without a title.
var ErrTitleRequired = errors.New("please enter a project title")

// Project is a portfolio entry as served by the backend.
type Project struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// UnmarshalJSON accepts both "id" and the document-store style "_id".
func (p *Project) UnmarshalJSON(b []byte) error {
	type plain Project
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*p = Project(aux.plain)
	if p.ID == "" {
		p.ID = aux.MongoID
	}
	return nil
}

// CreateRequest is the payload for POST /projects.
type CreateRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// Normalize trims whitespace in place.
func (r *CreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	if r.Technologies == nil {
		r.Technologies = []string{}
	}
}

// Validate checks the request before it is sent to the backend.
func (r CreateRequest) Validate() error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return errors.New("title cannot exceed 200 characters")
	}
	if utf8.RuneCountInString(r.Description) > maxDescriptionLen {
		return errors.New("description cannot exceed 5000 characters")
	}
	return nil
}

// ParseTechnologies splits a comma-separated list, trimming entries and
// dropping empty ones.
func ParseTechnologies(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
