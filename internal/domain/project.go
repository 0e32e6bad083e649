package domain

import "time"

// ProjectCategory groups projects on the portfolio page.
type ProjectCategory string

const (
	ProjectCategoryReact     ProjectCategory = "React"
	ProjectCategoryNode      ProjectCategory = "Node.js"
	ProjectCategoryFullStack ProjectCategory = "Full Stack"
	ProjectCategoryMobile    ProjectCategory = "Mobile"

	DefaultProjectCategory = ProjectCategoryReact
)

// Valid reports whether c is a known project category.
func (c ProjectCategory) Valid() bool {
	switch c {
	case ProjectCategoryReact, ProjectCategoryNode, ProjectCategoryFullStack, ProjectCategoryMobile:
		return true
	}
	return false
}

// Project is a showcased piece of work.
type Project struct {
	ID          string          `json:"_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	ProjectURL  string          `json:"projectUrl"`
	Category    ProjectCategory `json:"category"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
