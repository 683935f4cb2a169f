package domain

import "time"

// BlogPost is an article published on the public blog.
type BlogPost struct {
	ID        string
	OwnerID   string
	Title     string
	Slug      string
	Content   string
	Image     *string
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *BlogPost) ResourceID() string        { return p.ID }
func (p *BlogPost) OwnerRef() *string         { return ownerRef(p.OwnerID) }
func (p *BlogPost) AssignOwner(userID string) { p.OwnerID = userID }
