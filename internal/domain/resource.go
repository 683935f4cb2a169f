package domain

// ResourceType names a catalog entry governed by the access policy.
type ResourceType string

const (
	ResourceUsers           ResourceType = "users"
	ResourceCourses         ResourceType = "courses"
	ResourceBlogPosts       ResourceType = "blog_posts"
	ResourceAppointments    ResourceType = "appointments"
	ResourceContactMessages ResourceType = "contact_messages"
	ResourceTestimonials    ResourceType = "testimonials"
	ResourceCourseViews     ResourceType = "course_views"
)

// Owned is implemented by every record whose visibility depends on its owner.
type Owned interface {
	ResourceID() string
	// OwnerRef returns nil when the record has no owner.
	OwnerRef() *string
}

// OwnedResource is an Owned record whose owner is stamped at creation.
type OwnedResource interface {
	Owned
	AssignOwner(userID string)
}

func ownerRef(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
