// Package policy decides who may list, create, read, change and remove each
// resource type. Every decision is a pure function of the requester and a
// snapshot of the target record; nothing here touches storage.
package policy

import "github.com/spec-kit/consulting-service/internal/domain"

// Action is an operation a requester attempts on a resource type.
type Action string

const (
	ActionList          Action = "list"
	ActionCreate        Action = "create"
	ActionRetrieve      Action = "retrieve"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDelete        Action = "delete"
)

// Rule is the access posture applied to one action.
type Rule int

const (
	// RuleNone: the action is not offered for the resource type.
	RuleNone Rule = iota
	// RulePublic: anyone, including anonymous callers.
	RulePublic
	// RuleAuthenticated: any signed-in account.
	RuleAuthenticated
	// RuleOwner: administrators, or the account owning the record.
	RuleOwner
	// RuleAdmin: administrators only.
	RuleAdmin
)

func (r Rule) String() string {
	switch r {
	case RulePublic:
		return "public"
	case RuleAuthenticated:
		return "authenticated"
	case RuleOwner:
		return "owner"
	case RuleAdmin:
		return "admin"
	default:
		return "none"
	}
}

// Policy holds the rule for each action on one resource type.
type Policy struct {
	// Noun is used in denial messages, e.g. "course".
	Noun     string
	List     Rule
	Create   Rule
	Retrieve Rule
	Update   Rule
	Delete   Rule
}

func (p Policy) rule(action Action) Rule {
	switch action {
	case ActionList:
		return p.List
	case ActionCreate:
		return p.Create
	case ActionRetrieve:
		return p.Retrieve
	case ActionUpdate, ActionPartialUpdate:
		return p.Update
	case ActionDelete:
		return p.Delete
	default:
		return RuleNone
	}
}

// Table maps resource types to their policies.
type Table map[domain.ResourceType]Policy

// Options toggles the postures that differ between deployments.
type Options struct {
	// CoursesPublicRead opens course listing and retrieval to everyone.
	CoursesPublicRead bool
	// CoursesAdminCreate restricts course creation to administrators.
	CoursesAdminCreate bool
	// BlogPublicRead opens blog listing and retrieval to everyone.
	BlogPublicRead bool
	// BlogStrict restricts every blog write to administrators, authors included.
	BlogStrict bool
	// ContactsStrict hides contact messages from everyone but administrators.
	ContactsStrict bool
}

// DefaultTable builds the policy table for the platform's resource types.
func DefaultTable(opts Options) Table {
	courseRead := RuleOwner
	if opts.CoursesPublicRead {
		courseRead = RulePublic
	}
	courseCreate := RuleAuthenticated
	if opts.CoursesAdminCreate {
		courseCreate = RuleAdmin
	}

	blogRead := RuleAuthenticated
	if opts.BlogPublicRead {
		blogRead = RulePublic
	}
	blogCreate, blogWrite := RuleAuthenticated, RuleOwner
	if opts.BlogStrict {
		blogCreate, blogWrite = RuleAdmin, RuleAdmin
	}

	contactRead := RuleOwner
	if opts.ContactsStrict {
		contactRead = RuleAdmin
	}

	return Table{
		domain.ResourceUsers: {
			Noun:     "user",
			List:     RuleOwner,
			Create:   RulePublic,
			Retrieve: RuleOwner,
			Update:   RuleOwner,
			Delete:   RuleAdmin,
		},
		domain.ResourceCourses: {
			Noun:     "course",
			List:     courseRead,
			Create:   courseCreate,
			Retrieve: courseRead,
			Update:   RuleOwner,
			Delete:   RuleOwner,
		},
		domain.ResourceBlogPosts: {
			Noun:     "post",
			List:     blogRead,
			Create:   blogCreate,
			Retrieve: blogRead,
			Update:   blogWrite,
			Delete:   blogWrite,
		},
		domain.ResourceAppointments: {
			Noun:     "appointment",
			List:     RuleOwner,
			Create:   RuleAuthenticated,
			Retrieve: RuleOwner,
			Update:   RuleOwner,
			Delete:   RuleOwner,
		},
		domain.ResourceContactMessages: {
			Noun:     "contact message",
			List:     contactRead,
			Create:   RuleAuthenticated,
			Retrieve: contactRead,
			Update:   RuleOwner,
			Delete:   RuleOwner,
		},
		domain.ResourceTestimonials: {
			Noun:     "testimonial",
			List:     RuleOwner,
			Create:   RuleAuthenticated,
			Retrieve: RuleOwner,
			Update:   RuleOwner,
			Delete:   RuleOwner,
		},
		domain.ResourceCourseViews: {
			Noun:     "course view",
			List:     RuleOwner,
			Retrieve: RuleAuthenticated,
		},
	}
}
