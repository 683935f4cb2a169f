package policy

import (
	"fmt"

	"github.com/spec-kit/consulting-service/internal/domain"
	apperrors "github.com/spec-kit/consulting-service/pkg/util/errorutil"
)

// Visibility describes which rows of a resource type a requester may list.
type Visibility int

const (
	VisibleNone Visibility = iota
	VisibleOwn
	VisibleAll
)

// Scope narrows a listing to the rows a requester is allowed to see.
type Scope struct {
	Visibility Visibility
	OwnerID    string
}

// All is the unrestricted scope.
func All() Scope { return Scope{Visibility: VisibleAll} }

// None is the scope that matches no row.
func None() Scope { return Scope{Visibility: VisibleNone} }

// OwnedBy restricts a listing to rows owned by userID.
func OwnedBy(userID string) Scope { return Scope{Visibility: VisibleOwn, OwnerID: userID} }

// Empty reports whether the scope can never match a row.
func (s Scope) Empty() bool { return s.Visibility == VisibleNone }

// Owner returns the owner filter to apply, or nil when every row is visible.
func (s Scope) Owner() *string {
	if s.Visibility != VisibleOwn {
		return nil
	}
	id := s.OwnerID
	return &id
}

// Includes reports whether the record falls inside the scope.
func (s Scope) Includes(r domain.Owned) bool {
	switch s.Visibility {
	case VisibleAll:
		return true
	case VisibleOwn:
		ref := r.OwnerRef()
		return ref != nil && *ref == s.OwnerID
	default:
		return false
	}
}

// Request is one authorization question.
type Request struct {
	// Requester is nil for anonymous callers.
	Requester *domain.User
	Resource  domain.ResourceType
	Action    Action
	// Target is the record for retrieve, update and delete.
	Target domain.Owned
}

// Decision is the engine's answer. Scope is only meaningful for list.
type Decision struct {
	Allowed bool
	Scope   Scope
	Err     error
}

func deny(err error) Decision { return Decision{Err: err} }

// Engine evaluates requests against a policy table.
type Engine struct {
	table Table
}

// NewEngine builds an engine over table.
func NewEngine(table Table) *Engine {
	return &Engine{table: table}
}

// Policy returns the policy registered for rt.
func (e *Engine) Policy(rt domain.ResourceType) (Policy, bool) {
	p, ok := e.table[rt]
	return p, ok
}

// Decide answers req.
func (e *Engine) Decide(req Request) Decision {
	p, ok := e.table[req.Resource]
	if !ok {
		return deny(apperrors.NewForbidden(fmt.Sprintf("no access policy for %s", req.Resource)))
	}

	st, err := standingOf(req.Requester)
	if err != nil {
		return deny(err)
	}

	switch req.Action {
	case ActionList:
		return e.list(p, st, req.Requester)
	case ActionCreate:
		return e.create(p, st)
	case ActionRetrieve:
		if err := e.visible(p, st, req.Requester, req.Target); err != nil {
			return deny(err)
		}
		return Decision{Allowed: true}
	case ActionUpdate, ActionPartialUpdate, ActionDelete:
		return e.mutate(p, req.Action, st, req.Requester, req.Target)
	default:
		return deny(apperrors.NewForbidden(fmt.Sprintf("action %q is not supported", req.Action)))
	}
}

// CanList returns the scope of rows the requester may list.
func (e *Engine) CanList(requester *domain.User, rt domain.ResourceType) (Scope, error) {
	d := e.Decide(Request{Requester: requester, Resource: rt, Action: ActionList})
	if d.Err != nil {
		return None(), d.Err
	}
	return d.Scope, nil
}

// CanCreate reports whether the requester may create a record of type rt.
func (e *Engine) CanCreate(requester *domain.User, rt domain.ResourceType) error {
	return e.Decide(Request{Requester: requester, Resource: rt, Action: ActionCreate}).Err
}

// CanRetrieve reports whether the requester may see target.
func (e *Engine) CanRetrieve(requester *domain.User, rt domain.ResourceType, target domain.Owned) error {
	return e.Decide(Request{Requester: requester, Resource: rt, Action: ActionRetrieve, Target: target}).Err
}

// CanUpdate reports whether the requester may change target.
func (e *Engine) CanUpdate(requester *domain.User, rt domain.ResourceType, target domain.Owned) error {
	return e.Decide(Request{Requester: requester, Resource: rt, Action: ActionUpdate, Target: target}).Err
}

// CanDelete reports whether the requester may remove target.
func (e *Engine) CanDelete(requester *domain.User, rt domain.ResourceType, target domain.Owned) error {
	return e.Decide(Request{Requester: requester, Resource: rt, Action: ActionDelete, Target: target}).Err
}

func (e *Engine) list(p Policy, st standing, requester *domain.User) Decision {
	switch p.List {
	case RuleNone:
		return deny(notOffered(ActionList, p))
	case RulePublic:
		return Decision{Allowed: true, Scope: All()}
	}
	if st == anonymous {
		return deny(errNotAuthenticated)
	}
	switch p.List {
	case RuleAuthenticated:
		return Decision{Allowed: true, Scope: All()}
	case RuleOwner:
		if st == administrator {
			return Decision{Allowed: true, Scope: All()}
		}
		return Decision{Allowed: true, Scope: OwnedBy(requester.ID)}
	default:
		if st == administrator {
			return Decision{Allowed: true, Scope: All()}
		}
		return Decision{Allowed: true, Scope: None()}
	}
}

func (e *Engine) create(p Policy, st standing) Decision {
	switch p.Create {
	case RuleNone:
		return deny(notOffered(ActionCreate, p))
	case RulePublic:
		return Decision{Allowed: true}
	}
	if st == anonymous {
		return deny(errNotAuthenticated)
	}
	if p.Create == RuleAdmin && st != administrator {
		return deny(apperrors.NewForbidden(fmt.Sprintf("only administrators may create a %s", p.Noun)))
	}
	return Decision{Allowed: true}
}

// visible applies the retrieve rule. Records the requester cannot see are
// reported as missing.
func (e *Engine) visible(p Policy, st standing, requester *domain.User, target domain.Owned) error {
	if target == nil {
		return apperrors.NewNotFound(p.Noun, nil)
	}
	switch p.Retrieve {
	case RuleNone:
		return notOffered(ActionRetrieve, p)
	case RulePublic:
		return nil
	}
	if st == anonymous {
		return errNotAuthenticated
	}
	switch p.Retrieve {
	case RuleAuthenticated:
		return nil
	case RuleOwner:
		if st == administrator || owns(requester, target) {
			return nil
		}
	default:
		if st == administrator {
			return nil
		}
	}
	return apperrors.NewNotFound(p.Noun, nil)
}

func (e *Engine) mutate(p Policy, action Action, st standing, requester *domain.User, target domain.Owned) Decision {
	if err := e.visible(p, st, requester, target); err != nil {
		return deny(err)
	}

	rule := p.rule(action)
	if rule == RuleNone {
		return deny(notOffered(action, p))
	}
	if st == anonymous {
		return deny(errNotAuthenticated)
	}

	switch rule {
	case RulePublic, RuleAuthenticated:
		return Decision{Allowed: true}
	case RuleOwner:
		if st == administrator || owns(requester, target) {
			return Decision{Allowed: true}
		}
		return deny(apperrors.NewForbidden(fmt.Sprintf("you can only %s your own %s", verb(action), p.Noun)))
	default:
		if st == administrator {
			return Decision{Allowed: true}
		}
		return deny(apperrors.NewForbidden(fmt.Sprintf("only administrators may %s a %s", verb(action), p.Noun)))
	}
}

type standing int

const (
	anonymous standing = iota
	member
	administrator
)

func standingOf(u *domain.User) (standing, error) {
	if u == nil {
		return anonymous, nil
	}
	switch u.Role {
	case domain.RoleAdmin:
		return administrator, nil
	case domain.RoleStudent, domain.RolePartner:
		return member, nil
	default:
		return anonymous, apperrors.NewForbidden(fmt.Sprintf("account role %q is not recognised", u.Role))
	}
}

// owns compares identities by id; an orphaned record has no owner.
func owns(u *domain.User, target domain.Owned) bool {
	if u == nil || u.ID == "" {
		return false
	}
	ref := target.OwnerRef()
	return ref != nil && *ref == u.ID
}

var errNotAuthenticated = apperrors.NewUnauthorized("authentication credentials were not provided")

func notOffered(action Action, p Policy) error {
	return apperrors.NewForbidden(fmt.Sprintf("cannot %s a %s", verb(action), p.Noun))
}

func verb(action Action) string {
	switch action {
	case ActionUpdate, ActionPartialUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	case ActionCreate:
		return "create"
	case ActionRetrieve:
		return "view"
	default:
		return "list"
	}
}
