package policy

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spec-kit/consulting-service/internal/domain"
	apperrors "github.com/spec-kit/consulting-service/pkg/util/errorutil"
)

// UserChanges carries the privileged account fields a request tries to set.
// A nil field is left untouched.
type UserChanges struct {
	Role        *domain.Role
	IsStaff     *bool
	IsSuperuser *bool
	IsActive    *bool
}

// CheckUserFields rejects attempts by non-administrators to change privileged
// account fields. Re-sending the current value is not a change.
func (e *Engine) CheckUserFields(requester, target *domain.User, changes UserChanges) error {
	st, err := standingOf(requester)
	if err != nil {
		return err
	}
	if st == administrator {
		return nil
	}
	if st == anonymous {
		return errNotAuthenticated
	}

	var fields []string
	if changes.Role != nil && *changes.Role != target.Role {
		fields = append(fields, "role")
	}
	if changes.IsStaff != nil && *changes.IsStaff != target.IsStaff {
		fields = append(fields, "is_staff")
	}
	if changes.IsSuperuser != nil && *changes.IsSuperuser != target.IsSuperuser {
		fields = append(fields, "is_superuser")
	}
	if changes.IsActive != nil && *changes.IsActive != target.IsActive {
		fields = append(fields, "is_active")
	}
	if len(fields) == 0 {
		return nil
	}

	return apperrors.NewDomainError(
		apperrors.CodeForbidden,
		fmt.Sprintf("only administrators may change %s", strings.Join(fields, ", ")),
		http.StatusForbidden,
		map[string]any{"fields": fields},
	)
}
