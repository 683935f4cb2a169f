package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/consulting-service/internal/api/dto"
	"github.com/spec-kit/consulting-service/internal/auth"
	"github.com/spec-kit/consulting-service/internal/repository"
	"github.com/spec-kit/consulting-service/internal/service"
	apperrors "github.com/spec-kit/consulting-service/pkg/util/errorutil"
)

// UsersHandler exposes registration, tokens and account management.
type UsersHandler struct {
	accounts *service.AccountService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(accounts *service.AccountService) *UsersHandler {
	return &UsersHandler{accounts: accounts}
}

// Register handles POST /accounts/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Register(c.UserContext(), service.NewUserInput{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Token handles POST /accounts/token.
func (h *UsersHandler) Token(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	_, pair, err := h.accounts.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTokenPairResponse(pair)})
}

// Refresh handles POST /accounts/token/refresh.
func (h *UsersHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	pair, err := h.accounts.Refresh(c.UserContext(), req.Refresh)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTokenPairResponse(pair)})
}

// ChangePassword handles POST /accounts/password/change.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := h.accounts.ChangePassword(c.UserContext(), auth.Requester(c), req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me handles GET /accounts/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user := auth.Requester(c)
	if user == nil {
		return apperrors.NewUnauthorized("authentication credentials were not provided")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// List handles GET /accounts/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	result, err := h.accounts.ListUsers(c.UserContext(), auth.Requester(c), service.ListParams[repository.UserFilter]{
		Limit:  page.Size,
		Offset: page.offset(),
	})
	if err != nil {
		return err
	}
	return c.JSON(listResponse(dto.MapItems(result.Items, dto.NewUserResponse), result.Total, page))
}

// Get handles GET /accounts/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "user")
	if err != nil {
		return err
	}
	user, err := h.accounts.GetUser(c.UserContext(), auth.Requester(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Replace handles PUT /accounts/users/:id.
func (h *UsersHandler) Replace(c *fiber.Ctx) error {
	var req dto.UserUpdateRequest
	id, err := pathID(c, "id", "user")
	if err != nil {
		return err
	}
	if err := bindBody(c, &req); err != nil {
		return err
	}
	return h.update(c, id, req.AsPatch())
}

// Patch handles PATCH /accounts/users/:id.
func (h *UsersHandler) Patch(c *fiber.Ctx) error {
	var req dto.UserPatchRequest
	id, err := pathID(c, "id", "user")
	if err != nil {
		return err
	}
	if err := bindBody(c, &req); err != nil {
		return err
	}
	return h.update(c, id, req)
}

func (h *UsersHandler) update(c *fiber.Ctx, id string, req dto.UserPatchRequest) error {
	user, err := h.accounts.UpdateUser(c.UserContext(), auth.Requester(c), id, service.UserPatch{
		Email:       req.Email,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Role:        req.RoleValue(),
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Delete handles DELETE /accounts/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id", "user")
	if err != nil {
		return err
	}
	if err := h.accounts.DeleteUser(c.UserContext(), auth.Requester(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
