package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/streamhub-server/internal/apierrors"
	"github.com/dtroode/streamhub-server/internal/logger"
	"github.com/dtroode/streamhub-server/internal/model"
)

// AccountService is the set of session use-cases served over HTTP.
type AccountService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.ResponseDirective, error)
	Login(ctx context.Context, params model.LoginParams) (model.ResponseDirective, error)
	Logout(ctx context.Context, actor model.Actor) (model.ResponseDirective, error)
	Renew(ctx context.Context, params model.RenewParams) (model.ResponseDirective, error)
	ChangePassword(ctx context.Context, actor model.Actor, params model.ChangePasswordParams) (model.ResponseDirective, error)
	CurrentUser(ctx context.Context, actor model.Actor) (model.ResponseDirective, error)
	UpdateDetails(ctx context.Context, actor model.Actor, params model.UpdateDetailsParams) (model.ResponseDirective, error)
	UpdateAvatar(ctx context.Context, actor model.Actor, localPath string) (model.ResponseDirective, error)
	UpdatePicture(ctx context.Context, actor model.Actor, localPath string) (model.ResponseDirective, error)
}

type Account struct {
	service        AccountService
	contextManager model.ContextManager
	cookies        CookieScope
	uploadDir      string
	logger         *logger.Logger
}

func NewAccount(
	service AccountService,
	contextManager model.ContextManager,
	cookies CookieScope,
	uploadDir string,
	logger *logger.Logger,
) *Account {
	return &Account{
		service:        service,
		contextManager: contextManager,
		cookies:        cookies,
		uploadDir:      uploadDir,
		logger:         logger,
	}
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type renewRequest struct {
	RefreshToken string `json:"refreshToken" form:"refreshToken"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword"`
	NewPassword string `json:"newPassword" form:"newPassword"`
}

type updateDetailsRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
}

// Register handles POST /register (multipart: username, email, password, avatar, picture).
func (h *Account) Register(c *fiber.Ctx) error {
	files := newTempFiles(h.uploadDir, h.logger)
	defer files.cleanup()

	avatar, err := files.save(c, "avatar")
	if err != nil {
		return apierrors.NewUploadError("failed to receive avatar", err)
	}
	picture, err := files.save(c, "picture")
	if err != nil {
		return apierrors.NewUploadError("failed to receive picture", err)
	}

	res, err := h.service.Register(c.UserContext(), model.RegisterParams{
		Username:    c.FormValue("username"),
		Email:       c.FormValue("email"),
		Password:    c.FormValue("password"),
		AvatarPath:  avatar,
		PicturePath: picture,
	})
	if err != nil {
		return err
	}

	return writeDirective(c, h.cookies, res)
}

func (h *Account) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apierrors.NewValidationError("invalid request body")
	}

	res, err := h.service.Login(c.UserContext(), model.LoginParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return writeDirective(c, h.cookies, res)
}

// RenewToken accepts the refresh token from the cookie or the body; the body is optional.
func (h *Account) RenewToken(c *fiber.Ctx) error {
	var req renewRequest
	if len(c.Body()) > 0 {
		_ = c.BodyParser(&req)
	}

	res, err := h.service.Renew(c.UserContext(), model.RenewParams{
		CookieToken: c.Cookies(model.RefreshTokenCookie),
		BodyToken:   req.RefreshToken,
	})
	if err != nil {
		return err
	}

	return writeDirective(c, h.cookies, res)
}

func (h *Account) Logout(c *fiber.Ctx) error {
	actor, err := h.actor(c)
	if err != nil {
		return err
	}

	res, err := h.service.Logout(c.UserContext(), actor)
	if err != nil {
		return err
	}

	return writeDirective(c, h.cookies, res)
}

func (h *Account) ChangePassword(c *fiber.Ctx) error {
	actor, err := h.actor(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apierrors.NewValidationError("invalid request body")
	}

	res, err := h.service.ChangePassword(c.UserContext(), actor, model.ChangePasswordParams{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return err
	}

	return writeDirective(c, h.cookies, res)
}

func (h *Account) CurrentUser(c *fiber.Ctx) error {
	actor, err := h.actor(c)
	if err != nil {
		return err
	}

	res, err := h.service.CurrentUser(c.UserContext(), actor)
	if err != nil {
		return err
	}

	return writeDirective(c, h.cookies, res)
}

func (h *Account) UpdateDetails(c *fiber.Ctx) error {
	actor, err := h.actor(c)
	if err != nil {
		return err
	}

	var req updateDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return apierrors.NewValidationError("invalid request body")
	}

	res, err := h.service.UpdateDetails(c.UserContext(), actor, model.UpdateDetailsParams{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}

	return writeDirective(c, h.cookies, res)
}

func (h *Account) UpdateAvatar(c *fiber.Ctx) error {
	return h.updateImage(c, "avatar", h.service.UpdateAvatar)
}

func (h *Account) UpdatePicture(c *fiber.Ctx) error {
	return h.updateImage(c, "picture", h.service.UpdatePicture)
}

func (h *Account) updateImage(
	c *fiber.Ctx,
	field string,
	update func(ctx context.Context, actor model.Actor, localPath string) (model.ResponseDirective, error),
) error {
	actor, err := h.actor(c)
	if err != nil {
		return err
	}

	files := newTempFiles(h.uploadDir, h.logger)
	defer files.cleanup()

	path, err := files.save(c, field)
	if err != nil {
		return apierrors.NewUploadError("failed to receive "+field, err)
	}

	res, err := update(c.UserContext(), actor, path)
	if err != nil {
		return err
	}

	return writeDirective(c, h.cookies, res)
}

func (h *Account) actor(c *fiber.Ctx) (model.Actor, error) {
	actor, ok := h.contextManager.GetActorFromContext(c.UserContext())
	if !ok {
		return model.Actor{}, apierrors.NewUnauthorizedError("unauthorized request")
	}
	return actor, nil
}
