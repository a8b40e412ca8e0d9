package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/videohub/account-service/internal/core/domain"
	"github.com/videohub/account-service/internal/core/ports"
)

const (
	fieldAvatar     = "avatar"
	fieldCoverImage = "coverImage"
)

// AccountHandler serves registration and the authenticated profile routes.
type AccountHandler struct {
	accounts ports.AccountService
	uploads  *UploadStore
	cookies  *Cookies
}

func NewAccountHandler(accounts ports.AccountService, uploads *UploadStore, cookies *Cookies) *AccountHandler {
	return &AccountHandler{accounts: accounts, uploads: uploads, cookies: cookies}
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" form:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" form:"newPassword" validate:"required"`
}

type updateDetailsRequest struct {
	FullName string `json:"fullName" form:"fullName" validate:"required"`
	Email    string `json:"email" form:"email" validate:"required,email"`
}

// Register creates an account from a multipart form carrying the user fields
// and the avatar and coverImage files.
//
// @Summary      Register
// @Tags         user
// @Accept       multipart/form-data
// @Produce      json
// @Param        fullName    formData  string  true  "Full name"
// @Param        email       formData  string  true  "Email"
// @Param        username    formData  string  true  "Username"
// @Param        password    formData  string  true  "Password"
// @Param        avatar      formData  file    true  "Avatar image"
// @Param        coverImage  formData  file    true  "Cover image"
// @Success      201  {object}  apiResponse{data=domain.User}
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      413  {object}  ErrorResponse
// @Router       /api/v1/user/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	paths, err := h.uploads.SaveFields(c, fieldAvatar, fieldCoverImage)
	if err != nil {
		return err
	}

	user, err := h.accounts.Register(c.Request().Context(), ports.RegisterInput{
		FullName:       c.FormValue("fullName"),
		Email:          c.FormValue("email"),
		Username:       c.FormValue("username"),
		Password:       c.FormValue("password"),
		AvatarPath:     paths[fieldAvatar],
		CoverImagePath: paths[fieldCoverImage],
	})
	if err != nil {
		return err
	}

	return respond(c, http.StatusCreated, user, "User registered successfully")
}

// CurrentUser returns the authenticated caller.
//
// @Summary      Current user
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse{data=domain.User}
// @Failure      401  {object}  ErrorResponse
// @Router       /api/v1/user/current-user [get]
func (h *AccountHandler) CurrentUser(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "Current user fetched successfully")
}

// ChangePassword
//
// @Summary      Change password
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  apiResponse{data=domain.User}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /api/v1/user/change-password [post]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return respond(c, http.StatusOK, user, "Password changed successfully")
}

// UpdateDetails
//
// @Summary      Update account details
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateDetailsRequest  true  "Full name and email"
// @Success      200   {object}  apiResponse{data=domain.User}
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /api/v1/user/update-details [post]
func (h *AccountHandler) UpdateDetails(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateDetailsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.accounts.UpdateDetails(c.Request().Context(), user.ID, req.FullName, req.Email)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, updated, "Account details updated successfully")
}

// UpdateAvatar
//
// @Summary      Replace avatar
// @Tags         user
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        avatar  formData  file  true  "Avatar image"
// @Success      200     {object}  apiResponse{data=domain.User}
// @Failure      400     {object}  ErrorResponse
// @Router       /api/v1/user/update-avatar [patch]
func (h *AccountHandler) UpdateAvatar(c echo.Context) error {
	return h.updateMedia(c, fieldAvatar, domain.MediaAvatar, "Avatar updated successfully")
}

// UpdateCoverImage
//
// @Summary      Replace cover image
// @Tags         user
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        coverImage  formData  file  true  "Cover image"
// @Success      200         {object}  apiResponse{data=domain.User}
// @Failure      400         {object}  ErrorResponse
// @Router       /api/v1/user/update-coverimage [patch]
func (h *AccountHandler) UpdateCoverImage(c echo.Context) error {
	return h.updateMedia(c, fieldCoverImage, domain.MediaCoverImage, "Cover image updated successfully")
}

func (h *AccountHandler) updateMedia(c echo.Context, formField string, field domain.MediaField, msg string) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	paths, err := h.uploads.SaveFields(c, formField)
	if err != nil {
		return err
	}

	updated, err := h.accounts.UpdateMedia(c.Request().Context(), user.ID, field, paths[formField])
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, updated, msg)
}

// WatchHistory
//
// @Summary      Watch history
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse{data=[]domain.Video}
// @Failure      401  {object}  ErrorResponse
// @Router       /api/v1/user/watch-history [get]
func (h *AccountHandler) WatchHistory(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	videos, err := h.accounts.WatchHistory(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, videos, "Watch history fetched successfully")
}

// DeleteAccount removes the caller's account and ends the session.
//
// @Summary      Delete account
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /api/v1/user/delete-account [post]
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.accounts.DeleteAccount(c.Request().Context(), user.ID, currentClaims(c)); err != nil {
		return err
	}

	h.cookies.Clear(c)
	return respond(c, http.StatusOK, nil, "Account deleted")
}
