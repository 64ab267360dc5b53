package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/auth"
	"fintrack/internal/repository"
	"fintrack/internal/service"
)

const (
	msgWrongDetails  = "Wrong Details - Try Again!"
	msgEmailTaken    = "Email already registered."
	msgUsernameTaken = "Username already taken."
)

func (h *Handler) registerPage(c *gin.Context) {
	h.render(c, http.StatusOK, "add_user", gin.H{"Form": registerForm{}})
}

func (h *Handler) register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderRegister(c, http.StatusBadRequest, form, bindingMessage(err))
		return
	}

	upload, file, err := openUpload(c, "profile_pic")
	if err != nil {
		h.renderRegister(c, http.StatusBadRequest, form, "The profile picture could not be read.")
		return
	}
	if file != nil {
		defer file.Close()
	}

	_, err = h.users.Register(c.Request.Context(), service.RegisterInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Username:  form.Username,
		Email:     form.Email,
		Phone:     form.Phone,
		Password:  form.Password,
		Picture:   upload,
	})
	switch {
	case err == nil:
		h.flash(c, flashSuccess, "User added successfully!")
		c.Redirect(http.StatusFound, "/login")
	case service.IsValidation(err):
		h.renderRegister(c, http.StatusBadRequest, form, validationMessage(err))
	case errors.Is(err, service.ErrEmailTaken):
		h.renderRegister(c, http.StatusConflict, form, msgEmailTaken)
	case errors.Is(err, service.ErrUserAlreadyExists):
		h.renderRegister(c, http.StatusConflict, form, msgUsernameTaken)
	default:
		h.log(c).WithError(err).Error("register user")
		h.renderRegister(c, http.StatusInternalServerError, form, "Error!!... There was a problem creating your account.")
	}
}

func (h *Handler) renderRegister(c *gin.Context, status int, form registerForm, message string) {
	form.Password, form.Password1 = "", ""
	h.render(c, status, "add_user", gin.H{"Form": form, "Error": message})
}

func (h *Handler) loginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login", gin.H{"Form": loginForm{}})
}

func (h *Handler) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "login", gin.H{"Form": loginForm{Username: form.Username}, "Error": bindingMessage(err)})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, service.ErrInvalidCredentials) {
			h.log(c).WithError(err).Error("authenticate")
			status = http.StatusInternalServerError
		}
		h.render(c, status, "login", gin.H{"Form": loginForm{Username: form.Username}, "Error": msgWrongDetails})
		return
	}

	token, err := h.tokens.Issue(auth.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.startSession(c, token)
	h.log(c).WithField("user_id", user.ID).Info("user logged in")
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) logout(c *gin.Context) {
	h.endSession(c)
	h.flash(c, flashInfo, "You just logged out!")
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) profile(c *gin.Context) {
	h.render(c, http.StatusOK, "profile", nil)
}

func (h *Handler) settingsPage(c *gin.Context) {
	user := currentUser(c)
	h.render(c, http.StatusOK, "settings", gin.H{"Form": settingsForm{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Phone:     user.Phone,
	}})
}

func (h *Handler) updateSettings(c *gin.Context) {
	var form settingsForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusBadRequest, "settings", gin.H{"Form": form, "Error": bindingMessage(err)})
		return
	}

	upload, file, err := openUpload(c, "profile_pic")
	if err != nil {
		h.render(c, http.StatusBadRequest, "settings", gin.H{"Form": form, "Error": "The profile picture could not be read."})
		return
	}
	if file != nil {
		defer file.Close()
	}

	updated, err := h.users.UpdateProfile(c.Request.Context(), actorID(c), service.ProfileInput{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Phone:     form.Phone,
		Picture:   upload,
	})
	switch {
	case err == nil:
		c.Set(ctxUser, updated)
		h.flash(c, flashSuccess, "Profile Updated Successfully")
		c.Redirect(http.StatusFound, "/settings")
	case service.IsValidation(err):
		h.render(c, http.StatusBadRequest, "settings", gin.H{"Form": form, "Error": validationMessage(err)})
	case errors.Is(err, service.ErrEmailTaken):
		h.render(c, http.StatusConflict, "settings", gin.H{"Form": form, "Error": msgEmailTaken})
	case errors.Is(err, service.ErrForbidden), errors.Is(err, repository.ErrNotFound):
		h.respondError(c, err)
	default:
		h.log(c).WithError(err).Error("update profile")
		h.render(c, http.StatusInternalServerError, "settings", gin.H{"Form": form, "Error": "Error updating profile."})
	}
}

func (h *Handler) deleteUser(c *gin.Context) {
	err := h.users.Delete(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.endSession(c)
	h.flash(c, flashInfo, "Your account has been deleted.")
	c.Redirect(http.StatusFound, "/user/add")
}
