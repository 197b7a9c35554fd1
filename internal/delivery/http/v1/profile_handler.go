package v1

import (
	"go-profile-backend/internal/delivery/http/middleware"
	"go-profile-backend/internal/delivery/http/response"
	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"
	"go-profile-backend/pkg/security"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

// NewProfileHandler registers the profile routes on r. Owner routes run
// behind requireAuth.
func NewProfileHandler(r *gin.RouterGroup, requireAuth gin.HandlerFunc, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	// Public routes
	r.GET("/test", handler.Test)
	r.GET("/all", handler.ListProfiles)
	r.GET("/handle/:handle", handler.GetByHandle)
	r.GET("/user/:user_id", handler.GetByUserID)

	// Protected owner routes
	owner := r.Group("")
	owner.Use(requireAuth)
	{
		owner.GET("", handler.GetOwnProfile)
		owner.POST("", handler.SaveProfile)
		owner.DELETE("", handler.DeleteAccount)
		owner.POST("/experience", handler.AddExperience)
		owner.DELETE("/experience/:exp_id", handler.RemoveExperience)
		owner.POST("/education", handler.AddEducation)
		owner.DELETE("/education/:edu_id", handler.RemoveEducation)
	}
}

func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(string(domain.KeyUserID))
	if userID == "" {
		c.Error(apperror.Unauthorized("Unauthorized"))
		return "", false
	}
	return userID, true
}

// Test godoc
// @Summary      Profile route check
// @Tags         profile
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /profile/test [get]
func (h *ProfileHandler) Test(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"msg": "Profile Works"})
}

// GetOwnProfile godoc
// @Summary      Get current user's profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  domain.Profile
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /profile [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetOwnProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileUC.GetOwnProfile(c, userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, profile)
}

// ListProfiles godoc
// @Summary      List all profiles
// @Tags         profile
// @Produce      json
// @Success      200  {array}   domain.Profile
// @Failure      404  {object}  map[string]string
// @Router       /profile/all [get]
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	profiles, err := h.profileUC.ListProfiles(c)
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, profiles)
}

// GetByHandle godoc
// @Summary      Get profile by handle
// @Tags         profile
// @Produce      json
// @Param        handle  path      string  true  "Profile handle"
// @Success      200     {object}  domain.Profile
// @Failure      404     {object}  map[string]string
// @Router       /profile/handle/{handle} [get]
func (h *ProfileHandler) GetByHandle(c *gin.Context) {
	profile, err := h.profileUC.GetByHandle(c, c.Param("handle"))
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, profile)
}

// GetByUserID godoc
// @Summary      Get profile by user id
// @Tags         profile
// @Produce      json
// @Param        user_id  path      string  true  "Owner account id"
// @Success      200      {object}  domain.Profile
// @Failure      404      {object}  map[string]string
// @Router       /profile/user/{user_id} [get]
func (h *ProfileHandler) GetByUserID(c *gin.Context) {
	profile, err := h.profileUC.GetByUserID(c, c.Param("user_id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, profile)
}

// SaveProfile godoc
// @Summary      Create or update current user's profile
// @Description  Fields left out of the request keep their stored value. Skills are comma separated.
// @Tags         profile
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        request  body      domain.ProfileInput  true  "Profile fields"
// @Success      200      {object}  domain.Profile
// @Failure      400      {object}  map[string]string
// @Router       /profile [post]
// @Security     BearerAuth
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input domain.ProfileInput
	if err := c.ShouldBind(&input); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	profile, err := h.profileUC.SaveProfile(c, userID, input)
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, profile)
}

// AddExperience godoc
// @Summary      Add experience to profile
// @Tags         profile
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        request  body      domain.ExperienceInput  true  "Experience entry"
// @Success      200      {object}  domain.Profile
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /profile/experience [post]
// @Security     BearerAuth
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input domain.ExperienceInput
	if err := c.ShouldBind(&input); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	profile, err := h.profileUC.AddExperience(c, userID, input)
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, profile)
}

// AddEducation godoc
// @Summary      Add education to profile
// @Tags         profile
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        request  body      domain.EducationInput  true  "Education entry"
// @Success      200      {object}  domain.Profile
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /profile/education [post]
// @Security     BearerAuth
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input domain.EducationInput
	if err := c.ShouldBind(&input); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	profile, err := h.profileUC.AddEducation(c, userID, input)
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, profile)
}

// RemoveExperience godoc
// @Summary      Delete experience from profile
// @Description  An id that is not on the profile leaves it unchanged.
// @Tags         profile
// @Produce      json
// @Param        exp_id  path      string  true  "Experience id"
// @Success      200     {object}  domain.Profile
// @Failure      404     {object}  map[string]string
// @Router       /profile/experience/{exp_id} [delete]
// @Security     BearerAuth
func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileUC.RemoveExperience(c, userID, c.Param("exp_id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, profile)
}

// RemoveEducation godoc
// @Summary      Delete education from profile
// @Description  An id that is not on the profile leaves it unchanged.
// @Tags         profile
// @Produce      json
// @Param        edu_id  path      string  true  "Education id"
// @Success      200     {object}  domain.Profile
// @Failure      404     {object}  map[string]string
// @Router       /profile/education/{edu_id} [delete]
// @Security     BearerAuth
func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileUC.RemoveEducation(c, userID, c.Param("edu_id"))
	if err != nil {
		c.Error(err)
		return
	}

	response.JSON(c, http.StatusOK, profile)
}

// DeleteAccount godoc
// @Summary      Delete user and profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  map[string]string
// @Router       /profile [delete]
// @Security     BearerAuth
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.profileUC.DeleteAccount(c, userID); err != nil {
		c.Error(err)
		return
	}
	security.Default().Log(security.Event{
		Type:      security.EventAccountDeleted,
		Subject:   userID,
		IP:        c.ClientIP(),
		RequestID: c.GetString(middleware.RequestIDKey),
	})

	response.JSON(c, http.StatusOK, gin.H{"success": true})
}
