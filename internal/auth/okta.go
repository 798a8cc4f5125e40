package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"talentgate-backend/internal/database"
	"talentgate-backend/internal/model"
	"talentgate-backend/internal/utilities"
)

// OktaLoginHandler exchanges Okta authorization codes for local
// session tokens and keeps the user's access tier in sync with their
// Okta groups.
type OktaLoginHandler struct {
	DB          *database.DBinstanceStruct
	Config      *oauth2.Config
	UserInfoURL string

	adminGroup  string
	accessGroup string
}

// NewOktaLoginHandler creates an OktaLoginHandler. Group-to-tier
// mapping comes from OKTA_ADMIN_GROUP and OKTA_ACCESS_GROUP.
func NewOktaLoginHandler(db *database.DBinstanceStruct, config *oauth2.Config, userInfoURL string) *OktaLoginHandler {
	return &OktaLoginHandler{
		DB:          db,
		Config:      config,
		UserInfoURL: userInfoURL,
		adminGroup:  os.Getenv("OKTA_ADMIN_GROUP"),
		accessGroup: os.Getenv("OKTA_ACCESS_GROUP"),
	}
}

type code struct {
	Code string `json:"code" binding:"required"`
}

type oktaUserInfo struct {
	Sub    string   `json:"sub"`
	Email  string   `json:"email"`
	Name   string   `json:"name"`
	Groups []string `json:"groups"`
}

type sessionResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
}

// LoginHandler handles Okta SSO login: exchanges the authorization
// code, fetches userinfo, upserts the user with the tier derived from
// their groups, and returns a session token.
func (h *OktaLoginHandler) LoginHandler(c *gin.Context) {
	var body code
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Authorization code must be provided"})
		return
	}

	token, err := h.Config.Exchange(c.Request.Context(), body.Code)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Failed to exchange authorization code"})
		return
	}

	info, err := h.fetchUserInfo(c, token)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: fmt.Sprintf("Failed to fetch user info: %s", err.Error())})
		return
	}

	user, status, err := h.upsertUser(info)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: fmt.Sprintf("Database error: %s", err.Error())})
		return
	}

	accessToken, err := GenerateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Failed to generate access token"})
		return
	}

	c.JSON(status, sessionResponse{User: user, AccessToken: accessToken})
}

func (h *OktaLoginHandler) fetchUserInfo(c *gin.Context, token *oauth2.Token) (*oktaUserInfo, error) {
	client := h.Config.Client(c.Request.Context(), token)
	resp, err := client.Get(h.UserInfoURL)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	var info oktaUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	if info.Sub == "" || info.Email == "" {
		return nil, errors.New("userinfo response is missing sub or email")
	}
	return &info, nil
}

// upsertUser finds the user by Okta subject (falling back to email for
// accounts created before SSO) and syncs their tier from groups.
func (h *OktaLoginHandler) upsertUser(info *oktaUserInfo) (model.User, int, error) {
	isAdmin := contains(info.Groups, h.adminGroup)
	hasAccess := isAdmin || contains(info.Groups, h.accessGroup)

	var user model.User
	err := h.DB.Where("okta_sub = ?", info.Sub).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = h.DB.Where("email = ?", info.Email).First(&user).Error
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = model.User{
			Email:     info.Email,
			Name:      info.Name,
			OktaSub:   &info.Sub,
			IsAdmin:   isAdmin,
			HasAccess: hasAccess,
		}
		if err := h.DB.Create(&user).Error; err != nil {
			return model.User{}, 0, err
		}
		return user, http.StatusCreated, nil

	case err == nil:
		if err := h.DB.Model(&user).Updates(map[string]interface{}{
			"okta_sub":   info.Sub,
			"name":       info.Name,
			"is_admin":   isAdmin,
			"has_access": hasAccess,
		}).Error; err != nil {
			return model.User{}, 0, err
		}
		user.OktaSub = &info.Sub
		user.Name = info.Name
		user.IsAdmin = isAdmin
		user.HasAccess = hasAccess
		return user, http.StatusOK, nil

	default:
		return model.User{}, 0, err
	}
}

func contains(slice []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
