// Package controllers file: controllers/profile_controller.go
package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go-patient-caller/logger"
	"go-patient-caller/models"
	"go-patient-caller/services"
)

// Session keys for the remembered login form.
const (
	profileNameKey = "profileName"
	profileRoleKey = "profileRole"
)

// GetProfile returns the name and role last saved by this browser, or 204
// when nothing is saved. It is only used to prefill the login form.
func GetProfile(c *gin.Context) {
	session := sessions.Default(c)
	name, _ := session.Get(profileNameKey).(string)
	role, _ := session.Get(profileRoleKey).(string)
	if name == "" || role == "" {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, models.Professional{Name: name, Role: role})
}

// SaveProfile remembers a name and role for this browser. It does not log
// anything in; that still happens over the event channel.
func SaveProfile(c *gin.Context) {
	var p models.Professional
	if err := c.ShouldBindJSON(&p); err != nil {
		logger.Warn.Printf("SaveProfile: invalid body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": services.MsgInvalidLogin})
		return
	}
	p.Name, p.Role = strings.TrimSpace(p.Name), strings.TrimSpace(p.Role)
	if p.Name == "" || p.Role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.MsgInvalidLogin})
		return
	}

	session := sessions.Default(c)
	session.Set(profileNameKey, p.Name)
	session.Set(profileRoleKey, p.Role)
	if err := session.Save(); err != nil {
		logger.Error.Printf("SaveProfile: Error saving session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save profile"})
		return
	}
	logger.Info.Printf("SaveProfile: remembered %q (%s)", p.Name, p.Role)
	c.JSON(http.StatusOK, p)
}

// ClearProfile forgets the saved name and role.
func ClearProfile(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		logger.Error.Printf("ClearProfile: Error saving session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear profile"})
		return
	}
	c.Status(http.StatusNoContent)
}
