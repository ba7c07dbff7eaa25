// Package controllers file: controllers/page_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"go-patient-caller/logger"
	"go-patient-caller/models"
	"go-patient-caller/services"
)

// LandingPage is where GET / sends browsers.
const LandingPage = "/medico.html"

const (
	qrCodeSize   = 300
	stateTimeout = 2 * time.Second
)

// StateReader gives read-only access to the shared state.
type StateReader interface {
	State(ctx context.Context) (models.CurrentState, error)
}

// PageController serves the small HTTP surface next to the event channel.
type PageController struct {
	displayURL string
	state      StateReader
	encode     services.QRCodeEncoder
}

// NewPageController builds a controller. displayURL is the address encoded
// in the QR code.
func NewPageController(displayURL string, state StateReader) *PageController {
	return &PageController{
		displayURL: displayURL,
		state:      state,
		encode:     services.QRCodeEncoder(qrcode.Encode),
	}
}

// Health reports that the process is up.
func Health(c *gin.Context) {
	logger.Debug.Println("Health: Health check requested")
	c.String(http.StatusOK, "OK")
}

// Index sends the browser to the professional's page.
func Index(c *gin.Context) {
	c.Redirect(http.StatusFound, LandingPage)
}

// GetState returns the same snapshot a new connection receives.
func (pc *PageController) GetState(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), stateTimeout)
	defer cancel()

	state, err := pc.state.State(ctx)
	if err != nil {
		logger.Error.Printf("GetState: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "state unavailable"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetQRCode renders a PNG QR code pointing at the waiting-room display.
func (pc *PageController) GetQRCode(c *gin.Context) {
	logger.Info.Printf("GetQRCode: Generating QR code for %s", pc.displayURL)

	qrBytes, err := services.GenerateQRCode(pc.displayURL, qrCodeSize, pc.encode)
	if err != nil {
		logger.Error.Printf("GetQRCode: Error generating QR code: %v", err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"qrcode.png\"")
	c.Data(http.StatusOK, "image/png", qrBytes)
}
