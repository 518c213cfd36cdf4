package handlers

import (
	"net/http"

	"github.com/chatty-ai/chatty-api/internal/synth"
	"github.com/gin-gonic/gin"
)

// HealthCheck returns the health status of the API
func HealthCheck(seats *synth.SeatConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		seatStatus := "ready"
		if err := seats.Validate(); err != nil {
			seatStatus = "misconfigured"
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"synth": gin.H{
				"status":          seatStatus,
				"helper_seats":    len(synth.HelperSeats),
				"synthesis_model": seats.SynthesisModel,
			},
		})
	}
}
