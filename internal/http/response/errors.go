package response

import (
	"github.com/gin-gonic/gin"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/apierr"
)

// RespondAPIError maps a domain error onto its HTTP status and code.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.FromError(err)
	if ae == nil {
		ae = apierr.FromError(errUnknown)
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
}
