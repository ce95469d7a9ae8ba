package api

import (
	"github.com/Domenick1991/skybooking/internal/identity"
	"github.com/gin-gonic/gin"
)

// NewRouter wires the REST surface. The identity resolver is the only
// authentication the service knows about; token issuance happens elsewhere.
func NewRouter(flightH *FlightHandler, bookingH *BookingHandler, walletH *WalletHandler, resolver identity.Resolver) *gin.Engine {
	router := gin.Default()

	requireAuth := RequireAuth(resolver)
	optionalAuth := OptionalAuth(resolver)

	apiGroup := router.Group("/api")
	flightH.Register(apiGroup.Group("/flights"), optionalAuth, requireAuth)
	bookingH.Register(apiGroup.Group("/bookings"), requireAuth)
	walletH.Register(apiGroup.Group("/wallet"), requireAuth)

	return router
}
