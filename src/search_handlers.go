package main

import (
	"net/http"

	"wayfinder/src/common"
	"wayfinder/src/types"

	"github.com/gin-gonic/gin"
)

func searchHandlers(g *gin.RouterGroup, provider common.FlightProvider) *gin.RouterGroup {
	g.
		POST("/flight-search", func(ctx *gin.Context) {
			var body types.FlightSearchQuery
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result, err := common.SearchFlights(ctx.Request.Context(), provider, &body)
			if err != nil {
				respondAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, result)
		}).
		POST("/hotel-search", func(ctx *gin.Context) {
			var body types.HotelSearchQuery
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result, err := common.SearchHotels(ctx.Request.Context(), provider, &body)
			if err != nil {
				respondAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, result)
		}).
		POST("/vehicle-search", func(ctx *gin.Context) {
			var body types.VehicleSearchQuery
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result := common.SearchVehicles(&body)
			ctx.JSON(http.StatusOK, result)
		}).
		POST("/trip-search", func(ctx *gin.Context) {
			var body types.TripSearchQuery
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if common.Nights(body.CheckInDate, body.CheckOutDate) < 1 ||
				body.CheckOutDate <= body.CheckInDate {
				respondAPIError(ctx, types.NewAPIError(types.ErrValidation, "checkOutDate must be after checkInDate", nil))
				return
			}
			result, err := common.SearchTrip(ctx.Request.Context(), provider, &body)
			if err != nil {
				respondAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, result)
		})
	return g
}
