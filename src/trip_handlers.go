package main

import (
	"errors"
	"log"
	"net/http"

	"wayfinder/src/common"
	"wayfinder/src/db"
	"wayfinder/src/models"
	"wayfinder/src/types"
	"wayfinder/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func respondAPIError(ctx *gin.Context, err error) {
	apiErr := types.AsAPIError(err)
	if apiErr.Kind == types.ErrInternal || apiErr.Kind == types.ErrUpstream {
		log.Printf("[%s] %s\n", ctx.FullPath(), err.Error())
	}
	ctx.JSON(apiErr.Status(), gin.H{"error": apiErr.Message, "kind": apiErr.Kind})
}

func tripHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/trips", func(ctx *gin.Context) {
			var body types.CreateTripRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetString("id")
			userEmail := ctx.GetString("email")
			userName := ctx.GetString("name")
			trip, err := utils.CreateNewTrip(&body, userId, userEmail, userName)
			if err != nil {
				respondAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": trip})
		}).
		GET("/trips", func(ctx *gin.Context) {
			userId := ctx.GetString("id")
			var trips []models.Trip
			db := db.GetDb()
			if err := db.
				Model(&models.Trip{}).
				Where("user_id = ?", userId).
				Order("created_at DESC").
				Find(&trips).
				Error; err != nil {
				respondAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": trips, "count": len(trips)})
		}).
		DELETE("/trips/clear", func(ctx *gin.Context) {
			userId := ctx.GetString("id")
			var deleted int64
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				res := tx.Where("user_id = ?", userId).Delete(&models.Trip{})
				if res.Error != nil {
					return res.Error
				}
				deleted = res.RowsAffected
				return nil
			})
			if err != nil {
				respondAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"deleted": deleted})
		}).
		GET("/trips/:id", func(ctx *gin.Context) {
			var params types.TripURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetString("id")
			var trip models.Trip
			db := db.GetDb()
			if err := db.
				Model(&models.Trip{}).
				Where("id = ? AND user_id = ?", params.ID, userId).
				Preload("Ticket").
				First(&trip).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					respondAPIError(ctx, types.NewAPIError(types.ErrNotFound, "trip not found", err))
					return
				}
				respondAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": trip})
		}).
		PUT("/trips/:id", func(ctx *gin.Context) {
			var params types.TripURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateTripRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetString("id")
			trip, err := common.UpdateTrip(params.ID, userId, &body)
			if err != nil {
				respondAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": trip})
		}).
		DELETE("/trips/:id", func(ctx *gin.Context) {
			var params types.TripURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetString("id")
			db := db.GetDb()
			err := db.Transaction(func(tx *gorm.DB) error {
				res := tx.Where("id = ? AND user_id = ?", params.ID, userId).Delete(&models.Trip{})
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return types.NewAPIError(types.ErrNotFound, "trip not found", nil)
				}
				return nil
			})
			if err != nil {
				respondAPIError(ctx, err)
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}

// tripLinkRoutes are the endpoints the confirmation email points at. They are
// clicked from a mail client, so no bearer token is attached.
func tripLinkRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/trips/reservas/:id/aceptar", func(ctx *gin.Context) {
			var params types.TripURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result, err := common.AcceptTrip(params.ID)
			if err != nil {
				respondAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": result, "detail": result.Detail})
		}).
		GET("/trips/reservas/:id/rechazar", func(ctx *gin.Context) {
			var params types.TripURIParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result, err := common.RejectTrip(params.ID)
			if err != nil {
				respondAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": result, "detail": result.Detail})
		}).
		GET("/trips/confirm-trip", func(ctx *gin.Context) {
			var query types.ConfirmTripQueryParams
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			result, err := common.ConfirmTrip(query.TripID, query.UserEmail)
			if err != nil {
				respondAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": result, "detail": result.Detail})
		})
	return g
}
