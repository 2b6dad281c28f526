package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"wayfinder/src/db"
	"wayfinder/src/models"
	"wayfinder/src/types"
	"wayfinder/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthRegister creates a user account with a bcrypt-hashed password. A taken
// email address fails the whole transaction.
func AuthRegister(ctx *gin.Context) (user *models.User, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, types.NewAPIError(types.ErrValidation, err.Error(), err)
	}

	hash, err := utils.HashPassword(body.Password)
	if err != nil {
		log.Printf("Error hashing password: %s\n", err.Error())
		return nil, http.StatusInternalServerError, types.NewAPIError(types.ErrInternal, "could not register user", err)
	}

	newUser := models.User{
		ID:       uuid.NewString(),
		Name:     body.Name,
		Email:    body.Email,
		Password: hash,
	}

	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", body.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return types.NewAPIError(types.ErrConflict, "email is already registered", nil)
		}
		if err := tx.Create(&newUser).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		apiErr := types.AsAPIError(err)
		log.Printf("Error registering user [%s]: %s\n", body.Email, err.Error())
		return nil, apiErr.Status(), apiErr
	}
	return &newUser, http.StatusOK, nil
}

// AuthLogin verifies credentials and returns a signed session token. A wrong
// password and an unknown email produce distinct error categories, matching
// what the trip endpoints report for their own lookups.
func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	var body types.LoginUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, types.NewAPIError(types.ErrValidation, err.Error(), err)
	}

	db := db.GetDb()
	var user models.User
	if err := db.
		Model(&models.User{}).
		Where("email = ?", body.Email).
		First(&user).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apiErr := types.NewAPIError(types.ErrNotFound, "no account is associated with this email", err)
			return nil, apiErr.Status(), apiErr
		}
		return nil, http.StatusInternalServerError, types.AsAPIError(err)
	}

	if !utils.CheckPasswordHash(body.Password, user.Password) {
		apiErr := types.NewAPIError(types.ErrValidation, "invalid credentials", nil)
		return nil, http.StatusUnauthorized, apiErr
	}

	jwt, err := utils.GenerateJWT(user.Email, user.ID, user.Name)
	if err != nil {
		log.Printf("Error signing token for user [%s]: %s\n", user.ID, err.Error())
		return nil, http.StatusInternalServerError, types.AsAPIError(err)
	}

	go func() {
		if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("last_active", time.Now()).Error; err != nil {
			log.Printf("Error updating last_active for user [%s]: %s\n", user.ID, err.Error())
		}
	}()

	return &jwt, http.StatusOK, nil
}
