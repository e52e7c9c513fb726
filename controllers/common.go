// Package controllers implements the HTTP handlers for the blog API.
package controllers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"blogapi/middleware"
)

// currentUserID returns the acting user's id resolved by the auth middleware.
func currentUserID(ctx *gin.Context) (primitive.ObjectID, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	s, ok := v.(string)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
