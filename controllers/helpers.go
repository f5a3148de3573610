package controllers

import (
	"github.com/gin-gonic/gin"

	"sigmat-api/services"
	"sigmat-api/utils"
)

// bindJSON decodes the body into req and answers 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.SendValidationError(c, utils.DescribeValidation(err))
		return false
	}
	return true
}

// formUpload reads the multipart "file" field.
func formUpload(c *gin.Context, limit int) (services.Upload, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		utils.SendValidationError(c, "file is required")
		return services.Upload{}, false
	}
	upload, err := utils.ReadUpload(fh, int64(limit))
	if err != nil {
		utils.SendAppError(c, err)
		return services.Upload{}, false
	}
	return upload, true
}
