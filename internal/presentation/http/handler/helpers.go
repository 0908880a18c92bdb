package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetOperatorID extracts the operator ID from the Gin context
func GetOperatorID(c *gin.Context) *uuid.UUID {
	operatorIDVal, exists := c.Get("operator_id")
	if !exists {
		return nil
	}
	operatorID, ok := operatorIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &operatorID
}

// GetOperatorName extracts the operator name from the Gin context
func GetOperatorName(c *gin.Context) string {
	name, exists := c.Get("operator_name")
	if !exists {
		return ""
	}
	return name.(string)
}

// toCents converts a currency-unit amount from the API to integer cents
func toCents(amount float64) int64 {
	if amount < 0 {
		return int64(amount*100 - 0.5)
	}
	return int64(amount*100 + 0.5)
}
