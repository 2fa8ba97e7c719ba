// internal/utils/pagination.go
package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageParams is offset based; there is no total count.
type PageParams struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type PageMeta struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

func GetPageParams(c *gin.Context) PageParams {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return PageParams{Limit: limit, Offset: offset}
}

func SetPageHeaders(c *gin.Context, meta PageMeta) {
	c.Header("X-Limit", strconv.Itoa(meta.Limit))
	c.Header("X-Offset", strconv.Itoa(meta.Offset))
	c.Header("X-Has-More", strconv.FormatBool(meta.HasMore))
}
