package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/itemshare/service-sharing/internal/response"
)

// HeaderUserID carries the acting user's id, set by the API gateway after
// it has validated the request.
const HeaderUserID = "X-Sharer-User-Id"

// currentUserID extracts the acting user id from the identity header. On a
// missing or malformed header it writes a 400 and returns false.
func currentUserID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader(HeaderUserID)
	if raw == "" {
		response.BadRequest(c, "missing "+HeaderUserID+" header")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, "invalid "+HeaderUserID+" header")
		return 0, false
	}
	return id, true
}

// pathID parses a positive int64 path parameter. On failure it writes a 400
// and returns false.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// pagination parses the from/size query parameters with their defaults.
// Range validation happens in the services.
func pagination(c *gin.Context) (int, int, bool) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil {
		response.BadRequest(c, "invalid from parameter")
		return 0, 0, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil {
		response.BadRequest(c, "invalid size parameter")
		return 0, 0, false
	}
	return from, size, true
}
