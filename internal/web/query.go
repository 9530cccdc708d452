package web

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"tasknest/internal/store"
)

// listParams is a list request's query string, parsed.
type listParams struct {
	Query store.Query
	Count bool
}

// parseListParams reads where/sort/select/skip/limit/count. where, sort and
// select are JSON passed through to the store natively; sort decodes into a
// bson.D so key order survives. Any parse failure is a client error.
func parseListParams(c *gin.Context) (listParams, error) {
	var p listParams

	if raw := c.Query("where"); raw != "" {
		if err := bson.UnmarshalExtJSON([]byte(raw), false, &p.Query.Filter); err != nil {
			return p, fmt.Errorf("invalid where parameter: %w", err)
		}
	}
	if raw := c.Query("sort"); raw != "" {
		if err := bson.UnmarshalExtJSON([]byte(raw), false, &p.Query.Sort); err != nil {
			return p, fmt.Errorf("invalid sort parameter: %w", err)
		}
	}
	var err error
	if p.Query.Projection, err = parseProjection(c); err != nil {
		return p, err
	}

	if raw := c.Query("skip"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return p, fmt.Errorf("invalid skip parameter: %q", raw)
		}
		p.Query.Skip = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return p, fmt.Errorf("invalid limit parameter: %q", raw)
		}
		p.Query.Limit = n
	}
	if raw := c.Query("count"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return p, fmt.Errorf("invalid count parameter: %q", raw)
		}
		p.Count = b
	}
	return p, nil
}

// parseProjection reads the select parameter, also accepted on single-resource
// GETs.
func parseProjection(c *gin.Context) (bson.M, error) {
	raw := c.Query("select")
	if raw == "" {
		return nil, nil
	}
	var projection bson.M
	if err := bson.UnmarshalExtJSON([]byte(raw), false, &projection); err != nil {
		return nil, fmt.Errorf("invalid select parameter: %w", err)
	}
	return projection, nil
}
