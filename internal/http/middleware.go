package http

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CodeRateLimited marks a request rejected by a rate limiter.
const CodeRateLimited = "rate_limited"

// CORSMiddleware allows browser clients served from the given origins.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}

// RateLimitMiddleware rejects requests with 429 once limiter is exhausted.
// The limiter is shared by every caller of the route.
func RateLimitMiddleware(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		reservation := limiter.Reserve()
		if !reservation.OK() {
			respondRateLimited(c, time.Minute)
			return
		}
		if delay := reservation.Delay(); delay > 0 {
			reservation.Cancel()
			respondRateLimited(c, delay)
			return
		}
		c.Next()
	}
}

func respondRateLimited(c *gin.Context, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	c.Header("Retry-After", strconv.Itoa(seconds))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
		Error: "too many requests, try again later",
		Code:  CodeRateLimited,
	})
}
